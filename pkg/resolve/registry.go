package resolve

import (
	"reflect"
	"sort"

	"github.com/samber/lo"
)

// Entry is one marker to resolver mapping
type Entry struct {
	Marker   MarkerType
	Resolver reflect.Type
}

// Registry maps marker types to resolver types. It is immutable once built
// and safe for concurrent reads.
type Registry struct {
	resolvers map[MarkerType]reflect.Type
}

// NewRegistry builds a registry from every known resolver. Nil resolvers are
// skipped. If any marker is claimed by more than one resolver type, no
// registry is returned and the error lists every such marker.
func NewRegistry(resolvers ...Resolver) (*Registry, error) {
	claimants := make(map[MarkerType][]reflect.Type)
	order := make([]MarkerType, 0, len(resolvers))

	for _, r := range resolvers {
		if r == nil {
			continue
		}
		marker := r.SupportedMarker()
		if _, seen := claimants[marker]; !seen {
			order = append(order, marker)
		}
		claimants[marker] = append(claimants[marker], TypeOf(r))
	}

	var conflicts []ResolverConflict
	m := make(map[MarkerType]reflect.Type, len(claimants))
	for _, marker := range order {
		types := claimants[marker]
		if len(types) > 1 {
			names := lo.Map(types, func(t reflect.Type, _ int) string {
				return ResolverName(t, true)
			})
			sort.Strings(names)
			conflicts = append(conflicts, ResolverConflict{Marker: marker, Resolvers: names})
			continue
		}
		m[marker] = types[0]
	}

	if len(conflicts) > 0 {
		return nil, newDuplicateResolverError(conflicts)
	}

	return &Registry{resolvers: m}, nil
}

// MustNewRegistry is like NewRegistry but panics on error
func MustNewRegistry(resolvers ...Resolver) *Registry {
	reg, err := NewRegistry(resolvers...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Has reports whether a resolver is registered for marker
func (r *Registry) Has(marker MarkerType) bool {
	_, exists := r.resolvers[marker]
	return exists
}

// Lookup returns the resolver type registered for marker
func (r *Registry) Lookup(marker MarkerType) (reflect.Type, bool) {
	t, exists := r.resolvers[marker]
	return t, exists
}

// Len returns the number of registered markers
func (r *Registry) Len() int {
	return len(r.resolvers)
}

// Entries returns every mapping ordered by marker type
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.resolvers))
	for marker, resolver := range r.resolvers {
		entries = append(entries, Entry{Marker: marker, Resolver: resolver})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Marker < entries[j].Marker
	})
	return entries
}
