// Package annotation parses textual parameter declarations such as
//
//	filter? = nil @FromQuery(name="q", enforceTypes=true)
//
// into resolve markers. Marker names map to factories held by a Registry;
// FromBody and FromQuery are always available.
package annotation

import (
	"fmt"
	"sort"
	"sync"

	"github.com/toyz/axonresolve/internal/errors"
	"github.com/toyz/axonresolve/pkg/resolve"
)

// Args holds the named arguments of one marker. Values are string, int,
// float64, bool or nil.
type Args map[string]interface{}

// Factory builds a marker from its arguments
type Factory func(args Args) (resolve.Marker, error)

// Registry maps marker names to factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry with the builtin markers
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
	}
	r.factories["FromBody"] = newFromBody
	r.factories["FromQuery"] = newFromQuery
	return r
}

// Default is the registry used by the package level helpers
var Default = NewRegistry()

// Register adds a marker factory under name
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.New(errors.RegistrationErrorCode, "marker name cannot be empty")
	}
	if factory == nil {
		return errors.Newf(errors.RegistrationErrorCode, "marker '%s' has a nil factory", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.Newf(errors.RegistrationErrorCode, "marker '%s' already registered", name).
			WithContext("marker", name).
			WithSuggestion("Choose a different marker name")
	}

	r.factories[name] = factory
	return nil
}

// Has reports whether a factory is registered for name
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// Names returns every registered marker name, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) factory(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, exists := r.factories[name]
	return f, exists
}

func newFromBody(args Args) (resolve.Marker, error) {
	m := resolve.FromBody{}
	for key, value := range args {
		switch key {
		case "format":
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("format must be a string, got %T", value)
			}
			format := resolve.Format(s)
			if !format.Valid() {
				return nil, fmt.Errorf("unknown format '%s', expected one of %v", s, resolve.Formats)
			}
			m.Format = format
		default:
			return nil, fmt.Errorf("unknown argument '%s'", key)
		}
	}
	return m, nil
}

func newFromQuery(args Args) (resolve.Marker, error) {
	m := resolve.FromQuery{}
	for key, value := range args {
		switch key {
		case "name", "paramName":
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be a string, got %T", key, value)
			}
			m.Name = s
		case "enforceTypes", "disableTypeEnforcement":
			b, ok := value.(bool)
			if !ok {
				return nil, fmt.Errorf("%s must be a bool, got %T", key, value)
			}
			if key == "disableTypeEnforcement" {
				b = !b
			}
			m.EnforceTypes = b
		default:
			return nil, fmt.Errorf("unknown argument '%s'", key)
		}
	}
	return m, nil
}
