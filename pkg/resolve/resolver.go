package resolve

import (
	"reflect"

	"github.com/toyz/axonresolve/pkg/axon"
	"github.com/toyz/axonresolve/pkg/shape"
)

// Resolver produces a value for an argument from one kind of marker.
//
// Resolve is only called with a marker of the type SupportedMarker returns.
// A nil value with a nil error means no value was available; the resolver
// applies its own fallback before returning. Any error is returned to the
// caller unchanged. Implementations are shared across requests and must not
// keep per-call state.
type Resolver interface {
	SupportedMarker() MarkerType
	Resolve(req axon.RequestContext, arg *Argument, marker Marker) (interface{}, error)
}

// Deserializer decodes raw body content into a new value of target
type Deserializer interface {
	Deserialize(content []byte, target reflect.Type, format Format) (interface{}, error)
}

// DenormalizeOptions tunes a Denormalizer call
type DenormalizeOptions struct {
	EnforceTypes bool
}

// Denormalizer builds a value of target from a nested key/value mapping.
// It returns nil when nothing in data applies to target.
type Denormalizer interface {
	Denormalize(data map[string]interface{}, target reflect.Type, opts DenormalizeOptions) (interface{}, error)
}

// ShapeCatalog answers which declared type names are constructible shapes
// and which are builtin scalars
type ShapeCatalog interface {
	Constructible(name string) (reflect.Type, bool)
	Scalar(name string) (shape.Scalar, bool)
	Canonical(name string) string
}

var _ ShapeCatalog = (*shape.Catalog)(nil)

// TypeOf returns the identity of a resolver: its concrete Go type
func TypeOf(r Resolver) reflect.Type {
	return reflect.TypeOf(r)
}

// ResolverName renders a resolver type for humans. The short form is the bare
// type name ("BodyResolver"); the verbose form includes the import path.
func ResolverName(t reflect.Type, verbose bool) string {
	if t == nil {
		return "<nil>"
	}
	prefix := ""
	for t.Kind() == reflect.Ptr {
		prefix += "*"
		t = t.Elem()
	}
	if t.Name() == "" {
		return prefix + t.String()
	}
	if !verbose {
		return t.Name()
	}
	if t.PkgPath() == "" {
		return prefix + t.Name()
	}
	return prefix + t.PkgPath() + "." + t.Name()
}
