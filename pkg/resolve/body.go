package resolve

import (
	"github.com/toyz/axonresolve/pkg/axon"
)

// BodyResolver deserializes the request body into the argument's shape
type BodyResolver struct {
	deserializer Deserializer
	shapes       ShapeCatalog
}

// NewBodyResolver creates a BodyResolver
func NewBodyResolver(deserializer Deserializer, shapes ShapeCatalog) *BodyResolver {
	return &BodyResolver{
		deserializer: deserializer,
		shapes:       shapes,
	}
}

// SupportedMarker implements Resolver
func (r *BodyResolver) SupportedMarker() MarkerType {
	return FromBodyMarker
}

// Resolve returns nil when the argument has no declared type or its type is
// not a constructible shape. Deserialization errors are returned as-is; a
// failed body read is reported as a *BodyReadError.
func (r *BodyResolver) Resolve(req axon.RequestContext, arg *Argument, marker Marker) (interface{}, error) {
	var m FromBody
	switch v := marker.(type) {
	case FromBody:
		m = v
	case *FromBody:
		m = *v
	default:
		return nil, newUnexpectedMarkerError("body", marker)
	}

	if arg.Type == "" {
		return nil, nil
	}
	target, ok := r.shapes.Constructible(arg.Type)
	if !ok {
		return nil, nil
	}

	body, err := readBody(req.Request())
	if err != nil {
		return nil, NewBodyReadError(err)
	}
	return r.deserializer.Deserialize(body, target, m.EffectiveFormat())
}

func readBody(req axon.RequestInterface) ([]byte, error) {
	if reader, ok := req.(axon.BodyReader); ok {
		return reader.ReadBody()
	}
	return req.Body(), nil
}
