package resolve

import (
	"reflect"

	"github.com/toyz/axonresolve/pkg/axon"
)

// QueryResolver reads an argument from the query string.
//
// Complex shapes are denormalized from the whole query mapping; anything
// else is read from the single key named by the marker or the argument.
type QueryResolver struct {
	denormalizer Denormalizer
	shapes       ShapeCatalog
}

// NewQueryResolver creates a QueryResolver
func NewQueryResolver(denormalizer Denormalizer, shapes ShapeCatalog) *QueryResolver {
	return &QueryResolver{
		denormalizer: denormalizer,
		shapes:       shapes,
	}
}

// SupportedMarker implements Resolver
func (r *QueryResolver) SupportedMarker() MarkerType {
	return FromQueryMarker
}

// Resolve implements Resolver. A missing value falls back to the declared
// default, then to nil for nullable arguments, and otherwise fails.
func (r *QueryResolver) Resolve(req axon.RequestContext, arg *Argument, marker Marker) (interface{}, error) {
	var m FromQuery
	switch v := marker.(type) {
	case FromQuery:
		m = v
	case *FromQuery:
		m = *v
	default:
		return nil, newUnexpectedMarkerError("query", marker)
	}

	key := m.Name
	if key == "" {
		key = arg.Name
	}

	query := axon.NewQueryMap(req).Tree()

	target, complexShape := r.shapes.Constructible(arg.Type)

	var value interface{}
	if complexShape {
		var err error
		value, err = r.denormalizer.Denormalize(query, target, DenormalizeOptions{EnforceTypes: m.EnforceTypes})
		if err != nil {
			return nil, err
		}
	} else {
		value = query[key]
	}

	if isNil(value) {
		if arg.HasDefault {
			return arg.Default, nil
		}
		if arg.Nullable {
			return nil, nil
		}
		if complexShape {
			return nil, NewConstructionError(arg.Type)
		}
		return nil, NewUnresolvableArgumentError(key)
	}

	if complexShape {
		return value, nil
	}
	return r.coerce(key, arg.Type, value)
}

// coerce converts the raw query value to the declared scalar type
func (r *QueryResolver) coerce(key, typeName string, value interface{}) (interface{}, error) {
	if typeName == "" {
		return value, nil
	}

	canonical := r.shapes.Canonical(typeName)
	if canonical == "bool" {
		return coerceBool(value), nil
	}

	scalar, ok := r.shapes.Scalar(canonical)
	if !ok {
		return value, nil
	}

	raw, ok := value.(string)
	if !ok {
		return nil, NewScalarConversionError(key, scalar.Name, value, nil)
	}
	parsed, err := scalar.Parse(raw)
	if err != nil {
		return nil, NewScalarConversionError(key, scalar.Name, value, err)
	}
	return parsed, nil
}

// coerceBool treats "false" and "" as false and any other text as true.
// "0" is therefore true.
func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case string:
		return v != "false" && v != ""
	case bool:
		return v
	default:
		return truthy(value)
	}
}

func truthy(value interface{}) bool {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Invalid:
		return false
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	default:
		return !rv.IsZero()
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
