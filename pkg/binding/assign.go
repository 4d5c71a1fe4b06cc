package binding

import (
	"fmt"
	"reflect"
)

// assign adapts a resolved value to the Go parameter type t. Resolvers
// return constructed shapes as pointers; parameters may take them by value
// or by pointer. Numeric values convert between numeric kinds.
func assign(value interface{}, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}

	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		out := reflect.New(t).Elem()
		out.Set(v)
		return out, nil
	}

	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Zero(t), nil
		}
		return assign(v.Elem().Interface(), t)
	}

	if t.Kind() == reflect.Ptr {
		elem, err := assign(value, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}

	if v.Kind() == reflect.Slice && t.Kind() == reflect.Slice {
		out := reflect.MakeSlice(t, v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, err := assign(v.Index(i).Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(elem)
		}
		return out, nil
	}

	if convertible(v.Type(), t) {
		return v.Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", value, t)
}

func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	return (isNumeric(from.Kind()) && isNumeric(to.Kind())) ||
		(from.Kind() == reflect.String && to.Kind() == reflect.String) ||
		(from.Kind() == reflect.Bool && to.Kind() == reflect.Bool)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
