package shape

import (
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// ScalarParser converts the textual form of a scalar into its Go value
type ScalarParser func(raw string) (interface{}, error)

// Scalar describes a builtin, non-constructible type
type Scalar struct {
	Name  string
	Type  reflect.Type
	Parse ScalarParser
}

// BuiltinScalars contains every scalar type known without registration
var BuiltinScalars = map[string]Scalar{
	"string":        {Name: "string", Type: reflect.TypeOf(""), Parse: ParseString},
	"bool":          {Name: "bool", Type: reflect.TypeOf(false), Parse: ParseBool},
	"int":           {Name: "int", Type: reflect.TypeOf(0), Parse: ParseInt},
	"int32":         {Name: "int32", Type: reflect.TypeOf(int32(0)), Parse: ParseInt32},
	"int64":         {Name: "int64", Type: reflect.TypeOf(int64(0)), Parse: ParseInt64},
	"uint":          {Name: "uint", Type: reflect.TypeOf(uint(0)), Parse: ParseUint},
	"float64":       {Name: "float64", Type: reflect.TypeOf(float64(0)), Parse: ParseFloat64},
	"float32":       {Name: "float32", Type: reflect.TypeOf(float32(0)), Parse: ParseFloat32},
	"uuid.UUID":     {Name: "uuid.UUID", Type: reflect.TypeOf(uuid.UUID{}), Parse: ParseUUID},
	"time.Time":     {Name: "time.Time", Type: reflect.TypeOf(time.Time{}), Parse: ParseTime},
	"time.Duration": {Name: "time.Duration", Type: reflect.TypeOf(time.Duration(0)), Parse: ParseDuration},
}

// Aliases maps convenient aliases to their full type names
var Aliases = map[string]string{
	"UUID":     "uuid.UUID",
	"float":    "float64", // Default float to float64
	"double":   "float64", // Common alias for float64
	"boolean":  "bool",
	"integer":  "int",
	"duration": "time.Duration",
}

// ParseString returns the value as-is
func ParseString(raw string) (interface{}, error) {
	return raw, nil
}

// ParseBool parses strconv-style booleans ("1", "t", "true", ...)
func ParseBool(raw string) (interface{}, error) {
	return strconv.ParseBool(raw)
}

// ParseInt parses a base 10 int
func ParseInt(raw string) (interface{}, error) {
	return strconv.Atoi(raw)
}

// ParseInt32 parses a base 10 int32
func ParseInt32(raw string) (interface{}, error) {
	return cast.ToInt32E(raw)
}

// ParseInt64 parses a base 10 int64
func ParseInt64(raw string) (interface{}, error) {
	return strconv.ParseInt(raw, 10, 64)
}

// ParseUint parses a base 10 uint
func ParseUint(raw string) (interface{}, error) {
	return cast.ToUintE(raw)
}

// ParseFloat64 parses a float64
func ParseFloat64(raw string) (interface{}, error) {
	return strconv.ParseFloat(raw, 64)
}

// ParseFloat32 parses a float32
func ParseFloat32(raw string) (interface{}, error) {
	val, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return nil, err
	}
	return float32(val), nil
}

// ParseUUID parses a UUID in any of the forms accepted by uuid.Parse
func ParseUUID(raw string) (interface{}, error) {
	return uuid.Parse(raw)
}

// ParseTime parses RFC 3339 timestamps and the other layouts cast understands
func ParseTime(raw string) (interface{}, error) {
	return cast.ToTimeE(raw)
}

// ParseDuration parses Go duration strings ("1m30s")
func ParseDuration(raw string) (interface{}, error) {
	return time.ParseDuration(raw)
}

// ResolveAlias resolves a type alias to its actual type name
func ResolveAlias(typeName string) string {
	if actualType, isAlias := Aliases[typeName]; isAlias {
		return actualType
	}
	return typeName
}
