package resolve

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/axonresolve/internal/errors"
)

// ResolverConflict names a marker claimed by more than one resolver
type ResolverConflict struct {
	Marker    MarkerType
	Resolvers []string
}

// DuplicateResolverError is returned when building a Registry in which one or
// more markers have several claimants. It lists every conflicting marker.
type DuplicateResolverError struct {
	*errors.BaseError
	Conflicts []ResolverConflict
}

func newDuplicateResolverError(conflicts []ResolverConflict) *DuplicateResolverError {
	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].Marker < conflicts[j].Marker
	})

	lines := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		lines = append(lines, fmt.Sprintf("  %s: %s", c.Marker, strings.Join(c.Resolvers, ", ")))
	}

	base := errors.Newf(errors.DuplicateResolverErrorCode,
		"duplicate meta resolvers detected for %d marker(s):\n%s", len(conflicts), strings.Join(lines, "\n"))
	base.WithContext("conflicts", len(conflicts))
	base.WithSuggestion("Register exactly one resolver per marker type")

	return &DuplicateResolverError{BaseError: base, Conflicts: conflicts}
}

// UnresolvableArgumentError is returned when a non-nullable scalar argument
// without a default has no value in the query string
type UnresolvableArgumentError struct {
	*errors.BaseError
	// Name is the effective lookup key
	Name string
}

// NewUnresolvableArgumentError creates an UnresolvableArgumentError for name
func NewUnresolvableArgumentError(name string) *UnresolvableArgumentError {
	base := errors.Newf(errors.UnresolvableArgumentErrorCode,
		"Unable to resolve argument with name '%s' from query parameters.", name)
	base.WithContext("argument", name)
	return &UnresolvableArgumentError{BaseError: base, Name: name}
}

// ConstructionError is returned when a non-nullable complex argument without
// a default could not be built from the query string
type ConstructionError struct {
	*errors.BaseError
	Shape string
}

// NewConstructionError creates a ConstructionError for the named shape
func NewConstructionError(shapeName string) *ConstructionError {
	base := errors.Newf(errors.ConstructionErrorCode,
		"Could not create instance of '%s' from query parameters.", shapeName)
	base.WithContext("shape", shapeName)
	return &ConstructionError{BaseError: base, Shape: shapeName}
}

// ScalarConversionError is returned when a query value cannot be parsed into
// the declared scalar type
type ScalarConversionError struct {
	*errors.BaseError
	Name  string
	Type  string
	Value interface{}
}

// NewScalarConversionError creates a ScalarConversionError
func NewScalarConversionError(name, typeName string, value interface{}, cause error) *ScalarConversionError {
	base := errors.Newf(errors.ScalarConversionErrorCode,
		"Query parameter '%s' is not a valid %s.", name, typeName)
	base.WithCause(cause)
	base.WithContext("argument", name)
	base.WithContext("type", typeName)
	return &ScalarConversionError{BaseError: base, Name: name, Type: typeName, Value: value}
}

// BodyReadError is returned when the request body could not be read in full
type BodyReadError struct {
	*errors.BaseError
}

// NewBodyReadError wraps the read failure
func NewBodyReadError(cause error) *BodyReadError {
	base := errors.Wrapf(errors.BodyReadErrorCode, cause, "Could not read request body: %v", cause)
	return &BodyReadError{BaseError: base}
}

// InvariantError is the panic value raised when the dispatcher is used in a
// way correct wiring never allows
type InvariantError struct {
	*errors.BaseError
	Argument string
}

func newInvariantError(arg *Argument, format string, args ...interface{}) *InvariantError {
	name := argumentName(arg)
	base := errors.Newf(errors.InvariantErrorCode, format, args...)
	base.WithContext("argument", name)
	return &InvariantError{BaseError: base, Argument: name}
}

func argumentName(arg *Argument) string {
	if arg == nil {
		return ""
	}
	return arg.Name
}

// UnexpectedMarkerError is returned when a resolver is handed a marker of a
// type it does not claim
type UnexpectedMarkerError struct {
	*errors.BaseError
	Resolver string
	Marker   Marker
}

func newUnexpectedMarkerError(resolver string, marker Marker) *UnexpectedMarkerError {
	base := errors.Newf(errors.InvariantErrorCode, "%s resolver: unexpected marker %T", resolver, marker)
	base.WithContext("resolver", resolver)
	return &UnexpectedMarkerError{BaseError: base, Resolver: resolver, Marker: marker}
}

// IsClientError reports whether err, or an error it wraps, was caused by the
// request rather than the wiring. Such errors map to a bad request.
func IsClientError(err error) bool {
	var coded errors.CodedError
	if stderrors.As(err, &coded) {
		return coded.ErrorCode().IsClientError()
	}
	return false
}
