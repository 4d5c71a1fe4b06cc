package codec

import (
	"reflect"

	"github.com/toyz/axonresolve/internal/errors"
	"github.com/toyz/axonresolve/pkg/resolve"
)

// UnsupportedFormatError is returned for a body format no decoder handles
type UnsupportedFormatError struct {
	*errors.BaseError
	Format resolve.Format
}

func newUnsupportedFormatError(format resolve.Format) *UnsupportedFormatError {
	base := errors.Newf(errors.UnsupportedFormatErrorCode, "Unsupported body format '%s'.", format)
	base.WithContext("format", string(format))
	for _, known := range resolve.Formats {
		base.WithSuggestion("use " + string(known))
	}
	return &UnsupportedFormatError{BaseError: base, Format: format}
}

// DeserializationError wraps a decoder failure for a request body
type DeserializationError struct {
	*errors.BaseError
	Format resolve.Format
	Target reflect.Type
}

func newDeserializationError(format resolve.Format, target reflect.Type, cause error) *DeserializationError {
	base := errors.Wrapf(errors.DeserializationErrorCode, cause, "Could not decode %s body into '%s': %v", format, target, cause)
	base.WithContext("format", string(format))
	base.WithContext("target", target.String())
	return &DeserializationError{BaseError: base, Format: format, Target: target}
}

// DenormalizationError wraps a mapping failure for query parameters
type DenormalizationError struct {
	*errors.BaseError
	Target reflect.Type
}

func newDenormalizationError(target reflect.Type, cause error) *DenormalizationError {
	base := errors.Wrapf(errors.DenormalizationErrorCode, cause, "Could not denormalize query parameters into '%s': %v", target, cause)
	base.WithContext("target", target.String())
	return &DenormalizationError{BaseError: base, Target: target}
}
