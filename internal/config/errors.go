package config

import (
	"github.com/toyz/axonresolve/internal/errors"
)

// newConfigurationError tags a load or validation failure so the CLI can
// report it with hints
func newConfigurationError(path string, cause error) *errors.BaseError {
	base := errors.Wrapf(errors.ConfigurationErrorCode, cause, "invalid configuration: %v", cause)
	if path != "" {
		base.WithContext("file", path)
	}
	base.WithSuggestion("Settings can also be overridden with " + EnvPrefix + "_<SECTION>_<KEY> environment variables")
	return base
}
