package compiler

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a pipeline that cannot be built from its
// connections: unknown templates, incompatible types, missing dependencies,
// undefined raw inputs or cyclic forks.
type ConfigurationError struct {
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ProcessError reports a pipeline whose processes cannot coexist, such as
// clashing status channels or a pipeline without any raw input.
type ProcessError struct {
	Message string
	// Channels holds the full status channel list when the error was caused
	// by duplicates.
	Channels []string
}

func (e *ProcessError) Error() string {
	if len(e.Channels) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s; status channels:\n\n%s", e.Message, strings.Join(e.Channels, ", "))
}

func configErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}
