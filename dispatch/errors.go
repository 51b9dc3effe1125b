package dispatch

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every ConfigurationError.
var ErrConfiguration = errors.New("dispatch table misconfigured")

// ConfigurationError reports a table that was sized or filled incorrectly.
// It is a programming error of the code that builds the table.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "dispatch: " + e.Reason
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
