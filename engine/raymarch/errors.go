package raymarch

import "fmt"

// ConfigurationError reports a missing or malformed pass configuration field.
// It is returned by Configure and LoadOptions and aborts pass construction.
type ConfigurationError struct {
	// Field is the configuration field at fault, e.g. "worldMap" or "lights[2].kind".
	Field string

	// Err describes the problem.
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("raymarch: invalid configuration field %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Err: fmt.Errorf(format, args...)}
}
