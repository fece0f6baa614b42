package models

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every ConfigurationError via errors.Is
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNumericalInstability marks integration steps accepted at the minimum step size
	// with an error norm still above tolerance. Generation continues when it occurs.
	ErrNumericalInstability = errors.New("numerical instability: error norm above tolerance at minimum step")
)

// ConfigurationError reports an invalid generation parameter. It is never retried.
type ConfigurationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) true for any ConfigurationError
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError builds a ConfigurationError
func NewConfigurationError(field string, value interface{}, reason string) error {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}
