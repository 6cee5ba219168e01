package config

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRequiredSetting is returned when a required key has no value and no default.
	ErrMissingRequiredSetting = errors.New("missing required setting")
	// ErrMalformedValue is returned when a value cannot be cast to the declared type.
	ErrMalformedValue = errors.New("malformed setting value")
)

// SettingError identifies the key that failed to resolve.
type SettingError struct {
	Key   string
	Value string
	Err   error
}

func (e *SettingError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("%s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *SettingError) Unwrap() error {
	return e.Err
}

func missing(key string) error {
	return &SettingError{Key: key, Err: ErrMissingRequiredSetting}
}

func malformed(key, value string, cause error) error {
	if cause == nil {
		return &SettingError{Key: key, Value: value, Err: ErrMalformedValue}
	}
	return &SettingError{Key: key, Value: value, Err: fmt.Errorf("%w: %v", ErrMalformedValue, cause)}
}
