package config

import (
	"errors"
	"fmt"
)

// ErrUninitialized is returned when the snapshot is read before Initialize succeeded.
var ErrUninitialized = errors.New("config: registry not initialized")

// ErrNotFinite is wrapped by a ParseError for NaN and infinite floats.
var ErrNotFinite = errors.New("value is not finite")

// ParseError reports an environment value that could not be converted to its
// declared type. It is fatal for registry construction.
type ParseError struct {
	Key   string
	Value string
	Type  string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s=%q as %s: %v", e.Key, e.Value, e.Type, e.Err)
}

// Unwrap returns underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
