package sim

import (
	"errors"
	"fmt"
)

// Domain errors for configuration and run control.
var (
	// ErrShapeMismatch indicates a matrix or vector whose dimensions disagree
	// with the population count.
	ErrShapeMismatch = errors.New("sim: shape mismatch")

	// ErrInvalidRange indicates a parameter outside its valid range.
	ErrInvalidRange = errors.New("sim: value out of range")

	// ErrRunActive indicates an attempt to change the population count while
	// a run is in progress.
	ErrRunActive = errors.New("sim: run is active")
)

// ErrorKind classifies a ConfigError.
type ErrorKind int

const (
	ShapeMismatch ErrorKind = iota
	InvalidRange
)

func (k ErrorKind) String() string {
	switch k {
	case ShapeMismatch:
		return "ShapeMismatch"
	case InvalidRange:
		return "InvalidRange"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ConfigError is returned by Configure and Validate. It is raised only at
// configuration boundaries and never mid-run.
type ConfigError struct {
	Kind   ErrorKind
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sim: %s: %s: %s", e.Kind, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	if e.Kind == ShapeMismatch {
		return ErrShapeMismatch
	}
	return ErrInvalidRange
}

func shapeErr(field, format string, args ...any) error {
	return &ConfigError{Kind: ShapeMismatch, Field: field, Reason: fmt.Sprintf(format, args...)}
}

func rangeErr(field, format string, args ...any) error {
	return &ConfigError{Kind: InvalidRange, Field: field, Reason: fmt.Sprintf(format, args...)}
}
