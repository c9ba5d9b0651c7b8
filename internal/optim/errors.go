package optim

import (
	"errors"
	"fmt"

	"github.com/born-ml/wame/internal/tensor"
)

// Common errors.
var (
	ErrShapeMismatch         = errors.New("gradient shape does not match parameter shape")
	ErrInvalidHyperparameter = errors.New("invalid hyperparameter")
	ErrUnknownVariant        = errors.New("unknown optimizer variant")
	ErrInvalidState          = errors.New("invalid optimizer state")
)

// ShapeError reports a gradient or state tensor whose shape differs from its
// parameter. It matches ErrShapeMismatch under errors.Is.
type ShapeError struct {
	Param string       // Parameter name or state key
	Want  tensor.Shape // Parameter shape
	Got   tensor.Shape // Offending shape
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %q: want %v, got %v", ErrShapeMismatch, e.Param, e.Want, e.Got)
}

// Unwrap returns ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// HyperparameterError reports an out-of-range hyperparameter. It matches
// ErrInvalidHyperparameter under errors.Is.
type HyperparameterError struct {
	Field  string  // Config key, e.g. "beta"
	Value  float64 // Rejected value
	Reason string  // Constraint that failed
}

// Error implements the error interface.
func (e *HyperparameterError) Error() string {
	return fmt.Sprintf("%s: %s=%g: %s", ErrInvalidHyperparameter, e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidHyperparameter.
func (e *HyperparameterError) Unwrap() error {
	return ErrInvalidHyperparameter
}

// StateError reports a loaded state tensor that breaks the optimizer's
// invariants. It matches ErrInvalidState under errors.Is.
type StateError struct {
	Key    string // State dict key, e.g. "zeta.0"
	Reason string // What is wrong with it
}

// Error implements the error interface.
func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %q: %s", ErrInvalidState, e.Key, e.Reason)
}

// Unwrap returns ErrInvalidState.
func (e *StateError) Unwrap() error {
	return ErrInvalidState
}
