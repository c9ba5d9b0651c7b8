package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch  = errors.New("checksum mismatch: file may be corrupted")
	ErrMissingOptimizer  = errors.New("missing optimizer name")
	ErrDuplicateParam    = errors.New("duplicate parameter name")
	ErrUnknownParam      = errors.New("checkpoint parameter not found in optimizer")
	ErrMissingParam      = errors.New("optimizer parameter not found in checkpoint")
	ErrInvalidTensorData = errors.New("tensor data does not match shape")
)

// ValidationError provides detailed information about checkpoint validation failures.
type ValidationError struct {
	Err     error  // One of the sentinel errors above
	Tensor  string // Tensor or parameter name involved
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %q", e.Err, e.Tensor)
	}
	return fmt.Sprintf("%s: %q: %s", e.Err, e.Tensor, e.Details)
}

// Unwrap returns the sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
