package trips

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation error")
	// ErrStorage matches every *StorageError via errors.Is.
	ErrStorage = errors.New("storage error")
	// ErrCorruptData is wrapped by the StorageError returned when the stored
	// collection exists but cannot be decoded.
	ErrCorruptData = errors.New("corrupt trip data")
)

// Reason identifies which validation rule rejected a candidate.
type Reason string

const (
	ReasonMissingDestination Reason = "missing destination"
	ReasonMissingDates       Reason = "missing dates"
	ReasonInvalidDate        Reason = "invalid date"
	ReasonInvalidDateRange   Reason = "invalid date range"
	ReasonInvalidBudget      Reason = "invalid budget"
)

// ValidationError reports malformed or missing input. The collection is left
// unchanged.
type ValidationError struct {
	Field  string
	Reason Reason
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ValidationError: %s: %v", e.Reason, e.Err)
	}
	return "ValidationError: " + string(e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StorageError reports that the key-value store could not be read or written,
// or that its contents are unusable.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("StorageError: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// AsValidation extracts a *ValidationError from err's chain.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)
	return v, ok
}

func IsStorage(err error) bool {
	var s *StorageError
	return errors.As(err, &s)
}
