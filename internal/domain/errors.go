package domain

import "fmt"

// NotFoundError represents a missing resource. A tenant mismatch is reported
// with the same error so callers cannot distinguish "wrong tenant" from
// "no such record".
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ValidationError represents a missing or malformed input field. It is fatal
// to the single operation and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("validation failed: %s is required", e.Field)
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// Is enables errors.Is matching on ValidationError.
func (e ValidationError) Is(target error) bool {
	_, ok := target.(ValidationError)
	if ok {
		return true
	}
	_, ok = target.(*ValidationError)
	return ok
}

// ErrValidation is the sentinel error for invalid input.
var ErrValidation = ValidationError{}

// UnknownTaskError represents an operation name the engine does not recognize.
type UnknownTaskError struct {
	Task string
}

func (e UnknownTaskError) Error() string {
	return fmt.Sprintf("unknown task: %s", e.Task)
}

// Is enables errors.Is matching on UnknownTaskError.
func (e UnknownTaskError) Is(target error) bool {
	_, ok := target.(UnknownTaskError)
	if ok {
		return true
	}
	_, ok = target.(*UnknownTaskError)
	return ok
}

// ErrUnknownTask is the sentinel error for unrecognized tasks.
var ErrUnknownTask = UnknownTaskError{}
