package matching

import "fmt"

// ValidationError indicates that an input batch cannot be matched as-is,
// for example because a mandatory column is missing. Matching never starts
// when validation fails.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
