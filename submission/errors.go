package submission

import (
	"errors"
	"fmt"
)

// ErrMissingID is returned by Delete when no submission id is given.
// Without it the request would target the whole submission collection.
var ErrMissingID = errors.New("submission id is required")

// OperationError is the single failure kind surfaced by store operations.
// Err is whatever the client returned; it is not classified here.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("submission: %s failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// IsOperationError reports whether err came from a store operation.
func IsOperationError(err error) bool {
	var opErr *OperationError
	return errors.As(err, &opErr)
}
