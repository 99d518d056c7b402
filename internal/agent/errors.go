package agent

import (
	"errors"
	"fmt"
)

// ErrIterationLimit is returned when a turn exhausts its iteration budget
// without the model producing a final answer.
var ErrIterationLimit = errors.New("max iterations exceeded")

// BackendError wraps a model backend failure. Unlike tool-level errors, which
// are fed back to the model as tool results, a backend error ends the turn.
type BackendError struct {
	Provider string
	Err      error
}

func (e *BackendError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("model backend error: %v", e.Err)
	}
	return fmt.Sprintf("model backend error (%s): %v", e.Provider, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
