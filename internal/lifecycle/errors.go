package lifecycle

import (
	"errors"
	"fmt"
)

var ErrTransitionNotAllowed = errors.New("transition not allowed")

// TransitionError reports an event fired against a status that has no
// outgoing edge for it.
type TransitionError struct {
	Entity string
	From   string
	Event  string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot handle %s", e.Entity, e.From, e.Event)
}

func (e *TransitionError) Unwrap() error {
	return ErrTransitionNotAllowed
}
