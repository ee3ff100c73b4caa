package flow

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/pointeuse/punch"
)

// AuthError means the credential/code flow failed or the session ended up
// misrouted. Run-fatal.
type AuthError struct {
	Msg   string
	Cause error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("auth: %s: %v", e.Msg, e.Cause)
	}
	return "auth: " + e.Msg
}

func (e *AuthError) Unwrap() error { return e.Cause }

func authErr(msg string, cause error) *AuthError {
	return &AuthError{Msg: msg, Cause: cause}
}

// NavigationError means neither the UI path nor the URL fallback reached
// the timesheet view. Run-fatal.
type NavigationError struct {
	Msg   string
	Cause error
}

func (e *NavigationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("navigate: %s: %v", e.Msg, e.Cause)
	}
	return "navigate: " + e.Msg
}

func (e *NavigationError) Unwrap() error { return e.Cause }

// SelectionError means every kind-selection strategy was exhausted for one
// entry. Entry-local: it lands in that entry's result, never aborts the run.
type SelectionError struct {
	Kind     punch.Kind
	Label    string
	Attempts []string // one line per failed strategy
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("selection: no strategy matched kind %s (%q): %s",
		e.Kind, e.Label, strings.Join(e.Attempts, "; "))
}
