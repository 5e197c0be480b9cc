package credential

import (
	"context"
	"fmt"
)

// ITokenSource yields the provider token for one run.
type ITokenSource interface {
	String() string
	Token(ctx context.Context) (string, error)
}

// Error is a failure to obtain the token. It is fatal for the run.
type Error struct {
	Command string
	Reason  string
	// Stderr is the tail of the command's standard error
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("credential command %q %s", e.Command, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf(" (stderr: %q)", e.Stderr)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
