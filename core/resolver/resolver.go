package resolver

import (
	"context"
	"fmt"
)

// IAddrResolver looks up the caller's public address.
type IAddrResolver interface {
	String() string
	Resolve(ctx context.Context) (string, error)
}

// Error is a failed address lookup. It only fails the domains that asked
// for the automatic address.
type Error struct {
	URL    string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("resolving address via %s: %s", e.URL, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
