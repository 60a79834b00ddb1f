package firestore

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error is a failed collection write. Unavailable marks outages worth retrying later.
type Error struct {
	Collection  string
	err         error
	unavailable bool
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("firestore: %s: %v", e.Collection, e.err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// IsUnavailable reports whether the backend was unreachable or overloaded.
func (e *Error) IsUnavailable() bool {
	return e != nil && e.unavailable
}

// IsUnavailable reports whether err carries an unavailable *Error.
func IsUnavailable(err error) bool {
	var ferr *Error
	return errors.As(err, &ferr) && ferr.IsUnavailable()
}

// WrapError tags a write failure against collection. Cancellation is returned as the
// matching context error.
func WrapError(collection string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	switch code := status.Code(err); code {
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	case codes.Unavailable, codes.ResourceExhausted:
		return &Error{Collection: collection, err: err, unavailable: true}
	}
	return &Error{Collection: collection, err: err}
}
