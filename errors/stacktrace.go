package errors

import (
	"github.com/pkg/errors"
)

// stackTracer is implemented by errors that carry a stack trace. This is
// the interface exposed by github.com/pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the stack trace attached to given error or nil if no
// layer of the wrap chain carries one.
func stackTrace(err error) errors.StackTrace {
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
	return nil
}
