// internal/dispatch/errors.go
package dispatch

import "fmt"

// ErrorCode is a string type for structured error reporting from action
// handlers. The codes are stable identifiers the agent can feed back to the
// model.
type ErrorCode string

const (
	ErrCodeUnknownAction     ErrorCode = "UNKNOWN_ACTION_TYPE"
	ErrCodeInvalidParameters ErrorCode = "INVALID_PARAMETERS"
	ErrCodeElementNotFound   ErrorCode = "ELEMENT_NOT_FOUND"
	ErrCodeMissingContext    ErrorCode = "MISSING_CONTEXT"
	ErrCodeExecutionFailure  ErrorCode = "EXECUTION_FAILURE"
)

// Error is a dispatch failure carrying its code.
type Error struct {
	Code ErrorCode
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, msg: fmt.Sprintf(format, args...)}
}

func wrapError(code ErrorCode, err error, format string, args ...any) *Error {
	return &Error{Code: code, msg: fmt.Sprintf(format, args...), err: err}
}
