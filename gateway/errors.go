package gateway

import (
	"errors"
	"fmt"
)

// Transport-level errors. These propagate identically to every pending
// request and push consumer when the reader fails (§4.1 fanout).
var (
	// ErrClosed is returned by Request when no connection is open at the
	// moment its frame would be written (the connection dropped or was
	// closed after Request's own Connect). Request and NextPush otherwise
	// reopen a closed connection through Connect before doing any work.
	ErrClosed = errors.New("lightq/gateway: connection closed")

	// ErrConnectionDropped is the cause fanned out to pending waiters when
	// the reader's read or frame decode fails.
	ErrConnectionDropped = errors.New("lightq/gateway: connection dropped")

	// ErrDuplicateWaiter signals an attempt to register two response
	// waiters under the same correlation id — a logic error in the client,
	// never a condition a caller can trigger through normal use.
	ErrDuplicateWaiter = errors.New("lightq/gateway: duplicate waiter for correlation id")
)

// APIError is a typed gateway protocol error: the "code" field of a
// response whose value is non-zero. Code identifies which of the
// taxonomy's errors occurred; Message carries the gateway's optional
// "msg" field.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lightq/gateway: api error %d: %s", e.Code, e.Message)
}

// Is reports whether target names the same error kind as e, comparing by
// Code — so callers can write errors.Is(err, ErrTargetNotExist) instead of
// switching on e.Code by hand.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Known protocol error codes (§7). Compare a returned error against these
// with errors.Is, e.g. errors.Is(err, gateway.ErrTargetNotExist).
var (
	ErrWrongVerifyKey  = &APIError{Code: 1}
	ErrBotNotExist     = &APIError{Code: 2}
	ErrInvalidSession  = &APIError{Code: 3}
	ErrInactiveSession = &APIError{Code: 4}
	ErrTargetNotExist  = &APIError{Code: 5}
	ErrFileNotExist    = &APIError{Code: 6}
	ErrNoPermission    = &APIError{Code: 10}
	ErrBotInSilence    = &APIError{Code: 20}
	ErrMessageTooLong  = &APIError{Code: 30}
	ErrIncorrectAccess = &APIError{Code: 400}
)

var codeToSentinel = map[int]*APIError{
	1:   ErrWrongVerifyKey,
	2:   ErrBotNotExist,
	3:   ErrInvalidSession,
	4:   ErrInactiveSession,
	5:   ErrTargetNotExist,
	6:   ErrFileNotExist,
	10:  ErrNoPermission,
	20:  ErrBotInSilence,
	30:  ErrMessageTooLong,
	400: ErrIncorrectAccess,
}

// errorFromCode builds the typed error for a non-zero response code,
// falling back to a generic *APIError (the taxonomy's "unsupported"
// catch-all) for codes this module does not name.
func errorFromCode(code int, message string) error {
	if sentinel, ok := codeToSentinel[code]; ok {
		return &APIError{Code: sentinel.Code, Message: message}
	}
	return &APIError{Code: code, Message: message}
}
