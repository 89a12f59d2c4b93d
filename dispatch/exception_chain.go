package dispatch

import (
	"errors"
	"reflect"

	"github.com/lightq-go/lightq/gateway"
)

// apiErrorType is the dispatch type under which the built-in default
// exception handler is registered. Every gateway protocol error is
// represented by the single *gateway.APIError struct (distinguished by
// Code), rather than one Go type per wire code — Go lacks Python's
// lightweight per-code exception subclassing, so the taxonomy collapses
// to one type plus Code/errors.Is comparisons (see the MatchesCode
// filter below for the per-code distinction §7 still requires).
var apiErrorType = reflect.TypeOf((*gateway.APIError)(nil))

var errorInterfaceType = reflect.TypeOf((*error)(nil)).Elem()

// errorTypeChain returns err's dispatch ancestry: its concrete type,
// *gateway.APIError if err is (or wraps) one, then the generic error
// interface as the catch-all.
func errorTypeChain(err error) []reflect.Type {
	chain := []reflect.Type{reflect.TypeOf(err)}
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && reflect.TypeOf(err) != apiErrorType {
		chain = append(chain, apiErrorType)
	}
	chain = append(chain, errorInterfaceType)
	return chain
}

// MatchesCode returns a Filter selecting exception contexts whose cause is
// a gateway protocol error with the given code (§7's "each is a distinct
// error kind and can be caught individually").
func MatchesCode(code int) Filter[*ExceptionContext] {
	return func(ctx *ExceptionContext) (bool, error) {
		var apiErr *gateway.APIError
		if !errors.As(ctx.Cause, &apiErr) {
			return false, nil
		}
		return apiErr.Code == code, nil
	}
}
