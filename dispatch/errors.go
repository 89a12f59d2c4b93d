package dispatch

import "errors"

// Contract errors: misuse the ordering engine and controller binding
// detect at build/access time rather than at dispatch time (§7).
var (
	// ErrCyclicOrder is returned when Before/After/AddOrder constraints
	// form a cycle; the bot cannot be built.
	ErrCyclicOrder = errors.New("lightq/dispatch: cyclic handler ordering")

	// ErrUnknownHandler is returned by AddOrder/AddExceptionOrder when one
	// of the referenced handlers was never added to the bot.
	ErrUnknownHandler = errors.New("lightq/dispatch: ordering constraint references an unregistered handler")
)
