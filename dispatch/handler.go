package dispatch

import (
	"fmt"
	"reflect"

	"github.com/lightq-go/lightq/entities"
)

// Filter is a predicate evaluated against a context before a handler is
// selected. Filters run in declaration order; the first false one stops
// evaluation (§8.8 "filter short-circuit").
type Filter[C any] func(ctx C) (bool, error)

// Resolver produces one keyword argument's value from a context.
type Resolver[C any] func(ctx C) (any, error)

// Callback is a handler body. It receives the resolved argument set keyed
// by parameter name and returns nil (no reply), a string (wrapped into a
// one-element plain-text chain), or an entities.MessageChain.
type Callback func(args map[string]any) (any, error)

// HandlerRecord packages a callback together with everything the router
// and dispatcher need to select and invoke it: the dispatched types, the
// resolver map, the ordered filter list, and Before/After neighbours used
// by the ordering engine.
//
// C is the context type a filter/resolver receives: *ReceiveContext for
// message and event handlers, *ExceptionContext for exception handlers.
type HandlerRecord[C any] struct {
	// Name is used only for diagnostics (error messages, test assertions).
	Name string

	Callback  Callback
	Types     []reflect.Type
	Resolvers map[string]Resolver[C]
	Filters   []Filter[C]
	Before    []*HandlerRecord[C]
	After     []*HandlerRecord[C]
}

// CanHandle evaluates h's filters in order against ctx, short-circuiting
// on the first false result.
func (h *HandlerRecord[C]) CanHandle(ctx C) (bool, error) {
	for _, f := range h.Filters {
		ok, err := f(ctx)
		if err != nil {
			return false, fmt.Errorf("lightq/dispatch: filter for %s: %w", h.diagName(), err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Handle resolves h's argument set against ctx and invokes the callback.
func (h *HandlerRecord[C]) Handle(ctx C) (any, error) {
	args := make(map[string]any, len(h.Resolvers))
	for name, resolve := range h.Resolvers {
		v, err := resolve(ctx)
		if err != nil {
			return nil, fmt.Errorf("lightq/dispatch: resolve %q for %s: %w", name, h.diagName(), err)
		}
		args[name] = v
	}
	return h.Callback(args)
}

func (h *HandlerRecord[C]) diagName() string {
	if h.Name != "" {
		return h.Name
	}
	return "<anonymous handler>"
}

// MessageHandler and EventHandler both react to a ReceiveContext; they
// are distinguished only by which router they are registered with
// (determined by their declared Types).
type MessageHandler = HandlerRecord[*ReceiveContext]
type EventHandler = HandlerRecord[*ReceiveContext]

// ExceptionHandler reacts to a failure surfaced during routing or
// handling.
type ExceptionHandler = HandlerRecord[*ExceptionContext]

// ClassifyReceive reports whether h is registered for message types,
// event types, or neither/both (both results false, or both true) — a
// contract violation its caller should reject.
func ClassifyReceive(h *HandlerRecord[*ReceiveContext]) (isMessage, isEvent bool) {
	for _, t := range h.Types {
		if entities.IsMessageType(t) {
			isMessage = true
		}
		if entities.IsEventType(t) {
			isEvent = true
		}
	}
	return isMessage, isEvent
}

// NormalizeReply converts a callback's return value into a message chain
// ready to send, per §4.2's "handle" contract. ok is false when there is
// nothing to send.
func NormalizeReply(v any) (entities.MessageChain, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case string:
		return entities.MessageChain{entities.Plain{Text: t}}, true
	case entities.MessageChain:
		return t, true
	default:
		return nil, false
	}
}
