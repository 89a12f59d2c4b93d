package dispatch

import (
	"fmt"

	"github.com/lightq-go/lightq/entities"
)

// Built-in resolvers (§4.2). Each is a Resolver[*ReceiveContext] ready to
// drop into a HandlerRecord's Resolvers map under whatever parameter name
// the handler declares.

// ResolveContext returns the receive context itself.
func ResolveContext(ctx *ReceiveContext) (any, error) { return ctx, nil }

// ResolveBot returns the bot instance.
func ResolveBot(ctx *ReceiveContext) (any, error) { return ctx.Bot, nil }

// ResolveDatum returns the raw datum being dispatched.
func ResolveDatum(ctx *ReceiveContext) (any, error) { return ctx.Datum, nil }

// ResolveChain returns the message chain of the datum, which must be a
// message.
func ResolveChain(ctx *ReceiveContext) (any, error) {
	msg, ok := ctx.Datum.(entities.Message)
	if !ok {
		return nil, fmt.Errorf("lightq/dispatch: chain resolver: datum is not a message")
	}
	return msg.Chain(), nil
}

// ResolveGroupID returns the group id associated with the datum (a group
// message, a temp message's group, or a group-scoped event).
func ResolveGroupID(ctx *ReceiveContext) (any, error) {
	id, ok := groupIDOf(ctx.Datum)
	if !ok {
		return nil, fmt.Errorf("lightq/dispatch: group id resolver: datum carries no group")
	}
	return id, nil
}

// ResolveSenderID returns the sending account's id, for message data.
func ResolveSenderID(ctx *ReceiveContext) (any, error) {
	id, ok := senderIDOf(ctx.Datum)
	if !ok {
		return nil, fmt.Errorf("lightq/dispatch: sender id resolver: datum carries no sender")
	}
	return id, nil
}

// ResolveOperatorID returns the acting operator's id, for events that
// carry one.
func ResolveOperatorID(ctx *ReceiveContext) (any, error) {
	id, ok := operatorIDOf(ctx.Datum)
	if !ok {
		return nil, fmt.Errorf("lightq/dispatch: operator id resolver: datum carries no operator")
	}
	return id, nil
}

// ResolveAtTargets returns the ids mentioned via At elements in the
// datum's chain (empty if the datum is not a message or mentions no one).
func ResolveAtTargets(ctx *ReceiveContext) (any, error) {
	msg, ok := ctx.Datum.(entities.Message)
	if !ok {
		return []int64(nil), nil
	}
	return entities.AtTargets(msg.Chain()), nil
}

// ResolveTexts returns every Plain element's text in the datum's chain.
func ResolveTexts(ctx *ReceiveContext) (any, error) {
	msg, ok := ctx.Datum.(entities.Message)
	if !ok {
		return []string(nil), nil
	}
	return entities.Texts(msg.Chain()), nil
}

// ResolveFirstText returns the first Plain element's text, or "" if none.
func ResolveFirstText(ctx *ReceiveContext) (any, error) {
	msg, ok := ctx.Datum.(entities.Message)
	if !ok {
		return "", nil
	}
	texts := entities.Texts(msg.Chain())
	if len(texts) == 0 {
		return "", nil
	}
	return texts[0], nil
}

// Exception-context resolvers.

// ResolveExceptionContext returns the exception context itself.
func ResolveExceptionContext(ctx *ExceptionContext) (any, error) { return ctx, nil }

// ResolveCause returns the error being dispatched.
func ResolveCause(ctx *ExceptionContext) (any, error) { return ctx.Cause, nil }

// ResolveExceptionBot returns the bot instance from an exception context.
func ResolveExceptionBot(ctx *ExceptionContext) (any, error) { return ctx.Bot, nil }
