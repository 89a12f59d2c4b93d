package dispatch

import (
	"context"
	"errors"

	"github.com/lightq-go/lightq/entities"
	"github.com/lightq-go/lightq/gateway"
)

// Dispatch constructs a receive context for datum and spawns an
// independent goroutine that routes and invokes a handler (§4.5). It
// returns immediately — Run calls this for every push it reads, and
// tests may call it directly against a single datum.
func (b *Bot) Dispatch(datum entities.Datum) {
	recv := NewReceiveContext(b, datum)
	go b.dispatchOne(recv)
}

func (b *Bot) dispatchOne(recv *ReceiveContext) {
	handler, err := b.routeReceive(recv)
	if err != nil {
		b.dispatchException(recv, nil, err)
		return
	}
	if handler == nil {
		return
	}
	result, err := handler.Handle(recv)
	if err != nil {
		b.dispatchException(recv, handler, err)
		return
	}
	b.sendIfReply(recv.Datum, result)
}

// routeReceive consults the router for datum's category, stopping at the
// first (and, per category, only) router that returns a handler.
func (b *Bot) routeReceive(recv *ReceiveContext) (*HandlerRecord[*ReceiveContext], error) {
	switch recv.Datum.(type) {
	case entities.Message:
		return b.messageRouter.Route(recv)
	case entities.Event:
		return b.eventRouter.Route(recv)
	default:
		return nil, nil
	}
}

// dispatchException runs the exception-dispatch path (§4.5, §7): route to
// an exception handler, invoke it, and swallow-and-log any gateway error
// it or its reply raises. A detached dispatch goroutine has no caller
// frame to re-raise into, so "re-propagates" here means "is logged as
// unhandled" rather than unwound up a call stack.
func (b *Bot) dispatchException(recv *ReceiveContext, handler any, cause error) {
	ectx := &ExceptionContext{Bot: b, Cause: cause, Receive: recv, Handler: handler}

	eh, err := b.exceptionRouter.Route(ectx)
	if err != nil {
		b.logger.Printf("[lightq] exception routing itself failed: %v", err)
		return
	}
	if eh == nil {
		b.logger.Printf("[lightq] unhandled dispatch error: %v", cause)
		return
	}

	result, err := eh.Handle(ectx)
	if err != nil {
		if isGatewayError(err) {
			b.logger.Printf("[lightq] exception handler's own gateway error swallowed: %v", err)
			return
		}
		b.logger.Printf("[lightq] exception handler failed: %v", err)
		return
	}
	b.sendIfReply(recv.Datum, result)
}

func (b *Bot) sendIfReply(datum entities.Datum, result any) {
	chain, ok := NormalizeReply(result)
	if !ok {
		return
	}
	if err := b.sendReply(datum, chain); err != nil {
		if isGatewayError(err) {
			b.logger.Printf("[lightq] reply failed to send, swallowed: %v", err)
			return
		}
		b.logger.Printf("[lightq] reply failed to send: %v", err)
	}
}

func (b *Bot) sendReply(datum entities.Datum, chain entities.MessageChain) error {
	target, ok := replyTargetForDatum(datum)
	if !ok {
		return nil
	}
	ctx := context.Background()
	switch target.kind {
	case "friend":
		_, err := b.api.SendFriendMessage(ctx, target.id, chain)
		return err
	case "group":
		_, err := b.api.SendGroupMessage(ctx, target.id, chain)
		return err
	case "temp":
		_, err := b.api.SendTempMessage(ctx, target.memberID, target.id, chain)
		return err
	default:
		return nil
	}
}

func isGatewayError(err error) bool {
	var apiErr *gateway.APIError
	return errors.As(err, &apiErr)
}
