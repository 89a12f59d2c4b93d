// Package dispatch implements the reactive router and invocation engine:
// handler records (component C), the type-based router (D), the ordering
// engine (E), the per-push dispatcher (F), and the Bot facade that owns
// all of them, mirroring how the originating framework package keeps
// Bot/Context/Handler/Router together as one tightly coupled unit.
package dispatch

import (
	"sync"

	"github.com/lightq-go/lightq/entities"
)

// ReceiveContext is the ephemeral envelope passed to filters and
// resolvers for one incoming push. Its scratch map lets derived filters
// (e.g. a compiled regex) memoise work across the CanHandle → Handle call
// pair for the handler that is ultimately selected.
type ReceiveContext struct {
	Bot   *Bot
	Datum entities.Datum

	scratchMu sync.Mutex
	scratch   map[any]any
}

// NewReceiveContext creates a context for one incoming push.
func NewReceiveContext(bot *Bot, datum entities.Datum) *ReceiveContext {
	return &ReceiveContext{Bot: bot, Datum: datum}
}

// Scratch returns the value stashed under key, if any. Keys should be
// unexported types so unrelated packages can't collide (the same
// discipline context.Context values use).
func (c *ReceiveContext) Scratch(key any) (any, bool) {
	c.scratchMu.Lock()
	defer c.scratchMu.Unlock()
	if c.scratch == nil {
		return nil, false
	}
	v, ok := c.scratch[key]
	return v, ok
}

// SetScratch stashes val under key for later retrieval by Scratch.
func (c *ReceiveContext) SetScratch(key, val any) {
	c.scratchMu.Lock()
	defer c.scratchMu.Unlock()
	if c.scratch == nil {
		c.scratch = make(map[any]any)
	}
	c.scratch[key] = val
}

// ExceptionContext is the ephemeral envelope passed to exception filters,
// resolvers, and handlers. Handler is nil when the failure originated in
// routing rather than in a matched handler's invocation.
type ExceptionContext struct {
	Bot     *Bot
	Cause   error
	Receive *ReceiveContext
	Handler any // *MessageHandler, *EventHandler, or nil
}
