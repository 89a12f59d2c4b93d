// Package lightq provides the top-level API for the lightq bot
// framework. It re-exports the dispatch package's types for ergonomic
// usage, so hosting programs can write:
//
//	bot := lightq.New(12345, "verifyKey", "", "", nil)
//	bot.AddMessageHandler(&lightq.MessageHandler{ ... })
//	if err := bot.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package lightq

import (
	"github.com/lightq-go/lightq/dispatch"
	"github.com/lightq-go/lightq/gateway"
)

// Re-export dispatch types at the package level for ergonomic usage.
type (
	Bot              = dispatch.Bot
	ReceiveContext   = dispatch.ReceiveContext
	ExceptionContext = dispatch.ExceptionContext
	MessageHandler   = dispatch.MessageHandler
	EventHandler     = dispatch.EventHandler
	ExceptionHandler = dispatch.ExceptionHandler
	Filter           = dispatch.Filter[*dispatch.ReceiveContext]
	Resolver         = dispatch.Resolver[*dispatch.ReceiveContext]
	ExceptionFilter   = dispatch.Filter[*dispatch.ExceptionContext]
	ExceptionResolver = dispatch.Resolver[*dispatch.ExceptionContext]
	Logger           = dispatch.Logger

	Client = gateway.Client
	Config = gateway.Config
)

// New creates a bot bound to the given gateway account. baseURL and
// reservedSyncID may be empty to take the gateway package's defaults.
func New(botID int64, verifyKey, baseURL, reservedSyncID string, logger Logger) *Bot {
	return dispatch.New(botID, verifyKey, baseURL, reservedSyncID, logger)
}

// Built-in resolvers, re-exported for handler authors.
var (
	ResolveContext     = dispatch.ResolveContext
	ResolveBot         = dispatch.ResolveBot
	ResolveDatum       = dispatch.ResolveDatum
	ResolveChain       = dispatch.ResolveChain
	ResolveGroupID     = dispatch.ResolveGroupID
	ResolveSenderID    = dispatch.ResolveSenderID
	ResolveOperatorID  = dispatch.ResolveOperatorID
	ResolveAtTargets   = dispatch.ResolveAtTargets
	ResolveTexts       = dispatch.ResolveTexts
	ResolveFirstText   = dispatch.ResolveFirstText
	ResolveCause       = dispatch.ResolveCause
	ResolveException   = dispatch.ResolveExceptionContext
	ResolveExceptionBot = dispatch.ResolveExceptionBot
	MatchesCode        = dispatch.MatchesCode
)

// Contract and transport error sentinels, re-exported for convenience.
var (
	ErrCyclicOrder       = dispatch.ErrCyclicOrder
	ErrUnknownHandler    = dispatch.ErrUnknownHandler
	ErrClosed            = gateway.ErrClosed
	ErrConnectionDropped = gateway.ErrConnectionDropped
)
