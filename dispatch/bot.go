package dispatch

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"sync"
	"time"

	"github.com/lightq-go/lightq/entities"
	"github.com/lightq-go/lightq/gateway"
)

// Logger is the minimal logging surface the dispatcher needs, matching
// gateway.Logger's shape so both can share the same *log.Logger.
type Logger interface {
	Printf(format string, args ...any)
}

// Bot is the facade a hosting program drives: it owns the gateway
// connection, the handler/router sets for each category, and the
// background task set (§6 "external integration surface").
type Bot struct {
	api    *gateway.Client
	logger Logger

	mu                 sync.Mutex
	messageHandlers    []*MessageHandler
	eventHandlers      []*EventHandler
	exceptionHandlers  []*ExceptionHandler
	receiveOrder       [][2]*HandlerRecord[*ReceiveContext]
	exceptionOrder     [][2]*HandlerRecord[*ExceptionContext]
	defaultException   *ExceptionHandler
	built              bool

	messageRouter   *Router[*ReceiveContext, entities.Message]
	eventRouter     *Router[*ReceiveContext, entities.Event]
	exceptionRouter *Router[*ExceptionContext, error]

	rootCtx    context.Context
	rootCancel context.CancelFunc
	cancel     context.CancelFunc
	bgWG       sync.WaitGroup
}

// New creates a bot bound to the given gateway account. baseURL and
// reservedSyncID may be empty to take the gateway package's defaults.
func New(botID int64, verifyKey, baseURL, reservedSyncID string, logger Logger) *Bot {
	if logger == nil {
		logger = log.Default()
	}
	b := &Bot{
		api:    gateway.New(gateway.Config{BotID: botID, VerifyKey: verifyKey, BaseURL: baseURL, ReservedSyncID: reservedSyncID}, logger),
		logger: logger,
	}
	b.messageRouter = NewRouter[*ReceiveContext, entities.Message](
		func(ctx *ReceiveContext) (entities.Message, bool) { m, ok := ctx.Datum.(entities.Message); return m, ok },
		func(m entities.Message) []reflect.Type { return m.TypeChain() },
	)
	b.eventRouter = NewRouter[*ReceiveContext, entities.Event](
		func(ctx *ReceiveContext) (entities.Event, bool) { e, ok := ctx.Datum.(entities.Event); return e, ok },
		func(e entities.Event) []reflect.Type { return e.TypeChain() },
	)
	b.exceptionRouter = NewRouter[*ExceptionContext, error](
		func(ctx *ExceptionContext) (error, bool) {
			if ctx.Cause == nil {
				return nil, false
			}
			return ctx.Cause, true
		},
		errorTypeChain,
	)
	b.defaultException = &ExceptionHandler{
		Name:      "default_exception_handler",
		Types:     []reflect.Type{apiErrorType},
		Resolvers: map[string]Resolver[*ExceptionContext]{"cause": ResolveCause},
		Callback: func(args map[string]any) (any, error) {
			b.logger.Printf("[lightq] swallowed gateway error: %v", args["cause"])
			return nil, nil
		},
	}
	b.exceptionHandlers = append(b.exceptionHandlers, b.defaultException)
	b.rootCtx, b.rootCancel = context.WithCancel(context.Background())
	return b
}

// API exposes the underlying gateway client for command wrappers
// (gateway.SendGroupMessage and friends) that handlers call directly.
func (b *Bot) API() *gateway.Client { return b.api }

// AddMessageHandler registers h with the message category.
func (b *Bot) AddMessageHandler(h *MessageHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messageHandlers = append(b.messageHandlers, h)
	b.built = false
}

// AddEventHandler registers h with the event category.
func (b *Bot) AddEventHandler(h *EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eventHandlers = append(b.eventHandlers, h)
	b.built = false
}

// AddExceptionHandler registers h with the exception category.
func (b *Bot) AddExceptionHandler(h *ExceptionHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.exceptionHandlers = append(b.exceptionHandlers, h)
	b.built = false
}

// Add classifies item by its declared Types and registers it with the
// message or event category. Use AddExceptionHandler directly for
// exception handlers, since ExceptionHandler and MessageHandler/
// EventHandler share no static type to switch on safely here.
func (b *Bot) Add(item *HandlerRecord[*ReceiveContext]) error {
	isMessage, isEvent := ClassifyReceive(item)
	switch {
	case isMessage && !isEvent:
		b.AddMessageHandler(item)
	case isEvent && !isMessage:
		b.AddEventHandler(item)
	default:
		return fmt.Errorf("lightq/dispatch: Add: handler %q declares no (or mixed) message/event types", item.diagName())
	}
	return nil
}

// AddAll registers every item via Add.
func (b *Bot) AddAll(items ...*HandlerRecord[*ReceiveContext]) error {
	for _, item := range items {
		if err := b.Add(item); err != nil {
			return err
		}
	}
	return nil
}

// AddOrder contributes pairwise "before" constraints along the given
// chain of message/event handlers: items[0] before items[1] before
// items[2], and so on (§4.4). Every item must already have been
// registered via AddMessageHandler/AddEventHandler/Add(All); a reference
// to a handler that was never added returns ErrUnknownHandler.
func (b *Bot) AddOrder(items ...*HandlerRecord[*ReceiveContext]) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, item := range items {
		if !b.hasReceiveHandler(item) {
			return fmt.Errorf("%w: %s", ErrUnknownHandler, item.diagName())
		}
	}
	for i := 0; i+1 < len(items); i++ {
		b.receiveOrder = append(b.receiveOrder, [2]*HandlerRecord[*ReceiveContext]{items[i], items[i+1]})
	}
	b.built = false
	return nil
}

// AddExceptionOrder is AddOrder's counterpart for exception handlers.
func (b *Bot) AddExceptionOrder(items ...*HandlerRecord[*ExceptionContext]) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, item := range items {
		found := false
		for _, h := range b.exceptionHandlers {
			if h == item {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrUnknownHandler, item.diagName())
		}
	}
	for i := 0; i+1 < len(items); i++ {
		b.exceptionOrder = append(b.exceptionOrder, [2]*HandlerRecord[*ExceptionContext]{items[i], items[i+1]})
	}
	b.built = false
	return nil
}

// hasReceiveHandler reports whether item was previously registered as a
// message or event handler.
func (b *Bot) hasReceiveHandler(item *HandlerRecord[*ReceiveContext]) bool {
	for _, h := range b.messageHandlers {
		if h == item {
			return true
		}
	}
	for _, h := range b.eventHandlers {
		if h == item {
			return true
		}
	}
	return false
}

// Build runs the ordering engine and rebuilds all three routers from the
// currently registered handlers (§4.3, §4.4). Run calls this
// automatically; hosting programs may call it directly to validate
// ordering constraints (e.g. detect ErrCyclicOrder) before connecting.
func (b *Bot) Build() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sortedMsg, err := sortOrder(b.messageHandlers, b.receiveOrder, nil)
	if err != nil {
		return err
	}
	sortedEvt, err := sortOrder(b.eventHandlers, b.receiveOrder, nil)
	if err != nil {
		return err
	}
	sortedExc, err := sortOrder(b.exceptionHandlers, b.exceptionOrder, b.defaultException)
	if err != nil {
		return err
	}
	b.messageRouter.Build(sortedMsg)
	b.eventRouter.Build(sortedEvt)
	b.exceptionRouter.Build(sortedExc)
	b.built = true
	return nil
}

// Run connects the gateway and dispatches pushes until ctx is cancelled
// or a transport error propagates (§5 "Cancellation", §6 "run() blocks").
func (b *Bot) Run(ctx context.Context) error {
	b.mu.Lock()
	built := b.built
	b.mu.Unlock()
	if !built {
		if err := b.Build(); err != nil {
			return err
		}
	}
	if err := b.api.Connect(ctx); err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()
	defer cancel()

	for {
		raw, err := b.api.NextPush(runCtx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		datum, err := entities.ParseDatum(raw)
		if err != nil {
			b.logger.Printf("[lightq] failed to parse push: %v", err)
			continue
		}
		b.Dispatch(datum)
	}
}

// Close shuts down the gateway connection and cancels background tasks
// created via CreateTask/CreateEverydayTask. Per §5, in-flight dispatch
// tasks are not explicitly cancelled; they observe the closed gateway on
// their next call or are abandoned.
func (b *Bot) Close() error {
	b.mu.Lock()
	cancel := b.cancel
	b.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	b.rootCancel()
	err := b.api.Close()
	b.bgWG.Wait()
	return err
}

// CreateTask schedules fn as a background task tied to the bot's
// lifetime: it is cancelled when Close runs.
func (b *Bot) CreateTask(fn func(ctx context.Context) error) {
	b.bgWG.Add(1)
	go func() {
		defer b.bgWG.Done()
		if err := fn(b.rootCtx); err != nil && err != context.Canceled {
			b.logger.Printf("[lightq] background task failed: %v", err)
		}
	}()
}

// CreateEverydayTask schedules action to run once per day at the given
// time of day (local time), until Close cancels it.
func (b *Bot) CreateEverydayTask(hour, minute, second int, action func(ctx context.Context)) {
	b.CreateTask(func(ctx context.Context) error {
		for {
			wait := time.Until(nextOccurrence(hour, minute, second))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				action(ctx)
			}
		}
	})
}

func nextOccurrence(hour, minute, second int) time.Time {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, second, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

