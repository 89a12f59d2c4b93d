// Package gateway owns the single duplex connection to the chat gateway:
// one socket multiplexing request/response RPCs and unsolicited push
// notifications, demultiplexed by correlation id (component A/B of the
// design: correlation tables + gateway client).
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
)

const maxCorrelationID = 1e8

// Client is a single shared duplex channel over the gateway's
// JSON/WebSocket protocol. Connect/Close are idempotent; Request and
// NextPush may be called concurrently from many goroutines.
type Client struct {
	cfg Config

	mu         sync.Mutex
	conn       *websocket.Conn
	readerDone chan struct{}
	sessionKey string

	writeMu sync.Mutex

	responses *responseTable
	pushes    *pushQueue
	ids       *correlationCounter

	logger Logger
}

// Logger is the minimal logging surface the gateway client needs. The
// default is log.Default(), matching the teacher's plain stdlib log
// usage (core/middleware/logging.go) rather than a structured-logging
// dependency the teacher never reaches for.
type Logger interface {
	Printf(format string, args ...any)
}

// New creates a Client for the given configuration. The connection is not
// opened until Connect (or the first Request/NextPush) is called.
func New(cfg Config, logger Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		cfg:       cfg,
		responses: newResponseTable(),
		pushes:    newPushQueue(),
		ids:       newCorrelationCounter(maxCorrelationID),
		logger:    logger,
	}
}

// SessionKey returns the session token received in the greeting frame, or
// empty if the connection has not completed its handshake.
func (c *Client) SessionKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionKey
}

// Connect opens the underlying connection and spawns the reader. It is a
// no-op if a connection is already open.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}
	endpoint, err := c.dialURL()
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("lightq/gateway: connect: %w", err)
	}
	c.conn = conn
	c.readerDone = make(chan struct{})
	go c.readLoop(conn, c.readerDone)
	return nil
}

func (c *Client) dialURL() (string, error) {
	base, err := url.Parse(c.cfg.baseURL())
	if err != nil {
		return "", fmt.Errorf("lightq/gateway: bad base url: %w", err)
	}
	ref := &url.URL{
		Path: "/all",
		RawQuery: url.Values{
			"verifyKey": {c.cfg.VerifyKey},
			"qq":        {strconv.FormatInt(c.cfg.BotID, 10)},
		}.Encode(),
	}
	return base.ResolveReference(ref).String(), nil
}

// Close shuts down the connection and waits for the reader to terminate.
// It is a no-op if the connection is already closed.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	done := c.readerDone
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	err := conn.Close()
	if done != nil {
		<-done
	}
	if err != nil {
		return fmt.Errorf("lightq/gateway: close: %w", err)
	}
	return nil
}

// readLoop is the single reader owning the read side of the socket
// (§4.1, §5). On any failure it fans the error out to every outstanding
// waiter, clears state, and exits.
func (c *Client) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			c.onReadFailure(conn, err)
			return
		}
		var frame Frame
		if err := json.Unmarshal(payload, &frame); err != nil {
			c.onReadFailure(conn, fmt.Errorf("lightq/gateway: decode frame: %w", err))
			return
		}
		c.logger.Printf("[lightq] gateway recv syncId=%q", frame.SyncID)
		switch frame.SyncID {
		case "":
			var greeting struct {
				Session string `json:"session"`
			}
			_ = json.Unmarshal(frame.Data, &greeting)
			c.mu.Lock()
			c.sessionKey = greeting.Session
			c.mu.Unlock()
		case c.cfg.reservedSyncID():
			c.pushes.push(frame.Data)
		default:
			c.responses.deliver(frame.SyncID, frame.Data)
		}
	}
}

func (c *Client) onReadFailure(conn *websocket.Conn, cause error) {
	err := fmt.Errorf("%w: %s", ErrConnectionDropped, cause)
	c.responses.failAll(err)
	c.pushes.failAll(err)
	c.mu.Lock()
	c.sessionKey = ""
	c.ids.reset()
	c.conn = nil
	c.mu.Unlock()
	conn.Close()
}

// Request serialises cmd, injects the next correlation id, writes one
// frame, and awaits the matching response. A non-zero "code" field in the
// response raises a typed *APIError; responses without a "code" field are
// returned verbatim.
func (c *Client) Request(ctx context.Context, cmd Command) (json.RawMessage, error) {
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	id := c.ids.next()
	syncID := strconv.Itoa(id)

	waiter, err := c.responses.register(syncID)
	if err != nil {
		return nil, err
	}

	content, err := json.Marshal(cmd.Content)
	if err != nil {
		return nil, fmt.Errorf("lightq/gateway: marshal content: %w", err)
	}
	var subCommand *string
	if cmd.SubCommand != "" {
		subCommand = &cmd.SubCommand
	}
	frame := requestFrame{
		SyncID:     id,
		Command:    cmd.Name,
		SubCommand: subCommand,
		Content:    content,
	}
	body, err := json.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("lightq/gateway: marshal request: %w", err)
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		c.responses.cancel(syncID)
		return nil, ErrClosed
	}

	c.logger.Printf("[lightq] gateway send command=%s syncId=%d", cmd.Name, id)
	c.writeMu.Lock()
	writeErr := conn.WriteMessage(websocket.TextMessage, body)
	c.writeMu.Unlock()
	if writeErr != nil {
		c.responses.cancel(syncID)
		return nil, fmt.Errorf("lightq/gateway: write: %w", writeErr)
	}

	select {
	case <-ctx.Done():
		c.responses.cancel(syncID)
		return nil, ctx.Err()
	case result := <-waiter:
		if result.err != nil {
			return nil, result.err
		}
		return decodeResponse(result.data)
	}
}

func decodeResponse(data []byte) (json.RawMessage, error) {
	env := decodeResponseEnvelope(data)
	if !env.codePresent {
		return data, nil
	}
	if env.Code == 0 {
		return data, nil
	}
	return nil, errorFromCode(env.Code, env.Message)
}

// NextPush blocks until a push frame is available and returns its data
// payload. FIFO ordering of pushes is preserved.
func (c *Client) NextPush(ctx context.Context) (json.RawMessage, error) {
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	waiter := c.pushes.pop()
	select {
	case <-ctx.Done():
		c.pushes.cancelWaiter(waiter)
		return nil, ctx.Err()
	case result := <-waiter:
		if result.err != nil {
			return nil, result.err
		}
		return result.data, nil
	}
}

// Pushes returns a channel yielding push payloads until the connection
// closes normally or fails, at which point the channel is closed. This is
// the Go-idiomatic replacement for the spec's async-iteration primitive.
func (c *Client) Pushes(ctx context.Context) <-chan json.RawMessage {
	out := make(chan json.RawMessage)
	go func() {
		defer close(out)
		for {
			data, err := c.NextPush(ctx)
			if err != nil {
				return
			}
			select {
			case out <- data:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
