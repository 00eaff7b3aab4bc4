package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultSocketPath is the default Unix socket path for mpv IPC.
	DefaultSocketPath = "/tmp/studio-review-mpv.sock"
)

var (
	// ErrNotConnected is returned when attempting operations on a disconnected client.
	ErrNotConnected = errors.New("mpv: not connected")
	// ErrSocketNotFound is returned when the socket file doesn't exist.
	ErrSocketNotFound = errors.New("mpv: socket not found - is mpv running with --input-ipc-server?")
	// requestID is a global counter for generating unique request IDs.
	requestID uint64
)

// ipcRequest represents a JSON IPC request to mpv. Command is either a
// positional array or, for commands with named arguments, an object.
type ipcRequest struct {
	Command   any    `json:"command"`
	RequestID uint64 `json:"request_id"`
}

// ipcMessage is any line mpv writes: a reply carries request_id and error,
// an event carries event (and name/id/data for property changes).
type ipcMessage struct {
	Data      any    `json:"data"`
	RequestID uint64 `json:"request_id"`
	Error     string `json:"error"`
	Event     string `json:"event"`
	ID        int64  `json:"id"`
	Name      string `json:"name"`
}

// Event is an asynchronous notification from mpv. For property changes
// Property and Data hold the observed property and its new value.
type Event struct {
	Name     string
	Property string
	Data     any
}

// Client is an mpv IPC client that communicates via Unix socket. A reader
// goroutine routes replies to their callers by request id and publishes
// everything else on Events.
type Client struct {
	socketPath string
	log        *slog.Logger
	started    time.Time

	mu      sync.Mutex
	conn    net.Conn
	pending map[uint64]chan ipcMessage
	waiters map[string][]chan struct{}
	done    chan struct{}

	queue  *eventQueue
	events chan Event
	frames chan time.Duration
}

// NewClient creates a new mpv IPC client.
// If socketPath is empty, DefaultSocketPath is used.
func NewClient(socketPath string, log *slog.Logger) *Client {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Client{
		socketPath: socketPath,
		log:        log,
		started:    time.Now(),
		queue:      newEventQueue(),
		events:     make(chan Event, 64),
		frames:     make(chan time.Duration, 16),
	}
}

// Connect establishes a connection to the mpv IPC socket and starts
// observing the playback properties. A Client connects once; after the
// connection drops a new Client is needed.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return nil // Already connected
	}
	if c.done != nil {
		c.mu.Unlock()
		return fmt.Errorf("mpv: connection to %s was closed: %w", c.socketPath, ErrNotConnected)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		c.mu.Unlock()
		c.log.Debug("mpv dial failed", "socket", c.socketPath, "err", err)
		return ErrSocketNotFound
	}

	c.conn = conn
	c.pending = make(map[uint64]chan ipcMessage)
	c.waiters = make(map[string][]chan struct{})
	c.done = make(chan struct{})
	go c.readLoop(conn, c.done)
	go c.forward()
	c.mu.Unlock()

	for i, name := range observed {
		if _, err := c.sendCommand(ctx, []any{"observe_property", i + 1, name}); err != nil {
			return fmt.Errorf("mpv: observe %s: %w", name, err)
		}
	}
	return nil
}

// ConnectRetry keeps trying to connect until mpv has created its socket or
// ctx expires.
func (c *Client) ConnectRetry(ctx context.Context, every time.Duration) error {
	for {
		err := c.Connect(ctx)
		if err == nil || !errors.Is(err, ErrSocketNotFound) {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(every):
		}
	}
}

// Close closes the connection to mpv.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// IsConnected returns true if the client is connected to mpv.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// SocketPath returns the socket path this client is configured to use.
func (c *Client) SocketPath() string {
	return c.socketPath
}

// Events returns the channel of asynchronous mpv events. It is closed when
// the connection drops.
func (c *Client) Events() <-chan Event {
	return c.events
}

// GetProperty retrieves the value of an mpv property.
// The property name should be the mpv property name (e.g., "time-pos", "duration", "pause").
func (c *Client) GetProperty(ctx context.Context, name string) (any, error) {
	return c.sendCommand(ctx, []any{"get_property", name})
}

// SetProperty sets the value of an mpv property.
// The property name should be the mpv property name (e.g., "pause", "speed").
func (c *Client) SetProperty(ctx context.Context, name string, value any) error {
	_, err := c.sendCommand(ctx, []any{"set_property", name, value})
	return err
}

// Command runs an mpv input command with positional arguments.
func (c *Client) Command(ctx context.Context, args ...any) (any, error) {
	return c.sendCommand(ctx, args)
}

func (c *Client) getFloat(ctx context.Context, name string) (float64, error) {
	result, err := c.GetProperty(ctx, name)
	if err != nil {
		return 0, err
	}
	return toFloat64(result)
}

func (c *Client) getBool(ctx context.Context, name string) (bool, error) {
	result, err := c.GetProperty(ctx, name)
	if err != nil {
		return false, err
	}
	v, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("mpv: unexpected %s value type: %T", name, result)
	}
	return v, nil
}

// toFloat64 converts an interface{} to float64.
// JSON numbers from mpv are typically decoded as float64.
func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("mpv: unexpected numeric value type: %T", v)
	}
}

// sendCommand sends a JSON IPC command to mpv and waits for the reply with
// the same request_id.
func (c *Client) sendCommand(ctx context.Context, command any) (any, error) {
	reqID := atomic.AddUint64(&requestID, 1)
	data, err := json.Marshal(ipcRequest{Command: command, RequestID: reqID})
	if err != nil {
		return nil, fmt.Errorf("mpv: failed to marshal command: %w", err)
	}
	// Send newline-terminated JSON
	data = append(data, '\n')

	c.mu.Lock()
	if c.conn == nil {
		c.mu.Unlock()
		return nil, ErrNotConnected
	}
	reply := make(chan ipcMessage, 1)
	c.pending[reqID] = reply
	done := c.done
	_, err = c.conn.Write(data)
	if err != nil {
		delete(c.pending, reqID)
	}
	c.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("mpv: failed to send command: %w", err)
	}

	select {
	case resp := <-reply:
		if resp.Error != "" && resp.Error != "success" {
			return nil, fmt.Errorf("mpv: %s", resp.Error)
		}
		return resp.Data, nil
	case <-done:
		return nil, ErrNotConnected
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, reqID)
		c.mu.Unlock()
		return nil, ctx.Err()
	}
}

// waitEvent registers interest in the next event called name. Register
// before issuing the command that triggers it.
func (c *Client) waitEvent(name string) (<-chan struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, ErrNotConnected
	}
	ch := make(chan struct{})
	c.waiters[name] = append(c.waiters[name], ch)
	return ch, nil
}

// unwaitEvent drops a registration that will not be waited on any more.
func (c *Client) unwaitEvent(name string, ch <-chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waiters == nil {
		return
	}
	c.waiters[name] = slices.DeleteFunc(c.waiters[name], func(w chan struct{}) bool { return w == ch })
	if len(c.waiters[name]) == 0 {
		delete(c.waiters, name)
	}
}

func (c *Client) readLoop(conn net.Conn, done chan struct{}) {
	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			c.log.Debug("mpv connection closed", "err", err)
			break
		}

		var msg ipcMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			// Skip malformed lines
			continue
		}
		if msg.Event != "" {
			c.dispatch(msg)
			continue
		}

		c.mu.Lock()
		reply, ok := c.pending[msg.RequestID]
		delete(c.pending, msg.RequestID)
		c.mu.Unlock()
		if ok {
			reply <- msg
		}
	}

	c.mu.Lock()
	c.conn = nil
	c.pending = nil
	c.waiters = nil
	close(done)
	c.mu.Unlock()
	_ = conn.Close()
	c.queue.close()
}

func (c *Client) dispatch(msg ipcMessage) {
	c.mu.Lock()
	for _, ch := range c.waiters[msg.Event] {
		close(ch)
	}
	delete(c.waiters, msg.Event)
	c.mu.Unlock()

	if msg.Event == "property-change" && msg.Name == frameProperty {
		select {
		case c.frames <- time.Since(c.started):
		default:
		}
		return
	}

	ev := Event{Name: msg.Event, Data: msg.Data}
	if msg.Event == "property-change" {
		ev.Property = msg.Name
	}
	c.queue.push(ev)
}

// forward moves queued events onto the Events channel, closing it once the
// connection has dropped and the queue is drained.
func (c *Client) forward() {
	defer close(c.events)
	for {
		ev, ok := c.queue.next()
		if !ok {
			return
		}
		c.events <- ev
	}
}

// eventQueue buffers events between the reader and a slow consumer without
// blocking the reader. Property changes are coalesced: only the latest value
// of each property stays queued, so state like pause is never lost.
type eventQueue struct {
	mu     sync.Mutex
	items  []Event
	closed bool
	wake   chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{wake: make(chan struct{}, 1)}
}

func (q *eventQueue) push(ev Event) {
	q.mu.Lock()
	if ev.Property != "" {
		q.items = slices.DeleteFunc(q.items, func(e Event) bool { return e.Property == ev.Property })
	}
	q.items = append(q.items, ev)
	q.mu.Unlock()
	q.signal()
}

func (q *eventQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

func (q *eventQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// next blocks until an event is queued. It reports false once the queue is
// closed and empty.
func (q *eventQueue) next() (Event, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			ev := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return ev, true
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return Event{}, false
		}
		<-q.wake
	}
}
