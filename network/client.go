package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/automoto/duel-mp/config"
	"github.com/automoto/duel-mp/shared/messages"
	"github.com/automoto/duel-mp/shared/netconfig"
	"github.com/automoto/duel-mp/shared/protocol"
	"github.com/coder/websocket"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected // Slot assigned, in the lobby
	StateInMatch
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateInMatch:
		return "in_match"
	case StateError:
		return "error"
	}
	return "unknown"
}

var (
	ErrNotConnected = errors.New("not connected")
	ErrRejected     = errors.New("connection rejected")
)

// Client is the network agent: one connection to the server, a receive
// goroutine and a liveness watchdog. All shared fields are protected by mu.
type Client struct {
	mu sync.RWMutex

	state     ClientState
	lastError error
	slot      netconfig.Slot
	conn      net.Conn
	codec     *protocol.Conn
	lastSeen  time.Time

	writeMu sync.Mutex

	cfg    config.NetcodeConfig
	logger *log.Logger
	now    func() time.Time

	snapshotCh chan messages.MatchState // size-1 buffered; latest wins
	eventCh    chan any

	cancel context.CancelFunc
	done   chan struct{}
}

func NewClient(cfg config.NetcodeConfig, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		state:      StateDisconnected,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
		snapshotCh: make(chan messages.MatchState, 1),
		eventCh:    make(chan any, 16),
	}
}

// Connect dials address and waits for the slot assignment. address is
// host:port for raw TCP or a ws:// / wss:// URL for WebSocket.
func (c *Client) Connect(ctx context.Context, address string) (netconfig.Slot, error) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	dialCtx, cancelDial := context.WithTimeout(ctx, c.cfg.DialTimeout)
	defer cancelDial()

	nc, err := dial(dialCtx, address)
	if err != nil {
		err = fmt.Errorf("connection failed: %w", err)
		c.setError(err)
		return netconfig.SlotNone, err
	}
	codec := protocol.NewConn(nc)

	slot, err := handshake(dialCtx, nc, codec)
	if err != nil {
		nc.Close()
		c.setError(err)
		return netconfig.SlotNone, err
	}
	c.logger.Printf("connected to %s as %s", address, slot)

	runCtx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.state = StateConnected
	c.slot = slot
	c.conn = nc
	c.codec = codec
	c.lastSeen = c.now()
	c.cancel = cancel
	c.done = make(chan struct{})
	c.mu.Unlock()

	go c.receiveLoop(runCtx, codec)
	go c.watchdog(runCtx)
	return slot, nil
}

func dial(ctx context.Context, address string) (net.Conn, error) {
	if strings.HasPrefix(address, "ws://") || strings.HasPrefix(address, "wss://") {
		ws, _, err := websocket.Dial(ctx, address, nil)
		if err != nil {
			return nil, err
		}
		return websocket.NetConn(context.Background(), ws, websocket.MessageBinary), nil
	}
	var d net.Dialer
	return d.DialContext(ctx, "tcp", address)
}

// handshake waits for connected or error. Anything else arriving first is
// skipped.
func handshake(ctx context.Context, nc net.Conn, codec *protocol.Conn) (netconfig.Slot, error) {
	if deadline, ok := ctx.Deadline(); ok {
		nc.SetReadDeadline(deadline)
		defer nc.SetReadDeadline(time.Time{})
	}
	for {
		_, msg, err := codec.Read()
		if errors.Is(err, protocol.ErrMalformed) {
			continue
		}
		if err != nil {
			return netconfig.SlotNone, fmt.Errorf("handshake: %w", err)
		}
		switch m := msg.(type) {
		case messages.Connected:
			if !m.Slot.Valid() {
				return netconfig.SlotNone, fmt.Errorf("handshake: invalid slot %d", m.Slot)
			}
			return m.Slot, nil
		case messages.Error:
			return netconfig.SlotNone, fmt.Errorf("%w: %s", ErrRejected, m.Message)
		}
	}
}

func (c *Client) receiveLoop(ctx context.Context, codec *protocol.Conn) {
	defer close(c.done)
	for {
		kind, msg, err := codec.Read()
		if err != nil {
			if errors.Is(err, protocol.ErrMalformed) {
				c.logger.Printf("discarding message: %v", err)
				continue
			}
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, io.EOF) {
				err = errors.New("server closed the connection")
			}
			c.logger.Printf("disconnected: %v", err)
			c.setError(err)
			return
		}
		c.touch()

		switch m := msg.(type) {
		case messages.Heartbeat:
		case messages.Snapshot:
			c.pushSnapshot(m.State)
		case messages.MatchStart:
			c.setState(StateInMatch)
			c.pushSnapshot(m.State)
			c.pushEvent(m)
		case messages.GameOver:
			c.pushSnapshot(m.State)
			c.pushEvent(m)
		case messages.GameReset:
			c.setState(StateConnected)
			c.pushSnapshot(m.State)
			c.pushEvent(m)
		case messages.ServerError:
			c.logger.Printf("server error: %s", m.Message)
			c.pushEvent(m)
		case messages.Error:
			c.setError(fmt.Errorf("%w: %s", ErrRejected, m.Message))
			return
		default:
			c.logger.Printf("ignoring %s", kind)
		}
	}
}

func (c *Client) pushSnapshot(state messages.MatchState) {
	select { // drain stale, push latest
	case <-c.snapshotCh:
	default:
	}
	select {
	case c.snapshotCh <- state:
	default:
	}
}

func (c *Client) pushEvent(evt any) {
	select {
	case c.eventCh <- evt:
	default:
		c.logger.Printf("event queue full, dropping %T", evt)
	}
}

// Close disconnects and waits for the receive goroutine.
func (c *Client) Close() error {
	c.mu.Lock()
	conn, cancel, done := c.conn, c.cancel, c.done
	c.conn, c.codec, c.cancel = nil, nil, nil
	if c.state != StateError {
		c.state = StateDisconnected
	}
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	cancel()
	err := conn.Close()
	<-done
	return err
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) Slot() netconfig.Slot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.slot
}

// LatestSnapshot returns the most recent match state, or nil. Non-blocking.
func (c *Client) LatestSnapshot() *messages.MatchState {
	select {
	case snap := <-c.snapshotCh:
		return &snap
	default:
		return nil
	}
}

// DrainEvents returns pending lifecycle messages (MatchStart, GameOver,
// GameReset, ServerError) in arrival order. Non-blocking.
func (c *Client) DrainEvents() []any {
	return drainChan(c.eventCh)
}

func (c *Client) SelectCharacter(id netconfig.CharacterID) error {
	return c.send(messages.CharacterSelect{Character: id})
}

func (c *Client) SetReady() error {
	return c.send(messages.Ready{Ready: true})
}

// SendAction sends a non-empty intent. Empty intents are skipped.
func (c *Client) SendAction(intent messages.ActionIntent) error {
	if intent.Empty() {
		return nil
	}
	return c.send(intent)
}

func (c *Client) ReportDeath() error {
	return c.send(messages.PlayerDied{Died: true})
}

func (c *Client) RequestReset() error {
	return c.send(messages.ResetGame{Reset: true})
}

func (c *Client) send(msg any) error {
	c.mu.RLock()
	conn, codec := c.conn, c.codec
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(c.cfg.DialTimeout))
	if err := codec.Write(msg); err != nil {
		err = fmt.Errorf("send %T: %w", msg, err)
		c.setError(err)
		return err
	}
	return nil
}

func (c *Client) touch() {
	c.mu.Lock()
	c.lastSeen = c.now()
	c.mu.Unlock()
}

func (c *Client) setState(state ClientState) {
	c.mu.Lock()
	if c.state != StateError {
		c.state = state
	}
	c.mu.Unlock()
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
