package core

import (
	"context"
	"errors"
	"log"
	"net"
	"sync"
	"time"

	"github.com/automoto/duel-mp/config"
	"github.com/automoto/duel-mp/shared/netconfig"
	"github.com/automoto/duel-mp/shared/protocol"
)

var (
	errPeerClosed = errors.New("peer closed")
	errQueueFull  = errors.New("send queue full")
)

// peer is one claimed connection. Writes go through a bounded queue drained
// by a single writer goroutine.
type peer struct {
	id     string
	slot   netconfig.Slot
	conn   net.Conn
	codec  *protocol.Conn
	out    chan any
	logger *log.Logger

	writeTimeout time.Duration

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func newPeer(ctx context.Context, id string, slot netconfig.Slot, conn net.Conn, cfg config.MatchConfig, logger *log.Logger) *peer {
	ctx, cancel := context.WithCancel(ctx)
	p := &peer{
		id:           id,
		slot:         slot,
		conn:         conn,
		codec:        protocol.NewConn(conn),
		out:          make(chan any, cfg.SendQueueSize),
		logger:       logger,
		writeTimeout: cfg.WriteTimeout,
		ctx:          ctx,
		cancel:       cancel,
	}
	// Unblock the read loop when the server shuts down.
	context.AfterFunc(ctx, func() { p.conn.Close() })
	return p
}

// Send queues msg without blocking. A full queue drops the message.
func (p *peer) Send(msg any) error {
	if p.ctx.Err() != nil {
		return errPeerClosed
	}
	select {
	case p.out <- msg:
		return nil
	default:
		p.logger.Printf("send queue full, dropping %T", msg)
		return errQueueFull
	}
}

func (p *peer) writeLoop() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case msg := <-p.out:
			if p.writeTimeout > 0 {
				p.conn.SetWriteDeadline(time.Now().Add(p.writeTimeout))
			}
			if err := p.codec.Write(msg); err != nil {
				p.logger.Printf("write failed: %v", err)
				p.Close()
				return
			}
		}
	}
}

// Close tears the connection down. Safe to call more than once.
func (p *peer) Close() {
	p.closeOnce.Do(func() {
		p.cancel()
		p.conn.Close()
	})
}

// Done is closed once the peer is closed.
func (p *peer) Done() <-chan struct{} {
	return p.ctx.Done()
}
