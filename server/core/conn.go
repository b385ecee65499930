package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/automoto/duel-mp/shared/messages"
	"github.com/automoto/duel-mp/shared/netconfig"
	"github.com/automoto/duel-mp/shared/protocol"
	"github.com/google/uuid"
)

// handleConn runs one connection from accept to disconnect.
func (s *Server) handleConn(ctx context.Context, nc net.Conn) {
	id := uuid.NewString()

	slot, err := s.store.Claim(id)
	if err != nil {
		s.reject(nc, err)
		return
	}

	p := newPeer(ctx, id, slot, nc, s.cfg.Match,
		prefixed(s.logger, fmt.Sprintf("[conn %d %s] ", int(slot), shortID(id))))
	s.addPeer(p)
	p.logger.Printf("connected from %s", nc.RemoteAddr())

	// The slot confirmation is always the first frame on the wire.
	p.Send(messages.Connected{Slot: slot})
	go p.writeLoop()
	go heartbeat(p, s.cfg.Match.HeartbeatInterval)

	s.readLoop(p)

	s.removePeer(p)
	p.Close()
	s.dispatch(s.store.Release(slot))
}

// reject tells a connection the server is full and closes it. The write is
// bounded so a dead client cannot hold the accept path.
func (s *Server) reject(nc net.Conn, reason error) {
	defer nc.Close()
	s.logger.Printf("Rejected connection from %s: %v", nc.RemoteAddr(), reason)

	nc.SetWriteDeadline(time.Now().Add(s.cfg.Match.WriteTimeout))
	msg := messages.Error{Message: "Server full"}
	if !errors.Is(reason, ErrServerFull) {
		msg.Message = reason.Error()
	}
	if err := protocol.NewConn(nc).Write(msg); err != nil {
		s.logger.Printf("Failed to send rejection: %v", err)
	}
}

// readLoop decodes messages until the transport fails. Malformed and unknown
// messages are logged and skipped.
func (s *Server) readLoop(p *peer) {
	for {
		kind, msg, err := p.codec.Read()
		if err != nil {
			switch {
			case errors.Is(err, protocol.ErrMalformed):
				p.logger.Printf("discarding message: %v", err)
				continue
			case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed), p.ctx.Err() != nil:
				p.logger.Println("disconnected")
			default:
				p.logger.Printf("read error: %v", err)
			}
			return
		}
		s.handleMessage(p, kind, msg)
	}
}

func (s *Server) handleMessage(p *peer, kind netconfig.MessageKind, msg any) {
	var (
		out []Outbound
		err error
	)
	switch m := msg.(type) {
	case messages.CharacterSelect:
		err = s.store.SelectCharacter(p.slot, m.Character)
	case messages.Ready:
		if m.Ready {
			out, err = s.store.MarkReady(p.slot)
		}
	case messages.ActionIntent:
		_, out, err = s.store.ApplyAction(p.slot, m)
	case messages.PlayerDied:
		if m.Died {
			out, err = s.store.MarkDied(p.slot)
		}
	case messages.ResetGame:
		if m.Reset {
			out, err = s.store.RequestReset(p.slot)
		}
	default:
		p.logger.Printf("ignoring %s from client", kind)
		return
	}

	if err != nil {
		p.logger.Printf("%s: %v", kind, err)
		if errors.Is(err, ErrUnknownCharacter) || errors.Is(err, ErrMatchInProgress) {
			p.Send(messages.ServerError{Message: err.Error()})
		}
	}
	s.dispatch(out)
}
