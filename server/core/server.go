package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/automoto/duel-mp/config"
	"github.com/automoto/duel-mp/shared/netconfig"
	"github.com/coder/websocket"
	"golang.org/x/sync/errgroup"
)

// Server owns the match store and the connected peers.
type Server struct {
	cfg    config.ServerConfig
	store  *Store
	loop   *GameLoop
	logger *log.Logger

	// Track which peer holds which slot
	peers map[netconfig.Slot]*peer
	mu    sync.RWMutex
	conns sync.WaitGroup
}

// NewServer creates a server for level. A nil logger uses log.Default.
func NewServer(cfg config.ServerConfig, level *ServerLevel, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		store:  NewStore(level, cfg, prefixed(logger, "[match] ")),
		logger: logger,
		peers:  make(map[netconfig.Slot]*peer, netconfig.MaxSlots),
	}
	s.loop = NewGameLoop(s, cfg.Match.TickInterval, prefixed(logger, "[loop] "))
	return s
}

// Store exposes the match store.
func (s *Server) Store() *Store {
	return s.store
}

// Run listens on the configured TCP port (and WebSocket port, if set), runs
// the broadcast loop and blocks until ctx is canceled or a listener fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port))
	if err != nil {
		return fmt.Errorf("listen tcp: %w", err)
	}

	var (
		wsLn  net.Listener
		wsSrv *http.Server
	)
	if s.cfg.WSPort != 0 {
		wsLn, err = net.Listen("tcp", fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.WSPort))
		if err != nil {
			ln.Close()
			return fmt.Errorf("listen websocket: %w", err)
		}
		mux := http.NewServeMux()
		mux.Handle("/ws", s.WebsocketHandler())
		wsSrv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Serve(gctx, ln)
	})
	if wsSrv != nil {
		s.logger.Printf("WebSocket transport on %s/ws", wsLn.Addr())
		g.Go(func() error {
			if err := wsSrv.Serve(wsLn); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("websocket: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		s.loop.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		if wsSrv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			wsSrv.Shutdown(shutdownCtx)
		}
		s.closePeers()
		return nil
	})

	err = g.Wait()
	s.conns.Wait()
	s.logger.Println("Server stopped")
	return err
}

// Serve accepts raw TCP connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	context.AfterFunc(ctx, func() { ln.Close() })
	s.logger.Printf("Listening on %s", ln.Addr())

	for {
		nc, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConn(ctx, nc)
		}()
	}
}

// WebsocketHandler upgrades HTTP requests and serves them with the same
// framing as the TCP transport, carried in binary messages.
func (s *Server) WebsocketHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			s.logger.Printf("websocket accept from %s: %v", r.RemoteAddr, err)
			return
		}
		s.conns.Add(1)
		defer s.conns.Done()

		ctx := r.Context()
		s.handleConn(ctx, websocket.NetConn(ctx, c, websocket.MessageBinary))
	})
}

// PlayerCount returns the number of connected players.
func (s *Server) PlayerCount() int {
	return s.store.ConnectedCount()
}

// Phase returns the match lifecycle phase.
func (s *Server) Phase() netconfig.MatchPhase {
	return s.store.Phase()
}

// dispatch delivers store output. Must not be called with the store lock held.
func (s *Server) dispatch(out []Outbound) {
	for _, o := range out {
		n := max(o.Repeat, 1)
		for i := 0; i < n; i++ {
			if o.To == netconfig.SlotNone {
				s.broadcast(o.Msg)
			} else {
				s.sendTo(o.To, o.Msg)
			}
		}
	}
}

func (s *Server) broadcast(msg any) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.peers {
		p.Send(msg)
	}
}

func (s *Server) sendTo(slot netconfig.Slot, msg any) {
	s.mu.RLock()
	p, ok := s.peers[slot]
	s.mu.RUnlock()
	if ok {
		p.Send(msg)
	}
}

func (s *Server) addPeer(p *peer) {
	s.mu.Lock()
	s.peers[p.slot] = p
	s.mu.Unlock()
}

// removePeer drops p unless its slot was already taken over.
func (s *Server) removePeer(p *peer) {
	s.mu.Lock()
	if s.peers[p.slot] == p {
		delete(s.peers, p.slot)
	}
	s.mu.Unlock()
}

func (s *Server) closePeers() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.peers {
		p.Close()
	}
}

func prefixed(base *log.Logger, prefix string) *log.Logger {
	return log.New(base.Writer(), prefix, base.Flags())
}
