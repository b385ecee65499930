package core

import (
	"context"
	"log"
	"time"
)

// GameLoop drives the match lifecycle and snapshot broadcast at a fixed rate.
type GameLoop struct {
	server   *Server
	interval time.Duration
	logger   *log.Logger
}

func NewGameLoop(server *Server, interval time.Duration, logger *log.Logger) *GameLoop {
	return &GameLoop{
		server:   server,
		interval: interval,
		logger:   logger,
	}
}

// Run ticks until ctx is canceled.
func (g *GameLoop) Run(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	g.logger.Printf("Game loop started, one tick every %v", g.interval)

	for {
		select {
		case <-ctx.Done():
			g.logger.Println("Game loop stopped")
			return
		case <-ticker.C:
			g.tick()
		}
	}
}

// tick advances the store outside the network path, then delivers what it
// produced. Delivery only enqueues, so a slow peer cannot stall the loop.
func (g *GameLoop) tick() {
	g.server.dispatch(g.server.store.Tick())
}
