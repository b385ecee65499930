// Command master is the duel server directory. Game servers register and
// heartbeat; clients list them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	port := flag.Int("port", 8080, "HTTP listen port")
	ttl := flag.Duration("ttl", 90*time.Second, "Server TTL before expiry")
	sweep := flag.Duration("sweep", 30*time.Second, "Interval between expiry sweeps")
	flag.Parse()

	logger := log.New(os.Stderr, "[master] ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := NewRegistry(*ttl, logger)
	go reg.Run(ctx.Done(), *sweep)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           NewMux(reg, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Printf("starting on %s (TTL=%s)", srv.Addr, *ttl)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("fatal: %v", err)
	}
}
