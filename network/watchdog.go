package network

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrHeartbeatTimeout means the server went silent for longer than the
// configured timeout.
var ErrHeartbeatTimeout = errors.New("heartbeat timeout")

// watchdog flags the connection as failed when nothing has arrived for
// HeartbeatTimeout. The connection itself is left for the caller to close.
func (c *Client) watchdog(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.WatchdogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.checkLiveness(); err != nil {
				c.logger.Printf("%v", err)
				c.setError(err)
				return
			}
		}
	}
}

// checkLiveness returns ErrHeartbeatTimeout once the silence exceeds the
// timeout. Any received message counts as a sign of life.
func (c *Client) checkLiveness() error {
	c.mu.RLock()
	last := c.lastSeen
	c.mu.RUnlock()

	if silent := c.now().Sub(last); silent > c.cfg.HeartbeatTimeout {
		return fmt.Errorf("%w: nothing received for %v", ErrHeartbeatTimeout, silent.Round(time.Millisecond))
	}
	return nil
}
