package core

import (
	"errors"
	"time"

	"github.com/automoto/duel-mp/shared/messages"
)

// heartbeat queues a keepalive every interval until the peer closes. A full
// queue skips one beat; a closed peer ends the task.
func heartbeat(p *peer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.Done():
			return
		case <-ticker.C:
			if err := p.Send(messages.Heartbeat{}); errors.Is(err, errPeerClosed) {
				return
			}
		}
	}
}
