package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/automoto/duel-mp/shared/netconfig"
)

// StatusSource is what the directory needs to know about a running server.
type StatusSource interface {
	PlayerCount() int
	Phase() netconfig.MatchPhase
}

// Registration registers with the server directory and keeps the listing
// fresh with periodic heartbeats.
type Registration struct {
	masterURL string
	serverID  string
	name      string
	address   string
	version   string
	region    string
	interval  time.Duration
	status    StatusSource
	client    *http.Client
	logger    *log.Logger
}

type regRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Phase      string `json:"phase"`
	Version    string `json:"version"`
	Region     string `json:"region"`
}

type regResponse struct {
	ID string `json:"id"`
}

type heartbeatRequest struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
	Phase   string `json:"phase"`
}

func NewRegistration(masterURL, name, address, version, region string, status StatusSource, logger *log.Logger) *Registration {
	if logger == nil {
		logger = log.Default()
	}
	return &Registration{
		masterURL: masterURL,
		name:      name,
		address:   address,
		version:   version,
		region:    region,
		interval:  30 * time.Second,
		status:    status,
		client:    &http.Client{Timeout: 5 * time.Second},
		logger:    logger,
	}
}

// Run registers, then heartbeats until ctx is canceled. Failures are logged
// and retried on the next beat; the directory is optional.
func (r *Registration) Run(ctx context.Context) {
	if err := r.register(ctx); err != nil {
		r.logger.Printf("initial registration failed: %v", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.sendHeartbeat(ctx); err != nil {
				r.logger.Printf("heartbeat failed: %v", err)
			}
		}
	}
}

func (r *Registration) register(ctx context.Context) error {
	body, err := json.Marshal(regRequest{
		Name:       r.name,
		Address:    r.address,
		Players:    r.status.PlayerCount(),
		MaxPlayers: netconfig.MaxSlots,
		Phase:      r.status.Phase().String(),
		Version:    r.version,
		Region:     r.region,
	})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	resp, err := r.post(ctx, "/servers/register", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result regResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	r.serverID = result.ID
	r.logger.Printf("registered with directory (id=%s)", r.serverID)
	return nil
}

func (r *Registration) sendHeartbeat(ctx context.Context) error {
	if r.serverID == "" {
		return r.register(ctx)
	}

	body, err := json.Marshal(heartbeatRequest{
		ID:      r.serverID,
		Players: r.status.PlayerCount(),
		Phase:   r.status.Phase().String(),
	})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	resp, err := r.post(ctx, "/servers/heartbeat", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		r.logger.Println("directory lost our registration, re-registering")
		return r.register(ctx)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return nil
}

func (r *Registration) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.masterURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	return resp, nil
}
