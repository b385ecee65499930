package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ServerEntry is one listing from the server directory.
type ServerEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Phase      string `json:"phase"`
	Version    string `json:"version"`
	Region     string `json:"region"`
}

// Open reports whether the server has a free seat and is not mid-match.
func (e ServerEntry) Open() bool {
	return e.Players < e.MaxPlayers && (e.Phase == "" || e.Phase == "waiting")
}

// Browser queries the server directory.
type Browser struct {
	masterURL  string
	httpClient *http.Client
}

func NewBrowser(masterURL string) *Browser {
	return &Browser{
		masterURL:  strings.TrimRight(masterURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// List fetches every live server.
func (b *Browser) List(ctx context.Context) ([]ServerEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.masterURL+"/servers", nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query directory: status %d", resp.StatusCode)
	}
	var servers []ServerEntry
	if err := json.NewDecoder(resp.Body).Decode(&servers); err != nil {
		return nil, fmt.Errorf("decode server list: %w", err)
	}
	return servers, nil
}

// Pick returns the open server with the most players waiting, so a lone
// player is matched before an empty server is taken.
func Pick(servers []ServerEntry) (ServerEntry, bool) {
	var best ServerEntry
	found := false
	for _, s := range servers {
		if !s.Open() {
			continue
		}
		if !found || s.Players > best.Players {
			best, found = s, true
		}
	}
	return best, found
}
