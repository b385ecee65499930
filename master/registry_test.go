package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestRegistryExpiresStaleServers(t *testing.T) {
	reg := NewRegistry(90*time.Second, quietLogger())
	base := time.Unix(1700000000, 0)
	now := base
	reg.now = func() time.Time { return now }

	a := reg.Register(ServerInfo{Name: "a", Address: "10.0.0.1:5555"})
	b := reg.Register(ServerInfo{Name: "b", Address: "10.0.0.2:5555"})

	now = base.Add(60 * time.Second)
	if !reg.Heartbeat(b, 1, "waiting") {
		t.Fatalf("heartbeat for a known id failed")
	}

	now = base.Add(90 * time.Second)
	if n := reg.Expire(); n != 1 {
		t.Fatalf("expired %d, want 1", n)
	}
	list := reg.List()
	if len(list) != 1 || list[0].ID != b || list[0].Players != 1 || list[0].Phase != "waiting" {
		t.Fatalf("list = %+v", list)
	}
	if reg.Heartbeat(a, 0, "") {
		t.Errorf("heartbeat for an expired id should fail")
	}
}

func TestDirectoryHTTPFlow(t *testing.T) {
	reg := NewRegistry(time.Minute, quietLogger())
	ts := httptest.NewServer(NewMux(reg, quietLogger()))
	defer ts.Close()

	post := func(path string, v any) *http.Response {
		t.Helper()
		body, _ := json.Marshal(v)
		resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("post %s: %v", path, err)
		}
		return resp
	}

	resp := post("/servers/register", registerRequest{Name: "duel", Address: "10.0.0.1:5555", MaxPlayers: 8, Phase: "waiting"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	var reg1 registerResponse
	if err := json.NewDecoder(resp.Body).Decode(&reg1); err != nil || reg1.ID == "" {
		t.Fatalf("register response = %+v, %v", reg1, err)
	}
	resp.Body.Close()

	resp = post("/servers/heartbeat", heartbeatRequest{ID: reg1.ID, Players: 2, Phase: "running"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("heartbeat status = %d", resp.StatusCode)
	}

	resp = post("/servers/heartbeat", heartbeatRequest{ID: "nope"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown heartbeat status = %d", resp.StatusCode)
	}

	resp = post("/servers/register", registerRequest{Name: "missing address"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad register status = %d", resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/servers")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer resp.Body.Close()
	var servers []ServerInfo
	if err := json.NewDecoder(resp.Body).Decode(&servers); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(servers) != 1 {
		t.Fatalf("servers = %+v", servers)
	}
	got := servers[0]
	if got.MaxPlayers != maxSeats || got.Players != 2 || got.Phase != "running" {
		t.Errorf("listing = %+v", got)
	}
}

func TestDirectoryRejectsBadListings(t *testing.T) {
	reg := NewRegistry(time.Minute, quietLogger())
	ts := httptest.NewServer(NewMux(reg, quietLogger()))
	defer ts.Close()

	status := func(path string, v any) int {
		t.Helper()
		body, _ := json.Marshal(v)
		resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("post %s: %v", path, err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	bad := []registerRequest{
		{Name: "a", Address: "h:1", Phase: "lobby"},
		{Name: "a", Address: "h:1", Players: 3},
		{Name: "a", Address: "h:1", Players: -1},
	}
	for _, req := range bad {
		if got := status("/servers/register", req); got != http.StatusBadRequest {
			t.Errorf("register %+v status = %d, want 400", req, got)
		}
	}
	if n := len(reg.List()); n != 0 {
		t.Fatalf("bad registrations were stored: %d", n)
	}

	id := reg.Register(ServerInfo{Name: "a", Address: "h:1", Phase: "waiting"})
	if got := status("/servers/heartbeat", heartbeatRequest{ID: id, Phase: "paused"}); got != http.StatusBadRequest {
		t.Errorf("heartbeat with unknown phase status = %d", got)
	}
	if got := status("/servers/heartbeat", heartbeatRequest{ID: id, Players: 1}); got != http.StatusOK {
		t.Errorf("heartbeat without phase status = %d", got)
	}
	if got := reg.List()[0]; got.Phase != "waiting" || got.Players != 1 {
		t.Errorf("listing = %+v", got)
	}
}

func TestRegisterDefaultsPhase(t *testing.T) {
	info, err := registerRequest{Name: "a", Address: "h:1"}.listing()
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if info.Phase != "waiting" || info.MaxPlayers != maxSeats {
		t.Errorf("info = %+v", info)
	}
}
