package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/automoto/duel-mp/shared/netconfig"
)

type registerRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Phase      string `json:"phase"`
	Version    string `json:"version"`
	Region     string `json:"region"`
}

type registerResponse struct {
	ID string `json:"id"`
}

type heartbeatRequest struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
	Phase   string `json:"phase"`
}

const maxRequestBody = 1 << 16

// maxSeats caps what a server may advertise; a duel never has more.
const maxSeats = 2

var errBadRequest = errors.New("bad request")

// directory serves the HTTP face of a Registry.
type directory struct {
	reg    *Registry
	logger *log.Logger
}

func NewMux(reg *Registry, logger *log.Logger) *http.ServeMux {
	d := &directory{reg: reg, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /servers", d.list)
	mux.HandleFunc("POST /servers/register", d.register)
	mux.HandleFunc("POST /servers/heartbeat", d.heartbeat)
	mux.HandleFunc("GET /health", d.health)
	return mux
}

func (d *directory) list(w http.ResponseWriter, _ *http.Request) {
	d.reply(w, http.StatusOK, d.reg.List())
}

func (d *directory) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(w, r, &req); err != nil {
		d.fail(w, err)
		return
	}
	info, err := req.listing()
	if err != nil {
		d.fail(w, err)
		return
	}
	id := d.reg.Register(info)
	d.logger.Printf("registered %q at %s (id=%s, %s)", info.Name, info.Address, id, info.Phase)
	d.reply(w, http.StatusCreated, registerResponse{ID: id})
}

func (d *directory) heartbeat(w http.ResponseWriter, r *http.Request) {
	var req heartbeatRequest
	if err := decode(w, r, &req); err != nil {
		d.fail(w, err)
		return
	}
	phase, err := checkPhase(req.Phase)
	if err == nil {
		err = checkPlayers(req.Players)
	}
	if err != nil {
		d.fail(w, err)
		return
	}
	if !d.reg.Heartbeat(req.ID, req.Players, phase) {
		d.reply(w, http.StatusNotFound, map[string]string{"error": "unknown server"})
		return
	}
	d.reply(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (d *directory) health(w http.ResponseWriter, _ *http.Request) {
	d.reply(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listing validates a registration and fills defaults.
func (req registerRequest) listing() (ServerInfo, error) {
	if req.Name == "" || req.Address == "" {
		return ServerInfo{}, fmt.Errorf("%w: name and address required", errBadRequest)
	}
	phase, err := checkPhase(req.Phase)
	if err != nil {
		return ServerInfo{}, err
	}
	if phase == "" {
		phase = netconfig.PhaseWaiting.String()
	}
	if err := checkPlayers(req.Players); err != nil {
		return ServerInfo{}, err
	}
	seats := req.MaxPlayers
	if seats <= 0 || seats > maxSeats {
		seats = maxSeats
	}
	return ServerInfo{
		Name:       req.Name,
		Address:    req.Address,
		Players:    req.Players,
		MaxPlayers: seats,
		Phase:      phase,
		Version:    req.Version,
		Region:     req.Region,
	}, nil
}

// checkPhase accepts a lifecycle phase name or empty for "unchanged".
func checkPhase(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	if _, ok := netconfig.ParseMatchPhase(name); !ok {
		return "", fmt.Errorf("%w: unknown phase %q", errBadRequest, name)
	}
	return name, nil
}

func checkPlayers(n int) error {
	if n < 0 || n > maxSeats {
		return fmt.Errorf("%w: players %d out of range", errBadRequest, n)
	}
	return nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid json", errBadRequest)
	}
	return nil
}

func (d *directory) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, errBadRequest) {
		status = http.StatusBadRequest
	}
	d.reply(w, status, map[string]string{"error": err.Error()})
}

func (d *directory) reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		d.logger.Printf("encode %d reply: %v", status, err)
	}
}
