package core

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/duel-mp/config"
	"github.com/automoto/duel-mp/shared/combat"
	"github.com/automoto/duel-mp/shared/gamemath"
	"github.com/automoto/duel-mp/shared/messages"
	"github.com/automoto/duel-mp/shared/netconfig"
	"github.com/yohamta/donburi"
)

var (
	ErrServerFull       = errors.New("server full")
	ErrUnknownSlot      = errors.New("unknown slot")
	ErrUnknownCharacter = errors.New("unknown character")
	ErrMatchInProgress  = errors.New("match in progress")
	ErrInvalidIntent    = errors.New("non-finite value in intent")
)

// Outbound is a message produced by a store mutation. The store never talks
// to the network itself; callers deliver these after the lock is released.
type Outbound struct {
	To     netconfig.Slot // SlotNone broadcasts to every connected peer
	Msg    any
	Repeat int // Extra copies for terminal messages; 0 or 1 sends once
}

// Store is the single authoritative match. All mutations are serialized by
// one mutex; every exported method takes it and the *Locked helpers expect
// it held.
type Store struct {
	mu     sync.Mutex
	world  donburi.World
	seats  map[netconfig.Slot]donburi.Entity
	level  *ServerLevel
	cfg    config.ServerConfig
	logger *log.Logger
	now    func() time.Time

	phase      netconfig.MatchPhase
	winner     netconfig.Slot
	gameOverAt time.Time
	tick       uint64
}

// NewStore creates an empty match in the waiting phase.
func NewStore(level *ServerLevel, cfg config.ServerConfig, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		world:  donburi.NewWorld(),
		seats:  make(map[netconfig.Slot]donburi.Entity, netconfig.MaxSlots),
		level:  level,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Claim assigns the lowest free slot to a new connection and resets that
// slot's state. A slot is free when it was never used or its holder left.
func (s *Store) Claim(connID string) (netconfig.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slot := range netconfig.Slots {
		entry, ok := s.entryLocked(slot)
		if ok && Seat.Get(entry).Connected {
			continue
		}
		if !ok {
			entity := s.world.Create(Seat, Body, Vitals, Fighter)
			s.seats[slot] = entity
			entry = s.world.Entry(entity)
		}
		Seat.Set(entry, &SeatData{Slot: slot, ConnID: connID, Connected: true})
		Fighter.Set(entry, &FighterData{})
		s.respawnLocked(entry, slot)
		s.logger.Printf("%s joined (conn %s)", slot, shortID(connID))
		return slot, nil
	}
	return netconfig.SlotNone, ErrServerFull
}

// Release marks slot as disconnected. Its last state is kept until the slot
// is claimed again. A match in progress ends and the remaining player is told.
func (s *Store) Release(slot netconfig.Slot) []Outbound {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.connectedLocked(slot)
	if !ok {
		return nil
	}
	seat := Seat.Get(entry)
	seat.Connected = false
	seat.Ready = false
	s.logger.Printf("%s disconnected", slot)

	out := []Outbound{{
		To:  slot.Other(),
		Msg: messages.ServerError{Message: fmt.Sprintf("Player %d disconnected", int(slot))},
	}}
	if s.phase != netconfig.PhaseWaiting {
		s.logger.Printf("Match ended due to player disconnect (was %s)", s.phase)
		s.toWaitingLocked(true)
	}
	return out
}

// SelectCharacter records slot's fighter choice. Only allowed while waiting.
func (s *Store) SelectCharacter(slot netconfig.Slot, id netconfig.CharacterID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.connectedLocked(slot)
	if !ok {
		return fmt.Errorf("select character for %s: %w", slot, ErrUnknownSlot)
	}
	if !id.Known() {
		return fmt.Errorf("select %q: %w", id, ErrUnknownCharacter)
	}
	if s.phase != netconfig.PhaseWaiting {
		return fmt.Errorf("select %q: %w", id, ErrMatchInProgress)
	}
	Fighter.Get(entry).Character = id
	s.logger.Printf("%s selected %s", slot, id)
	return nil
}

// MarkReady flags slot as ready. Readying twice has no extra effect. When
// both connected slots are ready the match moves to starting.
func (s *Store) MarkReady(slot netconfig.Slot) ([]Outbound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.connectedLocked(slot)
	if !ok {
		return nil, fmt.Errorf("ready %s: %w", slot, ErrUnknownSlot)
	}
	seat := Seat.Get(entry)
	if !seat.Ready {
		seat.Ready = true
		s.logger.Printf("%s ready (%d/%d)", slot, s.readyCountLocked(), netconfig.MaxSlots)
	}
	return s.evaluateLocked(s.now()), nil
}

// ApplyAction merges a sparse intent into slot's state and resolves any
// attack it carries.
func (s *Store) ApplyAction(slot netconfig.Slot, intent messages.ActionIntent) (AttackResult, []Outbound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.connectedLocked(slot)
	if !ok {
		return AttackResult{}, nil, fmt.Errorf("action from %s: %w", slot, ErrUnknownSlot)
	}
	if !intent.Finite() {
		return AttackResult{}, nil, fmt.Errorf("action from %s: %w", slot, ErrInvalidIntent)
	}
	now := s.now()

	body := Body.Get(entry)
	fighter := Fighter.Get(entry)
	if intent.X != nil {
		body.X = gamemath.Clamp(*intent.X, s.cfg.Physics.MinX, s.cfg.Physics.MaxX)
	}
	if intent.Y != nil {
		body.Y = *intent.Y
	}
	if intent.VelocityY != nil {
		body.VelocityY = *intent.VelocityY
	}
	if intent.FacingRight != nil {
		body.FacingRight = *intent.FacingRight
	}
	if intent.IsJumping != nil {
		body.IsJumping = *intent.IsJumping
	}
	if intent.IsAttacking != nil {
		fighter.IsAttacking = *intent.IsAttacking
	}
	if intent.IsSpecialAttacking != nil {
		fighter.IsSpecialAttacking = *intent.IsSpecialAttacking
	}

	var res AttackResult
	if intent.Attack {
		res = s.attackLocked(slot, entry, intent, now)
	}
	if intent.Died {
		Vitals.Get(entry).IsDead = true
	}
	return res, s.evaluateLocked(now), nil
}

func (s *Store) attackLocked(slot netconfig.Slot, entry *donburi.Entry, intent messages.ActionIntent, now time.Time) AttackResult {
	running := s.phase == netconfig.PhaseRunning
	defEntry, ok := s.entryLocked(slot.Other())
	if !ok || !running {
		return AttackResult{Special: intent.Special()}
	}

	bounded, allowed := boundIntent(intent, Fighter.Get(entry), now, s.cfg.Combat)
	if !allowed {
		s.logger.Printf("%s attack ignored: cooldown", slot)
		return AttackResult{Special: intent.Special()}
	}

	res := ResolveAttack(s.playerLocked(entry), s.playerLocked(defEntry), bounded, running, s.cfg.Combat)
	if !res.Hit {
		return res
	}

	vitals := Vitals.Get(defEntry)
	vitals.Health = res.DefenderHealth
	vitals.IsDead = vitals.IsDead || res.Defeated
	if res.PushX != 0 {
		body := Body.Get(defEntry)
		body.X = gamemath.Clamp(body.X+res.PushX, s.cfg.Physics.MinX, s.cfg.Physics.MaxX)
	}
	s.logger.Printf("%s hit %s for %.1f at distance %.1f (health %.1f)",
		slot, slot.Other(), res.Damage, res.Distance, res.DefenderHealth)
	return res
}

// MarkDied records a client-reported death (fell off the arena).
func (s *Store) MarkDied(slot netconfig.Slot) ([]Outbound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.connectedLocked(slot)
	if !ok {
		return nil, fmt.Errorf("died %s: %w", slot, ErrUnknownSlot)
	}
	Vitals.Get(entry).IsDead = true
	s.logger.Printf("%s reported death", slot)
	return s.evaluateLocked(s.now()), nil
}

// RequestReset returns the match to character selection: both players go
// back to spawn, characters and readiness are cleared.
func (s *Store) RequestReset(slot netconfig.Slot) ([]Outbound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.connectedLocked(slot); !ok {
		return nil, fmt.Errorf("reset from %s: %w", slot, ErrUnknownSlot)
	}
	s.logger.Printf("%s requested a reset", slot)
	s.toWaitingLocked(false)
	return []Outbound{{
		Msg:    messages.GameReset{State: s.snapshotLocked()},
		Repeat: s.cfg.Match.TerminalRepeat,
	}}, nil
}

// Snapshot returns a consistent copy of the match.
func (s *Store) Snapshot() messages.MatchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Phase returns the current lifecycle phase.
func (s *Store) Phase() netconfig.MatchPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// ConnectedCount returns the number of slots with a live connection.
func (s *Store) ConnectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectedCountLocked()
}

func (s *Store) snapshotLocked() messages.MatchState {
	state := messages.MatchState{
		Players:      make(map[netconfig.Slot]messages.PlayerState, len(s.seats)),
		Platforms:    s.level.Platforms(),
		ReadyCount:   s.readyCountLocked(),
		MatchStarted: s.phase.Started(),
		Phase:        s.phase,
		Winner:       s.winner,
		Tick:         s.tick,
		ServerTime:   s.now().UnixMilli(),
	}
	for slot := range s.seats {
		if entry, ok := s.entryLocked(slot); ok {
			state.Players[slot] = s.playerLocked(entry)
		}
	}
	return state
}

func (s *Store) playerLocked(entry *donburi.Entry) messages.PlayerState {
	seat := Seat.Get(entry)
	body := Body.Get(entry)
	vitals := Vitals.Get(entry)
	fighter := Fighter.Get(entry)
	return messages.PlayerState{
		Slot:               seat.Slot,
		X:                  body.X,
		Y:                  body.Y,
		VelocityY:          body.VelocityY,
		Health:             vitals.Health,
		Character:          fighter.Character,
		FacingRight:        body.FacingRight,
		IsAttacking:        fighter.IsAttacking,
		IsSpecialAttacking: fighter.IsSpecialAttacking,
		IsDead:             vitals.IsDead,
		IsJumping:          body.IsJumping,
		Connected:          seat.Connected,
	}
}

// respawnLocked puts the slot back at its spawn with full health. The
// character choice is left alone.
func (s *Store) respawnLocked(entry *donburi.Entry, slot netconfig.Slot) {
	x, y := s.level.Spawn(slot)
	Body.Set(entry, &BodyData{X: x, Y: y, FacingRight: slot == netconfig.Slot2})
	Vitals.Set(entry, &VitalsData{Health: combat.MaxHealth})
	fighter := Fighter.Get(entry)
	fighter.IsAttacking = false
	fighter.IsSpecialAttacking = false
	fighter.LastBasic = time.Time{}
	fighter.LastSpecial = time.Time{}
}

func (s *Store) entryLocked(slot netconfig.Slot) (*donburi.Entry, bool) {
	entity, ok := s.seats[slot]
	if !ok || !s.world.Valid(entity) {
		return nil, false
	}
	return s.world.Entry(entity), true
}

func (s *Store) connectedLocked(slot netconfig.Slot) (*donburi.Entry, bool) {
	entry, ok := s.entryLocked(slot)
	if !ok || !Seat.Get(entry).Connected {
		return nil, false
	}
	return entry, true
}

func (s *Store) connectedCountLocked() int {
	n := 0
	Seat.Each(s.world, func(e *donburi.Entry) {
		if Seat.Get(e).Connected {
			n++
		}
	})
	return n
}

func (s *Store) readyCountLocked() int {
	n := 0
	Seat.Each(s.world, func(e *donburi.Entry) {
		if seat := Seat.Get(e); seat.Connected && seat.Ready {
			n++
		}
	})
	return n
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
