package core

import (
	"time"

	"github.com/automoto/duel-mp/shared/messages"
	"github.com/automoto/duel-mp/shared/netconfig"
	"github.com/yohamta/donburi"
)

// The lifecycle moves WAITING -> STARTING -> RUNNING -> GAME_OVER -> WAITING.
//
//   - WAITING -> STARTING fires on the edge where both connected slots are
//     ready, immediately after the mutation that caused it. match_start is
//     emitted exactly once per crossing.
//   - STARTING -> RUNNING happens on the next tick, or falls back to WAITING
//     if a player left in between.
//   - RUNNING -> GAME_OVER is checked after every mutation and every tick.
//   - GAME_OVER -> WAITING happens on the first tick after the grace period.
//
// A disconnect outside WAITING always drops back to WAITING (see Release).

// Tick advances the lifecycle one step and returns what should be sent,
// including the periodic snapshot while a match is on.
func (s *Store) Tick() []Outbound {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.tick++

	var out []Outbound
	if s.phase == netconfig.PhaseStarting {
		if s.connectedCountLocked() == netconfig.MaxSlots {
			s.phase = netconfig.PhaseRunning
			s.logger.Println("Match running")
		} else {
			s.logger.Println("Match start aborted, a player left")
			s.toWaitingLocked(true)
		}
	}

	out = append(out, s.evaluateLocked(now)...)

	if s.phase == netconfig.PhaseGameOver && now.Sub(s.gameOverAt) >= s.cfg.Match.GameOverGrace {
		s.logger.Println("Game over grace elapsed, resetting")
		s.toWaitingLocked(true)
		out = append(out, Outbound{
			Msg:    messages.GameReset{State: s.snapshotLocked()},
			Repeat: s.cfg.Match.TerminalRepeat,
		})
	}

	if s.phase.Started() {
		out = append(out, Outbound{Msg: messages.Snapshot{State: s.snapshotLocked()}})
	}
	return out
}

// evaluateLocked applies the transitions that may follow any mutation.
func (s *Store) evaluateLocked(now time.Time) []Outbound {
	switch s.phase {
	case netconfig.PhaseWaiting:
		if s.connectedCountLocked() == netconfig.MaxSlots && s.readyCountLocked() == netconfig.MaxSlots {
			s.phase = netconfig.PhaseStarting
			s.logger.Println("Both players ready, starting match")
			return []Outbound{{Msg: messages.MatchStart{State: s.snapshotLocked()}}}
		}

	case netconfig.PhaseRunning:
		loser, ok := s.loserLocked()
		if !ok {
			return nil
		}
		if entry, ok := s.entryLocked(loser); ok {
			Vitals.Get(entry).IsDead = true
		}
		s.phase = netconfig.PhaseGameOver
		s.winner = loser.Other()
		s.gameOverAt = now
		s.logger.Printf("Game over, %s wins", s.winner)
		return []Outbound{{
			Msg:    messages.GameOver{Winner: s.winner, State: s.snapshotLocked()},
			Repeat: s.cfg.Match.TerminalRepeat,
		}}
	}
	return nil
}

// loserLocked returns the first connected slot that is out of the fight:
// no health left, reported dead, or below the arena.
func (s *Store) loserLocked() (netconfig.Slot, bool) {
	for _, slot := range netconfig.Slots {
		entry, ok := s.connectedLocked(slot)
		if !ok {
			continue
		}
		vitals := Vitals.Get(entry)
		if vitals.Health <= 0 || vitals.IsDead {
			return slot, true
		}
		if s.level.FellOut(Body.Get(entry).Y, s.cfg.Physics.FallDeathMargin) {
			return slot, true
		}
	}
	return netconfig.SlotNone, false
}

// toWaitingLocked clears readiness and respawns every known slot. Characters
// survive unless keepCharacters is false.
func (s *Store) toWaitingLocked(keepCharacters bool) {
	s.phase = netconfig.PhaseWaiting
	s.winner = netconfig.SlotNone
	s.gameOverAt = time.Time{}

	Seat.Each(s.world, func(e *donburi.Entry) {
		seat := Seat.Get(e)
		seat.Ready = false
		if !keepCharacters {
			Fighter.Get(e).Character = netconfig.CharacterNone
		}
		s.respawnLocked(e, seat.Slot)
	})
}
