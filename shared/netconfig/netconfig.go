// Package netconfig defines lightweight types shared between client and server
// for network serialization. It must stay free of transport and storage
// dependencies so both binaries can import it.
package netconfig

import "fmt"

// Slot identifies one of the two fixed player identities in a match.
type Slot int

const (
	SlotNone Slot = 0
	Slot1    Slot = 1
	Slot2    Slot = 2
)

// MaxSlots is the number of participants a server accepts.
const MaxSlots = 2

// Slots lists every valid slot in assignment order.
var Slots = [MaxSlots]Slot{Slot1, Slot2}

// Valid reports whether s names a real slot.
func (s Slot) Valid() bool {
	return s == Slot1 || s == Slot2
}

// Other returns the opposing slot.
func (s Slot) Other() Slot {
	switch s {
	case Slot1:
		return Slot2
	case Slot2:
		return Slot1
	}
	return SlotNone
}

func (s Slot) String() string {
	if !s.Valid() {
		return "none"
	}
	return fmt.Sprintf("player %d", int(s))
}

// MatchPhase represents the current state of a match.
type MatchPhase int

const (
	PhaseWaiting  MatchPhase = iota // Fewer than two players readied
	PhaseStarting                   // Ready threshold crossed, match_start sent
	PhaseRunning                    // Active gameplay, snapshots and attacks live
	PhaseGameOver                   // A player fell, waiting out the grace delay
)

var phaseNames = map[MatchPhase]string{
	PhaseWaiting:  "waiting",
	PhaseStarting: "starting",
	PhaseRunning:  "running",
	PhaseGameOver: "game_over",
}

func (p MatchPhase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParseMatchPhase is the inverse of String.
func ParseMatchPhase(name string) (MatchPhase, bool) {
	for p, n := range phaseNames {
		if n == name {
			return p, true
		}
	}
	return 0, false
}

// Started reports whether the phase counts as match_started on the wire.
func (p MatchPhase) Started() bool {
	return p == PhaseStarting || p == PhaseRunning || p == PhaseGameOver
}

// CharacterID names one of the selectable fighters. The empty value means
// no fighter has been chosen yet.
type CharacterID string

const (
	CharacterNone      CharacterID = ""
	CharacterLucario   CharacterID = "Lucario"
	CharacterMewtwo    CharacterID = "Mewtwo"
	CharacterZeraora   CharacterID = "Zeraora"
	CharacterCinderace CharacterID = "Cinderace"
)

// Characters lists the selectable fighters in menu order.
var Characters = []CharacterID{
	CharacterLucario,
	CharacterMewtwo,
	CharacterZeraora,
	CharacterCinderace,
}

// Known reports whether c is one of the selectable fighters.
func (c CharacterID) Known() bool {
	for _, known := range Characters {
		if c == known {
			return true
		}
	}
	return false
}

// MessageKind tags every envelope on the wire.
type MessageKind string

// Server -> client.
const (
	KindConnected   MessageKind = "connected"
	KindError       MessageKind = "error"
	KindHeartbeat   MessageKind = "heartbeat"
	KindMatchStart  MessageKind = "match_start"
	KindSnapshot    MessageKind = "snapshot"
	KindGameOver    MessageKind = "game_over"
	KindGameReset   MessageKind = "game_reset"
	KindServerError MessageKind = "server_error"
)

// Client -> server.
const (
	KindCharacterSelect MessageKind = "character_select"
	KindReady           MessageKind = "ready"
	KindPlayerAction    MessageKind = "player_action"
	KindPlayerDied      MessageKind = "player_died"
	KindResetGame       MessageKind = "reset_game"
)
