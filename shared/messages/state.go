package messages

import "github.com/automoto/duel-mp/shared/netconfig"

// Platform is an immutable level rectangle. Y is the walkable surface.
type Platform struct {
	X      float64 `codec:"x"`
	Y      float64 `codec:"y"`
	Width  float64 `codec:"width"`
	Height float64 `codec:"height"`
}

// PlayerState is the wire form of one slot's authoritative state.
type PlayerState struct {
	Slot               netconfig.Slot        `codec:"slot"`
	X                  float64               `codec:"x"`
	Y                  float64               `codec:"y"`
	VelocityY          float64               `codec:"velocity_y"`
	Health             float64               `codec:"health"`
	Character          netconfig.CharacterID `codec:"character"`
	FacingRight        bool                  `codec:"facing_right"`
	IsAttacking        bool                  `codec:"is_attacking"`
	IsSpecialAttacking bool                  `codec:"is_special_attacking"`
	IsDead             bool                  `codec:"is_dead"`
	IsJumping          bool                  `codec:"is_jumping"`
	Connected          bool                  `codec:"connected"`
}

// MatchState is the serialized copy of the server's match. Tick and
// ServerTime let clients discard stale snapshots.
type MatchState struct {
	Players      map[netconfig.Slot]PlayerState `codec:"players"`
	Platforms    []Platform                     `codec:"platforms"`
	ReadyCount   int                            `codec:"ready"`
	MatchStarted bool                           `codec:"match_started"`
	Phase        netconfig.MatchPhase           `codec:"phase"`
	Winner       netconfig.Slot                 `codec:"winner"` // Set only during game over
	Tick         uint64                         `codec:"tick"`
	ServerTime   int64                          `codec:"timestamp"`
}

// Player returns the state for slot, if present.
func (m MatchState) Player(slot netconfig.Slot) (PlayerState, bool) {
	p, ok := m.Players[slot]
	return p, ok
}
