package messages

import (
	"math"

	"github.com/automoto/duel-mp/shared/netconfig"
)

// CharacterSelect is sent once the player picks a fighter.
type CharacterSelect struct {
	Character netconfig.CharacterID `codec:"character_select"`
}

// Ready marks the sender as ready for the match.
type Ready struct {
	Ready bool `codec:"ready"`
}

// ActionIntent carries only the fields a client wants to change this tick.
// Nil fields are left untouched on the server.
type ActionIntent struct {
	X                  *float64 `codec:"x,omitempty"`
	Y                  *float64 `codec:"y,omitempty"`
	VelocityY          *float64 `codec:"velocity_y,omitempty"`
	FacingRight        *bool    `codec:"facing_right,omitempty"`
	IsAttacking        *bool    `codec:"is_attacking,omitempty"`
	IsSpecialAttacking *bool    `codec:"is_special_attacking,omitempty"`
	IsJumping          *bool    `codec:"is_jumping,omitempty"`
	Attack             bool     `codec:"attack,omitempty"`
	Damage             *float64 `codec:"damage,omitempty"`
	AttackRange        *float64 `codec:"attack_range,omitempty"`
	Died               bool     `codec:"died,omitempty"`
}

// Empty reports whether the intent would change nothing.
func (a ActionIntent) Empty() bool {
	return a.X == nil && a.Y == nil && a.VelocityY == nil && a.FacingRight == nil &&
		a.IsAttacking == nil && a.IsSpecialAttacking == nil && a.IsJumping == nil &&
		!a.Attack && a.Damage == nil && a.AttackRange == nil && !a.Died
}

// Finite reports whether every numeric field present is a real number.
// NaN and infinities never compare as out of range, so they are refused
// outright.
func (a ActionIntent) Finite() bool {
	for _, v := range []*float64{a.X, a.Y, a.VelocityY, a.Damage, a.AttackRange} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return false
		}
	}
	return true
}

// Special reports whether the intent is a special attack.
func (a ActionIntent) Special() bool {
	return a.Attack && a.IsSpecialAttacking != nil && *a.IsSpecialAttacking
}

// PlayerDied reports a locally detected death (fell off the arena).
type PlayerDied struct {
	Died bool `codec:"player_died"`
}

// ResetGame asks the server to return everyone to character selection.
type ResetGame struct {
	Reset bool `codec:"reset_game"`
}

// Ptr returns a pointer to v, for filling sparse intents.
func Ptr[T any](v T) *T {
	return &v
}
