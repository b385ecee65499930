package core

import (
	"time"

	"github.com/automoto/duel-mp/shared/netconfig"
	"github.com/yohamta/donburi"
)

// SeatData identifies which slot a player entity occupies and the connection
// currently holding it.
type SeatData struct {
	Slot      netconfig.Slot
	ConnID    string
	Connected bool
	Ready     bool
}

// BodyData is the authoritative position reported by the owning client.
type BodyData struct {
	X, Y        float64
	VelocityY   float64
	FacingRight bool
	IsJumping   bool
}

// VitalsData is owned by the server; clients cannot write it directly.
type VitalsData struct {
	Health float64
	IsDead bool
}

// FighterData holds the character choice, attack flags and cooldown bookkeeping.
type FighterData struct {
	Character          netconfig.CharacterID
	IsAttacking        bool
	IsSpecialAttacking bool
	LastBasic          time.Time
	LastSpecial        time.Time
}

var (
	Seat    = donburi.NewComponentType[SeatData]()
	Body    = donburi.NewComponentType[BodyData]()
	Vitals  = donburi.NewComponentType[VitalsData]()
	Fighter = donburi.NewComponentType[FighterData]()
)
