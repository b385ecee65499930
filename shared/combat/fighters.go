// Package combat holds the fighter table and damage formulas. Clients use it
// to fill attack intents; the server uses the same numbers to bound-check
// what clients send.
package combat

import (
	"time"

	"github.com/automoto/duel-mp/shared/gamemath"
	"github.com/automoto/duel-mp/shared/netconfig"
)

// MaxHealth is the full health of every fighter.
const MaxHealth = 100.0

// Attack describes one attack kind.
type Attack struct {
	Damage   float64
	Range    float64
	Cooldown time.Duration
}

// Basic is shared by every fighter.
var Basic = Attack{
	Damage:   10,
	Range:    150,
	Cooldown: 500 * time.Millisecond,
}

// Fighter is a selectable character and its special attack.
type Fighter struct {
	ID      netconfig.CharacterID
	Special Attack
	// Push moves the defender horizontally on a special hit.
	Push float64
}

var fighters = map[netconfig.CharacterID]Fighter{
	netconfig.CharacterLucario: {
		ID:      netconfig.CharacterLucario,
		Special: Attack{Damage: 25, Range: 200, Cooldown: 3 * time.Second},
	},
	netconfig.CharacterMewtwo: {
		ID:      netconfig.CharacterMewtwo,
		Special: Attack{Damage: 30, Range: 300, Cooldown: 10 * time.Second},
	},
	netconfig.CharacterZeraora: {
		ID:      netconfig.CharacterZeraora,
		Special: Attack{Damage: 20, Range: 150, Cooldown: 2 * time.Second},
		Push:    40,
	},
	netconfig.CharacterCinderace: {
		ID:      netconfig.CharacterCinderace,
		Special: Attack{Damage: 22, Range: 250, Cooldown: 3 * time.Second},
	},
}

// Lookup returns the fighter for id.
func Lookup(id netconfig.CharacterID) (Fighter, bool) {
	f, ok := fighters[id]
	return f, ok
}

// SpecialDamage computes the special attack damage.
//   - Lucario hits harder the lower its own health.
//   - Cinderace hits harder the farther away the defender is.
//
// health is the attacker's current health; distance is |attacker.x - defender.x|.
func (f Fighter) SpecialDamage(health, distance float64) float64 {
	base := f.Special.Damage
	switch f.ID {
	case netconfig.CharacterLucario:
		fraction := gamemath.Clamp(health, 0, MaxHealth) / MaxHealth
		return base * (1 + (1 - fraction))
	case netconfig.CharacterCinderace:
		if f.Special.Range <= 0 {
			return base
		}
		return base * (1 + gamemath.Clamp(distance, 0, f.Special.Range)/f.Special.Range)
	}
	return base
}

// MaxSpecialDamage is the largest damage the special can legitimately deal.
func (f Fighter) MaxSpecialDamage() float64 {
	switch f.ID {
	case netconfig.CharacterLucario, netconfig.CharacterCinderace:
		return f.Special.Damage * 2
	}
	return f.Special.Damage
}

// Limits returns the damage, range and cooldown bounds for an attack kind.
// Unknown fighters fall back to the basic attack for both kinds.
func Limits(id netconfig.CharacterID, special bool) Attack {
	f, ok := Lookup(id)
	if !special || !ok {
		return Basic
	}
	return Attack{
		Damage:   f.MaxSpecialDamage(),
		Range:    f.Special.Range,
		Cooldown: f.Special.Cooldown,
	}
}
