package network

import (
	"time"

	"github.com/automoto/duel-mp/shared/combat"
	"github.com/automoto/duel-mp/shared/messages"
	"github.com/automoto/duel-mp/shared/netconfig"
)

// Input is one tick of player intent, independent of key bindings.
type Input struct {
	Left, Right bool
	Jump        bool
	Attack      bool
	Special     bool
}

// AttackPlanner turns attack buttons into attack intents, enforcing the
// local cooldowns and filling damage and range from the fighter table. The
// server re-checks everything it produces.
type AttackPlanner struct {
	character   netconfig.CharacterID
	lastBasic   time.Time
	lastSpecial time.Time
	attacking   bool
	special     bool
}

func NewAttackPlanner(character netconfig.CharacterID) *AttackPlanner {
	return &AttackPlanner{character: character}
}

// SetCharacter changes the fighter and forgets cooldowns.
func (a *AttackPlanner) SetCharacter(character netconfig.CharacterID) {
	*a = AttackPlanner{character: character}
}

// Plan adds attack fields to intent. health is the local player's health and
// distance the horizontal gap to the opponent, both used by some specials.
// When both buttons fire on the same tick the special wins.
func (a *AttackPlanner) Plan(in Input, now time.Time, health, distance float64, intent *messages.ActionIntent) {
	basic := in.Attack && now.Sub(a.lastBasic) > combat.Basic.Cooldown
	if basic {
		a.lastBasic = now
		a.attacking = true
		intent.Attack = true
		intent.IsAttacking = messages.Ptr(true)
		intent.Damage = messages.Ptr(combat.Basic.Damage)
		intent.AttackRange = messages.Ptr(combat.Basic.Range)
	} else if a.attacking && !in.Attack {
		a.attacking = false
		intent.IsAttacking = messages.Ptr(false)
	}

	f, known := combat.Lookup(a.character)
	special := known && in.Special && now.Sub(a.lastSpecial) > f.Special.Cooldown
	if special {
		a.lastSpecial = now
		a.special = true
		intent.Attack = true
		intent.IsSpecialAttacking = messages.Ptr(true)
		intent.Damage = messages.Ptr(f.SpecialDamage(health, distance))
		intent.AttackRange = messages.Ptr(f.Special.Range)
	} else if a.special && !in.Special {
		a.special = false
		intent.IsSpecialAttacking = messages.Ptr(false)
	}
}
