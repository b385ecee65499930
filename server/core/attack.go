package core

import (
	"math"
	"time"

	"github.com/automoto/duel-mp/config"
	"github.com/automoto/duel-mp/shared/combat"
	"github.com/automoto/duel-mp/shared/gamemath"
	"github.com/automoto/duel-mp/shared/messages"
)

// AttackResult describes the outcome of one attack intent.
type AttackResult struct {
	Hit            bool
	Special        bool
	Damage         float64
	Distance       float64
	DefenderHealth float64
	Defeated       bool
	PushX          float64 // Horizontal displacement to apply to the defender
}

// ResolveAttack decides whether attacker hits defender. It has no side
// effects: the caller applies DefenderHealth, Defeated and PushX.
//
// A hit needs a running match and a horizontal distance within the intent's
// range. Vertical distance is ignored. Missing damage or range fall back to
// the configured defaults. Non-finite positions, damage or range never hit,
// and health stays within [0, MaxHealth] even for negative damage.
func ResolveAttack(attacker, defender messages.PlayerState, intent messages.ActionIntent, running bool, cfg config.CombatConfig) AttackResult {
	res := AttackResult{
		Special:        intent.Special(),
		Distance:       gamemath.Distance1D(attacker.X, defender.X),
		DefenderHealth: defender.Health,
		Defeated:       defender.IsDead,
	}
	if !running || !intent.Attack {
		return res
	}

	damage, reach := cfg.DefaultDamage, cfg.DefaultRange
	if intent.Damage != nil {
		damage = *intent.Damage
	}
	if intent.AttackRange != nil {
		reach = *intent.AttackRange
	}
	if !finite(res.Distance, damage, reach, defender.Health) || res.Distance > reach {
		return res
	}
	damage = math.Max(0, damage)

	res.Hit = true
	res.Damage = damage
	res.DefenderHealth = gamemath.Clamp(defender.Health-damage, 0, combat.MaxHealth)
	res.Defeated = res.DefenderHealth <= 0

	if res.Special {
		if f, ok := combat.Lookup(attacker.Character); ok && f.Push > 0 {
			dir := 1.0
			switch {
			case defender.X < attacker.X:
				dir = -1
			case defender.X == attacker.X && !attacker.FacingRight:
				dir = -1
			}
			res.PushX = dir * f.Push
		}
	}
	return res
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// boundIntent clamps damage and range to what the attacker's fighter can
// legitimately produce and enforces cooldowns. It returns false when the
// attack arrives too soon after the previous one of the same kind.
func boundIntent(intent messages.ActionIntent, f *FighterData, now time.Time, cfg config.CombatConfig) (messages.ActionIntent, bool) {
	if !cfg.ValidateIntents || !intent.Attack {
		return intent, true
	}

	special := intent.Special()
	limits := combat.Limits(f.Character, special)
	last := &f.LastBasic
	if special {
		last = &f.LastSpecial
	}

	minGap := time.Duration(float64(limits.Cooldown) * (1 - cfg.CooldownTolerance))
	if !last.IsZero() && now.Sub(*last) < minGap {
		return intent, false
	}
	*last = now

	if intent.Damage != nil {
		intent.Damage = messages.Ptr(gamemath.Clamp(*intent.Damage, 0, limits.Damage))
	}
	if intent.AttackRange != nil {
		intent.AttackRange = messages.Ptr(gamemath.Clamp(*intent.AttackRange, 0, limits.Range))
	}
	return intent, true
}
