package network

import (
	"math"
	"math/rand"

	"github.com/automoto/duel-mp/config"
	"github.com/automoto/duel-mp/shared/combat"
	"github.com/automoto/duel-mp/shared/messages"
)

type botState int

const (
	botIdle botState = iota
	botChase
	botAttack
	botRetreat
)

func (s botState) String() string {
	switch s {
	case botChase:
		return "chase"
	case botAttack:
		return "attack"
	case botRetreat:
		return "retreat"
	}
	return "idle"
}

// Bot is an input source for the headless client. It re-evaluates its
// state every ReactionDelay ticks and holds its inputs in between.
type Bot struct {
	cfg   config.BotDifficultyConfig
	rng   *rand.Rand
	state botState
	timer int
	held  Input
}

// NewBot uses a fixed seed so runs can be replayed.
func NewBot(cfg config.BotDifficultyConfig, seed int64) *Bot {
	return &Bot{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Next returns this tick's input. opponent is ignored when present is false.
func (b *Bot) Next(self, opponent messages.PlayerState, present bool) Input {
	if self.IsDead {
		b.state, b.held = botIdle, Input{}
		return b.held
	}
	if b.timer > 0 {
		b.timer--
		return b.held
	}
	b.timer = b.cfg.ReactionDelay

	b.state = b.decide(self, opponent, present)
	dx := opponent.X - self.X
	toward := Input{Left: dx < 0, Right: dx > 0}

	switch b.state {
	case botChase:
		b.held = toward
		b.held.Jump = opponent.Y < self.Y-50 || b.rng.Float64() < b.cfg.JumpChance
	case botAttack:
		b.held = Input{Attack: true, Special: b.rng.Float64() < b.cfg.SpecialChance}
		// Turn to face the opponent without closing the gap further.
		if self.FacingRight != (dx > 0) {
			b.held.Left, b.held.Right = toward.Left, toward.Right
		}
	case botRetreat:
		b.held = Input{Left: dx > 0, Right: dx < 0}
		b.held.Attack = math.Abs(dx) < b.cfg.AttackRange
	default:
		b.held = Input{}
	}
	return b.held
}

func (b *Bot) decide(self, opponent messages.PlayerState, present bool) botState {
	if !present || opponent.IsDead || !opponent.Connected {
		return botIdle
	}
	if self.Health/combat.MaxHealth < b.cfg.RetreatThreshold {
		return botRetreat
	}
	if math.Abs(opponent.X-self.X) < b.cfg.AttackRange {
		return botAttack
	}
	return botChase
}
