package network

import (
	"testing"

	"github.com/automoto/duel-mp/config"
	"github.com/automoto/duel-mp/shared/messages"
)

func calmBot(delay int) *Bot {
	return NewBot(config.BotDifficultyConfig{
		ReactionDelay:    delay,
		AttackRange:      80,
		RetreatThreshold: 0.25,
	}, 1)
}

func TestBotDecisions(t *testing.T) {
	tests := []struct {
		name     string
		self     messages.PlayerState
		opponent messages.PlayerState
		present  bool
		want     botState
		check    func(Input) bool
	}{
		{
			name:    "no opponent idles",
			self:    messages.PlayerState{X: 300, Y: 580, Health: 100},
			present: false,
			want:    botIdle,
			check:   func(in Input) bool { return in == Input{} },
		},
		{
			name:     "far opponent is chased",
			self:     messages.PlayerState{X: 300, Y: 580, Health: 100},
			opponent: messages.PlayerState{X: 700, Y: 580, Health: 100, Connected: true},
			present:  true,
			want:     botChase,
			check:    func(in Input) bool { return in.Right && !in.Left && !in.Attack },
		},
		{
			name:     "close opponent is attacked",
			self:     messages.PlayerState{X: 300, Y: 580, Health: 100, FacingRight: true},
			opponent: messages.PlayerState{X: 350, Y: 580, Health: 100, Connected: true},
			present:  true,
			want:     botAttack,
			check:    func(in Input) bool { return in.Attack && !in.Left && !in.Right },
		},
		{
			name:     "attack turns to face",
			self:     messages.PlayerState{X: 300, Y: 580, Health: 100, FacingRight: true},
			opponent: messages.PlayerState{X: 260, Y: 580, Health: 100, Connected: true},
			present:  true,
			want:     botAttack,
			check:    func(in Input) bool { return in.Attack && in.Left },
		},
		{
			name:     "low health retreats",
			self:     messages.PlayerState{X: 300, Y: 580, Health: 20},
			opponent: messages.PlayerState{X: 500, Y: 580, Health: 100, Connected: true},
			present:  true,
			want:     botRetreat,
			check:    func(in Input) bool { return in.Left && !in.Attack },
		},
		{
			name:     "disconnected opponent idles",
			self:     messages.PlayerState{X: 300, Y: 580, Health: 100},
			opponent: messages.PlayerState{X: 700, Y: 580, Health: 100},
			present:  true,
			want:     botIdle,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := calmBot(0)
			in := b.Next(tt.self, tt.opponent, tt.present)
			if b.state != tt.want {
				t.Fatalf("state = %s, want %s", b.state, tt.want)
			}
			if tt.check != nil && !tt.check(in) {
				t.Errorf("input = %+v", in)
			}
		})
	}
}

func TestBotHoldsInputBetweenDecisions(t *testing.T) {
	b := calmBot(3)
	self := messages.PlayerState{X: 300, Y: 580, Health: 100}
	far := messages.PlayerState{X: 700, Y: 580, Health: 100, Connected: true}
	near := messages.PlayerState{X: 320, Y: 580, Health: 100, Connected: true}

	if in := b.Next(self, far, true); !in.Right {
		t.Fatalf("first decision = %+v, want chase right", in)
	}
	for i := 0; i < 3; i++ {
		if in := b.Next(self, near, true); !in.Right || in.Attack {
			t.Fatalf("tick %d reacted early: %+v", i, in)
		}
	}
	if in := b.Next(self, near, true); !in.Attack {
		t.Fatalf("after the reaction delay = %+v, want attack", in)
	}
}

func TestDeadBotIsIdle(t *testing.T) {
	b := calmBot(10)
	in := b.Next(messages.PlayerState{IsDead: true}, messages.PlayerState{Connected: true}, true)
	if in != (Input{}) {
		t.Fatalf("input = %+v", in)
	}
}
