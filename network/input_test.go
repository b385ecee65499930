package network

import (
	"testing"
	"time"

	"github.com/automoto/duel-mp/shared/messages"
	"github.com/automoto/duel-mp/shared/netconfig"
)

func TestAttackPlannerBasicCooldown(t *testing.T) {
	a := NewAttackPlanner(netconfig.CharacterMewtwo)
	now := time.Unix(1700000000, 0)

	var first messages.ActionIntent
	a.Plan(Input{Attack: true}, now, 100, 50, &first)
	if !first.Attack || *first.Damage != 10 || *first.AttackRange != 150 {
		t.Fatalf("basic intent = %+v", first)
	}

	var spam messages.ActionIntent
	a.Plan(Input{Attack: true}, now.Add(200*time.Millisecond), 100, 50, &spam)
	if spam.Attack {
		t.Errorf("attack inside cooldown was planned")
	}

	var release messages.ActionIntent
	a.Plan(Input{}, now.Add(300*time.Millisecond), 100, 50, &release)
	if release.IsAttacking == nil || *release.IsAttacking {
		t.Errorf("releasing the button should clear is_attacking")
	}

	var again messages.ActionIntent
	a.Plan(Input{Attack: true}, now.Add(501*time.Millisecond), 100, 50, &again)
	if !again.Attack {
		t.Errorf("attack after cooldown was not planned")
	}
}

func TestAttackPlannerSpecials(t *testing.T) {
	now := time.Unix(1700000000, 0)

	tests := []struct {
		id        netconfig.CharacterID
		health    float64
		distance  float64
		wantDmg   float64
		wantRange float64
	}{
		{netconfig.CharacterLucario, 100, 0, 25, 200},
		{netconfig.CharacterLucario, 50, 0, 37.5, 200},
		{netconfig.CharacterMewtwo, 100, 0, 30, 300},
		{netconfig.CharacterZeraora, 100, 0, 20, 150},
		{netconfig.CharacterCinderace, 100, 125, 33, 250},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			a := NewAttackPlanner(tt.id)
			var intent messages.ActionIntent
			a.Plan(Input{Attack: true, Special: true}, now, tt.health, tt.distance, &intent)
			if !intent.Special() {
				t.Fatalf("intent is not a special: %+v", intent)
			}
			if *intent.Damage != tt.wantDmg || *intent.AttackRange != tt.wantRange {
				t.Errorf("damage/range = %v/%v, want %v/%v", *intent.Damage, *intent.AttackRange, tt.wantDmg, tt.wantRange)
			}
		})
	}
}

func TestAttackPlannerNoSpecialWithoutCharacter(t *testing.T) {
	a := NewAttackPlanner(netconfig.CharacterNone)
	var intent messages.ActionIntent
	a.Plan(Input{Special: true}, time.Unix(1700000000, 0), 100, 0, &intent)
	if intent.Attack {
		t.Fatalf("special planned without a fighter")
	}
}
