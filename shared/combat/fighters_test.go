package combat

import (
	"testing"
	"time"

	"github.com/automoto/duel-mp/shared/netconfig"
)

func TestSpecialDamageFormulas(t *testing.T) {
	tests := []struct {
		name     string
		id       netconfig.CharacterID
		health   float64
		distance float64
		want     float64
	}{
		{name: "lucario at full health", id: netconfig.CharacterLucario, health: 100, want: 25},
		{name: "lucario at half health", id: netconfig.CharacterLucario, health: 50, want: 37.5},
		{name: "lucario near death", id: netconfig.CharacterLucario, health: 0, want: 50},
		{name: "mewtwo flat", id: netconfig.CharacterMewtwo, health: 10, distance: 250, want: 30},
		{name: "zeraora flat", id: netconfig.CharacterZeraora, health: 100, distance: 10, want: 20},
		{name: "cinderace point blank", id: netconfig.CharacterCinderace, distance: 0, want: 22},
		{name: "cinderace at max range", id: netconfig.CharacterCinderace, distance: 250, want: 44},
		{name: "cinderace mid range", id: netconfig.CharacterCinderace, distance: 125, want: 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := Lookup(tt.id)
			if !ok {
				t.Fatalf("fighter %q missing", tt.id)
			}
			if got := f.SpecialDamage(tt.health, tt.distance); got != tt.want {
				t.Fatalf("SpecialDamage = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEveryKnownCharacterHasAFighter(t *testing.T) {
	for _, id := range netconfig.Characters {
		if _, ok := Lookup(id); !ok {
			t.Errorf("no fighter for %q", id)
		}
	}
}

func TestZeraoraHasShortCooldownAndPush(t *testing.T) {
	f, _ := Lookup(netconfig.CharacterZeraora)
	if f.Special.Cooldown != 2*time.Second {
		t.Fatalf("cooldown = %v, want 2s", f.Special.Cooldown)
	}
	if f.Push <= 0 {
		t.Fatalf("zeraora special must push")
	}
}

func TestLimits(t *testing.T) {
	if got := Limits(netconfig.CharacterMewtwo, false); got != Basic {
		t.Fatalf("basic limits = %+v", got)
	}
	if got := Limits(netconfig.CharacterNone, true); got != Basic {
		t.Fatalf("unknown fighter special should fall back to basic, got %+v", got)
	}
	got := Limits(netconfig.CharacterLucario, true)
	if got.Damage != 50 || got.Range != 200 {
		t.Fatalf("lucario limits = %+v", got)
	}
}
