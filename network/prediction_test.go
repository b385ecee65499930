package network

import (
	"testing"

	"github.com/automoto/duel-mp/config"
	"github.com/automoto/duel-mp/shared/messages"
)

var arenaPlatforms = []messages.Platform{
	{X: 200, Y: 600, Width: 600, Height: 20},
	{X: 400, Y: 300, Width: 100, Height: 20},
	{X: 600, Y: 450, Width: 100, Height: 20},
}

func newTestPredictor(x, y float64) *Predictor {
	return NewPredictor(config.Physics, config.Netcode,
		messages.PlayerState{X: x, Y: y, Health: 100}, arenaPlatforms)
}

func TestReconcileThreshold(t *testing.T) {
	p := newTestPredictor(400, 580)

	p.Reconcile(messages.PlayerState{X: 410, Y: 580, Health: 100})
	if p.X != 400 {
		t.Errorf("x = %v, small divergence should keep the prediction", p.X)
	}

	p.Reconcile(messages.PlayerState{X: 420, Y: 580, Health: 100})
	if p.X != 420 {
		t.Errorf("x = %v, large divergence should snap to 420", p.X)
	}

	p.Reconcile(messages.PlayerState{X: 420, Y: 540, VelocityY: -3, Health: 70})
	if p.Y != 540 || p.VelocityY != -3 {
		t.Errorf("y = %v vy = %v, want snap with server velocity", p.Y, p.VelocityY)
	}
	if p.Health != 70 {
		t.Errorf("health = %v, server health always wins", p.Health)
	}
}

func TestStepMovesAndClamps(t *testing.T) {
	p := newTestPredictor(52, 580)

	intent, _ := p.Step(Input{Left: true})
	if p.X != 50 || intent.X == nil || *intent.X != 50 {
		t.Fatalf("x = %v, want clamp to 50", p.X)
	}
	if intent.FacingRight == nil || *intent.FacingRight {
		t.Errorf("moving left should face left")
	}

	p = newTestPredictor(300, 580)
	intent, _ = p.Step(Input{})
	if !intent.Empty() {
		t.Errorf("idle tick on the ground produced %+v", intent)
	}
}

func TestJumpOnlyWhenGrounded(t *testing.T) {
	p := newTestPredictor(300, 580)

	intent, _ := p.Step(Input{Jump: true})
	if intent.IsJumping == nil || !*intent.IsJumping {
		t.Fatalf("grounded jump did not start")
	}
	if p.Y >= 580 {
		t.Fatalf("y = %v, jump should move up", p.Y)
	}

	vy := p.VelocityY
	p.Step(Input{Jump: true})
	if p.VelocityY < vy {
		t.Errorf("mid-air jump re-applied impulse: %v -> %v", vy, p.VelocityY)
	}

	landed := false
	for i := 0; i < 200; i++ {
		p.Step(Input{})
		if !p.Jumping {
			landed = true
			break
		}
	}
	if !landed {
		t.Fatalf("never landed")
	}
	if p.Y != 600 || p.VelocityY != 0 {
		t.Errorf("landed at y=%v vy=%v, want the ground surface", p.Y, p.VelocityY)
	}
}

func TestFastFallDoesNotTunnel(t *testing.T) {
	// Just above the y=450 platform, falling fast enough that the end
	// position alone lands below its band.
	p := newTestPredictor(650, 400)
	p.Jumping = true
	p.VelocityY = 80

	p.Step(Input{})
	if p.Y != 450 {
		t.Fatalf("y = %v, fall should stop on the platform at 450", p.Y)
	}
}

func TestWalkingOffLedgeFalls(t *testing.T) {
	p := newTestPredictor(650, 440)
	for i := 0; i < 30; i++ {
		p.Step(Input{Right: true})
	}
	if p.Y <= 440 {
		t.Fatalf("y = %v, should have started falling after leaving the platform", p.Y)
	}
}

func TestFallingOutReportsDeathOnce(t *testing.T) {
	p := NewPredictor(config.Physics, config.Netcode,
		messages.PlayerState{X: 900, Y: 650, Health: 100},
		[]messages.Platform{{X: 200, Y: 600, Width: 100, Height: 20}})

	deaths := 0
	for i := 0; i < 100; i++ {
		intent, died := p.Step(Input{})
		if died {
			deaths++
			if !intent.Died {
				t.Errorf("death tick intent missing died flag")
			}
		}
	}
	if deaths != 1 || !p.Dead {
		t.Fatalf("deaths = %d dead = %v", deaths, p.Dead)
	}
}
