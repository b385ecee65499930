package network

import (
	"github.com/automoto/duel-mp/config"
	"github.com/automoto/duel-mp/shared/arena"
	"github.com/automoto/duel-mp/shared/gamemath"
	"github.com/automoto/duel-mp/shared/messages"
)

// Predictor simulates the local player ahead of the server so input feels
// immediate. Snapshots later correct it through Reconcile.
type Predictor struct {
	physics   config.PhysicsConfig
	threshold float64
	index     *arena.Index

	X, Y        float64
	VelocityY   float64
	Health      float64
	FacingRight bool
	Jumping     bool
	Dead        bool
}

// NewPredictor seeds the prediction from the server's view of the player.
func NewPredictor(physics config.PhysicsConfig, netcode config.NetcodeConfig, state messages.PlayerState, platforms []messages.Platform) *Predictor {
	p := &Predictor{
		physics:   physics,
		threshold: netcode.ReconcileThreshold,
		index:     arena.NewIndex(platforms),
	}
	p.Reset(state)
	return p
}

// Reset adopts the server state wholesale, for match start and reset.
func (p *Predictor) Reset(state messages.PlayerState) {
	p.X = state.X
	p.Y = state.Y
	p.VelocityY = state.VelocityY
	p.Health = state.Health
	p.FacingRight = state.FacingRight
	p.Jumping = state.IsJumping
	p.Dead = state.IsDead
}

// SetPlatforms replaces the platform geometry used for ground checks.
func (p *Predictor) SetPlatforms(platforms []messages.Platform) {
	p.index = arena.NewIndex(platforms)
}

// grounded reports whether feet at y rest on a platform. With no platforms
// at all everything counts as ground.
func (p *Predictor) grounded(x, y float64) (float64, bool) {
	if p.index.Empty() {
		return y, true
	}
	return p.index.SurfaceAt(x, y+p.physics.FeetOffset, p.physics.HalfWidth, p.physics.SurfaceBand)
}

// Step advances the prediction by one tick and returns the fields that
// changed, ready to send as an action intent. died is true on the tick the
// player first falls out of the arena.
func (p *Predictor) Step(in Input) (intent messages.ActionIntent, died bool) {
	if p.Dead {
		return intent, false
	}
	phys := p.physics

	switch {
	case in.Left:
		p.X = gamemath.Clamp(p.X-phys.MoveStep, phys.MinX, phys.MaxX)
		p.FacingRight = false
		intent.X = messages.Ptr(p.X)
		intent.FacingRight = messages.Ptr(false)
	case in.Right:
		p.X = gamemath.Clamp(p.X+phys.MoveStep, phys.MinX, phys.MaxX)
		p.FacingRight = true
		intent.X = messages.Ptr(p.X)
		intent.FacingRight = messages.Ptr(true)
	}

	_, onGround := p.grounded(p.X, p.Y)
	if in.Jump && onGround && !p.Jumping {
		p.Jumping = true
		p.VelocityY = -phys.JumpStrength
		intent.IsJumping = messages.Ptr(true)
	}

	if p.Jumping || !onGround {
		prevFeet := p.Y + phys.FeetOffset
		p.Y += p.VelocityY
		p.VelocityY += phys.Gravity
		intent.Y = messages.Ptr(p.Y)
		intent.VelocityY = messages.Ptr(p.VelocityY)

		if p.VelocityY > 0 {
			feet := p.Y + phys.FeetOffset
			if surface, ok := p.index.Sweep(p.X, prevFeet, feet, phys.HalfWidth, phys.SurfaceBand, phys.SweepStride, phys.SweepMinSteps); ok {
				p.Y = surface
				p.VelocityY = 0
				p.Jumping = false
				intent.Y = messages.Ptr(p.Y)
				intent.VelocityY = messages.Ptr(0.0)
				intent.IsJumping = messages.Ptr(false)
			}
		}
	}

	if p.index.FellOut(p.Y, phys.FallDeathMargin) {
		p.Dead = true
		intent.Died = true
		return intent, true
	}
	return intent, false
}

// Reconcile corrects the prediction from an authoritative snapshot. Small
// differences are kept to avoid jitter; past the threshold the axis snaps to
// the server (y also adopts the server's vertical velocity). Health and
// death always come from the server.
func (p *Predictor) Reconcile(server messages.PlayerState) {
	if gamemath.Diverged(server.X, p.X, p.threshold) {
		p.X = server.X
	}
	if gamemath.Diverged(server.Y, p.Y, p.threshold) {
		p.Y = server.Y
		p.VelocityY = server.VelocityY
	}
	p.Health = server.Health
	if server.IsDead {
		p.Dead = true
	}
}

// State renders the prediction as a PlayerState for display.
func (p *Predictor) State() messages.PlayerState {
	return messages.PlayerState{
		X:           p.X,
		Y:           p.Y,
		VelocityY:   p.VelocityY,
		Health:      p.Health,
		FacingRight: p.FacingRight,
		IsJumping:   p.Jumping,
		IsDead:      p.Dead,
	}
}
