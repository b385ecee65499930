package network

import (
	"github.com/automoto/duel-mp/shared/gamemath"
	"github.com/automoto/duel-mp/shared/messages"
)

// Interpolator smooths the opponent between snapshots. Position blends
// toward the latest target by a fixed factor every step; everything else is
// copied straight from the target.
type Interpolator struct {
	factor  float64
	current messages.PlayerState
	target  messages.PlayerState
	seeded  bool
}

func NewInterpolator(factor float64) *Interpolator {
	return &Interpolator{factor: factor}
}

// Observe records the newest authoritative opponent state. The first
// observation is adopted as-is.
func (i *Interpolator) Observe(state messages.PlayerState) {
	i.target = state
	if !i.seeded {
		i.current = state
		i.seeded = true
	}
}

// Step moves the displayed state one tick closer to the target and returns it.
func (i *Interpolator) Step() messages.PlayerState {
	if !i.seeded {
		return i.current
	}
	x := gamemath.Lerp(i.current.X, i.target.X, i.factor)
	y := gamemath.Lerp(i.current.Y, i.target.Y, i.factor)
	i.current = i.target
	i.current.X, i.current.Y = x, y
	return i.current
}

// Current returns the displayed state without advancing it.
func (i *Interpolator) Current() (messages.PlayerState, bool) {
	return i.current, i.seeded
}

// Clear forgets the opponent, for example after a reset.
func (i *Interpolator) Clear() {
	*i = Interpolator{factor: i.factor}
}
