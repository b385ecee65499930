package network

import (
	"math"
	"time"

	"github.com/automoto/duel-mp/shared/messages"
	"github.com/yohamta/donburi"
)

// updateInterpolation advances every smoothed remote entity by one tick.
func updateInterpolation(w donburi.World) {
	NetInterp.Each(w, func(e *donburi.Entry) {
		if _, seeded := NetInterp.Get(e).Current(); seeded {
			NetInterp.Get(e).Step()
		}
	})
}

// updateBots fills the command input of every bot-driven predicted entity.
func updateBots(w donburi.World) {
	opp, present := opponentState(w)
	BotBrain.Each(w, func(e *donburi.Entry) {
		if !e.HasComponent(Prediction) {
			return
		}
		Command.Get(e).Input = BotBrain.Get(e).Next(Prediction.Get(e).State(), opp, present)
	})
}

// updatePrediction runs the local physics step and attack planning for
// every predicted entity.
func updatePrediction(w donburi.World, now time.Time) {
	opp, _ := opponentState(w)
	Prediction.Each(w, func(e *donburi.Entry) {
		pred := Prediction.Get(e)
		cmd := Command.Get(e)
		cmd.Intent, cmd.Died = pred.Step(cmd.Input)
		if e.HasComponent(Attacks) {
			Attacks.Get(e).Plan(cmd.Input, now, pred.Health, math.Abs(opp.X-pred.X), &cmd.Intent)
		}
	})
}

func opponentState(w donburi.World) (messages.PlayerState, bool) {
	e, ok := Opponent.First(w)
	if !ok {
		return messages.PlayerState{}, false
	}
	return NetInterp.Get(e).Current()
}
