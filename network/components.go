package network

import (
	"github.com/automoto/duel-mp/shared/messages"
	"github.com/yohamta/donburi"
)

// CommandData is what the local player decided this tick.
type CommandData struct {
	Input  Input
	Intent messages.ActionIntent
	Died   bool
}

var (
	LocalPlayer = donburi.NewTag().SetName("LocalPlayer")
	Opponent    = donburi.NewTag().SetName("Opponent")

	// Prediction is present on the local player only while a match is live.
	Prediction = donburi.NewComponentType[Predictor]()
	NetInterp  = donburi.NewComponentType[Interpolator]()
	BotBrain   = donburi.NewComponentType[Bot]()
	Attacks    = donburi.NewComponentType[AttackPlanner]()
	Command    = donburi.NewComponentType[CommandData]()
)
