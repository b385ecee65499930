package messages

import "github.com/automoto/duel-mp/shared/netconfig"

// Connected assigns the client its slot.
type Connected struct {
	Slot netconfig.Slot `codec:"player_num"`
}

// Error is fatal for the connection (for example, server full).
type Error struct {
	Message string `codec:"message"`
}

// Heartbeat is a liveness keepalive with no payload.
type Heartbeat struct{}

// MatchStart is sent once when both players are ready.
type MatchStart struct {
	State MatchState `codec:"game_state"`
}

// Snapshot is the periodic state push.
type Snapshot struct {
	State MatchState `codec:"game_state"`
}

// GameOver announces the winner and the final state.
type GameOver struct {
	Winner netconfig.Slot `codec:"winner"`
	State  MatchState     `codec:"game_state"`
}

// GameReset is sent when the lifecycle returns to waiting.
type GameReset struct {
	State MatchState `codec:"game_state"`
}

// ServerError reports a non-fatal server-side problem.
type ServerError struct {
	Message string `codec:"message"`
}
