package protocol

import (
	"fmt"

	"github.com/automoto/duel-mp/shared/messages"
	"github.com/automoto/duel-mp/shared/netconfig"
)

type decodeFn func(Envelope) (any, error)

// decoders maps every catalogue kind to its payload type. Both server and
// client decode through the same table.
var decoders = map[netconfig.MessageKind]decodeFn{}

func register[T any](kind netconfig.MessageKind) {
	decoders[kind] = func(env Envelope) (any, error) {
		return DecodePayload[T](env)
	}
}

func init() {
	// Server -> client
	register[messages.Connected](netconfig.KindConnected)
	register[messages.Error](netconfig.KindError)
	register[messages.Heartbeat](netconfig.KindHeartbeat)
	register[messages.MatchStart](netconfig.KindMatchStart)
	register[messages.Snapshot](netconfig.KindSnapshot)
	register[messages.GameOver](netconfig.KindGameOver)
	register[messages.GameReset](netconfig.KindGameReset)
	register[messages.ServerError](netconfig.KindServerError)

	// Client -> server
	register[messages.CharacterSelect](netconfig.KindCharacterSelect)
	register[messages.Ready](netconfig.KindReady)
	register[messages.ActionIntent](netconfig.KindPlayerAction)
	register[messages.PlayerDied](netconfig.KindPlayerDied)
	register[messages.ResetGame](netconfig.KindResetGame)
}

// KindOf returns the wire kind for a catalogue message value.
func KindOf(msg any) (netconfig.MessageKind, error) {
	switch msg.(type) {
	case messages.Connected:
		return netconfig.KindConnected, nil
	case messages.Error:
		return netconfig.KindError, nil
	case messages.Heartbeat:
		return netconfig.KindHeartbeat, nil
	case messages.MatchStart:
		return netconfig.KindMatchStart, nil
	case messages.Snapshot:
		return netconfig.KindSnapshot, nil
	case messages.GameOver:
		return netconfig.KindGameOver, nil
	case messages.GameReset:
		return netconfig.KindGameReset, nil
	case messages.ServerError:
		return netconfig.KindServerError, nil
	case messages.CharacterSelect:
		return netconfig.KindCharacterSelect, nil
	case messages.Ready:
		return netconfig.KindReady, nil
	case messages.ActionIntent:
		return netconfig.KindPlayerAction, nil
	case messages.PlayerDied:
		return netconfig.KindPlayerDied, nil
	case messages.ResetGame:
		return netconfig.KindResetGame, nil
	}
	return "", fmt.Errorf("%T: %w", msg, ErrUnknownKind)
}
