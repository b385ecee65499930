package protocol

import (
	"errors"
	"fmt"

	"github.com/automoto/duel-mp/shared/netconfig"
	"github.com/hashicorp/go-msgpack/v2/codec"
)

// ErrMalformed marks a frame that arrived whole but could not be decoded.
// The stream is still aligned, so callers log and keep reading.
var ErrMalformed = errors.New("protocol: malformed message")

// ErrUnknownKind is returned for envelopes with an unregistered kind. It
// also matches ErrMalformed.
var ErrUnknownKind = errors.New("protocol: unknown message kind")

// Envelope wraps every message: the kind selects the payload struct.
type Envelope struct {
	Kind    netconfig.MessageKind `codec:"kind"`
	Payload []byte                `codec:"payload"`
}

var handle = &codec.MsgpackHandle{WriteExt: true}

func marshal(v any) ([]byte, error) {
	var out []byte
	if err := codec.NewEncoderBytes(&out, handle).Encode(v); err != nil {
		return nil, err
	}
	return out, nil
}

func unmarshal(b []byte, v any) error {
	return codec.NewDecoderBytes(b, handle).Decode(v)
}

// Encode serializes a catalogue message (passed by value) into an envelope.
func Encode(msg any) ([]byte, error) {
	kind, err := KindOf(msg)
	if err != nil {
		return nil, err
	}
	payload, err := marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	b, err := marshal(Envelope{Kind: kind, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", kind, err)
	}
	return b, nil
}

// DecodeEnvelope parses the outer envelope only.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("empty frame: %w", ErrMalformed)
	}
	var env Envelope
	if err := unmarshal(b, &env); err != nil {
		return Envelope{}, fmt.Errorf("envelope: %v: %w", err, ErrMalformed)
	}
	if env.Kind == "" {
		return Envelope{}, fmt.Errorf("envelope without kind: %w", ErrMalformed)
	}
	return env, nil
}

// DecodePayload decodes the envelope payload into T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.Payload) == 0 {
		return out, fmt.Errorf("empty payload for %q: %w", env.Kind, ErrMalformed)
	}
	if err := unmarshal(env.Payload, &out); err != nil {
		return out, fmt.Errorf("payload for %q: %v: %w", env.Kind, err, ErrMalformed)
	}
	return out, nil
}

// Decode parses a frame into its kind and typed message value.
func Decode(b []byte) (netconfig.MessageKind, any, error) {
	env, err := DecodeEnvelope(b)
	if err != nil {
		return "", nil, err
	}
	decode, ok := decoders[env.Kind]
	if !ok {
		return env.Kind, nil, fmt.Errorf("%q: %w: %w", env.Kind, ErrUnknownKind, ErrMalformed)
	}
	msg, err := decode(env)
	if err != nil {
		return env.Kind, nil, err
	}
	return env.Kind, msg, nil
}
