package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/automoto/duel-mp/shared/messages"
	"github.com/automoto/duel-mp/shared/netconfig"
)

func TestReadFrameSurvivesFragmentedStream(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, []byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteFrame(&buf, []byte("world!")); err != nil {
		t.Fatalf("write: %v", err)
	}

	// One byte per Read call: every header and payload arrives in pieces.
	r := iotest.OneByteReader(&buf)
	for _, want := range []string{"hello", "world!"} {
		got, err := ReadFrame(r)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
	if _, err := ReadFrame(r); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after last frame, got %v", err)
	}
}

func TestReadFrameRejectsOversizedHeader(t *testing.T) {
	var header [HeaderSize]byte
	binary.BigEndian.PutUint32(header[:], MaxFrameSize+1)
	_, err := ReadFrame(bytes.NewReader(header[:]))
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
}

func TestReadFrameTruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, []byte("truncate me")); err != nil {
		t.Fatalf("write: %v", err)
	}
	short := buf.Bytes()[:buf.Len()-3]
	_, err := ReadFrame(bytes.NewReader(short))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestSparseIntentKeepsAbsentFieldsNil(t *testing.T) {
	var stream bytes.Buffer
	conn := NewConn(&stream)

	sent := messages.ActionIntent{
		X:           messages.Ptr(412.5),
		FacingRight: messages.Ptr(false),
		Attack:      true,
		Damage:      messages.Ptr(10.0),
	}
	if err := conn.Write(sent); err != nil {
		t.Fatalf("write: %v", err)
	}

	kind, msg, err := conn.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if kind != netconfig.KindPlayerAction {
		t.Fatalf("kind = %q, want %q", kind, netconfig.KindPlayerAction)
	}
	got, ok := msg.(messages.ActionIntent)
	if !ok {
		t.Fatalf("decoded %T, want messages.ActionIntent", msg)
	}
	if got.X == nil || *got.X != 412.5 {
		t.Fatalf("x = %v, want 412.5", got.X)
	}
	if got.FacingRight == nil || *got.FacingRight {
		t.Fatalf("facing_right = %v, want false", got.FacingRight)
	}
	if got.Y != nil || got.VelocityY != nil || got.AttackRange != nil || got.IsAttacking != nil {
		t.Fatalf("absent fields were populated: %+v", got)
	}
	if !got.Attack || got.Damage == nil || *got.Damage != 10 {
		t.Fatalf("attack fields lost: %+v", got)
	}
}

func TestMatchStateCarriesSlotKeyedPlayers(t *testing.T) {
	var stream bytes.Buffer
	conn := NewConn(&stream)

	state := messages.MatchState{
		Players: map[netconfig.Slot]messages.PlayerState{
			netconfig.Slot1: {Slot: netconfig.Slot1, X: 300, Y: 580, Health: 100},
			netconfig.Slot2: {Slot: netconfig.Slot2, X: 700, Y: 580, Health: 90, FacingRight: true},
		},
		Platforms:  []messages.Platform{{X: 200, Y: 600, Width: 600, Height: 20}},
		ReadyCount: 2,
		Phase:      netconfig.PhaseRunning,
	}
	if err := conn.Write(messages.GameOver{Winner: netconfig.Slot1, State: state}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, msg, err := conn.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	over := msg.(messages.GameOver)
	if over.Winner != netconfig.Slot1 {
		t.Fatalf("winner = %v, want slot 1", over.Winner)
	}
	p2, ok := over.State.Player(netconfig.Slot2)
	if !ok || p2.Health != 90 || !p2.FacingRight {
		t.Fatalf("slot 2 = %+v (present=%v)", p2, ok)
	}
	if len(over.State.Platforms) != 1 || over.State.Platforms[0].Width != 600 {
		t.Fatalf("platforms = %+v", over.State.Platforms)
	}
}

func TestMalformedFrameLeavesStreamAligned(t *testing.T) {
	var stream bytes.Buffer
	if err := WriteFrame(&stream, []byte{0xc1, 0xff, 0x00}); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	conn := NewConn(&stream)
	if err := conn.Write(messages.Ready{Ready: true}); err != nil {
		t.Fatalf("write ready: %v", err)
	}

	if _, _, err := conn.Read(); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	kind, msg, err := conn.Read()
	if err != nil {
		t.Fatalf("read after garbage: %v", err)
	}
	if kind != netconfig.KindReady || !msg.(messages.Ready).Ready {
		t.Fatalf("got %q %+v", kind, msg)
	}
}

func TestUnknownKindIsMalformed(t *testing.T) {
	b, err := marshal(Envelope{Kind: "teleport", Payload: []byte{0x80}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	_, _, err = Decode(b)
	if !errors.Is(err, ErrUnknownKind) || !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected unknown kind + malformed, got %v", err)
	}
}

func TestKindOfRejectsForeignTypes(t *testing.T) {
	if _, err := KindOf(struct{}{}); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if _, err := Encode(&messages.Ready{}); err == nil {
		t.Fatalf("pointer messages must be rejected")
	}
}
