package protocol

import (
	"bufio"
	"io"

	"github.com/automoto/duel-mp/shared/netconfig"
)

// Conn reads and writes catalogue messages over any byte stream (TCP or a
// WebSocket adapted with websocket.NetConn). Reads and writes may run on
// different goroutines, but each side must have a single caller.
type Conn struct {
	r *bufio.Reader
	w io.Writer
}

func NewConn(rw io.ReadWriter) *Conn {
	return &Conn{
		r: bufio.NewReader(rw),
		w: rw,
	}
}

// Read returns the next message. Errors matching ErrMalformed leave the
// stream usable; any other error means the transport is gone.
func (c *Conn) Read() (netconfig.MessageKind, any, error) {
	frame, err := ReadFrame(c.r)
	if err != nil {
		return "", nil, err
	}
	return Decode(frame)
}

// Write encodes and frames msg.
func (c *Conn) Write(msg any) error {
	b, err := Encode(msg)
	if err != nil {
		return err
	}
	return WriteFrame(c.w, b)
}
