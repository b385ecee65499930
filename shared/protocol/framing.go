package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// HeaderSize is the length prefix in bytes (big-endian uint32).
	HeaderSize = 4
	// MaxFrameSize bounds a single payload; larger headers mean the stream
	// is corrupt and cannot be resynchronized.
	MaxFrameSize = 64 << 10
)

var ErrFrameTooLarge = errors.New("protocol: frame exceeds maximum size")

// WriteFrame writes one length-prefixed frame. The header and payload go out
// in a single Write so concurrent readers never observe a torn header.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("write %d bytes: %w", len(payload), ErrFrameTooLarge)
	}
	buf := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[HeaderSize:], payload)
	_, err := w.Write(buf)
	return err
}

// ReadFrame blocks until one complete frame has arrived. Fragmented and
// coalesced stream reads are absorbed by io.ReadFull. A clean close before
// any header byte yields io.EOF.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(header[:])
	if size > MaxFrameSize {
		return nil, fmt.Errorf("read %d bytes: %w", size, ErrFrameTooLarge)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return payload, nil
}
