// Package transport implements spec.md §4.10: length-prefixed JSON framing
// over stream sockets — a big-endian uint32 byte length followed by that many
// bytes of UTF-8 JSON — plus the listener and dialer built on top of it.
// Adapted from the teacher's raw Bitcoin wire-protocol framing
// (services/legacy/p2p, services/legacy/connmgr) to JSON payloads, since
// spec.md mandates JSON frames rather than Bitcoin's binary wire format.
package transport

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// MaxFrameSize bounds a single frame to guard against a peer claiming an
// absurd length prefix and exhausting memory before the read even starts.
const MaxFrameSize = 16 * 1024 * 1024

// WriteFrame writes one length-prefixed frame containing the JSON encoding
// of msg.
func WriteFrame(w io.Writer, msg interface{}) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal frame payload: %w", err)
	}

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(payload)))

	if _, err := w.Write(length[:]); err != nil {
		return fmt.Errorf("write frame length: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write frame payload: %w", err)
	}
	return nil
}

// ReadFrame blocks until one full frame has been buffered, then returns its
// raw JSON payload. Multiple frames on the same connection are supported by
// calling ReadFrame repeatedly.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lengthBuf [4]byte
	if _, err := io.ReadFull(r, lengthBuf[:]); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(lengthBuf[:])
	if length > MaxFrameSize {
		return nil, fmt.Errorf("frame length %d exceeds maximum %d", length, MaxFrameSize)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame payload: %w", err)
	}
	return payload, nil
}
