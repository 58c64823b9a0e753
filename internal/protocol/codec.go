package protocol

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
)

// maxFrameSize bounds a single reliable-channel frame, guarding against a
// corrupt length prefix turning a bad frame into an unbounded allocation.
const maxFrameSize = 1 << 20

// EncodeFrame gob-encodes an Envelope and prefixes it with its length, for
// the reliable stream channel (gorilla/websocket already frames messages,
// but the length prefix keeps the same Envelope encoder usable verbatim
// over a plain io.Writer in tests). The UDP path uses EncodeDatagram, which
// adds no length prefix.
func EncodeFrame(w io.Writer, env *Envelope) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		return fmt.Errorf("protocol: encode envelope: %w", err)
	}
	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(buf.Len()))
	if _, err := w.Write(lenPrefix[:]); err != nil {
		return fmt.Errorf("protocol: write frame length: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("protocol: write frame body: %w", err)
	}
	return nil
}

// DecodeFrame reads one length-prefixed Envelope from r. Malformed frames
// (bad length, truncated body, bad gob) are reported to the caller, which
// per spec.md §7 should drop the frame and log at debug rather than treat
// it as fatal.
func DecodeFrame(r *bufio.Reader) (*Envelope, error) {
	var lenPrefix [4]byte
	if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenPrefix[:])
	if n > maxFrameSize {
		return nil, fmt.Errorf("protocol: frame size %d exceeds max %d", n, maxFrameSize)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("protocol: read frame body: %w", err)
	}
	var env Envelope
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&env); err != nil {
		return nil, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	return &env, nil
}

// EncodeDatagram gob-encodes an Envelope for the unreliable channel, where
// a UDP packet is already a self-delimited datagram and no length prefix
// is needed.
func EncodeDatagram(env *Envelope) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		return nil, fmt.Errorf("protocol: encode datagram: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeDatagram decodes one unreliable-channel UDP packet.
func DecodeDatagram(data []byte) (*Envelope, error) {
	var env Envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return nil, fmt.Errorf("protocol: decode datagram: %w", err)
	}
	return &env, nil
}
