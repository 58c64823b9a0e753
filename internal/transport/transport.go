// Package transport carries protocol.Envelopes between server and client
// over the two logical channels spec.md §6 requires: a reliable-ordered
// channel for joins, actions and replication bookkeeping, and an
// unreliable channel for DeltaUpdate. The gorilla/websocket + raw UDP
// adapter is the only concrete implementation: the listening side in
// wsudp.go and the dialing side in wsudp_client.go. Session is the
// interface the server and client packages program against so a future
// adapter (e.g. a single multiplexed QUIC stream) only needs to satisfy
// it.
package transport

import (
	"github.com/marcson909/client-server-multiplayer-playground/internal/protocol"
)

// Session is one connected peer's duplex channel pair.
type Session interface {
	// ID uniquely identifies this session for the session's lifetime.
	ID() string

	// SendReliable enqueues an Envelope on the reliable-ordered channel.
	SendReliable(env *protocol.Envelope) error

	// SendUnreliable enqueues an Envelope on the unreliable channel. Loss
	// is not reported — callers rely on the next tick's absolute-state
	// delta to recover, per spec.md §7.
	SendUnreliable(env *protocol.Envelope) error

	// Inbound is the fan-in of both channels' decoded Envelopes, in
	// arrival order within each channel but interleaved across the two.
	Inbound() <-chan *protocol.Envelope

	// Closed reports when the session has disconnected.
	Closed() <-chan struct{}

	// Close tears down both channels.
	Close() error
}

// Listener accepts newly connected Sessions.
type Listener interface {
	Accept() (Session, error)
	Close() error
}
