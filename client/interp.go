package client

import "github.com/marcson909/client-server-multiplayer-playground/internal/tile"

// InterpolationDelay is the render-time lag applied to remote entities
// (spec.md §6), in seconds. It is a fixed 100ms constant: the client does
// not read config.Config.InterpolationDelay, and the delay cannot be changed
// at run time.
const InterpolationDelay = 0.1

// retentionWindow bounds how far behind render_time a sample is kept
// before eviction (spec.md §4.8: "evict snapshots older than
// render_time - 1s").
const retentionWindow = 1.0

// snapshot is one authoritative position stamped with the local arrival
// time, per spec.md's position_buffer entry.
type snapshot struct {
	timestamp float64
	position  tile.Position
}

// InterpBuffer holds the authoritative position history for one remote
// entity (never the local player, never a tree) and resolves a
// render-time position by picking between the two bracketing samples
// instead of blending them, since the world is tile-based (spec.md §4.8).
type InterpBuffer struct {
	samples []snapshot
}

// NewInterpBuffer returns an empty buffer.
func NewInterpBuffer() *InterpBuffer {
	return &InterpBuffer{}
}

// Append records an authoritative position observed at localTimestamp.
func (b *InterpBuffer) Append(localTimestamp float64, pos tile.Position) {
	b.samples = append(b.samples, snapshot{timestamp: localTimestamp, position: pos})
}

// Sample resolves the position to display at renderTime, evicting samples
// older than renderTime - retentionWindow first. ok is false when fewer
// than two samples remain, in which case the caller should display
// server_position directly.
func (b *InterpBuffer) Sample(renderTime float64) (pos tile.Position, ok bool) {
	cutoff := renderTime - retentionWindow
	kept := b.samples[:0]
	for _, s := range b.samples {
		if s.timestamp >= cutoff {
			kept = append(kept, s)
		}
	}
	b.samples = kept

	if len(b.samples) < 2 {
		return tile.Position{}, false
	}

	for i := 0; i < len(b.samples)-1; i++ {
		s0, s1 := b.samples[i], b.samples[i+1]
		if renderTime < s0.timestamp || renderTime > s1.timestamp {
			continue
		}
		span := s1.timestamp - s0.timestamp
		if span <= 0 {
			return s1.position, true
		}
		factor := (renderTime - s0.timestamp) / span
		if factor < 0.5 {
			return s0.position, true
		}
		return s1.position, true
	}

	// renderTime is outside every bracket: before the earliest sample or
	// after the latest. Snap to whichever end is closer.
	if renderTime < b.samples[0].timestamp {
		return b.samples[0].position, true
	}
	return b.samples[len(b.samples)-1].position, true
}
