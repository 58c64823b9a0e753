// Package tile implements the integer tile lattice shared by the server and
// client, and the A* pathfinder both sides use as the source of truth for
// traversability.
package tile

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TileSize is the world-unit edge length of one tile.
const TileSize = 32.0

// Position is an integer 2-D lattice coordinate.
type Position struct {
	X, Y int32
}

// ToWorld converts a tile coordinate to world space by scalar multiply.
func (p Position) ToWorld() mgl32.Vec2 {
	return mgl32.Vec2{float32(p.X) * TileSize, float32(p.Y) * TileSize}
}

// FromWorld rounds a world-space position to its containing tile.
func FromWorld(v mgl32.Vec2) Position {
	return Position{
		X: int32(round(v[0] / TileSize)),
		Y: int32(round(v[1] / TileSize)),
	}
}

func round(f float32) float32 {
	if f >= 0 {
		return float32(int32(f + 0.5))
	}
	return float32(int32(f - 0.5))
}

// Distance returns the Manhattan distance between two tiles.
func (p Position) Distance(o Position) int32 {
	return absI32(p.X-o.X) + absI32(p.Y-o.Y)
}

func absI32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Neighbors returns the four cardinal neighbours.
func (p Position) Neighbors() []Position {
	return []Position{
		{p.X + 1, p.Y},
		{p.X - 1, p.Y},
		{p.X, p.Y + 1},
		{p.X, p.Y - 1},
	}
}

// NeighborsDiagonal returns the four cardinal plus four diagonal neighbours.
func (p Position) NeighborsDiagonal() []Position {
	return []Position{
		{p.X + 1, p.Y},
		{p.X - 1, p.Y},
		{p.X, p.Y + 1},
		{p.X, p.Y - 1},
		{p.X + 1, p.Y + 1},
		{p.X + 1, p.Y - 1},
		{p.X - 1, p.Y + 1},
		{p.X - 1, p.Y - 1},
	}
}

// packed returns the coordinate packed into a single int64, used as the key
// for the int64-keyed maps in the A* search.
func (p Position) packed() int64 {
	return int64(uint64(uint32(p.X))<<32 | uint64(uint32(p.Y)))
}

func (p Position) bytes() [8]byte {
	var buf [8]byte
	buf[0] = byte(p.X)
	buf[1] = byte(p.X >> 8)
	buf[2] = byte(p.X >> 16)
	buf[3] = byte(p.X >> 24)
	buf[4] = byte(p.Y)
	buf[5] = byte(p.Y >> 8)
	buf[6] = byte(p.Y >> 16)
	buf[7] = byte(p.Y >> 24)
	return buf
}
