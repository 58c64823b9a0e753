// Package protocol is the wire schema shared identically by server and
// client: a pure data schema, no behaviour, encoded as tagged Envelopes
// over encoding/gob. It mirrors the Rust original's shared/src/netcode.rs
// bincode enum, reinterpreted the idiomatic Go way — a Kind discriminant
// plus a flat struct of optional fields rather than a closed sum type.
package protocol

import (
	"github.com/marcson909/client-server-multiplayer-playground/internal/action"
	"github.com/marcson909/client-server-multiplayer-playground/internal/gamedata"
	"github.com/marcson909/client-server-multiplayer-playground/internal/tile"
)

// Kind discriminates every message this protocol carries, client-to-server
// and server-to-client alike — one enum, like the Rust original's two
// enums collapsed, since Go has no sum types and a shared Envelope is
// simpler than two parallel ones.
type Kind int

const (
	// Client -> Server
	KindJoin Kind = iota
	KindQueueAction
	KindQueueActions
	KindCancelAction
	KindRequestPath

	// Server -> Client
	KindWelcome
	KindObstacleData
	KindEntitiesEntered
	KindEntitiesLeft
	KindDeltaUpdate
	KindActionQueued
	KindActionCompleted
	KindPathFound
	KindPathNotFound
	KindInventoryUpdate
	KindItemAdded
	KindItemRemoved
	KindSkillUpdate
	KindLevelUp
	KindExperienceGained
	KindTreeChopped
	KindTreeRespawned
	KindNotEnoughLevel
	KindNoAxeEquipped
)

// Channel identifies which of the two logical transport channels a Kind
// travels over.
type Channel int

const (
	Reliable Channel = iota
	Unreliable
)

// channels maps every Kind to its transport channel (spec.md §6). Only
// DeltaUpdate travels unreliable; everything else is reliable-ordered.
var channels = map[Kind]Channel{
	KindDeltaUpdate: Unreliable,
}

// ChannelFor returns the logical channel a Kind travels over.
func ChannelFor(k Kind) Channel {
	if ch, ok := channels[k]; ok {
		return ch
	}
	return Reliable
}

// DeltaKind enumerates EntityDelta.DeltaType's variants.
type DeltaKind int

const (
	DeltaFullState DeltaKind = iota
	DeltaPositionOnly
	DeltaActionStarted
	DeltaRemoved
)

// EntityDelta is one entity's per-tick replication payload.
type EntityDelta struct {
	EntityID          uint64
	DeltaKind         DeltaKind
	TilePos           tile.Position
	PlayerID          uint64
	HasPlayerID       bool
	LastProcessedInput uint32
	Action            action.GameAction
}

// EntitySnapshot is a full description of an entity sent on enter-view.
type EntitySnapshot struct {
	EntityID    uint64
	TilePos     tile.Position
	PlayerID    uint64
	HasPlayerID bool
	Tree        *gamedata.Tree
	TreeType    gamedata.TreeType
	HasTree     bool
}

// Envelope is the single flat struct gob transports over both channels.
// Only the fields relevant to Kind are populated; decoders must switch on
// Kind before reading any other field, matching how the original's
// bincode discriminant gated access to each enum variant's payload.
type Envelope struct {
	Kind Kind

	// Join
	Name string

	// QueueAction / QueueActions
	Action   action.GameAction
	Actions  []action.GameAction
	InputSeq uint32

	// CancelAction — no fields

	// RequestPath / PathFound / PathNotFound (Path only on PathFound)
	Start tile.Position
	Goal  tile.Position
	Path  []tile.Position

	// Welcome
	PlayerID      uint64
	SpawnPosition tile.Position

	// ObstacleData
	Obstacles []tile.Position

	// EntitiesEntered
	Entities []EntitySnapshot

	// EntitiesLeft
	EntityIDs []uint64

	// DeltaUpdate
	Tick   uint64
	Deltas []EntityDelta

	// ActionQueued / ActionCompleted / TreeChopped / TreeRespawned
	EntityID uint64

	// InventoryUpdate
	Inventory *gamedata.Inventory

	// ItemAdded / ItemRemoved
	ItemType gamedata.ItemType
	Quantity uint32

	// SkillUpdate / LevelUp / ExperienceGained / NotEnoughLevel
	Skill      gamedata.SkillType
	Level      uint32
	Experience uint32
	Required   uint32
	Current    uint32
	Amount     uint32
}
