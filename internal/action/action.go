// Package action implements the per-entity action queue state machine: the
// tagged GameAction variants, their fixed tick durations, and the three-tier
// priority policy used when a new action is enqueued atop one already in
// progress.
package action

import "github.com/marcson909/client-server-multiplayer-playground/internal/tile"

// Kind discriminates the GameAction variants.
type Kind int

const (
	Move Kind = iota
	ChopTree
	Attack
	UseItem
	Interact
)

// Priority is the action's cancellation tier (spec.md §4.2 design intent).
// Weak actions (repeating gathering) are cancelled outright by a Normal
// action; Strong actions suspend a Normal action in progress instead of
// discarding it.
type Priority int

const (
	PriorityWeak Priority = iota
	PriorityNormal
	PriorityStrong
)

func (k Kind) Priority() Priority {
	switch k {
	case ChopTree:
		return PriorityWeak
	case Interact:
		return PriorityStrong
	default:
		// Move, Attack, UseItem (spec.md §4.2: "Normal (movement, combat,
		// item use; same-type replaces)").
		return PriorityNormal
	}
}

// tickDurations maps each Kind to its fixed action duration, in ticks.
var tickDurations = map[Kind]uint32{
	Move:     1,
	ChopTree: 5,
	Attack:   4,
	UseItem:  1,
	Interact: 2,
}

// Duration returns the number of ticks a GameAction of this kind occupies.
func (k Kind) Duration() uint32 {
	return tickDurations[k]
}

var kindNames = map[Kind]string{
	Move:     "move",
	ChopTree: "chop_tree",
	Attack:   "attack",
	UseItem:  "use_item",
	Interact: "interact",
}

// String returns the lowercase metric/log label for k.
func (k Kind) String() string {
	return kindNames[k]
}

// GameAction is a tagged union over the five action variants. Only the
// fields relevant to Kind are populated; this mirrors the Rust original's
// enum more directly than a Go interface hierarchy would, and keeps gob
// encoding of the Envelope a single flat struct.
type GameAction struct {
	Kind Kind

	// Move
	Path []tile.Position

	// ChopTree
	TreeEntityID uint64

	// Attack
	Target uint64

	// UseItem
	ItemID uint32

	// Interact
	EntityID uint64
}

// Priority returns this action's cancellation tier.
func (a GameAction) Priority() Priority {
	return a.Kind.Priority()
}
