package gamedata

// TreeType enumerates the three tree species.
type TreeType int

const (
	Normal TreeType = iota
	Oak
	Willow
)

// TreeDefinition is a tree species' static stats.
type TreeDefinition struct {
	Type            TreeType
	Name            string
	LevelRequired   uint32
	ChopTicks       uint32
	LogsGiven       ItemType
	Experience      uint32
	RespawnSeconds  float64
}

var treeDefinitions = map[TreeType]TreeDefinition{
	Normal: {Normal, "Tree", 1, 5, Logs, 25, 5.0},
	Oak:    {Oak, "Oak", 15, 5, OakLogs, 37, 8.0},
	Willow: {Willow, "Willow", 30, 5, WillowLogs, 67, 10.0},
}

// TreeDefinitionOf returns the static definition for a tree species.
func TreeDefinitionOf(t TreeType) TreeDefinition {
	return treeDefinitions[t]
}

// Tree is one tree entity's mutable chop/respawn state. The respawn timer
// lives on the tree itself rather than in a side table, per spec.md §9's
// design note, keeping the per-tick sweep a single pass over entities.
type Tree struct {
	Type         TreeType
	IsChopped    bool
	RespawnTimer float64
}

// NewTree creates an unchopped tree of the given species.
func NewTree(t TreeType) *Tree {
	return &Tree{Type: t}
}

// Clone returns a copy, used when building an EntitySnapshot so later
// mutation of the live tree can't race the outgoing message.
func (t *Tree) Clone() *Tree {
	cp := *t
	return &cp
}

// AdvanceRespawn advances the respawn timer by dt seconds and reports
// whether the tree just respawned this call.
func (t *Tree) AdvanceRespawn(dt float64) bool {
	if !t.IsChopped {
		return false
	}
	t.RespawnTimer += dt
	def := TreeDefinitionOf(t.Type)
	if t.RespawnTimer >= def.RespawnSeconds {
		t.IsChopped = false
		t.RespawnTimer = 0
		return true
	}
	return false
}

// Chop marks the tree chopped and resets its respawn timer to zero.
func (t *Tree) Chop() {
	t.IsChopped = true
	t.RespawnTimer = 0
}
