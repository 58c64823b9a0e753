// Package gamedata holds the static game-content definitions the server
// simulation mutates: items, inventory, skills and trees. None of it is
// behavior — it mirrors the Rust original's shared/src/{items,inventory,
// skills,trees}.rs as plain data plus the small amount of logic (stacking,
// level lookup) that operates purely on that data.
package gamedata

// ItemType enumerates every tradeable/storable item.
type ItemType int

const (
	BronzeAxe ItemType = iota
	IronAxe
	SteelAxe
	Logs
	OakLogs
	WillowLogs
	Shrimp
	Salmon
)

// ItemDefinition is the static description of an ItemType.
type ItemDefinition struct {
	Type        ItemType
	Name        string
	Stackable   bool
	Description string
}

var itemDefinitions = map[ItemType]ItemDefinition{
	BronzeAxe:  {BronzeAxe, "Bronze axe", false, "A woodcutter's axe made of bronze."},
	IronAxe:    {IronAxe, "Iron axe", false, "A woodcutter's axe made of iron."},
	SteelAxe:   {SteelAxe, "Steel axe", false, "A woodcutter's axe made of steel."},
	Logs:       {Logs, "Logs", true, "Logs cut from a tree."},
	OakLogs:    {OakLogs, "Oak logs", true, "Logs cut from an oak tree."},
	WillowLogs: {WillowLogs, "Willow logs", true, "Logs cut from a willow tree."},
	Shrimp:     {Shrimp, "Shrimp", true, "Some nicely cooked shrimp."},
	Salmon:     {Salmon, "Salmon", true, "Some nicely cooked salmon."},
}

// ItemDefinitionOf returns the static definition for an item type.
func ItemDefinitionOf(t ItemType) ItemDefinition {
	return itemDefinitions[t]
}

// ItemStack is a quantity of one item type occupying a single inventory slot.
type ItemStack struct {
	Type     ItemType
	Quantity uint32
}

var axesByPreference = []ItemType{SteelAxe, IronAxe, BronzeAxe}
