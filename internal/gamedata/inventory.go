package gamedata

// DefaultInventorySlots is the fixed inventory capacity (spec.md §6).
const DefaultInventorySlots = 28

// Inventory is a fixed-size array of optional item stacks. Stackable items
// coalesce into the first matching slot; unstackable items occupy one slot
// per unit, matching the Rust original's add_item.
type Inventory struct {
	Slots []*ItemStack
}

// NewInventory creates an inventory with the given slot count, all empty.
func NewInventory(slots int) *Inventory {
	return &Inventory{Slots: make([]*ItemStack, slots)}
}

// AddItem adds quantity units of itemType, stacking if possible. Returns
// false if no slot was available (inventory full).
func (inv *Inventory) AddItem(itemType ItemType, quantity uint32) bool {
	def := ItemDefinitionOf(itemType)

	if def.Stackable {
		for _, slot := range inv.Slots {
			if slot != nil && slot.Type == itemType {
				slot.Quantity += quantity
				return true
			}
		}
	}

	for i, slot := range inv.Slots {
		if slot == nil {
			inv.Slots[i] = &ItemStack{Type: itemType, Quantity: quantity}
			return true
		}
	}

	return false
}

// RemoveItem removes quantity units of itemType from the first slot that
// holds at least quantity of it, clearing the slot if it hits zero. Returns
// false, removing nothing, if no single slot holds that many; units spread
// over several slots (unstackable items) are not combined.
func (inv *Inventory) RemoveItem(itemType ItemType, quantity uint32) bool {
	for i, slot := range inv.Slots {
		if slot != nil && slot.Type == itemType && slot.Quantity >= quantity {
			slot.Quantity -= quantity
			if slot.Quantity == 0 {
				inv.Slots[i] = nil
			}
			return true
		}
	}
	return false
}

// HasItem reports whether the inventory holds at least quantity of itemType.
func (inv *Inventory) HasItem(itemType ItemType, quantity uint32) bool {
	return inv.CountItem(itemType) >= quantity
}

// CountItem sums the quantity held across all slots of itemType.
func (inv *Inventory) CountItem(itemType ItemType) uint32 {
	var total uint32
	for _, slot := range inv.Slots {
		if slot != nil && slot.Type == itemType {
			total += slot.Quantity
		}
	}
	return total
}

// HasAnyAxe returns the best axe the inventory holds, preferring steel over
// iron over bronze, or false if it holds none.
func (inv *Inventory) HasAnyAxe() (ItemType, bool) {
	for _, axe := range axesByPreference {
		if inv.HasItem(axe, 1) {
			return axe, true
		}
	}
	return 0, false
}

// Clone returns a deep copy, used when snapshotting inventory state into an
// outgoing InventoryUpdate message so later mutation can't race the send.
func (inv *Inventory) Clone() *Inventory {
	out := &Inventory{Slots: make([]*ItemStack, len(inv.Slots))}
	for i, slot := range inv.Slots {
		if slot != nil {
			cp := *slot
			out.Slots[i] = &cp
		}
	}
	return out
}
