package gamedata

import "testing"

func TestAddItemStacksStackableItems(t *testing.T) {
	inv := NewInventory(DefaultInventorySlots)
	if !inv.AddItem(Logs, 5) {
		t.Fatal("expected AddItem to succeed into an empty inventory")
	}
	if !inv.AddItem(Logs, 3) {
		t.Fatal("expected AddItem to succeed when stacking onto an existing slot")
	}
	if got := inv.CountItem(Logs); got != 8 {
		t.Fatalf("got %d logs, want 8", got)
	}

	var used int
	for _, slot := range inv.Slots {
		if slot != nil {
			used++
		}
	}
	if used != 1 {
		t.Fatalf("expected stacking to use a single slot, used %d", used)
	}
}

func TestAddItemDoesNotStackUnstackableItems(t *testing.T) {
	inv := NewInventory(DefaultInventorySlots)
	inv.AddItem(BronzeAxe, 1)
	inv.AddItem(BronzeAxe, 1)

	var used int
	for _, slot := range inv.Slots {
		if slot != nil {
			used++
		}
	}
	if used != 2 {
		t.Fatalf("expected two axes to occupy two slots, used %d", used)
	}
}

func TestAddItemFailsWhenInventoryFull(t *testing.T) {
	inv := NewInventory(2)
	if !inv.AddItem(BronzeAxe, 1) {
		t.Fatal("expected first add to succeed")
	}
	if !inv.AddItem(IronAxe, 1) {
		t.Fatal("expected second add to succeed")
	}
	if inv.AddItem(SteelAxe, 1) {
		t.Fatal("expected add to fail once every slot is occupied")
	}
}

func TestRemoveItemClearsSlotAtZero(t *testing.T) {
	inv := NewInventory(DefaultInventorySlots)
	inv.AddItem(Logs, 5)
	if !inv.RemoveItem(Logs, 5) {
		t.Fatal("expected RemoveItem to succeed")
	}
	if inv.HasItem(Logs, 1) {
		t.Fatal("expected the slot to be cleared once its quantity hits zero")
	}
}

func TestRemoveItemFailsWhenInsufficient(t *testing.T) {
	inv := NewInventory(DefaultInventorySlots)
	inv.AddItem(Logs, 2)
	if inv.RemoveItem(Logs, 3) {
		t.Fatal("expected RemoveItem to fail when quantity is insufficient")
	}
	if got := inv.CountItem(Logs); got != 2 {
		t.Fatalf("a failed remove should not partially deduct, got %d", got)
	}
}

func TestHasAnyAxePrefersSteelOverIronOverBronze(t *testing.T) {
	inv := NewInventory(DefaultInventorySlots)
	inv.AddItem(BronzeAxe, 1)
	inv.AddItem(IronAxe, 1)
	inv.AddItem(SteelAxe, 1)

	axe, ok := inv.HasAnyAxe()
	if !ok || axe != SteelAxe {
		t.Fatalf("got axe=%v ok=%v, want SteelAxe", axe, ok)
	}
}

func TestHasAnyAxeFalseWhenNoneHeld(t *testing.T) {
	inv := NewInventory(DefaultInventorySlots)
	if _, ok := inv.HasAnyAxe(); ok {
		t.Fatal("expected no axe to be reported when the inventory holds none")
	}
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	inv := NewInventory(DefaultInventorySlots)
	inv.AddItem(Logs, 5)
	cp := inv.Clone()
	cp.AddItem(Logs, 10)

	if got := inv.CountItem(Logs); got != 5 {
		t.Fatalf("mutating the clone affected the original, got %d logs", got)
	}
	if got := cp.CountItem(Logs); got != 15 {
		t.Fatalf("got %d logs in clone, want 15", got)
	}
}
