package gamedata

import "testing"

func TestTreeDefinitionsMatchFixedValues(t *testing.T) {
	cases := []struct {
		typ                       TreeType
		levelRequired, experience uint32
		logs                      ItemType
		respawn                   float64
	}{
		{Normal, 1, 25, Logs, 5.0},
		{Oak, 15, 37, OakLogs, 8.0},
		{Willow, 30, 67, WillowLogs, 10.0},
	}
	for _, c := range cases {
		def := TreeDefinitionOf(c.typ)
		if def.LevelRequired != c.levelRequired || def.Experience != c.experience ||
			def.LogsGiven != c.logs || def.RespawnSeconds != c.respawn {
			t.Fatalf("%v: got %+v, want level=%d xp=%d logs=%v respawn=%v",
				c.typ, def, c.levelRequired, c.experience, c.logs, c.respawn)
		}
	}
}

func TestTreeChopAndRespawnCycle(t *testing.T) {
	tree := NewTree(Normal)
	if tree.IsChopped {
		t.Fatal("a fresh tree should not start chopped")
	}

	tree.Chop()
	if !tree.IsChopped {
		t.Fatal("expected Chop to mark the tree chopped")
	}

	// Normal respawns after 5.0s; advancing by less should not respawn it.
	if tree.AdvanceRespawn(4.0) {
		t.Fatal("should not respawn before its respawn_time elapses")
	}
	if !tree.IsChopped {
		t.Fatal("should still be chopped before respawn_time elapses")
	}

	if !tree.AdvanceRespawn(1.5) {
		t.Fatal("expected respawn once cumulative elapsed time reaches respawn_time")
	}
	if tree.IsChopped {
		t.Fatal("expected IsChopped cleared on respawn")
	}
	if tree.RespawnTimer != 0 {
		t.Fatalf("expected respawn timer reset to 0, got %v", tree.RespawnTimer)
	}
}

func TestAdvanceRespawnNoopWhenNotChopped(t *testing.T) {
	tree := NewTree(Oak)
	if tree.AdvanceRespawn(100) {
		t.Fatal("an unchopped tree should never report a respawn")
	}
}

func TestTreeCloneIsIndependent(t *testing.T) {
	tree := NewTree(Willow)
	tree.Chop()
	cp := tree.Clone()
	cp.IsChopped = false
	if !tree.IsChopped {
		t.Fatal("mutating the clone should not affect the original")
	}
}
