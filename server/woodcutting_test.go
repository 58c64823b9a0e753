package server_test

import (
	"testing"

	"github.com/marcson909/client-server-multiplayer-playground/internal/action"
	"github.com/marcson909/client-server-multiplayer-playground/internal/gamedata"
	"github.com/marcson909/client-server-multiplayer-playground/internal/protocol"
	"github.com/marcson909/client-server-multiplayer-playground/internal/tile"
	"github.com/marcson909/client-server-multiplayer-playground/server/servertest"
)

// TestChopNormalTreeAdjacent matches spec.md §8's "Chop normal tree
// adjacent" scenario: the tree at (-3,-3) is a Normal tree (level
// requirement 1, 25 XP, 5 ticks to chop). The player chops from the spawn
// tile (0,0) rather than a tile next to the tree; the server does not check
// that the player stands adjacent to the tree it chops.
func TestChopNormalTreeAdjacent(t *testing.T) {
	ts := servertest.NewTestServer()
	alice := ts.AddTestClient("Alice")
	alice.Received()

	var treeID uint64
	ts.World.ForEachEntity(func(id uint64, pos tile.Position, tree *gamedata.Tree) {
		if tree != nil && tree.Type == gamedata.Normal && pos == (tile.Position{X: -3, Y: -3}) {
			treeID = id
		}
	})
	if treeID == 0 {
		t.Fatal("expected the fixed Normal tree at (-3,-3) to exist")
	}

	alice.Send(&protocol.Envelope{
		Kind:     protocol.KindQueueAction,
		Action:   action.GameAction{Kind: action.ChopTree, TreeEntityID: treeID},
		InputSeq: 0,
	})
	if findKind(alice.Received(), protocol.KindActionQueued) == nil {
		t.Fatal("expected ActionQueued for a valid chop")
	}

	// One tick to dequeue the action, then 5 more ticks (5 * 0.6s tick rate
	// = 3.0s) for the ChopTree action's fixed duration to elapse.
	ts.StepTicks(6)

	replies := alice.Received()
	if findKind(replies, protocol.KindItemAdded) == nil {
		t.Fatal("expected ItemAdded (Logs)")
	}
	if findKind(replies, protocol.KindExperienceGained) == nil {
		t.Fatal("expected ExperienceGained")
	}
	if findKind(replies, protocol.KindTreeChopped) == nil {
		t.Fatal("expected a TreeChopped broadcast")
	}
	if findKind(replies, protocol.KindActionCompleted) == nil {
		t.Fatal("expected ActionCompleted")
	}

	var chopped bool
	ts.World.ForEachEntity(func(id uint64, pos tile.Position, tree *gamedata.Tree) {
		if id == treeID {
			chopped = tree.IsChopped
		}
	})
	if !chopped {
		t.Fatal("expected the tree to be marked chopped")
	}

	// 9 more ticks (5.4s at 0.6s/tick, past the Normal tree's 5s respawn
	// time) should respawn it.
	ts.StepTicks(9)
	var respawned bool
	ts.World.ForEachEntity(func(id uint64, pos tile.Position, tree *gamedata.Tree) {
		if id == treeID {
			respawned = !tree.IsChopped
		}
	})
	if !respawned {
		t.Fatal("expected the tree to have respawned")
	}
}
