package action

import (
	"testing"

	"github.com/marcson909/client-server-multiplayer-playground/internal/tile"
)

func TestEnqueueWhileIdleOnlyQueues(t *testing.T) {
	q := New()
	q.Enqueue(GameAction{Kind: Interact, EntityID: 1}, 0, 1)
	if q.Current != nil {
		t.Fatal("expected enqueue alone not to start the action; Step does that")
	}
	if len(q.Pending) != 1 {
		t.Fatalf("expected one pending action, got %d", len(q.Pending))
	}
}

func TestEnqueueAppendsBehindNonConflictingInProgress(t *testing.T) {
	q := New()
	q.Enqueue(GameAction{Kind: Interact, EntityID: 1}, 0, 1)
	q.Step(0, 1)
	q.Enqueue(GameAction{Kind: Interact, EntityID: 2}, 0, 1)
	if len(q.Pending) != 1 {
		t.Fatalf("expected second interact to queue behind the first, got %d pending", len(q.Pending))
	}
}

func TestEnqueueMoveReplacesInProgressMove(t *testing.T) {
	q := New()
	first := GameAction{Kind: Move, Path: []tile.Position{{X: 1}}}
	q.Enqueue(first, 0, 1)
	q.Step(0, 1)
	second := GameAction{Kind: Move, Path: []tile.Position{{X: 5}}}
	q.Enqueue(second, 0, 1)

	if q.Current.Action.Path[0].X != 5 {
		t.Fatalf("expected in-progress move replaced with new path, got %v", q.Current.Action.Path)
	}
	if len(q.Pending) != 0 {
		t.Fatalf("expected no pending actions after replace, got %d", len(q.Pending))
	}
}

func TestEnqueueStrongSuspendsNormal(t *testing.T) {
	q := New()
	move := GameAction{Kind: Move, Path: []tile.Position{{X: 1}, {X: 2}}}
	q.Enqueue(move, 0, 1)
	q.Step(0, 1)

	interact := GameAction{Kind: Interact, EntityID: 7}
	q.Enqueue(interact, 0, 1)

	if q.Current.Action.Kind != Interact {
		t.Fatalf("expected Interact to preempt in-progress Move, got %v", q.Current.Action.Kind)
	}
	if q.Suspended == nil || q.Suspended.Action.Kind != Move {
		t.Fatal("expected the preempted Move to be held as Suspended")
	}
}

func TestEnqueueNormalCancelsWeak(t *testing.T) {
	q := New()
	q.Enqueue(GameAction{Kind: ChopTree, TreeEntityID: 3}, 0, 1)
	q.Step(0, 1)

	move := GameAction{Kind: Move, Path: []tile.Position{{X: 1}}}
	q.Enqueue(move, 0, 1)

	if q.Current.Action.Kind != Move {
		t.Fatalf("expected Move to cancel in-progress ChopTree, got %v", q.Current.Action.Kind)
	}
	if q.Suspended != nil {
		t.Fatal("a cancelled Weak action should not be preserved as Suspended")
	}
}

func TestStepAdvancesMoveAlongPath(t *testing.T) {
	q := New()
	path := []tile.Position{{X: 1}, {X: 2}}
	q.Enqueue(GameAction{Kind: Move, Path: path}, 0, 1)

	// First Step dequeues: tile_pos teleports to path[0], completion_time = 1+1.
	if completed := q.Step(1, 1); completed != nil {
		t.Fatal("expected dequeue step not to report a completion")
	}
	if q.Current.PathIndex != 0 {
		t.Fatalf("expected path index 0 right after dequeue, got %d", q.Current.PathIndex)
	}

	if completed := q.Step(2, 1); completed != nil {
		t.Fatal("expected no completion while a path step remains")
	}
	if q.Current.PathIndex != 1 {
		t.Fatalf("expected path index 1 after one arrival, got %d", q.Current.PathIndex)
	}

	completed := q.Step(3, 1)
	if completed == nil || completed.Kind != Move {
		t.Fatal("expected Move to complete once the path is exhausted")
	}
	if q.Current != nil {
		t.Fatal("expected queue to go idle once the Move completes with nothing queued")
	}
}

func TestStepResumesSuspendedActionAfterStrongCompletes(t *testing.T) {
	q := New()
	move := GameAction{Kind: Move, Path: []tile.Position{{X: 1}, {X: 2}}}
	q.Enqueue(move, 0, 1)
	q.Step(0, 1)
	q.Enqueue(GameAction{Kind: Interact, EntityID: 9}, 0, 1)

	completed := q.Step(2, 1)
	if completed == nil || completed.Kind != Interact {
		t.Fatalf("expected Interact to complete, got %v", completed)
	}
	if q.Current == nil || q.Current.Action.Kind != Move {
		t.Fatal("expected the suspended Move to resume once Interact completed")
	}
}

func TestCancelClearsEverything(t *testing.T) {
	q := New()
	q.Enqueue(GameAction{Kind: Interact, EntityID: 1}, 0, 1)
	q.Enqueue(GameAction{Kind: Interact, EntityID: 2}, 0, 1)
	q.Cancel()

	if q.Current != nil || len(q.Pending) != 0 || q.Suspended != nil {
		t.Fatal("expected Cancel to empty current, pending and suspended")
	}
}

func TestActionDurations(t *testing.T) {
	cases := map[Kind]uint32{
		Move:     1,
		ChopTree: 5,
		Attack:   4,
		UseItem:  1,
		Interact: 2,
	}
	for kind, want := range cases {
		if got := kind.Duration(); got != want {
			t.Errorf("%v: got duration %d, want %d", kind, got, want)
		}
	}
}
