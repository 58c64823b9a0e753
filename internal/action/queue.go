package action

import (
	"math"

	"github.com/marcson909/client-server-multiplayer-playground/internal/tile"
)

// InProgress is the one action an entity may be executing at a time.
type InProgress struct {
	Action         GameAction
	StartedAt      float64
	CompletionTime float64
	PathIndex      int
}

// Queue is one entity's FIFO of pending actions plus at most one
// InProgress. Suspended holds a Normal action a Strong action preempted,
// resumed once the Strong action completes.
type Queue struct {
	Pending   []GameAction
	Current   *InProgress
	Suspended *InProgress
}

// New returns an empty action queue.
func New() *Queue {
	return &Queue{}
}

// Cancel fully empties the queue and drops whatever is in progress or
// suspended, per spec.md §4.2: "CancelAction empties both the in-progress
// slot and the queue."
func (q *Queue) Cancel() {
	q.Current = nil
	q.Suspended = nil
	q.Pending = nil
}

// Enqueue appends or substitutes a new action according to the priority
// tiers described in spec.md §4.2: Strong suspends an in-progress Normal
// for later resumption; Normal or Strong cancels an in-progress Weak
// outright; a Move arriving while a Move is in progress replaces it rather
// than queuing behind it (the resolved reading of the reference's
// ambiguous "server will automatically replace" comment); anything else
// simply joins the FIFO. tickRate is the wall-clock length of one tick in
// seconds, the same value passed to Step as moveTick — durations are
// defined in ticks (spec.md §3), so converting to a completion time
// measured in seconds requires this scale factor.
func (q *Queue) Enqueue(a GameAction, now, tickRate float64) {
	if q.Current == nil {
		q.Pending = append(q.Pending, a)
		return
	}

	switch {
	case q.Current.Action.Kind == Move && a.Kind == Move:
		// Replaces rather than queues behind the in-progress move; caller
		// teleports tile_pos to path[0] since PathIndex starts at 0.
		q.Current = &InProgress{
			Action:         a,
			StartedAt:      now,
			CompletionTime: completionAt(now, a.Kind.Duration(), tickRate),
		}
	case a.Priority() == PriorityStrong && q.Current.Action.Priority() == PriorityNormal:
		suspended := q.Current
		q.Current = &InProgress{
			Action:         a,
			StartedAt:      now,
			CompletionTime: completionAt(now, a.Kind.Duration(), tickRate),
		}
		q.Suspended = suspended
	case a.Priority() >= PriorityNormal && q.Current.Action.Priority() == PriorityWeak:
		q.Current = &InProgress{
			Action:         a,
			StartedAt:      now,
			CompletionTime: completionAt(now, a.Kind.Duration(), tickRate),
		}
	default:
		q.Pending = append(q.Pending, a)
	}
}

// completionAt returns the time, in seconds, that lies ticks whole ticks
// after now. It is computed as a whole tick index times tickRate, the same
// product the server's tick loop uses for its clock, so the completion time
// compares exactly equal to the clock on the tick it falls due instead of
// missing it by a floating-point rounding step.
func completionAt(now float64, ticks uint32, tickRate float64) float64 {
	return (math.Round(now/tickRate) + float64(ticks)) * tickRate
}

// Step advances the queue by one tick at time now. moveTick is the length
// in seconds of a single Move step (equal to the server tick rate). It
// returns the action that completed this tick, if any — the caller is
// responsible for any side effects (woodcutting resolution, XP, etc.);
// Step only manages queue/idle transitions and Move's path walk.
func (q *Queue) Step(now, moveTick float64) *GameAction {
	if q.Current != nil {
		if now >= q.Current.CompletionTime {
			if q.Current.Action.Kind == Move {
				q.Current.PathIndex++
				if q.Current.PathIndex < len(q.Current.Action.Path) {
					q.Current.CompletionTime = completionAt(now, 1, moveTick)
					return nil
				}
			}
			completed := q.Current.Action
			q.Current = nil
			if q.Suspended != nil {
				q.Current = q.Suspended
				q.Suspended = nil
			}
			q.dequeue(now, moveTick)
			return &completed
		}
		return nil
	}

	q.dequeue(now, moveTick)
	return nil
}

// dequeue starts the next pending action if idle. tickRate converts the
// action's tick-count duration into a completion time in seconds, same as
// Enqueue.
func (q *Queue) dequeue(now, tickRate float64) {
	if q.Current != nil || len(q.Pending) == 0 {
		return
	}
	next := q.Pending[0]
	q.Pending = q.Pending[1:]
	q.Current = &InProgress{
		Action:         next,
		StartedAt:      now,
		CompletionTime: completionAt(now, next.Kind.Duration(), tickRate),
	}
}

// CurrentMoveTile returns the tile the in-progress Move action's current
// path step points at, for the caller to teleport tile_pos to. Ok is false
// when no Move is in progress.
func (q *Queue) CurrentMoveTile() (tile.Position, bool) {
	if q.Current == nil || q.Current.Action.Kind != Move {
		return tile.Position{}, false
	}
	if q.Current.PathIndex >= len(q.Current.Action.Path) {
		return tile.Position{}, false
	}
	return q.Current.Action.Path[q.Current.PathIndex], true
}
