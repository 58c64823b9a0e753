// Package client implements the two pieces of the core that only run on a
// connecting client: input prediction with server reconciliation, and
// delayed render-time interpolation for remote entities. Neither exists in
// the Rust original, which applies every server message directly — both
// are new functionality spec.md §4.7/§4.8 require, built in the teacher's
// plain-struct-method style.
package client

import (
	"github.com/marcson909/client-server-multiplayer-playground/internal/action"
	"github.com/marcson909/client-server-multiplayer-playground/internal/protocol"
	"github.com/marcson909/client-server-multiplayer-playground/internal/tile"
)

// PendingInput is one not-yet-acknowledged action awaiting reconciliation.
type PendingInput struct {
	Seq    uint32
	Action action.GameAction
}

// Predictor tracks the local player's predicted position against the last
// authoritative state the server has confirmed, replaying unacknowledged
// inputs on top of every reconciliation per spec.md §4.7.
type Predictor struct {
	Pathfinder *tile.Pathfinder

	PredictionEnabled     bool
	ReconciliationEnabled bool

	inputSeq uint32
	pending  []PendingInput

	TilePosition   tile.Position
	ServerPosition tile.Position
}

// NewPredictor returns a predictor with both prediction and reconciliation
// enabled, sharing pathfinder with the rest of the client for mouse-driven
// chop targeting and move previews.
func NewPredictor(pathfinder *tile.Pathfinder, spawn tile.Position) *Predictor {
	return &Predictor{
		Pathfinder:            pathfinder,
		PredictionEnabled:     true,
		ReconciliationEnabled: true,
		TilePosition:          spawn,
		ServerPosition:        spawn,
	}
}

// nextSeq assigns and returns the next monotonic input_sequence_number.
func (p *Predictor) nextSeq() uint32 {
	seq := p.inputSeq
	p.inputSeq++
	return seq
}

// QueueAction assigns a sequence number to a, predicts its position effect
// locally if prediction is enabled, records it as pending, and returns the
// Envelope the caller sends over the reliable channel.
func (p *Predictor) QueueAction(a action.GameAction) *protocol.Envelope {
	seq := p.nextSeq()
	if p.PredictionEnabled {
		p.applyPredicted(a)
	}
	p.pending = append(p.pending, PendingInput{Seq: seq, Action: a})
	return &protocol.Envelope{Kind: protocol.KindQueueAction, Action: a, InputSeq: seq}
}

// QueueActions atomically enqueues a chain (e.g. Move then ChopTree) under
// one sequence number, predicting only the chain's Move step per spec.md
// §4.7's mouse-driven chopping description.
func (p *Predictor) QueueActions(actions []action.GameAction) *protocol.Envelope {
	seq := p.nextSeq()
	if p.PredictionEnabled {
		for _, a := range actions {
			if a.Kind == action.Move {
				p.applyPredicted(a)
			}
		}
	}
	for _, a := range actions {
		p.pending = append(p.pending, PendingInput{Seq: seq, Action: a})
	}
	return &protocol.Envelope{Kind: protocol.KindQueueActions, Actions: actions, InputSeq: seq}
}

// applyPredicted applies a's immediate position effect: a Move teleports to
// its path's first tile (the tile the server's dequeue step teleports to on
// the same tick it starts the action); every other action kind leaves
// position unchanged.
func (p *Predictor) applyPredicted(a action.GameAction) {
	if a.Kind == action.Move && len(a.Path) > 0 {
		p.TilePosition = a.Path[0]
	}
}

// Reconcile applies an authoritative tile_pos + last_processed_input pair
// from a DeltaUpdate touching the local entity. With reconciliation
// enabled, it drops every acknowledged pending input and replays the rest
// on top of the authoritative position; disabled, it simply discards all
// pending inputs.
func (p *Predictor) Reconcile(serverPos tile.Position, lastProcessedInput uint32) {
	p.TilePosition = serverPos
	p.ServerPosition = serverPos

	if !p.ReconciliationEnabled {
		p.pending = nil
		return
	}

	var remaining []PendingInput
	for _, pi := range p.pending {
		if pi.Seq <= lastProcessedInput {
			continue
		}
		remaining = append(remaining, pi)
	}
	p.pending = remaining

	for _, pi := range p.pending {
		p.applyPredicted(pi.Action)
	}
}

// ChopAt builds the compound "walk to an adjacent tile then chop" action
// chain spec.md §4.7 describes for mouse-driven woodcutting: if the player
// isn't already adjacent to treePos, it finds the nearest walkable
// neighbour via local A* and queues Move then ChopTree together. ok is
// false if no adjacent tile is reachable.
func (p *Predictor) ChopAt(treeEntityID uint64, treePos tile.Position) (*protocol.Envelope, bool) {
	if p.TilePosition.Distance(treePos) == 1 {
		return p.QueueActions([]action.GameAction{
			{Kind: action.ChopTree, TreeEntityID: treeEntityID},
		}), true
	}

	neighbors := treePos.Neighbors()
	var bestPath []tile.Position
	for _, n := range neighbors {
		if !p.Pathfinder.IsWalkable(n) {
			continue
		}
		path, found := p.Pathfinder.FindPath(p.TilePosition, n)
		if !found {
			continue
		}
		if bestPath == nil || len(path) < len(bestPath) {
			bestPath = path
		}
	}
	if bestPath == nil {
		return nil, false
	}

	return p.QueueActions([]action.GameAction{
		{Kind: action.Move, Path: bestPath},
		{Kind: action.ChopTree, TreeEntityID: treeEntityID},
	}), true
}
