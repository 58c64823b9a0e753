package server

import (
	"log"

	"github.com/marcson909/client-server-multiplayer-playground/internal/action"
	"github.com/marcson909/client-server-multiplayer-playground/internal/protocol"
	"github.com/marcson909/client-server-multiplayer-playground/internal/tile"
)

// HandleMessage dispatches one inbound Envelope from playerID's session.
// Join is handled separately by Join itself; every other Kind lands here.
// Grounded on the reference's handle_client_message match arms in
// server/src/lib.rs.
func (w *World) HandleMessage(playerID uint64, env *protocol.Envelope) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch env.Kind {
	case protocol.KindQueueAction:
		w.handleQueueAction(playerID, env.Action, env.InputSeq)
	case protocol.KindQueueActions:
		for _, a := range env.Actions {
			if !w.acceptAction(playerID, a) {
				break
			}
		}
		entity, entityID, err := w.playerEntity(playerID)
		if err == nil {
			entity.LastProcessedInput = env.InputSeq
			w.send(playerID, &protocol.Envelope{Kind: protocol.KindActionQueued, EntityID: entityID})
		}
	case protocol.KindCancelAction:
		entity, _, err := w.playerEntity(playerID)
		if err != nil {
			return
		}
		entity.Queue.Cancel()
	case protocol.KindRequestPath:
		w.handleRequestPath(playerID, env.Start, env.Goal)
	default:
		log.Printf("server: player %d sent unexpected message kind %v", playerID, env.Kind)
	}
}

func (w *World) handleQueueAction(playerID uint64, a action.GameAction, inputSeq uint32) {
	entity, entityID, err := w.playerEntity(playerID)
	if err != nil {
		return
	}
	if !w.acceptAction(playerID, a) {
		return
	}
	entity.LastProcessedInput = inputSeq
	w.send(playerID, &protocol.Envelope{Kind: protocol.KindActionQueued, EntityID: entityID})
}

// acceptAction validates a single action against the world (dropping
// actions that target a vanished entity, and gating ChopTree on level/axe
// per spec.md §7/§4.4) and, if it passes, enqueues it. Returns false if the
// action was rejected, so QueueActions can stop enqueuing the rest of the
// chain at the first failure.
func (w *World) acceptAction(playerID uint64, a action.GameAction) bool {
	entity, _, err := w.playerEntity(playerID)
	if err != nil {
		return false
	}

	switch a.Kind {
	case action.Move:
		for _, step := range a.Path {
			if !w.pathfinder.IsWalkable(step) {
				log.Printf("server: player %d queued a move through an obstacle, dropping", playerID)
				return false
			}
		}
	case action.ChopTree:
		if !w.validateWoodcutting(playerID, entity, a.TreeEntityID) {
			return false
		}
	case action.Attack:
		if _, ok := w.entities[a.Target]; !ok {
			log.Printf("server: player %d attacked a vanished entity %d, dropping", playerID, a.Target)
			return false
		}
	case action.Interact:
		if _, ok := w.entities[a.EntityID]; !ok {
			log.Printf("server: player %d interacted with a vanished entity %d, dropping", playerID, a.EntityID)
			return false
		}
	}

	now := float64(w.tick) * w.cfg.TickRate
	entity.Queue.Enqueue(a, now, w.cfg.TickRate)
	if t, ok := entity.Queue.CurrentMoveTile(); ok {
		entity.TilePos = t
	}
	if w.metrics != nil {
		w.metrics.ActionsQueued.WithLabelValues(a.Kind.String()).Inc()
	}
	return true
}

func (w *World) handleRequestPath(playerID uint64, start, goal tile.Position) {
	path, ok := w.pathfinder.FindPath(start, goal)
	if !ok {
		w.send(playerID, &protocol.Envelope{Kind: protocol.KindPathNotFound, Start: start, Goal: goal})
		if w.metrics != nil {
			w.metrics.PathfindsTotal.WithLabelValues("not_found").Inc()
		}
		return
	}
	w.send(playerID, &protocol.Envelope{Kind: protocol.KindPathFound, Start: start, Goal: goal, Path: path})
	if w.metrics != nil {
		w.metrics.PathfindsTotal.WithLabelValues("found").Inc()
	}
}
