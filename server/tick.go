package server

import (
	"time"

	"github.com/marcson909/client-server-multiplayer-playground/internal/action"
	"github.com/marcson909/client-server-multiplayer-playground/internal/protocol"
	"github.com/marcson909/client-server-multiplayer-playground/internal/tile"
)

// Tick advances the simulation by one fixed step (spec.md §4.3):
//  1. step every entity's action queue, collecting woodcutting completions
//     separately since they have cross-entity effects;
//  2. resolve woodcutting completions;
//  3. advance tree respawn timers;
//  4. refresh every player's interest view;
//  5. send delta updates.
func (w *World) Tick() {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	w.tick++
	now := float64(w.tick) * w.cfg.TickRate

	type woodcuttingCompletion struct {
		playerEntityID uint64
		treeEntityID   uint64
	}
	var woodcutting []woodcuttingCompletion

	for entityID, entity := range w.entities {
		if entity.Queue.Current != nil && entity.Queue.Current.Action.Kind == action.ChopTree &&
			now >= entity.Queue.Current.CompletionTime {
			woodcutting = append(woodcutting, woodcuttingCompletion{entityID, entity.Queue.Current.Action.TreeEntityID})
			continue // woodcutting completion handler owns clearing this entity's Current
		}

		completed := entity.Queue.Step(now, w.cfg.TickRate)
		if completed != nil && entity.HasPlayerID {
			w.send(entity.PlayerID, &protocol.Envelope{Kind: protocol.KindActionCompleted, EntityID: entityID})
		}
		if t, ok := entity.Queue.CurrentMoveTile(); ok {
			entity.TilePos = t
		}
	}

	for _, wc := range woodcutting {
		w.resolveWoodcutting(wc.playerEntityID, wc.treeEntityID)
	}

	w.advanceTreeRespawns()

	for playerID := range w.players {
		w.updateInterestForPlayerLocked(playerID)
	}

	w.sendDeltaUpdates()

	if w.metrics != nil {
		w.metrics.TickDuration.Observe(time.Since(start).Seconds())
	}
}

func (w *World) advanceTreeRespawns() {
	for entityID, entity := range w.entities {
		if entity.Tree == nil {
			continue
		}
		if entity.Tree.AdvanceRespawn(w.cfg.TickRate) {
			w.broadcast(&protocol.Envelope{Kind: protocol.KindTreeRespawned, EntityID: entityID})
		}
	}
}

func (w *World) updateInterestForPlayerLocked(playerID uint64) {
	player, ok := w.players[playerID]
	if !ok {
		return
	}
	centerEntity, ok := w.entities[player.EntityID]
	if !ok {
		return
	}

	entered, left := w.interest.UpdateView(playerID, centerEntity.TilePos, w.entityPositions(), w.cfg.ViewDistance)

	if len(entered) > 0 {
		snapshots := make([]protocol.EntitySnapshot, 0, len(entered))
		for _, entityID := range entered {
			entity, ok := w.entities[entityID]
			if !ok {
				continue
			}
			snap := protocol.EntitySnapshot{
				EntityID:    entityID,
				TilePos:     entity.TilePos,
				PlayerID:    entity.PlayerID,
				HasPlayerID: entity.HasPlayerID,
			}
			if entity.Tree != nil {
				snap.HasTree = true
				snap.TreeType = entity.Tree.Type
				snap.Tree = entity.Tree.Clone()
			}
			snapshots = append(snapshots, snap)
		}
		w.send(playerID, &protocol.Envelope{Kind: protocol.KindEntitiesEntered, Entities: snapshots})
	}

	if len(left) > 0 {
		w.send(playerID, &protocol.Envelope{Kind: protocol.KindEntitiesLeft, EntityIDs: left})
	}
}

func (w *World) entityPositions() map[uint64]tile.Position {
	out := make(map[uint64]tile.Position, len(w.entities))
	for id, e := range w.entities {
		out[id] = e.TilePos
	}
	return out
}

func (w *World) sendDeltaUpdates() {
	clientDeltas := make(map[uint64][]protocol.EntityDelta)

	for entityID, entity := range w.entities {
		last, ok := w.lastStates[entityID]
		if !ok {
			last = &lastSentState{tilePos: entity.TilePos}
			w.lastStates[entityID] = last
		}

		changed := !last.everSent || last.tilePos != entity.TilePos
		if !changed {
			continue
		}

		delta := protocol.EntityDelta{EntityID: entityID, LastProcessedInput: entity.LastProcessedInput}
		if !last.everSent {
			delta.DeltaKind = protocol.DeltaFullState
			delta.TilePos = entity.TilePos
			delta.PlayerID = entity.PlayerID
			delta.HasPlayerID = entity.HasPlayerID
		} else {
			delta.DeltaKind = protocol.DeltaPositionOnly
			delta.TilePos = entity.TilePos
		}

		for playerID := range w.interest.viewsContaining(entityID) {
			// spec.md §4.6: last_processed_input is only meaningful to the
			// entity's own owning player; every other viewer gets it zeroed
			// (this delta's None) rather than leaking another player's input
			// sequence number.
			d := delta
			if !(entity.HasPlayerID && entity.PlayerID == playerID) {
				d.LastProcessedInput = 0
			}
			clientDeltas[playerID] = append(clientDeltas[playerID], d)
		}

		last.tilePos = entity.TilePos
		last.everSent = true
		last.lastSentTick = w.tick
	}

	for playerID, deltas := range clientDeltas {
		if len(deltas) == 0 {
			continue
		}
		env := &protocol.Envelope{Kind: protocol.KindDeltaUpdate, Tick: w.tick, Deltas: deltas}
		w.send(playerID, env)
		if w.metrics != nil {
			w.metrics.DeltasSent.Add(float64(len(deltas)))
			if encoded, err := protocol.EncodeDatagram(env); err == nil {
				w.metrics.DeltaBytesSent.Add(float64(len(encoded)))
			}
		}
	}
}
