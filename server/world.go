// Package server implements the authoritative simulation: a plain-ownership
// ServerWorld replacing the reference's entity-component resource model
// (spec.md §9, "Removing the entity-component host"), driven by a fixed
// tick loop in run.go.
package server

import (
	"fmt"
	"log"
	"sync"

	"github.com/marcson909/client-server-multiplayer-playground/internal/action"
	"github.com/marcson909/client-server-multiplayer-playground/internal/config"
	"github.com/marcson909/client-server-multiplayer-playground/internal/gamedata"
	"github.com/marcson909/client-server-multiplayer-playground/internal/metrics"
	"github.com/marcson909/client-server-multiplayer-playground/internal/protocol"
	"github.com/marcson909/client-server-multiplayer-playground/internal/tile"
	"github.com/marcson909/client-server-multiplayer-playground/internal/transport"
)

// Entity is one simulated thing: a player avatar or a tree. Exactly one of
// the optional fields (Inventory/Skills or Tree) is populated, mirroring
// the reference ServerEntity's Option<T> fields.
type Entity struct {
	TilePos     tile.Position
	PlayerID    uint64
	HasPlayerID bool
	Queue       *action.Queue

	Inventory *gamedata.Inventory
	Skills    *gamedata.Skills
	Tree      *gamedata.Tree

	LastProcessedInput uint32
}

// Player is a connected client's identity and transport session.
type Player struct {
	EntityID uint64
	Name     string
	Session  transport.Session
}

type lastSentState struct {
	tilePos      tile.Position
	lastSentTick uint64
	everSent     bool
}

// World is the single owner of all authoritative simulation state: plain
// maps updated by methods invoked in a fixed order from the tick loop,
// instead of the reference's per-frame ECS queries.
type World struct {
	mu sync.Mutex

	cfg     config.Config
	metrics *metrics.Server

	entities     map[uint64]*Entity
	players      map[uint64]*Player
	nextEntityID uint64
	nextPlayerID uint64

	tick       uint64
	lastStates map[uint64]*lastSentState
	pathfinder *tile.Pathfinder
	interest   *InterestManager
}

// New builds a world with the boundary walls and the fixed tree layout
// spawned, matching the reference's spawn_trees and Default::default.
func New(cfg config.Config, m *metrics.Server) *World {
	w := &World{
		cfg:        cfg,
		metrics:    m,
		entities:   make(map[uint64]*Entity),
		players:    make(map[uint64]*Player),
		lastStates: make(map[uint64]*lastSentState),
		pathfinder: tile.New(false),
		interest:   newInterestManager(),

		nextEntityID: 1,
		nextPlayerID: 1,
	}
	w.buildBoundaryWalls()
	w.spawnTrees()
	return w
}

func (w *World) buildBoundaryWalls() {
	r := w.cfg.BoundaryRadius
	for x := -r; x <= r; x++ {
		w.pathfinder.AddObstacle(tile.Position{X: x, Y: r})
		w.pathfinder.AddObstacle(tile.Position{X: x, Y: -r})
	}
	for y := -r; y <= r; y++ {
		w.pathfinder.AddObstacle(tile.Position{X: r, Y: y})
		w.pathfinder.AddObstacle(tile.Position{X: -r, Y: y})
	}
}

var treeLayout = []struct {
	Pos  tile.Position
	Type gamedata.TreeType
}{
	{tile.Position{X: -3, Y: -3}, gamedata.Normal},
	{tile.Position{X: -2, Y: -3}, gamedata.Normal},
	{tile.Position{X: 3, Y: 3}, gamedata.Oak},
	{tile.Position{X: 2, Y: 3}, gamedata.Oak},
	{tile.Position{X: -3, Y: 3}, gamedata.Willow},
	{tile.Position{X: 0, Y: -4}, gamedata.Normal},
	{tile.Position{X: 1, Y: -4}, gamedata.Oak},
}

func (w *World) spawnTrees() {
	for _, t := range treeLayout {
		id := w.nextEntityID
		w.nextEntityID++
		w.entities[id] = &Entity{
			TilePos: t.Pos,
			Queue:   action.New(),
			Tree:    gamedata.NewTree(t.Type),
		}
		w.pathfinder.AddObstacle(t.Pos)
	}
}

// Join creates a new player entity at the spawn tile, grants the starting
// bronze axe, and sends the Welcome/InventoryUpdate/SkillUpdate/
// ObstacleData/EntitiesEntered handshake sequence spec.md §8's Join
// scenario describes.
func (w *World) Join(name string, sess transport.Session) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	playerID := w.nextPlayerID
	w.nextPlayerID++

	entityID := w.nextEntityID
	w.nextEntityID++

	inv := gamedata.NewInventory(w.cfg.InventorySlots)
	inv.AddItem(gamedata.BronzeAxe, 1)
	skills := gamedata.NewSkills()

	spawn := tile.Position{}
	w.entities[entityID] = &Entity{
		TilePos:     spawn,
		PlayerID:    playerID,
		HasPlayerID: true,
		Queue:       action.New(),
		Inventory:   inv,
		Skills:      skills,
	}
	w.players[playerID] = &Player{EntityID: entityID, Name: name, Session: sess}

	log.Printf("server: player %d %q joined as entity %d at %v", playerID, name, entityID, spawn)

	w.send(playerID, &protocol.Envelope{Kind: protocol.KindWelcome, PlayerID: playerID, SpawnPosition: spawn})
	w.send(playerID, &protocol.Envelope{Kind: protocol.KindInventoryUpdate, Inventory: inv.Clone()})
	for skillType, data := range skills.All() {
		w.send(playerID, &protocol.Envelope{
			Kind: protocol.KindSkillUpdate, Skill: skillType,
			Level: data.Level, Experience: data.Experience,
		})
	}
	w.send(playerID, &protocol.Envelope{Kind: protocol.KindObstacleData, Obstacles: w.pathfinder.Obstacles()})

	w.updateInterestForPlayerLocked(playerID)

	if w.metrics != nil {
		w.metrics.ConnectedPlayers.Inc()
	}
	return playerID
}

// Disconnect despawns a player's entity and broadcasts its departure, per
// spec.md §7's transport-disconnect handling.
func (w *World) Disconnect(playerID uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	player, ok := w.players[playerID]
	if !ok {
		return
	}
	delete(w.players, playerID)
	delete(w.entities, player.EntityID)
	delete(w.lastStates, player.EntityID)
	w.interest.forget(playerID)

	log.Printf("server: player %d %q disconnected", playerID, player.Name)

	w.broadcast(&protocol.Envelope{Kind: protocol.KindEntitiesLeft, EntityIDs: []uint64{player.EntityID}})
	if w.metrics != nil {
		w.metrics.ConnectedPlayers.Dec()
	}
}

// ReapDisconnected removes any player whose session has closed. Called
// once per tick from the run loop, matching the reference's
// handle_disconnections set-comparison against the transport's connected
// clients.
func (w *World) ReapDisconnected() {
	w.mu.Lock()
	var stale []uint64
	for playerID, p := range w.players {
		select {
		case <-p.Session.Closed():
			stale = append(stale, playerID)
		default:
		}
	}
	w.mu.Unlock()

	for _, playerID := range stale {
		w.Disconnect(playerID)
	}
}

func (w *World) send(playerID uint64, env *protocol.Envelope) {
	player, ok := w.players[playerID]
	if !ok {
		return
	}
	var err error
	if protocol.ChannelFor(env.Kind) == protocol.Unreliable {
		err = player.Session.SendUnreliable(env)
	} else {
		err = player.Session.SendReliable(env)
	}
	if err != nil {
		log.Printf("server: send to player %d failed: %v", playerID, err)
	}
}

func (w *World) broadcast(env *protocol.Envelope) {
	for playerID := range w.players {
		w.send(playerID, env)
	}
}

// ForEachEntity calls fn once per entity under the world lock, for test
// introspection (e.g. locating a tree of a given type by its spawn
// position). fn must not call back into World.
func (w *World) ForEachEntity(fn func(id uint64, pos tile.Position, tree *gamedata.Tree)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, e := range w.entities {
		fn(id, e.TilePos, e.Tree)
	}
}

// PlayerSnapshot returns a connected player's current position, inventory
// and skills, for test introspection (e.g. a scenario harness checking
// final state). ok is false if playerID isn't connected.
func (w *World) PlayerSnapshot(playerID uint64) (pos tile.Position, inv *gamedata.Inventory, skills *gamedata.Skills, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	entity, _, err := w.playerEntity(playerID)
	if err != nil {
		return tile.Position{}, nil, nil, false
	}
	return entity.TilePos, entity.Inventory, entity.Skills, true
}

func (w *World) playerEntity(playerID uint64) (*Entity, uint64, error) {
	player, ok := w.players[playerID]
	if !ok {
		return nil, 0, fmt.Errorf("server: unknown player %d", playerID)
	}
	entity, ok := w.entities[player.EntityID]
	if !ok {
		return nil, 0, fmt.Errorf("server: player %d has no entity", playerID)
	}
	return entity, player.EntityID, nil
}
