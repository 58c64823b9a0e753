package client

import (
	"log"
	"time"

	"github.com/marcson909/client-server-multiplayer-playground/internal/action"
	"github.com/marcson909/client-server-multiplayer-playground/internal/gamedata"
	"github.com/marcson909/client-server-multiplayer-playground/internal/protocol"
	"github.com/marcson909/client-server-multiplayer-playground/internal/tile"
	"github.com/marcson909/client-server-multiplayer-playground/internal/transport"
)

// State is the full client-side mirror of spec.md §3's ClientEntity model:
// the local player's predictor, one interpolation buffer per remote
// entity, and the shared obstacle set/pathfinder both prediction and
// mouse-driven chopping read from.
type State struct {
	sess transport.Session

	PlayerID uint64
	Predictor *Predictor

	Pathfinder *tile.Pathfinder
	Inventory  *gamedata.Inventory
	Skills     *gamedata.Skills

	remotes map[uint64]*InterpBuffer
	trees   map[uint64]bool

	// ConfirmedPath is the last path the server confirmed via PathFound,
	// used to render a move preview; cleared to nil on PathNotFound, per
	// spec.md §8's "Blocked path" scenario ("confirmed_path becomes null").
	ConfirmedPath []tile.Position

	joined chan struct{}
}

// Join sends the Join handshake, starts the background loop draining
// sess.Inbound(), and blocks until Welcome arrives. It takes no context and
// applies no timeout: if Welcome never arrives, Join does not return.
func Join(sess transport.Session, name string) (*State, error) {
	s := &State{
		sess:       sess,
		Pathfinder: tile.New(false),
		remotes:    make(map[uint64]*InterpBuffer),
		trees:      make(map[uint64]bool),
		joined:     make(chan struct{}),
	}

	if err := sess.SendReliable(&protocol.Envelope{Kind: protocol.KindJoin, Name: name}); err != nil {
		return nil, err
	}

	go s.run()
	<-s.joined
	return s, nil
}

func (s *State) run() {
	for env := range s.sess.Inbound() {
		s.apply(env)
	}
}

func (s *State) apply(env *protocol.Envelope) {
	switch env.Kind {
	case protocol.KindWelcome:
		s.PlayerID = env.PlayerID
		s.Predictor = NewPredictor(s.Pathfinder, env.SpawnPosition)
		close(s.joined)
	case protocol.KindObstacleData:
		s.Pathfinder.SetObstacles(env.Obstacles)
	case protocol.KindInventoryUpdate:
		s.Inventory = env.Inventory
	case protocol.KindSkillUpdate:
		if s.Skills == nil {
			s.Skills = gamedata.NewSkills()
		}
		s.Skills.SetLevelExperience(env.Skill, env.Level, env.Experience)
	case protocol.KindEntitiesEntered:
		for _, snap := range env.Entities {
			if snap.HasTree {
				s.trees[snap.EntityID] = true
				continue
			}
			if snap.HasPlayerID && snap.PlayerID == s.PlayerID {
				continue
			}
			s.remotes[snap.EntityID] = NewInterpBuffer()
		}
	case protocol.KindEntitiesLeft:
		for _, id := range env.EntityIDs {
			delete(s.remotes, id)
			delete(s.trees, id)
		}
	case protocol.KindDeltaUpdate:
		s.applyDeltaUpdate(env)
	case protocol.KindPathFound:
		s.ConfirmedPath = env.Path
	case protocol.KindPathNotFound:
		s.ConfirmedPath = nil
	default:
		log.Printf("client: unhandled message kind %v", env.Kind)
	}
}

func (s *State) applyDeltaUpdate(env *protocol.Envelope) {
	now := float64(time.Now().UnixNano()) / 1e9
	for _, delta := range env.Deltas {
		if s.Predictor != nil && delta.HasPlayerID && delta.PlayerID == s.PlayerID {
			s.Predictor.Reconcile(delta.TilePos, delta.LastProcessedInput)
			continue
		}
		if buf, ok := s.remotes[delta.EntityID]; ok {
			buf.Append(now, delta.TilePos)
		}
	}
}

// RenderPosition resolves entityID's display position at the current time,
// falling back to the last authoritative position when the interpolation
// buffer doesn't yet have two bracketing samples (spec.md §4.8).
func (s *State) RenderPosition(entityID uint64, serverPosition tile.Position) tile.Position {
	buf, ok := s.remotes[entityID]
	if !ok {
		return serverPosition
	}
	renderTime := float64(time.Now().UnixNano())/1e9 - InterpolationDelay
	if pos, ok := buf.Sample(renderTime); ok {
		return pos
	}
	return serverPosition
}

// Move sends a single-tile-step (or multi-tile) Move action, predicting
// immediately.
func (s *State) Move(path []tile.Position) {
	env := s.Predictor.QueueAction(action.GameAction{Kind: action.Move, Path: path})
	s.send(env)
}

// RequestPath asks the server to resolve a path preview between start and
// goal without queuing any action; the result lands in ConfirmedPath once
// PathFound/PathNotFound arrives.
func (s *State) RequestPath(start, goal tile.Position) {
	s.send(&protocol.Envelope{Kind: protocol.KindRequestPath, Start: start, Goal: goal})
}

func (s *State) send(env *protocol.Envelope) {
	if err := s.sess.SendReliable(env); err != nil {
		log.Printf("client: send failed: %v", err)
	}
}

// Chop issues the mouse-driven compound chop at treePos, per spec.md §4.7.
func (s *State) Chop(treeEntityID uint64, treePos tile.Position) {
	env, ok := s.Predictor.ChopAt(treeEntityID, treePos)
	if !ok {
		log.Printf("client: no reachable tile adjacent to tree %d", treeEntityID)
		return
	}
	s.send(env)
}
