package server

import (
	"log"

	"github.com/marcson909/client-server-multiplayer-playground/internal/gamedata"
	"github.com/marcson909/client-server-multiplayer-playground/internal/protocol"
)

// validateWoodcutting checks the three preconditions spec.md §4.4 names:
// the tree exists and isn't already chopped, the player's Woodcutting
// level meets the tree's requirement, and the player carries any axe. On
// failure it sends the matching typed error and returns false.
func (w *World) validateWoodcutting(playerID uint64, player *Entity, treeEntityID uint64) bool {
	treeEntity, ok := w.entities[treeEntityID]
	if !ok || treeEntity.Tree == nil {
		log.Printf("server: player %d targeted a nonexistent tree %d", playerID, treeEntityID)
		return false
	}
	if treeEntity.Tree.IsChopped {
		log.Printf("server: player %d targeted an already-chopped tree %d", playerID, treeEntityID)
		return false
	}

	def := gamedata.TreeDefinitionOf(treeEntity.Tree.Type)

	if player.Skills != nil {
		level := player.Skills.Level(gamedata.Woodcutting)
		if level < def.LevelRequired {
			w.send(playerID, &protocol.Envelope{
				Kind: protocol.KindNotEnoughLevel, Skill: gamedata.Woodcutting,
				Required: def.LevelRequired, Current: level,
			})
			return false
		}
	}

	if player.Inventory != nil {
		if _, ok := player.Inventory.HasAnyAxe(); !ok {
			w.send(playerID, &protocol.Envelope{Kind: protocol.KindNoAxeEquipped})
			return false
		}
	}

	return true
}

// resolveWoodcutting runs on the tick a ChopTree action's completion_time
// is reached: it marks the tree chopped, grants logs (skipping the grant
// on a full inventory per spec.md §7, but always granting XP per the
// resolved Open Question §9.2), and broadcasts TreeChopped.
func (w *World) resolveWoodcutting(playerEntityID, treeEntityID uint64) {
	treeEntity, ok := w.entities[treeEntityID]
	if !ok || treeEntity.Tree == nil {
		return
	}
	def := gamedata.TreeDefinitionOf(treeEntity.Tree.Type)
	treeEntity.Tree.Chop()

	playerEntity, ok := w.entities[playerEntityID]
	if !ok {
		return
	}
	playerEntity.Queue.Current = nil

	if !playerEntity.HasPlayerID {
		return
	}
	playerID := playerEntity.PlayerID

	if playerEntity.Inventory != nil {
		if playerEntity.Inventory.AddItem(def.LogsGiven, 1) {
			w.send(playerID, &protocol.Envelope{Kind: protocol.KindItemAdded, ItemType: def.LogsGiven, Quantity: 1})
			w.send(playerID, &protocol.Envelope{Kind: protocol.KindInventoryUpdate, Inventory: playerEntity.Inventory.Clone()})
		} else {
			log.Printf("server: player %d inventory full, dropped %v grant", playerID, def.LogsGiven)
		}
	}

	if playerEntity.Skills != nil {
		leveledUp := playerEntity.Skills.AddExperience(gamedata.Woodcutting, def.Experience)
		w.send(playerID, &protocol.Envelope{Kind: protocol.KindExperienceGained, Skill: gamedata.Woodcutting, Amount: def.Experience})

		data := playerEntity.Skills.Get(gamedata.Woodcutting)
		w.send(playerID, &protocol.Envelope{Kind: protocol.KindSkillUpdate, Skill: gamedata.Woodcutting, Level: data.Level, Experience: data.Experience})

		if leveledUp {
			w.send(playerID, &protocol.Envelope{Kind: protocol.KindLevelUp, Skill: gamedata.Woodcutting, Level: data.Level})
		}
	}

	w.broadcast(&protocol.Envelope{Kind: protocol.KindTreeChopped, EntityID: treeEntityID})
	w.send(playerID, &protocol.Envelope{Kind: protocol.KindActionCompleted, EntityID: playerEntityID})
}
