package server

import "github.com/marcson909/client-server-multiplayer-playground/internal/tile"

// InterestManager tracks, per player, the set of entity ids currently
// within VIEW_DISTANCE and diffs it tick to tick into enter/leave lists.
// Grounded on the reference's interest_manager.rs.
type InterestManager struct {
	views map[uint64]map[uint64]struct{}
}

func newInterestManager() *InterestManager {
	return &InterestManager{views: make(map[uint64]map[uint64]struct{})}
}

// UpdateView recomputes player's visible set from positions and returns the
// entity ids that entered and left view since the last call.
func (im *InterestManager) UpdateView(playerID uint64, center tile.Position, positions map[uint64]tile.Position, viewDistance int32) (entered, left []uint64) {
	previous := im.views[playerID]
	if previous == nil {
		previous = make(map[uint64]struct{})
	}

	nowVisible := make(map[uint64]struct{})
	for entityID, pos := range positions {
		if center.Distance(pos) <= viewDistance {
			nowVisible[entityID] = struct{}{}
		}
	}

	for id := range nowVisible {
		if _, wasVisible := previous[id]; !wasVisible {
			entered = append(entered, id)
		}
	}
	for id := range previous {
		if _, stillVisible := nowVisible[id]; !stillVisible {
			left = append(left, id)
		}
	}

	im.views[playerID] = nowVisible
	return entered, left
}

// View returns the current visible entity set for a player.
func (im *InterestManager) View(playerID uint64) map[uint64]struct{} {
	return im.views[playerID]
}

func (im *InterestManager) forget(playerID uint64) {
	delete(im.views, playerID)
}

// viewsContaining returns the set of player ids whose current view
// includes entityID, used to fan out one delta to every interested client.
func (im *InterestManager) viewsContaining(entityID uint64) map[uint64]struct{} {
	out := make(map[uint64]struct{})
	for playerID, view := range im.views {
		if _, ok := view[entityID]; ok {
			out[playerID] = struct{}{}
		}
	}
	return out
}
