package tile

import (
	"container/heap"
	"sort"

	"github.com/brentp/intintmap"
	"github.com/cespare/xxhash/v2"
)

// Pathfinder holds the obstacle set and diagonal-movement mode both server
// and client use as the single source of truth for traversability. It is
// safe to share the same obstacle set between the server's authoritative
// path validation and a client's local preview only if both were built from
// the same ObstacleData broadcast (see server.World.Join, which sends it).
type Pathfinder struct {
	obstacles     map[Position]struct{}
	AllowDiagonal bool
}

// New creates an empty pathfinder with no obstacles.
func New(allowDiagonal bool) *Pathfinder {
	return &Pathfinder{
		obstacles:     make(map[Position]struct{}),
		AllowDiagonal: allowDiagonal,
	}
}

// AddObstacle marks a tile as impassable.
func (p *Pathfinder) AddObstacle(pos Position) {
	p.obstacles[pos] = struct{}{}
}

// RemoveObstacle clears a tile's impassable marking.
func (p *Pathfinder) RemoveObstacle(pos Position) {
	delete(p.obstacles, pos)
}

// IsWalkable reports whether a tile is not an obstacle.
func (p *Pathfinder) IsWalkable(pos Position) bool {
	_, blocked := p.obstacles[pos]
	return !blocked
}

// Obstacles returns the obstacle set as a slice, sorted for determinism —
// used when broadcasting ObstacleData so every client receives the same
// ordering.
func (p *Pathfinder) Obstacles() []Position {
	out := make([]Position, 0, len(p.obstacles))
	for pos := range p.obstacles {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

// SetObstacles replaces the obstacle set wholesale — used by the client
// when applying an ObstacleData message from the server.
func (p *Pathfinder) SetObstacles(positions []Position) {
	p.obstacles = make(map[Position]struct{}, len(positions))
	for _, pos := range positions {
		p.obstacles[pos] = struct{}{}
	}
}

// Fingerprint returns a deterministic hash of the current obstacle set,
// used by tests to assert that the server and a client agree on
// traversability after an ObstacleData round trip.
func (p *Pathfinder) Fingerprint() uint64 {
	h := xxhash.New()
	for _, pos := range p.Obstacles() {
		b := pos.bytes()
		h.Write(b[:])
	}
	return h.Sum64()
}

const (
	straightCost = 10
	diagonalCost = 14
)

// pathNode is a single A* open-set entry.
type pathNode struct {
	pos          Position
	gCost, hCost int32
	fCost        int32
	index        int
}

type nodeHeap []*pathNode

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].fCost != h[j].fCost {
		return h[i].fCost < h[j].fCost
	}
	// Tie-break: lower h_cost wins — prefers nodes closer to the goal.
	return h[i].hCost < h[j].hCost
}

func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := len(*h)
	node := x.(*pathNode)
	node.index = n
	*h = append(*h, node)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[:n-1]
	return node
}

func heuristic(a, b Position) int32 {
	return a.Distance(b) * straightCost
}

// FindPath runs A* from start to goal (both inclusive on success) and
// returns (path, true), or (nil, false) if goal is unreachable.
//
// If start == goal, returns ([goal], true). If goal is an obstacle, returns
// (nil, false) without searching.
func (p *Pathfinder) FindPath(start, goal Position) ([]Position, bool) {
	if start == goal {
		return []Position{goal}, true
	}
	if !p.IsWalkable(goal) {
		return nil, false
	}

	openSet := &nodeHeap{}
	heap.Init(openSet)

	// gScore is keyed by the packed int64 tile coordinate; intintmap gives
	// an open-addressed int64->int64 table tuned for exactly this shape of
	// key, cheaper than Go's generic map[int64]int32 for the hot A* loop.
	gScore := intintmap.New(64, 0.75)
	cameFrom := make(map[Position]Position)
	inOpen := make(map[Position]*pathNode)

	gScore.Put(start.packed(), 0)
	startNode := &pathNode{pos: start, gCost: 0, hCost: heuristic(start, goal)}
	startNode.fCost = startNode.gCost + startNode.hCost
	heap.Push(openSet, startNode)
	inOpen[start] = startNode

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*pathNode)
		delete(inOpen, current.pos)

		if current.pos == goal {
			return reconstructPath(cameFrom, current.pos), true
		}

		neighbors := current.pos.Neighbors()
		if p.AllowDiagonal {
			neighbors = current.pos.NeighborsDiagonal()
		}

		for _, next := range neighbors {
			if !p.IsWalkable(next) {
				continue
			}

			isDiagonal := absI32(current.pos.X-next.X)+absI32(current.pos.Y-next.Y) == 2
			step := int32(straightCost)
			if isDiagonal {
				step = diagonalCost
			}

			tentativeG := current.gCost + step
			existingG, ok := gScore.Get(next.packed())
			if ok && int32(existingG) <= tentativeG {
				continue
			}

			gScore.Put(next.packed(), int64(tentativeG))
			cameFrom[next] = current.pos

			if node, open := inOpen[next]; open {
				node.gCost = tentativeG
				node.fCost = tentativeG + node.hCost
				heap.Fix(openSet, node.index)
			} else {
				h := heuristic(next, goal)
				node := &pathNode{pos: next, gCost: tentativeG, hCost: h, fCost: tentativeG + h}
				heap.Push(openSet, node)
				inOpen[next] = node
			}
		}
	}

	return nil, false
}

func reconstructPath(cameFrom map[Position]Position, goal Position) []Position {
	path := []Position{goal}
	current := goal
	for {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
