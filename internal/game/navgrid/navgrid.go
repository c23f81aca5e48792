// Package navgrid provides a uniform-cell navigation grid with an A* planner
// for bot pathing. Cell storage is a preallocated flat blocked-cell array
// addressed by row-major index, never resized after Build.
package navgrid

import (
	"container/heap"
	"math"

	"fight-club/internal/game/world"
)

const (
	cellSize           = 1.0
	defaultMaxNodes     = 1200
	nearestSearchRadius = 8
)

type cellCoord struct{ ix, iz int }

// Grid is a blocked/unblocked XZ grid built once from a map's colliders,
// padded by the entity radius that will walk it (typically player_radius).
type Grid struct {
	minX, minZ float64
	w, h       int
	blocked    []bool // row-major, len == w*h
}

// Build rasterizes bounds into 1-unit cells, marking a cell blocked if its
// center lies inside any collider expanded by pad on XZ.
func Build(bounds world.AABB, colliders []world.AABB, pad float64) *Grid {
	w := maxInt(1, int(math.Ceil((bounds.Max.X-bounds.Min.X)/cellSize)))
	h := maxInt(1, int(math.Ceil((bounds.Max.Z-bounds.Min.Z)/cellSize)))

	g := &Grid{
		minX:    bounds.Min.X,
		minZ:    bounds.Min.Z,
		w:       w,
		h:       h,
		blocked: make([]bool, w*h),
	}

	for ix := 0; ix < w; ix++ {
		for iz := 0; iz < h; iz++ {
			x, z := g.cellCenter(ix, iz)
			for _, c := range colliders {
				if x >= c.Min.X-pad && x <= c.Max.X+pad && z >= c.Min.Z-pad && z <= c.Max.Z+pad {
					g.blocked[g.index(ix, iz)] = true
					break
				}
			}
		}
	}
	return g
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (g *Grid) index(ix, iz int) int { return iz*g.w + ix }

func (g *Grid) cellCenter(ix, iz int) (float64, float64) {
	return g.minX + (float64(ix)+0.5)*cellSize, g.minZ + (float64(iz)+0.5)*cellSize
}

func (g *Grid) toCell(pos world.Vec3) cellCoord {
	ix := int((pos.X - g.minX) / cellSize)
	iz := int((pos.Z - g.minZ) / cellSize)
	ix = int(world.Clamp(float64(ix), 0, float64(g.w-1)))
	iz = int(world.Clamp(float64(iz), 0, float64(g.h-1)))
	return cellCoord{ix, iz}
}

func (g *Grid) isBlocked(c cellCoord) bool {
	if c.ix < 0 || c.ix >= g.w || c.iz < 0 || c.iz >= g.h {
		return true
	}
	return g.blocked[g.index(c.ix, c.iz)]
}

// nearestUnblocked finds the closest unblocked cell to start within
// nearestSearchRadius rings, or false if none exists.
func (g *Grid) nearestUnblocked(start cellCoord) (cellCoord, bool) {
	if !g.isBlocked(start) {
		return start, true
	}
	for r := 1; r <= nearestSearchRadius; r++ {
		for dx := -r; dx <= r; dx++ {
			for dz := -r; dz <= r; dz++ {
				if abs(dx) != r && abs(dz) != r {
					continue
				}
				c := cellCoord{start.ix + dx, start.iz + dz}
				if !g.isBlocked(c) {
					return c, true
				}
			}
		}
	}
	return cellCoord{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func manhattan(a, b cellCoord) float64 {
	return math.Abs(float64(a.ix-b.ix)) + math.Abs(float64(a.iz-b.iz))
}

var neighborDirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

type openNode struct {
	f    float64
	cell cellCoord
}

type openHeap []openNode

func (h openHeap) Len() int            { return len(h) }
func (h openHeap) Less(i, j int) bool   { return h[i].f < h[j].f }
func (h openHeap) Swap(i, j int)        { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x interface{})  { *h = append(*h, x.(openNode)) }
func (h *openHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Plan runs cell-index A* from "from" to "to", 8-connected with axial cost
// 1.0 / diagonal cost 1.4 and a Manhattan heuristic, bounded by maxNodes
// expansions. Start and goal snap to the nearest unblocked cell within
// nearestSearchRadius; returns nil if either has no reachable unblocked
// cell or the goal is never reached as a neighbour within the node budget.
func (g *Grid) Plan(from, to world.Vec3, maxNodes int) []world.Vec3 {
	if maxNodes <= 0 {
		maxNodes = defaultMaxNodes
	}
	start, ok := g.nearestUnblocked(g.toCell(from))
	if !ok {
		return nil
	}
	goal, ok := g.nearestUnblocked(g.toCell(to))
	if !ok {
		return nil
	}
	if start == goal {
		x, z := g.cellCenter(start.ix, start.iz)
		return []world.Vec3{{X: x, Z: z}}
	}

	open := &openHeap{{f: 0, cell: start}}
	heap.Init(open)
	came := map[cellCoord]cellCoord{}
	gScore := map[cellCoord]float64{start: 0}

	visited := 0
	reached := false
	for open.Len() > 0 && visited < maxNodes {
		visited++
		cur := heap.Pop(open).(openNode).cell
		if cur == goal {
			reached = true
			break
		}
		for _, d := range neighborDirs {
			nb := cellCoord{cur.ix + d[0], cur.iz + d[1]}
			if g.isBlocked(nb) {
				continue
			}
			step := 1.0
			if d[0] != 0 && d[1] != 0 {
				step = 1.4
			}
			ng := gScore[cur] + step
			if old, seen := gScore[nb]; !seen || ng < old {
				gScore[nb] = ng
				came[nb] = cur
				heap.Push(open, openNode{f: ng + manhattan(nb, goal), cell: nb})
			}
		}
	}

	if _, ok := came[goal]; !ok && !reached {
		return nil
	}

	path := []cellCoord{goal}
	cur := goal
	for cur != start {
		prev, ok := came[cur]
		if !ok {
			return nil
		}
		cur = prev
		path = append(path, cur)
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	out := make([]world.Vec3, len(path))
	for i, c := range path {
		x, z := g.cellCenter(c.ix, c.iz)
		out[i] = world.Vec3{X: x, Z: z}
	}
	return out
}

// NextDirection returns a unit XZ vector pointing toward the second cell of
// the planned path from "from" to "to" (or the straight-line direction if
// the path has fewer than two cells).
func (g *Grid) NextDirection(from, to world.Vec3) (dx, dz float64) {
	path := g.Plan(from, to, defaultMaxNodes)
	var tx, tz float64
	if len(path) < 2 {
		tx, tz = to.X, to.Z
	} else {
		tx, tz = path[1].X, path[1].Z
	}
	ddx := tx - from.X
	ddz := tz - from.Z
	l := math.Hypot(ddx, ddz)
	if l <= 1e-6 {
		return 0, 0
	}
	return ddx / l, ddz / l
}
