// Package collision resolves circular movers against static box obstacles
// and the rectangular world bounds.
package collision

import (
	"math"

	"github.com/vovakirdan/tui-avalanche/internal/core"
)

// Epsilon is the extra clearance added to every push-out.
const Epsilon = 0.01

// maxPasses bounds the correction iterations per query.
const maxPasses = 3

// ObstacleKind tags an obstacle for renderers. It has no effect on collision.
type ObstacleKind int

const (
	Tree ObstacleKind = iota
	Rock
)

// String returns the config name of the kind.
func (k ObstacleKind) String() string {
	switch k {
	case Tree:
		return "tree"
	case Rock:
		return "rock"
	default:
		return "unknown"
	}
}

// Obstacle is an immutable axis-aligned box.
type Obstacle struct {
	Center core.Vec2
	Half   core.Vec2 // Half-extent along X and Z
	Kind   ObstacleKind
}

// NewObstacle builds an obstacle from a center point and full size.
func NewObstacle(kind ObstacleKind, x, z, w, h float64) Obstacle {
	return Obstacle{
		Center: core.V(x, z),
		Half:   core.V(math.Abs(w)/2, math.Abs(h)/2),
		Kind:   kind,
	}
}

// Bounds returns the obstacle as a rectangle.
func (o Obstacle) Bounds() core.WorldRect {
	return core.WorldRect{
		X: o.Center.X - o.Half.X,
		Z: o.Center.Z - o.Half.Z,
		W: o.Half.X * 2,
		H: o.Half.Z * 2,
	}
}

// box is an obstacle expanded to min/max form for the hot loop.
type box struct {
	minX, maxX float64
	minZ, maxZ float64
}

// Result is the outcome of one ResolveMotion query.
type Result struct {
	X, Z   float64
	Hit    bool
	Normal core.Vec2 // Aggregate push-out direction; unit length when Hit
}

// Pos returns the resolved position.
func (r Result) Pos() core.Vec2 {
	return core.V(r.X, r.Z)
}

// World holds the static obstacle set and world bounds for one mission.
type World struct {
	bounds    core.WorldRect
	obstacles []Obstacle
	boxes     []box
}

// NewWorld builds a collision world. The obstacle slice is copied.
func NewWorld(bounds core.WorldRect, obstacles []Obstacle) *World {
	w := &World{
		bounds:    bounds,
		obstacles: make([]Obstacle, len(obstacles)),
		boxes:     make([]box, len(obstacles)),
	}
	copy(w.obstacles, obstacles)
	for i, o := range obstacles {
		w.boxes[i] = box{
			minX: o.Center.X - o.Half.X,
			maxX: o.Center.X + o.Half.X,
			minZ: o.Center.Z - o.Half.Z,
			maxZ: o.Center.Z + o.Half.Z,
		}
	}
	return w
}

// Bounds returns the world rectangle.
func (w *World) Bounds() core.WorldRect {
	return w.bounds
}

// Obstacles returns a copy of the obstacle list.
func (w *World) Obstacles() []Obstacle {
	cp := make([]Obstacle, len(w.obstacles))
	copy(cp, w.obstacles)
	return cp
}

// Contains reports whether (x, z) is inside the world bounds.
func (w *World) Contains(x, z float64) bool {
	return w.bounds.Contains(x, z)
}

// ResolveMotion moves a circle of the given radius from (x, z) by (dx, dz)
// and pushes it out of the bounds edges and any overlapping obstacle.
func (w *World) ResolveMotion(x, z, dx, dz, radius float64) Result {
	px, pz := w.clamp(x+dx, z+dz, radius)

	var normal, last core.Vec2
	hit := false
	r2 := radius * radius

	for pass := 0; pass < maxPasses; pass++ {
		adjusted := false
		for _, b := range w.boxes {
			cx := core.ClampF(px, b.minX, b.maxX)
			cz := core.ClampF(pz, b.minZ, b.maxZ)
			ox, oz := px-cx, pz-cz
			distSq := ox*ox + oz*oz
			if distSq >= r2 {
				continue
			}

			hit = true
			var n core.Vec2
			var push float64
			if distSq > Epsilon*Epsilon {
				dist := math.Sqrt(distSq)
				n = core.V(ox/dist, oz/dist)
				push = radius - dist + Epsilon
			} else {
				var depth float64
				n, depth = b.nearestFace(px, pz)
				push = depth + radius + Epsilon
			}

			px += n.X * push
			pz += n.Z * push
			normal = normal.Add(n)
			last = n
			adjusted = true
		}

		px, pz = w.clamp(px, pz, radius)
		if !adjusted {
			break
		}
	}

	if hit {
		// Opposite push-outs cancel in a gap narrower than the mover.
		if normal.Len() > 0.0001 {
			normal = normal.Normalize()
		} else {
			normal = last
		}
	}
	return Result{X: px, Z: pz, Hit: hit, Normal: normal}
}

// nearestFace picks the face closest to a point on or inside the box and
// returns its outward normal and the point's distance to it.
// Ties prefer left, right, top, bottom in that order.
func (b box) nearestFace(x, z float64) (core.Vec2, float64) {
	left := math.Abs(x - b.minX)
	right := math.Abs(b.maxX - x)
	top := math.Abs(z - b.minZ)
	bottom := math.Abs(b.maxZ - z)

	m := math.Min(math.Min(left, right), math.Min(top, bottom))
	switch m {
	case left:
		return core.V(-1, 0), left
	case right:
		return core.V(1, 0), right
	case top:
		return core.V(0, -1), top
	default:
		return core.V(0, 1), bottom
	}
}

func (w *World) clamp(x, z, radius float64) (float64, float64) {
	return clampAxis(x, w.bounds.X+radius, w.bounds.Right()-radius),
		clampAxis(z, w.bounds.Z+radius, w.bounds.Bottom()-radius)
}

// clampAxis clamps v into [lo, hi]; a range narrower than the mover
// collapses to its midpoint.
func clampAxis(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return core.ClampF(v, lo, hi)
}
