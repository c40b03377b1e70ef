// ABOUTME: Uniform grid bucket index for pick-radius hit-testing.
// ABOUTME: Returns the same point as a linear scan of the filtered set, just faster.
package explorer

import (
	"math"

	"github.com/2389-research/vectorscope/internal/models"
)

type bucketKey struct {
	x, y int64
}

// gridIndex buckets points by quantized world position. Buckets are twice the
// pick radius wide, so any hit lies in the 3x3 block around the probe.
type gridIndex struct {
	points []*models.Point
	size   float64
	cells  map[bucketKey][]int
}

func newGridIndex(points []*models.Point, radius float64) *gridIndex {
	g := &gridIndex{
		points: points,
		size:   2 * radius,
		cells:  make(map[bucketKey][]int),
	}
	if !(g.size > 0) || math.IsInf(g.size, 0) {
		g.size = 1
	}
	for i, p := range points {
		if p == nil || !p.Position.IsFinite() {
			continue
		}
		k := g.key(p.Position)
		g.cells[k] = append(g.cells[k], i)
	}
	return g
}

func (g *gridIndex) key(p models.Vec2) bucketKey {
	return bucketKey{
		x: int64(math.Floor(p.X / g.size)),
		y: int64(math.Floor(p.Y / g.size)),
	}
}

// nearest returns the lowest-indexed point within radius of at, matching the
// "first point in scan order" rule of the linear scan.
func (g *gridIndex) nearest(at models.Vec2, radius float64) *models.Point {
	if !at.IsFinite() {
		return nil
	}
	center := g.key(at)
	best := -1
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, i := range g.cells[bucketKey{center.x + dx, center.y + dy}] {
				if best >= 0 && i >= best {
					continue
				}
				if g.points[i].Position.Dist(at) <= radius {
					best = i
				}
			}
		}
	}
	if best < 0 {
		return nil
	}
	return g.points[best]
}

// scanNearest is the linear fallback used below the index threshold.
func scanNearest(points []*models.Point, at models.Vec2, radius float64) *models.Point {
	if !at.IsFinite() {
		return nil
	}
	for _, p := range points {
		if p != nil && p.Position.Dist(at) <= radius {
			return p
		}
	}
	return nil
}
