// ABOUTME: In-memory point store with seeded cluster layout generation.
// ABOUTME: Holds aggregates and chunk points, the live query point, and similarity scores.
package storage

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/2389-research/vectorscope/internal/models"
)

// LayoutOptions controls how cluster specs are scattered into points.
type LayoutOptions struct {
	ChunksPerCluster int
	AggregateJitter  float64 // full width of the aggregate jitter box
	RingMin          float64 // chunk ring radius band, world units
	RingMax          float64
	ChunkJitter      float64 // full width of the per-chunk jitter box
	FalloffRadius    float64
	Rand             *rand.Rand // nil seeds from the runtime
}

// DefaultLayoutOptions mirrors the reference layout: 8 chunks per document
// on a 20–50 unit ring.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		ChunksPerCluster: 8,
		AggregateJitter:  60,
		RingMin:          20,
		RingMax:          50,
		ChunkJitter:      20,
		FalloffRadius:    DefaultFalloffRadius,
	}
}

// MemoryPointStore keeps all points in memory. It is not safe for
// concurrent use; hosts serialize access.
type MemoryPointStore struct {
	points  []*models.Point // aggregates and chunks, immutable after construction
	byID    map[string]*models.Point
	query   *models.Point
	falloff float64
}

// NewMemoryPointStore generates one aggregate per cluster spec and a ring of
// chunk points around each aggregate.
func NewMemoryPointStore(specs []models.ClusterSpec, opts LayoutOptions) *MemoryPointStore {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	falloff := opts.FalloffRadius
	if falloff <= 0 || math.IsNaN(falloff) {
		falloff = DefaultFalloffRadius
	}
	ringMax := opts.RingMax
	if ringMax < opts.RingMin {
		ringMax = opts.RingMin
	}

	s := &MemoryPointStore{
		byID:    make(map[string]*models.Point),
		falloff: falloff,
	}

	jitter := func(width float64) float64 {
		return (rng.Float64() - 0.5) * width
	}

	n := opts.ChunksPerCluster
	if n < 0 {
		n = 0
	}

	for i, spec := range specs {
		agg := &models.Point{
			ID: fmt.Sprintf("aggregate-%d", i),
			Position: models.Vec2{
				X: spec.Center.X + jitter(opts.AggregateJitter),
				Y: spec.Center.Y + jitter(opts.AggregateJitter),
			},
			Label: spec.Label,
			Kind:  models.KindAggregate,
		}
		s.add(agg)

		for j := 0; j < n; j++ {
			angle := float64(j) / float64(n) * 2 * math.Pi
			radius := opts.RingMin + rng.Float64()*(ringMax-opts.RingMin)
			kind := spec.ChunkKind
			if !kind.IsChunk() {
				kind = models.KindPrimary
				if j%2 == 1 {
					kind = models.KindDetail
				}
			}
			s.add(&models.Point{
				ID: fmt.Sprintf("%s-chunk-%d", agg.ID, j),
				Position: models.Vec2{
					X: agg.Position.X + math.Cos(angle)*radius + jitter(opts.ChunkJitter),
					Y: agg.Position.Y + math.Sin(angle)*radius + jitter(opts.ChunkJitter),
				},
				Label:       fmt.Sprintf("Chunk %d", j+1),
				Kind:        kind,
				GroupID:     agg.ID,
				PreviewText: fmt.Sprintf("Sample chunk text from %s...", spec.Label),
			})
		}
	}

	return s
}

// NewMemoryPointStoreFromPoints builds a store around an explicit point set,
// for hosts that bring their own projection. Query-kind points are dropped.
func NewMemoryPointStoreFromPoints(points []models.Point, falloff float64) (*MemoryPointStore, error) {
	if falloff <= 0 || math.IsNaN(falloff) {
		falloff = DefaultFalloffRadius
	}
	s := &MemoryPointStore{
		byID:    make(map[string]*models.Point),
		falloff: falloff,
	}
	for i := range points {
		p := points[i]
		if p.Kind == models.KindQuery {
			continue
		}
		if p.ID == "" {
			return nil, fmt.Errorf("point %d has no id", i)
		}
		if !models.IsValidKind(p.Kind) {
			return nil, fmt.Errorf("point %s has unknown kind %q", p.ID, p.Kind)
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate point id %s", p.ID)
		}
		p.Similarity, p.HasSimilarity = 0, false
		s.add(&p)
	}
	for _, p := range s.points {
		if p.GroupID == "" {
			continue
		}
		owner, ok := s.byID[p.GroupID]
		if !ok || owner.Kind != models.KindAggregate {
			return nil, fmt.Errorf("point %s references missing aggregate %s", p.ID, p.GroupID)
		}
	}
	return s, nil
}

func (s *MemoryPointStore) add(p *models.Point) {
	s.points = append(s.points, p)
	s.byID[p.ID] = p
}

// Points returns every point in insertion order, the query point last.
func (s *MemoryPointStore) Points() []*models.Point {
	if s.query == nil {
		return s.points
	}
	all := make([]*models.Point, 0, len(s.points)+1)
	all = append(all, s.points...)
	return append(all, s.query)
}

// Filter returns the points passing the given filter.
func (s *MemoryPointStore) Filter(f models.Filter) []*models.Point {
	if f == models.FilterAll || f == "" {
		return s.Points()
	}
	var out []*models.Point
	for _, p := range s.points {
		if f.Matches(p.Kind) {
			out = append(out, p)
		}
	}
	return out
}

// SetQuery creates or replaces the query point and recomputes similarities
// as a linear decay over the falloff radius.
func (s *MemoryPointStore) SetQuery(position models.Vec2, text string) *models.Point {
	s.query = models.NewQueryPoint(position, text)
	for _, p := range s.points {
		p.Similarity = math.Max(0, 1-p.Position.Dist(position)/s.falloff)
		p.HasSimilarity = true
	}
	return s.query
}

// ClearQuery removes the query point and invalidates all similarities.
func (s *MemoryPointStore) ClearQuery() {
	s.query = nil
	for _, p := range s.points {
		p.Similarity = 0
		p.HasSimilarity = false
	}
}

// Query returns the active query point, or nil.
func (s *MemoryPointStore) Query() *models.Point {
	return s.query
}

// Lookup resolves a point id.
func (s *MemoryPointStore) Lookup(id string) (*models.Point, bool) {
	if s.query != nil && s.query.ID == id {
		return s.query, true
	}
	p, ok := s.byID[id]
	return p, ok
}

// Similar returns scored points sorted by similarity descending, ties kept
// in insertion order.
func (s *MemoryPointStore) Similar(opts SimilarOptions) []*models.Point {
	if s.query == nil {
		return nil
	}
	var out []*models.Point
	for _, p := range s.points {
		if p.HasSimilarity && p.Similarity > opts.MinSimilarity {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = 5
	}
	if limit > len(out) {
		limit = len(out)
	}
	return out[:limit]
}

// Counts returns the number of points per kind.
func (s *MemoryPointStore) Counts() map[models.Kind]int {
	counts := make(map[models.Kind]int, len(models.Kinds))
	for _, p := range s.points {
		counts[p.Kind]++
	}
	if s.query != nil {
		counts[models.KindQuery]++
	}
	return counts
}

// Len returns the total number of points including the query point.
func (s *MemoryPointStore) Len() int {
	if s.query != nil {
		return len(s.points) + 1
	}
	return len(s.points)
}
