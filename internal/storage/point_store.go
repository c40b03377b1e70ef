// ABOUTME: Interface definition for the explorer's point storage.
// ABOUTME: Defines the contract for reading points and replacing the query point.
package storage

import (
	"github.com/2389-research/vectorscope/internal/models"
)

// DefaultFalloffRadius is the world distance at which similarity reaches zero.
const DefaultFalloffRadius = 200.0

// SimilarOptions configures a top-N similarity listing.
type SimilarOptions struct {
	Limit         int
	MinSimilarity float64 // exclusive lower bound; 0 keeps every scored point above zero
}

// PointStore owns the canonical set of plotted points. The returned points
// are shared references owned by the store and must not be mutated.
type PointStore interface {
	// Points returns every point in insertion order, the query point last.
	Points() []*models.Point

	// Filter returns the points passing the given filter.
	Filter(f models.Filter) []*models.Point

	// SetQuery creates or replaces the query point and recomputes similarities.
	SetQuery(position models.Vec2, text string) *models.Point

	// ClearQuery removes the query point and invalidates all similarities.
	ClearQuery()

	// Query returns the active query point, or nil.
	Query() *models.Point

	// Lookup resolves a point id, including a chunk's GroupID.
	Lookup(id string) (*models.Point, bool)

	// Similar returns scored points by similarity descending.
	Similar(opts SimilarOptions) []*models.Point

	// Counts returns the number of points per kind.
	Counts() map[models.Kind]int
}
