// ABOUTME: Core data models for plotted points, cluster specs, and filters.
// ABOUTME: Provides constructor functions and type definitions shared by the explorer.
package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// Vec2 is a coordinate pair in world or screen space.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// IsFinite reports whether both components are finite numbers.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", v.X, v.Y)
}

// Kind is the category of a plotted point.
type Kind string

const (
	KindPrimary   Kind = "primary-unit" // coarse sub-document chunk
	KindDetail    Kind = "detail-unit"  // fine sub-document chunk
	KindAggregate Kind = "aggregate"    // whole-document summary point
	KindQuery     Kind = "query"        // the live query vector
)

// Kinds lists the point kinds in legend order.
var Kinds = []Kind{KindPrimary, KindDetail, KindAggregate, KindQuery}

// IsValidKind returns true if the given kind name is known.
func IsValidKind(k Kind) bool {
	for _, known := range Kinds {
		if known == k {
			return true
		}
	}
	return false
}

// IsChunk returns true for the two sub-document chunk kinds.
func (k Kind) IsChunk() bool {
	return k == KindPrimary || k == KindDetail
}

// Title returns the legend heading for a kind.
func (k Kind) Title() string {
	switch k {
	case KindPrimary:
		return "Primary Chunks"
	case KindDetail:
		return "Detail Chunks"
	case KindAggregate:
		return "Document Aggregates"
	case KindQuery:
		return "Query Vector"
	}
	return string(k)
}

// Filter selects which points are drawn and hit-tested.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPrimary   Filter = Filter(KindPrimary)
	FilterDetail    Filter = Filter(KindDetail)
	FilterAggregate Filter = Filter(KindAggregate)
)

// Filters lists the filter options in button order.
var Filters = []Filter{FilterAll, FilterPrimary, FilterDetail, FilterAggregate}

// ParseFilter converts a user-supplied filter name, accepting a few aliases.
func ParseFilter(name string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "all":
		return FilterAll, nil
	case "primary-unit", "primary", "gist":
		return FilterPrimary, nil
	case "detail-unit", "detail", "pinpoint":
		return FilterDetail, nil
	case "aggregate", "aggregates", "centroid", "centroids":
		return FilterAggregate, nil
	}
	return "", fmt.Errorf("unknown filter %q (want all, primary-unit, detail-unit, or aggregate)", name)
}

// Matches returns true if a point of kind k passes the filter.
func (f Filter) Matches(k Kind) bool {
	if f == FilterAll || f == "" {
		return true
	}
	return Kind(f) == k
}

// Point is a plotted entity in world space.
type Point struct {
	ID          string
	Position    Vec2
	Label       string
	Kind        Kind
	GroupID     string // id of the owning aggregate point, chunks only
	PreviewText string

	// Similarity is only meaningful while HasSimilarity is set.
	Similarity    float64
	HasSimilarity bool
}

// NewQueryPoint creates the query point with a fresh id for each submission.
func NewQueryPoint(position Vec2, text string) *Point {
	return &Point{
		ID:       "query-" + uuid.New().String()[:8],
		Position: position,
		Label:    text,
		Kind:     KindQuery,
	}
}

// ClusterSpec describes one document cluster for layout generation.
type ClusterSpec struct {
	Label     string   // aggregate label, typically a file name
	Center    Vec2     // approximate cluster center in world space
	Theme     string   // keyword family name; defaults to Label
	Keywords  []string // tokens that project a query onto this cluster
	ChunkKind Kind     // primary-unit or detail-unit; empty alternates
}

// ThemeName returns the keyword family this cluster belongs to.
func (c ClusterSpec) ThemeName() string {
	if c.Theme != "" {
		return c.Theme
	}
	return c.Label
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
