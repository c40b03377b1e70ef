// ABOUTME: Interaction controller for the embedding-space explorer.
// ABOUTME: Owns view, filter, hover and animation state; translates input into store updates.
package explorer

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/2389-research/vectorscope/internal/embeddings"
	"github.com/2389-research/vectorscope/internal/logger"
	"github.com/2389-research/vectorscope/internal/models"
	"github.com/2389-research/vectorscope/internal/render"
	"github.com/2389-research/vectorscope/internal/storage"
	"github.com/2389-research/vectorscope/internal/view"
)

// Defaults for Options fields left at zero.
const (
	DefaultPickRadius        = 10.0
	DefaultAnimationDuration = 2 * time.Second
	DefaultIndexThreshold    = 1000
	DefaultSimilarLimit      = 5
)

// Options configures a Controller.
type Options struct {
	PickRadius        float64 // world units
	AnimationDuration time.Duration
	IndexThreshold    int // filtered set size at which hit-testing switches to the grid index
	Bounds            view.Bounds
	Clock             func() time.Time
	Logger            *logger.Logger
}

func (o Options) withDefaults() Options {
	if !(o.PickRadius > 0) || math.IsInf(o.PickRadius, 0) {
		o.PickRadius = DefaultPickRadius
	}
	if o.AnimationDuration <= 0 {
		o.AnimationDuration = DefaultAnimationDuration
	}
	if o.IndexThreshold <= 0 {
		o.IndexThreshold = DefaultIndexThreshold
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	return o
}

// Controller is the single owner of transient explorer state. It is not safe
// for concurrent use; hosts serialize calls.
type Controller struct {
	store     storage.PointStore
	projector embeddings.Projector
	view      *view.Transform
	opts      Options

	filter         models.Filter
	showGrid       bool
	hovered        *models.Point
	animatingUntil time.Time
	queryText      string

	index      *gridIndex
	indexStale bool
}

// New creates a controller over an existing store and projector.
func New(store storage.PointStore, projector embeddings.Projector, opts Options) (*Controller, error) {
	if store == nil {
		return nil, fmt.Errorf("point store is required")
	}
	if projector == nil {
		return nil, fmt.Errorf("projector is required")
	}
	opts = opts.withDefaults()
	return &Controller{
		store:      store,
		projector:  projector,
		view:       view.New(opts.Bounds),
		opts:       opts,
		filter:     models.FilterAll,
		showGrid:   true,
		indexStale: true,
	}, nil
}

// NewFromClusters lays out chunksPerCluster chunks around each cluster and
// projects queries with the keyword heuristic.
func NewFromClusters(specs []models.ClusterSpec, chunksPerCluster int, rng *rand.Rand, opts Options) *Controller {
	layout := storage.DefaultLayoutOptions()
	if chunksPerCluster > 0 {
		layout.ChunksPerCluster = chunksPerCluster
	}
	layout.Rand = rng
	store := storage.NewMemoryPointStore(specs, layout)
	projector := embeddings.NewKeywordProjector(embeddings.FamiliesFromClusters(specs), embeddings.ProjectorOptions{
		Jitter: 50,
		Rand:   rng,
	})
	c, _ := New(store, projector, opts)
	return c
}

// Reload swaps in a new store and projector, keeping the view and filter.
// Hover and animation state refer to the old points, so they are dropped.
func (c *Controller) Reload(store storage.PointStore, projector embeddings.Projector) error {
	if store == nil || projector == nil {
		return fmt.Errorf("store and projector are required")
	}
	c.store = store
	c.projector = projector
	c.hovered = nil
	c.animatingUntil = time.Time{}
	c.queryText = ""
	c.indexStale = true
	return nil
}

// PointerMove hit-tests a screen position against the filtered set and
// updates the hovered point. It returns the new hovered point or nil.
func (c *Controller) PointerMove(screen models.Vec2) *models.Point {
	if !c.view.Valid() || !screen.IsFinite() {
		c.hovered = nil
		return nil
	}
	c.hovered = c.FindNearest(c.view.ScreenToWorld(screen), c.filter)
	return c.hovered
}

// PointerMoveCell hovers the first filtered point whose screen position lies
// in the half-open rectangle [lo, hi), such as one terminal cell. When the
// rectangle holds no point it falls back to PointerMove at its center.
func (c *Controller) PointerMoveCell(lo, hi models.Vec2) *models.Point {
	if !c.view.Valid() || !lo.IsFinite() || !hi.IsFinite() {
		c.hovered = nil
		return nil
	}
	for _, p := range c.store.Filter(c.filter) {
		s := c.view.WorldToScreen(p.Position)
		if s.X >= lo.X && s.X < hi.X && s.Y >= lo.Y && s.Y < hi.Y {
			c.hovered = p
			return p
		}
	}
	return c.PointerMove(lo.Add(hi).Scale(0.5))
}

// FindNearest returns the first point of the filtered set within the pick
// radius of a world position. Large sets go through the grid index.
func (c *Controller) FindNearest(world models.Vec2, filter models.Filter) *models.Point {
	points := c.store.Filter(filter)
	if len(points) < c.opts.IndexThreshold {
		return scanNearest(points, world, c.opts.PickRadius)
	}
	if filter != c.filter {
		return newGridIndex(points, c.opts.PickRadius).nearest(world, c.opts.PickRadius)
	}
	if c.indexStale || c.index == nil {
		c.index = newGridIndex(points, c.opts.PickRadius)
		c.indexStale = false
	}
	return c.index.nearest(world, c.opts.PickRadius)
}

// SubmitQuery projects text and places the query point. Empty text is a
// no-op; it returns whether a query was placed.
func (c *Controller) SubmitQuery(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	pos, ok := c.projector.Project(text)
	if !ok {
		return false
	}
	q := c.store.SetQuery(pos, text)
	c.queryText = text
	c.animatingUntil = c.opts.Clock().Add(c.opts.AnimationDuration)
	c.indexStale = true
	if c.hovered != nil && c.hovered.Kind == models.KindQuery {
		c.hovered = nil
	}
	c.opts.Logger.LogQuery(text, q.Position.X, q.Position.Y, len(c.store.Points())-1)
	return true
}

// Reset clears the query, the view transform, hover and animation state.
func (c *Controller) Reset() {
	c.store.ClearQuery()
	c.view.Reset()
	c.hovered = nil
	c.animatingUntil = time.Time{}
	c.queryText = ""
	c.indexStale = true
	c.opts.Logger.Debug("view reset")
}

// SetFilter changes the kind filter for drawing and hit-testing.
func (c *Controller) SetFilter(f models.Filter) {
	if f == "" {
		f = models.FilterAll
	}
	if f == c.filter {
		return
	}
	c.filter = f
	c.indexStale = true
	if c.hovered != nil && !f.Matches(c.hovered.Kind) {
		c.hovered = nil
	}
}

// ToggleGrid flips grid visibility and returns the new state.
func (c *Controller) ToggleGrid() bool {
	c.showGrid = !c.showGrid
	return c.showGrid
}

// ZoomIn raises the zoom by one step.
func (c *Controller) ZoomIn() { c.view.ZoomIn() }

// ZoomOut lowers the zoom by one step.
func (c *Controller) ZoomOut() { c.view.ZoomOut() }

// SetZoom sets the zoom directly, clamped.
func (c *Controller) SetZoom(z float64) { c.view.SetZoom(z) }

// Pan shifts the view by screen pixels.
func (c *Controller) Pan(dx, dy float64) { c.view.Pan(dx, dy) }

// Visible returns the points passing the current filter.
func (c *Controller) Visible() []*models.Point {
	return c.store.Filter(c.filter)
}

// Points returns the points passing f, regardless of the active filter.
func (c *Controller) Points(f models.Filter) []*models.Point {
	return c.store.Filter(f)
}

// Hovered returns the point under the pointer, if any.
func (c *Controller) Hovered() *models.Point {
	return c.hovered
}

// Tooltip describes the hovered point, or returns "" when nothing is hovered.
func (c *Controller) Tooltip() string {
	p := c.hovered
	if p == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(p.Label)
	fmt.Fprintf(&b, "\n%s", p.Kind.Title())
	if p.GroupID != "" {
		if owner, ok := c.store.Lookup(p.GroupID); ok {
			fmt.Fprintf(&b, " of %s", owner.Label)
		}
	}
	if p.HasSimilarity && p.Kind != models.KindQuery {
		fmt.Fprintf(&b, "\nsimilarity %.2f", p.Similarity)
	}
	if p.PreviewText != "" {
		fmt.Fprintf(&b, "\n%s", p.PreviewText)
	}
	return b.String()
}

// Similar returns the top n points by similarity above minSimilarity.
func (c *Controller) Similar(n int, minSimilarity float64) []*models.Point {
	if n <= 0 {
		n = DefaultSimilarLimit
	}
	return c.store.Similar(storage.SimilarOptions{Limit: n, MinSimilarity: minSimilarity})
}

// Counts returns per-kind totals.
func (c *Controller) Counts() map[models.Kind]int {
	return c.store.Counts()
}

// Lookup resolves a point id.
func (c *Controller) Lookup(id string) (*models.Point, bool) {
	return c.store.Lookup(id)
}

// Query returns the current query point, or nil.
func (c *Controller) Query() *models.Point {
	return c.store.Query()
}

// QueryText returns the text of the active query.
func (c *Controller) QueryText() string {
	return c.queryText
}

// Filter returns the active kind filter.
func (c *Controller) Filter() models.Filter {
	return c.filter
}

// ShowGrid reports whether the grid is drawn.
func (c *Controller) ShowGrid() bool {
	return c.showGrid
}

// View returns the live view transform.
func (c *Controller) View() *view.Transform {
	return c.view
}

// Animating reports whether the post-submit animation window is open.
func (c *Controller) Animating() bool {
	return c.opts.Clock().Before(c.animatingUntil)
}

// AnimationRemaining returns how long the animation window stays open.
func (c *Controller) AnimationRemaining() time.Duration {
	d := c.animatingUntil.Sub(c.opts.Clock())
	if d < 0 {
		return 0
	}
	return d
}

// Scene snapshots what the renderer needs for one frame.
func (c *Controller) Scene() render.Scene {
	return render.Scene{
		Points:   c.Visible(),
		Query:    c.store.Query(),
		View:     c.view,
		ShowGrid: c.showGrid,
	}
}
