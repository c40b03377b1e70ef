// ABOUTME: Full-scene renderer for the embedding-space explorer.
// ABOUTME: Draws grid, similarity rings, points, labels, and the query marker back to front.
package render

import (
	"github.com/2389-research/vectorscope/internal/models"
	"github.com/2389-research/vectorscope/internal/view"
)

// Options configures scene geometry.
type Options struct {
	WorldWidth         float64 // grid extent in world units
	WorldHeight        float64
	GridSpacing        float64   // world units between grid lines
	RingRadii          []float64 // similarity ring radii in world units
	HighlightThreshold float64   // similarity above which a point gets a halo
	LabelLength        int       // max runes in a drawn label
	Theme              *Theme
}

// DefaultOptions returns the 600x400 world with a 50-unit grid.
func DefaultOptions() Options {
	return Options{
		WorldWidth:         600,
		WorldHeight:        400,
		GridSpacing:        50,
		RingRadii:          []float64{50, 100, 150, 200},
		HighlightThreshold: 0.7,
		LabelLength:        24,
		Theme:              DefaultTheme(),
	}
}

// Scene is everything the renderer reads for one frame. Points are the
// currently filtered set; the query point is drawn separately.
type Scene struct {
	Points   []*models.Point
	Query    *models.Point
	View     *view.Transform
	ShowGrid bool
}

// Renderer redraws a whole scene onto a Surface.
type Renderer struct {
	opts Options
}

// NewRenderer creates a renderer, filling unset options with defaults.
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.WorldWidth <= 0 {
		opts.WorldWidth = def.WorldWidth
	}
	if opts.WorldHeight <= 0 {
		opts.WorldHeight = def.WorldHeight
	}
	if opts.GridSpacing <= 0 {
		opts.GridSpacing = def.GridSpacing
	}
	if opts.RingRadii == nil {
		opts.RingRadii = def.RingRadii
	}
	if opts.HighlightThreshold <= 0 {
		opts.HighlightThreshold = def.HighlightThreshold
	}
	if opts.LabelLength <= 0 {
		opts.LabelLength = def.LabelLength
	}
	if opts.Theme == nil {
		opts.Theme = def.Theme
	}
	return &Renderer{opts: opts}
}

// WorldSize returns the logical surface size, which is also the screen size
// at zoom 1.
func (r *Renderer) WorldSize() (float64, float64) {
	return r.opts.WorldWidth, r.opts.WorldHeight
}

// Theme returns the palette in use.
func (r *Renderer) Theme() *Theme {
	return r.opts.Theme
}

// Render clears the surface and draws the scene. Degenerate scenes (no
// points, no query, invalid transform) draw less, never fail.
func (r *Renderer) Render(s Surface, scene Scene) {
	if s == nil {
		return
	}
	s.Clear()

	tr := scene.View
	if !tr.Valid() {
		return
	}
	theme := r.opts.Theme

	if scene.ShowGrid {
		r.drawGrid(s, tr)
	}

	if scene.Query != nil {
		center := tr.WorldToScreen(scene.Query.Position)
		for i, radius := range r.opts.RingRadii {
			alpha := 0.3 - float64(i)*0.05
			if alpha <= 0 {
				break
			}
			s.StrokeCircle(center, tr.Scale(radius), Paint{Color: theme.Ring, Alpha: alpha, Width: 1, Glyph: '·'})
		}
	}

	for _, p := range scene.Points {
		if p == nil || p.Kind == models.KindQuery {
			continue
		}
		style := theme.Kind(p.Kind)
		size := style.Radius
		center := tr.WorldToScreen(p.Position)

		if scene.Query != nil && p.HasSimilarity && p.Similarity > r.opts.HighlightThreshold {
			size += 2
			s.FillCircle(center, tr.Scale(size+4), Paint{Color: style.Color, Alpha: 0.2, Glyph: '░'})
		}

		s.FillCircle(center, tr.Scale(size), Paint{Color: style.Color, Alpha: 1, Glyph: style.Glyph})
		s.StrokeCircle(center, tr.Scale(size), Paint{Color: theme.Outline, Alpha: 1, Width: 1})

		if p.Kind == models.KindAggregate {
			at := center.Sub(models.Vec2{Y: tr.Scale(size + 5)})
			s.Text(at, models.Truncate(p.Label, r.opts.LabelLength), Paint{Color: theme.Label, Alpha: 1})
		}
	}

	if q := scene.Query; q != nil {
		style := theme.Kind(models.KindQuery)
		center := tr.WorldToScreen(q.Position)
		s.FillCircle(center, tr.Scale(style.Radius), Paint{Color: style.Color, Alpha: 1, Glyph: style.Glyph})
		s.StrokeCircle(center, tr.Scale(style.Radius), Paint{Color: theme.Outline, Alpha: 1, Width: 2})
		at := center.Sub(models.Vec2{Y: tr.Scale(15)})
		s.Text(at, models.Truncate(q.Label, r.opts.LabelLength), Paint{Color: style.Color, Alpha: 1, Bold: true})
	}
}

func (r *Renderer) drawGrid(s Surface, tr *view.Transform) {
	paint := Paint{Color: r.opts.Theme.Grid, Alpha: 1, Width: 0.5}
	w, h, step := r.opts.WorldWidth, r.opts.WorldHeight, r.opts.GridSpacing
	for x := 0.0; x <= w; x += step {
		s.Line(tr.WorldToScreen(models.Vec2{X: x}), tr.WorldToScreen(models.Vec2{X: x, Y: h}), paint)
	}
	for y := 0.0; y <= h; y += step {
		s.Line(tr.WorldToScreen(models.Vec2{Y: y}), tr.WorldToScreen(models.Vec2{X: w, Y: y}), paint)
	}
}
