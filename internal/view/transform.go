// ABOUTME: Pan and zoom state with screen/world coordinate conversion.
// ABOUTME: Zoom is clamped to a configured range and never reaches zero.
package view

import (
	"math"

	"github.com/2389-research/vectorscope/internal/models"
)

// Default zoom bounds and step.
const (
	DefaultMinZoom  = 0.5
	DefaultMaxZoom  = 3.0
	DefaultZoomStep = 0.2
)

// Bounds configures the zoom clamp range and step.
type Bounds struct {
	MinZoom  float64
	MaxZoom  float64
	ZoomStep float64
}

// DefaultBounds returns the [0.5, 3.0] range with a 0.2 step.
func DefaultBounds() Bounds {
	return Bounds{MinZoom: DefaultMinZoom, MaxZoom: DefaultMaxZoom, ZoomStep: DefaultZoomStep}
}

func (b Bounds) sanitized() Bounds {
	if !(b.MinZoom > 0) || math.IsInf(b.MinZoom, 0) {
		b.MinZoom = DefaultMinZoom
	}
	if !(b.MaxZoom >= b.MinZoom) || math.IsInf(b.MaxZoom, 0) {
		b.MaxZoom = math.Max(DefaultMaxZoom, b.MinZoom)
	}
	if !(b.ZoomStep > 0) || math.IsInf(b.ZoomStep, 0) {
		b.ZoomStep = DefaultZoomStep
	}
	return b
}

// Transform holds the pan offset in screen pixels and the zoom factor.
type Transform struct {
	PanX, PanY float64
	Zoom       float64

	bounds Bounds
}

// New returns an identity transform with the given zoom bounds.
func New(b Bounds) *Transform {
	return &Transform{Zoom: 1, bounds: b.sanitized()}
}

// Bounds returns the active zoom bounds.
func (t *Transform) Bounds() Bounds {
	return t.bounds
}

// WorldToScreen maps a world point to screen pixels.
func (t *Transform) WorldToScreen(p models.Vec2) models.Vec2 {
	return models.Vec2{X: p.X*t.Zoom + t.PanX, Y: p.Y*t.Zoom + t.PanY}
}

// ScreenToWorld maps a screen pixel to world space.
func (t *Transform) ScreenToWorld(p models.Vec2) models.Vec2 {
	return models.Vec2{X: (p.X - t.PanX) / t.Zoom, Y: (p.Y - t.PanY) / t.Zoom}
}

// Scale converts a world length to a screen length.
func (t *Transform) Scale(length float64) float64 {
	return length * t.Zoom
}

// ZoomIn raises the zoom by one step, clamped.
func (t *Transform) ZoomIn() {
	t.SetZoom(t.Zoom + t.bounds.ZoomStep)
}

// ZoomOut lowers the zoom by one step, clamped.
func (t *Transform) ZoomOut() {
	t.SetZoom(t.Zoom - t.bounds.ZoomStep)
}

// SetZoom sets the zoom, clamped to the bounds. NaN is ignored.
func (t *Transform) SetZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	// snap accumulated float error from repeated steps
	z = math.Round(z*1e9) / 1e9
	t.Zoom = math.Min(t.bounds.MaxZoom, math.Max(t.bounds.MinZoom, z))
}

// Pan shifts the view by dx, dy screen pixels. A pan whose delta or result
// is not finite is ignored, so the transform stays invertible.
func (t *Transform) Pan(dx, dy float64) {
	next := models.Vec2{X: t.PanX + dx, Y: t.PanY + dy}
	if !(models.Vec2{X: dx, Y: dy}).IsFinite() || !next.IsFinite() {
		return
	}
	t.PanX, t.PanY = next.X, next.Y
}

// Reset restores pan 0,0 and zoom 1.
func (t *Transform) Reset() {
	t.PanX, t.PanY = 0, 0
	t.Zoom = 1
}

// Valid reports whether the transform can be inverted.
func (t *Transform) Valid() bool {
	return t != nil && t.Zoom > 0 && !math.IsInf(t.Zoom, 0) &&
		models.Vec2{X: t.PanX, Y: t.PanY}.IsFinite()
}
