// ABOUTME: Drawing surface abstraction used by the scene renderer.
// ABOUTME: Primitives take screen-space pixel coordinates.
package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/vectorscope/internal/models"
)

// Paint describes how a primitive is drawn.
type Paint struct {
	Color lipgloss.Color
	Alpha float64 // 0 is invisible, 1 is opaque
	Width float64 // stroke width in pixels
	Bold  bool
	Glyph rune // preferred glyph for cell surfaces; 0 picks a default
}

// Surface is a 2D drawing target in screen pixels.
type Surface interface {
	// Size returns the drawable area in pixels.
	Size() (width, height float64)

	// Clear erases everything drawn so far.
	Clear()

	// Line draws a straight segment.
	Line(from, to models.Vec2, p Paint)

	// FillCircle draws a filled disc.
	FillCircle(center models.Vec2, radius float64, p Paint)

	// StrokeCircle draws a circle outline.
	StrokeCircle(center models.Vec2, radius float64, p Paint)

	// Text draws s horizontally centered on at.
	Text(at models.Vec2, s string, p Paint)
}
