// ABOUTME: Colour palette and per-kind point styling for the explorer.
// ABOUTME: Shared by the renderer, the terminal canvas legend, and the TUI panels.
package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/vectorscope/internal/models"
)

// KindStyle is how one point kind is drawn.
type KindStyle struct {
	Color  lipgloss.Color
	Radius float64 // world units
	Glyph  rune
}

// Theme defines the colour palette for the scene.
type Theme struct {
	Kinds map[models.Kind]KindStyle

	// Grid is the background grid line colour.
	Grid lipgloss.Color

	// Outline is the thin contrast ring around every point.
	Outline lipgloss.Color

	// Label is the aggregate label colour.
	Label lipgloss.Color

	// Ring is the similarity ring colour around the query.
	Ring lipgloss.Color

	// Muted is for less important text in panels.
	Muted lipgloss.Color
}

// DefaultTheme returns the default palette: blue primary chunks, red detail
// chunks, green aggregates, amber query.
func DefaultTheme() *Theme {
	return &Theme{
		Kinds: map[models.Kind]KindStyle{
			models.KindPrimary:   {Color: lipgloss.Color("#3B82F6"), Radius: 3, Glyph: '•'},
			models.KindDetail:    {Color: lipgloss.Color("#EF4444"), Radius: 3, Glyph: '•'},
			models.KindAggregate: {Color: lipgloss.Color("#10B981"), Radius: 6, Glyph: '●'},
			models.KindQuery:     {Color: lipgloss.Color("#F59E0B"), Radius: 8, Glyph: '◆'},
		},
		Grid:    lipgloss.Color("#374151"),
		Outline: lipgloss.Color("#1F2937"),
		Label:   lipgloss.Color("#F3F4F6"),
		Ring:    lipgloss.Color("#FBBF24"),
		Muted:   lipgloss.Color("#6B7280"),
	}
}

// Kind returns the style for k, falling back to a grey dot.
func (t *Theme) Kind(k models.Kind) KindStyle {
	if s, ok := t.Kinds[k]; ok {
		return s
	}
	return KindStyle{Color: t.Muted, Radius: 4, Glyph: '•'}
}

// Swatch renders a coloured legend marker for k.
func (t *Theme) Swatch(k models.Kind) string {
	s := t.Kind(k)
	return lipgloss.NewStyle().Foreground(s.Color).Render(string(s.Glyph))
}
