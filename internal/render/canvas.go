// ABOUTME: Terminal cell canvas implementing Surface over a rune grid.
// ABOUTME: Rasterizes pixel-space primitives into cells and paints them with lipgloss.
package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/vectorscope/internal/models"
)

type cell struct {
	glyph rune
	color lipgloss.Color
	bold  bool
	solid bool // covered by an opaque fill; outlines leave it alone
}

// Canvas maps a width x height pixel surface onto cols x rows terminal cells.
type Canvas struct {
	cols, rows    int
	width, height float64
	cells         []cell
}

// NewCanvas creates a canvas of cols x rows cells covering width x height
// pixels. Non-positive sizes produce an empty canvas.
func NewCanvas(cols, rows int, width, height float64) *Canvas {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	if !(width > 0) {
		width = 1
	}
	if !(height > 0) {
		height = 1
	}
	c := &Canvas{cols: cols, rows: rows, width: width, height: height}
	c.cells = make([]cell, cols*rows)
	c.Clear()
	return c
}

// Size returns the drawable area in pixels.
func (c *Canvas) Size() (float64, float64) {
	return c.width, c.height
}

// Cells returns the grid dimensions.
func (c *Canvas) Cells() (cols, rows int) {
	return c.cols, c.rows
}

// CellToScreen returns the pixel at the center of a cell, for mapping mouse
// positions onto the surface.
func (c *Canvas) CellToScreen(col, row int) models.Vec2 {
	return models.Vec2{
		X: (float64(col) + 0.5) * c.cellWidth(),
		Y: (float64(row) + 0.5) * c.cellHeight(),
	}
}

// CellBounds returns the half-open pixel rectangle [lo, hi) a cell covers.
// A point whose screen position falls inside it is drawn in that cell.
func (c *Canvas) CellBounds(col, row int) (lo, hi models.Vec2) {
	cw, ch := c.cellWidth(), c.cellHeight()
	lo = models.Vec2{X: float64(col) * cw, Y: float64(row) * ch}
	return lo, models.Vec2{X: lo.X + cw, Y: lo.Y + ch}
}

func (c *Canvas) cellWidth() float64 {
	if c.cols == 0 {
		return c.width
	}
	return c.width / float64(c.cols)
}

func (c *Canvas) cellHeight() float64 {
	if c.rows == 0 {
		return c.height
	}
	return c.height / float64(c.rows)
}

// Clear erases everything drawn so far.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = cell{glyph: ' '}
	}
}

// toCell converts a pixel position to a cell index, reporting false when it
// falls outside the grid or is not finite.
func (c *Canvas) toCell(p models.Vec2) (int, int, bool) {
	if !p.IsFinite() || c.cols == 0 || c.rows == 0 {
		return 0, 0, false
	}
	fx := math.Floor(p.X / c.cellWidth())
	fy := math.Floor(p.Y / c.cellHeight())
	if fx < 0 || fy < 0 || fx >= float64(c.cols) || fy >= float64(c.rows) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

func (c *Canvas) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return nil
	}
	return &c.cells[row*c.cols+col]
}

// Line draws a segment clipped to the surface. Axis-aligned segments use
// box-drawing glyphs and join into crossings.
func (c *Canvas) Line(from, to models.Vec2, p Paint) {
	if p.Alpha <= 0 {
		return
	}
	a, b, ok := clipSegment(from, to, c.width, c.height)
	if !ok {
		return
	}
	glyph := p.Glyph
	if glyph == 0 {
		switch {
		case math.Abs(a.Y-b.Y) < 1e-9:
			glyph = '─'
		case math.Abs(a.X-b.X) < 1e-9:
			glyph = '│'
		default:
			glyph = '·'
		}
	}

	span := math.Max(math.Abs(b.X-a.X)/c.cellWidth(), math.Abs(b.Y-a.Y)/c.cellHeight())
	steps := int(math.Ceil(span*2)) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		col, row, ok := c.toCell(a.Add(b.Sub(a).Scale(t)))
		if !ok {
			continue
		}
		cl := c.at(col, row)
		g := glyph
		if (cl.glyph == '─' && g == '│') || (cl.glyph == '│' && g == '─') || cl.glyph == '┼' {
			g = '┼'
		}
		*cl = cell{glyph: g, color: p.Color, bold: p.Bold}
	}
}

// FillCircle marks every cell whose center lies inside the disc. A disc
// smaller than a cell still marks the cell containing its center.
func (c *Canvas) FillCircle(center models.Vec2, radius float64, p Paint) {
	if p.Alpha <= 0 || !center.IsFinite() || math.IsNaN(radius) {
		return
	}
	glyph := p.Glyph
	if glyph == 0 {
		glyph = '●'
		if p.Alpha < 0.5 {
			glyph = '░'
		}
	}
	solid := p.Alpha >= 0.5

	paint := func(col, row int) {
		cl := c.at(col, row)
		if cl == nil {
			return
		}
		*cl = cell{glyph: glyph, color: p.Color, bold: p.Bold, solid: solid}
	}

	if col, row, ok := c.toCell(center); ok {
		paint(col, row)
	}
	if radius <= 0 {
		return
	}
	c.eachCellNear(center, radius, func(col, row int, d float64) {
		if d <= radius {
			paint(col, row)
		}
	})
}

// StrokeCircle draws the circumference. Cells already covered by an opaque
// fill are kept, so outlines only show where the disc is larger than a cell.
func (c *Canvas) StrokeCircle(center models.Vec2, radius float64, p Paint) {
	if p.Alpha <= 0 || !center.IsFinite() || !(radius > 0) || math.IsInf(radius, 0) {
		return
	}
	glyph := p.Glyph
	if glyph == 0 {
		glyph = '·'
	}
	half := math.Min(c.cellWidth(), c.cellHeight()) / 2
	if radius < half {
		return
	}
	n := int(math.Ceil(2 * math.Pi * radius / half))
	if n < 16 {
		n = 16
	}
	if n > 4096 {
		n = 4096
	}
	for i := 0; i < n; i++ {
		angle := float64(i) / float64(n) * 2 * math.Pi
		pt := models.Vec2{X: center.X + math.Cos(angle)*radius, Y: center.Y + math.Sin(angle)*radius}
		col, row, ok := c.toCell(pt)
		if !ok {
			continue
		}
		cl := c.at(col, row)
		if cl.solid {
			continue
		}
		*cl = cell{glyph: glyph, color: p.Color, bold: p.Bold}
	}
}

// Text writes s centered on at. Characters falling off the grid are dropped.
func (c *Canvas) Text(at models.Vec2, s string, p Paint) {
	if p.Alpha <= 0 || s == "" || !at.IsFinite() {
		return
	}
	runes := []rune(s)
	fx := math.Floor(at.X / c.cellWidth())
	fy := math.Floor(at.Y / c.cellHeight())
	if fy < 0 || fy >= float64(c.rows) || math.Abs(fx) > float64(c.cols+len(runes)) {
		return
	}
	row := int(fy)
	start := int(fx) - len(runes)/2
	for i, r := range runes {
		if cl := c.at(start+i, row); cl != nil {
			*cl = cell{glyph: r, color: p.Color, bold: p.Bold, solid: true}
		}
	}
}

// eachCellNear visits cells in the bounding box of a disc with the distance
// from their center to the disc center.
func (c *Canvas) eachCellNear(center models.Vec2, radius float64, fn func(col, row int, d float64)) {
	cw, ch := c.cellWidth(), c.cellHeight()
	minCol := math.Max(0, math.Floor((center.X-radius)/cw))
	maxCol := math.Min(float64(c.cols-1), math.Floor((center.X+radius)/cw))
	minRow := math.Max(0, math.Floor((center.Y-radius)/ch))
	maxRow := math.Min(float64(c.rows-1), math.Floor((center.Y+radius)/ch))
	if minCol > maxCol || minRow > maxRow {
		return
	}
	for row := int(minRow); row <= int(maxRow); row++ {
		for col := int(minCol); col <= int(maxCol); col++ {
			fn(col, row, c.CellToScreen(col, row).Dist(center))
		}
	}
}

// String renders the grid with lipgloss colours, one line per row.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		var run []rune
		var runStyle cell
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runStyle.color == "" && !runStyle.bold {
				b.WriteString(string(run))
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(runStyle.color).Bold(runStyle.bold).Render(string(run)))
			}
			run = run[:0]
		}
		for col := 0; col < c.cols; col++ {
			cl := c.cells[row*c.cols+col]
			if len(run) > 0 && (cl.color != runStyle.color || cl.bold != runStyle.bold) {
				flush()
			}
			runStyle = cl
			run = append(run, cl.glyph)
		}
		flush()
	}
	return b.String()
}

// Plain renders the grid without colour, trailing spaces trimmed.
func (c *Canvas) Plain() string {
	lines := make([]string, c.rows)
	for row := 0; row < c.rows; row++ {
		runes := make([]rune, c.cols)
		for col := 0; col < c.cols; col++ {
			runes[col] = c.cells[row*c.cols+col].glyph
		}
		lines[row] = strings.TrimRight(string(runes), " ")
	}
	return strings.Join(lines, "\n")
}

// Glyph returns the rune at a cell, or 0 outside the grid.
func (c *Canvas) Glyph(col, row int) rune {
	if cl := c.at(col, row); cl != nil {
		return cl.glyph
	}
	return 0
}

// clipSegment clips a segment to [0,w]x[0,h] (Liang-Barsky).
func clipSegment(a, b models.Vec2, w, h float64) (models.Vec2, models.Vec2, bool) {
	if !a.IsFinite() || !b.IsFinite() {
		return a, b, false
	}
	d := b.Sub(a)
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-d.X, a.X},
		{d.X, w - a.X},
		{-d.Y, a.Y},
		{d.Y, h - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return a.Add(d.Scale(t0)), a.Add(d.Scale(t1)), true
}
