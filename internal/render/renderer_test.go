// ABOUTME: Tests for the scene renderer draw order and degenerate scenes.
// ABOUTME: Uses a recording surface to inspect every primitive issued.
package render

import (
	"math"
	"testing"

	"github.com/2389-research/vectorscope/internal/models"
	"github.com/2389-research/vectorscope/internal/view"
)

type op struct {
	kind   string
	at     models.Vec2
	to     models.Vec2
	radius float64
	text   string
	paint  Paint
}

type recorder struct {
	ops []op
}

func (r *recorder) Size() (float64, float64) { return 600, 400 }
func (r *recorder) Clear()                   { r.ops = append(r.ops, op{kind: "clear"}) }

func (r *recorder) Line(from, to models.Vec2, p Paint) {
	r.ops = append(r.ops, op{kind: "line", at: from, to: to, paint: p})
}

func (r *recorder) FillCircle(c models.Vec2, radius float64, p Paint) {
	r.ops = append(r.ops, op{kind: "fill", at: c, radius: radius, paint: p})
}

func (r *recorder) StrokeCircle(c models.Vec2, radius float64, p Paint) {
	r.ops = append(r.ops, op{kind: "stroke", at: c, radius: radius, paint: p})
}

func (r *recorder) Text(at models.Vec2, s string, p Paint) {
	r.ops = append(r.ops, op{kind: "text", at: at, text: s, paint: p})
}

func (r *recorder) count(kind string) int {
	n := 0
	for _, o := range r.ops {
		if o.kind == kind {
			n++
		}
	}
	return n
}

func testScene() Scene {
	query := &models.Point{ID: "query-1", Kind: models.KindQuery, Label: "neural", Position: models.Vec2{X: 100, Y: 100}}
	return Scene{
		Points: []*models.Point{
			{ID: "aggregate-0", Kind: models.KindAggregate, Label: "ml_guide.md", Position: models.Vec2{X: 100, Y: 100}, Similarity: 0.95, HasSimilarity: true},
			{ID: "c", Kind: models.KindPrimary, GroupID: "aggregate-0", Position: models.Vec2{X: 300, Y: 200}, Similarity: 0.1, HasSimilarity: true},
			query,
		},
		Query:    query,
		View:     view.New(view.DefaultBounds()),
		ShowGrid: true,
	}
}

func TestRenderDrawOrder(t *testing.T) {
	rec := &recorder{}
	NewRenderer(DefaultOptions()).Render(rec, testScene())

	// clear + 22 grid lines + 4 rings + aggregate (halo, fill, outline, label)
	// + chunk (fill, outline) + query (fill, outline, label)
	if len(rec.ops) != 36 {
		t.Fatalf("expected 36 ops, got %d", len(rec.ops))
	}
	if rec.ops[0].kind != "clear" {
		t.Fatalf("expected clear first, got %s", rec.ops[0].kind)
	}
	for i := 1; i <= 22; i++ {
		if rec.ops[i].kind != "line" {
			t.Fatalf("op %d = %s, want grid line", i, rec.ops[i].kind)
		}
	}

	for i := 0; i < 4; i++ {
		ring := rec.ops[23+i]
		if ring.kind != "stroke" {
			t.Fatalf("op %d = %s, want ring", 23+i, ring.kind)
		}
		wantAlpha := 0.3 - float64(i)*0.05
		if math.Abs(ring.paint.Alpha-wantAlpha) > 1e-9 {
			t.Errorf("ring %d alpha = %f, want %f", i, ring.paint.Alpha, wantAlpha)
		}
		if ring.radius != float64(50*(i+1)) {
			t.Errorf("ring %d radius = %f, want %d", i, ring.radius, 50*(i+1))
		}
	}

	halo := rec.ops[27]
	if halo.kind != "fill" || halo.paint.Alpha != 0.2 {
		t.Errorf("expected a translucent halo before the aggregate, got %+v", halo)
	}
	if rec.ops[30].kind != "text" || rec.ops[30].text != "ml_guide.md" {
		t.Errorf("expected aggregate label, got %+v", rec.ops[30])
	}

	last := rec.ops[len(rec.ops)-3:]
	if last[0].kind != "fill" || last[0].radius != 8 {
		t.Errorf("expected query fill last, got %+v", last[0])
	}
	if last[1].kind != "stroke" || last[1].paint.Width != 2 {
		t.Errorf("expected thick query outline, got %+v", last[1])
	}
	if last[2].kind != "text" || last[2].text != "neural" || !last[2].paint.Bold {
		t.Errorf("expected bold query label, got %+v", last[2])
	}
}

func TestRenderQueryDrawnOnce(t *testing.T) {
	rec := &recorder{}
	NewRenderer(DefaultOptions()).Render(rec, testScene())

	queryFills := 0
	for _, o := range rec.ops {
		if o.kind == "fill" && o.paint.Glyph == '◆' {
			queryFills++
		}
	}
	if queryFills != 1 {
		t.Errorf("expected the query point drawn once, got %d", queryFills)
	}
}

func TestRenderNoHaloWithoutQuery(t *testing.T) {
	scene := testScene()
	scene.Query = nil
	scene.Points = scene.Points[:2]

	rec := &recorder{}
	NewRenderer(DefaultOptions()).Render(rec, scene)

	for _, o := range rec.ops {
		if o.kind == "fill" && o.paint.Alpha < 1 {
			t.Errorf("unexpected halo without a query: %+v", o)
		}
		if o.kind == "stroke" && o.paint.Glyph == '·' && o.paint.Color == DefaultTheme().Ring {
			t.Errorf("unexpected similarity ring without a query: %+v", o)
		}
	}
}

func TestRenderGridToggle(t *testing.T) {
	scene := testScene()
	scene.ShowGrid = false

	rec := &recorder{}
	NewRenderer(DefaultOptions()).Render(rec, scene)
	if n := rec.count("line"); n != 0 {
		t.Errorf("expected no grid lines, got %d", n)
	}
}

func TestRenderZoomScalesGeometry(t *testing.T) {
	scene := testScene()
	scene.View.SetZoom(2)

	rec := &recorder{}
	NewRenderer(DefaultOptions()).Render(rec, scene)

	last := rec.ops[len(rec.ops)-3]
	if last.radius != 16 {
		t.Errorf("expected query radius 16 at zoom 2, got %f", last.radius)
	}
	if last.at != (models.Vec2{X: 200, Y: 200}) {
		t.Errorf("expected query at (200, 200) on screen, got %v", last.at)
	}
}

func TestRenderDegenerateScenes(t *testing.T) {
	r := NewRenderer(Options{})

	tests := []struct {
		name    string
		scene   Scene
		wantOps int
	}{
		{"nil transform", Scene{Points: testScene().Points}, 1},
		{"zero zoom", Scene{Points: testScene().Points, View: &view.Transform{Zoom: 0}}, 1},
		{"nan pan", Scene{View: &view.Transform{Zoom: 1, PanX: math.NaN()}}, 1},
		{"empty", Scene{View: view.New(view.DefaultBounds())}, 1},
		{"empty with grid", Scene{View: view.New(view.DefaultBounds()), ShowGrid: true}, 23},
		{"nil point", Scene{View: view.New(view.DefaultBounds()), Points: []*models.Point{nil}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			r.Render(rec, tt.scene)
			if len(rec.ops) != tt.wantOps {
				t.Errorf("expected %d ops, got %d", tt.wantOps, len(rec.ops))
			}
		})
	}

	// a nil surface is a no-op
	r.Render(nil, testScene())
}

func TestRenderOntoCanvas(t *testing.T) {
	c := NewCanvas(60, 20, 600, 400)
	NewRenderer(DefaultOptions()).Render(c, testScene())

	if g := c.Glyph(10, 5); g != '◆' {
		t.Errorf("expected query glyph at its cell, got %q", g)
	}
	if g := c.Glyph(30, 10); g != '•' {
		t.Errorf("expected chunk glyph at its cell, got %q", g)
	}
}
