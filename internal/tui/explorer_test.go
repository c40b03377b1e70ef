// ABOUTME: Unit tests for the explorer TUI bubbletea model.
// ABOUTME: Uses synthetic tea.Msg values to drive keys, mouse, animation and reloads.
package tui

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/vectorscope/internal/embeddings"
	"github.com/2389-research/vectorscope/internal/explorer"
	"github.com/2389-research/vectorscope/internal/models"
	"github.com/2389-research/vectorscope/internal/storage"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func testSpecs() []models.ClusterSpec {
	return []models.ClusterSpec{
		{Label: "ml_guide.md", Theme: "ai", Center: models.Vec2{X: 150, Y: 100}, Keywords: []string{"neural", "machine"}, ChunkKind: models.KindPrimary},
		{Label: "db_schema.sql", Theme: "db", Center: models.Vec2{X: 400, Y: 280}, Keywords: []string{"database"}, ChunkKind: models.KindDetail},
	}
}

func newTestModel(t *testing.T, opts Options) (ExplorerModel, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	ctrl := explorer.NewFromClusters(testSpecs(), 6, rand.New(rand.NewPCG(3, 3)), explorer.Options{Clock: clock.Now})
	m := NewExplorerModel(ctrl, opts)
	// 120x40 canvas cells: 5x10 pixels each on the 600x400 surface.
	m = update(t, m, tea.WindowSizeMsg{Width: 120 + sidePanelWidth, Height: 42})
	return m, clock
}

func update(t *testing.T, m ExplorerModel, msg tea.Msg) ExplorerModel {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(ExplorerModel)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewExplorerModel_Defaults(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	if m.input.Focused() {
		t.Error("expected query input to start blurred")
	}
	if m.topN != explorer.DefaultSimilarLimit {
		t.Errorf("expected top N %d, got %d", explorer.DefaultSimilarLimit, m.topN)
	}
	if m.panStep != defaultPanStep {
		t.Errorf("expected pan step %v, got %v", defaultPanStep, m.panStep)
	}
	if m.Init() != nil {
		t.Error("expected nil init cmd without a watcher")
	}
	cols, rows := m.canvasSize()
	if cols != 120 || rows != 40 {
		t.Errorf("expected 120x40 canvas, got %dx%d", cols, rows)
	}
}

func TestExplorerModel_SubmitQuery(t *testing.T) {
	m, clock := newTestModel(t, Options{})

	m = update(t, m, runes("/"))
	if !m.input.Focused() {
		t.Fatal("expected / to focus the query input")
	}
	m = update(t, m, runes("neural networks"))
	if m.input.Value() != "neural networks" {
		t.Fatalf("expected typed text in input, got %q", m.input.Value())
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(ExplorerModel)
	if cmd == nil {
		t.Error("expected spinner and animation commands after submit")
	}
	if m.input.Focused() {
		t.Error("expected input to blur after submit")
	}
	if m.ctrl.Query() == nil {
		t.Fatal("expected a query point")
	}
	if !m.ctrl.Animating() {
		t.Error("expected the animation window to be open")
	}
	if !strings.Contains(m.Status(), `Placed "neural networks"`) {
		t.Errorf("unexpected status %q", m.Status())
	}

	view := m.View()
	if !strings.Contains(view, "Similar Vectors") || !strings.Contains(view, "ml_guide.md") {
		t.Error("expected similar vectors from the ai cluster in the side panel")
	}
	if !strings.Contains(view, "projecting") {
		t.Error("expected the spinner while animating")
	}

	clock.now = clock.now.Add(3 * time.Second)
	updated, cmd = m.Update(animationDoneMsg{seq: m.seq})
	m = updated.(ExplorerModel)
	if cmd != nil {
		t.Error("expected no follow-up once the window closed")
	}
	if strings.Contains(m.View(), "projecting") {
		t.Error("expected spinner to disappear after the animation window")
	}
}

func TestExplorerModel_TrySamples(t *testing.T) {
	m, _ := newTestModel(t, Options{Samples: []string{"neural networks", "database design"}})
	if m.input.Placeholder != "neural networks, database design, ..." {
		t.Errorf("unexpected placeholder %q", m.input.Placeholder)
	}
	if !strings.Contains(m.View(), "t try: neural networks") {
		t.Error("expected the next sample in the side panel")
	}

	m = update(t, m, runes("t"))
	if got := m.ctrl.QueryText(); got != "neural networks" {
		t.Fatalf("expected the first sample placed, got %q", got)
	}
	if m.input.Value() != "neural networks" || m.input.Focused() {
		t.Errorf("expected the sample in a blurred input, got %q focused=%v", m.input.Value(), m.input.Focused())
	}
	if q := m.ctrl.Query(); q == nil || q.Position.Dist(models.Vec2{X: 150, Y: 100}) > 50 {
		t.Errorf("expected the query near the ai cluster, got %v", q)
	}

	m = update(t, m, runes("t"))
	if got := m.ctrl.QueryText(); got != "database design" {
		t.Errorf("expected the second sample placed, got %q", got)
	}
	m = update(t, m, runes("t"))
	if got := m.ctrl.QueryText(); got != "neural networks" {
		t.Errorf("expected the samples to cycle, got %q", got)
	}

	// Typed into the input, t is just a letter.
	m = update(t, m, runes("/"))
	m = update(t, m, runes("t"))
	if got := m.ctrl.QueryText(); got != "neural networks" {
		t.Errorf("expected no sample while typing, got %q", got)
	}
}

func TestExplorerModel_TryWithoutSamples(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = update(t, m, runes("t"))
	if m.ctrl.Query() != nil {
		t.Error("expected no query without samples")
	}
	if strings.Contains(m.View(), "t try:") {
		t.Error("expected no sample hint without samples")
	}
}

func TestExplorerModel_TypingDoesNotTriggerKeys(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = update(t, m, runes("/"))
	m = update(t, m, runes("q+g"))

	if m.Quitting() {
		t.Error("typing q into the input must not quit")
	}
	if m.ctrl.View().Zoom != 1 {
		t.Error("typing + into the input must not zoom")
	}
	if !m.ctrl.ShowGrid() {
		t.Error("typing g into the input must not toggle the grid")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.input.Focused() {
		t.Error("expected esc to blur the input")
	}
}

func TestExplorerModel_EmptySubmit(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = update(t, m, runes("/"))
	m = update(t, m, runes("   "))

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(ExplorerModel)
	if cmd != nil {
		t.Error("expected no command for an empty query")
	}
	if m.ctrl.Query() != nil {
		t.Error("expected no query point")
	}
	if !m.input.Focused() {
		t.Error("expected input to stay focused")
	}
}

func TestExplorerModel_ViewKeys(t *testing.T) {
	m, _ := newTestModel(t, Options{PanStep: 10})

	m = update(t, m, runes("+"))
	if z := m.ctrl.View().Zoom; z != 1.2 {
		t.Errorf("expected zoom 1.2 after +, got %v", z)
	}
	m = update(t, m, runes("-"))
	m = update(t, m, runes("-"))
	if z := m.ctrl.View().Zoom; z < 0.79 || z > 0.81 {
		t.Errorf("expected zoom 0.8 after two -, got %v", z)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, runes("l"))
	v := m.ctrl.View()
	if v.PanX != -10 || v.PanY != 10 {
		t.Errorf("expected pan (-10, 10), got (%v, %v)", v.PanX, v.PanY)
	}

	m = update(t, m, runes("g"))
	if m.ctrl.ShowGrid() {
		t.Error("expected g to hide the grid")
	}

	m = update(t, m, runes("r"))
	v = m.ctrl.View()
	if v.Zoom != 1 || v.PanX != 0 || v.PanY != 0 {
		t.Errorf("expected reset view, got zoom %v pan (%v, %v)", v.Zoom, v.PanX, v.PanY)
	}
}

func TestExplorerModel_FilterKeys(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	tests := []struct {
		key  string
		want models.Filter
	}{
		{"2", models.FilterPrimary},
		{"3", models.FilterDetail},
		{"4", models.FilterAggregate},
		{"1", models.FilterAll},
	}
	for _, tt := range tests {
		m = update(t, m, runes(tt.key))
		if m.ctrl.Filter() != tt.want {
			t.Errorf("key %s: expected filter %s, got %s", tt.key, tt.want, m.ctrl.Filter())
		}
	}
}

func TestExplorerModel_HelpAndQuit(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m = update(t, m, runes("?"))
	if !m.help.ShowAll {
		t.Error("expected ? to expand help")
	}
	if !strings.Contains(m.View(), "aggregates") {
		t.Error("expected the full help to list filter keys")
	}

	updated, cmd := m.Update(runes("q"))
	m = updated.(ExplorerModel)
	if !m.Quitting() {
		t.Error("expected q to quit")
	}
	if cmd == nil {
		t.Error("expected tea.Quit command")
	}
	if m.View() != "" {
		t.Error("expected empty view after quitting")
	}
}

func TestExplorerModel_MouseHover(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	agg, ok := m.ctrl.Lookup("aggregate-0")
	if !ok {
		t.Fatal("missing aggregate-0")
	}
	col, row := int(agg.Position.X/5), int(agg.Position.Y/10)

	m = update(t, m, tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionMotion})
	if h := m.ctrl.Hovered(); h == nil || h.ID != "aggregate-0" {
		t.Fatalf("expected aggregate-0 hovered, got %v", h)
	}
	if !strings.Contains(m.View(), "ml_guide.md") {
		t.Error("expected tooltip in the side panel")
	}

	// Over the side panel counts as leaving the canvas.
	m = update(t, m, tea.MouseMsg{X: 130, Y: row, Action: tea.MouseActionMotion})
	if m.ctrl.Hovered() != nil {
		t.Error("expected hover cleared outside the canvas")
	}
}

func TestExplorerModel_MouseHoverCoarseCells(t *testing.T) {
	store, err := storage.NewMemoryPointStoreFromPoints([]models.Point{
		{ID: "aggregate-0", Kind: models.KindAggregate, Label: "notes.md", Position: models.Vec2{X: 143, Y: 182}},
	}, 0)
	if err != nil {
		t.Fatalf("NewMemoryPointStoreFromPoints error: %v", err)
	}
	ctrl, err := explorer.New(store, embeddings.NewKeywordProjector(nil, embeddings.ProjectorOptions{}), explorer.Options{})
	if err != nil {
		t.Fatalf("explorer.New error: %v", err)
	}
	m := NewExplorerModel(ctrl, Options{})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	// 42x22 cells: about 14.3x18.2 pixels each, wider than the pick radius.
	cols, rows := m.canvasSize()
	if cols != 42 || rows != 22 {
		t.Fatalf("expected a 42x22 canvas, got %dx%d", cols, rows)
	}
	col := int(143 / (600 / float64(cols)))
	row := int(182 / (400 / float64(rows)))

	m = update(t, m, tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionMotion})
	if h := m.ctrl.Hovered(); h == nil || h.ID != "aggregate-0" {
		t.Fatalf("expected the point's own cell [%d %d] to hover it, got %v", col, row, h)
	}

	hits := 0
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			m = update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
			if m.ctrl.Hovered() != nil {
				hits++
			}
		}
	}
	if hits == 0 {
		t.Error("expected at least one cell to hover the point")
	}
}

func TestExplorerModel_MouseWheelZooms(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = update(t, m, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if z := m.ctrl.View().Zoom; z != 1.2 {
		t.Errorf("expected wheel up to zoom in, got %v", z)
	}
	m = update(t, m, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if z := m.ctrl.View().Zoom; z != 1 {
		t.Errorf("expected wheel down to zoom out, got %v", z)
	}
}

func TestExplorerModel_StaleAnimationMsg(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = update(t, m, runes("/"))
	m = update(t, m, runes("web"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	_, cmd := m.Update(animationDoneMsg{seq: m.seq - 1})
	if cmd != nil {
		t.Error("expected stale animation message to be ignored")
	}

	// Still inside the window: the timer is re-armed.
	_, cmd = m.Update(animationDoneMsg{seq: m.seq})
	if cmd == nil {
		t.Error("expected timer to be re-armed while animating")
	}
}

func TestExplorerModel_Reload(t *testing.T) {
	var calls []string
	reload := func(path string) (storage.PointStore, embeddings.Projector, error) {
		calls = append(calls, path)
		specs := testSpecs()[:1]
		layout := storage.DefaultLayoutOptions()
		layout.ChunksPerCluster = 2
		store := storage.NewMemoryPointStore(specs, layout)
		return store, embeddings.NewKeywordProjector(embeddings.FamiliesFromClusters(specs), embeddings.ProjectorOptions{}), nil
	}
	m, _ := newTestModel(t, Options{Reload: reload})

	m = update(t, m, ConfigChangedMsg{Path: "/tmp/config.yaml"})
	if len(calls) != 1 || calls[0] != "/tmp/config.yaml" {
		t.Fatalf("expected one reload for the changed path, got %v", calls)
	}
	if n := len(m.ctrl.Points(models.FilterAll)); n != 3 {
		t.Errorf("expected 3 points after reload, got %d", n)
	}
	if !strings.Contains(m.Status(), "Reloaded 3 points") {
		t.Errorf("unexpected status %q", m.Status())
	}
}

func TestExplorerModel_ReloadFailure(t *testing.T) {
	reload := func(string) (storage.PointStore, embeddings.Projector, error) {
		return nil, nil, errors.New("bad yaml")
	}
	m, _ := newTestModel(t, Options{Reload: reload})
	before := len(m.ctrl.Points(models.FilterAll))

	m = update(t, m, ConfigChangedMsg{Path: "config.yaml"})
	if !strings.Contains(m.Status(), "bad yaml") {
		t.Errorf("expected failure in status, got %q", m.Status())
	}
	if n := len(m.ctrl.Points(models.FilterAll)); n != before {
		t.Errorf("expected layout kept on failure, got %d points (was %d)", n, before)
	}
}

func TestExplorerModel_ViewLayout(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	view := m.View()
	for _, want := range []string{"VECTORSCOPE", "Collections", "Primary Chunks", "Document Aggregates", "query>"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
	if !strings.Contains(view, "Press / to submit a query.") {
		t.Error("expected the empty similar-vectors hint")
	}
}
