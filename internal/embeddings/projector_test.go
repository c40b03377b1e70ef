// ABOUTME: Tests for keyword and embedding query projectors.
// ABOUTME: Seeds the jitter source so cluster-band assertions are deterministic.
package embeddings

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/2389-research/vectorscope/internal/models"
)

var (
	aiCenter  = models.Vec2{X: 150, Y: 100}
	webCenter = models.Vec2{X: 200, Y: 300}
)

func testFamilies() []Family {
	return []Family{
		{Name: "ai", Center: aiCenter, Keywords: []string{"machine", "neural"}},
		{Name: "web", Center: webCenter, Keywords: []string{"web", "html"}},
	}
}

func seeded() ProjectorOptions {
	return ProjectorOptions{Jitter: 50, Rand: rand.New(rand.NewPCG(7, 11))}
}

func TestKeywordProjectorEmptyInput(t *testing.T) {
	p := NewKeywordProjector(testFamilies(), seeded())
	for _, text := range []string{"", "   ", "\t\n"} {
		pos, ok := p.Project(text)
		if ok {
			t.Errorf("Project(%q) reported a query", text)
		}
		if pos != DefaultPosition {
			t.Errorf("Project(%q) = %v, want default %v", text, pos, DefaultPosition)
		}
	}
}

func TestKeywordProjectorStaysInFamilyBand(t *testing.T) {
	p := NewKeywordProjector(testFamilies(), seeded())
	for i := 0; i < 100; i++ {
		pos, ok := p.Project("neural networks")
		if !ok {
			t.Fatal("expected a query position")
		}
		if math.Abs(pos.X-aiCenter.X) > 25 || math.Abs(pos.Y-aiCenter.Y) > 25 {
			t.Fatalf("projection %v left the ai jitter band", pos)
		}
		if pos.Dist(aiCenter) >= pos.Dist(webCenter) {
			t.Fatalf("projection %v is closer to web than ai", pos)
		}
	}
}

func TestKeywordProjectorCaseInsensitive(t *testing.T) {
	p := NewKeywordProjector(testFamilies(), ProjectorOptions{})
	pos, ok := p.Project("Modern HTML layouts")
	if !ok {
		t.Fatal("expected a query position")
	}
	if pos != webCenter {
		t.Errorf("expected exact web center with zero jitter, got %v", pos)
	}
}

func TestKeywordProjectorNoMatch(t *testing.T) {
	p := NewKeywordProjector(testFamilies(), seeded())
	pos, ok := p.Project("quantum chromodynamics")
	if !ok {
		t.Fatal("expected non-empty text to count as a query")
	}
	if pos != DefaultPosition {
		t.Errorf("expected default position for unmatched text, got %v", pos)
	}
}

func TestKeywordProjectorFirstFamilyWins(t *testing.T) {
	p := NewKeywordProjector(testFamilies(), ProjectorOptions{})
	f, ok := p.Match("machine learning for the web")
	if !ok {
		t.Fatal("expected a match")
	}
	if f.Name != "ai" {
		t.Errorf("expected first family ai to win, got %s", f.Name)
	}
}

func TestKeywordProjectorCustomDefault(t *testing.T) {
	def := models.Vec2{X: 10, Y: 20}
	p := NewKeywordProjector(nil, ProjectorOptions{Default: &def})
	if pos, _ := p.Project("anything"); pos != def {
		t.Errorf("expected custom default %v, got %v", def, pos)
	}
}

func TestProjectorOriginDefault(t *testing.T) {
	origin := models.Vec2{}
	p := NewKeywordProjector(nil, ProjectorOptions{Default: &origin})
	if pos, ok := p.Project("anything"); !ok || pos != origin {
		t.Errorf("expected (0, 0) default to be kept, got %v (ok=%v)", pos, ok)
	}

	ep, err := NewEmbeddingProjector(NewHashEmbedder(64), nil, EmbeddingOptions{
		ProjectorOptions: ProjectorOptions{Default: &origin},
	})
	if err != nil {
		t.Fatalf("NewEmbeddingProjector error: %v", err)
	}
	if pos, _ := ep.Project("anything"); pos != origin {
		t.Errorf("expected embedding projector to keep (0, 0) default, got %v", pos)
	}
}

func TestFamiliesFromClusters(t *testing.T) {
	specs := []models.ClusterSpec{
		{Label: "ml_guide.md", Theme: "ai", Center: aiCenter, Keywords: []string{"Machine", "neural"}},
		{Label: "web_dev.html", Theme: "web", Center: webCenter, Keywords: []string{"web"}},
		{Label: "neural_nets.py", Theme: "ai", Center: models.Vec2{X: 999, Y: 999}, Keywords: []string{"neural", "deep"}},
		{Label: "solo", Center: models.Vec2{X: 1, Y: 2}},
	}
	families := FamiliesFromClusters(specs)

	if len(families) != 3 {
		t.Fatalf("expected 3 families, got %d", len(families))
	}
	ai := families[0]
	if ai.Name != "ai" || ai.Center != aiCenter {
		t.Errorf("expected ai family at first cluster center, got %s at %v", ai.Name, ai.Center)
	}
	want := []string{"machine", "neural", "deep"}
	if len(ai.Keywords) != len(want) {
		t.Fatalf("expected keywords %v, got %v", want, ai.Keywords)
	}
	for i, kw := range want {
		if ai.Keywords[i] != kw {
			t.Errorf("keyword %d = %q, want %q", i, ai.Keywords[i], kw)
		}
	}
	if families[2].Name != "solo" {
		t.Errorf("expected label as theme fallback, got %q", families[2].Name)
	}
}

func TestEmbeddingProjectorLandsNearMatchingFamily(t *testing.T) {
	p, err := NewEmbeddingProjector(NewHashEmbedder(256), testFamilies(), EmbeddingOptions{})
	if err != nil {
		t.Fatalf("NewEmbeddingProjector error: %v", err)
	}
	pos, ok := p.Project("neural networks")
	if !ok {
		t.Fatal("expected a query position")
	}
	if pos.Dist(aiCenter) > 25 {
		t.Errorf("expected projection near ai center, got %v", pos)
	}
}

func TestEmbeddingProjectorWeakMatchFallsBack(t *testing.T) {
	p, err := NewEmbeddingProjector(NewHashEmbedder(256), testFamilies(), EmbeddingOptions{})
	if err != nil {
		t.Fatalf("NewEmbeddingProjector error: %v", err)
	}
	pos, ok := p.Project("zzzz qqqq")
	if !ok {
		t.Fatal("expected non-empty text to count as a query")
	}
	if pos != DefaultPosition {
		t.Errorf("expected default position, got %v", pos)
	}
	if _, ok := p.Project("  "); ok {
		t.Error("expected whitespace to be no query")
	}
}

func TestEmbeddingProjectorDeterministicWithoutJitter(t *testing.T) {
	p, err := NewEmbeddingProjector(&testEmbedder{dim: 8}, testFamilies(), EmbeddingOptions{MinScore: -1})
	if err != nil {
		t.Fatalf("NewEmbeddingProjector error: %v", err)
	}
	a, _ := p.Project("some query")
	b, _ := p.Project("some query")
	if a != b {
		t.Errorf("expected identical projections without jitter, got %v and %v", a, b)
	}
	// a convex blend never leaves the box spanned by the family centers
	if a.X < 150 || a.X > 200 || a.Y < 100 || a.Y > 300 {
		t.Errorf("blend %v escaped the family bounding box", a)
	}
}

func TestNewEmbeddingProjectorErrors(t *testing.T) {
	if _, err := NewEmbeddingProjector(nil, testFamilies(), EmbeddingOptions{}); err == nil {
		t.Error("expected error for nil embedder")
	}
	if _, err := NewEmbeddingProjector(failingEmbedder{}, testFamilies(), EmbeddingOptions{}); err == nil {
		t.Error("expected error when anchors cannot be embedded")
	}
}

func TestEmbeddingProjectorNoFamilies(t *testing.T) {
	p, err := NewEmbeddingProjector(failingEmbedder{}, nil, EmbeddingOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pos, ok := p.Project("anything")
	if !ok || pos != DefaultPosition {
		t.Errorf("expected default position with no anchors, got %v (%v)", pos, ok)
	}
}
