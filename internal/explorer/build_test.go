// ABOUTME: Tests for building a controller from configuration.
// ABOUTME: Verifies layout counts, seeding, projector selection, and option mapping.
package explorer

import (
	"math"
	"testing"

	"github.com/2389-research/vectorscope/internal/config"
	"github.com/2389-research/vectorscope/internal/embeddings"
	"github.com/2389-research/vectorscope/internal/logger"
	"github.com/2389-research/vectorscope/internal/models"
)

func TestFromConfigDefaultLayout(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.Seed = 5

	c, err := FromConfig(cfg, logger.Nop())
	if err != nil {
		t.Fatalf("FromConfig error: %v", err)
	}
	counts := c.Counts()
	if counts[models.KindAggregate] != 7 {
		t.Errorf("expected 7 aggregates, got %d", counts[models.KindAggregate])
	}
	// ai and cs documents are primary, web and db are detail
	if counts[models.KindPrimary] != 32 || counts[models.KindDetail] != 24 {
		t.Errorf("expected 32 primary and 24 detail chunks, got %d and %d",
			counts[models.KindPrimary], counts[models.KindDetail])
	}
}

func TestFromConfigSeedIsDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.Seed = 11

	a, err := FromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("FromConfig error: %v", err)
	}
	b, err := FromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("FromConfig error: %v", err)
	}
	pa, pb := a.Visible(), b.Visible()
	if len(pa) != len(pb) {
		t.Fatalf("point counts differ: %d vs %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i].ID != pb[i].ID || pa[i].Position != pb[i].Position {
			t.Fatalf("point %d differs: %v vs %v", i, pa[i], pb[i])
		}
	}
}

func TestDatabaseQueryPrefersDatabaseTheme(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.Seed = 3

	c, err := FromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("FromConfig error: %v", err)
	}
	c.SubmitQuery("database design")
	q := c.Query().Position
	if math.Abs(q.X-400) > 25 || math.Abs(q.Y-280) > 25 {
		t.Errorf("expected query near the db center, got %v", q)
	}
}

func TestComponentsEmbeddingProjector(t *testing.T) {
	cfg := config.Default()
	cfg.Query.Projector = config.ProjectorEmbedding
	cfg.Query.Jitter = 0

	_, projector, err := Components(cfg)
	if err != nil {
		t.Fatalf("Components error: %v", err)
	}
	if _, ok := projector.(*embeddings.EmbeddingProjector); !ok {
		t.Fatalf("expected embedding projector, got %T", projector)
	}

	cfg.Query.Projector = "umap"
	if _, _, err := Components(cfg); err == nil {
		t.Error("expected error for unknown projector")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.View.MaxZoom = 5
	cfg.Query.PickRadius = 12

	c, err := FromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("FromConfig error: %v", err)
	}
	for i := 0; i < 40; i++ {
		c.ZoomIn()
	}
	if c.View().Zoom != 5 {
		t.Errorf("expected configured max zoom 5, got %f", c.View().Zoom)
	}

	ropts := RenderOptions(cfg)
	if ropts.GridSpacing != 50 || ropts.HighlightThreshold != 0.7 {
		t.Errorf("unexpected render options %+v", ropts)
	}
}

func TestConfiguredOriginDefaultPosition(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.Seed = 7
	cfg.Query.DefaultPosition = models.Vec2{}

	c, err := FromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("FromConfig error: %v", err)
	}
	if !c.SubmitQuery("quantum gardening") {
		t.Fatal("expected unmatched query to be placed")
	}
	if got := c.Query().Position; got != (models.Vec2{}) {
		t.Errorf("expected unmatched query at the configured origin, got %v", got)
	}
}
