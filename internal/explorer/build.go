// ABOUTME: Assembles an explorer controller from a loaded configuration.
// ABOUTME: Picks the projector backend and seeds the layout generator.
package explorer

import (
	"fmt"
	"math/rand/v2"

	"github.com/2389-research/vectorscope/internal/config"
	"github.com/2389-research/vectorscope/internal/embeddings"
	"github.com/2389-research/vectorscope/internal/logger"
	"github.com/2389-research/vectorscope/internal/render"
	"github.com/2389-research/vectorscope/internal/storage"
	"github.com/2389-research/vectorscope/internal/view"
)

// Components builds the point store and projector described by cfg.
func Components(cfg *config.Config) (storage.PointStore, embeddings.Projector, error) {
	rng := newRand(cfg.Layout.Seed)

	store := storage.NewMemoryPointStore(cfg.ClusterSpecs(), storage.LayoutOptions{
		ChunksPerCluster: cfg.Layout.ChunksPerCluster,
		AggregateJitter:  cfg.Layout.AggregateJitter,
		RingMin:          cfg.Layout.RingMin,
		RingMax:          cfg.Layout.RingMax,
		ChunkJitter:      cfg.Layout.ChunkJitter,
		FalloffRadius:    cfg.Query.FalloffRadius,
		Rand:             rng,
	})

	def := cfg.Query.DefaultPosition
	popts := embeddings.ProjectorOptions{
		Default: &def,
		Jitter:  cfg.Query.Jitter,
		Rand:    rng,
	}
	switch cfg.Query.Projector {
	case config.ProjectorEmbedding:
		p, err := embeddings.NewEmbeddingProjector(embeddings.NewHashEmbedder(cfg.Query.EmbeddingDim), cfg.Families(), embeddings.EmbeddingOptions{
			ProjectorOptions: popts,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build embedding projector: %w", err)
		}
		return store, p, nil
	case config.ProjectorKeyword, "":
		return store, embeddings.NewKeywordProjector(cfg.Families(), popts), nil
	}
	return nil, nil, fmt.Errorf("unknown projector %q", cfg.Query.Projector)
}

// FromConfig builds a ready controller for cfg.
func FromConfig(cfg *config.Config, log *logger.Logger) (*Controller, error) {
	store, projector, err := Components(cfg)
	if err != nil {
		return nil, err
	}
	return New(store, projector, OptionsFromConfig(cfg, log))
}

// OptionsFromConfig maps the view and query sections onto controller options.
func OptionsFromConfig(cfg *config.Config, log *logger.Logger) Options {
	return Options{
		PickRadius:        cfg.Query.PickRadius,
		AnimationDuration: cfg.Query.AnimationDuration,
		Bounds: view.Bounds{
			MinZoom:  cfg.View.MinZoom,
			MaxZoom:  cfg.View.MaxZoom,
			ZoomStep: cfg.View.ZoomStep,
		},
		Logger: log,
	}
}

// RenderOptions maps the canvas and query sections onto renderer options.
func RenderOptions(cfg *config.Config) render.Options {
	opts := render.DefaultOptions()
	opts.WorldWidth = cfg.Canvas.Width
	opts.WorldHeight = cfg.Canvas.Height
	opts.GridSpacing = cfg.Canvas.GridSpacing
	opts.HighlightThreshold = cfg.Query.HighlightThreshold
	return opts
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}
