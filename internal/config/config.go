// ABOUTME: Configuration management for vectorscope with YAML config loading.
// ABOUTME: Handles canvas, view, query, layout, theme and document settings plus ~ expansion.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/2389-research/vectorscope/internal/embeddings"
	"github.com/2389-research/vectorscope/internal/logger"
	"github.com/2389-research/vectorscope/internal/models"
)

// Projector backends selectable in the query section.
const (
	ProjectorKeyword   = "keyword"
	ProjectorEmbedding = "embedding"
)

// Config stores vectorscope configuration loaded from ~/.config/vectorscope/config.yaml.
type Config struct {
	Canvas    CanvasConfig     `yaml:"canvas"`
	View      ViewConfig       `yaml:"view"`
	Query     QueryConfig      `yaml:"query"`
	Layout    LayoutConfig     `yaml:"layout"`
	Themes    []ThemeConfig    `yaml:"themes"`
	Documents []DocumentConfig `yaml:"documents"`
	Log       LogConfig        `yaml:"log"`
}

// CanvasConfig holds the logical world extent.
type CanvasConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	GridSpacing float64 `yaml:"grid_spacing"`
}

// ViewConfig holds zoom bounds and keyboard pan distance.
type ViewConfig struct {
	MinZoom  float64 `yaml:"min_zoom"`
	MaxZoom  float64 `yaml:"max_zoom"`
	ZoomStep float64 `yaml:"zoom_step"`
	PanStep  float64 `yaml:"pan_step"`
}

// QueryConfig holds query projection, scoring and hit-test settings.
type QueryConfig struct {
	Projector          string        `yaml:"projector"`
	EmbeddingDim       int           `yaml:"embedding_dim"`
	FalloffRadius      float64       `yaml:"falloff_radius"`
	PickRadius         float64       `yaml:"pick_radius"`
	Jitter             float64       `yaml:"jitter"`
	HighlightThreshold float64       `yaml:"highlight_threshold"`
	AnimationDuration  time.Duration `yaml:"animation_duration"`
	TopN               int           `yaml:"top_n"`
	MinSimilarity      float64       `yaml:"min_similarity"`
	DefaultPosition    models.Vec2   `yaml:"default_position"`
	Samples            []string      `yaml:"samples"`
}

// LayoutConfig controls the seeded point generator. Seed 0 picks a fresh
// layout on every start.
type LayoutConfig struct {
	Seed             uint64  `yaml:"seed"`
	ChunksPerCluster int     `yaml:"chunks_per_cluster"`
	AggregateJitter  float64 `yaml:"aggregate_jitter"`
	RingMin          float64 `yaml:"ring_min"`
	RingMax          float64 `yaml:"ring_max"`
	ChunkJitter      float64 `yaml:"chunk_jitter"`
}

// ThemeConfig is a keyword family anchored at a cluster center. Theme order
// is match order: the first theme with a matching keyword wins.
type ThemeConfig struct {
	Name      string      `yaml:"name"`
	Center    models.Vec2 `yaml:"center"`
	Keywords  []string    `yaml:"keywords"`
	ChunkKind models.Kind `yaml:"chunk_kind,omitempty"`
}

// DocumentConfig places one document's aggregate and chunks in a theme.
type DocumentConfig struct {
	Label string `yaml:"label"`
	Theme string `yaml:"theme"`
}

// LogConfig holds optional logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in seven-document, four-theme layout.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{Width: 600, Height: 400, GridSpacing: 50},
		View:   ViewConfig{MinZoom: 0.5, MaxZoom: 3, ZoomStep: 0.2, PanStep: 20},
		Query: QueryConfig{
			Projector:          ProjectorKeyword,
			EmbeddingDim:       256,
			FalloffRadius:      200,
			PickRadius:         10,
			Jitter:             50,
			HighlightThreshold: 0.7,
			AnimationDuration:  2 * time.Second,
			TopN:               5,
			DefaultPosition:    embeddings.DefaultPosition,
			Samples: []string{
				"machine learning algorithms",
				"neural networks",
				"data structures",
				"web development",
				"database design",
			},
		},
		Layout: LayoutConfig{
			ChunksPerCluster: 8,
			AggregateJitter:  60,
			RingMin:          20,
			RingMax:          50,
			ChunkJitter:      20,
		},
		Themes: []ThemeConfig{
			{Name: "ai", Center: models.Vec2{X: 150, Y: 100}, Keywords: []string{"machine", "neural"}, ChunkKind: models.KindPrimary},
			{Name: "db", Center: models.Vec2{X: 400, Y: 280}, Keywords: []string{"database"}, ChunkKind: models.KindDetail},
			{Name: "cs", Center: models.Vec2{X: 450, Y: 120}, Keywords: []string{"algorithm", "data"}, ChunkKind: models.KindPrimary},
			{Name: "web", Center: models.Vec2{X: 200, Y: 300}, Keywords: []string{"web", "html"}, ChunkKind: models.KindDetail},
		},
		Documents: []DocumentConfig{
			{Label: "ml_guide.md", Theme: "ai"},
			{Label: "neural_nets.py", Theme: "ai"},
			{Label: "algorithms.cpp", Theme: "cs"},
			{Label: "data_structures.js", Theme: "cs"},
			{Label: "web_dev.html", Theme: "web"},
			{Label: "database_design.sql", Theme: "db"},
			{Label: "api_docs.md", Theme: "web"},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate rejects configs the explorer cannot run with.
func (c *Config) Validate() error {
	if !positive(c.Canvas.Width) || !positive(c.Canvas.Height) {
		return fmt.Errorf("canvas size must be positive, got %gx%g", c.Canvas.Width, c.Canvas.Height)
	}
	if !positive(c.Canvas.GridSpacing) {
		return fmt.Errorf("canvas grid_spacing must be positive")
	}
	if !positive(c.View.MinZoom) || !positive(c.View.MaxZoom) || c.View.MaxZoom < c.View.MinZoom {
		return fmt.Errorf("view zoom range [%g, %g] is invalid", c.View.MinZoom, c.View.MaxZoom)
	}
	if !positive(c.View.ZoomStep) {
		return fmt.Errorf("view zoom_step must be positive")
	}
	if c.View.PanStep < 0 || math.IsNaN(c.View.PanStep) {
		return fmt.Errorf("view pan_step must not be negative")
	}

	switch c.Query.Projector {
	case ProjectorKeyword, ProjectorEmbedding:
	default:
		return fmt.Errorf("unknown query projector %q (want %s or %s)", c.Query.Projector, ProjectorKeyword, ProjectorEmbedding)
	}
	if !positive(c.Query.FalloffRadius) {
		return fmt.Errorf("query falloff_radius must be positive")
	}
	if !positive(c.Query.PickRadius) {
		return fmt.Errorf("query pick_radius must be positive")
	}
	if c.Query.Jitter < 0 || math.IsNaN(c.Query.Jitter) {
		return fmt.Errorf("query jitter must not be negative")
	}
	if c.Query.MinSimilarity < 0 || c.Query.MinSimilarity > 1 {
		return fmt.Errorf("query min_similarity must be within [0, 1]")
	}
	if c.Query.TopN < 0 {
		return fmt.Errorf("query top_n must not be negative")
	}
	if !c.Query.DefaultPosition.IsFinite() {
		return fmt.Errorf("query default_position must be finite")
	}
	for i, s := range c.Query.Samples {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("query sample %d is empty", i)
		}
	}

	if c.Layout.ChunksPerCluster < 0 {
		return fmt.Errorf("layout chunks_per_cluster must not be negative")
	}
	if c.Layout.RingMin < 0 || c.Layout.RingMax < c.Layout.RingMin {
		return fmt.Errorf("layout ring band [%g, %g] is invalid", c.Layout.RingMin, c.Layout.RingMax)
	}

	themes := make(map[string]bool, len(c.Themes))
	for i, th := range c.Themes {
		if th.Name == "" {
			return fmt.Errorf("theme %d has no name", i)
		}
		if themes[th.Name] {
			return fmt.Errorf("duplicate theme %q", th.Name)
		}
		if th.ChunkKind != "" && !th.ChunkKind.IsChunk() {
			return fmt.Errorf("theme %q has invalid chunk_kind %q", th.Name, th.ChunkKind)
		}
		if !th.Center.IsFinite() {
			return fmt.Errorf("theme %q center must be finite", th.Name)
		}
		themes[th.Name] = true
	}

	labels := make(map[string]bool, len(c.Documents))
	for i, doc := range c.Documents {
		if doc.Label == "" {
			return fmt.Errorf("document %d has no label", i)
		}
		if labels[doc.Label] {
			return fmt.Errorf("duplicate document %q", doc.Label)
		}
		if !themes[doc.Theme] {
			return fmt.Errorf("document %q references unknown theme %q", doc.Label, doc.Theme)
		}
		labels[doc.Label] = true
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func (c *Config) theme(name string) (ThemeConfig, bool) {
	for _, th := range c.Themes {
		if th.Name == name {
			return th, true
		}
	}
	return ThemeConfig{}, false
}

// ClusterSpecs converts documents into layout cluster specs. Documents with
// an unknown theme are skipped.
func (c *Config) ClusterSpecs() []models.ClusterSpec {
	var specs []models.ClusterSpec
	for _, doc := range c.Documents {
		th, ok := c.theme(doc.Theme)
		if !ok {
			continue
		}
		specs = append(specs, models.ClusterSpec{
			Label:     doc.Label,
			Center:    th.Center,
			Theme:     th.Name,
			Keywords:  th.Keywords,
			ChunkKind: th.ChunkKind,
		})
	}
	return specs
}

// Families returns the keyword families in theme order.
func (c *Config) Families() []embeddings.Family {
	var specs []models.ClusterSpec
	for _, th := range c.Themes {
		specs = append(specs, models.ClusterSpec{Label: th.Name, Center: th.Center, Theme: th.Name, Keywords: th.Keywords})
	}
	return embeddings.FamiliesFromClusters(specs)
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "vectorscope", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads config from the default path. Returns the default config if
// the file doesn't exist.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads config from path, layering the file over the defaults.
// Lists in the file (themes, documents) replace the default lists wholesale.
func LoadFrom(path string) (*Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes config to the default path.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes config to path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	path, err := ExpandPath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
