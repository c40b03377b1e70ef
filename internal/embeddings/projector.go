// ABOUTME: Query projectors that map free text to a 2D world position.
// ABOUTME: Keyword-family heuristic and an embedding-backed projector share one interface.
package embeddings

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/2389-research/vectorscope/internal/models"
)

// DefaultPosition is where unmatched queries land, the middle of a 600x400 world.
var DefaultPosition = models.Vec2{X: 300, Y: 200}

// Projector turns query text into a world-space position. It returns false
// for empty or whitespace-only text, which callers treat as "no query".
type Projector interface {
	Project(text string) (models.Vec2, bool)
}

// Family is a keyword family anchored at a cluster center.
type Family struct {
	Name     string
	Center   models.Vec2
	Keywords []string
}

// FamiliesFromClusters groups cluster specs by theme, keeping first-seen
// order. A theme's center is the center of its first cluster.
func FamiliesFromClusters(specs []models.ClusterSpec) []Family {
	var families []Family
	index := make(map[string]int)
	for _, spec := range specs {
		name := spec.ThemeName()
		i, ok := index[name]
		if !ok {
			i = len(families)
			index[name] = i
			families = append(families, Family{Name: name, Center: spec.Center})
		}
		for _, kw := range spec.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" || containsString(families[i].Keywords, kw) {
				continue
			}
			families[i].Keywords = append(families[i].Keywords, kw)
		}
	}
	return families
}

// ProjectorOptions holds the knobs shared by all projectors.
type ProjectorOptions struct {
	Default *models.Vec2 // nil lands unmatched queries on DefaultPosition
	Jitter  float64      // full width of the jitter box around the matched center
	Rand    *rand.Rand   // nil seeds from the runtime

	fallback models.Vec2
}

func (o ProjectorOptions) withDefaults() ProjectorOptions {
	o.fallback = DefaultPosition
	if o.Default != nil {
		o.fallback = *o.Default
	}
	if o.Jitter < 0 || math.IsNaN(o.Jitter) {
		o.Jitter = 0
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return o
}

func (o ProjectorOptions) jitter(center models.Vec2) models.Vec2 {
	if o.Jitter == 0 {
		return center
	}
	return models.Vec2{
		X: center.X + (o.Rand.Float64()-0.5)*o.Jitter,
		Y: center.Y + (o.Rand.Float64()-0.5)*o.Jitter,
	}
}

// KeywordProjector places a query near the first family whose keywords
// appear in the text. It stands in for a real embedding pipeline.
type KeywordProjector struct {
	families []Family
	opts     ProjectorOptions
}

// NewKeywordProjector creates a keyword projector over the given families.
func NewKeywordProjector(families []Family, opts ProjectorOptions) *KeywordProjector {
	return &KeywordProjector{
		families: families,
		opts:     opts.withDefaults(),
	}
}

// Project returns a jittered position near the matching family's center, or
// the default position when no family matches.
func (p *KeywordProjector) Project(text string) (models.Vec2, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return p.opts.fallback, false
	}
	if f, ok := p.Match(text); ok {
		return p.opts.jitter(f.Center), true
	}
	return p.opts.fallback, true
}

// Match returns the first family with a keyword contained in text.
func (p *KeywordProjector) Match(text string) (Family, bool) {
	text = strings.ToLower(text)
	for _, f := range p.families {
		for _, kw := range f.Keywords {
			if strings.Contains(text, kw) {
				return f, true
			}
		}
	}
	return Family{}, false
}

type anchor struct {
	family Family
	vec    []float32
}

// EmbeddingProjector embeds the query and blends family centers weighted by
// the softmax of their cosine similarity to the query.
type EmbeddingProjector struct {
	embedder    Embedder
	anchors     []anchor
	opts        ProjectorOptions
	minScore    float64
	temperature float64
}

// EmbeddingOptions configures an EmbeddingProjector.
type EmbeddingOptions struct {
	ProjectorOptions
	MinScore    float64 // best anchor score below this falls back to the default; 0 means 0.1
	Temperature float64 // softmax temperature; lower is sharper
}

// NewEmbeddingProjector embeds every family's name and keywords as its anchor.
func NewEmbeddingProjector(embedder Embedder, families []Family, opts EmbeddingOptions) (*EmbeddingProjector, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	p := &EmbeddingProjector{
		embedder:    embedder,
		opts:        opts.ProjectorOptions.withDefaults(),
		minScore:    opts.MinScore,
		temperature: opts.Temperature,
	}
	if p.temperature <= 0 {
		p.temperature = 0.1
	}
	if p.minScore == 0 {
		p.minScore = 0.1
	}

	for _, f := range families {
		text := f.Name + " " + strings.Join(f.Keywords, " ")
		vec, err := embedder.Embed(text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed family %s: %w", f.Name, err)
		}
		p.anchors = append(p.anchors, anchor{family: f, vec: vec})
	}
	return p, nil
}

// Project returns the similarity-weighted blend of family centers. Embedding
// failures and weak matches degrade to the default position.
func (p *EmbeddingProjector) Project(text string) (models.Vec2, bool) {
	if strings.TrimSpace(text) == "" {
		return p.opts.fallback, false
	}
	if len(p.anchors) == 0 {
		return p.opts.fallback, true
	}
	vec, err := p.embedder.Embed(text)
	if err != nil {
		return p.opts.fallback, true
	}

	scores := make([]float64, len(p.anchors))
	best := math.Inf(-1)
	for i, a := range p.anchors {
		scores[i] = CosineSimilarity(vec, a.vec)
		best = math.Max(best, scores[i])
	}
	if best < p.minScore {
		return p.opts.fallback, true
	}

	var sum float64
	var pos models.Vec2
	for i, a := range p.anchors {
		w := math.Exp((scores[i] - best) / p.temperature)
		sum += w
		pos = pos.Add(a.family.Center.Scale(w))
	}
	return p.opts.jitter(pos.Scale(1 / sum)), true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
