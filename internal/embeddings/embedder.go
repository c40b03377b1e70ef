// ABOUTME: Embedding interface and a dependency-free hashing implementation.
// ABOUTME: Lets the query projector run on vectors without a model server.
package embeddings

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Embedder generates vector embeddings from text.
type Embedder interface {
	// Embed returns a vector embedding for the given text.
	Embed(text string) ([]float32, error)

	// Dimension returns the dimensionality of the output vectors.
	Dimension() int
}

// HashEmbedder maps text to a feature-hashed bag of words and character
// trigrams. Same text always produces the same unit vector.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates a hashing embedder with the given dimension.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = 256
	}
	return &HashEmbedder{dim: dim}
}

// Embed returns the normalized feature vector for text. Text without any
// word characters yields the zero vector.
func (e *HashEmbedder) Embed(text string) ([]float32, error) {
	vec := make([]float32, e.dim)
	for _, tok := range tokenize(text) {
		e.addFeature(vec, "w:"+tok, 1)
		padded := "^" + tok + "$"
		r := []rune(padded)
		for i := 0; i+3 <= len(r); i++ {
			e.addFeature(vec, "t:"+string(r[i:i+3]), 0.5)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec, nil
}

// Dimension returns the dimensionality of the output vectors.
func (e *HashEmbedder) Dimension() int {
	return e.dim
}

func (e *HashEmbedder) addFeature(vec []float32, feature string, weight float32) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum32()
	idx := int(sum % uint32(e.dim))
	// top bit picks the sign so collisions partly cancel
	if sum&(1<<31) != 0 {
		weight = -weight
	}
	vec[idx] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
