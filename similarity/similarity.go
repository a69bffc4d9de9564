// Package similarity provides relevance scoring implementations for the
// skillkit ranking engine.
//
// A provider returns a score in [0, 1] describing how relevant a skill is
// to a request context. The Lexical provider here scores by term overlap;
// callers with an embedding pipeline can implement
// skillkit.SimilarityProvider over it instead, as long as the returned
// score stays bounded.
package similarity

import (
	"context"
	"math"
	"strings"

	"github.com/deepnoodle-ai/skillkit"
)

// Lexical scores skills by cosine similarity between term-frequency vectors
// of the context text and the skill's name, description, and tags. It needs
// no external services and is fully deterministic, which makes it the
// default choice when no embedding provider is wired in.
type Lexical struct{}

// NewLexical returns a lexical similarity provider.
func NewLexical() *Lexical {
	return &Lexical{}
}

// Similarity implements skillkit.SimilarityProvider.
func (p *Lexical) Similarity(_ context.Context, ictx *skillkit.InvocationContext, def *skillkit.SkillDefinition) (float64, error) {
	if ictx == nil || ictx.Text == "" {
		return 0, nil
	}
	query := termFrequencies(ictx.Text)
	if len(query) == 0 {
		return 0, nil
	}

	var doc strings.Builder
	doc.WriteString(strings.ReplaceAll(def.Name, "-", " "))
	doc.WriteString(" ")
	doc.WriteString(def.Description)
	for _, tag := range def.Tags {
		doc.WriteString(" ")
		doc.WriteString(tag)
	}
	document := termFrequencies(doc.String())
	if len(document) == 0 {
		return 0, nil
	}

	return cosine(query, document), nil
}

// termFrequencies tokenizes text into lowercase alphanumeric terms and
// counts occurrences. Single-character terms are dropped as noise.
func termFrequencies(text string) map[string]float64 {
	terms := map[string]float64{}
	var current strings.Builder
	flush := func() {
		if current.Len() > 1 {
			terms[current.String()]++
		}
		current.Reset()
	}
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return terms
}

// cosine returns the cosine similarity of two term-frequency vectors. The
// result is bounded to [0, 1] because frequencies are non-negative.
func cosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for term, count := range a {
		normA += count * count
		if other, ok := b[term]; ok {
			dot += count * other
		}
	}
	for _, count := range b {
		normB += count * count
	}
	if dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Static returns fixed scores keyed by skill name, defaulting to zero for
// unknown names. Useful for tests and deterministic wiring.
type Static map[string]float64

// Similarity implements skillkit.SimilarityProvider.
func (s Static) Similarity(_ context.Context, _ *skillkit.InvocationContext, def *skillkit.SkillDefinition) (float64, error) {
	return s[def.Name], nil
}
