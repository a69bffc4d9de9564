package skillkit

import (
	"context"
	"fmt"
	"sort"
)

// Composite score weights. The similarity signal dominates, with structured
// metadata providing the remainder. Weights sum to 1.0 so the composite is
// bounded to [0, 1] when every component is.
const (
	WeightPriority   = 0.25
	WeightPrecedence = 0.15
	WeightScope      = 0.20
	WeightSimilarity = 0.40
)

// SimilarityProvider supplies a relevance score for a skill against a
// request context. Scores must be bounded to [0, 1]; the engine clamps
// out-of-range values defensively. How the score is computed (lexical
// matching, embeddings, a blend) is the provider's business.
type SimilarityProvider interface {
	Similarity(ctx context.Context, ictx *InvocationContext, def *SkillDefinition) (float64, error)
}

// precedenceWeight maps tiers to evenly spaced weights: the highest tier
// scores 1.0, the lowest 0.2.
func precedenceWeight(p Precedence) float64 {
	for i, tier := range precedenceOrder {
		if p == tier {
			return 1.0 - 0.2*float64(i)
		}
	}
	return 0.2
}

// declaredPriority returns the effective priority of a definition: the
// declared value clamped to [0, 100], or DefaultPriority when the field
// was left out.
func declaredPriority(def *SkillDefinition) int {
	if def.Priority == nil {
		return DefaultPriority
	}
	return clampPriority(*def.Priority)
}

// compositeScore combines the structured signals with the injected
// similarity score. All components are bounded to [0, 1] beforehand.
func compositeScore(def *SkillDefinition, scopeBonus, similarity float64) float64 {
	return WeightPriority*(float64(declaredPriority(def))/100) +
		WeightPrecedence*precedenceWeight(def.Precedence) +
		WeightScope*clampUnit(scopeBonus) +
		WeightSimilarity*clampUnit(similarity)
}

// rankSnapshot scores every eligible skill in the snapshot against the
// context and returns a deterministic shortlist.
//
// Skills whose declared scope does not match the context are excluded
// outright, regardless of similarity. Only the highest version of each name
// is considered. Ties on composite score break by higher declared priority,
// then ascending name, so identical inputs always produce identical
// orderings.
func rankSnapshot(ctx context.Context, snapshot *Snapshot, ictx *InvocationContext, provider SimilarityProvider, limit int) ([]RankedCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("skill ranking cancelled: %w", err)
	}

	names := snapshot.Names()
	candidates := make([]RankedCandidate, 0, len(names))
	priorities := make(map[string]int, len(names))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("skill ranking cancelled: %w", err)
		}
		def, ok := snapshot.Latest(name)
		if !ok {
			continue
		}
		match := MatchScope(def.Scope, ictx)
		if !match.Eligible {
			continue
		}
		similarity := 0.0
		if provider != nil {
			score, err := provider.Similarity(ctx, ictx, def)
			if err != nil {
				return nil, fmt.Errorf("similarity provider failed for %s: %w", name, err)
			}
			similarity = clampUnit(score)
		}
		priorities[name] = declaredPriority(def)
		candidates = append(candidates, RankedCandidate{
			Name:       def.Name,
			Version:    def.Version,
			Score:      compositeScore(def, match.Bonus, similarity),
			Similarity: similarity,
			Match:      match,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if priorities[a.Name] != priorities[b.Name] {
			return priorities[a.Name] > priorities[b.Name]
		}
		return a.Name < b.Name
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
