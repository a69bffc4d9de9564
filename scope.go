package skillkit

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
)

// Scope scoring constants. These are deliberately tunable: the relative
// contribution of each dimension is a product decision, not a correctness
// requirement. The total bonus is always capped at MaxScopeBonus.
const (
	// TriggerBonus is added for each trigger keyword found in the
	// context text.
	TriggerBonus = 0.25

	// PathBonus is added once when any declared path pattern matches an
	// active path.
	PathBonus = 0.2

	// LanguageBonus is added once when any declared language pattern
	// matches an active language.
	LanguageBonus = 0.2

	// MaxScopeBonus caps the total scope bonus.
	MaxScopeBonus = 1.0
)

// ScopeMatch is the result of evaluating a skill's scope against a request
// context. The Matched fields list the declared rule values that found a
// match, for explainability in ranking results.
type ScopeMatch struct {
	// Eligible is false when any declared dimension found no match at
	// all. An ineligible skill is excluded from ranking outright.
	Eligible bool `json:"eligible"`

	// Bonus is the scope contribution to the composite score, in
	// [0, MaxScopeBonus].
	Bonus float64 `json:"bonus"`

	MatchedTriggers  []string `json:"matched_triggers,omitempty"`
	MatchedPaths     []string `json:"matched_paths,omitempty"`
	MatchedLanguages []string `json:"matched_languages,omitempty"`
}

// MatchScope evaluates a scope rule against a request context.
//
// Dimensions are conjunctive: every declared dimension must independently
// match at least once or the skill is wholly ineligible. An absent dimension
// is unconstrained. A nil or empty scope is always eligible with bonus 0.
func MatchScope(scope *ScopeRule, ictx *InvocationContext) ScopeMatch {
	if scope.Empty() {
		return ScopeMatch{Eligible: true}
	}
	if ictx == nil {
		ictx = &InvocationContext{}
	}

	match := ScopeMatch{Eligible: true}

	if len(scope.Paths) > 0 {
		match.MatchedPaths = matchPaths(scope.Paths, ictx.Paths)
		if len(match.MatchedPaths) == 0 {
			return ScopeMatch{}
		}
		match.Bonus += PathBonus
	}

	if len(scope.Languages) > 0 {
		match.MatchedLanguages = matchLanguages(scope.Languages, ictx.Languages)
		if len(match.MatchedLanguages) == 0 {
			return ScopeMatch{}
		}
		match.Bonus += LanguageBonus
	}

	if len(scope.Triggers) > 0 {
		match.MatchedTriggers = matchTriggers(scope.Triggers, ictx.Text)
		if len(match.MatchedTriggers) == 0 {
			return ScopeMatch{}
		}
		match.Bonus += TriggerBonus * float64(len(match.MatchedTriggers))
	}

	if match.Bonus > MaxScopeBonus {
		match.Bonus = MaxScopeBonus
	}
	return match
}

// matchPaths returns the declared patterns that match at least one active
// path. Patterns use doublestar glob semantics: "**" spans directory
// boundaries, "*" matches within one segment. Invalid patterns never match.
func matchPaths(patterns, paths []string) []string {
	var matched []string
	for _, pattern := range patterns {
		for _, path := range paths {
			ok, err := doublestar.Match(pattern, path)
			if err != nil {
				break
			}
			if ok {
				matched = append(matched, pattern)
				break
			}
		}
	}
	return matched
}

// matchLanguages returns the declared language patterns that match at least
// one active language. Patterns support wildcards ("python*" matches
// "python3"); matching is case-insensitive. A pattern that fails to compile
// falls back to literal comparison.
func matchLanguages(patterns, languages []string) []string {
	var matched []string
	for _, pattern := range patterns {
		lowered := strings.ToLower(pattern)
		g, err := glob.Compile(lowered)
		for _, language := range languages {
			candidate := strings.ToLower(language)
			if err != nil {
				if candidate == lowered {
					matched = append(matched, pattern)
					break
				}
				continue
			}
			if g.Match(candidate) {
				matched = append(matched, pattern)
				break
			}
		}
	}
	return matched
}

// matchTriggers returns the trigger keywords present in the context text.
// Matching is a case-insensitive substring test.
func matchTriggers(triggers []string, text string) []string {
	if text == "" {
		return nil
	}
	lowered := strings.ToLower(text)
	var matched []string
	for _, trigger := range triggers {
		if trigger == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(trigger)) {
			matched = append(matched, trigger)
		}
	}
	return matched
}
