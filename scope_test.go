package skillkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoScopeAlwaysEligible(t *testing.T) {
	match := MatchScope(nil, &InvocationContext{Text: "anything"})
	assert.True(t, match.Eligible)
	assert.Equal(t, 0.0, match.Bonus)

	match = MatchScope(&ScopeRule{}, nil)
	assert.True(t, match.Eligible)
	assert.Equal(t, 0.0, match.Bonus)
}

func TestScopeDimensionsAreConjunctive(t *testing.T) {
	scope := &ScopeRule{
		Languages: []string{"python"},
		Triggers:  []string{"debug"},
	}

	// Language matches but no trigger in the text: wholly ineligible.
	match := MatchScope(scope, &InvocationContext{
		Text:      "refactor this module",
		Languages: []string{"python"},
	})
	assert.False(t, match.Eligible)

	// Both dimensions match.
	match = MatchScope(scope, &InvocationContext{
		Text:      "help me debug this",
		Languages: []string{"python"},
	})
	assert.True(t, match.Eligible)
	assert.Equal(t, []string{"debug"}, match.MatchedTriggers)
	assert.Equal(t, []string{"python"}, match.MatchedLanguages)
}

func TestScopeLanguageMismatchExcludes(t *testing.T) {
	scope := &ScopeRule{Languages: []string{"python"}}
	match := MatchScope(scope, &InvocationContext{Languages: []string{"go"}})
	assert.False(t, match.Eligible)
}

func TestScopeLanguageWildcard(t *testing.T) {
	scope := &ScopeRule{Languages: []string{"python*"}}
	match := MatchScope(scope, &InvocationContext{Languages: []string{"Python3"}})
	assert.True(t, match.Eligible)
	assert.Equal(t, []string{"python*"}, match.MatchedLanguages)
}

func TestScopePathGlobs(t *testing.T) {
	scope := &ScopeRule{Paths: []string{"src/**/*.py"}}

	match := MatchScope(scope, &InvocationContext{Paths: []string{"src/app/models/user.py"}})
	assert.True(t, match.Eligible)

	match = MatchScope(scope, &InvocationContext{Paths: []string{"docs/readme.md"}})
	assert.False(t, match.Eligible)
}

func TestScopeSingleStarStaysInSegment(t *testing.T) {
	scope := &ScopeRule{Paths: []string{"src/*.py"}}
	match := MatchScope(scope, &InvocationContext{Paths: []string{"src/nested/deep.py"}})
	assert.False(t, match.Eligible)
}

func TestTriggerBonusPerKeywordCapped(t *testing.T) {
	scope := &ScopeRule{Triggers: []string{"debug", "trace", "breakpoint", "stack", "inspect"}}
	match := MatchScope(scope, &InvocationContext{
		Text: "debug the trace, set a breakpoint, check the stack, inspect state",
	})
	assert.True(t, match.Eligible)
	assert.Len(t, match.MatchedTriggers, 5)
	// 5 triggers at 0.25 each would be 1.25; capped at 1.0.
	assert.Equal(t, MaxScopeBonus, match.Bonus)
}

func TestDeclaredDimensionWithEmptyContextExcludes(t *testing.T) {
	scope := &ScopeRule{Paths: []string{"**/*.go"}}
	match := MatchScope(scope, &InvocationContext{Text: "no paths supplied"})
	assert.False(t, match.Eligible)
}
