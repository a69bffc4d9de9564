package skillkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseSkill() *SkillDefinition {
	return &SkillDefinition{
		Name:        "debugging-basics",
		Version:     "1.0.0",
		Description: "General debugging techniques",
		Tags:        []string{"debugging", "core"},
		Priority:    intPtr(60),
		Precedence:  PrecedenceRepository,
		Dependencies: map[string]string{
			"logging-patterns": "^1.0.0",
		},
		Variables: map[string]VariableSpec{
			"verbosity": {Default: "normal"},
		},
	}
}

func TestMergeNilOverrideIsIdentity(t *testing.T) {
	base := baseSkill()
	merged, diags := MergeOverride(base, nil)
	assert.Same(t, base, merged)
	assert.Empty(t, diags)
}

func TestMergeScalarReplacement(t *testing.T) {
	desc := "Team-specific debugging notes"
	priority := 90
	merged, diags := MergeOverride(baseSkill(), &LocalOverride{
		Description: &desc,
		Priority:    &priority,
	})
	require.Empty(t, diags)
	assert.Equal(t, desc, merged.Description)
	require.NotNil(t, merged.Priority)
	assert.Equal(t, 90, *merged.Priority)
}

func TestMergePriorityClamped(t *testing.T) {
	priority := 150
	merged, _ := MergeOverride(baseSkill(), &LocalOverride{Priority: &priority})
	require.NotNil(t, merged.Priority)
	assert.Equal(t, 100, *merged.Priority)

	negative := -5
	merged, _ = MergeOverride(baseSkill(), &LocalOverride{Priority: &negative})
	require.NotNil(t, merged.Priority)
	assert.Equal(t, 0, *merged.Priority)
}

func TestMergeTagsUnionNoDuplicates(t *testing.T) {
	merged, _ := MergeOverride(baseSkill(), &LocalOverride{
		Tags: []string{"core", "team"},
	})
	assert.Equal(t, []string{"debugging", "core", "team"}, merged.Tags)
}

func TestMergeForcesLowestPrecedence(t *testing.T) {
	// Any non-nil override marks the result as locally customized, even
	// an empty one.
	merged, _ := MergeOverride(baseSkill(), &LocalOverride{})
	assert.Equal(t, PrecedenceLocal, merged.Precedence)
}

func TestMergeDoesNotMutateBase(t *testing.T) {
	base := baseSkill()
	desc := "changed"
	merged, _ := MergeOverride(base, &LocalOverride{
		Description: &desc,
		Tags:        []string{"extra"},
	})
	assert.Equal(t, "General debugging techniques", base.Description)
	assert.Equal(t, []string{"debugging", "core"}, base.Tags)
	assert.NotSame(t, base, merged)
}

func TestMergeDependenciesKeyByKey(t *testing.T) {
	merged, diags := MergeOverride(baseSkill(), &LocalOverride{
		Dependencies: map[string]string{
			"logging-patterns": "^2.0.0",
			"tracing-tools":    "~1.1.0",
		},
	})
	require.Empty(t, diags)
	assert.Equal(t, "^2.0.0", merged.Dependencies["logging-patterns"])
	assert.Equal(t, "~1.1.0", merged.Dependencies["tracing-tools"])
}

func TestMergeBadDependencyConstraintKeepsBase(t *testing.T) {
	merged, diags := MergeOverride(baseSkill(), &LocalOverride{
		Dependencies: map[string]string{
			"logging-patterns": "not a constraint",
		},
	})
	require.Len(t, diags, 1)
	assert.Equal(t, DiagnosticMergeField, diags[0].Kind)
	assert.Equal(t, "^1.0.0", merged.Dependencies["logging-patterns"])
}

func TestMergeBadScopePatternSkipped(t *testing.T) {
	merged, diags := MergeOverride(baseSkill(), &LocalOverride{
		Scope: &ScopeRule{Paths: []string{"src/[invalid", "src/**"}},
	})
	require.Len(t, diags, 1)
	assert.Equal(t, DiagnosticMergeField, diags[0].Kind)
	require.NotNil(t, merged.Scope)
	assert.Equal(t, []string{"src/**"}, merged.Scope.Paths)
}

func TestMergeVariablesRecursive(t *testing.T) {
	merged, _ := MergeOverride(baseSkill(), &LocalOverride{
		Variables: map[string]VariableSpec{
			"verbosity": {Default: "high"},
			"format":    {Default: "json"},
		},
	})
	assert.Equal(t, "high", merged.Variables["verbosity"].Default)
	assert.Equal(t, "json", merged.Variables["format"].Default)
}

func TestMergeIncludesUnionPreservesBaseOrder(t *testing.T) {
	base := baseSkill()
	base.Includes = []SkillReference{{Name: "logging-patterns"}}
	merged, _ := MergeOverride(base, &LocalOverride{
		Includes: []SkillReference{
			{Name: "logging-patterns", Constraint: "^2.0.0"}, // duplicate name, base wins
			{Name: "tracing-tools"},
		},
	})
	require.Len(t, merged.Includes, 2)
	assert.Equal(t, "logging-patterns", merged.Includes[0].Name)
	assert.Equal(t, "", merged.Includes[0].Constraint)
	assert.Equal(t, "tracing-tools", merged.Includes[1].Name)
}
