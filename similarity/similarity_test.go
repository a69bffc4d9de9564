package similarity

import (
	"context"
	"testing"

	"github.com/deepnoodle-ai/skillkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexicalRelevantBeatsIrrelevant(t *testing.T) {
	provider := NewLexical()
	ictx := &skillkit.InvocationContext{Text: "help me debug a python traceback"}

	python := &skillkit.SkillDefinition{
		Name:        "python-debugging",
		Description: "Debug python code with pdb and traceback analysis",
		Tags:        []string{"python", "debugging"},
	}
	cooking := &skillkit.SkillDefinition{
		Name:        "sourdough-starter",
		Description: "Maintain a sourdough starter",
	}

	relevant, err := provider.Similarity(context.Background(), ictx, python)
	require.NoError(t, err)
	irrelevant, err := provider.Similarity(context.Background(), ictx, cooking)
	require.NoError(t, err)

	assert.Greater(t, relevant, irrelevant)
	assert.Equal(t, 0.0, irrelevant)
}

func TestLexicalBounded(t *testing.T) {
	provider := NewLexical()
	def := &skillkit.SkillDefinition{
		Name:        "debugging",
		Description: "debugging debugging debugging",
	}
	score, err := provider.Similarity(context.Background(), &skillkit.InvocationContext{
		Text: "debugging debugging",
	}, def)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestLexicalEmptyContext(t *testing.T) {
	provider := NewLexical()
	def := &skillkit.SkillDefinition{Name: "anything"}

	score, err := provider.Similarity(context.Background(), nil, def)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	score, err = provider.Similarity(context.Background(), &skillkit.InvocationContext{}, def)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestLexicalDeterministic(t *testing.T) {
	provider := NewLexical()
	ictx := &skillkit.InvocationContext{Text: "review go code for errors"}
	def := &skillkit.SkillDefinition{
		Name:        "code-review",
		Description: "Review code for best practices and errors",
	}

	first, err := provider.Similarity(context.Background(), ictx, def)
	require.NoError(t, err)
	second, err := provider.Similarity(context.Background(), ictx, def)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStaticProvider(t *testing.T) {
	provider := Static{"known": 0.7}
	known, err := provider.Similarity(context.Background(), nil, &skillkit.SkillDefinition{Name: "known"})
	require.NoError(t, err)
	assert.Equal(t, 0.7, known)

	unknown, err := provider.Similarity(context.Background(), nil, &skillkit.SkillDefinition{Name: "other"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, unknown)
}
