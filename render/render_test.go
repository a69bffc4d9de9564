package render

import (
	"testing"

	"github.com/deepnoodle-ai/skillkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	out, err := Render("Use verbosity {{.verbosity}}.", map[string]any{"verbosity": "high"})
	require.NoError(t, err)
	assert.Equal(t, "Use verbosity high.", out)
}

func TestRenderMissingVariableErrors(t *testing.T) {
	_, err := Render("Hello {{.name}}", map[string]any{})
	require.Error(t, err)
}

func TestRenderNoPlaceholdersPassesThrough(t *testing.T) {
	out, err := Render("plain text", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)
}

func TestRenderSkillUsesDefaults(t *testing.T) {
	def := &skillkit.SkillDefinition{
		Name: "debugging-basics",
		Variables: map[string]skillkit.VariableSpec{
			"verbosity": {Default: "normal"},
		},
	}
	resolved := &skillkit.ResolvedSkill{Text: "Verbosity: {{.verbosity}}"}

	out, err := RenderSkill(resolved, def, nil)
	require.NoError(t, err)
	assert.Equal(t, "Verbosity: normal", out)

	out, err = RenderSkill(resolved, def, map[string]any{"verbosity": "high"})
	require.NoError(t, err)
	assert.Equal(t, "Verbosity: high", out)
}

func TestRenderSkillRequiredVariable(t *testing.T) {
	def := &skillkit.SkillDefinition{
		Name: "deploy-notes",
		Variables: map[string]skillkit.VariableSpec{
			"environment": {Required: true},
		},
	}
	resolved := &skillkit.ResolvedSkill{Text: "Deploying to {{.environment}}"}

	_, err := RenderSkill(resolved, def, nil)
	require.Error(t, err)

	out, err := RenderSkill(resolved, def, map[string]any{"environment": "staging"})
	require.NoError(t, err)
	assert.Equal(t, "Deploying to staging", out)
}
