// Package render applies variable substitution to resolved skill text.
// It runs after the resolution engine: composition markers have already
// been expanded, so only template placeholders remain.
package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/deepnoodle-ai/skillkit"
)

// Render executes the resolved text as a Go text template with the given
// variable map. Referencing a variable that is not in the map is an error,
// so typos in skill bodies surface instead of rendering "<no value>".
func Render(text string, vars map[string]any) (string, error) {
	tmpl, err := template.New("skill").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing skill template: %w", err)
	}
	var buffer bytes.Buffer
	if err := tmpl.Execute(&buffer, vars); err != nil {
		return "", fmt.Errorf("executing skill template: %w", err)
	}
	return buffer.String(), nil
}

// RenderSkill renders a resolved skill, filling unset variables from the
// defaults declared on the definition and failing on missing required
// variables.
func RenderSkill(resolved *skillkit.ResolvedSkill, def *skillkit.SkillDefinition, vars map[string]any) (string, error) {
	merged := make(map[string]any, len(vars)+len(def.Variables))
	for name, spec := range def.Variables {
		if spec.Default != "" {
			merged[name] = spec.Default
		}
	}
	for name, value := range vars {
		merged[name] = value
	}
	for name, spec := range def.Variables {
		if _, ok := merged[name]; !ok && spec.Required {
			return "", fmt.Errorf("missing required variable %q for skill %s", name, def.Name)
		}
	}
	return Render(resolved.Text, merged)
}
