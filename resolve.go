package skillkit

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/deepnoodle-ai/skillkit/slogger"
)

// MaxCompositionDepth is the ceiling on extends/includes nesting. A skill at
// depth MaxCompositionDepth may still contribute its body; references one
// level deeper are replaced by an inline depth marker.
const MaxCompositionDepth = 5

// sectionSeparator separates an inherited parent's text from the extending
// skill's own body.
const sectionSeparator = "\n\n---\n\n"

// includesMarker is the optional insertion point for declared includes. When
// a body contains the marker, resolved includes are substituted there;
// otherwise they are appended after the body.
const includesMarker = "{{includes}}"

// inlineRefPattern matches inline composition markers inside a skill body:
//
//	{{include:name}}
//	{{include:name@^1.0.0}}
//	{{snippet:path/to/file.md}}
//
// Template placeholders like {{.Var}} do not match and pass through
// untouched for a downstream renderer.
var inlineRefPattern = regexp.MustCompile(`\{\{\s*(include|snippet):\s*([^}\s]+)\s*\}\}`)

// resolver flattens one skill's composition graph against a fixed snapshot.
// It is created per request and carries no shared state, so any number of
// resolutions may run concurrently over the same snapshot.
type resolver struct {
	snapshot *Snapshot
	logger   slogger.Logger
}

// resolution accumulates the outputs that span the whole traversal.
type resolution struct {
	provenance  []string
	resources   []Resource
	seenRes     map[string]bool
	diagnostics []Diagnostic
}

func (res *resolution) addResources(resources []Resource) {
	for _, r := range resources {
		if !res.seenRes[r.Name] {
			res.seenRes[r.Name] = true
			res.resources = append(res.resources, r)
		}
	}
}

func (res *resolution) diag(kind DiagnosticKind, skill, format string, args ...any) {
	res.diagnostics = append(res.diagnostics, Diagnostic{
		Kind:   kind,
		Skill:  skill,
		Detail: fmt.Sprintf(format, args...),
	})
}

// Resolve flattens the named skill into its final composed text.
//
// Only the top-level request can fail outright: an unknown name, an
// unparseable constraint, or context cancellation. Every failure discovered
// while expanding a nested reference degrades into an inline marker plus a
// diagnostic so the caller still receives the best obtainable document.
func (r *resolver) Resolve(ctx context.Context, name, constraintSpec string) (*ResolvedSkill, error) {
	constraint, err := ParseConstraint(constraintSpec)
	if err != nil {
		return nil, err
	}
	def, ok := r.snapshot.Best(name, constraint)
	if !ok {
		return nil, &SkillNotFoundError{Name: name, Constraint: constraintSpec}
	}

	res := &resolution{seenRes: make(map[string]bool)}
	text, err := r.expand(ctx, def, 0, map[string]bool{}, res)
	if err != nil {
		return nil, err
	}

	return &ResolvedSkill{
		Name:        def.Name,
		Version:     def.Version,
		Text:        text,
		Provenance:  res.provenance,
		Resources:   res.resources,
		Diagnostics: res.diagnostics,
	}, nil
}

// expand produces the composed text for one definition. The visiting set is
// copied at each recursion so that a cycle guard on one branch never
// suppresses legitimate re-use of a skill on a sibling branch.
//
// Assembly order: parent text (extends), own body with inline references
// expanded, declared includes at their marker or at the end, then any local
// override fragment as the final block.
func (r *resolver) expand(ctx context.Context, def *SkillDefinition, depth int, visiting map[string]bool, res *resolution) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("skill resolution cancelled at %s: %w", def.Key(), err)
	}

	res.provenance = append(res.provenance, def.Key())

	// The override is applied before any expansion so the merged metadata
	// (extends, includes, resources) governs the downstream steps.
	override, _ := r.snapshot.Override(def.Name)
	merged, diags := MergeOverride(def, override)
	res.diagnostics = append(res.diagnostics, diags...)
	res.addResources(merged.Resources)

	branch := copyVisiting(visiting)
	branch[def.Name] = true

	var parentText string
	if merged.Extends != nil {
		text, err := r.resolveRef(ctx, *merged.Extends, depth+1, branch, res)
		if err != nil {
			return "", err
		}
		parentText = text
	}

	body, err := r.expandInline(ctx, merged.RawBody, depth, branch, res)
	if err != nil {
		return "", err
	}

	if len(merged.Includes) > 0 {
		blocks := make([]string, 0, len(merged.Includes))
		for _, ref := range merged.Includes {
			text, err := r.resolveRef(ctx, ref, depth+1, branch, res)
			if err != nil {
				return "", err
			}
			blocks = append(blocks, text)
		}
		included := strings.Join(blocks, "\n\n")
		if strings.Contains(body, includesMarker) {
			body = strings.Replace(body, includesMarker, included, 1)
		} else {
			body = joinBlocks(body, included)
		}
	}

	if override != nil && override.Body != "" {
		body = joinBlocks(body, strings.TrimSpace(override.Body))
	}

	if parentText != "" {
		return parentText + sectionSeparator + body, nil
	}
	return body, nil
}

// resolveRef resolves one nested reference to its composed text, or to an
// inline marker when the reference cannot be followed. Markers keep the
// failure visible in the output without aborting sibling branches.
func (r *resolver) resolveRef(ctx context.Context, ref SkillReference, depth int, visiting map[string]bool, res *resolution) (string, error) {
	if visiting[ref.Name] {
		r.logger.Debug("circular skill reference", "skill", ref.Name)
		res.diag(DiagnosticCircularReference, ref.Name, "circular include: %s", ref.Name)
		return marker("circular include: " + ref.Name), nil
	}
	if depth > MaxCompositionDepth {
		r.logger.Debug("skill include depth exceeded", "skill", ref.Name, "depth", depth)
		res.diag(DiagnosticDepthExceeded, ref.Name, "include depth exceeded at %s (max %d)", ref.Name, MaxCompositionDepth)
		return marker("include depth exceeded: " + ref.Name), nil
	}

	constraint, err := ParseConstraint(ref.Constraint)
	if err != nil {
		res.diag(DiagnosticInvalidConstraint, ref.Name, "invalid constraint %q for include %s", ref.Constraint, ref.Name)
		return marker(fmt.Sprintf("invalid constraint for %s: %s", ref.Name, ref.Constraint)), nil
	}

	def, ok := r.snapshot.Best(ref.Name, constraint)
	if !ok {
		res.diag(DiagnosticSkillNotFound, ref.Name, "no version of %s satisfies %q", ref.Name, constraint.String())
		return marker(fmt.Sprintf("skill not found: %s@%s", ref.Name, constraint.String())), nil
	}

	return r.expand(ctx, def, depth, visiting, res)
}

// expandInline substitutes inline include and snippet markers within a body.
// Skill references recurse under the same cycle and depth rules as declared
// includes; snippets are leaf text substitutions with no tracking.
func (r *resolver) expandInline(ctx context.Context, body string, depth int, visiting map[string]bool, res *resolution) (string, error) {
	matches := inlineRefPattern.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return body, nil
	}

	var out strings.Builder
	last := 0
	for _, m := range matches {
		out.WriteString(body[last:m[0]])
		last = m[1]

		kind := body[m[2]:m[3]]
		target := body[m[4]:m[5]]

		switch kind {
		case "include":
			ref := parseInlineRef(target)
			text, err := r.resolveRef(ctx, ref, depth+1, visiting, res)
			if err != nil {
				return "", err
			}
			out.WriteString(text)
		case "snippet":
			text, ok := r.snapshot.Snippet(target)
			if !ok {
				res.diag(DiagnosticSnippetNotFound, "", "snippet not found: %s", target)
				out.WriteString(marker("snippet not found: " + target))
				continue
			}
			out.WriteString(text)
		}
	}
	out.WriteString(body[last:])
	return out.String(), nil
}

// parseInlineRef splits "name@constraint" into a reference. The constraint
// part is optional.
func parseInlineRef(target string) SkillReference {
	if at := strings.Index(target, "@"); at >= 0 {
		return SkillReference{Name: target[:at], Constraint: target[at+1:]}
	}
	return SkillReference{Name: target}
}

func copyVisiting(visiting map[string]bool) map[string]bool {
	branch := make(map[string]bool, len(visiting)+1)
	for name := range visiting {
		branch[name] = true
	}
	return branch
}

func marker(text string) string {
	return "<!-- " + text + " -->"
}

func joinBlocks(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + "\n\n" + b
}
