package skillkit

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// MergeOverride merges a local override over a base definition and returns
// the merged definition plus any per-field diagnostics. The base is never
// modified; a nil override returns the base unchanged.
//
// Merge rules by field class:
//
//   - scalars (description, priority) are replaced when the override
//     declares them; priority is clamped to [0, 100]
//   - set-like fields (tags, scope dimensions, allowed tools, resources)
//     are unioned, base order first, de-duplicated
//   - nested maps (variables, dependencies) are merged key by key
//   - the override body fragment is appended during resolution, never
//     substituted here
//   - precedence is always forced to PrecedenceLocal, regardless of either
//     input, marking the result as locally customized
//
// A malformed override field (an unparseable dependency constraint, an
// invalid path pattern) does not fail the merge: that field is skipped, the
// base value kept, and a DiagnosticMergeField recorded.
func MergeOverride(base *SkillDefinition, override *LocalOverride) (*SkillDefinition, []Diagnostic) {
	if override == nil {
		return base, nil
	}

	var diags []Diagnostic
	merged := *base

	if override.Description != nil {
		merged.Description = *override.Description
	}
	if override.Priority != nil {
		merged.Priority = intPtr(clampPriority(*override.Priority))
	}

	merged.Tags = unionStrings(base.Tags, override.Tags)
	merged.AllowedTools = unionStrings(base.AllowedTools, override.AllowedTools)

	merged.Scope = mergeScope(base.Name, base.Scope, override.Scope, &diags)

	merged.Variables = mergeVariables(base.Variables, override.Variables)
	merged.Dependencies = mergeDependencies(base.Name, base.Dependencies, override.Dependencies, &diags)

	if override.Extends != nil {
		if _, err := ParseConstraint(override.Extends.Constraint); err != nil {
			diags = append(diags, Diagnostic{
				Kind:   DiagnosticMergeField,
				Skill:  base.Name,
				Detail: fmt.Sprintf("override extends has invalid constraint %q, keeping base", override.Extends.Constraint),
			})
		} else {
			ref := *override.Extends
			merged.Extends = &ref
		}
	}

	merged.Includes = unionIncludes(base.Includes, override.Includes)
	merged.Resources = unionResources(base.Resources, override.Resources)

	// A merged result always reports the lowest tier. This is the signal
	// that the skill reflects a local customization.
	merged.Precedence = PrecedenceLocal

	return &merged, diags
}

func intPtr(v int) *int {
	return &v
}

func clampPriority(priority int) int {
	if priority < 0 {
		return 0
	}
	if priority > 100 {
		return 100
	}
	return priority
}

// unionStrings returns base then override, preserving base order and
// dropping duplicates.
func unionStrings(base, override []string) []string {
	if len(override) == 0 {
		return base
	}
	seen := make(map[string]bool, len(base)+len(override))
	result := make([]string, 0, len(base)+len(override))
	for _, value := range base {
		if !seen[value] {
			seen[value] = true
			result = append(result, value)
		}
	}
	for _, value := range override {
		if !seen[value] {
			seen[value] = true
			result = append(result, value)
		}
	}
	return result
}

// mergeScope unions each scope dimension. Override path patterns are
// validated before being admitted; an invalid pattern is skipped with a
// diagnostic rather than poisoning the merged scope.
func mergeScope(skill string, base, override *ScopeRule, diags *[]Diagnostic) *ScopeRule {
	if override == nil {
		return base
	}
	if base == nil {
		base = &ScopeRule{}
	}

	overridePaths := make([]string, 0, len(override.Paths))
	for _, pattern := range override.Paths {
		if !doublestar.ValidatePattern(pattern) {
			*diags = append(*diags, Diagnostic{
				Kind:   DiagnosticMergeField,
				Skill:  skill,
				Detail: fmt.Sprintf("override scope path pattern %q is invalid, skipping", pattern),
			})
			continue
		}
		overridePaths = append(overridePaths, pattern)
	}

	return &ScopeRule{
		Paths:     unionStrings(base.Paths, overridePaths),
		Languages: unionStrings(base.Languages, override.Languages),
		Triggers:  unionStrings(base.Triggers, override.Triggers),
	}
}

func mergeVariables(base, override map[string]VariableSpec) map[string]VariableSpec {
	if len(override) == 0 {
		return base
	}
	merged := make(map[string]VariableSpec, len(base)+len(override))
	for name, spec := range base {
		merged[name] = spec
	}
	for name, spec := range override {
		merged[name] = spec
	}
	return merged
}

// mergeDependencies merges override dependency constraints key by key. An
// override constraint that fails to parse keeps the base entry and records
// a diagnostic.
func mergeDependencies(skill string, base, override map[string]string, diags *[]Diagnostic) map[string]string {
	if len(override) == 0 {
		return base
	}
	merged := make(map[string]string, len(base)+len(override))
	for name, spec := range base {
		merged[name] = spec
	}
	for name, spec := range override {
		if _, err := ParseConstraint(spec); err != nil {
			*diags = append(*diags, Diagnostic{
				Kind:   DiagnosticMergeField,
				Skill:  skill,
				Detail: fmt.Sprintf("override dependency %s has invalid constraint %q, keeping base", name, spec),
			})
			continue
		}
		merged[name] = spec
	}
	return merged
}

func unionIncludes(base, override []SkillReference) []SkillReference {
	if len(override) == 0 {
		return base
	}
	seen := make(map[string]bool, len(base)+len(override))
	result := make([]SkillReference, 0, len(base)+len(override))
	for _, ref := range base {
		if !seen[ref.Name] {
			seen[ref.Name] = true
			result = append(result, ref)
		}
	}
	for _, ref := range override {
		if !seen[ref.Name] {
			seen[ref.Name] = true
			result = append(result, ref)
		}
	}
	return result
}

func unionResources(base, override []Resource) []Resource {
	if len(override) == 0 {
		return base
	}
	seen := make(map[string]bool, len(base)+len(override))
	result := make([]Resource, 0, len(base)+len(override))
	for _, res := range base {
		if !seen[res.Name] {
			seen[res.Name] = true
			result = append(result, res)
		}
	}
	for _, res := range override {
		if !seen[res.Name] {
			seen[res.Name] = true
			result = append(result, res)
		}
	}
	return result
}
