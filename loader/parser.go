package loader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepnoodle-ai/skillkit"
	"github.com/goccy/go-yaml"
)

// frontmatterDelimiter encloses the YAML frontmatter at the start of a
// skill file.
const frontmatterDelimiter = "---"

// defaultVersion is assumed when a skill file declares no version.
const defaultVersion = "1.0.0"

// skillFrontmatter is the YAML frontmatter structure of a SKILL.md file.
type skillFrontmatter struct {
	Name         string                           `yaml:"name"`
	Version      string                           `yaml:"version"`
	Description  string                           `yaml:"description"`
	Tags         []string                         `yaml:"tags"`
	Scope        *skillkit.ScopeRule              `yaml:"scope"`
	Priority     *int                             `yaml:"priority"`
	Precedence   string                           `yaml:"precedence"`
	Variables    map[string]skillkit.VariableSpec `yaml:"variables"`
	Dependencies map[string]string                `yaml:"dependencies"`
	Extends      string                           `yaml:"extends"`
	Includes     []string                         `yaml:"includes"`
	AllowedTools []string                         `yaml:"allowed-tools"`
	Resources    []skillkit.Resource              `yaml:"resources"`
}

// overrideFrontmatter is the YAML frontmatter structure of a SKILL.local.md
// file. Every field is optional; the name identifies the skill being
// overridden.
type overrideFrontmatter struct {
	Name         string                           `yaml:"name"`
	Description  *string                          `yaml:"description"`
	Tags         []string                         `yaml:"tags"`
	Scope        *skillkit.ScopeRule              `yaml:"scope"`
	Priority     *int                             `yaml:"priority"`
	Variables    map[string]skillkit.VariableSpec `yaml:"variables"`
	Dependencies map[string]string                `yaml:"dependencies"`
	Extends      string                           `yaml:"extends"`
	Includes     []string                         `yaml:"includes"`
	AllowedTools []string                         `yaml:"allowed-tools"`
	Resources    []skillkit.Resource              `yaml:"resources"`
}

// ParseSkillFile parses a skill definition file. The tier records which
// search tier the file was discovered in.
func ParseSkillFile(path string, tier skillkit.Precedence) (*skillkit.SkillDefinition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading skill file: %w", err)
	}
	return ParseSkillContent(content, path, tier)
}

// ParseSkillContent parses skill content from bytes.
//
// The content must begin with YAML frontmatter delimited by "---" markers;
// the Markdown body follows the closing delimiter. If the frontmatter
// declares no name, one is derived from the file path (the directory name
// for SKILL.md files, the base filename otherwise). A missing version
// defaults to 1.0.0.
func ParseSkillContent(content []byte, path string, tier skillkit.Precedence) (*skillkit.SkillDefinition, error) {
	frontmatter, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	var fm skillFrontmatter
	if err := yaml.Unmarshal(frontmatter, &fm); err != nil {
		return nil, fmt.Errorf("parsing skill frontmatter: %w", err)
	}

	if fm.Name == "" {
		fm.Name = deriveSkillName(path)
	}
	if fm.Name == "" {
		return nil, fmt.Errorf("skill name is required")
	}
	if fm.Version == "" {
		fm.Version = defaultVersion
	}

	extends, err := parseRefString(fm.Extends)
	if err != nil {
		return nil, fmt.Errorf("skill %s: %w", fm.Name, err)
	}
	includes, err := parseRefList(fm.Includes)
	if err != nil {
		return nil, fmt.Errorf("skill %s: %w", fm.Name, err)
	}

	return &skillkit.SkillDefinition{
		Name:         fm.Name,
		Version:      fm.Version,
		Description:  fm.Description,
		Tags:         fm.Tags,
		Scope:        fm.Scope,
		Priority:     fm.Priority,
		Precedence:   tier,
		Variables:    fm.Variables,
		Dependencies: fm.Dependencies,
		Extends:      extends,
		Includes:     includes,
		AllowedTools: fm.AllowedTools,
		RawBody:      strings.TrimSpace(string(body)),
		Resources:    fm.Resources,
	}, nil
}

// ParseOverrideFile parses a local override file and returns the name of
// the skill it customizes along with the override layer.
func ParseOverrideFile(path string) (string, *skillkit.LocalOverride, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading override file: %w", err)
	}
	return ParseOverrideContent(content, path)
}

// ParseOverrideContent parses override content from bytes. The target skill
// name comes from the frontmatter, or failing that from the file path with
// the ".local" suffix stripped.
func ParseOverrideContent(content []byte, path string) (string, *skillkit.LocalOverride, error) {
	frontmatter, body, err := splitFrontmatter(content)
	if err != nil {
		return "", nil, err
	}

	var fm overrideFrontmatter
	if err := yaml.Unmarshal(frontmatter, &fm); err != nil {
		return "", nil, fmt.Errorf("parsing override frontmatter: %w", err)
	}

	name := fm.Name
	if name == "" {
		name = strings.TrimSuffix(deriveSkillName(path), ".local")
	}
	if name == "" {
		return "", nil, fmt.Errorf("override target name is required")
	}

	extends, err := parseRefString(fm.Extends)
	if err != nil {
		return "", nil, fmt.Errorf("override %s: %w", name, err)
	}
	includes, err := parseRefList(fm.Includes)
	if err != nil {
		return "", nil, fmt.Errorf("override %s: %w", name, err)
	}

	return name, &skillkit.LocalOverride{
		Description:  fm.Description,
		Tags:         fm.Tags,
		Scope:        fm.Scope,
		Priority:     fm.Priority,
		Variables:    fm.Variables,
		Dependencies: fm.Dependencies,
		Extends:      extends,
		Includes:     includes,
		AllowedTools: fm.AllowedTools,
		Resources:    fm.Resources,
		Body:         strings.TrimSpace(string(body)),
	}, nil
}

// splitFrontmatter separates the YAML frontmatter from the Markdown body.
// Leading whitespace before the opening delimiter is tolerated.
func splitFrontmatter(content []byte) (frontmatter, body []byte, err error) {
	content = bytes.TrimLeft(content, " \t\r\n")
	if !bytes.HasPrefix(content, []byte(frontmatterDelimiter)) {
		return nil, nil, fmt.Errorf("skill file must start with YAML frontmatter (---)")
	}
	content = content[len(frontmatterDelimiter):]

	idx := bytes.Index(content, []byte("\n"+frontmatterDelimiter))
	if idx == -1 {
		return nil, nil, fmt.Errorf("missing closing frontmatter delimiter (---)")
	}
	frontmatter = content[:idx]
	body = bytes.TrimLeft(content[idx+len("\n"+frontmatterDelimiter):], "\r\n")
	return frontmatter, body, nil
}

// deriveSkillName infers a skill name from the file path: the containing
// directory for SKILL.md and SKILL.local.md files, the base filename
// otherwise.
func deriveSkillName(path string) string {
	base := filepath.Base(path)
	if base == skillFileName || base == overrideFileName {
		return filepath.Base(filepath.Dir(path))
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parseRefString parses an optional "name@constraint" reference.
func parseRefString(value string) (*skillkit.SkillReference, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	ref := splitRef(trimmed)
	if _, err := skillkit.ParseConstraint(ref.Constraint); err != nil {
		return nil, fmt.Errorf("reference %q: %w", trimmed, err)
	}
	return &ref, nil
}

func parseRefList(values []string) ([]skillkit.SkillReference, error) {
	if len(values) == 0 {
		return nil, nil
	}
	refs := make([]skillkit.SkillReference, 0, len(values))
	for _, value := range values {
		ref, err := parseRefString(value)
		if err != nil {
			return nil, err
		}
		if ref != nil {
			refs = append(refs, *ref)
		}
	}
	return refs, nil
}

func splitRef(value string) skillkit.SkillReference {
	if at := strings.Index(value, "@"); at >= 0 {
		return skillkit.SkillReference{Name: value[:at], Constraint: value[at+1:]}
	}
	return skillkit.SkillReference{Name: value}
}
