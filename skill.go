package skillkit

// Precedence classifies where a skill definition came from. It is used as a
// ranking signal and tie-breaker: organization-level skills outrank
// repository-level skills, and so on down to local. Applying a local override
// always forces the merged result to PrecedenceLocal.
type Precedence string

const (
	PrecedenceOrganization Precedence = "organization"
	PrecedenceRepository   Precedence = "repository"
	PrecedenceProject      Precedence = "project"
	PrecedenceUser         Precedence = "user"
	PrecedenceLocal        Precedence = "local"
)

// precedenceOrder lists the tiers from highest to lowest. Ranking weights
// are evenly spaced across this table.
var precedenceOrder = []Precedence{
	PrecedenceOrganization,
	PrecedenceRepository,
	PrecedenceProject,
	PrecedenceUser,
	PrecedenceLocal,
}

// DefaultPrecedence is assigned to definitions that do not declare a tier.
const DefaultPrecedence = PrecedenceProject

// DefaultPriority is assigned to definitions that do not declare a priority.
const DefaultPriority = 50

// Valid reports whether p is one of the declared precedence tiers.
func (p Precedence) Valid() bool {
	for _, tier := range precedenceOrder {
		if p == tier {
			return true
		}
	}
	return false
}

// SkillReference points at another skill by name, optionally narrowed by a
// version constraint. An empty Constraint matches any version.
type SkillReference struct {
	Name       string `json:"name" yaml:"name"`
	Constraint string `json:"constraint,omitempty" yaml:"constraint,omitempty"`
}

// ScopeRule declares when a skill is eligible for ranking. Each declared
// dimension must match the request context independently; an empty dimension
// is unconstrained. A skill with no ScopeRule at all is always eligible.
type ScopeRule struct {
	// Paths are glob patterns matched against the context's active file
	// paths. "**" spans directory boundaries, "*" matches within a single
	// path segment.
	Paths []string `json:"paths,omitempty" yaml:"paths,omitempty"`

	// Languages are language names or wildcard patterns ("python*")
	// matched case-insensitively against the context's active languages.
	Languages []string `json:"languages,omitempty" yaml:"languages,omitempty"`

	// Triggers are keywords matched case-insensitively against the
	// context's free text. Each matched trigger adds a fixed bonus to the
	// skill's scope score.
	Triggers []string `json:"triggers,omitempty" yaml:"triggers,omitempty"`
}

// Empty reports whether the rule declares no dimensions at all.
func (s *ScopeRule) Empty() bool {
	return s == nil || (len(s.Paths) == 0 && len(s.Languages) == 0 && len(s.Triggers) == 0)
}

// VariableSpec declares a template variable used by a skill body. The engine
// treats variables as opaque metadata; substitution happens in a renderer
// after resolution.
type VariableSpec struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// Resource names an attachment that ships with a skill, such as a script or
// a reference document.
type Resource struct {
	Name      string `json:"name" yaml:"name"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	MediaType string `json:"media_type,omitempty" yaml:"media_type,omitempty"`
}

// SkillDefinition is one immutable skill document in a library snapshot.
// Definitions are constructed once by a loader and never modified afterwards;
// merging an override always produces a new value.
type SkillDefinition struct {
	// Name uniquely identifies the skill within a snapshot, together with
	// Version. Lowercase letters, numbers and hyphens by convention.
	Name string `json:"name" yaml:"name"`

	// Version is a semantic version string ("1.2.0").
	Version string `json:"version" yaml:"version"`

	// Description explains what the skill covers and when to use it.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Tags categorize the skill for retrieval and similarity scoring.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Scope gates whether the skill may appear in ranking results.
	Scope *ScopeRule `json:"scope,omitempty" yaml:"scope,omitempty"`

	// Priority is an author-declared ranking signal in [0, 100]. Nil means
	// undeclared: DefaultPriority is applied when the snapshot is built.
	// Declared values outside the range are clamped. A declared zero is a
	// real value, distinct from leaving the field out.
	Priority *int `json:"priority,omitempty" yaml:"priority,omitempty"`

	// Precedence is the source tier the skill was loaded from.
	Precedence Precedence `json:"precedence,omitempty" yaml:"precedence,omitempty"`

	// Variables declares template variables used by the body. Opaque to
	// the resolution engine.
	Variables map[string]VariableSpec `json:"variables,omitempty" yaml:"variables,omitempty"`

	// Dependencies maps skill names to version constraint specs that must
	// be satisfiable for the skill's references to resolve.
	Dependencies map[string]string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`

	// Extends optionally names a single parent skill whose resolved text
	// becomes a leading block of this skill's resolved text.
	Extends *SkillReference `json:"extends,omitempty" yaml:"extends,omitempty"`

	// Includes lists skills whose resolved text is appended to this
	// skill's body, in declaration order.
	Includes []SkillReference `json:"includes,omitempty" yaml:"includes,omitempty"`

	// AllowedTools optionally restricts which tools may be used while the
	// skill is active. Empty means no restriction.
	AllowedTools []string `json:"allowed_tools,omitempty" yaml:"allowed-tools,omitempty"`

	// RawBody is the unresolved Markdown body. It may contain inline
	// include markers and template placeholders; the engine only
	// interprets the include markers.
	RawBody string `json:"raw_body,omitempty" yaml:"-"`

	// Resources is the skill's attachment manifest.
	Resources []Resource `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// Key returns the snapshot key "name@version".
func (d *SkillDefinition) Key() string {
	return d.Name + "@" + d.Version
}

// IsToolAllowed reports whether a tool is permitted by the skill's
// allowed-tools list. An empty list permits everything. Matching is
// case-insensitive.
func (d *SkillDefinition) IsToolAllowed(toolName string) bool {
	if len(d.AllowedTools) == 0 {
		return true
	}
	for _, allowed := range d.AllowedTools {
		if equalFold(allowed, toolName) {
			return true
		}
	}
	return false
}

// LocalOverride is an optional customization layer merged over a base
// definition without modifying the shared original. Every field is optional;
// absent fields leave the base value untouched. Name and Version identify
// the target skill and cannot be overridden.
type LocalOverride struct {
	Description  *string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Tags         []string                `json:"tags,omitempty" yaml:"tags,omitempty"`
	Scope        *ScopeRule              `json:"scope,omitempty" yaml:"scope,omitempty"`
	Priority     *int                    `json:"priority,omitempty" yaml:"priority,omitempty"`
	Variables    map[string]VariableSpec `json:"variables,omitempty" yaml:"variables,omitempty"`
	Dependencies map[string]string       `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Extends      *SkillReference         `json:"extends,omitempty" yaml:"extends,omitempty"`
	Includes     []SkillReference        `json:"includes,omitempty" yaml:"includes,omitempty"`
	AllowedTools []string                `json:"allowed_tools,omitempty" yaml:"allowed-tools,omitempty"`
	Resources    []Resource              `json:"resources,omitempty" yaml:"resources,omitempty"`

	// Body is appended to the resolved text as the final block. It never
	// replaces the base body.
	Body string `json:"body,omitempty" yaml:"-"`
}

// InvocationContext describes the situation a request is made from. It is
// matched against skill scopes and fed to the similarity provider.
type InvocationContext struct {
	// Text is the free-form description of the current task or question.
	Text string `json:"text,omitempty"`

	// Paths are the file paths currently in play.
	Paths []string `json:"paths,omitempty"`

	// Languages are the programming languages currently in play.
	Languages []string `json:"languages,omitempty"`
}

// DiagnosticKind classifies a non-fatal problem encountered during
// resolution or merging.
type DiagnosticKind string

const (
	DiagnosticCircularReference DiagnosticKind = "circular_reference"
	DiagnosticDepthExceeded     DiagnosticKind = "depth_exceeded"
	DiagnosticSkillNotFound     DiagnosticKind = "skill_not_found"
	DiagnosticSnippetNotFound   DiagnosticKind = "snippet_not_found"
	DiagnosticInvalidConstraint DiagnosticKind = "invalid_constraint"
	DiagnosticMergeField        DiagnosticKind = "merge_field"
)

// Diagnostic records a non-fatal problem. Diagnostics accompany the best
// obtainable result rather than aborting it.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind"`
	Skill  string         `json:"skill,omitempty"`
	Detail string         `json:"detail"`
}

// ResolvedSkill is the final, fully composed form of one skill.
type ResolvedSkill struct {
	// Name and Version identify the top-level skill that was requested.
	Name    string `json:"name"`
	Version string `json:"version"`

	// Text is the assembled body: parent text, own body with inline
	// includes expanded, declared includes, and any override fragment.
	Text string `json:"text"`

	// Provenance lists every skill visited during composition, in visit
	// order, as "name@version" keys.
	Provenance []string `json:"provenance"`

	// Resources is the merged attachment manifest across every visited
	// skill, de-duplicated by name in visit order.
	Resources []Resource `json:"resources,omitempty"`

	// Diagnostics lists every non-fatal problem encountered.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// RankedCandidate is one entry in a ranking shortlist.
type RankedCandidate struct {
	Name    string `json:"name"`
	Version string `json:"version"`

	// Score is the composite ranking score in [0, 1].
	Score float64 `json:"score"`

	// Similarity is the provider-supplied relevance component of Score.
	Similarity float64 `json:"similarity"`

	// Match explains which scope rules produced the candidate.
	Match ScopeMatch `json:"match"`
}

// equalFold is a case-insensitive ASCII comparison.
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
