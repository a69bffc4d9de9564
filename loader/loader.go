// Package loader discovers skill documents on disk and builds immutable
// library snapshots for the skillkit engine.
//
// Skills are defined in SKILL.md files with YAML frontmatter and a Markdown
// body. The loader scans a set of tiered search paths, each mapped to a
// precedence tier:
//
//	organization dirs      -> organization
//	RepositoryDir/.skillkit/skills -> repository
//	ProjectDir/.skillkit/skills    -> project
//	HomeDir/.skillkit/skills       -> user
//	AdditionalPaths                -> local
//
// Within one (name, version) pair the first definition found wins, so
// higher tiers shadow lower ones. Local overrides live in SKILL.local.md
// files beside the skill they customize. Raw snippets are collected from a
// snippets/ directory under each search path, keyed by relative path.
//
// Malformed skill files are logged and skipped; they never fail the load.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepnoodle-ai/skillkit"
	"github.com/deepnoodle-ai/skillkit/slogger"
)

// skillFileName is the canonical definition file inside a skill directory.
const skillFileName = "SKILL.md"

// overrideFileName customizes the skill in the same directory.
const overrideFileName = "SKILL.local.md"

// overrideSuffix marks a standalone override file ("name.local.md").
const overrideSuffix = ".local.md"

// snippetsDirName holds raw snippet files under a search path.
const snippetsDirName = "snippets"

// Options configures skill discovery.
type Options struct {
	// ProjectDir is the base directory for project-level skills,
	// searched at ProjectDir/.skillkit/skills. Defaults to the current
	// working directory.
	ProjectDir string

	// RepositoryDir is the base directory for repository-level skills,
	// searched at RepositoryDir/.skillkit/skills. If empty, the tier is
	// skipped.
	RepositoryDir string

	// HomeDir is the base directory for user-level skills, searched at
	// HomeDir/.skillkit/skills. Defaults to os.UserHomeDir().
	HomeDir string

	// OrganizationDirs are searched directly, in order, at the highest
	// precedence tier.
	OrganizationDirs []string

	// AdditionalPaths are searched last, at the local tier.
	AdditionalPaths []string

	// DisableUserPaths skips HomeDir discovery entirely.
	DisableUserPaths bool

	// Logger receives debug and warning messages during loading.
	// If nil, no logging occurs.
	Logger slogger.Logger
}

// Loader discovers and parses skill documents from configured paths. A
// Loader holds no snapshot state of its own: every call to Load scans the
// filesystem afresh and builds a new immutable snapshot, which makes
// reloading after file changes a pure replacement.
type Loader struct {
	opts   Options
	logger slogger.Logger
}

// New creates a skill loader with the given options.
func New(opts Options) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = slogger.NewDiscardLogger()
	}
	return &Loader{opts: opts, logger: logger}
}

type searchPath struct {
	dir  string
	tier skillkit.Precedence
}

// Load scans all configured paths and builds a snapshot.
//
// Returns an error only if the search paths cannot be determined or the
// collected definitions fail snapshot validation; individual malformed
// skill files are logged and skipped.
func (l *Loader) Load() (*skillkit.Snapshot, error) {
	paths, err := l.searchPaths()
	if err != nil {
		return nil, fmt.Errorf("getting search paths: %w", err)
	}

	var definitions []*skillkit.SkillDefinition
	overrides := map[string]*skillkit.LocalOverride{}
	snippets := map[string]string{}
	seen := map[string]bool{}

	for _, sp := range paths {
		l.scanPath(sp, &definitions, overrides, snippets, seen)
	}

	snapshot, err := skillkit.NewSnapshot(definitions, overrides, snippets)
	if err != nil {
		return nil, fmt.Errorf("building snapshot: %w", err)
	}
	l.logger.Debug("skill library loaded",
		"skills", snapshot.Len(), "overrides", len(overrides), "snippets", len(snippets))
	return snapshot, nil
}

// searchPaths returns the directories to scan, highest precedence first.
func (l *Loader) searchPaths() ([]searchPath, error) {
	var paths []searchPath

	for _, dir := range l.opts.OrganizationDirs {
		paths = append(paths, searchPath{dir: dir, tier: skillkit.PrecedenceOrganization})
	}

	if l.opts.RepositoryDir != "" {
		paths = append(paths, searchPath{
			dir:  filepath.Join(l.opts.RepositoryDir, ".skillkit", "skills"),
			tier: skillkit.PrecedenceRepository,
		})
	}

	projectDir := l.opts.ProjectDir
	if projectDir == "" {
		var err error
		projectDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}
	paths = append(paths, searchPath{
		dir:  filepath.Join(projectDir, ".skillkit", "skills"),
		tier: skillkit.PrecedenceProject,
	})

	if !l.opts.DisableUserPaths {
		homeDir := l.opts.HomeDir
		if homeDir == "" {
			var err error
			homeDir, err = os.UserHomeDir()
			if err != nil {
				l.logger.Warn("could not determine home directory", "error", err)
				homeDir = ""
			}
		}
		if homeDir != "" {
			paths = append(paths, searchPath{
				dir:  filepath.Join(homeDir, ".skillkit", "skills"),
				tier: skillkit.PrecedenceUser,
			})
		}
	}

	for _, dir := range l.opts.AdditionalPaths {
		paths = append(paths, searchPath{dir: dir, tier: skillkit.PrecedenceLocal})
	}

	return paths, nil
}

// scanPath loads every skill, override, and snippet under one search path.
//
// The layout mirrors the usual skill directory convention:
//   - subdirectories containing a SKILL.md (plus optional SKILL.local.md)
//   - standalone .md files (skill name derived from the filename)
//   - standalone name.local.md files overriding the matching skill
//   - a snippets/ subtree of raw text files
func (l *Loader) scanPath(sp searchPath, definitions *[]*skillkit.SkillDefinition, overrides map[string]*skillkit.LocalOverride, snippets map[string]string, seen map[string]bool) {
	entries, err := os.ReadDir(sp.dir)
	if os.IsNotExist(err) {
		l.logger.Debug("skill path does not exist", "path", sp.dir)
		return
	}
	if err != nil {
		l.logger.Warn("failed to read skill path", "path", sp.dir, "error", err)
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		switch {
		case entry.IsDir() && name == snippetsDirName:
			l.loadSnippets(filepath.Join(sp.dir, name), snippets)
		case entry.IsDir():
			dir := filepath.Join(sp.dir, name)
			l.loadSkillFile(filepath.Join(dir, skillFileName), sp.tier, definitions, seen)
			l.loadOverrideFile(filepath.Join(dir, overrideFileName), overrides)
		case strings.HasSuffix(strings.ToLower(name), overrideSuffix):
			l.loadOverrideFile(filepath.Join(sp.dir, name), overrides)
		case strings.HasSuffix(strings.ToLower(name), ".md"):
			l.loadSkillFile(filepath.Join(sp.dir, name), sp.tier, definitions, seen)
		}
	}
}

// loadSkillFile parses one definition file. The first definition found for
// a (name, version) pair wins; later ones are ignored with a debug message.
func (l *Loader) loadSkillFile(path string, tier skillkit.Precedence, definitions *[]*skillkit.SkillDefinition, seen map[string]bool) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return
	}
	def, err := ParseSkillFile(path, tier)
	if err != nil {
		l.logger.Warn("failed to parse skill file", "path", path, "error", err)
		return
	}
	if seen[def.Key()] {
		l.logger.Debug("skill already loaded, ignoring", "skill", def.Key(), "path", path)
		return
	}
	seen[def.Key()] = true
	*definitions = append(*definitions, def)
	l.logger.Debug("loaded skill", "skill", def.Key(), "tier", tier, "path", path)
}

// loadOverrideFile parses one override file. The first override found for a
// name wins across tiers.
func (l *Loader) loadOverrideFile(path string, overrides map[string]*skillkit.LocalOverride) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return
	}
	name, override, err := ParseOverrideFile(path)
	if err != nil {
		l.logger.Warn("failed to parse override file", "path", path, "error", err)
		return
	}
	if _, exists := overrides[name]; exists {
		l.logger.Debug("override already loaded, ignoring", "skill", name, "path", path)
		return
	}
	overrides[name] = override
	l.logger.Debug("loaded override", "skill", name, "path", path)
}

// loadSnippets walks a snippets directory, keying each file by its path
// relative to the snippets root with forward slashes. First-found wins.
func (l *Loader) loadSnippets(root string, snippets map[string]string) {
	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if _, exists := snippets[key]; exists {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn("failed to read snippet", "path", path, "error", err)
			return nil
		}
		snippets[key] = string(content)
		return nil
	})
	if err != nil {
		l.logger.Warn("failed to walk snippets", "path", root, "error", err)
	}
}
