package skillkit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// Snapshot is an immutable, point-in-time view of a skill library. A
// snapshot maps (name, version) to definitions, names to local overrides,
// and paths to raw snippet text. Snapshots are built once, typically by a
// loader, and never mutated; replacing the library is an atomic swap of the
// whole snapshot.
type Snapshot struct {
	// versions maps a skill name to its definitions sorted by descending
	// semantic version.
	versions    map[string][]*snapshotEntry
	overrides   map[string]*LocalOverride
	snippets    map[string]string
	fingerprint string
}

type snapshotEntry struct {
	def     *SkillDefinition
	version *semver.Version
}

// NewSnapshot builds a snapshot from loader output. It validates that
// (name, version) pairs are unique and that every version parses, clamps
// priorities to [0, 100], and applies defaults for priority and precedence.
// The input slices and maps are not retained as mutable state: definitions
// are shallow-copied before normalization.
func NewSnapshot(definitions []*SkillDefinition, overrides map[string]*LocalOverride, snippets map[string]string) (*Snapshot, error) {
	versions := make(map[string][]*snapshotEntry, len(definitions))
	seen := make(map[string]bool, len(definitions))

	for _, def := range definitions {
		if def.Name == "" {
			return nil, fmt.Errorf("skill definition with empty name")
		}
		v, err := semver.StrictNewVersion(def.Version)
		if err != nil {
			return nil, fmt.Errorf("skill %s has invalid version %q: %w", def.Name, def.Version, err)
		}
		key := def.Key()
		if seen[key] {
			return nil, fmt.Errorf("duplicate skill %s", key)
		}
		seen[key] = true

		normalized := *def
		if normalized.Priority == nil {
			normalized.Priority = intPtr(DefaultPriority)
		} else {
			normalized.Priority = intPtr(clampPriority(*normalized.Priority))
		}
		if normalized.Precedence == "" {
			normalized.Precedence = DefaultPrecedence
		}
		if !normalized.Precedence.Valid() {
			return nil, fmt.Errorf("skill %s has unknown precedence %q", key, normalized.Precedence)
		}
		versions[def.Name] = append(versions[def.Name], &snapshotEntry{def: &normalized, version: v})
	}

	for name := range versions {
		entries := versions[name]
		sort.Slice(entries, func(i, j int) bool {
			return entries[j].version.LessThan(entries[i].version)
		})
	}

	snapshot := &Snapshot{
		versions:  versions,
		overrides: overrides,
		snippets:  snippets,
	}
	snapshot.fingerprint = snapshot.computeFingerprint()
	return snapshot, nil
}

// Names returns every skill name in the snapshot, sorted.
func (s *Snapshot) Names() []string {
	names := make([]string, 0, len(s.versions))
	for name := range s.versions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of distinct skill names.
func (s *Snapshot) Len() int {
	return len(s.versions)
}

// Versions returns every definition for a name, sorted by descending
// version. The returned slice must not be modified.
func (s *Snapshot) Versions(name string) []*SkillDefinition {
	entries := s.versions[name]
	defs := make([]*SkillDefinition, 0, len(entries))
	for _, entry := range entries {
		defs = append(defs, entry.def)
	}
	return defs
}

// Latest returns the highest version of a name.
func (s *Snapshot) Latest(name string) (*SkillDefinition, bool) {
	entries := s.versions[name]
	if len(entries) == 0 {
		return nil, false
	}
	return entries[0].def, true
}

// Best returns the highest version of a name that satisfies the constraint.
func (s *Snapshot) Best(name string, constraint Constraint) (*SkillDefinition, bool) {
	for _, entry := range s.versions[name] {
		if constraint.SatisfiesVersion(entry.version) {
			return entry.def, true
		}
	}
	return nil, false
}

// Override returns the local override for a name, if one exists.
func (s *Snapshot) Override(name string) (*LocalOverride, bool) {
	override, ok := s.overrides[name]
	return override, ok
}

// Snippet returns raw snippet text by path.
func (s *Snapshot) Snippet(path string) (string, bool) {
	text, ok := s.snippets[path]
	return text, ok
}

// Fingerprint identifies the snapshot's content. Two snapshots built from
// identical inputs share a fingerprint; it keys resolution caches so stale
// entries cannot survive a snapshot swap.
func (s *Snapshot) Fingerprint() string {
	return s.fingerprint
}

func (s *Snapshot) computeFingerprint() string {
	h := sha256.New()
	for _, name := range s.Names() {
		for _, entry := range s.versions[name] {
			fmt.Fprintf(h, "skill\x00%s\x00%s\x00%s\x00", entry.def.Name, entry.def.Version, entry.def.RawBody)
		}
		if override, ok := s.overrides[name]; ok {
			fmt.Fprintf(h, "override\x00%s\x00%s\x00", name, override.Body)
		}
	}
	snippetPaths := make([]string, 0, len(s.snippets))
	for path := range s.snippets {
		snippetPaths = append(snippetPaths, path)
	}
	sort.Strings(snippetPaths)
	for _, path := range snippetPaths {
		fmt.Fprintf(h, "snippet\x00%s\x00%s\x00", path, s.snippets[path])
	}
	return hex.EncodeToString(h.Sum(nil))
}
