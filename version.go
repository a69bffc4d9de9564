package skillkit

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ConstraintKind identifies the form of a parsed version constraint.
type ConstraintKind string

const (
	// ConstraintAny matches every version. Produced by an empty spec.
	ConstraintAny ConstraintKind = "any"

	// ConstraintExact matches exactly one version: "1.2.3".
	ConstraintExact ConstraintKind = "exact"

	// ConstraintCaret matches v <= x < nextMajor(v): "^1.2.3".
	ConstraintCaret ConstraintKind = "caret"

	// ConstraintTilde matches v <= x < nextMinor(v): "~1.2.3".
	ConstraintTilde ConstraintKind = "tilde"

	// ConstraintAtLeast matches v <= x: ">=1.2.3".
	ConstraintAtLeast ConstraintKind = "at_least"

	// ConstraintRange matches the half-open interval [lo, hi):
	// ">=1.2.3 <2.0.0".
	ConstraintRange ConstraintKind = "range"
)

// Constraint is a parsed version constraint. The zero value matches every
// version.
type Constraint struct {
	Kind    ConstraintKind
	Version *semver.Version // lower bound, or the exact version
	Upper   *semver.Version // exclusive upper bound, range only
	spec    string
}

// AnyVersion matches every version.
var AnyVersion = Constraint{Kind: ConstraintAny}

// ParseConstraint parses a version constraint spec. Supported forms:
//
//	""                 any version
//	"1.2.3"            exact
//	"^1.2.3"           caret: >=1.2.3 <2.0.0
//	"~1.2.3"           tilde: >=1.2.3 <1.3.0
//	">=1.2.3"          at least
//	">=1.2.3 <2.0.0"   half-open range
//
// Malformed input returns an *InvalidConstraintError, which the caller is
// expected to recover from rather than crash on.
func ParseConstraint(spec string) (Constraint, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return AnyVersion, nil
	}

	switch {
	case strings.HasPrefix(trimmed, "^"):
		v, err := parseVersion(spec, trimmed[1:])
		if err != nil {
			return Constraint{}, err
		}
		return Constraint{Kind: ConstraintCaret, Version: v, spec: trimmed}, nil

	case strings.HasPrefix(trimmed, "~"):
		v, err := parseVersion(spec, trimmed[1:])
		if err != nil {
			return Constraint{}, err
		}
		return Constraint{Kind: ConstraintTilde, Version: v, spec: trimmed}, nil

	case strings.HasPrefix(trimmed, ">="):
		fields := strings.Fields(trimmed)
		lo, err := parseVersion(spec, strings.TrimPrefix(fields[0], ">="))
		if err != nil {
			return Constraint{}, err
		}
		if len(fields) == 1 {
			return Constraint{Kind: ConstraintAtLeast, Version: lo, spec: trimmed}, nil
		}
		if len(fields) != 2 || !strings.HasPrefix(fields[1], "<") {
			return Constraint{}, &InvalidConstraintError{
				Spec:   spec,
				Reason: "range must have the form \">=LO <HI\"",
			}
		}
		hi, err := parseVersion(spec, strings.TrimPrefix(fields[1], "<"))
		if err != nil {
			return Constraint{}, err
		}
		if !lo.LessThan(hi) {
			return Constraint{}, &InvalidConstraintError{
				Spec:   spec,
				Reason: "range lower bound must be below upper bound",
			}
		}
		return Constraint{Kind: ConstraintRange, Version: lo, Upper: hi, spec: trimmed}, nil

	default:
		v, err := parseVersion(spec, trimmed)
		if err != nil {
			return Constraint{}, err
		}
		return Constraint{Kind: ConstraintExact, Version: v, spec: trimmed}, nil
	}
}

func parseVersion(spec, value string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(strings.TrimSpace(value))
	if err != nil {
		return nil, &InvalidConstraintError{Spec: spec, Reason: err.Error()}
	}
	return v, nil
}

// Satisfies reports whether the version string satisfies the constraint.
// An unparseable version never satisfies anything.
func (c Constraint) Satisfies(version string) bool {
	v, err := semver.StrictNewVersion(version)
	if err != nil {
		return false
	}
	return c.SatisfiesVersion(v)
}

// SatisfiesVersion reports whether v satisfies the constraint.
func (c Constraint) SatisfiesVersion(v *semver.Version) bool {
	switch c.Kind {
	case ConstraintAny, "":
		return true
	case ConstraintExact:
		return v.Equal(c.Version)
	case ConstraintCaret:
		upper := c.Version.IncMajor()
		return !v.LessThan(c.Version) && v.LessThan(&upper)
	case ConstraintTilde:
		upper := c.Version.IncMinor()
		return !v.LessThan(c.Version) && v.LessThan(&upper)
	case ConstraintAtLeast:
		return !v.LessThan(c.Version)
	case ConstraintRange:
		return !v.LessThan(c.Version) && v.LessThan(c.Upper)
	default:
		return false
	}
}

// String returns the original spec form of the constraint.
func (c Constraint) String() string {
	if c.Kind == ConstraintAny || c.Kind == "" {
		return "*"
	}
	return c.spec
}
