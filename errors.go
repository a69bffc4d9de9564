package skillkit

import (
	"errors"
	"fmt"
)

// ErrNoMatch is returned by Use when ranking produces no eligible candidate
// for the request context.
var ErrNoMatch = errors.New("no skill matched the request context")

// ErrSkillNotFound is the sentinel matched by SkillNotFoundError. Callers
// can branch with errors.Is(err, ErrSkillNotFound).
var ErrSkillNotFound = errors.New("skill not found")

// SkillNotFoundError indicates that no version of the requested skill
// satisfies the given constraint. It is a hard error only for the top-level
// requested skill; the same condition on a nested reference degrades to an
// inline marker and a diagnostic.
type SkillNotFoundError struct {
	Name       string
	Constraint string
}

func (e *SkillNotFoundError) Error() string {
	if e.Constraint == "" {
		return fmt.Sprintf("skill not found: %s", e.Name)
	}
	return fmt.Sprintf("skill not found: %s (constraint %q)", e.Name, e.Constraint)
}

func (e *SkillNotFoundError) Is(target error) bool {
	return target == ErrSkillNotFound
}

// ErrInvalidConstraint is the sentinel matched by InvalidConstraintError.
var ErrInvalidConstraint = errors.New("invalid version constraint")

// InvalidConstraintError indicates a version constraint spec that could not
// be parsed. Recoverable at the call site: mid-resolution it becomes an
// inline marker, only a top-level constraint fails the request.
type InvalidConstraintError struct {
	Spec   string
	Reason string
}

func (e *InvalidConstraintError) Error() string {
	return fmt.Sprintf("invalid version constraint %q: %s", e.Spec, e.Reason)
}

func (e *InvalidConstraintError) Is(target error) bool {
	return target == ErrInvalidConstraint
}
