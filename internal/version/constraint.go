// Package version implements semantic version constraints, the Git tag
// reference index, and highest-satisfying-version resolution.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Constraint is a parsed version constraint. The zero value is
// unconstrained and satisfied by every version.
type Constraint struct {
	raw string
	c   *semver.Constraints
}

// ParseConstraint parses one of the supported textual forms:
// "1.0.0" (exact), "^1.0.0" (caret), "~1.2.0" (tilde),
// ">=1.0.0 <2.0.0" (range). An empty string is unconstrained.
//
// Caret is translated to an explicit range before the library sees it:
// it always means same major at or above the given version, with no
// npm-style narrowing for zero majors (^0.2.3 admits 0.9.0).
func ParseConstraint(s string) (Constraint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Constraint{}, nil
	}

	expr := s
	if rest, ok := strings.CutPrefix(s, "^"); ok {
		v, err := semver.NewVersion(rest)
		if err != nil {
			return Constraint{}, fmt.Errorf("invalid version constraint %q: %w", s, err)
		}
		expr = fmt.Sprintf(">=%s <%d.0.0", v.String(), v.Major()+1)
	}

	c, err := semver.NewConstraint(expr)
	if err != nil {
		return Constraint{}, fmt.Errorf("invalid version constraint %q: %w", s, err)
	}
	return Constraint{raw: s, c: c}, nil
}

// MustParseConstraint is ParseConstraint for known-good literals in tests.
func MustParseConstraint(s string) Constraint {
	c, err := ParseConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Check reports whether v satisfies the constraint.
func (c Constraint) Check(v *semver.Version) bool {
	if c.c == nil {
		return true
	}
	return c.c.Check(v)
}

// IsUnconstrained reports whether the constraint accepts any version.
func (c Constraint) IsUnconstrained() bool {
	return c.c == nil
}

// String returns the original textual form, or "*" when unconstrained.
func (c Constraint) String() string {
	if c.raw == "" {
		return "*"
	}
	return c.raw
}
