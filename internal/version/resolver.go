package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// NoSatisfyingVersionError reports that no available version satisfies a
// constraint. It names the artifact so callers can build an identity chain.
type NoSatisfyingVersionError struct {
	Name       string
	Constraint Constraint
	Available  int
}

func (e *NoSatisfyingVersionError) Error() string {
	if e.Available == 0 {
		return fmt.Sprintf("no versions published for %q", e.Name)
	}
	return fmt.Sprintf("no version of %q satisfies %s (%d available)", e.Name, e.Constraint, e.Available)
}

// Resolve picks the highest version in available that satisfies the
// constraint. Resolution is per-edge: each reference independently picks its
// own best match, so the same name may resolve differently elsewhere in the
// graph. available must be sorted ascending (as produced by BuildIndex).
func Resolve(name string, constraint Constraint, available []*semver.Version) (*semver.Version, error) {
	for i := len(available) - 1; i >= 0; i-- {
		if constraint.Check(available[i]) {
			return available[i], nil
		}
	}
	return nil, &NoSatisfyingVersionError{Name: name, Constraint: constraint, Available: len(available)}
}
