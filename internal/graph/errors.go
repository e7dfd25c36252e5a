package graph

import (
	"fmt"
	"strings"
)

// ResolveError wraps a failure with the identity chain that led to it:
// the sequence of declaring artifacts and dependency names from a root to
// the failing reference. The chain is what lets a human trace which wrapper
// file caused a failure several hops away.
type ResolveError struct {
	Chain []string
	Err   error
}

func (e *ResolveError) Error() string {
	if len(e.Chain) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", strings.Join(e.Chain, " -> "), e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// CycleError reports a dependency cycle. The chain runs from the first
// occurrence of the repeated identity back around to it.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic dependency: %s", strings.Join(e.Chain, " -> "))
}
