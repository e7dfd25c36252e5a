// Package artifact defines the core data model: declared references,
// resolved nodes, and the edges connecting them.
package artifact

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/agpm-dev/agpm/internal/version"
)

// Kind represents the kind of artifact
type Kind string

const (
	KindSnippet   Kind = "snippet"
	KindAgent     Kind = "agent"
	KindCommand   Kind = "command"
	KindMCPServer Kind = "mcp-server"
)

// IsValid returns true if the kind is recognized
func (k Kind) IsValid() bool {
	switch k {
	case KindSnippet, KindAgent, KindCommand, KindMCPServer:
		return true
	default:
		return false
	}
}

// String returns the string representation of the kind
func (k Kind) String() string {
	return string(k)
}

// AllKinds returns all supported kinds
func AllKinds() []Kind {
	return []Kind{KindSnippet, KindAgent, KindCommand, KindMCPServer}
}

// Ref identifies a dependency as declared in a manifest. Immutable once
// parsed; owned by the declaring node.
type Ref struct {
	Name         string
	Kind         Kind
	DeclaredPath string // relative to the declaring file, never a repo root
	Constraint   version.Constraint
	Tool         string // optional tool tag from the manifest entry
	Install      bool   // false: resolve and render, but no install-path copy
}

// Identity is the pair that deduplicates nodes in the dependency graph.
// Two references to the same name at the same resolved version share a node.
type Identity struct {
	Name    string
	Version string
}

// String returns the canonical name@version form.
func (id Identity) String() string {
	return id.Name + "@" + id.Version
}

// Node is a resolved artifact. One node exists per distinct identity;
// RenderedContent is attached once the renderer completes, nothing else is
// mutated after resolution.
type Node struct {
	Name            string
	Kind            Kind
	Constraints     []version.Constraint // every distinct edge constraint, sorted
	ResolvedVersion *semver.Version
	ResolvedTag     string
	SourcePath      string // path of the artifact file within the repository
	ContentRaw      []byte
	Body            string // content below the front matter
	Dependencies    []Ref  // declaration order preserved
	Install         bool
	InstallPath     string // empty until the installer assigns a destination
	RenderedContent string
}

// Identity returns the node's deduplication key.
func (n *Node) Identity() Identity {
	return Identity{Name: n.Name, Version: n.ResolvedVersion.String()}
}

// ConstraintSet joins the node's edge constraints into the single sorted
// string recorded in the lockfile.
func (n *Node) ConstraintSet() string {
	parts := make([]string, len(n.Constraints))
	for i, c := range n.Constraints {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// Edge records one declared dependency between two resolved nodes. The
// declared name disambiguates template lookups when names collide only by
// local declaration.
type Edge struct {
	From         Identity
	To           Identity
	DeclaredName string
}
