// Package graph builds the dependency graph: starting from a project's
// top-level references it recursively resolves versions, fetches content,
// parses front matter, and produces nodes in topological order.
package graph

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"github.com/agpm-dev/agpm/internal/artifact"
	"github.com/agpm-dev/agpm/internal/manifest"
	"github.com/agpm-dev/agpm/internal/paths"
	"github.com/agpm-dev/agpm/internal/store"
	"github.com/agpm-dev/agpm/internal/version"
)

// DefaultConcurrency bounds how many content fetches run at once.
const DefaultConcurrency = 8

// Graph is the resolved dependency graph. Order lists nodes with
// dependencies before dependents, so a renderer walking it front to back
// always has a node's dependencies rendered first.
type Graph struct {
	Nodes map[artifact.Identity]*artifact.Node
	Order []*artifact.Node
	Edges []artifact.Edge
	Roots []artifact.Identity
	Index version.Index

	children map[childKey]artifact.Identity
}

type childKey struct {
	from artifact.Identity
	name string
}

// Dep returns the resolved node a dependency declared as name by n points
// to, or nil. Dependency names are unique within a declaring file.
func (g *Graph) Dep(n *artifact.Node, name string) *artifact.Node {
	id, ok := g.children[childKey{from: n.Identity(), name: name}]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// Latest returns the highest version published for a node's artifact,
// ignoring constraints. Used by outdated reporting.
func (g *Graph) Latest(n *artifact.Node) *semver.Version {
	ref := artifact.Ref{Name: n.Name, Kind: n.Kind}
	avail := g.Index.Available(tagKeyFor(n.SourcePath, ref))
	if len(avail) == 0 {
		return nil
	}
	return avail[len(avail)-1]
}

// Builder resolves references against one content store. A Builder is used
// for a single run; nothing is cached across runs.
type Builder struct {
	Store       store.ContentStore
	Concurrency int

	index version.Index

	mu      sync.Mutex
	entries map[artifact.Identity]*entry
	edges   []artifact.Edge

	// waits is the wait-for graph between in-flight entries: an edge
	// id -> target means id's fetch has a resolution path blocked until
	// target's entry completes. Checked before any block so two paths
	// resolving the halves of a cycle concurrently fail instead of
	// waiting on each other forever.
	waits map[artifact.Identity][]artifact.Identity
}

// entry memoizes resolution of one identity so concurrent references to the
// same artifact share a single fetch and parse.
type entry struct {
	done chan struct{}
	node *artifact.Node
	err  error
}

// Build resolves the transitive closure of roots. Root paths are declared
// relative to the repository root. Any failure aborts the whole build;
// there is no partial result.
func (b *Builder) Build(ctx context.Context, roots []artifact.Ref) (*Graph, error) {
	tags, err := b.Store.ListTags(ctx)
	if err != nil {
		return nil, &ResolveError{Err: err}
	}
	b.index = version.BuildIndex(tags)
	b.entries = make(map[artifact.Identity]*entry)
	b.waits = make(map[artifact.Identity][]artifact.Identity)

	limit := b.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	rootIDs := make([]artifact.Identity, len(roots))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, ref := range roots {
		i, ref := i, ref
		eg.Go(func() error {
			id, err := b.resolve(egCtx, ref, "", nil)
			if err != nil {
				return err
			}
			rootIDs[i] = id
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return b.assemble(rootIDs), nil
}

// resolve resolves a single reference declared by declaringFile, returning
// the identity of the node it points at. chain carries the identities on
// the current resolution path for cycle detection and error reporting.
func (b *Builder) resolve(ctx context.Context, ref artifact.Ref, declaringFile string, chain []artifact.Identity) (artifact.Identity, error) {
	repoPath := paths.Resolve(declaringFile, ref.DeclaredPath)
	key := tagKeyFor(repoPath, ref)

	v, err := version.Resolve(ref.Name, ref.Constraint, b.index.Available(key))
	if err != nil {
		return artifact.Identity{}, &ResolveError{Chain: chainStrings(chain, ref.Name), Err: err}
	}
	id := artifact.Identity{Name: ref.Name, Version: v.String()}

	for _, anc := range chain {
		if anc == id {
			return artifact.Identity{}, &CycleError{Chain: append(chainStrings(chain, ""), id.String())}
		}
	}

	b.mu.Lock()
	if e, ok := b.entries[id]; ok {
		if len(chain) > 0 {
			// Blocking here would deadlock if the in-flight fetch of id is
			// itself waiting, directly or transitively, on an entry this
			// path is in the middle of fetching. That wait-for loop is a
			// dependency cycle split across goroutines.
			if b.waitWouldCycle(id, chain) {
				b.mu.Unlock()
				return artifact.Identity{}, &CycleError{Chain: append(chainStrings(chain, ""), id.String())}
			}
			for _, anc := range chain {
				b.waits[anc] = append(b.waits[anc], id)
			}
			defer b.dropWaits(chain, id)
		}
		b.mu.Unlock()
		select {
		case <-e.done:
		case <-ctx.Done():
			return artifact.Identity{}, ctx.Err()
		}
		if e.err != nil {
			return artifact.Identity{}, e.err
		}
		b.noteRef(e.node, ref)
		return id, nil
	}
	e := &entry{done: make(chan struct{})}
	b.entries[id] = e
	b.mu.Unlock()

	node, err := b.fetchNode(ctx, ref, id, v, repoPath, key.TagName(v), chain)
	e.node, e.err = node, err
	close(e.done)
	if err != nil {
		return artifact.Identity{}, err
	}
	return id, nil
}

func (b *Builder) fetchNode(ctx context.Context, ref artifact.Ref, id artifact.Identity, v *semver.Version, repoPath, tag string, chain []artifact.Identity) (*artifact.Node, error) {
	content, err := b.Store.FetchFile(ctx, tag, repoPath)
	if err != nil {
		return nil, &ResolveError{Chain: chainStrings(chain, ref.Name), Err: err}
	}

	doc, err := manifest.ParseDocument(content, repoPath)
	if err != nil {
		return nil, &ResolveError{Chain: chainStrings(chain, ref.Name), Err: err}
	}

	node := &artifact.Node{
		Name:            ref.Name,
		Kind:            ref.Kind,
		Constraints:     []version.Constraint{ref.Constraint},
		ResolvedVersion: v,
		ResolvedTag:     tag,
		SourcePath:      repoPath,
		ContentRaw:      content,
		Body:            doc.Body,
		Dependencies:    doc.Dependencies,
		Install:         ref.Install,
	}

	childChain := append(append([]artifact.Identity(nil), chain...), id)
	limit := b.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for _, dep := range doc.Dependencies {
		dep := dep
		eg.Go(func() error {
			childID, err := b.resolve(egCtx, dep, repoPath, childChain)
			if err != nil {
				return err
			}
			b.mu.Lock()
			b.edges = append(b.edges, artifact.Edge{From: id, To: childID, DeclaredName: dep.Name})
			b.mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return node, nil
}

// waitWouldCycle reports whether blocking the resolution path described by
// chain on target's entry would deadlock. Every identity on the chain has a
// fetch that cannot finish until this path returns, so if target's
// completion already waits on any of them, the block would never wake.
// Caller holds b.mu.
func (b *Builder) waitWouldCycle(target artifact.Identity, chain []artifact.Identity) bool {
	onPath := make(map[artifact.Identity]bool, len(chain))
	for _, id := range chain {
		onPath[id] = true
	}

	seen := make(map[artifact.Identity]bool)
	var walk func(id artifact.Identity) bool
	walk = func(id artifact.Identity) bool {
		if onPath[id] {
			return true
		}
		if seen[id] {
			return false
		}
		seen[id] = true
		for _, next := range b.waits[id] {
			if walk(next) {
				return true
			}
		}
		return false
	}
	return walk(target)
}

// dropWaits removes the wait edges registered for one block on target.
func (b *Builder) dropWaits(chain []artifact.Identity, target artifact.Identity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, anc := range chain {
		w := b.waits[anc]
		for i, t := range w {
			if t == target {
				b.waits[anc] = append(w[:i], w[i+1:]...)
				break
			}
		}
	}
}

// noteRef folds an additional referencing edge into a shared node: any edge
// asking for an install copy widens the node to installable, and the edge's
// constraint joins the node's set. The set is kept sorted and deduplicated,
// so the recorded constraints never depend on which fetch finished first.
func (b *Builder) noteRef(n *artifact.Node, ref artifact.Ref) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ref.Install {
		n.Install = true
	}

	s := ref.Constraint.String()
	for _, c := range n.Constraints {
		if c.String() == s {
			return
		}
	}
	n.Constraints = append(n.Constraints, ref.Constraint)
	sort.Slice(n.Constraints, func(i, j int) bool {
		return n.Constraints[i].String() < n.Constraints[j].String()
	})
}

// assemble produces the deterministic topological order by walking roots in
// declaration order and each node's dependencies in declaration order.
// Concurrent completion order never leaks into the output.
func (b *Builder) assemble(rootIDs []artifact.Identity) *Graph {
	g := &Graph{
		Nodes:    make(map[artifact.Identity]*artifact.Node),
		Edges:    b.edges,
		Roots:    rootIDs,
		Index:    b.index,
		children: make(map[childKey]artifact.Identity),
	}
	for id, e := range b.entries {
		g.Nodes[id] = e.node
	}
	for _, edge := range b.edges {
		g.children[childKey{from: edge.From, name: edge.DeclaredName}] = edge.To
	}

	visited := make(map[artifact.Identity]bool)
	var visit func(id artifact.Identity)
	visit = func(id artifact.Identity) {
		if visited[id] {
			return
		}
		visited[id] = true
		n := g.Nodes[id]
		for _, dep := range n.Dependencies {
			if child, ok := g.children[childKey{from: id, name: dep.Name}]; ok {
				visit(child)
			}
		}
		g.Order = append(g.Order, n)
	}
	for _, id := range rootIDs {
		visit(id)
	}
	return g
}

// dirNames maps repository directory segments to their tag grammar
// segments. Unknown segments fall back to trimming a plural s.
var dirNames = map[string]string{
	"snippets":    "snippet",
	"agents":      "agent",
	"commands":    "command",
	"mcp-servers": "mcp-server",
	"claude-code": "claude-code",
	"opencode":    "opencode",
}

func dirName(seg string) string {
	if s, ok := dirNames[seg]; ok {
		return s
	}
	return strings.TrimSuffix(seg, "s")
}

// tagKeyFor derives the reference index key for an artifact from its
// repository path: the top-level directory is the {tool} segment and the
// next directory the {category} segment of the tag grammar.
func tagKeyFor(repoPath string, ref artifact.Ref) version.TagKey {
	segs := strings.Split(repoPath, "/")
	key := version.TagKey{Name: ref.Name}

	switch {
	case len(segs) >= 3:
		key.Tool = dirName(segs[0])
		key.Category = dirName(segs[1])
	case len(segs) == 2:
		key.Tool = dirName(segs[0])
		key.Category = string(ref.Kind)
	default:
		key.Tool = string(ref.Kind)
		key.Category = string(ref.Kind)
	}
	return key
}

func chainStrings(chain []artifact.Identity, leaf string) []string {
	out := make([]string, 0, len(chain)+1)
	for _, id := range chain {
		out = append(out, id.String())
	}
	if leaf != "" {
		out = append(out, leaf)
	}
	return out
}
