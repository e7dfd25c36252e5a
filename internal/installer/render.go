package installer

import (
	"fmt"

	"github.com/agpm-dev/agpm/internal/artifact"
	"github.com/agpm-dev/agpm/internal/graph"
	"github.com/agpm-dev/agpm/internal/render"
)

// groupNames maps an artifact kind to its template namespace group, the
// plural form used under agpm.deps.
var groupNames = map[artifact.Kind]string{
	artifact.KindSnippet:   "snippets",
	artifact.KindAgent:     "agents",
	artifact.KindCommand:   "commands",
	artifact.KindMCPServer: "mcp-servers",
}

// RenderAll renders every node in the graph's topological order, attaching
// RenderedContent. Walking the order front to back guarantees a node's
// direct dependencies are rendered before the node itself; no locking is
// involved. projectVars is threaded explicitly into each node's context.
func RenderAll(g *graph.Graph, projectVars map[string]string) error {
	for _, n := range g.Order {
		ctx := render.NewContext(projectVars)
		for _, dep := range n.Dependencies {
			child := g.Dep(n, dep.Name)
			if child == nil {
				continue
			}
			ctx.AddDep(groupNames[dep.Kind], dep.Name, child.RenderedContent)
		}

		rendered, err := render.Render(n.Body, ctx)
		if err != nil {
			return fmt.Errorf("render %s: %w", n.Identity(), err)
		}
		n.RenderedContent = rendered
	}
	return nil
}
