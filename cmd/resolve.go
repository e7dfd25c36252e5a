package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agpm-dev/agpm/internal/ui"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the dependency graph without writing anything",
	Long: `Resolve every declared dependency to an exact version and print the
graph in install order. No files are written.`,
	Run: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) {
	project := loadProject()
	g := buildGraph(cmd.Context(), project)

	fmt.Println()
	fmt.Println(ui.Title.Render(fmt.Sprintf("  Resolved %d artifacts from %s", len(g.Order), project.Repository)))
	fmt.Println()

	for _, n := range g.Order {
		fmt.Printf("  %s %s\n", kindBadge(n.Kind), ui.Highlight.Render(n.Identity().String()))
		fmt.Println(ui.Muted.Render(fmt.Sprintf("      tag %s  (%s)", n.ResolvedTag, n.SourcePath)))
		for _, dep := range n.Dependencies {
			child := g.Dep(n, dep.Name)
			if child != nil {
				fmt.Println(ui.Muted.Render(fmt.Sprintf("      requires %s %s -> %s", dep.Name, dep.Constraint, child.ResolvedVersion)))
			}
		}
	}
	fmt.Println()
}
