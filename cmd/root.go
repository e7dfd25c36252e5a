package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agpm-dev/agpm/internal/artifact"
	"github.com/agpm-dev/agpm/internal/graph"
	"github.com/agpm-dev/agpm/internal/manifest"
	"github.com/agpm-dev/agpm/internal/store"
	"github.com/agpm-dev/agpm/internal/ui"
)

var (
	// Version is set at build time
	Version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "agpm",
	Short: "Agent Package Manager",
	Long: `agpm resolves, renders, and installs versioned text artifacts
(agents, commands, snippets, mcp-servers) from a Git repository into
tool-specific project directories, pinned by a lockfile.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(outdatedCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("agpm %s\n", Version)
	},
}

// exitWithError prints an error and exits
func exitWithError(msg string) {
	fmt.Fprintln(os.Stderr, ui.ErrorLine(msg))
	os.Exit(1)
}

// loadProject locates and parses the project manifest from the working
// directory upward.
func loadProject() *manifest.Project {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(err.Error())
	}
	path, err := manifest.FindProject(cwd)
	if err != nil {
		exitWithError(err.Error())
	}
	project, err := manifest.LoadProject(path)
	if err != nil {
		exitWithError(err.Error())
	}
	return project
}

// buildGraph runs the resolution phase for a project.
func buildGraph(ctx context.Context, project *manifest.Project) *graph.Graph {
	roots, err := project.Roots()
	if err != nil {
		exitWithError(err.Error())
	}
	if len(roots) == 0 {
		exitWithError("project manifest declares no dependencies")
	}

	st, err := store.NewGitHubStore(project.Repository)
	if err != nil {
		exitWithError(err.Error())
	}
	if !st.IsAuthenticated() {
		fmt.Println(ui.Muted.Render("  no GitHub token found; unauthenticated requests are rate limited"))
	}

	b := &graph.Builder{Store: st}
	g, err := b.Build(ctx, roots)
	if err != nil {
		exitWithError(err.Error())
	}
	return g
}

// kindBadge maps an artifact kind to its display badge.
func kindBadge(k artifact.Kind) string {
	switch k {
	case artifact.KindAgent:
		return ui.AgentBadge()
	case artifact.KindCommand:
		return ui.CmdBadge()
	case artifact.KindMCPServer:
		return ui.MCPBadge()
	default:
		return ui.SnippetBadge()
	}
}
