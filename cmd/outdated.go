package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agpm-dev/agpm/internal/artifact"
	"github.com/agpm-dev/agpm/internal/lockfile"
	"github.com/agpm-dev/agpm/internal/ui"
)

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "Report locked versions against the latest satisfying versions",
	Long: `Resolve the graph fresh and compare each artifact against the
lockfile and the newest version published for it. Nothing is written.`,
	Run: runOutdated,
}

func runOutdated(cmd *cobra.Command, args []string) {
	project := loadProject()
	g := buildGraph(cmd.Context(), project)

	lockPath := filepath.Join(project.Root, artifact.LockFilename)
	lock, err := lockfile.Load(lockPath)
	if err != nil {
		exitWithError(err.Error())
	}

	fmt.Println()
	var stale int
	for _, n := range g.Order {
		identity := n.Identity().String()
		latest := g.Latest(n)

		locked := "(not locked)"
		if l, ok := lock.Find(identity); ok {
			locked = l.ResolvedTag
		}

		fresh := locked == n.ResolvedTag
		upToDate := latest != nil && latest.Equal(n.ResolvedVersion)
		if fresh && upToDate {
			continue
		}
		stale++

		fmt.Printf("  %s %s\n", kindBadge(n.Kind), ui.Highlight.Render(n.Name))
		fmt.Println(ui.Muted.Render(fmt.Sprintf("      locked   %s", locked)))
		fmt.Println(ui.Muted.Render(fmt.Sprintf("      resolves %s", n.ResolvedTag)))
		if latest != nil && !upToDate {
			fmt.Println(ui.Info.Render(fmt.Sprintf("      latest   v%s (outside current constraint)", latest)))
		}
	}

	if stale == 0 {
		fmt.Println(ui.SuccessLine("everything is up to date"))
	}
	fmt.Println()
}
