package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agpm-dev/agpm/internal/artifact"
	"github.com/agpm-dev/agpm/internal/installer"
	"github.com/agpm-dev/agpm/internal/lockfile"
	"github.com/agpm-dev/agpm/internal/ui"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Resolve, render, and install all declared artifacts",
	Long: `Run the full pipeline: resolve versions, fetch content, render
templates, write artifacts to their tool-specific paths, and commit the
lockfile. Either the whole run succeeds and the lockfile is replaced, or
nothing is recorded.`,
	Run: runInstall,
}

func runInstall(cmd *cobra.Command, args []string) {
	project := loadProject()
	g := buildGraph(cmd.Context(), project)

	if err := installer.RenderAll(g, project.Variables); err != nil {
		exitWithError(err.Error())
	}

	lockPath := filepath.Join(project.Root, artifact.LockFilename)
	prev, err := lockfile.Load(lockPath)
	if err != nil {
		exitWithError(err.Error())
	}

	ins := &installer.Installer{ProjectRoot: project.Root, Tool: project.Tool}
	res, err := ins.Install(g, prev)
	if err != nil {
		exitWithError(err.Error())
	}

	// The lockfile is committed only now, after every node installed.
	if err := res.Lock.Save(lockPath); err != nil {
		exitWithError(err.Error())
	}

	fmt.Println()
	for _, d := range res.Drift {
		fmt.Println(ui.WarningLine(d.String()))
	}
	for _, p := range res.Written {
		fmt.Println(ui.SuccessLine("installed " + p))
	}
	if len(res.Skipped) > 0 {
		fmt.Println(ui.InfoLine(fmt.Sprintf("%d artifacts already up to date", len(res.Skipped))))
	}
	fmt.Println()
	fmt.Println(ui.Muted.Render(fmt.Sprintf("  %d artifacts pinned in %s", len(res.Lock.Artifacts), artifact.LockFilename)))
	fmt.Println()
}
