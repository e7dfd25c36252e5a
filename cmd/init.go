package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agpm-dev/agpm/internal/artifact"
	"github.com/agpm-dev/agpm/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init <owner/repo>",
	Short: "Scaffold an agpm.yaml in the current directory",
	Args:  cobra.ExactArgs(1),
	Run:   runInit,
}

var initTool string

func init() {
	initCmd.Flags().StringVarP(&initTool, "tool", "t", "claude-code", "Target tool (claude-code, opencode)")
}

const manifestTemplate = `# agpm project manifest
repository: %s
tool: %s

variables:
  language: ""
  framework: ""

dependencies:
  agents: []
  commands: []
  snippets: []
`

func runInit(cmd *cobra.Command, args []string) {
	if _, err := os.Stat(artifact.ManifestFilename); err == nil {
		exitWithError(artifact.ManifestFilename + " already exists")
	}

	content := fmt.Sprintf(manifestTemplate, args[0], initTool)
	if err := os.WriteFile(artifact.ManifestFilename, []byte(content), 0644); err != nil {
		exitWithError(err.Error())
	}

	fmt.Println()
	fmt.Println(ui.SuccessLine("created " + artifact.ManifestFilename))
	fmt.Println(ui.InfoLine("declare dependencies, then run agpm install"))
	fmt.Println()
}
