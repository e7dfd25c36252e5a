// Package paths computes relative references between artifact files and
// tool-specific install destinations. All functions are pure: nothing here
// consults the working directory or any repository root.
package paths

import (
	"fmt"
	"path"
	"strings"

	"github.com/agpm-dev/agpm/internal/artifact"
)

// Relative returns the minimal ../-prefixed path from the directory of
// from to to. Both arguments are slash-separated repository paths.
func Relative(from, to string) string {
	fromDir := path.Dir(path.Clean(from))
	to = path.Clean(to)

	var fromSegs []string
	if fromDir != "." {
		fromSegs = strings.Split(fromDir, "/")
	}
	toSegs := strings.Split(to, "/")

	common := 0
	for common < len(fromSegs) && common < len(toSegs)-1 && fromSegs[common] == toSegs[common] {
		common++
	}

	segs := make([]string, 0, len(fromSegs)-common+len(toSegs)-common)
	for i := common; i < len(fromSegs); i++ {
		segs = append(segs, "..")
	}
	segs = append(segs, toSegs[common:]...)
	return path.Join(segs...)
}

// Resolve maps a path declared relative to a file onto a repository path.
// Declared paths are always relative to the declaring file, never to the
// repository root; the root manifest's declaring directory is "".
func Resolve(declaringFile, declaredPath string) string {
	base := path.Dir(declaringFile)
	if declaringFile == "" {
		base = ""
	}
	return path.Clean(path.Join(base, declaredPath))
}

// installDirs fixes the destination directory per (tool target, kind).
// This table is configuration: changing a destination means editing data,
// not logic. Snippets always land in the shared cache.
var installDirs = map[string]map[artifact.Kind]string{
	"claude-code": {
		artifact.KindAgent:     ".claude/agents",
		artifact.KindCommand:   ".claude/commands",
		artifact.KindMCPServer: ".claude/mcp-servers",
		artifact.KindSnippet:   artifact.SnippetCacheDir,
	},
	"opencode": {
		artifact.KindAgent:     ".opencode/agent",
		artifact.KindCommand:   ".opencode/command",
		artifact.KindMCPServer: ".opencode/mcp-servers",
		artifact.KindSnippet:   artifact.SnippetCacheDir,
	},
}

// Tools returns the recognized install targets.
func Tools() []string {
	return []string{"claude-code", "opencode"}
}

// Install returns the project-relative install path for an artifact of the
// given kind and name under a tool target.
func Install(tool string, kind artifact.Kind, name string) (string, error) {
	dirs, ok := installDirs[tool]
	if !ok {
		return "", fmt.Errorf("unknown tool target %q (want one of %s)", tool, strings.Join(Tools(), ", "))
	}
	dir, ok := dirs[kind]
	if !ok {
		return "", fmt.Errorf("no install destination for kind %s under %s", kind, tool)
	}

	ext := ".md"
	if kind == artifact.KindMCPServer {
		ext = ".json"
	}
	return path.Join(dir, name+ext), nil
}

// SnippetCache returns the shared cache path for a rendered artifact with
// no tool-specific install target.
func SnippetCache(name string) string {
	return path.Join(artifact.SnippetCacheDir, name+".md")
}
