package installer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agpm-dev/agpm/internal/artifact"
	"github.com/agpm-dev/agpm/internal/graph"
	"github.com/agpm-dev/agpm/internal/lockfile"
	"github.com/agpm-dev/agpm/internal/store"
	"github.com/agpm-dev/agpm/internal/version"
)

func fixture() *store.MemStore {
	st := store.NewMemStore()
	st.AddTag(
		"snippet-agent-backend-engineer-v1.0.0",
		"snippet-command-commit-logic-v1.4.0",
	)
	st.Add("snippet-agent-backend-engineer-v1.0.0", "snippets/agents/backend-engineer.md", []byte(`---
name: backend-engineer
dependencies:
  snippets:
    - name: commit-logic
      path: ../commands/commit-logic.md
      version: ^1.0.0
      install: false
---
You are a backend engineer writing {{ agpm.project.language }}.

{{ agpm.deps.snippets.commit_logic.content }}
{% if agpm.project.framework %}Use {{ agpm.project.framework }}.{% endif %}`))
	st.Add("snippet-command-commit-logic-v1.4.0", "snippets/commands/commit-logic.md", []byte(`---
name: commit-logic
---
Commit carefully.`))
	return st
}

func buildRendered(t *testing.T, st *store.MemStore, vars map[string]string, roots ...artifact.Ref) *graph.Graph {
	t.Helper()
	if roots == nil {
		roots = []artifact.Ref{{
			Name:         "backend-engineer",
			Kind:         artifact.KindAgent,
			DeclaredPath: "snippets/agents/backend-engineer.md",
			Constraint:   version.MustParseConstraint("^1.0.0"),
			Install:      true,
		}}
	}
	b := &graph.Builder{Store: st}
	g, err := b.Build(context.Background(), roots)
	require.NoError(t, err)
	require.NoError(t, RenderAll(g, vars))
	return g
}

func TestRenderAll_SubstitutesDependencyContent(t *testing.T) {
	g := buildRendered(t, fixture(), map[string]string{"language": "Go"})

	agent := g.Order[len(g.Order)-1]
	assert.Contains(t, agent.RenderedContent, "writing Go.")
	assert.Contains(t, agent.RenderedContent, "Commit carefully.")
	assert.NotContains(t, agent.RenderedContent, "{{",
		"no placeholder survives rendering")
	assert.NotContains(t, agent.RenderedContent, "Use ",
		"unset framework guard omits the block")
}

func TestRenderAll_UndefinedReference(t *testing.T) {
	st := store.NewMemStore()
	st.AddTag("snippet-agent-broken-v1.0.0")
	st.Add("snippet-agent-broken-v1.0.0", "snippets/agents/broken.md",
		[]byte("---\nname: broken\n---\n{{ agpm.deps.snippets.nonexistent.content }}"))

	b := &graph.Builder{Store: st}
	g, err := b.Build(context.Background(), []artifact.Ref{{
		Name: "broken", Kind: artifact.KindAgent,
		DeclaredPath: "snippets/agents/broken.md", Install: true,
	}})
	require.NoError(t, err)

	err = RenderAll(g, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestInstall(t *testing.T) {
	root := t.TempDir()
	g := buildRendered(t, fixture(), map[string]string{"language": "Go"})

	ins := &Installer{ProjectRoot: root, Tool: "claude-code"}
	res, err := ins.Install(g, nil)
	require.NoError(t, err)

	agentPath := filepath.Join(root, ".claude", "agents", "backend-engineer.md")
	content, err := os.ReadFile(agentPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Commit carefully.")

	// install: false still lands in the shared snippet cache
	snipPath := filepath.Join(root, ".agpm", "snippets", "commit-logic.md")
	_, err = os.Stat(snipPath)
	require.NoError(t, err)

	assert.Len(t, res.Written, 2)
	assert.Empty(t, res.Drift)

	require.Len(t, res.Lock.Artifacts, 2)
	l, ok := res.Lock.Find("backend-engineer@1.0.0")
	require.True(t, ok)
	assert.Equal(t, ".claude/agents/backend-engineer.md", l.InstallPath)
	assert.Equal(t, "snippet-agent-backend-engineer-v1.0.0", l.ResolvedTag)
	assert.Equal(t, lockfile.HashContent(content), l.ContentHash)
}

func TestInstall_Idempotent(t *testing.T) {
	root := t.TempDir()
	g := buildRendered(t, fixture(), map[string]string{"language": "Go"})

	ins := &Installer{ProjectRoot: root, Tool: "claude-code"}
	first, err := ins.Install(g, nil)
	require.NoError(t, err)

	agentPath := filepath.Join(root, ".claude", "agents", "backend-engineer.md")
	before, err := os.Stat(agentPath)
	require.NoError(t, err)

	second, err := ins.Install(g, first.Lock)
	require.NoError(t, err)
	assert.Empty(t, second.Written, "second run must write nothing")
	assert.Len(t, second.Skipped, 2)

	after, err := os.Stat(agentPath)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime(),
		"an up-to-date file must keep its modification time")
}

func TestInstall_DeterministicLockfile(t *testing.T) {
	lockBytes := func() []byte {
		root := t.TempDir()
		g := buildRendered(t, fixture(), map[string]string{"language": "Go"})
		ins := &Installer{ProjectRoot: root, Tool: "claude-code"}
		res, err := ins.Install(g, nil)
		require.NoError(t, err)

		path := filepath.Join(root, artifact.LockFilename)
		require.NoError(t, res.Lock.Save(path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		return data
	}

	a, b := lockBytes(), lockBytes()
	assert.True(t, bytes.Equal(a, b), "two runs over identical inputs must produce byte-identical lockfiles")
}

func TestInstall_DriftWarning(t *testing.T) {
	root := t.TempDir()
	g := buildRendered(t, fixture(), map[string]string{"language": "Go"})

	prev := lockfile.New()
	prev.Add(lockfile.Locked{
		Identity:    "backend-engineer@1.0.0",
		ResolvedTag: "snippet-agent-backend-engineer-v1.0.0",
		ContentHash: "sha256:0000", // locked before the tag was force-pushed
	})

	ins := &Installer{ProjectRoot: root, Tool: "claude-code"}
	res, err := ins.Install(g, prev)
	require.NoError(t, err, "drift is a warning, never fatal")
	require.Len(t, res.Drift, 1)
	assert.Equal(t, "backend-engineer@1.0.0", res.Drift[0].Identity)
}

func TestInstall_VersionForkGetsDistinctPaths(t *testing.T) {
	st := fixture()
	st.AddTag("snippet-command-commit-logic-v2.3.0", "snippet-agent-release-bot-v1.1.0")
	st.Add("snippet-command-commit-logic-v2.3.0", "snippets/commands/commit-logic.md",
		[]byte("---\nname: commit-logic\n---\nCommit v2 style."))
	st.Add("snippet-agent-release-bot-v1.1.0", "snippets/agents/release-bot.md", []byte(`---
name: release-bot
dependencies:
  snippets:
    - name: commit-logic
      path: ../commands/commit-logic.md
      version: ^2.0.0
      install: false
---
Cut releases.`))

	roots := []artifact.Ref{
		{
			Name: "backend-engineer", Kind: artifact.KindAgent,
			DeclaredPath: "snippets/agents/backend-engineer.md",
			Constraint:   version.MustParseConstraint("^1.0.0"), Install: true,
		},
		{
			Name: "release-bot", Kind: artifact.KindAgent,
			DeclaredPath: "snippets/agents/release-bot.md",
			Constraint:   version.MustParseConstraint("^1.0.0"), Install: true,
		},
	}
	root := t.TempDir()
	g := buildRendered(t, st, map[string]string{"language": "Go"}, roots...)

	ins := &Installer{ProjectRoot: root, Tool: "claude-code"}
	res, err := ins.Install(g, nil)
	require.NoError(t, err)

	var cachePaths []string
	for _, l := range res.Lock.Artifacts {
		if filepath.Dir(filepath.FromSlash(l.InstallPath)) == filepath.FromSlash(".agpm/snippets") {
			cachePaths = append(cachePaths, l.InstallPath)
		}
	}
	require.Len(t, cachePaths, 2, "both resolved versions of commit-logic are cached")
	assert.NotEqual(t, cachePaths[0], cachePaths[1], "coexisting versions never share a path")
}
