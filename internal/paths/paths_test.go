package paths

import (
	"testing"

	"github.com/agpm-dev/agpm/internal/artifact"
)

func TestRelative(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want string
	}{
		{
			name: "across top-level trees",
			from: "claude-code/agents/python/backend.md",
			to:   "snippets/agents/python/backend.md",
			want: "../../../snippets/agents/python/backend.md",
		},
		{name: "sibling", from: "snippets/agents/a.md", to: "snippets/agents/b.md", want: "b.md"},
		{name: "down", from: "agpm.yaml", to: "snippets/x.md", want: "snippets/x.md"},
		{name: "up one", from: "snippets/agents/a.md", to: "snippets/b.md", want: "../b.md"},
		{name: "same file", from: "snippets/a.md", to: "snippets/a.md", want: "a.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Relative(tt.from, tt.to); got != tt.want {
				t.Errorf("Relative(%q, %q) = %q, want %q", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		declaring string
		declared  string
		want      string
	}{
		{"relative up", "snippets/agents/backend.md", "../commands/commit.md", "snippets/commands/commit.md"},
		{"same dir", "snippets/agents/backend.md", "reviewer.md", "snippets/agents/reviewer.md"},
		{"from repo root", "", "snippets/agents/backend.md", "snippets/agents/backend.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.declaring, tt.declared); got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.declaring, tt.declared, got, tt.want)
			}
		})
	}
}

func TestInstall(t *testing.T) {
	tests := []struct {
		tool string
		kind artifact.Kind
		name string
		want string
	}{
		{"claude-code", artifact.KindAgent, "backend-engineer", ".claude/agents/backend-engineer.md"},
		{"claude-code", artifact.KindCommand, "commit", ".claude/commands/commit.md"},
		{"claude-code", artifact.KindMCPServer, "github-api", ".claude/mcp-servers/github-api.json"},
		{"claude-code", artifact.KindSnippet, "commit-logic", ".agpm/snippets/commit-logic.md"},
		{"opencode", artifact.KindAgent, "backend-engineer", ".opencode/agent/backend-engineer.md"},
	}

	for _, tt := range tests {
		got, err := Install(tt.tool, tt.kind, tt.name)
		if err != nil {
			t.Errorf("Install(%s, %s) error = %v", tt.tool, tt.kind, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Install(%s, %s, %s) = %q, want %q", tt.tool, tt.kind, tt.name, got, tt.want)
		}
	}
}

func TestInstall_UnknownTool(t *testing.T) {
	if _, err := Install("vscode", artifact.KindAgent, "x"); err == nil {
		t.Error("expected error for unknown tool target")
	}
}
