package version

import (
	"testing"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		wantKey TagKey
		wantVer string
		wantOK  bool
	}{
		{
			name:    "simple",
			tag:     "snippet-agent-backend-engineer-v1.2.3",
			wantKey: TagKey{Tool: "snippet", Category: "agent", Name: "backend-engineer"},
			wantVer: "1.2.3",
			wantOK:  true,
		},
		{
			name:    "hyphenated tool segment",
			tag:     "mcp-server-tool-github-api-v2.0.0",
			wantKey: TagKey{Tool: "mcp-server", Category: "tool", Name: "github-api"},
			wantVer: "2.0.0",
			wantOK:  true,
		},
		{
			name:    "claude-code tool segment",
			tag:     "claude-code-agent-reviewer-v0.1.0",
			wantKey: TagKey{Tool: "claude-code", Category: "agent", Name: "reviewer"},
			wantVer: "0.1.0",
			wantOK:  true,
		},
		{
			name:    "prerelease",
			tag:     "snippet-command-commit-logic-v1.0.0-rc.1",
			wantKey: TagKey{Tool: "snippet", Category: "command", Name: "commit-logic"},
			wantVer: "1.0.0-rc.1",
			wantOK:  true,
		},
		{name: "unknown tool", tag: "widget-agent-foo-v1.0.0", wantOK: false},
		{name: "no version suffix", tag: "snippet-agent-foo", wantOK: false},
		{name: "loose version", tag: "snippet-agent-foo-v1.0", wantOK: false},
		{name: "release branch", tag: "release-2024", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, v, ok := ParseTag(tt.tag)
			if ok != tt.wantOK {
				t.Fatalf("ParseTag(%q) ok = %v, want %v", tt.tag, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if key != tt.wantKey {
				t.Errorf("key = %+v, want %+v", key, tt.wantKey)
			}
			if v.String() != tt.wantVer {
				t.Errorf("version = %s, want %s", v, tt.wantVer)
			}
		})
	}
}

func TestBuildIndex(t *testing.T) {
	idx := BuildIndex([]string{
		"snippet-agent-backend-engineer-v1.2.0",
		"snippet-agent-backend-engineer-v1.0.0",
		"snippet-agent-backend-engineer-v2.0.0",
		"not-a-grammar-tag",
		"v1.0.0",
	})

	key := TagKey{Tool: "snippet", Category: "agent", Name: "backend-engineer"}
	avail := idx.Available(key)
	if len(avail) != 3 {
		t.Fatalf("Available() = %d versions, want 3", len(avail))
	}
	for i, want := range []string{"1.0.0", "1.2.0", "2.0.0"} {
		if avail[i].String() != want {
			t.Errorf("avail[%d] = %s, want %s (sorted ascending)", i, avail[i], want)
		}
	}

	if len(idx) != 1 {
		t.Errorf("index has %d keys, want 1 (non-grammar tags ignored)", len(idx))
	}
}

func TestTagName_RoundTrip(t *testing.T) {
	key := TagKey{Tool: "snippet", Category: "command", Name: "commit-logic"}
	tag := key.TagName(vv(t, "1.2.3"))
	if tag != "snippet-command-commit-logic-v1.2.3" {
		t.Fatalf("TagName() = %q", tag)
	}

	got, v, ok := ParseTag(tag)
	if !ok || got != key || v.String() != "1.2.3" {
		t.Errorf("ParseTag(TagName()) = %+v %v %v, not a round trip", got, v, ok)
	}
}
