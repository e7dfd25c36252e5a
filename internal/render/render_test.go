package render

import (
	"errors"
	"testing"
)

func testContext() *Context {
	ctx := NewContext(map[string]string{
		"language":  "go",
		"framework": "",
	})
	ctx.AddDep("snippets", "commit-logic", "Commit carefully.")
	return ctx
}

func TestRender_Substitution(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "project variable",
			src:  "Language: {{ agpm.project.language }}",
			want: "Language: go",
		},
		{
			name: "project alias without agpm prefix",
			src:  "{{ project.language }}",
			want: "go",
		},
		{
			name: "dependency content with group",
			src:  "{{ agpm.deps.snippets.commit_logic.content }}",
			want: "Commit carefully.",
		},
		{
			name: "dependency content without group",
			src:  "{{ agpm.deps.commit_logic.content }}",
			want: "Commit carefully.",
		},
		{
			name: "plain text untouched",
			src:  "no placeholders here",
			want: "no placeholders here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.src, testContext())
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_GrouplessLookupPrecedence(t *testing.T) {
	ctx := NewContext(nil)
	ctx.AddDep("commands", "commit-logic", "command body")
	ctx.AddDep("snippets", "commit-logic", "snippet body")

	// Same name under two groups: the groupless form searches groups in a
	// fixed order, snippets first, so the result never depends on map order.
	for i := 0; i < 20; i++ {
		got, err := Render("{{ agpm.deps.commit_logic.content }}", ctx)
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if got != "snippet body" {
			t.Fatalf("Render() = %q, want snippet body", got)
		}
	}
}

func TestRender_UndefinedReference(t *testing.T) {
	_, err := Render("{{ agpm.deps.snippets.nonexistent.content }}", testContext())
	var ur *UndefinedReferenceError
	if !errors.As(err, &ur) {
		t.Fatalf("error = %v, want UndefinedReferenceError", err)
	}
	if ur.Ref != "agpm.deps.snippets.nonexistent.content" {
		t.Errorf("Ref = %q", ur.Ref)
	}
}

func TestRender_ConditionalOmission(t *testing.T) {
	// framework is set but empty; an unset guard behaves the same way.
	src := "before\n{% if agpm.project.framework %}Framework: {{ agpm.project.framework }}{% endif %}\nafter"
	got, err := Render(src, testContext())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "before\n\nafter" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRender_ConditionalUnknownGuard(t *testing.T) {
	got, err := Render("{% if agpm.project.never_declared %}hidden{% endif %}", testContext())
	if err != nil {
		t.Fatalf("undefined guard must not error, got %v", err)
	}
	if got != "" {
		t.Errorf("Render() = %q, want empty", got)
	}
}

func TestRender_ConditionalTaken(t *testing.T) {
	got, err := Render("{% if agpm.project.language %}lang={{ agpm.project.language }}{% endif %}", testContext())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "lang=go" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRender_NestedConditionals(t *testing.T) {
	ctx := testContext()
	ctx.Project["framework"] = "gin"
	src := "{% if agpm.project.language %}go{% if agpm.project.framework %}+{{ agpm.project.framework }}{% endif %}{% endif %}"
	got, err := Render(src, ctx)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "go+gin" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRender_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unclosed expression", "{{ agpm.project.language"},
		{"unclosed tag", "{% if x "},
		{"missing endif", "{% if agpm.project.language %}body"},
		{"stray endif", "{% endif %}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Render(tt.src, testContext()); err == nil {
				t.Error("expected syntax error")
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"commit-logic", "commit_logic"},
		{"backend-engineer-v2", "backend_engineer_v2"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
