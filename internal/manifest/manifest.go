package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/agpm-dev/agpm/internal/artifact"
	"github.com/agpm-dev/agpm/internal/version"
)

// Error is a manifest validity failure. Always fatal, never recovered.
type Error struct {
	Path string // file the manifest came from
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("manifest %s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("manifest %s: %s", e.Path, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Entry is one declared dependency in a manifest's dependencies block.
type Entry struct {
	Name    string `yaml:"name"`
	Path    string `yaml:"path"`
	Version string `yaml:"version,omitempty"`
	Tool    string `yaml:"tool,omitempty"`
	Install *bool  `yaml:"install,omitempty"` // defaults true
}

// DependencyBlock groups declared dependencies by kind, matching the
// manifest's dependencies key layout.
type DependencyBlock struct {
	Snippets   []Entry `yaml:"snippets,omitempty"`
	Agents     []Entry `yaml:"agents,omitempty"`
	Commands   []Entry `yaml:"commands,omitempty"`
	MCPServers []Entry `yaml:"mcp-servers,omitempty"`
}

// frontMatter is the typed shape of an artifact file's front matter.
type frontMatter struct {
	Name         string          `yaml:"name,omitempty"`
	Description  string          `yaml:"description,omitempty"`
	Dependencies DependencyBlock `yaml:"dependencies,omitempty"`
}

// Document is one parsed artifact file: its metadata, its declared
// dependencies in declaration order, and the body below the front matter.
type Document struct {
	Name         string
	Description  string
	Dependencies []artifact.Ref
	Body         string
}

// ParseDocument parses an artifact file's front matter into a validated
// Document. path names the file for error reporting.
func ParseDocument(content []byte, path string) (*Document, error) {
	yamlText, body, ok := SplitFrontMatter(content)
	doc := &Document{Body: body}
	if !ok {
		return doc, nil
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(yamlText), &fm); err != nil {
		return nil, &Error{Path: path, Msg: "malformed front matter", Err: err}
	}
	doc.Name = fm.Name
	doc.Description = fm.Description

	refs, err := fm.Dependencies.Refs(path)
	if err != nil {
		return nil, err
	}
	doc.Dependencies = refs
	return doc, nil
}

// Refs validates a dependency block and converts it to artifact references,
// preserving declaration order across the kind groups. path names the
// declaring file for error reporting.
func (b DependencyBlock) Refs(path string) ([]artifact.Ref, error) {
	groups := []struct {
		kind    artifact.Kind
		entries []Entry
	}{
		{artifact.KindSnippet, b.Snippets},
		{artifact.KindAgent, b.Agents},
		{artifact.KindCommand, b.Commands},
		{artifact.KindMCPServer, b.MCPServers},
	}

	var refs []artifact.Ref
	for _, g := range groups {
		for i, e := range g.entries {
			ref, err := e.ref(g.kind, path, i)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func (e Entry) ref(kind artifact.Kind, path string, i int) (artifact.Ref, error) {
	// Every dependency must be named. This is a hard validity rule, not a
	// lint: unnamed dependencies cannot be addressed from templates.
	if e.Name == "" {
		return artifact.Ref{}, &Error{
			Path: path,
			Msg:  fmt.Sprintf("dependency %s[%d] is missing required name", kind, i),
		}
	}
	if e.Path == "" {
		return artifact.Ref{}, &Error{
			Path: path,
			Msg:  fmt.Sprintf("dependency %q is missing required path", e.Name),
		}
	}

	constraint, err := version.ParseConstraint(e.Version)
	if err != nil {
		return artifact.Ref{}, &Error{Path: path, Msg: fmt.Sprintf("dependency %q", e.Name), Err: err}
	}

	install := true
	if e.Install != nil {
		install = *e.Install
	}

	return artifact.Ref{
		Name:         e.Name,
		Kind:         kind,
		DeclaredPath: e.Path,
		Constraint:   constraint,
		Tool:         e.Tool,
		Install:      install,
	}, nil
}
