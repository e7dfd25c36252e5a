// Package render evaluates the placeholder expressions embedded in
// artifact bodies: {{ ... }} substitutions and {% if %}...{% endif %}
// blocks. Rendering is a pure function of (template text, context); the
// context is passed explicitly per node and never stored globally.
package render

import "strings"

// NormalizeName converts a declared dependency name to its template lookup
// key. This is the single place the hyphen to underscore transform lives;
// registration and lookup must both go through it.
func NormalizeName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// Context carries everything a single node's render may reference:
// project-wide variables and the rendered content of the node's direct
// dependencies, grouped by kind and keyed by normalized name. Transitive
// dependencies are deliberately absent; a node may only reference what it
// itself declared.
type Context struct {
	Project map[string]string
	Deps    map[string]map[string]string
}

// NewContext creates an empty context with the given project variables.
func NewContext(project map[string]string) *Context {
	if project == nil {
		project = map[string]string{}
	}
	return &Context{Project: project, Deps: make(map[string]map[string]string)}
}

// AddDep registers a direct dependency's rendered content under its kind
// group and normalized name.
func (c *Context) AddDep(group, name, content string) {
	if c.Deps[group] == nil {
		c.Deps[group] = make(map[string]string)
	}
	c.Deps[group][NormalizeName(name)] = content
}

// groupOrder fixes the search order for the groupless deps form, so a name
// declared under two kind groups always resolves the same way.
var groupOrder = []string{"snippets", "agents", "commands", "mcp-servers"}

// lookup resolves a dotted expression path. Supported namespaces:
//
//	agpm.project.<var>            (alias: project.<var>)
//	agpm.deps.<group>.<name>.content
//	agpm.deps.<name>.content
func (c *Context) lookup(path string) (string, bool) {
	segs := strings.Split(path, ".")
	if len(segs) > 1 && segs[0] == "agpm" {
		segs = segs[1:]
	}

	switch {
	case len(segs) == 2 && segs[0] == "project":
		v, ok := c.Project[segs[1]]
		return v, ok

	case len(segs) == 4 && segs[0] == "deps" && segs[3] == "content":
		v, ok := c.Deps[segs[1]][segs[2]]
		return v, ok

	case len(segs) == 3 && segs[0] == "deps" && segs[2] == "content":
		for _, g := range groupOrder {
			if v, ok := c.Deps[g][segs[1]]; ok {
				return v, true
			}
		}
		return "", false
	}
	return "", false
}
