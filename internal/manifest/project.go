package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/agpm-dev/agpm/internal/artifact"
)

// Project is the parsed agpm.yaml at a consuming project's root. It is the
// manifest source: the list of top-level dependencies the project requests,
// plus project-wide template variables.
type Project struct {
	Name         string            `yaml:"name,omitempty"`
	Repository   string            `yaml:"repository"` // owner/repo of the artifact repository
	Tool         string            `yaml:"tool,omitempty"`
	Variables    map[string]string `yaml:"variables,omitempty"`
	Dependencies DependencyBlock   `yaml:"dependencies,omitempty"`

	// Root is the directory containing agpm.yaml, set on load.
	Root string `yaml:"-"`
}

// LoadProject reads and validates the project manifest at path.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project manifest: %w", err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, &Error{Path: path, Msg: "malformed project manifest", Err: err}
	}
	if p.Repository == "" {
		return nil, &Error{Path: path, Msg: "missing required repository"}
	}
	if p.Tool == "" {
		p.Tool = "claude-code"
	}
	p.Root = filepath.Dir(path)
	return &p, nil
}

// Roots returns the project's top-level dependency references. Top-level
// paths are declared relative to the artifact repository root.
func (p *Project) Roots() ([]artifact.Ref, error) {
	return p.Dependencies.Refs(filepath.Join(p.Root, artifact.ManifestFilename))
}

// FindProject walks up from dir looking for agpm.yaml, stopping at the
// filesystem root or a .git boundary.
func FindProject(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, artifact.ManifestFilename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		// A .git directory marks the repo root; do not search beyond it.
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s found in %s or any parent", artifact.ManifestFilename, dir)
}
