// Package installer writes rendered artifacts to their tool-specific
// destinations and produces the lockfile snapshot for a run.
package installer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agpm-dev/agpm/internal/artifact"
	"github.com/agpm-dev/agpm/internal/graph"
	"github.com/agpm-dev/agpm/internal/lockfile"
	"github.com/agpm-dev/agpm/internal/paths"
)

// Drift reports a pinned artifact whose tag content changed upstream
// without the manifest changing: the tag was force-pushed. Tags can
// legitimately be re-pointed by maintainers, so this warns instead of
// failing the run.
type Drift struct {
	Identity string
	Tag      string
	OldHash  string
	NewHash  string
}

func (d Drift) String() string {
	return fmt.Sprintf("%s: tag %s now has different content than when it was locked", d.Identity, d.Tag)
}

// Result summarizes one install run.
type Result struct {
	Lock    *lockfile.Lockfile
	Written []string // project-relative paths written this run
	Skipped []string // up to date, left untouched
	Drift   []Drift
}

// Installer materializes a rendered graph under a project root.
type Installer struct {
	ProjectRoot string
	Tool        string
}

// Install writes every rendered node and returns the new lockfile. Files
// whose locked hash and on-disk content already match are skipped without
// touching them, so an unchanged second run changes no modification times.
// The caller commits the lockfile only after Install returns successfully;
// an error here means no lockfile is written at all.
func (ins *Installer) Install(g *graph.Graph, prev *lockfile.Lockfile) (*Result, error) {
	if prev == nil {
		prev = lockfile.New()
	}
	res := &Result{Lock: lockfile.New()}
	claimed := make(map[string]string) // install path -> identity

	for _, n := range g.Order {
		installPath, err := ins.destination(n, claimed)
		if err != nil {
			return nil, err
		}
		n.InstallPath = installPath
		claimed[installPath] = n.Identity().String()

		content := []byte(n.RenderedContent)
		hash := lockfile.HashContent(content)
		identity := n.Identity().String()
		constraint := n.ConstraintSet()

		// Drift only counts when the manifest's constraint is unchanged:
		// a constraint edit is an intentional move, not a re-pointed tag.
		if old, ok := prev.Find(identity); ok && (old.Constraint == "" || old.Constraint == constraint) {
			if old.ResolvedTag != n.ResolvedTag || old.ContentHash != hash {
				res.Drift = append(res.Drift, Drift{
					Identity: identity,
					Tag:      n.ResolvedTag,
					OldHash:  old.ContentHash,
					NewHash:  hash,
				})
			}
		}

		abs := filepath.Join(ins.ProjectRoot, filepath.FromSlash(installPath))
		wrote, err := writeIfChanged(abs, content)
		if err != nil {
			return nil, fmt.Errorf("install %s: %w", identity, err)
		}
		if wrote {
			res.Written = append(res.Written, installPath)
		} else {
			res.Skipped = append(res.Skipped, installPath)
		}

		res.Lock.Add(lockfile.Locked{
			Identity:    identity,
			ResolvedTag: n.ResolvedTag,
			Constraint:  constraint,
			ContentHash: hash,
			InstallPath: installPath,
		})
	}
	return res, nil
}

// destination picks the project-relative install path for a node. Nodes
// nothing asked to install still land in the shared snippet cache so other
// artifacts can reuse them. When two resolved versions of one name
// coexist, later ones get a version-suffixed filename.
func (ins *Installer) destination(n *artifact.Node, claimed map[string]string) (string, error) {
	var p string
	var err error
	if n.Install {
		p, err = paths.Install(ins.Tool, n.Kind, n.Name)
		if err != nil {
			return "", err
		}
	} else {
		p = paths.SnippetCache(n.Name)
	}

	if _, taken := claimed[p]; taken {
		versioned := n.Name + "-v" + n.ResolvedVersion.String()
		if n.Install {
			p, err = paths.Install(ins.Tool, n.Kind, versioned)
			if err != nil {
				return "", err
			}
		} else {
			p = paths.SnippetCache(versioned)
		}
	}
	return p, nil
}

// writeIfChanged writes content to path unless the file already holds it.
// Writes are staged beside the destination and renamed into place so a
// failed run never leaves a truncated artifact.
func writeIfChanged(path string, content []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, content) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return false, err
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return false, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return false, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return false, err
	}
	return true, nil
}
