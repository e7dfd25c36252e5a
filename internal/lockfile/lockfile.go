// Package lockfile persists the record of exactly which resolved tags and
// content hashes were installed in the last successful run.
package lockfile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// FormatVersion is the current lockfile schema version.
const FormatVersion = 1

// Locked is one pinned artifact. Identity is the canonical name@version
// form; Constraint remembers what the manifest asked for so later runs can
// tell drift from an intentional constraint change.
type Locked struct {
	Identity    string `yaml:"identity"`
	ResolvedTag string `yaml:"resolved_tag"`
	Constraint  string `yaml:"constraint,omitempty"`
	ContentHash string `yaml:"content_hash"`
	InstallPath string `yaml:"install_path,omitempty"`
}

// Lockfile is the persisted snapshot. Artifacts are kept sorted by identity
// so serialization is byte-stable: the same resolution state always
// produces the same file.
type Lockfile struct {
	Version   int      `yaml:"version"`
	Artifacts []Locked `yaml:"artifacts"`
}

// New creates an empty lockfile at the current format version.
func New() *Lockfile {
	return &Lockfile{Version: FormatVersion}
}

// Load reads a lockfile from disk. A missing file is an empty lockfile,
// not an error.
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}

	var lf Lockfile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("failed to parse lockfile: %w", err)
	}
	return &lf, nil
}

// Save writes the lockfile atomically: the whole file is staged beside the
// destination and renamed into place, so a crashed run never leaves a
// partial lockfile on disk.
func (lf *Lockfile) Save(path string) error {
	lf.sort()

	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("failed to serialize lockfile: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".agpm.lock.*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Add records a pinned artifact, replacing any prior entry for the same
// identity.
func (lf *Lockfile) Add(l Locked) {
	for i := range lf.Artifacts {
		if lf.Artifacts[i].Identity == l.Identity {
			lf.Artifacts[i] = l
			return
		}
	}
	lf.Artifacts = append(lf.Artifacts, l)
}

// Find returns the entry for an identity, if present.
func (lf *Lockfile) Find(identity string) (Locked, bool) {
	for _, l := range lf.Artifacts {
		if l.Identity == identity {
			return l, true
		}
	}
	return Locked{}, false
}

func (lf *Lockfile) sort() {
	sort.Slice(lf.Artifacts, func(i, j int) bool {
		return lf.Artifacts[i].Identity < lf.Artifacts[j].Identity
	})
}

// HashContent returns the sha256 content hash in the lockfile's
// sha256:<hex> form.
func HashContent(content []byte) string {
	h := sha256.Sum256(content)
	return "sha256:" + hex.EncodeToString(h[:])
}
