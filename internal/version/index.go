package version

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// TagKey identifies one versioned artifact in the reference index.
type TagKey struct {
	Tool     string
	Category string
	Name     string
}

// Index maps a tag key to the artifact's available versions, sorted
// ascending. Building the index is the only place raw tag strings are
// parsed; the resolver never sees tag text.
type Index map[TagKey][]*semver.Version

// knownTools are the recognized {tool} segments of the tag grammar. Tool
// segments may contain hyphens, so parsing strips the longest known prefix
// rather than splitting on the first hyphen.
var knownTools = []string{
	"claude-code",
	"mcp-server",
	"opencode",
	"snippet",
	"command",
	"agent",
}

// versionSuffixRe anchors the strict -v{semver} suffix; everything before it
// is the {tool}-{category}-{name} stem.
var versionSuffixRe = regexp.MustCompile(`^(.+)-v(\d+\.\d+\.\d+(?:-[0-9A-Za-z]+(?:\.[0-9A-Za-z]+)*)?)$`)

// categoryNameRe splits the remainder after the tool prefix: a single
// hyphen-free category segment, then the name, which may contain hyphens
// and is consumed greedily.
var categoryNameRe = regexp.MustCompile(`^([a-z0-9]+)-([a-z0-9][a-z0-9-]*)$`)

// ParseTag parses one tag name following the fixed grammar
// {tool}-{category}-{name}-v{semver}. ok is false for tags outside the
// grammar; those are ignored by the index, not errors.
func ParseTag(tag string) (key TagKey, v *semver.Version, ok bool) {
	m := versionSuffixRe.FindStringSubmatch(tag)
	if m == nil {
		return TagKey{}, nil, false
	}
	stem, raw := m[1], m[2]

	var tool string
	for _, t := range knownTools {
		if strings.HasPrefix(stem, t+"-") {
			tool = t
			break
		}
	}
	if tool == "" {
		return TagKey{}, nil, false
	}

	cn := categoryNameRe.FindStringSubmatch(strings.TrimPrefix(stem, tool+"-"))
	if cn == nil {
		return TagKey{}, nil, false
	}

	ver, err := semver.NewVersion(raw)
	if err != nil {
		return TagKey{}, nil, false
	}

	return TagKey{Tool: tool, Category: cn[1], Name: cn[2]}, ver, true
}

// BuildIndex folds a raw tag listing into an index. The fold is pure; no
// I/O happens here.
func BuildIndex(tags []string) Index {
	idx := make(Index)

	for _, tag := range tags {
		key, v, ok := ParseTag(tag)
		if !ok {
			continue
		}
		idx[key] = append(idx[key], v)
	}

	for key := range idx {
		sort.Sort(semver.Collection(idx[key]))
	}
	return idx
}

// Available returns the sorted versions known for a key, or nil.
func (idx Index) Available(key TagKey) []*semver.Version {
	return idx[key]
}

// TagName reconstructs the Git tag for a key at a concrete version.
func (key TagKey) TagName(v *semver.Version) string {
	return key.Tool + "-" + key.Category + "-" + key.Name + "-v" + v.String()
}
