// Package manifest parses artifact front matter and the project manifest.
// Every dependency an artifact declares lives in the YAML front matter of
// the artifact file itself; the project's top-level dependencies live in
// agpm.yaml.
package manifest

import "strings"

// SplitFrontMatter separates YAML front matter from the body. Content
// without a leading --- delimiter has no front matter; the whole input is
// the body.
func SplitFrontMatter(content []byte) (yamlText string, body string, ok bool) {
	text := string(content)

	if !strings.HasPrefix(text, "---") {
		return "", text, false
	}

	rest := strings.TrimPrefix(text[3:], "\n")
	idx := strings.Index(rest, "\n---")
	if idx == -1 {
		return "", text, false
	}

	return rest[:idx], strings.TrimPrefix(rest[idx+4:], "\n"), true
}
