package artifact

// File and directory name constants used throughout agpm.
// Centralizing these prevents typos and makes refactoring easier.
const (
	// ManifestFilename is the project manifest at the project root
	ManifestFilename = "agpm.yaml"

	// LockFilename is the lockfile written next to the manifest
	LockFilename = "agpm.lock"

	// SnippetCacheDir is the shared cache for rendered snippets that have
	// no tool-specific install target
	SnippetCacheDir = ".agpm/snippets"
)
