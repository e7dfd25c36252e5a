package store

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/go-github/v67/github"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

// DefaultFetchTimeout bounds a single content or tag fetch.
const DefaultFetchTimeout = 30 * time.Second

// GitHubStore is a ContentStore backed by a GitHub repository.
type GitHubStore struct {
	gh            *github.Client
	owner         string
	repo          string
	timeout       time.Duration
	authenticated bool
}

// repoSpec matches owner/repo, optionally prefixed with a GHE hostname.
var repoSpec = regexp.MustCompile(`^(?:([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})/)?([a-zA-Z0-9_-]+)/([a-zA-Z0-9_.-]+)$`)

// NewGitHubStore opens a store for a repository spec of the form
// "owner/repo" or "ghe.example.com/owner/repo".
//
// Token resolution order: GITHUB_TOKEN, GH_TOKEN, gh CLI config,
// unauthenticated.
func NewGitHubStore(spec string) (*GitHubStore, error) {
	m := repoSpec.FindStringSubmatch(strings.TrimSpace(spec))
	if m == nil {
		return nil, fmt.Errorf("invalid repository %q (want owner/repo)", spec)
	}
	host, owner, repo := m[1], m[2], m[3]

	token := getToken()
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	gh := github.NewClient(httpClient)
	if host != "" && host != "github.com" {
		gh.BaseURL, _ = url.Parse(fmt.Sprintf("https://%s/api/v3/", host))
		gh.UploadURL, _ = url.Parse(fmt.Sprintf("https://%s/api/uploads/", host))
	}

	return &GitHubStore{
		gh:            gh,
		owner:         owner,
		repo:          repo,
		timeout:       DefaultFetchTimeout,
		authenticated: token != "",
	}, nil
}

// IsAuthenticated returns true if the store has a token.
func (s *GitHubStore) IsAuthenticated() bool {
	return s.authenticated
}

// FetchFile implements ContentStore. The ref is a tag name from the
// reference index.
func (s *GitHubStore) FetchFile(ctx context.Context, ref, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := &github.RepositoryContentGetOptions{Ref: ref}
	fileContent, _, resp, err := s.gh.Repositories.GetContents(ctx, s.owner, s.repo, path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, &NotFoundError{Ref: ref, Path: path}
		}
		return nil, wrapCtxErr(err, "fetch", path)
	}
	if fileContent == nil {
		return nil, fmt.Errorf("%s is a directory, not a file", path)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return []byte(content), nil
}

// ListTags implements ContentStore, following pagination.
func (s *GitHubStore) ListTags(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var tags []string
	opts := &github.ListOptions{PerPage: 100}
	for {
		page, resp, err := s.gh.Repositories.ListTags(ctx, s.owner, s.repo, opts)
		if err != nil {
			return nil, wrapCtxErr(err, "list tags", "")
		}
		for _, t := range page {
			if t.Name != nil {
				tags = append(tags, *t.Name)
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return tags, nil
}

// getToken attempts to get a GitHub token from various sources
func getToken() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token
	}
	return readGhToken()
}

// ghHostsConfig represents the gh CLI hosts.yml config
type ghHostsConfig map[string]struct {
	OAuthToken string `yaml:"oauth_token"`
}

// readGhToken reads the GitHub token from gh CLI config
func readGhToken() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	hostsPath := filepath.Join(homeDir, ".config", "gh", "hosts.yml")
	data, err := os.ReadFile(hostsPath)
	if err != nil {
		return ""
	}

	var hosts ghHostsConfig
	if err := yaml.Unmarshal(data, &hosts); err != nil {
		return ""
	}
	if h, ok := hosts["github.com"]; ok {
		return h.OAuthToken
	}
	return ""
}
