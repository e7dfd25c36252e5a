// Package store provides content stores: access to raw artifact bytes and
// tag listings for one artifact repository.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ContentStore returns raw bytes for a (ref, path) pair within the
// repository it was opened for, and lists the repository's tags. Fetches
// must respect context deadlines; a deadline hit surfaces as TimeoutError.
type ContentStore interface {
	// FetchFile returns the raw bytes at path as of the given git ref.
	FetchFile(ctx context.Context, ref, path string) ([]byte, error)

	// ListTags returns all tag names in the repository.
	ListTags(ctx context.Context) ([]string, error)
}

// TimeoutError reports a fetch that exceeded its deadline. Resolution fails
// fast on these rather than blocking indefinitely.
type TimeoutError struct {
	Op   string
	Path string
}

func (e *TimeoutError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s timed out", e.Op)
	}
	return fmt.Sprintf("%s %s timed out", e.Op, e.Path)
}

// NotFoundError reports a missing file at a ref.
type NotFoundError struct {
	Ref  string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no file %s at %s", e.Path, e.Ref)
}

// wrapCtxErr converts a context deadline into a TimeoutError, leaving other
// errors alone.
func wrapCtxErr(err error, op, path string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Op: op, Path: path}
	}
	return err
}

// MemStore is an in-memory content store keyed by ref then path. Used in
// tests and for local artifact repository checkouts loaded up front.
type MemStore struct {
	Tags  []string
	Files map[string]map[string][]byte // ref -> path -> content
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{Files: make(map[string]map[string][]byte)}
}

// Add registers file content at a ref and path.
func (m *MemStore) Add(ref, path string, content []byte) {
	if m.Files[ref] == nil {
		m.Files[ref] = make(map[string][]byte)
	}
	m.Files[ref][path] = content
}

// AddTag registers a tag name.
func (m *MemStore) AddTag(tags ...string) {
	m.Tags = append(m.Tags, tags...)
}

// FetchFile implements ContentStore.
func (m *MemStore) FetchFile(ctx context.Context, ref, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapCtxErr(err, "fetch", path)
	}
	if content, ok := m.Files[ref][path]; ok {
		return content, nil
	}
	return nil, &NotFoundError{Ref: ref, Path: path}
}

// ListTags implements ContentStore.
func (m *MemStore) ListTags(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapCtxErr(err, "list tags", "")
	}
	tags := append([]string(nil), m.Tags...)
	sort.Strings(tags)
	return tags, nil
}
