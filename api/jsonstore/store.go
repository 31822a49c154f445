// Package jsonstore keeps posts in a single human-readable JSON file.
package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/eringen/masterblog/api"
)

// Store is a JSON-file backed api.Store. Every call reads the file, and
// every write rewrites it, so edits made by hand are picked up. The mutex
// only serializes this process.
type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a store on path, creating the file with seed posts when it
// does not exist yet.
func New(path string) (*Store, error) {
	s := &Store{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		if err := s.save(api.SeedPosts()); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return s, nil
}

// Close is a no-op; the file is not held open.
func (s *Store) Close() error { return nil }

func (s *Store) load() ([]api.Post, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var posts []api.Post
	if err := json.Unmarshal(b, &posts); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if posts == nil {
		posts = []api.Post{}
	}
	return posts, nil
}

// save writes posts through a temp file and rename so readers never see a
// half-written file. Non-ASCII and markup characters are kept literal.
func (s *Store) save(posts []api.Post) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(posts); err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}

// List returns posts in file order.
func (s *Store) List(ctx context.Context) ([]api.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) Get(ctx context.Context, id int64) (api.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts, err := s.load()
	if err != nil {
		return api.Post{}, err
	}
	for _, p := range posts {
		if p.ID == id {
			return p, nil
		}
	}
	return api.Post{}, api.ErrNotFound
}

// Create appends a post with id max+1.
func (s *Store) Create(ctx context.Context, title, content string) (api.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts, err := s.load()
	if err != nil {
		return api.Post{}, err
	}
	p := api.Post{ID: api.NextID(posts), Title: title, Content: content}
	if err := s.save(append(posts, p)); err != nil {
		return api.Post{}, err
	}
	return p, nil
}

func (s *Store) Update(ctx context.Context, id int64, patch api.Patch) (api.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts, err := s.load()
	if err != nil {
		return api.Post{}, err
	}
	for i, p := range posts {
		if p.ID != id {
			continue
		}
		posts[i] = patch.Apply(p)
		if err := s.save(posts); err != nil {
			return api.Post{}, err
		}
		return posts[i], nil
	}
	return api.Post{}, api.ErrNotFound
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts, err := s.load()
	if err != nil {
		return err
	}
	kept := make([]api.Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(posts) {
		return api.ErrNotFound
	}
	return s.save(kept)
}
