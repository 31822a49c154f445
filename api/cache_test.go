package api

import (
	"context"
	"errors"
	"testing"
	"time"
)

// countingStore serves a fixed list and counts List calls.
type countingStore struct {
	posts  []Post
	lists  int
	closes int
	err    error
}

func (s *countingStore) List(ctx context.Context) ([]Post, error) {
	s.lists++
	return s.posts, s.err
}
func (s *countingStore) Get(ctx context.Context, id int64) (Post, error) { return Post{}, ErrNotFound }
func (s *countingStore) Create(ctx context.Context, title, content string) (Post, error) {
	return Post{}, errors.New("not implemented")
}
func (s *countingStore) Update(ctx context.Context, id int64, patch Patch) (Post, error) {
	return Post{}, errors.New("not implemented")
}
func (s *countingStore) Delete(ctx context.Context, id int64) error { return ErrNotFound }
func (s *countingStore) Close() error {
	s.closes++
	return nil
}

func TestPostCacheServesFromMemory(t *testing.T) {
	store := &countingStore{posts: SeedPosts()}
	c := NewPostCache(store, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		posts, err := c.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(posts) != 2 {
			t.Fatalf("expected 2 posts, got %d", len(posts))
		}
	}
	if store.lists != 1 {
		t.Fatalf("expected 1 store read, got %d", store.lists)
	}
}

func TestPostCacheInvalidate(t *testing.T) {
	store := &countingStore{posts: SeedPosts()}
	c := NewPostCache(store, time.Minute)
	ctx := context.Background()

	if _, err := c.List(ctx); err != nil {
		t.Fatal(err)
	}
	c.Invalidate()
	if _, err := c.List(ctx); err != nil {
		t.Fatal(err)
	}
	if store.lists != 2 {
		t.Fatalf("expected reload after Invalidate, got %d reads", store.lists)
	}
}

func TestPostCacheDisabled(t *testing.T) {
	store := &countingStore{posts: nil}
	c := NewPostCache(store, -1)
	ctx := context.Background()

	posts, err := c.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if posts == nil || len(posts) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", posts)
	}
	if _, err := c.List(ctx); err != nil {
		t.Fatal(err)
	}
	if store.lists != 2 {
		t.Fatalf("expected every read to hit the store, got %d", store.lists)
	}
}

func TestPostCacheError(t *testing.T) {
	store := &countingStore{err: errors.New("disk gone")}
	c := NewPostCache(store, time.Minute)
	if _, err := c.List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
