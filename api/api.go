// Package api serves the Masterblog posts API: JSON CRUD under /api/posts
// plus a substring search, backed by a pluggable Store.
package api

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by stores when a post id does not exist.
var ErrNotFound = errors.New("post not found")

// Post is a stored blog post.
type Post struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Patch carries the fields of a partial update. Nil fields are left as is.
type Patch struct {
	Title   *string
	Content *string
}

// Apply returns p with the patch fields set.
func (pt Patch) Apply(p Post) Post {
	if pt.Title != nil {
		p.Title = *pt.Title
	}
	if pt.Content != nil {
		p.Content = *pt.Content
	}
	return p
}

// Store persists posts. List returns posts in ascending id order. New ids
// are assigned by the store.
type Store interface {
	List(ctx context.Context) ([]Post, error)
	Get(ctx context.Context, id int64) (Post, error)
	Create(ctx context.Context, title, content string) (Post, error)
	Update(ctx context.Context, id int64, patch Patch) (Post, error)
	Delete(ctx context.Context, id int64) error
	Close() error
}

// SeedPosts is the content a brand new store starts with.
func SeedPosts() []Post {
	return []Post{
		{ID: 1, Title: "First post", Content: "This is the first post."},
		{ID: 2, Title: "Second post", Content: "This is the second post."},
	}
}

// NextID is the id after the largest one in posts, or 1.
func NextID(posts []Post) int64 {
	var max int64
	for _, p := range posts {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

// FilterPosts keeps posts whose title and content contain the given
// substrings, ignoring case. Empty terms match everything; callers decide
// what an all-empty query means.
func FilterPosts(posts []Post, title, content string) []Post {
	tl := strings.ToLower(title)
	cl := strings.ToLower(content)
	out := []Post{}
	for _, p := range posts {
		if tl != "" && !strings.Contains(strings.ToLower(p.Title), tl) {
			continue
		}
		if cl != "" && !strings.Contains(strings.ToLower(p.Content), cl) {
			continue
		}
		out = append(out, p)
	}
	return out
}
