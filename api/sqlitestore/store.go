// Package sqlitestore is the SQLite implementation of api.Store.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/eringen/masterblog/api"
)

// Store wraps a SQLite database holding the posts table.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema. A newly created posts table is
// seeded with api.SeedPosts.
func New(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during writes; busy_timeout makes writers wait
	// instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	var existing int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'posts'`,
	).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// INTEGER PRIMARY KEY without AUTOINCREMENT hands out max(id)+1.
	if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL
);
`); err != nil {
		return err
	}
	for _, p := range api.SeedPosts() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO posts (id, title, content) VALUES (?, ?, ?)`,
			p.ID, p.Title, p.Content); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// List returns every post ordered by id.
func (s *Store) List(ctx context.Context) ([]api.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, content FROM posts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []api.Post{}
	for rows.Next() {
		var p api.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Get returns one post by id.
func (s *Store) Get(ctx context.Context, id int64) (api.Post, error) {
	p := api.Post{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT title, content FROM posts WHERE id = ?`, id).
		Scan(&p.Title, &p.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return api.Post{}, api.ErrNotFound
	}
	if err != nil {
		return api.Post{}, err
	}
	return p, nil
}

// Create inserts a post and returns it with its new id.
func (s *Store) Create(ctx context.Context, title, content string) (api.Post, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO posts (title, content) VALUES (?, ?)`, title, content)
	if err != nil {
		return api.Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return api.Post{}, err
	}
	return api.Post{ID: id, Title: title, Content: content}, nil
}

// Update sets the non-nil patch fields.
func (s *Store) Update(ctx context.Context, id int64, patch api.Patch) (api.Post, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE posts SET title = COALESCE(?, title), content = COALESCE(?, content) WHERE id = ?`,
		nullable(patch.Title), nullable(patch.Content), id)
	if err != nil {
		return api.Post{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return api.Post{}, err
	}
	if n == 0 {
		return api.Post{}, api.ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes a post by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return api.ErrNotFound
	}
	return nil
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
