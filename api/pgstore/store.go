// Package pgstore is the Postgres implementation of api.Store, built on a
// pgx connection pool.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/eringen/masterblog/api"
)

// Store keeps posts in a Postgres table.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database described by connString and creates the
// posts table if needed, seeding it on creation.
func New(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = 'posts')`,
	).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
CREATE TABLE IF NOT EXISTS posts (
    id BIGSERIAL PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL
)`); err != nil {
		return err
	}
	for _, p := range api.SeedPosts() {
		if _, err := tx.Exec(ctx, `INSERT INTO posts (title, content) VALUES ($1, $2)`, p.Title, p.Content); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// List returns every post ordered by id.
func (s *Store) List(ctx context.Context) ([]api.Post, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, title, content FROM posts ORDER BY id`)
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
	err := s.pool.QueryRow(ctx, `SELECT title, content FROM posts WHERE id = $1`, id).Scan(&p.Title, &p.Content)
	if errors.Is(err, pgx.ErrNoRows) {
		return api.Post{}, api.ErrNotFound
	}
	if err != nil {
		return api.Post{}, err
	}
	return p, nil
}

// Create inserts a post and returns it with its new id.
func (s *Store) Create(ctx context.Context, title, content string) (api.Post, error) {
	p := api.Post{Title: title, Content: content}
	if err := s.pool.QueryRow(ctx,
		`INSERT INTO posts (title, content) VALUES ($1, $2) RETURNING id`, title, content,
	).Scan(&p.ID); err != nil {
		return api.Post{}, err
	}
	return p, nil
}

// Update sets the non-nil patch fields and returns the stored post.
func (s *Store) Update(ctx context.Context, id int64, patch api.Patch) (api.Post, error) {
	p := api.Post{ID: id}
	err := s.pool.QueryRow(ctx,
		`UPDATE posts SET title = COALESCE($1::text, title), content = COALESCE($2::text, content)
		 WHERE id = $3 RETURNING title, content`,
		patch.Title, patch.Content, id,
	).Scan(&p.Title, &p.Content)
	if errors.Is(err, pgx.ErrNoRows) {
		return api.Post{}, api.ErrNotFound
	}
	if err != nil {
		return api.Post{}, err
	}
	return p, nil
}

// Delete removes a post by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return api.ErrNotFound
	}
	return nil
}
