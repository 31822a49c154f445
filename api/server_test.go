package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eringen/masterblog/api"
	"github.com/eringen/masterblog/api/jsonstore"
)

func newTestServer(t *testing.T, cfg api.Config) *api.Server {
	t.Helper()
	store, err := jsonstore.New(filepath.Join(t.TempDir(), "posts.json"))
	if err != nil {
		t.Fatalf("jsonstore: %v", err)
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = -1
	}
	cfg.LogFile = filepath.Join(t.TempDir(), "api.log")
	srv := api.NewServer(cfg, store)
	t.Cleanup(func() { store.Close() })
	return srv
}

func do(t *testing.T, srv *api.Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)
	return rec
}

func decodePosts(t *testing.T, rec *httptest.ResponseRecorder) []api.Post {
	t.Helper()
	var posts []api.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &posts); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return posts
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

func TestListSeededPosts(t *testing.T) {
	srv := newTestServer(t, api.Config{})
	rec := do(t, srv, http.MethodGet, "/api/posts", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	posts := decodePosts(t, rec)
	if len(posts) != 2 || posts[0].Title != "First post" || posts[1].Title != "Second post" {
		t.Fatalf("unexpected seed posts %+v", posts)
	}
}

func TestCreatePost(t *testing.T) {
	srv := newTestServer(t, api.Config{})
	rec := do(t, srv, http.MethodPost, "/api/posts", "application/json", `{"title":"  Third  ","content":"Body"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var p api.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.ID != 3 || p.Title != "Third" || p.Content != "Body" {
		t.Fatalf("unexpected post %+v", p)
	}

	posts := decodePosts(t, do(t, srv, http.MethodGet, "/api/posts", "", ""))
	if len(posts) != 3 || posts[2].ID != 3 {
		t.Fatalf("created post not listed last: %+v", posts)
	}
}

func TestCreatePostErrors(t *testing.T) {
	srv := newTestServer(t, api.Config{})
	tests := []struct {
		name        string
		contentType string
		body        string
		status      int
		msg         string
	}{
		{"not json", "text/plain", `{"title":"a","content":"b"}`, http.StatusUnsupportedMediaType, "Content-Type must be application/json"},
		{"missing content", "application/json", `{"title":"a"}`, http.StatusBadRequest, "Both 'title' and 'content' are required"},
		{"blank title", "application/json", `{"title":"   ","content":"b"}`, http.StatusBadRequest, "Both 'title' and 'content' are required"},
		{"malformed", "application/json", `{"title":`, http.StatusBadRequest, "Both 'title' and 'content' are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/posts", tt.contentType, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := errorBody(t, rec); got != tt.msg {
				t.Fatalf("error = %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestGetPost(t *testing.T) {
	srv := newTestServer(t, api.Config{})
	rec := do(t, srv, http.MethodGet, "/api/posts/2", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	rec = do(t, srv, http.MethodGet, "/api/posts/99", "", "")
	if rec.Code != http.StatusNotFound || errorBody(t, rec) != "Post not found" {
		t.Fatalf("missing post: %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, srv, http.MethodGet, "/api/posts/abc", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("non-numeric id: %d", rec.Code)
	}
}

func TestUpdatePost(t *testing.T) {
	srv := newTestServer(t, api.Config{})
	rec := do(t, srv, http.MethodPut, "/api/posts/1", "application/json", `{"title":"Renamed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var p api.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.Title != "Renamed" || p.Content != "This is the first post." {
		t.Fatalf("partial update changed the wrong fields: %+v", p)
	}
}

func TestUpdatePostErrors(t *testing.T) {
	srv := newTestServer(t, api.Config{})
	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		status      int
		msg         string
	}{
		{"not json", "/api/posts/1", "text/plain", `{}`, http.StatusUnsupportedMediaType, "Content-Type must be application/json"},
		{"missing", "/api/posts/42", "application/json", `{"title":"x"}`, http.StatusNotFound, "Post not found"},
		{"empty title", "/api/posts/1", "application/json", `{"title":"  "}`, http.StatusBadRequest, "Title cannot be empty"},
		{"empty content", "/api/posts/1", "application/json", `{"content":""}`, http.StatusBadRequest, "Content cannot be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPut, tt.target, tt.contentType, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := errorBody(t, rec); got != tt.msg {
				t.Fatalf("error = %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestDeletePost(t *testing.T) {
	srv := newTestServer(t, api.Config{})
	rec := do(t, srv, http.MethodDelete, "/api/posts/1", "", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
	rec = do(t, srv, http.MethodDelete, "/api/posts/1", "", "")
	if rec.Code != http.StatusNotFound || errorBody(t, rec) != "Post not found" {
		t.Fatalf("second delete: %d %s", rec.Code, rec.Body.String())
	}
	posts := decodePosts(t, do(t, srv, http.MethodGet, "/api/posts", "", ""))
	if len(posts) != 1 || posts[0].ID != 2 {
		t.Fatalf("unexpected posts after delete: %+v", posts)
	}
}

func TestSearchPosts(t *testing.T) {
	srv := newTestServer(t, api.Config{})
	tests := []struct {
		query string
		want  int
	}{
		{"?title=FIRST", 1},
		{"?content=post", 2},
		{"?title=second&content=first", 0},
		{"", 0},
		{"?title=%20%20", 0},
	}
	for _, tt := range tests {
		rec := do(t, srv, http.MethodGet, "/api/posts/search"+tt.query, "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", tt.query, rec.Code)
		}
		if got := len(decodePosts(t, rec)); got != tt.want {
			t.Fatalf("%s: got %d posts, want %d", tt.query, got, tt.want)
		}
		if strings.TrimSpace(rec.Body.String()) == "null" {
			t.Fatalf("%s: search returned null", tt.query)
		}
	}
}

func TestWriteRateLimit(t *testing.T) {
	srv := newTestServer(t, api.Config{WriteLimit: 1, WriteWindow: time.Minute})
	body := `{"title":"a","content":"b"}`
	if rec := do(t, srv, http.MethodPost, "/api/posts", "application/json", body); rec.Code != http.StatusCreated {
		t.Fatalf("first write: %d", rec.Code)
	}
	rec := do(t, srv, http.MethodPost, "/api/posts", "application/json", body)
	if rec.Code != http.StatusTooManyRequests || errorBody(t, rec) != "Too many requests" {
		t.Fatalf("second write: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, srv, http.MethodGet, "/api/posts", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("reads must not be limited: %d", rec.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, api.Config{})
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestUnknownRouteIsJSON(t *testing.T) {
	srv := newTestServer(t, api.Config{})
	rec := do(t, srv, http.MethodGet, "/api/nope", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if errorBody(t, rec) == "" {
		t.Fatal("expected error message")
	}
}

func TestAPIDocs(t *testing.T) {
	srv := newTestServer(t, api.Config{})

	rec := do(t, srv, http.MethodGet, "/static/masterblog.json", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("openapi status = %d", rec.Code)
	}
	var doc struct {
		OpenAPI string                     `json:"openapi"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode openapi: %v", err)
	}
	if !strings.HasPrefix(doc.OpenAPI, "3.") {
		t.Fatalf("openapi version = %q", doc.OpenAPI)
	}
	for _, p := range []string{"/posts", "/posts/search", "/posts/{id}"} {
		if _, ok := doc.Paths[p]; !ok {
			t.Fatalf("openapi document missing %s", p)
		}
	}

	for _, target := range []string{"/api/docs", "/api/docs/"} {
		rec := do(t, srv, http.MethodGet, target, "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", target, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Fatalf("%s Content-Type = %q", target, ct)
		}
		if !strings.Contains(rec.Body.String(), "/static/masterblog.json") {
			t.Fatalf("%s does not load the openapi document", target)
		}
	}
}
