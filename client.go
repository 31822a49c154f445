package masterblog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PostAPI is the remote posts service as seen by the sync flow.
// Every call takes the base URL explicitly.
type PostAPI interface {
	ListPosts(ctx context.Context, baseURL string) ([]Post, error)
	GetPost(ctx context.Context, baseURL string, id PostID) (Post, error)
	CreatePost(ctx context.Context, baseURL string, in PostInput) (Post, error)
	UpdatePost(ctx context.Context, baseURL string, id PostID, in PostInput) (Post, error)
	DeletePost(ctx context.Context, baseURL string, id PostID) error
	SearchPosts(ctx context.Context, baseURL string, q SearchQuery) ([]Post, error)
}

const defaultUserAgent = "masterblog-client"

// Client is the HTTP implementation of PostAPI.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient returns a Client with a 10 second request timeout.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListPosts fetches every post in server order.
func (c *Client) ListPosts(ctx context.Context, baseURL string) ([]Post, error) {
	var posts []Post
	if err := c.do(ctx, http.MethodGet, baseURL, nil, nil, &posts, "posts"); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if posts == nil {
		posts = []Post{}
	}
	return posts, nil
}

// GetPost fetches a single post.
func (c *Client) GetPost(ctx context.Context, baseURL string, id PostID) (Post, error) {
	var post Post
	if err := c.do(ctx, http.MethodGet, baseURL, nil, nil, &post, "posts", id.String()); err != nil {
		return Post{}, fmt.Errorf("get post %s: %w", id, err)
	}
	return post, nil
}

// CreatePost submits a new post and returns the server's copy.
func (c *Client) CreatePost(ctx context.Context, baseURL string, in PostInput) (Post, error) {
	var post Post
	if err := c.do(ctx, http.MethodPost, baseURL, nil, in, &post, "posts"); err != nil {
		return Post{}, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// UpdatePost replaces the title and content of a post.
func (c *Client) UpdatePost(ctx context.Context, baseURL string, id PostID, in PostInput) (Post, error) {
	var post Post
	if err := c.do(ctx, http.MethodPut, baseURL, nil, in, &post, "posts", id.String()); err != nil {
		return Post{}, fmt.Errorf("update post %s: %w", id, err)
	}
	return post, nil
}

// DeletePost removes a post. Any 2xx status, 204 included, is success.
func (c *Client) DeletePost(ctx context.Context, baseURL string, id PostID) error {
	if err := c.do(ctx, http.MethodDelete, baseURL, nil, nil, nil, "posts", id.String()); err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}

// SearchPosts queries the search endpoint. Empty query fields are not sent.
func (c *Client) SearchPosts(ctx context.Context, baseURL string, q SearchQuery) ([]Post, error) {
	params := url.Values{}
	if s := strings.TrimSpace(q.Title); s != "" {
		params.Set("title", s)
	}
	if s := strings.TrimSpace(q.Content); s != "" {
		params.Set("content", s)
	}
	var posts []Post
	if err := c.do(ctx, http.MethodGet, baseURL, params, nil, &posts, "posts", "search"); err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	if posts == nil {
		posts = []Post{}
	}
	return posts, nil
}

func (c *Client) do(ctx context.Context, method, baseURL string, params url.Values, body, out any, segments ...string) error {
	endpoint, err := Endpoint(baseURL, segments...)
	if err != nil {
		return err
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError reads the {"error": "..."} body of a failed response.
// Bodies that are not JSON leave Message empty.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &payload) == nil {
		apiErr.Message = strings.TrimSpace(payload.Error)
	}
	return apiErr
}
