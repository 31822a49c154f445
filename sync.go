package masterblog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// EmptyPlaceholder is shown instead of the list when there are no posts.
const EmptyPlaceholder = "No posts yet."

// Labels passed to the Prompter by Update.
const (
	PromptTitle   = "Edit title"
	PromptContent = "Edit content"
)

// Alert texts for mutation failures without a server-provided message.
const (
	msgEmptyFields  = "Please enter both title and content."
	msgCreateFailed = "Failed to create post."
	msgUpdateFailed = "Failed to update post."
	msgDeleteFailed = "Failed to delete post."
)

// View is the display surface driven by PostSync.
type View interface {
	// ShowPosts replaces the displayed list. posts is never empty.
	ShowPosts(posts []Post)
	// ShowEmpty replaces the displayed list with EmptyPlaceholder.
	ShowEmpty()
	// ShowListError replaces the displayed list with the error text.
	ShowListError(err error)
	// Alert reports a failed mutation without touching the list.
	Alert(msg string)
}

// Prompter asks the user for a value. ok is false when the user cancels.
type Prompter interface {
	Prompt(label, initial string) (value string, ok bool)
}

// PostSync keeps a View in step with the remote post collection. Every
// successful mutation is followed by exactly one full re-fetch; failures
// never re-fetch.
type PostSync struct {
	api    PostAPI
	store  ConfigStore
	view   View
	prompt Prompter
	logger Logger

	baseURL string
}

// SyncOption configures a PostSync.
type SyncOption func(*PostSync)

// WithPrompter sets the prompter used by Update.
func WithPrompter(p Prompter) SyncOption {
	return func(s *PostSync) {
		s.prompt = p
	}
}

// WithLogger sets where failures are traced.
func WithLogger(l Logger) SyncOption {
	return func(s *PostSync) {
		s.logger = l
	}
}

// NewPostSync loads the base URL from store once and returns a flow bound
// to view.
func NewPostSync(api PostAPI, store ConfigStore, view View, opts ...SyncOption) (*PostSync, error) {
	s := &PostSync{
		api:    api,
		store:  store,
		view:   view,
		logger: discardLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	base, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load base URL: %w", err)
	}
	s.baseURL = NormalizeBaseURL(base)
	return s, nil
}

// BaseURL returns the API address requests are sent to.
func (s *PostSync) BaseURL() string {
	return s.baseURL
}

// SetBaseURL normalizes and persists a new API address.
func (s *PostSync) SetBaseURL(base string) error {
	base = NormalizeBaseURL(base)
	if _, err := Endpoint(base); err != nil {
		return err
	}
	if err := s.store.Save(base); err != nil {
		return fmt.Errorf("save base URL: %w", err)
	}
	s.baseURL = base
	return nil
}

// List fetches all posts and replaces the displayed list.
func (s *PostSync) List(ctx context.Context) error {
	posts, err := s.api.ListPosts(ctx, s.baseURL)
	if err != nil {
		s.logger.Errorf("list posts from %s: %v", s.baseURL, err)
		s.view.ShowListError(err)
		return err
	}
	s.show(posts)
	return nil
}

// Search fetches matching posts and displays them like List does.
func (s *PostSync) Search(ctx context.Context, q SearchQuery) error {
	posts, err := s.api.SearchPosts(ctx, s.baseURL, q)
	if err != nil {
		s.logger.Errorf("search posts on %s: %v", s.baseURL, err)
		s.view.ShowListError(err)
		return err
	}
	s.show(posts)
	return nil
}

func (s *PostSync) show(posts []Post) {
	if len(posts) == 0 {
		s.view.ShowEmpty()
		return
	}
	s.view.ShowPosts(posts)
}

// Create submits a new post. Empty fields are rejected before any request.
func (s *PostSync) Create(ctx context.Context, title, content string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		s.view.Alert(msgEmptyFields)
		return ErrEmptyFields
	}
	post, err := s.api.CreatePost(ctx, s.baseURL, PostInput{Title: title, Content: content})
	if err != nil {
		return s.fail(err, msgCreateFailed)
	}
	s.logger.Debugf("created post %s", post.ID)
	s.refresh(ctx)
	return nil
}

// Delete removes a post.
func (s *PostSync) Delete(ctx context.Context, id PostID) error {
	if err := s.api.DeletePost(ctx, s.baseURL, id); err != nil {
		return s.fail(err, msgDeleteFailed)
	}
	s.logger.Debugf("deleted post %s", id)
	s.refresh(ctx)
	return nil
}

// Update prompts for a new title and content, pre-filled with the current
// values of post. Cancelling either prompt returns ErrCanceled without
// sending a request.
func (s *PostSync) Update(ctx context.Context, post Post) error {
	if s.prompt == nil {
		return errors.New("masterblog: update needs a prompter")
	}
	title, ok := s.prompt.Prompt(PromptTitle, post.Title)
	if !ok {
		return ErrCanceled
	}
	content, ok := s.prompt.Prompt(PromptContent, post.Content)
	if !ok {
		return ErrCanceled
	}
	if _, err := s.api.UpdatePost(ctx, s.baseURL, post.ID, PostInput{Title: title, Content: content}); err != nil {
		return s.fail(err, msgUpdateFailed)
	}
	s.logger.Debugf("updated post %s", post.ID)
	s.refresh(ctx)
	return nil
}

// refresh re-fetches after a successful mutation. A failed re-fetch is
// already shown in place of the list, so the mutation still counts as done.
func (s *PostSync) refresh(ctx context.Context) {
	_ = s.List(ctx)
}

func (s *PostSync) fail(err error, fallback string) error {
	s.logger.Errorf("%v", err)
	s.view.Alert(ServerMessage(err, fallback))
	return err
}
