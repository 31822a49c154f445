package masterblog

import (
	"context"
	"errors"
	"testing"
)

// fakeAPI records calls and serves canned results.
type fakeAPI struct {
	posts     []Post
	listErr   error
	createErr error
	updateErr error
	deleteErr error

	calls   []string
	created []PostInput
	updated []PostInput
	baseURL string
}

func (f *fakeAPI) record(name, baseURL string) {
	f.calls = append(f.calls, name)
	f.baseURL = baseURL
}

func (f *fakeAPI) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) ListPosts(ctx context.Context, baseURL string) ([]Post, error) {
	f.record("list", baseURL)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Post{}, f.posts...), nil
}

func (f *fakeAPI) GetPost(ctx context.Context, baseURL string, id PostID) (Post, error) {
	f.record("get", baseURL)
	for _, p := range f.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return Post{}, &APIError{StatusCode: 404, Message: "Post not found"}
}

func (f *fakeAPI) CreatePost(ctx context.Context, baseURL string, in PostInput) (Post, error) {
	f.record("create", baseURL)
	f.created = append(f.created, in)
	if f.createErr != nil {
		return Post{}, f.createErr
	}
	p := Post{ID: "99", Title: in.Title, Content: in.Content}
	f.posts = append(f.posts, p)
	return p, nil
}

func (f *fakeAPI) UpdatePost(ctx context.Context, baseURL string, id PostID, in PostInput) (Post, error) {
	f.record("update", baseURL)
	f.updated = append(f.updated, in)
	if f.updateErr != nil {
		return Post{}, f.updateErr
	}
	return Post{ID: id, Title: in.Title, Content: in.Content}, nil
}

func (f *fakeAPI) DeletePost(ctx context.Context, baseURL string, id PostID) error {
	f.record("delete", baseURL)
	return f.deleteErr
}

func (f *fakeAPI) SearchPosts(ctx context.Context, baseURL string, q SearchQuery) ([]Post, error) {
	f.record("search", baseURL)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Post{}, f.posts...), nil
}

// recordingView keeps the last thing shown.
type recordingView struct {
	posts   []Post
	empties int
	listErr error
	alerts  []string
	renders int
}

func (v *recordingView) ShowPosts(posts []Post) {
	v.renders++
	v.posts = posts
}

func (v *recordingView) ShowEmpty() {
	v.renders++
	v.empties++
	v.posts = nil
}

func (v *recordingView) ShowListError(err error) {
	v.renders++
	v.listErr = err
}

func (v *recordingView) Alert(msg string) {
	v.alerts = append(v.alerts, msg)
}

type scriptedPrompter struct {
	answers []string
	cancel  int // 1-based prompt index to cancel, 0 for none
	labels  []string
	initial []string
}

func (p *scriptedPrompter) Prompt(label, initial string) (string, bool) {
	p.labels = append(p.labels, label)
	p.initial = append(p.initial, initial)
	if len(p.labels) == p.cancel {
		return "", false
	}
	return p.answers[len(p.labels)-1], true
}

func newTestSync(t *testing.T, api *fakeAPI, opts ...SyncOption) (*PostSync, *recordingView) {
	t.Helper()
	v := &recordingView{}
	s, err := NewPostSync(api, NewMemoryConfigStore(""), v, opts...)
	if err != nil {
		t.Fatalf("NewPostSync: %v", err)
	}
	return s, v
}

func TestListEmptyShowsPlaceholderOnce(t *testing.T) {
	s, v := newTestSync(t, &fakeAPI{})
	if err := s.List(context.Background()); err != nil {
		t.Fatal(err)
	}
	if v.empties != 1 || v.renders != 1 {
		t.Fatalf("placeholder shown %d times in %d renders", v.empties, v.renders)
	}
}

func TestListPreservesOrder(t *testing.T) {
	api := &fakeAPI{posts: []Post{{ID: "3", Title: "c"}, {ID: "1", Title: "a"}, {ID: "2", Title: "b"}}}
	s, v := newTestSync(t, api)
	if err := s.List(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(v.posts) != 3 || v.posts[0].ID != "3" || v.posts[1].ID != "1" || v.posts[2].ID != "2" {
		t.Fatalf("order not preserved: %+v", v.posts)
	}
}

func TestListErrorShownInline(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("connection refused")}
	s, v := newTestSync(t, api)
	if err := s.List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if v.listErr == nil || len(v.alerts) != 0 {
		t.Fatalf("list error should render inline, got listErr=%v alerts=%v", v.listErr, v.alerts)
	}
}

func TestDefaultBaseURL(t *testing.T) {
	api := &fakeAPI{}
	s, _ := newTestSync(t, api)
	if s.BaseURL() != DefaultBaseURL {
		t.Fatalf("BaseURL = %q", s.BaseURL())
	}
	_ = s.List(context.Background())
	if api.baseURL != DefaultBaseURL {
		t.Fatalf("request used %q", api.baseURL)
	}
}

func TestSetBaseURLPersists(t *testing.T) {
	store := NewMemoryConfigStore("")
	s, err := NewPostSync(&fakeAPI{}, store, &recordingView{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetBaseURL(" http://example.com/api/ "); err != nil {
		t.Fatal(err)
	}
	saved, _ := store.Load()
	if saved != "http://example.com/api" || s.BaseURL() != saved {
		t.Fatalf("saved %q, BaseURL %q", saved, s.BaseURL())
	}
	if err := s.SetBaseURL("not a url"); err == nil {
		t.Fatal("expected error for invalid URL")
	}
	if saved, _ := store.Load(); saved != "http://example.com/api" {
		t.Fatalf("invalid URL overwrote saved value: %q", saved)
	}
}

func TestCreateEmptyFieldsSendsNothing(t *testing.T) {
	for _, tc := range []struct{ title, content string }{
		{"", "body"},
		{"title", ""},
		{"   ", "\t\n"},
	} {
		api := &fakeAPI{}
		s, v := newTestSync(t, api)
		err := s.Create(context.Background(), tc.title, tc.content)
		if !errors.Is(err, ErrEmptyFields) {
			t.Fatalf("Create(%q, %q) err = %v", tc.title, tc.content, err)
		}
		if len(api.calls) != 0 {
			t.Fatalf("Create(%q, %q) made calls %v", tc.title, tc.content, api.calls)
		}
		if len(v.alerts) != 1 || v.alerts[0] != "Please enter both title and content." {
			t.Fatalf("alerts = %v", v.alerts)
		}
	}
}

func TestCreateRefetchesOnce(t *testing.T) {
	api := &fakeAPI{}
	s, v := newTestSync(t, api)
	if err := s.Create(context.Background(), "Title", "Body"); err != nil {
		t.Fatal(err)
	}
	if api.count("create") != 1 || api.count("list") != 1 {
		t.Fatalf("calls = %v", api.calls)
	}
	if len(v.posts) != 1 || v.posts[0].Title != "Title" {
		t.Fatalf("view not refreshed: %+v", v.posts)
	}
}

func TestCreateFailureDoesNotRefetch(t *testing.T) {
	api := &fakeAPI{createErr: &APIError{StatusCode: 400, Message: "Both 'title' and 'content' are required"}}
	s, v := newTestSync(t, api)
	if err := s.Create(context.Background(), "Title", "Body"); err == nil {
		t.Fatal("expected error")
	}
	if api.count("list") != 0 {
		t.Fatalf("failed create re-fetched: %v", api.calls)
	}
	if len(v.alerts) != 1 || v.alerts[0] != "Both 'title' and 'content' are required" {
		t.Fatalf("alerts = %v", v.alerts)
	}
}

func TestCreateTransportFailureUsesFallback(t *testing.T) {
	api := &fakeAPI{createErr: errors.New("dial tcp: connection refused")}
	s, v := newTestSync(t, api)
	_ = s.Create(context.Background(), "Title", "Body")
	if len(v.alerts) != 1 || v.alerts[0] != "Failed to create post." {
		t.Fatalf("alerts = %v", v.alerts)
	}
}

func TestDeleteRefetchesOnce(t *testing.T) {
	api := &fakeAPI{}
	s, v := newTestSync(t, api)
	if err := s.Delete(context.Background(), "1"); err != nil {
		t.Fatal(err)
	}
	if api.count("delete") != 1 || api.count("list") != 1 {
		t.Fatalf("calls = %v", api.calls)
	}
	if v.empties != 1 {
		t.Fatalf("expected placeholder after refresh, got %d", v.empties)
	}
}

func TestDeleteFailureDoesNotRefetch(t *testing.T) {
	api := &fakeAPI{deleteErr: &APIError{StatusCode: 404}}
	s, v := newTestSync(t, api)
	if err := s.Delete(context.Background(), "1"); err == nil {
		t.Fatal("expected error")
	}
	if api.count("list") != 0 {
		t.Fatalf("failed delete re-fetched: %v", api.calls)
	}
	if len(v.alerts) != 1 || v.alerts[0] != "Failed to delete post." {
		t.Fatalf("alerts = %v", v.alerts)
	}
}

func TestUpdatePromptsWithCurrentValues(t *testing.T) {
	api := &fakeAPI{}
	p := &scriptedPrompter{answers: []string{"New title", "New body"}}
	s, _ := newTestSync(t, api, WithPrompter(p))

	post := Post{ID: "5", Title: "Old title", Content: "Old body"}
	if err := s.Update(context.Background(), post); err != nil {
		t.Fatal(err)
	}
	if len(p.labels) != 2 || p.labels[0] != PromptTitle || p.labels[1] != PromptContent {
		t.Fatalf("labels = %v", p.labels)
	}
	if p.initial[0] != "Old title" || p.initial[1] != "Old body" {
		t.Fatalf("prompts not pre-filled: %v", p.initial)
	}
	if len(api.updated) != 1 || api.updated[0] != (PostInput{Title: "New title", Content: "New body"}) {
		t.Fatalf("updated = %+v", api.updated)
	}
	if api.count("list") != 1 {
		t.Fatalf("expected one re-fetch, calls = %v", api.calls)
	}
}

func TestUpdateCanceled(t *testing.T) {
	for _, cancelAt := range []int{1, 2} {
		api := &fakeAPI{}
		p := &scriptedPrompter{answers: []string{"a", "b"}, cancel: cancelAt}
		s, v := newTestSync(t, api, WithPrompter(p))

		err := s.Update(context.Background(), Post{ID: "5", Title: "t", Content: "c"})
		if !errors.Is(err, ErrCanceled) {
			t.Fatalf("cancel at %d: err = %v", cancelAt, err)
		}
		if len(api.calls) != 0 {
			t.Fatalf("cancel at %d: calls = %v", cancelAt, api.calls)
		}
		if len(v.alerts) != 0 || v.renders != 0 {
			t.Fatalf("cancel at %d changed the view", cancelAt)
		}
	}
}

func TestUpdateFailureShowsServerMessage(t *testing.T) {
	api := &fakeAPI{updateErr: &APIError{StatusCode: 400, Message: "Title cannot be empty"}}
	p := &scriptedPrompter{answers: []string{"", "b"}}
	s, v := newTestSync(t, api, WithPrompter(p))

	if err := s.Update(context.Background(), Post{ID: "5"}); err == nil {
		t.Fatal("expected error")
	}
	if api.count("list") != 0 {
		t.Fatalf("failed update re-fetched: %v", api.calls)
	}
	if len(v.alerts) != 1 || v.alerts[0] != "Title cannot be empty" {
		t.Fatalf("alerts = %v", v.alerts)
	}
}

func TestUpdateWithoutPrompter(t *testing.T) {
	api := &fakeAPI{}
	s, _ := newTestSync(t, api)
	if err := s.Update(context.Background(), Post{ID: "1"}); err == nil {
		t.Fatal("expected error")
	}
	if len(api.calls) != 0 {
		t.Fatalf("calls = %v", api.calls)
	}
}

func TestMutationSucceedsWhenRefetchFails(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("gone")}
	s, v := newTestSync(t, api)
	if err := s.Delete(context.Background(), "1"); err != nil {
		t.Fatalf("Delete returned %v", err)
	}
	if api.count("list") != 1 || v.listErr == nil {
		t.Fatalf("expected one failing re-fetch shown inline, calls = %v", api.calls)
	}
}

func TestSearchUsesSamePresentation(t *testing.T) {
	api := &fakeAPI{}
	s, v := newTestSync(t, api)
	if err := s.Search(context.Background(), SearchQuery{Title: "x"}); err != nil {
		t.Fatal(err)
	}
	if v.empties != 1 {
		t.Fatalf("expected placeholder for empty search result")
	}
}
