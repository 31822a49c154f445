package masterblog

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/masterblog/views"
)

// newSync builds a flow for one request, reading the base URL from the
// visitor's session.
func (a *App) newSync(c echo.Context, v *pageView, opts ...SyncOption) (*PostSync, error) {
	store := NewSessionConfigStore(c, a.Config.APIBaseURL)
	opts = append([]SyncOption{WithLogger(c.Logger())}, opts...)
	return NewPostSync(a.API, store, v, opts...)
}

// handleHome serves the page with a freshly fetched list.
func (a *App) handleHome(c echo.Context) error {
	v := &pageView{alert: c.QueryParam("msg")}
	s, err := a.newSync(c, v)
	if err != nil {
		return err
	}
	_ = s.List(c.Request().Context())
	return a.renderPage(c, s, v, views.SearchState{})
}

// handleConfig stores the base URL and loads posts from it.
func (a *App) handleConfig(c echo.Context) error {
	v := &pageView{}
	s, err := a.newSync(c, v)
	if err != nil {
		return err
	}
	if err := s.SetBaseURL(c.FormValue("base_url")); err != nil {
		c.Logger().Errorf("set base URL: %v", err)
		v.Alert("Please enter a valid http(s) API base URL.")
		return a.respond(c, s, v, err)
	}
	_ = s.List(c.Request().Context())
	return a.respond(c, s, v, nil)
}

func (a *App) handleSearch(c echo.Context) error {
	q := views.SearchState{
		Title:   strings.TrimSpace(c.QueryParam("title")),
		Content: strings.TrimSpace(c.QueryParam("content")),
	}
	v := &pageView{}
	s, err := a.newSync(c, v)
	if err != nil {
		return err
	}
	_ = s.Search(c.Request().Context(), SearchQuery{Title: q.Title, Content: q.Content})
	if isHTMX(c) {
		return Render(c, views.PostList(v.list, CsrfToken(c)))
	}
	return a.renderPage(c, s, v, q)
}

func (a *App) handleCreate(c echo.Context) error {
	v := &pageView{}
	s, err := a.newSync(c, v)
	if err != nil {
		return err
	}
	err = s.Create(c.Request().Context(), c.FormValue("title"), c.FormValue("content"))
	return a.respond(c, s, v, err)
}

func (a *App) handleDelete(c echo.Context) error {
	v := &pageView{}
	s, err := a.newSync(c, v)
	if err != nil {
		return err
	}
	err = s.Delete(c.Request().Context(), PostID(c.Param("id")))
	return a.respond(c, s, v, err)
}

// handleEdit fetches the current post and renders the edit form, the web
// equivalent of prompts pre-filled with the current values.
func (a *App) handleEdit(c echo.Context) error {
	v := &pageView{}
	s, err := a.newSync(c, v)
	if err != nil {
		return err
	}
	id := PostID(c.Param("id"))
	post, err := a.API.GetPost(c.Request().Context(), s.BaseURL(), id)
	if err != nil {
		c.Logger().Errorf("load post %s for edit: %v", id, err)
		v.Alert(ServerMessage(err, "Failed to load post."))
		return a.respond(c, s, v, err)
	}
	form := views.EditForm(toViewPost(post), CsrfToken(c))
	if isHTMX(c) {
		return Render(c, form)
	}
	return Render(c, views.EditPage(a.viewConfig(), form))
}

// handleUpdate applies the submitted edit form. A cancel, or a form missing
// a field, aborts without contacting the API.
func (a *App) handleUpdate(c echo.Context) error {
	id := PostID(c.Param("id"))
	current := Post{ID: id, Title: c.FormValue("orig_title"), Content: c.FormValue("orig_content")}
	if c.FormValue("cancel") != "" {
		return a.cancelEdit(c, current)
	}

	v := &pageView{}
	s, err := a.newSync(c, v, WithPrompter(newFormPrompter(c, "title", "content")))
	if err != nil {
		return err
	}
	err = s.Update(c.Request().Context(), current)
	if errors.Is(err, ErrCanceled) {
		return a.cancelEdit(c, current)
	}
	return a.respond(c, s, v, err)
}

func (a *App) cancelEdit(c echo.Context, current Post) error {
	if isHTMX(c) {
		card := views.PostCard(toViewPost(current), CsrfToken(c))
		return RenderSwap(c, "#"+views.PostElementID(current.ID.String()), card)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// respond finishes a mutation. htmx requests get the refreshed list, or the
// alert swapped into #alert. Plain form posts get the full page, or a
// redirect carrying the alert so the failure does not re-fetch here.
func (a *App) respond(c echo.Context, s *PostSync, v *pageView, err error) error {
	if isHTMX(c) {
		if err != nil {
			return RenderSwap(c, "#alert", views.Alert(v.alert))
		}
		return Render(c, views.PostList(v.list, CsrfToken(c)))
	}
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/?msg="+url.QueryEscape(v.alert))
	}
	return a.renderPage(c, s, v, views.SearchState{})
}

func (a *App) renderPage(c echo.Context, s *PostSync, v *pageView, search views.SearchState) error {
	return Render(c, views.Page(views.PageData{
		Site:      a.viewConfig(),
		BaseURL:   s.BaseURL(),
		CSRFToken: CsrfToken(c),
		List:      v.list,
		Alert:     v.alert,
		Search:    search,
	}))
}

func toViewPost(p Post) views.Post {
	return views.Post{ID: p.ID.String(), Title: p.Title, Content: p.Content}
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.viewConfig()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.viewConfig()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
