package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const (
	msgNotFound      = "Post not found"
	msgNotJSON       = "Content-Type must be application/json"
	msgBothRequired  = "Both 'title' and 'content' are required"
	msgTitleEmpty    = "Title cannot be empty"
	msgContentEmpty  = "Content cannot be empty"
	maxRequestBodyKB = 256
)

type createRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type updateRequest struct {
	Title   *string `json:"title" validate:"omitnil,min=1"`
	Content *string `json:"content" validate:"omitnil,min=1"`
}

func (s *Server) handleList(c echo.Context) error {
	posts, err := s.Cache.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

func (s *Server) handleGet(c echo.Context) error {
	id, ok := postID(c)
	if !ok {
		return jsonError(c, http.StatusNotFound, msgNotFound)
	}
	post, err := s.Store.Get(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return jsonError(c, http.StatusNotFound, msgNotFound)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

func (s *Server) handleCreate(c echo.Context) error {
	if !isJSON(c.Request().Header.Get(echo.HeaderContentType)) {
		return jsonError(c, http.StatusUnsupportedMediaType, msgNotJSON)
	}
	var req createRequest
	decodeBody(c, &req)
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := c.Validate(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, msgBothRequired)
	}

	post, err := s.Store.Create(c.Request().Context(), req.Title, req.Content)
	if err != nil {
		return err
	}
	s.Cache.Invalidate()
	c.Logger().Debugf("created post %d", post.ID)
	return c.JSON(http.StatusCreated, post)
}

// handleUpdate applies a partial update. Fields that are present must not
// be empty after trimming; absent fields keep their value.
func (s *Server) handleUpdate(c echo.Context) error {
	if !isJSON(c.Request().Header.Get(echo.HeaderContentType)) {
		return jsonError(c, http.StatusUnsupportedMediaType, msgNotJSON)
	}
	id, ok := postID(c)
	if !ok {
		return jsonError(c, http.StatusNotFound, msgNotFound)
	}
	var req updateRequest
	decodeBody(c, &req)

	ctx := c.Request().Context()
	if _, err := s.Store.Get(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return jsonError(c, http.StatusNotFound, msgNotFound)
		}
		return err
	}

	req.Title = trimmed(req.Title)
	req.Content = trimmed(req.Content)
	if err := c.Validate(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, updateMessage(err))
	}

	post, err := s.Store.Update(ctx, id, Patch{Title: req.Title, Content: req.Content})
	if errors.Is(err, ErrNotFound) {
		return jsonError(c, http.StatusNotFound, msgNotFound)
	}
	if err != nil {
		return err
	}
	s.Cache.Invalidate()
	c.Logger().Debugf("updated post %d", post.ID)
	return c.JSON(http.StatusOK, post)
}

func (s *Server) handleDelete(c echo.Context) error {
	id, ok := postID(c)
	if !ok {
		return jsonError(c, http.StatusNotFound, msgNotFound)
	}
	err := s.Store.Delete(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return jsonError(c, http.StatusNotFound, msgNotFound)
	}
	if err != nil {
		return err
	}
	s.Cache.Invalidate()
	c.Logger().Debugf("deleted post %d", id)
	return c.NoContent(http.StatusNoContent)
}

// handleSearch matches title and content substrings case-insensitively.
// Both terms must match when both are given; no terms yields an empty list.
func (s *Server) handleSearch(c echo.Context) error {
	title := strings.TrimSpace(c.QueryParam("title"))
	content := strings.TrimSpace(c.QueryParam("content"))
	if title == "" && content == "" {
		return c.JSON(http.StatusOK, []Post{})
	}
	posts, err := s.Cache.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, FilterPosts(posts, title, content))
}

func postID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// isJSON accepts application/json and application/*+json.
func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == echo.MIMEApplicationJSON ||
		(strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"))
}

// decodeBody fills v from the JSON body. A malformed or non-object body
// leaves v as an empty request.
func decodeBody(c echo.Context, v interface{}) {
	body := http.MaxBytesReader(c.Response(), c.Request().Body, maxRequestBodyKB<<10)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		c.Logger().Debugf("ignoring request body: %v", err)
		switch r := v.(type) {
		case *createRequest:
			*r = createRequest{}
		case *updateRequest:
			*r = updateRequest{}
		}
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func updateMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Content" {
		return msgContentEmpty
	}
	return msgTitleEmpty
}
