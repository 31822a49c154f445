package views

import (
	"encoding/json"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// esc escapes text for HTML element content and quoted attribute values.
func esc(s string) string {
	return templ.EscapeString(s)
}

// postPath builds an app path for a post, e.g. postPath("7", "edit") -> "/posts/7/edit/".
func postPath(id string, rest ...string) string {
	p := "/posts/" + url.PathEscape(id) + "/"
	for _, r := range rest {
		p += url.PathEscape(r) + "/"
	}
	return p
}

// PostElementID is the DOM id of a post card.
func PostElementID(id string) string {
	return "post-" + url.PathEscape(id)
}

// hxHeaders produces the hx-headers JSON carrying the CSRF token.
func hxHeaders(token string) string {
	b, err := json.Marshal(map[string]string{"X-CSRF-Token": token})
	if err != nil {
		return "{}"
	}
	return string(b)
}

// writeAll writes parts in order, stopping at the first error.
func writeAll(w io.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
	}
	return nil
}

func csrfField(token string) string {
	return `<input type="hidden" name="_csrf" value="` + esc(token) + `">`
}
