package masterblog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PostID is the server-assigned identifier of a post. The client treats it as
// opaque: it decodes from a JSON number or string and always encodes as a string.
type PostID string

// UnmarshalJSON accepts both `1` and `"1"`.
func (id *PostID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("post id: %w", err)
		}
		*id = PostID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("post id: %w", err)
	}
	*id = PostID(n.String())
	return nil
}

func (id PostID) String() string { return string(id) }

// Post is the display copy of a remote post. It is rebuilt on every fetch.
type Post struct {
	ID      PostID `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PostInput is the request body for create and update.
type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SearchQuery filters posts by case-insensitive substrings of title and content.
type SearchQuery struct {
	Title   string
	Content string
}
