package views

// SiteConfig holds site-wide settings populated from environment variables.
// Every handler passes this to templates so nothing is hardcoded.
type SiteConfig struct {
	Name string // SITE_NAME (default "Masterblog")
	// HTMXScript is the script URL for htmx. Empty renders plain forms only.
	HTMXScript string
}

// Post is the card view model. It mirrors masterblog.Post to avoid an import cycle.
type Post struct {
	ID      string
	Title   string
	Content string
}

// ListState is what the list region shows: posts, a placeholder, or an error.
// Exactly one of the three is rendered, error first.
type ListState struct {
	Posts       []Post
	Placeholder string
	Err         string
}

// SearchState echoes the current search form values.
type SearchState struct {
	Title   string
	Content string
}

// PageData is everything the full page needs.
type PageData struct {
	Site      SiteConfig
	BaseURL   string
	CSRFToken string
	List      ListState
	Alert     string
	Search    SearchState
}
