package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Page renders the full document: settings, create and search forms, the
// alert region and the post list.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeAll(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, esc(data.Site.Name), `</title>`,
			`<link rel="stylesheet" href="/public/masterblog.css">`,
		); err != nil {
			return err
		}
		if data.Site.HTMXScript != "" {
			if err := writeAll(w, `<script src="`, esc(data.Site.HTMXScript), `" defer></script>`); err != nil {
				return err
			}
		}
		if err := writeAll(w,
			`</head><body hx-headers="`, esc(hxHeaders(data.CSRFToken)), `">`,
			`<header><h1>`, esc(data.Site.Name), `</h1></header><main>`,
		); err != nil {
			return err
		}
		if err := configForm(w, data.BaseURL, data.CSRFToken); err != nil {
			return err
		}
		if err := createForm(w, data.CSRFToken); err != nil {
			return err
		}
		if err := searchForm(w, data.Search); err != nil {
			return err
		}
		if err := Alert(data.Alert).Render(ctx, w); err != nil {
			return err
		}
		if err := PostList(data.List, data.CSRFToken).Render(ctx, w); err != nil {
			return err
		}
		return writeAll(w, `</main></body></html>`)
	})
}

func configForm(w io.Writer, baseURL, csrf string) error {
	return writeAll(w,
		`<section class="config"><form method="post" action="/config/" hx-post="/config/" hx-target="#posts" hx-swap="outerHTML">`,
		csrfField(csrf),
		`<label for="base-url">API base URL</label>`,
		`<input id="base-url" type="url" name="base_url" value="`, esc(baseURL), `">`,
		`<button type="submit">Load posts</button></form></section>`,
	)
}

func createForm(w io.Writer, csrf string) error {
	return writeAll(w,
		`<section class="create"><h2>New post</h2>`,
		`<form method="post" action="/posts/" hx-post="/posts/" hx-target="#posts" hx-swap="outerHTML">`,
		csrfField(csrf),
		`<input type="text" name="title" placeholder="Title">`,
		`<textarea name="content" placeholder="Content"></textarea>`,
		`<button type="submit">Add post</button></form></section>`,
	)
}

func searchForm(w io.Writer, s SearchState) error {
	return writeAll(w,
		`<section class="search"><form method="get" action="/search/" hx-get="/search/" hx-target="#posts" hx-swap="outerHTML">`,
		`<input type="text" name="title" placeholder="Title contains" value="`, esc(s.Title), `">`,
		`<input type="text" name="content" placeholder="Content contains" value="`, esc(s.Content), `">`,
		`<button type="submit">Search</button></form></section>`,
	)
}

// Alert renders the alert region. An empty message renders an empty region
// so htmx can retarget failures into it.
func Alert(msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if msg == "" {
			return writeAll(w, `<div id="alert"></div>`)
		}
		return writeAll(w, `<div id="alert" role="alert" class="alert">`, esc(msg), `</div>`)
	})
}

// PostList renders the list region: the error text, the placeholder, or one
// card per post in the given order.
func PostList(state ListState, csrf string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeAll(w, `<div id="posts">`); err != nil {
			return err
		}
		switch {
		case state.Err != "":
			if err := writeAll(w, `<p class="error">`, esc(state.Err), `</p>`); err != nil {
				return err
			}
		case len(state.Posts) == 0:
			if err := writeAll(w, `<p class="placeholder">`, esc(state.Placeholder), `</p>`); err != nil {
				return err
			}
		default:
			for _, p := range state.Posts {
				if err := PostCard(p, csrf).Render(ctx, w); err != nil {
					return err
				}
			}
		}
		return writeAll(w, `</div>`)
	})
}

// PostCard renders one post with its update and delete actions.
func PostCard(p Post, csrf string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		elemID := PostElementID(p.ID)
		return writeAll(w,
			`<article class="post" id="`, esc(elemID), `">`,
			`<h2>`, esc(p.Title), `</h2>`,
			`<p>`, esc(p.Content), `</p>`,
			`<div class="actions">`,
			`<a href="`, esc(postPath(p.ID, "edit")), `" hx-get="`, esc(postPath(p.ID, "edit")),
			`" hx-target="#`, esc(elemID), `" hx-swap="outerHTML">Update</a>`,
			`<form method="post" action="`, esc(postPath(p.ID, "delete")), `" hx-delete="`, esc(postPath(p.ID)),
			`" hx-target="#posts" hx-swap="outerHTML">`,
			csrfField(csrf),
			`<button type="submit">Delete</button></form>`,
			`</div></article>`,
		)
	})
}

// EditForm replaces a card while its title and content are being edited.
// The current values travel along as hidden fields so a cancel can restore
// the card without a request.
func EditForm(p Post, csrf string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		elemID := PostElementID(p.ID)
		return writeAll(w,
			`<article class="post editing" id="`, esc(elemID), `">`,
			`<form method="post" action="`, esc(postPath(p.ID)), `" hx-put="`, esc(postPath(p.ID)),
			`" hx-target="#posts" hx-swap="outerHTML">`,
			csrfField(csrf),
			`<input type="hidden" name="orig_title" value="`, esc(p.Title), `">`,
			`<input type="hidden" name="orig_content" value="`, esc(p.Content), `">`,
			`<label>Edit title <input type="text" name="title" value="`, esc(p.Title), `"></label>`,
			`<label>Edit content <textarea name="content">`, esc(p.Content), `</textarea></label>`,
			`<button type="submit">Save</button>`,
			`<button type="submit" name="cancel" value="1">Cancel</button>`,
			`</form></article>`,
		)
	})
}

// NotFound renders the 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	return statusPage(cfg, "Not found", "The page you are looking for does not exist.")
}

// ServerError renders the 500 page.
func ServerError(cfg SiteConfig) templ.Component {
	return statusPage(cfg, "Something went wrong", "Please try again in a moment.")
}

func statusPage(cfg SiteConfig, heading, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return writeAll(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`,
			esc(heading), ` | `, esc(cfg.Name), `</title></head><body><main>`,
			`<h1>`, esc(heading), `</h1><p>`, esc(body), `</p><p><a href="/">Back to posts</a></p>`,
			`</main></body></html>`,
		)
	})
}

// EditPage wraps an edit form in a document for browsers without htmx.
func EditPage(cfg SiteConfig, form templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeAll(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>Edit post | `,
			esc(cfg.Name), `</title></head><body><main>`,
		); err != nil {
			return err
		}
		if err := form.Render(ctx, w); err != nil {
			return err
		}
		return writeAll(w, `<p><a href="/">Back to posts</a></p></main></body></html>`)
	})
}
