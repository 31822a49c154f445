package masterblog

import (
	"github.com/labstack/echo/v4"

	"github.com/eringen/masterblog/views"
)

// pageView collects what one request's sync flow displayed so the handler
// can render it afterwards.
type pageView struct {
	list  views.ListState
	alert string
}

func (v *pageView) ShowPosts(posts []Post) {
	out := make([]views.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, toViewPost(p))
	}
	v.list = views.ListState{Posts: out}
}

func (v *pageView) ShowEmpty() {
	v.list = views.ListState{Placeholder: EmptyPlaceholder}
}

func (v *pageView) ShowListError(err error) {
	v.list = views.ListState{Err: "Error: " + err.Error()}
}

func (v *pageView) Alert(msg string) {
	v.alert = msg
}

// formPrompter answers prompts from submitted form fields, in order. A
// missing field counts as a cancelled prompt.
type formPrompter struct {
	values  []string
	present []bool
	next    int
}

func newFormPrompter(c echo.Context, fields ...string) *formPrompter {
	p := &formPrompter{}
	form, err := c.FormParams()
	for _, f := range fields {
		vals, ok := form[f]
		if err != nil || !ok || len(vals) == 0 {
			p.values = append(p.values, "")
			p.present = append(p.present, false)
			continue
		}
		p.values = append(p.values, vals[0])
		p.present = append(p.present, true)
	}
	return p
}

func (p *formPrompter) Prompt(label, initial string) (string, bool) {
	if p.next >= len(p.values) {
		return "", false
	}
	i := p.next
	p.next++
	return p.values[i], p.present[i]
}
