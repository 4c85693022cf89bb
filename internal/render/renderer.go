// Package render turns enriched job records into email-ready HTML.
package render

import (
	"html"
	"strings"

	"github.com/amishk599/jobdigest/internal/model"
)

const (
	untitledPosition = "Untitled Position"
	placeholderLink  = "#"

	listStyle        = "list-style: none; padding-left: 0;"
	itemStyle        = "margin-bottom: 15px; background-color: #f0f8ff; padding: 15px; border-radius: 8px; box-shadow: 0 2px 5px rgba(0,0,0,0.05);"
	anchorStyle      = "color: #007bff; text-decoration: none; font-weight: bold; font-size: 16px;"
	descriptionStyle = "font-size: 14px; color: #555; margin-top: 5px; margin-bottom: 0;"
)

// Renderer produces the <ul> fragment listing every job.
type Renderer struct{}

// NewRenderer returns a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render returns an unordered list with one item per record, in order.
// Title, description and link are HTML-escaped.
func (r *Renderer) Render(records []model.JobRecord) string {
	var b strings.Builder
	b.WriteString(`<ul style="` + listStyle + `">`)

	for _, rec := range records {
		title := rec.Title
		if strings.TrimSpace(title) == "" {
			title = untitledPosition
		}
		link := rec.Link
		if strings.TrimSpace(link) == "" {
			link = placeholderLink
		}

		b.WriteString(`<li style="` + itemStyle + `">`)
		b.WriteString(`<a href="` + escape(link) + `" style="` + anchorStyle + `" target="_blank" rel="noopener noreferrer">`)
		b.WriteString(escape(title))
		b.WriteString(`</a>`)
		b.WriteString(`<p style="` + descriptionStyle + `">`)
		b.WriteString(escape(rec.Description))
		b.WriteString(`</p></li>`)
	}

	b.WriteString(`</ul>`)
	return b.String()
}

// escape is the only path untrusted text takes into the markup.
// It covers both text and double-quoted attribute contexts.
func escape(s string) string {
	return html.EscapeString(s)
}
