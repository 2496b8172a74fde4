// Package views renders the listing and detail pages.
package views

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the embedded assets (css, js, images) rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Renderer executes the page templates.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses the embedded templates. Dates are formatted with dates.
func NewRenderer(dates *DateFormatter) (*Renderer, error) {
	funcs := template.FuncMap{
		"date": dates.Format,
	}

	pages := map[string][]string{
		"index":    {"templates/layout.html", "templates/index.html"},
		"post":     {"templates/layout.html", "templates/post.html"},
		"fallback": {"templates/layout.html", "templates/fallback.html"},
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, files := range pages {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, err
		}
		templates[name] = tmpl
	}
	return &Renderer{templates: templates}, nil
}

func (r *Renderer) execute(w io.Writer, page, name string, data interface{}) error {
	return r.templates[page].ExecuteTemplate(w, name, data)
}
