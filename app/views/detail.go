package views

import (
	"io"

	"spacetraveling/app/models"
)

// Detail is the post page. A nil Post is the fallback state shown while a
// page that was not pre-rendered is being generated.
type Detail struct {
	Post *models.Post
	// Refresh, when positive, makes the fallback page reload itself after
	// that many seconds.
	Refresh int
}

// IsFallback reports whether the post has not been resolved yet.
func (d Detail) IsFallback() bool {
	return d.Post == nil
}

// PageTitle is the document title of the page.
func (d Detail) PageTitle() string {
	if d.IsFallback() {
		return "Carregando..."
	}
	return d.Post.Title
}

// detailPage is the template data of a resolved post.
type detailPage struct {
	Detail
	ReadingTime int
}

// RenderDetail writes the post page, or the loading placeholder when the post
// is not resolved yet.
func (r *Renderer) RenderDetail(w io.Writer, d Detail) error {
	if d.IsFallback() {
		return r.execute(w, "fallback", "layout", d)
	}
	return r.execute(w, "post", "layout", detailPage{
		Detail:      d,
		ReadingTime: ReadingTime(d.Post.Content),
	})
}
