package views

import (
	"context"
	"io"

	"spacetraveling/app/models"
)

// PostSource loads the posts a pagination cursor points at.
type PostSource interface {
	NextPosts(ctx context.Context, cursor string) ([]models.PostSummary, string, error)
}

// State is the listing page: posts accumulated so far, in fetch order, and
// the cursor of the next page. States are values; LoadMore returns a new one.
type State struct {
	Posts    []models.PostSummary
	NextPage string
}

// NewState seeds a listing with its first page.
func NewState(posts []models.PostSummary, nextPage string) State {
	return State{Posts: posts, NextPage: nextPage}
}

// HasMore reports whether the load-more control is shown.
func (s State) HasMore() bool {
	return s.NextPage != ""
}

// PageTitle is the document title of the listing page.
func (s State) PageTitle() string {
	return "Home"
}

// LoadMore fetches the next page and returns a state with its posts appended
// and the cursor replaced. Without a cursor it returns s unchanged. On error
// s is returned unchanged along with the error.
func (s State) LoadMore(ctx context.Context, source PostSource) (State, error) {
	if !s.HasMore() {
		return s, nil
	}

	posts, next, err := source.NextPosts(ctx, s.NextPage)
	if err != nil {
		return s, err
	}

	merged := make([]models.PostSummary, 0, len(s.Posts)+len(posts))
	merged = append(merged, s.Posts...)
	merged = append(merged, posts...)
	return State{Posts: merged, NextPage: next}, nil
}

// RenderListing writes the full listing page.
func (r *Renderer) RenderListing(w io.Writer, s State) error {
	return r.execute(w, "index", "layout", s)
}

// RenderCards writes only the post cards, one per post, in order. No posts
// render nothing.
func (r *Renderer) RenderCards(w io.Writer, posts []models.PostSummary) error {
	return r.execute(w, "index", "cards", posts)
}
