package services

import (
	"context"
	"fmt"

	"spacetraveling/app/content"
	"spacetraveling/app/models"
	"spacetraveling/app/views"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "services")

// PostService turns content documents into page props.
type PostService struct {
	client  content.Client
	docType string
}

// NewPostService creates a new PostService reading documents of docType.
func NewPostService(client content.Client, docType string) *PostService {
	return &PostService{
		client:  client,
		docType: docType,
	}
}

// ListPosts returns the listing seeded with the first page of posts.
func (s *PostService) ListPosts(ctx context.Context) (views.State, error) {
	page, err := s.client.ListDocuments(ctx, s.docType)
	if err != nil {
		return views.State{}, fmt.Errorf("failed to list posts: %w", err)
	}
	return views.NewState(s.summaries(page.Results), page.NextPage), nil
}

// NextPosts loads the page a cursor points at. It implements views.PostSource.
func (s *PostService) NextPosts(ctx context.Context, cursor string) ([]models.PostSummary, string, error) {
	page, err := s.client.FetchPage(ctx, cursor)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load more posts: %w", err)
	}
	return s.summaries(page.Results), page.NextPage, nil
}

// LoadMore returns state with the next page of posts appended.
func (s *PostService) LoadMore(ctx context.Context, state views.State) (views.State, error) {
	next, err := state.LoadMore(ctx, s)
	if err != nil {
		log.WithError(err).WithField("cursor", state.NextPage).Warn("load more failed")
	}
	return next, err
}

// GetPost retrieves a post by slug.
func (s *PostService) GetPost(ctx context.Context, slug string) (*models.Post, error) {
	doc, err := s.client.GetDocumentByUID(ctx, s.docType, slug)
	if err != nil {
		return nil, err
	}
	return models.NewPost(doc)
}

// ListSlugs returns the slugs of the posts known at build time: those on the
// first listing page.
func (s *PostService) ListSlugs(ctx context.Context) ([]string, error) {
	page, err := s.client.ListDocuments(ctx, s.docType)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	slugs := make([]string, 0, len(page.Results))
	for _, doc := range page.Results {
		if doc.UID != "" {
			slugs = append(slugs, doc.UID)
		}
	}
	return slugs, nil
}

// summaries converts documents, skipping the ones that cannot be shown.
func (s *PostService) summaries(docs []models.Document) []models.PostSummary {
	posts := make([]models.PostSummary, 0, len(docs))
	for i := range docs {
		summary, err := models.NewPostSummary(&docs[i])
		if err != nil {
			log.WithError(err).WithField("uid", docs[i].UID).Warn("skipping invalid post")
			continue
		}
		posts = append(posts, *summary)
	}
	return posts
}
