// Package content talks to the headless content store the blog is built from.
package content

import (
	"context"
	"errors"

	"spacetraveling/app/models"
)

var (
	// ErrNotFound is returned when no document matches a lookup.
	ErrNotFound = errors.New("document not found")
	// ErrForeignCursor is returned when a pagination cursor points outside the
	// configured content store.
	ErrForeignCursor = errors.New("cursor does not belong to the content store")
)

// Client is the boundary to the remote document store. Implementations do not
// retry or cache; errors are returned to the caller.
type Client interface {
	// ListDocuments returns the first page of documents of the given type.
	ListDocuments(ctx context.Context, docType string) (*models.Page, error)
	// GetDocumentByUID returns the document of the given type and uid, or ErrNotFound.
	GetDocumentByUID(ctx context.Context, docType, uid string) (*models.Document, error)
	// FetchPage fetches the page-shaped payload a cursor points at.
	FetchPage(ctx context.Context, cursor string) (*models.Page, error)
}
