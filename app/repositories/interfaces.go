package repositories

import (
	"context"
	"io"

	"spacetraveling/app/models"
)

// PageRepository stores generated pages by route path.
type PageRepository interface {
	Get(ctx context.Context, path string) (*models.RenderedPage, error)
	Put(ctx context.Context, page *models.RenderedPage) error
	Delete(ctx context.Context, path string) error
	List(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
	Close() error
}

// Backuper is implemented by page repositories that can be dumped to and
// loaded from a file.
type Backuper interface {
	Backup(w io.Writer) error
	Restore(r io.Reader) error
}
