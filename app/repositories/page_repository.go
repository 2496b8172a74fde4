package repositories

import (
	"context"
	"fmt"
	"io"
	"time"

	"spacetraveling/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPageRepository implements PageRepository using BadgerDB
type BadgerPageRepository struct {
	db        *badger.DB
	retention time.Duration
}

// NewBadgerPageRepository creates a new BadgerPageRepository. Pages expire
// after retention; zero keeps them forever.
func NewBadgerPageRepository(db *badger.DB, retention time.Duration) *BadgerPageRepository {
	return &BadgerPageRepository{db: db, retention: retention}
}

// Get retrieves a page by path
func (r *BadgerPageRepository) Get(ctx context.Context, path string) (*models.RenderedPage, error) {
	var page models.RenderedPage

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(pageKey(path))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &page)
		})
	})

	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Put stores a page, replacing any previous version
func (r *BadgerPageRepository) Put(ctx context.Context, page *models.RenderedPage) error {
	if err := page.Validate(); err != nil {
		return err
	}
	data, err := marshalEntity(page)
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(pageKey(page.Path), data)
		if r.retention > 0 {
			entry = entry.WithTTL(r.retention)
		}
		return txn.SetEntry(entry)
	})
}

// Delete removes a page by path
func (r *BadgerPageRepository) Delete(ctx context.Context, path string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := pageKey(path)

		// Verify page exists
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return txn.Delete(key)
	})
}

// List returns the paths of all stored pages
func (r *BadgerPageRepository) List(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(PageKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			paths = append(paths, string(key[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// Clear removes every stored page
func (r *BadgerPageRepository) Clear(ctx context.Context) error {
	return r.db.DropPrefix([]byte(PageKeyPrefix))
}

// Backup writes a full backup of the stored pages to w.
func (r *BadgerPageRepository) Backup(w io.Writer) error {
	if _, err := r.db.Backup(w, 0); err != nil {
		return fmt.Errorf("failed to backup page cache: %w", err)
	}
	return nil
}

// Restore loads a backup written by Backup.
func (r *BadgerPageRepository) Restore(rd io.Reader) error {
	if err := r.db.Load(rd, 4); err != nil {
		return fmt.Errorf("failed to restore page cache: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (r *BadgerPageRepository) Close() error {
	return r.db.Close()
}
