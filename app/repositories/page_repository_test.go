package repositories

import (
	"bytes"
	"context"
	"testing"
	"time"

	"spacetraveling/app/config"
	"spacetraveling/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepository(t *testing.T, retention time.Duration) *BadgerPageRepository {
	db, err := OpenBadger("")
	require.NoError(t, err)
	repo := NewBadgerPageRepository(db, retention)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestBadgerPageRepository(t *testing.T) {
	testPageRepository(t, setupTestRepository(t, 0))
}

func TestBadgerPageRepositoryOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := OpenBadger(dir)
	require.NoError(t, err)
	repo := NewBadgerPageRepository(db, 0)
	require.NoError(t, repo.Put(ctx, models.NewRenderedPage("/", []byte("persisted"), time.Now())))
	require.NoError(t, repo.Close())

	db, err = OpenBadger(dir)
	require.NoError(t, err)
	repo = NewBadgerPageRepository(db, 0)
	defer repo.Close()

	page, err := repo.Get(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), page.Body)
}

func TestBadgerPageRepositoryRetention(t *testing.T) {
	repo := setupTestRepository(t, time.Second)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, models.NewRenderedPage("/", []byte("short lived"), time.Now())))
	_, err := repo.Get(ctx, "/")
	require.NoError(t, err)

	time.Sleep(2 * time.Second)
	_, err = repo.Get(ctx, "/")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen(t *testing.T) {
	t.Run("memory backend", func(t *testing.T) {
		repo, err := Open(config.CacheConfig{Backend: config.BackendMemory})
		require.NoError(t, err)
		defer repo.Close()
		assert.IsType(t, &BadgerPageRepository{}, repo)
	})

	t.Run("badger backend", func(t *testing.T) {
		repo, err := Open(config.CacheConfig{Backend: config.BackendBadger, Path: t.TempDir()})
		require.NoError(t, err)
		defer repo.Close()
		assert.IsType(t, &BadgerPageRepository{}, repo)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(config.CacheConfig{Backend: "floppy"})
		assert.Error(t, err)
	})
}

func TestBadgerPageRepositoryBackup(t *testing.T) {
	ctx := context.Background()
	source := setupTestRepository(t, 0)
	require.NoError(t, source.Put(ctx, models.NewRenderedPage("/post/a", []byte("<h1>a</h1>"), time.Now())))

	var buf bytes.Buffer
	require.NoError(t, source.Backup(&buf))
	assert.NotZero(t, buf.Len())

	target := setupTestRepository(t, 0)
	require.NoError(t, target.Restore(&buf))

	page, err := target.Get(ctx, "/post/a")
	require.NoError(t, err)
	assert.Equal(t, "<h1>a</h1>", string(page.Body))

	var _ Backuper = target
}
