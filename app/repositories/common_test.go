package repositories

import (
	"context"
	"testing"
	"time"

	"spacetraveling/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPageRepository runs the behaviour every PageRepository must share.
func testPageRepository(t *testing.T, repo PageRepository) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("put and get page", func(t *testing.T) {
		page := models.NewRenderedPage("/post/hooks", []byte("<h1>Hooks</h1>"), now)
		require.NoError(t, repo.Put(ctx, page))

		got, err := repo.Get(ctx, "/post/hooks")
		require.NoError(t, err)
		assert.Equal(t, page.Body, got.Body)
		assert.Equal(t, page.ETag, got.ETag)
		assert.Equal(t, page.ContentType, got.ContentType)
		assert.True(t, page.GeneratedAt.Equal(got.GeneratedAt))
	})

	t.Run("put replaces", func(t *testing.T) {
		require.NoError(t, repo.Put(ctx, models.NewRenderedPage("/", []byte("v1"), now)))
		require.NoError(t, repo.Put(ctx, models.NewRenderedPage("/", []byte("v2"), now.Add(time.Minute))))

		got, err := repo.Get(ctx, "/")
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), got.Body)
	})

	t.Run("get missing page", func(t *testing.T) {
		_, err := repo.Get(ctx, "/post/missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid page is rejected", func(t *testing.T) {
		assert.Error(t, repo.Put(ctx, &models.RenderedPage{}))
	})

	t.Run("list pages", func(t *testing.T) {
		paths, err := repo.List(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"/", "/post/hooks"}, paths)
	})

	t.Run("delete page", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "/post/hooks"))
		_, err := repo.Get(ctx, "/post/hooks")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "/post/hooks"), ErrNotFound)
	})

	t.Run("clear pages", func(t *testing.T) {
		require.NoError(t, repo.Put(ctx, models.NewRenderedPage("/post/a", []byte("a"), now)))
		require.NoError(t, repo.Clear(ctx))

		paths, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, paths)
	})
}

func TestMarshalEntity(t *testing.T) {
	page := models.NewRenderedPage("/", []byte("<p>hi</p>"), time.Date(2022, 3, 5, 0, 0, 0, 0, time.UTC))

	data, err := marshalEntity(page)
	require.NoError(t, err)

	var decoded models.RenderedPage
	require.NoError(t, unmarshalEntity(data, &decoded))
	assert.Equal(t, page.Body, decoded.Body)

	assert.Error(t, unmarshalEntity([]byte("{"), &decoded))
}
