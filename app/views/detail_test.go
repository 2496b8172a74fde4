package views

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"spacetraveling/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDetail(t *testing.T) {
	r := newTestRenderer(t)
	published := time.Date(2022, 3, 5, 12, 0, 0, 0, time.UTC)

	post := &models.Post{
		Slug:        "hooks",
		PublishedAt: &published,
		Title:       "Como utilizar Hooks",
		BannerURL:   "https://images.example.com/banner.png",
		Author:      "Joseph Oliveira",
		Content: []models.Section{
			section("Intro", "first paragraph", "second paragraph"),
			section("Outro", "the end"),
		},
	}

	t.Run("full post", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, r.RenderDetail(&buf, Detail{Post: post}))
		html := buf.String()

		assert.Contains(t, html, `<img class="banner" src="https://images.example.com/banner.png"`)
		assert.Contains(t, html, "Como utilizar Hooks")
		assert.Contains(t, html, "05 mar 2022")
		assert.Contains(t, html, "Joseph Oliveira")
		assert.Contains(t, html, "1 min")
		assert.Equal(t, 3, strings.Count(html, "<p>"))
		assert.True(t, strings.Index(html, "first paragraph") < strings.Index(html, "second paragraph"))
		assert.True(t, strings.Index(html, "Intro") < strings.Index(html, "Outro"))
		assert.NotContains(t, html, "Carregando...")
	})

	t.Run("no banner", func(t *testing.T) {
		noBanner := *post
		noBanner.BannerURL = ""
		var buf bytes.Buffer
		require.NoError(t, r.RenderDetail(&buf, Detail{Post: &noBanner}))
		assert.NotContains(t, buf.String(), `class="banner"`)
	})

	t.Run("empty content", func(t *testing.T) {
		empty := *post
		empty.Content = nil
		var buf bytes.Buffer
		require.NoError(t, r.RenderDetail(&buf, Detail{Post: &empty}))
		assert.Contains(t, buf.String(), "0 min")
	})

	t.Run("fallback placeholder", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, r.RenderDetail(&buf, Detail{Refresh: 2}))
		html := buf.String()
		assert.Contains(t, html, "Carregando...")
		assert.Contains(t, html, `http-equiv="refresh"`)
		assert.NotContains(t, html, "min</span>")
	})

	t.Run("fallback without refresh", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, r.RenderDetail(&buf, Detail{}))
		assert.NotContains(t, buf.String(), `http-equiv="refresh"`)
	})
}
