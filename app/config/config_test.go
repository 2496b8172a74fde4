package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("file overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
addr: ":9000"
prismic:
  endpoint: https://spacetraveling.cdn.prismic.io/api/v2
  page_size: 2
cache:
  backend: memory
revalidate: 30m
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Addr)
		assert.Equal(t, "https://spacetraveling.cdn.prismic.io/api/v2", cfg.Prismic.Endpoint)
		assert.Equal(t, 2, cfg.Prismic.PageSize)
		assert.Equal(t, "posts", cfg.Prismic.DocumentType)
		assert.Equal(t, BackendMemory, cfg.Cache.Backend)
		assert.Equal(t, 30*time.Minute, cfg.Revalidate)
		assert.Equal(t, "pt-BR", cfg.Locale)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "prismic:\n  endpoint: https://a.cdn.prismic.io/api/v2\n")
		t.Setenv("PRISMIC_ENDPOINT", "https://b.cdn.prismic.io/api/v2")
		t.Setenv("PRISMIC_ACCESS_TOKEN", "token")
		t.Setenv("SPACETRAVELING_ADDR", ":7000")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://b.cdn.prismic.io/api/v2", cfg.Prismic.Endpoint)
		assert.Equal(t, "token", cfg.Prismic.AccessToken)
		assert.Equal(t, ":7000", cfg.Addr)
	})

	t.Run("endpoint is required", func(t *testing.T) {
		path := writeConfig(t, "addr: \":8080\"\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("unknown backend is rejected", func(t *testing.T) {
		path := writeConfig(t, "prismic:\n  endpoint: https://a.cdn.prismic.io/api/v2\ncache:\n  backend: floppy\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "addr: [\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("invalid redis db", func(t *testing.T) {
		path := writeConfig(t, "prismic:\n  endpoint: https://a.cdn.prismic.io/api/v2\n")
		t.Setenv("REDIS_DB", "zero")
		_, err := Load(path)
		assert.Error(t, err)
	})
}
