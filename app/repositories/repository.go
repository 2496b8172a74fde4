package repositories

import (
	"fmt"

	"spacetraveling/app/config"

	"github.com/dgraph-io/badger/v4"
)

// Open returns the page repository selected by the cache configuration.
func Open(cfg config.CacheConfig) (PageRepository, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		return NewRedisPageRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Retention)
	case config.BackendMemory:
		db, err := OpenBadger("")
		if err != nil {
			return nil, err
		}
		return NewBadgerPageRepository(db, cfg.Retention), nil
	case config.BackendBadger:
		db, err := OpenBadger(cfg.Path)
		if err != nil {
			return nil, err
		}
		return NewBadgerPageRepository(db, cfg.Retention), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// OpenBadger opens a Badger DB at path, or an in-memory one when path is empty.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}
	return db, nil
}
