package repositories

import (
	"context"
	"fmt"
	"time"

	"spacetraveling/app/models"

	"github.com/redis/go-redis/v9"
)

const redisKeyNamespace = "spacetraveling:"

// RedisPageRepository implements PageRepository on top of Redis, so several
// server instances can share generated pages.
type RedisPageRepository struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisPageRepository connects to Redis and checks it is reachable.
func NewRedisPageRepository(addr, password string, db int, retention time.Duration) (*RedisPageRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return NewRedisPageRepositoryWithClient(client, retention), nil
}

// NewRedisPageRepositoryWithClient wraps an existing client.
func NewRedisPageRepositoryWithClient(client *redis.Client, retention time.Duration) *RedisPageRepository {
	return &RedisPageRepository{client: client, retention: retention}
}

func redisPageKey(path string) string {
	return redisKeyNamespace + string(pageKey(path))
}

// Get retrieves a page by path
func (r *RedisPageRepository) Get(ctx context.Context, path string) (*models.RenderedPage, error) {
	data, err := r.client.Get(ctx, redisPageKey(path)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}

	var page models.RenderedPage
	if err := unmarshalEntity(data, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Put stores a page, replacing any previous version
func (r *RedisPageRepository) Put(ctx context.Context, page *models.RenderedPage) error {
	if err := page.Validate(); err != nil {
		return err
	}
	data, err := marshalEntity(page)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisPageKey(page.Path), data, r.retention).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Delete removes a page by path
func (r *RedisPageRepository) Delete(ctx context.Context, path string) error {
	n, err := r.client.Del(ctx, redisPageKey(path)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete from cache: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the paths of all stored pages
func (r *RedisPageRepository) List(ctx context.Context) ([]string, error) {
	prefix := redisPageKey("")
	var paths []string
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		paths = append(paths, iter.Val()[len(prefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan cache: %w", err)
	}
	return paths, nil
}

// Clear removes every stored page
func (r *RedisPageRepository) Clear(ctx context.Context) error {
	paths, err := r.List(ctx)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}
	keys := make([]string, len(paths))
	for i, path := range paths {
		keys[i] = redisPageKey(path)
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Close closes the Redis connection pool
func (r *RedisPageRepository) Close() error {
	return r.client.Close()
}
