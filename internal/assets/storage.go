package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
)

// Storage reads raw asset bytes by name.
type Storage interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// FileStorage reads assets from the local filesystem. Relative names are
// resolved against Root; an empty Root means the working directory.
type FileStorage struct {
	Root string
}

// NewFileStorage creates a filesystem-backed storage.
func NewFileStorage(root string) *FileStorage {
	return &FileStorage{Root: root}
}

// Read implements Storage.
func (s *FileStorage) Read(_ context.Context, name string) ([]byte, error) {
	path := name
	if s.Root != "" && !filepath.IsAbs(name) {
		path = filepath.Join(s.Root, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset: %w", err)
	}
	return data, nil
}

// RedisStorage reads assets stored as plain string values under Prefix+name.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage connects to the Redis server at addr.
func NewRedisStorage(addr, prefix string) *RedisStorage {
	return &RedisStorage{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: prefix,
	}
}

// Read implements Storage. A missing key reports os.ErrNotExist.
func (s *RedisStorage) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("asset %q: %w", name, os.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read asset from redis: %w", err)
	}
	return data, nil
}

// Close releases the Redis connection pool.
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
