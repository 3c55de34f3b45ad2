package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	gocache "github.com/patrickmn/go-cache"
)

// ListCache caches GET responses by full URL until they expire or Evict
// is called. Writes to the cached resource must call Evict.
type ListCache struct {
	storage *memoryStorage
	handler fiber.Handler
	logger  *log.Logger
}

func NewListCache(ttl time.Duration, logger *log.Logger) *ListCache {
	storage := &memoryStorage{cache: gocache.New(ttl, 2*ttl)}
	return &ListCache{
		storage: storage,
		logger:  logger,
		handler: cache.New(cache.Config{
			Expiration: ttl,
			Storage:    storage,
			// Only successful responses are stored; failures are retried.
			Next: func(c *fiber.Ctx) bool {
				return c.Response().StatusCode() != fiber.StatusOK
			},
			KeyGenerator: func(c *fiber.Ctx) string {
				return fiberutils.CopyString(c.OriginalURL())
			},
		}),
	}
}

func (l *ListCache) Handler() fiber.Handler {
	return l.handler
}

// Evict drops every cached response.
func (l *ListCache) Evict() {
	if err := l.storage.Reset(); err != nil && l.logger != nil {
		l.logger.Printf("cache eviction failed: %v", err)
	}
}

// memoryStorage adapts go-cache to fiber.Storage.
type memoryStorage struct {
	cache *gocache.Cache
}

var _ fiber.Storage = (*memoryStorage)(nil)

func (s *memoryStorage) Get(key string) ([]byte, error) {
	if v, ok := s.cache.Get(key); ok {
		return v.([]byte), nil
	}
	return nil, nil
}

// Set stores val for exp. Zero exp keeps the value until it is deleted.
func (s *memoryStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	if exp <= 0 {
		exp = gocache.NoExpiration
	}
	s.cache.Set(key, val, exp)
	return nil
}

func (s *memoryStorage) Delete(key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *memoryStorage) Reset() error {
	s.cache.Flush()
	return nil
}

func (s *memoryStorage) Close() error {
	return nil
}
