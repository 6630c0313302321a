package repositories

import (
	"context"
	"errors"

	"campus-market-backend/internal/models"
	"campus-market-backend/pkg/cache"
)

const cartKeyPrefix = "cart:"

// redisCartStore persists one cart per identity key as a JSON line array
// under "cart:<identityKey>". Entries never expire; a cart survives until
// cleared. Concurrent writers get last-writer-wins, nothing finer.
type redisCartStore struct {
	cache *cache.RedisCache
}

func NewCartStore(c *cache.RedisCache) CartStore {
	return &redisCartStore{cache: c}
}

func (s *redisCartStore) Load(ctx context.Context, identityKey string) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := s.cache.Get(ctx, cartKeyPrefix+identityKey, &lines)
	if errors.Is(err, cache.ErrNotFound) {
		// First access for this identity: the cart starts empty.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *redisCartStore) Save(ctx context.Context, identityKey string, lines []models.CartLine) error {
	if lines == nil {
		lines = []models.CartLine{}
	}
	return s.cache.Set(ctx, cartKeyPrefix+identityKey, lines, 0)
}
