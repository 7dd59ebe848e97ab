package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/destination-seeder/internal/pexels"
)

const defaultTTL = 24 * time.Hour

// SearchCache wraps a Redis client and stores photo-search results.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSearchCache constructs a SearchCache with a 24-hour TTL.
func NewSearchCache(client *redis.Client) *SearchCache {
	return &SearchCache{client: client, ttl: defaultTTL}
}

// key returns the Redis key for the given query and page size.
func key(query string, perPage int) string {
	return "pexels:" + strings.ToLower(strings.TrimSpace(query)) + ":" + strconv.Itoa(perPage)
}

// Get retrieves cached photos.
// Returns nil, nil on a cache miss (not an error).
func (c *SearchCache) Get(ctx context.Context, query string, perPage int) ([]pexels.Photo, error) {
	val, err := c.client.Get(ctx, key(query, perPage)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get for query %s: %w", query, err)
	}

	var photos []pexels.Photo
	if err := json.Unmarshal([]byte(val), &photos); err != nil {
		return nil, fmt.Errorf("unmarshaling cached photos for query %s: %w", query, err)
	}

	return photos, nil
}

// Set stores photos with the configured TTL. Empty results are not cached so
// a later run can find photos that were missing.
func (c *SearchCache) Set(ctx context.Context, query string, perPage int, photos []pexels.Photo) error {
	if len(photos) == 0 {
		return nil
	}

	b, err := json.Marshal(photos)
	if err != nil {
		return fmt.Errorf("marshaling photos for query %s: %w", query, err)
	}

	if err := c.client.Set(ctx, key(query, perPage), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for query %s: %w", query, err)
	}

	return nil
}

// Delete removes the cached entry for the given query.
func (c *SearchCache) Delete(ctx context.Context, query string, perPage int) error {
	if err := c.client.Del(ctx, key(query, perPage)).Err(); err != nil {
		return fmt.Errorf("cache delete for query %s: %w", query, err)
	}
	return nil
}
