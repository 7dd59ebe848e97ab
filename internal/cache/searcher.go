package cache

import (
	"context"
	"log/slog"

	"github.com/neexbeast/destination-seeder/internal/pexels"
)

type searcher interface {
	Search(ctx context.Context, query string, perPage int) ([]pexels.Photo, error)
}

type photoCache interface {
	Get(ctx context.Context, query string, perPage int) ([]pexels.Photo, error)
	Set(ctx context.Context, query string, perPage int, photos []pexels.Photo) error
	Delete(ctx context.Context, query string, perPage int) error
}

// CachedSearcher serves photo searches from cache and falls through to the
// wrapped searcher on a miss. Cache failures never fail a search.
type CachedSearcher struct {
	next  searcher
	cache photoCache
	log   *slog.Logger
}

// NewCachedSearcher wraps next with cache.
func NewCachedSearcher(next searcher, cache photoCache, log *slog.Logger) *CachedSearcher {
	return &CachedSearcher{next: next, cache: cache, log: log}
}

// Search returns cached photos when present, otherwise searches and caches.
func (s *CachedSearcher) Search(ctx context.Context, query string, perPage int) ([]pexels.Photo, error) {
	cached, err := s.cache.Get(ctx, query, perPage)
	if err != nil {
		s.log.Warn("search cache get failed", "query", query, "err", err)
	}
	if len(cached) > 0 {
		s.log.Debug("search cache hit", "query", query)
		return cached, nil
	}

	photos, err := s.next.Search(ctx, query, perPage)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, query, perPage, photos); err != nil {
		s.log.Warn("search cache set failed", "query", query, "err", err)
	}
	return photos, nil
}

// Invalidate drops the cached result for query.
func (s *CachedSearcher) Invalidate(ctx context.Context, query string, perPage int) error {
	return s.cache.Delete(ctx, query, perPage)
}
