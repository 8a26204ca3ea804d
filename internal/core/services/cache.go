package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driving"
	"github.com/custodia-labs/groundwork/internal/logger"
)

// Ensure CachedRetriever implements the interface.
var _ driving.Retriever = (*CachedRetriever)(nil)

type cacheEntry struct {
	result  *domain.QueryResult
	expires time.Time
}

// CachedRetriever memoises retrieval results per (query, topK) for a fixed TTL.
// Entries expire passively; concurrent misses for the same key share one lookup.
type CachedRetriever struct {
	next driving.Retriever
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

// NewCachedRetriever wraps next with a TTL cache.
// A non-positive ttl disables caching.
func NewCachedRetriever(next driving.Retriever, ttl time.Duration) *CachedRetriever {
	return &CachedRetriever{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// SetClock replaces the clock used for expiry.
func (c *CachedRetriever) SetClock(now func() time.Time) {
	c.now = now
}

// Retrieve serves a cached result when one is still fresh.
func (c *CachedRetriever) Retrieve(ctx context.Context, query string, topK int) (*domain.QueryResult, error) {
	if c.ttl <= 0 {
		return c.next.Retrieve(ctx, query, topK)
	}

	key := strconv.Itoa(topK) + "\x00" + query
	if res, ok := c.get(key); ok {
		logger.Debug("retrieve cache: hit %q top_k=%d", query, topK)
		return res, nil
	}

	// The shared lookup outlives any single caller; each caller stops
	// waiting when its own ctx ends.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		res, err := c.next.Retrieve(shared, query, topK)
		if err != nil {
			return nil, err
		}
		c.put(key, res)
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return cloneResult(r.Val.(*domain.QueryResult)), nil
	}
}

// Len reports the number of entries currently held, fresh or not.
func (c *CachedRetriever) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *CachedRetriever) get(key string) (*domain.QueryResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return cloneResult(e.result), true
}

func (c *CachedRetriever) put(key string, res *domain.QueryResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{result: cloneResult(res), expires: now.Add(c.ttl)}
}

// cloneResult copies the slices so callers cannot mutate cached state.
func cloneResult(res *domain.QueryResult) *domain.QueryResult {
	if res == nil {
		return nil
	}
	out := *res
	out.Keywords = append([]string(nil), res.Keywords...)
	out.RankedChunks = append([]domain.RankedChunk(nil), res.RankedChunks...)
	return &out
}
