package cache

import (
	"context"
	"fmt"
	"sync"

	"tag-engine/internal/store"
	"tag-engine/internal/token"

	"github.com/rs/zerolog/log"
)

// Finder is the part of store.SegmentStore the cache reads from.
type Finder interface {
	FindExact(ctx context.Context, sourceHash string) ([]store.Segment, error)
	All(ctx context.Context) ([]store.Segment, error)
}

// MatchCache provides in-memory + PostgreSQL-backed exact-match lookups
// of stored targets by source hash.
type MatchCache struct {
	finder Finder
	mu     sync.RWMutex
	memory map[string]token.Sequence // source hash → target tokens
}

// NewMatchCache creates a new cache backed by finder.
func NewMatchCache(finder Finder) *MatchCache {
	return &MatchCache{
		finder: finder,
		memory: make(map[string]token.Sequence),
	}
}

// Get returns the stored target for sourceHash. The first stored segment
// wins when several share the hash.
func (c *MatchCache) Get(ctx context.Context, sourceHash string) (token.Sequence, bool) {
	c.mu.RLock()
	if v, ok := c.memory[sourceHash]; ok {
		c.mu.RUnlock()
		return v, true
	}
	c.mu.RUnlock()

	matches, err := c.finder.FindExact(ctx, sourceHash)
	if err != nil {
		log.Warn().Err(err).Msg("Exact match lookup failed")
		return nil, false
	}
	if len(matches) == 0 {
		return nil, false
	}

	c.Set(sourceHash, matches[0].Target)
	return matches[0].Target, true
}

// Set records a target in memory only; persistence goes through the store.
func (c *MatchCache) Set(sourceHash string, target token.Sequence) {
	c.mu.Lock()
	c.memory[sourceHash] = target
	c.mu.Unlock()
}

// Preload loads every stored segment into memory.
func (c *MatchCache) Preload(ctx context.Context) error {
	segments, err := c.finder.All(ctx)
	if err != nil {
		return fmt.Errorf("preload cache: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, seg := range segments {
		if _, ok := c.memory[seg.Keys.SourceHash]; !ok {
			c.memory[seg.Keys.SourceHash] = seg.Target
		}
	}

	log.Info().Int("count", len(segments)).Msg("Preloaded match cache")
	return nil
}
