// summary.go caches AI-generated article summaries in Redis so repeated
// summarize requests for the same link skip the LLM round trip.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultSummaryTTL is how long a cached summary stays valid. Articles
	// rarely change, so the TTL is generous.
	DefaultSummaryTTL = 7 * 24 * time.Hour

	summaryKeyPrefix = "summary:"
)

// SummaryCache stores generated summaries keyed by link hash.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache creates a summary cache with the given TTL.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

// Get returns the cached summary for a link, or ("", false) on a miss.
// Redis errors are treated as misses; the caller regenerates.
func (c *SummaryCache) Get(ctx context.Context, link string) (string, bool) {
	val, err := c.client.Get(ctx, summaryKey(link)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores a summary for a link.
func (c *SummaryCache) Set(ctx context.Context, link, summary string) error {
	if err := c.client.Set(ctx, summaryKey(link), summary, c.ttl).Err(); err != nil {
		return fmt.Errorf("summary cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached summary for a link.
func (c *SummaryCache) Invalidate(ctx context.Context, link string) {
	c.client.Del(ctx, summaryKey(link))
}

// summaryKey hashes the link so arbitrary URLs stay within Redis key
// length limits.
func summaryKey(link string) string {
	sum := sha256.Sum256([]byte(link))
	return summaryKeyPrefix + hex.EncodeToString(sum[:])
}
