package retrieval

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

// CachedRetriever memoizes Retrieve results in an LRU cache keyed by the
// query, document set, and topK. Entries are only written on success, so a
// transient backend failure never pins an empty result.
type CachedRetriever struct {
	inner  Retriever
	cache  *lru.Cache
	logger *zap.Logger
}

func NewCachedRetriever(inner Retriever, size int, logger *zap.Logger) (*CachedRetriever, error) {
	if size <= 0 {
		size = 128
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create retrieval cache: %w", err)
	}
	return &CachedRetriever{inner: inner, cache: cache, logger: logger}, nil
}

func (c *CachedRetriever) Retrieve(ctx context.Context, query string, documentIDs []uuid.UUID, topK int) ([]Chunk, error) {
	key := cacheKey(query, documentIDs, topK)
	if cached, ok := c.cache.Get(key); ok {
		if chunks, ok := cached.([]Chunk); ok {
			if c.logger != nil {
				c.logger.Debug("Retrieval cache hit", zap.String("key", key))
			}
			return chunks, nil
		}
	}

	chunks, err := c.inner.Retrieve(ctx, query, documentIDs, topK)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, chunks)
	return chunks, nil
}

func cacheKey(query string, documentIDs []uuid.UUID, topK int) string {
	// The document set is a set: order must not change the key.
	ids := make([]string, len(documentIDs))
	for i, id := range documentIDs {
		ids[i] = id.String()
	}
	sort.Strings(ids)

	var b strings.Builder
	fmt.Fprintf(&b, "%d|%s", topK, query)
	for _, id := range ids {
		b.WriteByte('|')
		b.WriteString(id)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
