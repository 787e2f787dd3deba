package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	analysisKeyPrefix = "ai:analysis:" // Cached analysis results: ai:analysis:{op}:{payload_hash}
	analysisTTL       = 24 * time.Hour
)

// AnalysisCache memoizes AI analysis results in Redis, keyed by operation
// name plus a hash of the request payload. Identical requests within the
// TTL are served from cache instead of hitting the AI service again.
type AnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates an AnalysisCache with the default TTL.
func New(client *redis.Client) *AnalysisCache {
	return &AnalysisCache{client: client, ttl: analysisTTL}
}

// NewWithTTL creates an AnalysisCache with a custom TTL.
func NewWithTTL(client *redis.Client, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{client: client, ttl: ttl}
}

// Get looks up a cached result and decodes it into out. It returns false
// on a miss, and an error only for transport or decode failures.
func (c *AnalysisCache) Get(ctx context.Context, op string, payload, out any) (bool, error) {
	key, err := c.key(op, payload)
	if err != nil {
		return false, err
	}

	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get cached result: %w", err)
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return true, nil
}

// Set stores a result under the operation/payload key with the cache TTL.
func (c *AnalysisCache) Set(ctx context.Context, op string, payload, result any) error {
	key, err := c.key(op, payload)
	if err != nil {
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache result: %w", err)
	}
	return nil
}

// Invalidate removes a single cached entry.
func (c *AnalysisCache) Invalidate(ctx context.Context, op string, payload any) error {
	key, err := c.key(op, payload)
	if err != nil {
		return err
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached result: %w", err)
	}
	return nil
}

func (c *AnalysisCache) key(op string, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload for cache key: %w", err)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s%s:%s", analysisKeyPrefix, op, hex.EncodeToString(sum[:])), nil
}
