package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maillist/maillist/internal/model"
)

const (
	// sessionPrefix is the Redis key prefix for login sessions.
	sessionPrefix = "session:"
)

// GetSession retrieves a login session by token digest.
// Returns nil on a miss; an expired or unknown token is not an error.
// Transport failures are returned so callers can decide how to degrade.
func (c *Cache) GetSession(ctx context.Context, tokenDigest string) (*model.Session, error) {
	key := sessionPrefix + tokenDigest

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		// Miss or expired - not an error
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		// Corrupted entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &session, nil
}

// SetSession stores a login session under the token digest with a TTL.
func (c *Cache) SetSession(ctx context.Context, tokenDigest string, session *model.Session, ttl time.Duration) error {
	key := sessionPrefix + tokenDigest

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// DeleteSession removes a login session. Used on signout.
func (c *Cache) DeleteSession(ctx context.Context, tokenDigest string) error {
	key := sessionPrefix + tokenDigest
	return c.client.Del(ctx, key).Err()
}
