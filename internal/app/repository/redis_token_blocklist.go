package repository

import (
	"context"
	"time"

	"github.com/ikkim/stores-rest-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const blocklistKeyPrefix = "blocklist:"

// minRevocationTTL keeps a just-expiring token on the list long enough for
// in-flight requests to observe it.
const minRevocationTTL = time.Second

type redisTokenBlocklist struct {
	client *redis.Client
}

// NewRedisTokenBlocklist stores revocations as keys that expire together
// with the token they revoke.
func NewRedisTokenBlocklist(client *redis.Client) TokenBlocklist {
	return &redisTokenBlocklist{client: client}
}

func (b *redisTokenBlocklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl < minRevocationTTL {
		ttl = minRevocationTTL
	}

	ok, err := b.client.SetNX(ctx, blocklistKeyPrefix+jti, "revoked", ttl).Result()
	if err != nil {
		logger.Error("Failed to revoke token in redis", err, map[string]interface{}{
			"jti": jti,
		})
		return err
	}
	if !ok {
		return ErrAlreadyRevoked
	}

	logger.Debug("Token revoked in redis", map[string]interface{}{
		"jti": jti,
		"ttl": ttl.String(),
	})
	return nil
}

func (b *redisTokenBlocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, blocklistKeyPrefix+jti).Result()
	if err != nil {
		logger.Error("Failed to check token blocklist in redis", err, map[string]interface{}{
			"jti": jti,
		})
		return false, err
	}
	return n > 0, nil
}

// PruneExpired is a no-op; redis expires the keys itself.
func (b *redisTokenBlocklist) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
