package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/loginbox/auth-api/internal/api/metrics"
	"github.com/loginbox/auth-api/internal/core/domain"
)

const profileTTL = 5 * time.Minute

// ProfileCache caches public profile rows in Redis. It is strictly best
// effort: any Redis failure is logged and treated as a miss, so a cache
// outage degrades to direct store reads instead of failing requests.
// Key format: profile:<user_id>
type ProfileCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewProfileCache creates a ProfileCache wrapping the given Redis client.
func NewProfileCache(client *redis.Client, log zerolog.Logger) *ProfileCache {
	return &ProfileCache{client: client, log: log}
}

func (p *ProfileCache) Get(ctx context.Context, userID int64) (*domain.User, bool) {
	raw, err := p.client.Get(ctx, p.key(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			p.log.Warn().Err(err).Int64("user_id", userID).Msg("profile cache read failed")
		}
		metrics.ProfileCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		p.log.Warn().Err(err).Int64("user_id", userID).Msg("profile cache entry corrupt")
		metrics.ProfileCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.ProfileCacheTotal.WithLabelValues("hit").Inc()
	return &user, true
}

// Set stores the profile with a short TTL. The password hash is never
// written: the cached copy carries only what the profile endpoints return.
func (p *ProfileCache) Set(ctx context.Context, user *domain.User) {
	stripped := *user
	stripped.PasswordHash = ""

	raw, err := json.Marshal(&stripped)
	if err != nil {
		p.log.Warn().Err(err).Int64("user_id", user.ID).Msg("profile cache marshal failed")
		return
	}

	if err := p.client.Set(ctx, p.key(user.ID), raw, profileTTL).Err(); err != nil {
		p.log.Warn().Err(err).Int64("user_id", user.ID).Msg("profile cache write failed")
	}
}

// Invalidate drops the cached profile after an update.
func (p *ProfileCache) Invalidate(ctx context.Context, userID int64) {
	if err := p.client.Del(ctx, p.key(userID)).Err(); err != nil {
		p.log.Warn().Err(err).Int64("user_id", userID).Msg("profile cache invalidation failed")
	}
}

func (p *ProfileCache) key(userID int64) string {
	return fmt.Sprintf("profile:%d", userID)
}
