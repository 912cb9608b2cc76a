package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	nameLockPrefix = "staff:name-lock:"
	nameLockPoll   = 50 * time.Millisecond
)

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisNameGuard serializes staff creates per case-folded name across processes.
type RedisNameGuard struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	logger *zap.Logger
}

// NewRedisNameGuard returns nil when Redis is not configured.
func NewRedisNameGuard(r *Redis, ttl, wait time.Duration, logger *zap.Logger) *RedisNameGuard {
	if r == nil || r.Client == nil {
		return nil
	}
	return &RedisNameGuard{client: r.Client, ttl: ttl, wait: wait, logger: logger}
}

// Acquire takes the lock for name, polling until wait elapses.
// acquired is false when another holder kept the lock for the whole wait.
func (g *RedisNameGuard) Acquire(ctx context.Context, name string) (release func(), acquired bool, err error) {
	key := NameLockKey(name)
	token := uuid.NewString()
	deadline := time.Now().Add(g.wait)

	for {
		ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
		if err != nil {
			return nil, false, err
		}
		if ok {
			return func() { g.release(key, token) }, true, nil
		}
		if !time.Now().Before(deadline) {
			return nil, false, nil
		}

		timer := time.NewTimer(nameLockPoll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, false, ctx.Err()
		case <-timer.C:
		}
	}
}

func (g *RedisNameGuard) release(key, token string) {
	// The request context may already be cancelled once the handler returns.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, g.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		g.logger.Warn("release staff name lock", zap.String("key", key), zap.Error(err))
	}
}

// NameLockKey is the Redis key guarding creates of name.
func NameLockKey(name string) string {
	return nameLockPrefix + strings.ToLower(name)
}
