package replay

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Guard remembers recently accepted payloads so a captured initData
// string cannot be replayed within its freshness window.
//
// Check and Mark are separate so a payload is only consumed by a
// fully successful login: a 500 from the user store must leave the
// payload retryable.
type Guard interface {
	// Check reports whether the payload was already marked within the
	// window. It does not mark.
	Check(ctx context.Context, initData string) (bool, error)

	// Mark remembers the payload for the window.
	Mark(ctx context.Context, initData string) error
}

// defaultWindow bounds replay keys when the caller's window is zero
// (freshness checking disabled). Keys must always carry a TTL or the
// set grows without bound.
const defaultWindow = 24 * time.Hour

// RedisGuard is the canonical Guard. Entries expire together with the
// payload's own freshness horizon, so the set stays small.
type RedisGuard struct {
	client *goredis.Client
	window time.Duration
	prefix string
}

func NewRedisGuard(client *goredis.Client, window time.Duration) *RedisGuard {
	if window <= 0 {
		window = defaultWindow
	}
	return &RedisGuard{
		client: client,
		window: window,
		prefix: "replay:",
	}
}

func (g *RedisGuard) key(initData string) string {
	// Payloads are keyed by digest, not raw value: initData carries
	// user PII and must not land in Redis verbatim.
	sum := sha256.Sum256([]byte(initData))
	return g.prefix + hex.EncodeToString(sum[:])
}

func (g *RedisGuard) Check(ctx context.Context, initData string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(initData)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (g *RedisGuard) Mark(ctx context.Context, initData string) error {
	return g.client.SetNX(ctx, g.key(initData), 1, g.window).Err()
}

// Noop is used when no Redis is configured; every payload looks fresh.
type Noop struct{}

func (Noop) Check(context.Context, string) (bool, error) {
	return false, nil
}

func (Noop) Mark(context.Context, string) error {
	return nil
}
