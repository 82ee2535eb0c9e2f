package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const leasePrefix = "lease:"

// releaseScript deletes the key only while it still holds our token, so an
// expired lease taken over by another replica is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Lease struct {
	client redis.Cmdable
}

func NewLease(client redis.Cmdable) *Lease {
	return &Lease{client: client}
}

func (l *Lease) Acquire(ctx context.Context, name string, ttl time.Duration) (func(ctx context.Context) error, bool, error) {
	key := leasePrefix + name
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lease %s: %w", name, err)
	}
	if !acquired {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("failed to release lease %s: %w", name, err)
		}
		return nil
	}
	return release, true, nil
}
