package redislock

import (
	"context"
	"time"

	"ticket-gate/internal/pkg/errs"
	"ticket-gate/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only when it still holds our token, so an
// expired lock reacquired by another dispatcher is never released from here.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Locker is a per-key dispatch lock on Redis SET NX with a TTL.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	return &Locker{client: client, ttl: ttl}
}

func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, errs.Wrap(err, "failed to acquire dispatch lock")
	}
	if !ok {
		return nil, commands.ErrDispatchInProgress
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}
	return release, nil
}
