package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// unlockScript deletes the key only if it still holds our token, so a lock
// that expired and was re-acquired by someone else is left alone.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`)

// RedisOptions tunes RedisLocker.
type RedisOptions struct {
	// Prefix is prepended to every key.
	Prefix string

	// TTL bounds how long a crashed holder can block the key.
	TTL time.Duration

	// RetryInterval is the pause between acquisition attempts.
	RetryInterval time.Duration

	// MaxRetries is the number of attempts before ErrLockFailed.
	MaxRetries int
}

// DefaultRedisOptions returns options suited to short ledger updates.
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Prefix:        "pokett:lock:",
		TTL:           10 * time.Second,
		RetryInterval: 20 * time.Millisecond,
		MaxRetries:    250,
	}
}

// RedisLocker is a Locker backed by SET NX PX on a shared Redis.
type RedisLocker struct {
	client *redis.Client
	opts   RedisOptions
}

// NewRedisLocker creates a RedisLocker using client.
func NewRedisLocker(client *redis.Client, opts RedisOptions) *RedisLocker {
	return &RedisLocker{client: client, opts: opts}
}

// TryLock makes a single attempt to acquire key with the given token.
func (l *RedisLocker) TryLock(ctx context.Context, key, token string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.opts.Prefix+key, token, l.opts.TTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Lock acquires key, retrying every RetryInterval up to MaxRetries times.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()

	for i := 0; i < l.opts.MaxRetries; i++ {
		ok, err := l.TryLock(ctx, key, token)
		if err != nil {
			return nil, err
		}
		if ok {
			return func() { l.unlock(key, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.opts.RetryInterval):
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrLockFailed, key)
}

// unlock runs detached from the request context so a cancelled request
// still releases its key.
func (l *RedisLocker) unlock(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := unlockScript.Run(ctx, l.client, []string{l.opts.Prefix + key}, token).Err(); err != nil {
		slog.Warn("Failed to release redis lock", "key", key, "error", err)
	}
}
