// Package lock serializes read-modify-write sequences on the same balance pair.
//
// Two implementations are provided: KeyedMutex for a single process and
// RedisLocker for several server processes sharing one database.
package lock

import (
	"context"
	"errors"
)

// ErrLockFailed is returned when a lock could not be acquired within the retry budget.
var ErrLockFailed = errors.New("failed to acquire lock")

// Locker grants exclusive access to a key.
type Locker interface {
	// Lock blocks until key is held or ctx is done. The returned function
	// releases the lock and must be called exactly once.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
