// Package runlock serializes generation runs across seeder instances.  A
// run truncates shared tables before writing, so two concurrent runs
// against one database would corrupt each other; a short-lived Redis lock
// prevents that.  Without a reachable Redis the seeder degrades to running
// unguarded, which is acceptable for single-instance setups.
package runlock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// releaseScript deletes the lock key only when it still holds our token,
// so a lock that expired and was re-acquired elsewhere is never released
// by the old holder.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// Lock is a single-use run lock.  Acquire once, run, Release.
type Lock struct {
	rdb   *redis.Client
	key   string
	token string
	ttl   time.Duration
	log   zerolog.Logger
}

// New builds a Lock.  rdb may be nil, in which case locking is disabled
// and Acquire always succeeds.
func New(rdb *redis.Client, key string, ttl time.Duration, log zerolog.Logger) *Lock {
	return &Lock{rdb: rdb, key: key, ttl: ttl, log: log}
}

// Acquire attempts to take the lock.  It returns false when another
// instance currently holds it.
func (l *Lock) Acquire(ctx context.Context) (bool, error) {
	if l.rdb == nil {
		l.log.Warn().Msg("redis unavailable; running without a run lock")
		return true, nil
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return false, err
	}
	l.token = hex.EncodeToString(buf)
	ok, err := l.rdb.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Release frees the lock if this instance still holds it.
func (l *Lock) Release(ctx context.Context) error {
	if l.rdb == nil || l.token == "" {
		return nil
	}
	return releaseScript.Run(ctx, l.rdb, []string{l.key}, l.token).Err()
}
