// Package planlock serializes the multi-step pipeline operations that run
// against a single plan. Holding the lease does not replace the row-level
// lock taken at commit time; it keeps two slow pipelines from interleaving
// their download/transform/upload work in the first place.
package planlock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// ErrHeld is returned when another pipeline operation already holds the
// plan's lease. Callers fail fast; they never queue.
var ErrHeld = errors.New("plan is locked by another operation")

type Locker interface {
	// Acquire takes the lease for key and returns its release func.
	Acquire(ctx context.Context, key string) (func(), error)
}

// Local is the single-replica implementation: a keyed mutex that fails fast
// instead of blocking.
type Local struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocal() *Local {
	return &Local{held: make(map[string]struct{})}
}

func (l *Local) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, ErrHeld
	}
	l.held[key] = struct{}{}
	return func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}, nil
}

// Redis is the multi-replica implementation: a SET NX PX lease with a
// compare-and-delete release so an expired lease is never released by a
// stale holder.
type Redis struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedis(rdb *goredis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

var releaseScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()
	ok, err := r.rdb.SetNX(ctx, key, token, r.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire plan lock: %w", err)
	}
	if !ok {
		return nil, ErrHeld
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, r.rdb, []string{key}, token).Err()
	}, nil
}

// Key builds the lease key for one plan.
func Key(planID uuid.UUID) string {
	return "planlock:" + planID.String()
}
