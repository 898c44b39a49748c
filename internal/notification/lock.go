package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// OwnerLocks serializes alert evaluation per owner within one process, so a
// manual purchase trigger racing the scheduled sweep cannot both decide
// "not yet notified" for the same customer.
type OwnerLocks struct {
	mu    sync.Mutex
	locks map[snowflake.ID]*sync.Mutex
}

func NewOwnerLocks() *OwnerLocks {
	return &OwnerLocks{locks: make(map[snowflake.ID]*sync.Mutex)}
}

// Lock acquires the owner's mutex and returns its release func.
func (l *OwnerLocks) Lock(ownerID snowflake.ID) func() {
	l.mu.Lock()
	m, ok := l.locks[ownerID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[ownerID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// Locker extends per-owner serialization across replicas via Redis SetNX.
// Optional: when no Redis client is configured the in-process OwnerLocks is
// the only guard, which is sufficient for single-binary deployments.
type Locker struct {
	client *redis.Client
	script *redis.Script
}

func NewLocker(client *redis.Client) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{
		client: client,
		script: redis.NewScript(lockReleaseScript),
	}
}

func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if l == nil || l.client == nil {
		return "", false, errors.New("lock client not configured")
	}
	if key == "" {
		return "", false, errors.New("lock key is empty")
	}
	if ttl <= 0 {
		return "", false, errors.New("lock ttl must be positive")
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

func (l *Locker) Release(ctx context.Context, key, token string) error {
	if l == nil || l.client == nil {
		return nil
	}
	if key == "" || token == "" {
		return nil
	}
	return l.script.Run(ctx, l.client, []string{key}, token).Err()
}
