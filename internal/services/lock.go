// Package services – keyed locks
//
// Every aggregation runs its read-then-upsert cycle under a lock scoped to
// the derived row it writes, so two submissions for the same assessment
// cannot interleave on one SectionScore or DepartmentScore row. A single
// instance uses MemoryLocker; replicas sharing a database use RedisLocker.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrLockTimeout is returned when a lock could not be acquired within the
// configured wait.
var ErrLockTimeout = errors.New("lock wait timeout")

// Locker acquires an exclusive lock on key. The returned unlock must be
// called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Lock keys.
func sectionLockKey(assessmentID, sectionID string) string {
	return "section:" + assessmentID + ":" + sectionID
}

func overallLockKey(assessmentID string) string { return "overall:" + assessmentID }

func departmentLockKey(assessmentID, departmentID, categoryID string) string {
	return "dept:" + assessmentID + ":" + departmentID + ":" + categoryID
}

// withLock runs fn while holding key. A nil locker runs fn unguarded.
func withLock(ctx context.Context, l Locker, key string, fn func() error) error {
	if l == nil {
		return fn()
	}
	unlock, err := l.Lock(ctx, key)
	if err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	defer unlock()
	return fn()
}

// MemoryLocker is an in-process keyed mutex. Entries are reference counted
// and removed when the last holder or waiter leaves.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*memLock
}

type memLock struct {
	ch   chan struct{}
	refs int
}

// NewMemoryLocker returns an empty MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*memLock)}
}

// Lock blocks until key is free or ctx is done.
func (m *MemoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &memLock{ch: make(chan struct{}, 1)}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
	case <-ctx.Done():
		m.release(key, l)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.ch
			m.release(key, l)
		})
	}, nil
}

func (m *MemoryLocker) release(key string, l *memLock) {
	m.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, key)
	}
	m.mu.Unlock()
}

// releaseScript deletes the key only when it still holds our token.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// RedisLocker is a best-effort distributed lock built on SET NX with a
// per-acquisition token and a Lua compare-and-delete release.
type RedisLocker struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration // lock expiry if the holder dies
	Wait   time.Duration // max time to wait for acquisition
	Retry  time.Duration // poll interval while waiting
}

// NewRedisLocker wires a RedisLocker with the engine's key prefix.
func NewRedisLocker(client *redis.Client, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		Client: client,
		Prefix: "assessment-scoring:lock:",
		TTL:    ttl,
		Wait:   wait,
		Retry:  25 * time.Millisecond,
	}
}

// Lock polls SET NX until it succeeds, Wait elapses, or ctx is done.
func (r *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := r.Prefix + key
	token := uuid.NewString()
	retry := r.Retry
	if retry <= 0 {
		retry = 25 * time.Millisecond
	}
	deadline := time.Now().Add(r.Wait)

	for {
		ok, err := r.Client.SetNX(ctx, lockKey, token, r.TTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		t := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	return func() {
		// The caller's ctx may already be cancelled; release on a fresh one.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = r.Client.Eval(rctx, releaseScript, []string{lockKey}, token).Err()
	}, nil
}
