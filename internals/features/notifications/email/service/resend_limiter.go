package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyedStore: counter per key dengan TTL.
type KeyedStore interface {
	// Incr menaikkan counter; TTL dipasang saat key baru dibuat.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type RedisStore struct {
	Client *redis.Client
	Prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client, Prefix: "qurban:ratelimit:"}
}

func (s *RedisStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	k := s.Prefix + key
	pipe := s.Client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// MemoryStore: untuk dev/test; reset saat proses restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

type memEntry struct {
	count     int64
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memEntry), now: time.Now}
}

func (s *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	e, ok := s.entries[key]
	if !ok || !now.Before(e.expiresAt) {
		e = memEntry{expiresAt: now.Add(ttl)}
	}
	e.count++
	s.entries[key] = e
	return e.count, nil
}

// ResendLimiter: batasi kirim ulang email per alamat.
type ResendLimiter struct {
	Store  KeyedStore
	Max    int64
	Window time.Duration
}

func NewResendLimiter(store KeyedStore, max int64, window time.Duration) *ResendLimiter {
	if max <= 0 {
		max = 5
	}
	if window <= 0 {
		window = time.Hour
	}
	return &ResendLimiter{Store: store, Max: max, Window: window}
}

func (l *ResendLimiter) Allow(ctx context.Context, email string) (bool, error) {
	n, err := l.Store.Incr(ctx, "resend:"+strings.ToLower(strings.TrimSpace(email)), l.Window)
	if err != nil {
		return false, err
	}
	return n <= l.Max, nil
}
