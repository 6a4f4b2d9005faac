package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimitStore is a fixed-window counter. Implementations may be
// process-local or backed by a shared store so multiple instances see the
// same counts.
type RateLimitStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Store is the process-wide limiter store. main swaps in the redis-backed
// implementation when REDIS_URL is set, so multi-instance deployments share
// their counters.
var Store RateLimitStore = NewMemoryStore()

type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
}

type windowCounter struct {
	count   int64
	resetAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]*windowCounter)}
}

func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	wc, ok := s.counters[key]
	if !ok || now.After(wc.resetAt) {
		wc = &windowCounter{resetAt: now.Add(window)}
		s.counters[key] = wc
	}
	wc.count++
	return wc.count, nil
}

type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		s.client.Expire(ctx, key, window)
	}
	return count, nil
}

// RateLimitByIP returns 429 once a client IP exceeds limit requests within
// the window. Store errors fail open: throttling is best-effort and must
// never take down the guarded endpoint.
func RateLimitByIP(store RateLimitStore, prefix string, limit int64, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("ratelimit:%s:ip:%s", prefix, c.IP())

		count, err := store.Increment(c.Context(), key, window)
		if err != nil {
			return c.Next()
		}
		if count > limit {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		}
		return c.Next()
	}
}

// CheckEmailLimit is used by handlers that also throttle per target email,
// e.g. resend-verification. Returns false once the email exceeds limit sends
// within the window.
func CheckEmailLimit(ctx context.Context, store RateLimitStore, prefix, email string, limit int64, window time.Duration) bool {
	key := fmt.Sprintf("ratelimit:%s:email:%s", prefix, email)

	count, err := store.Increment(ctx, key, window)
	if err != nil {
		return true
	}
	return count <= limit
}
