package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CountsWithinWindow(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		count, err := store.Increment(ctx, "key", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}
}

func TestMemoryStore_IndependentKeys(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	count, err := store.Increment(ctx, "a", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = store.Increment(ctx, "b", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryStore_WindowResets(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Increment(ctx, "key", time.Nanosecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	count, err := store.Increment(ctx, "key", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "expired window should reset the counter")
}

func TestRedisStore_Increment(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client)
	ctx := context.Background()

	mock.ExpectIncr("ratelimit:test").SetVal(1)
	mock.ExpectExpire("ratelimit:test", time.Minute).SetVal(true)

	count, err := store.Increment(ctx, "ratelimit:test", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	mock.ExpectIncr("ratelimit:test").SetVal(2)

	count, err = store.Increment(ctx, "ratelimit:test", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimitByIP_RejectsOverLimit(t *testing.T) {
	app := fiber.New()
	store := NewMemoryStore()
	app.Post("/register", RateLimitByIP(store, "register", 2, time.Minute), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "ok"})
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/register", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/register", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestCheckEmailLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, CheckEmailLimit(ctx, store, "resend", "a@example.com", 3, time.Hour))
	}
	assert.False(t, CheckEmailLimit(ctx, store, "resend", "a@example.com", 3, time.Hour))

	// A different email is unaffected.
	assert.True(t, CheckEmailLimit(ctx, store, "resend", "b@example.com", 3, time.Hour))
}
