package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func limiterApp(cache *redis.Client, maxPerMin int) *fiber.App {
	app := fiber.New()
	app.Post("/login", LoginRateLimit(cache, maxPerMin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func postLogin(t *testing.T, app *fiber.App, email string) int {
	t.Helper()
	body := []byte(`{"email":"` + email + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestLoginRateLimitBlocksOverLimit(t *testing.T) {
	srv := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer cache.Close()

	app := limiterApp(cache, 3)
	for i := 0; i < 3; i++ {
		if status := postLogin(t, app, "alice@example.com"); status != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, status)
		}
	}
	if status := postLogin(t, app, "alice@example.com"); status != http.StatusTooManyRequests {
		t.Fatalf("expected 429 over the limit, got %d", status)
	}

	// Other emails keep their own counters.
	if status := postLogin(t, app, "bob@example.com"); status != http.StatusOK {
		t.Fatalf("expected 200 for a different email, got %d", status)
	}
}

func TestLoginRateLimitCounterAlwaysExpires(t *testing.T) {
	srv := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer cache.Close()

	app := limiterApp(cache, 3)
	for i := 0; i < 5; i++ {
		postLogin(t, app, "alice@example.com")
	}

	key := "rl:login:alice@example.com"
	if ttl := srv.TTL(key); ttl <= 0 {
		t.Fatalf("counter key has no TTL, would lock the email out permanently")
	}

	srv.FastForward(2 * time.Minute)
	if srv.Exists(key) {
		t.Fatalf("counter should expire after the window")
	}
	if status := postLogin(t, app, "alice@example.com"); status != http.StatusOK {
		t.Fatalf("expected 200 after the window reset, got %d", status)
	}
}

func TestLoginRateLimitWithoutRedisIsNoop(t *testing.T) {
	app := limiterApp(nil, 1)
	for i := 0; i < 4; i++ {
		if status := postLogin(t, app, "alice@example.com"); status != http.StatusOK {
			t.Fatalf("attempt %d: expected 200 without redis, got %d", i+1, status)
		}
	}
}
