package server

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaseed.dev/economy/internal/api"
	"seaseed.dev/economy/internal/config"
)

func TestRateLimiter_Window(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Close()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		assert.True(t, rl.allowAt("a", now))
	}
	assert.False(t, rl.allowAt("a", now))
	assert.True(t, rl.allowAt("b", now), "limits are per client")

	// Одна единица пополняется за window/limit.
	assert.True(t, rl.allowAt("a", now.Add(21*time.Second)))
	assert.False(t, rl.allowAt("a", now.Add(21*time.Second)))

	rl.evict(now.Add(2 * time.Minute))
	assert.Zero(t, rl.size())
}

func TestRateLimiter_CloseTwice(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	rl.Close()
	rl.Close()
}

type testRoutes struct{}

func (testRoutes) Register(r fiber.Router) {
	r.Get("/whoami", func(c *fiber.Ctx) error {
		id, err := api.MustUserID(c)
		if err != nil {
			return api.Error(c, err)
		}
		return c.JSON(fiber.Map{"user_id": id, "request_id": c.Locals(api.LocalRequestID)})
	})
	r.Get("/ip", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ip": api.ClientIP(c)})
	})
	r.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})
}

func newTestServer(t *testing.T, requests int) *Server {
	t.Helper()
	cfg := &config.Config{
		HTTPAddr:          ":0",
		UserHeader:        "X-User-ID",
		RateLimitRequests: requests,
		RateLimitWindow:   time.Minute,
	}
	s := New(cfg, testRoutes{})
	t.Cleanup(s.limiter.Close)
	return s
}

func get(t *testing.T, s *Server, path, user string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestServer_Identity(t *testing.T) {
	s := newTestServer(t, 100)

	status, body := get(t, s, "/whoami", "42")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(42), body["user_id"])
	assert.NotEmpty(t, body["request_id"])

	status, _ = get(t, s, "/whoami", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = get(t, s, "/whoami", "-5")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestServer_RecoversPanic(t *testing.T) {
	s := newTestServer(t, 100)

	status, body := get(t, s, "/panic", "1")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.NotEmpty(t, body["error"])

	status, _ = get(t, s, "/healthz", "")
	assert.Equal(t, fiber.StatusOK, status, "server survives")
}

func TestServer_RateLimit(t *testing.T) {
	s := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		status, _ := get(t, s, "/whoami", "7")
		assert.Equal(t, fiber.StatusOK, status)
	}
	status, _ := get(t, s, "/whoami", "7")
	assert.Equal(t, fiber.StatusTooManyRequests, status)

	status, _ = get(t, s, "/whoami", "8")
	assert.Equal(t, fiber.StatusOK, status, "other user")

	// /healthz не лимитируется.
	for i := 0; i < 5; i++ {
		status, _ = get(t, s, "/healthz", "7")
		assert.Equal(t, fiber.StatusOK, status)
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	s := newTestServer(t, 100)
	status, body := get(t, s, "/nope", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.NotEmpty(t, body["error"])
}

func TestServer_ClientIP(t *testing.T) {
	ip := func(trusted []string, xff string) string {
		t.Helper()
		s := New(&config.Config{UserHeader: "X-User-ID", RateLimitRequests: 100, RateLimitWindow: time.Minute, TrustedProxies: trusted}, testRoutes{})
		defer s.limiter.Close()
		req := httptest.NewRequest("GET", "/ip", nil)
		req.Header.Set(fiber.HeaderXForwardedFor, xff)
		resp, err := s.App().Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		var out map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out["ip"]
	}

	// app.Test подключается с 0.0.0.0.
	assert.Equal(t, "0.0.0.0", ip(nil, "203.0.113.7"), "untrusted peer")
	assert.Equal(t, "203.0.113.7", ip([]string{"0.0.0.0"}, "203.0.113.7, 10.0.0.1"))
	assert.Equal(t, "203.0.113.7", ip([]string{"0.0.0.0"}, "garbage, 203.0.113.7"), "first valid entry")
}
