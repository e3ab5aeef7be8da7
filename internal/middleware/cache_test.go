package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medazero01-art/scuderiarentals/internal/config"
)

func calendarContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/reservations/car/:carId/approved")
	return c
}

func testCacheConfig(strategy string) config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		KeyStrategy: strategy,
		Prefix:      "rentals",
	}
}

// Two cars routed through the same registered pattern must get distinct
// cache entries, otherwise one car's approved calendar would be served
// for every car until the TTL expires.
func TestCacheKeyDistinguishesCars(t *testing.T) {
	cfg := testCacheConfig("path_query")

	keyCar1 := cacheKey(cfg, calendarContext(t, "/v1/reservations/car/1/approved"))
	keyCar2 := cacheKey(cfg, calendarContext(t, "/v1/reservations/car/2/approved"))

	require.NotEqual(t, keyCar1, keyCar2)

	// Same URL stays stable across requests so hits are still possible.
	again := cacheKey(cfg, calendarContext(t, "/v1/reservations/car/1/approved"))
	assert.Equal(t, keyCar1, again)
}

func TestThrottleKeySeparatesRoutes(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rentals:rl", KeyStrategy: "ip_route"}

	e := echo.New()
	newCtx := func(path string) echo.Context {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set(echo.HeaderXRealIP, "203.0.113.9")
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath(path)
		return c
	}

	register := throttleKey(cfg, newCtx("/v1/auth/register"))
	login := throttleKey(cfg, newCtx("/v1/auth/login"))

	assert.NotEqual(t, register, login)
	assert.Contains(t, register, "203.0.113.9")

	// Plain "ip" strategy pools both routes into one bucket.
	cfg.KeyStrategy = "ip"
	assert.Equal(t,
		throttleKey(cfg, newCtx("/v1/auth/register")),
		throttleKey(cfg, newCtx("/v1/auth/login")))
}

func TestCacheKeyPerStrategy(t *testing.T) {
	for _, strategy := range []string{"path", "method_path", "method_path_query", "path_query"} {
		t.Run(strategy, func(t *testing.T) {
			cfg := testCacheConfig(strategy)
			a := cacheKey(cfg, calendarContext(t, "/v1/reservations/car/1/approved"))
			b := cacheKey(cfg, calendarContext(t, "/v1/reservations/car/2/approved"))
			assert.NotEqual(t, a, b)
		})
	}
}
