package middleware

// Token-bucket throttle in front of the /v1/auth group. Register and
// login are anonymous, so buckets are keyed by client IP (optionally
// per route); there is no caller identity to key on before the token
// is issued. State lives in Redis so all instances share the buckets,
// and the refill arithmetic runs in a Lua script to stay atomic.

import (
    "fmt"
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/medazero01-art/scuderiarentals/internal/config"
)

func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return func(c echo.Context) error { return next(c) } }
    }

    // Returns {allowed, tokens_left, retry_after_ms}.
    bucketScript := redis.NewScript(`
        local key = KEYS[1]
        local now = tonumber(ARGV[1])
        local capacity = tonumber(ARGV[2])
        local refill_amount = tonumber(ARGV[3])
        local refill_every_ms = tonumber(ARGV[4])
        local ttl_seconds = tonumber(ARGV[5])

        local state = redis.call('HMGET', key, 'tokens', 'refilled_at')
        local tokens = tonumber(state[1])
        local refilled_at = tonumber(state[2])

        if tokens == nil or refilled_at == nil then
            tokens = capacity
            refilled_at = now
        end

        if refill_every_ms > 0 and refill_amount > 0 then
            local elapsed = math.max(0, now - refilled_at)
            local steps = math.floor(elapsed / refill_every_ms)
            if steps > 0 then
                tokens = math.min(capacity, tokens + (steps * refill_amount))
                refilled_at = refilled_at + (steps * refill_every_ms)
            end
        end

        local allowed = 0
        local retry_after_ms = 0
        if tokens > 0 then
            allowed = 1
            tokens = tokens - 1
        else
            local wait = refill_every_ms - (now - refilled_at)
            if wait < 0 then wait = 0 end
            retry_after_ms = wait
        end

        redis.call('HMSET', key, 'tokens', tokens, 'refilled_at', refilled_at)
        redis.call('EXPIRE', key, ttl_seconds)

        return { allowed, tokens, retry_after_ms }
    `)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := throttleKey(cfg, c)
            now := time.Now()

            args := []interface{}{
                now.UnixMilli(),
                cfg.Capacity,
                cfg.RefillTokens,
                cfg.RefillInterval.Milliseconds(),
                int64(cfg.TTL / time.Second),
            }

            ctx := c.Request().Context()
            vals, err := bucketScript.Run(ctx, rdb, []string{key}, args...).Result()
            if err != nil {
                // Redis trouble must not lock users out of login.
                if cfg.Debug {
                    c.Logger().Warnf("auth throttle: redis error for %s: %v", key, err)
                }
                return next(c)
            }

            allowed := false
            remaining := int64(0)
            retryMs := int64(0)

            if arr, ok := vals.([]interface{}); ok && len(arr) == 3 {
                if i, ok := arr[0].(int64); ok {
                    allowed = i == 1
                } else {
                    allowed = fmt.Sprint(arr[0]) == "1"
                }
                remaining = asInt64(arr[1])
                retryMs = asInt64(arr[2])
            } else {
                if cfg.Debug {
                    c.Logger().Warnf("auth throttle: unexpected script result for %s: %#v", key, vals)
                }
                return next(c)
            }

            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

            if !allowed {
                secs := int(math.Ceil(float64(retryMs) / 1000.0))
                if secs < 0 {
                    secs = 0
                }
                c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "error":       "too_many_requests",
                    "message":     "rate limit exceeded",
                    "retry_after": secs,
                })
            }

            if cfg.Debug {
                c.Response().Header().Set("X-RateLimit-Key", key)
            }
            return next(c)
        }
    }
}

// throttleKey buckets by client IP, with an optional per-route
// dimension so register and login can drain independently.
func throttleKey(cfg config.RateLimitConfig, c echo.Context) string {
    ip := c.RealIP()
    if ip == "" {
        ip = "unknown"
    }
    route := c.Request().Method + " " + c.Path()

    parts := []string{cfg.Prefix}
    switch strings.ToLower(cfg.KeyStrategy) {
    case "ip_route":
        parts = append(parts, "ip", ip, "route", route)
    default: // "ip"
        parts = append(parts, "ip", ip)
    }
    return strings.Join(parts, ":")
}

func asInt64(v interface{}) int64 {
    switch t := v.(type) {
    case int64:
        return t
    case int32:
        return int64(t)
    case int:
        return int64(t)
    case float64:
        return int64(t)
    case float32:
        return int64(t)
    case string:
        if n, err := strconv.ParseInt(t, 10, 64); err == nil {
            return n
        }
    }
    return 0
}
