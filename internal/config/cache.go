package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// CacheConfig controls the catalogue response cache.  Methods lists the
// HTTP methods eligible for caching, TTL is the entry lifetime, and
// KeyStrategy selects which request parts (path, method, query string)
// feed the cache key.  Prefix namespaces the keys in Redis and
// MaxBodyBytes caps the size of a stored response.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool
    TTL          time.Duration
    KeyStrategy  string
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig builds a CacheConfig from CACHE_* environment
// variables.  Caching only covers the public catalogue endpoints (car
// list, approved dates), so the default TTL is short: an admin decision
// should show up in the calendar within half a minute.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      getenv("CACHE_ENABLED", "true") == "true",
        Methods:      parseMethods(getenv("CACHE_METHODS", "GET")),
        TTL:          parseDur(getenv("CACHE_TTL", "30s")),
        KeyStrategy:  getenv("CACHE_KEY_STRATEGY", "path_query"),
        Prefix:       getenv("CACHE_PREFIX", "rentals"),
        MaxBodyBytes: atoi(getenv("CACHE_MAX_BODY_BYTES", "1048576")),
    }
}

func parseMethods(s string) map[string]bool {
    m := map[string]bool{}
    for _, p := range strings.Split(s, ",") {
        p = strings.TrimSpace(strings.ToUpper(p))
        if p != "" {
            m[p] = true
        }
    }
    return m
}

// Shared env helpers; ratelimit.go carries the typed variants.
func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func atoi(s string) int {
    i, _ := strconv.Atoi(s)
    return i
}

func parseDur(s string) time.Duration {
    d, err := time.ParseDuration(s)
    if err != nil {
        return time.Second
    }
    return d
}