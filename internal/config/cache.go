package config

import (
	"os"
	"strconv"
	"time"
)

// SearchCacheConfig defines settings for the flight directory cache.
// When Enabled is false or no Redis client is configured, every search
// goes to the database.  TTL bounds how stale a cached result may be;
// bookings always re-check capacity in their own transaction.  Prefix
// namespaces the keys.
type SearchCacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadSearchCacheConfig reads environment variables to build a
// SearchCacheConfig.  Defaults are used when variables are not set.
func LoadSearchCacheConfig() SearchCacheConfig {
	return SearchCacheConfig{
		Enabled: getenv("SEARCH_CACHE_ENABLED", "true") == "true",
		TTL:     parseDur(getenv("SEARCH_CACHE_TTL", "15s")),
		Prefix:  getenv("SEARCH_CACHE_PREFIX", "search"),
	}
}

// Helper functions reused from redis.go and ratelimit.go
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
