package config

import "time"

// RateLimitConfig controls the Redis token-bucket limiter applied at the
// gateway. Capacity is the burst size; the bucket refills RefillTokens every
// RefillInterval. TTL bounds how long idle buckets live in Redis.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// LoadRateLimitConfig reads the global limiter settings. The defaults mirror
// production: 500 requests per client IP with a steady refill.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        getenv("RATE_LIMIT_ENABLED", "true") == "true",
		Capacity:       atoi(getenv("RATE_LIMIT_CAPACITY", "500")),
		RefillTokens:   atoi(getenv("RATE_LIMIT_REFILL_TOKENS", "1")),
		RefillInterval: parseDur(getenv("RATE_LIMIT_REFILL_INTERVAL", "2s")),
		TTL:            parseDur(getenv("RATE_LIMIT_TTL", "30m")),
		Prefix:         getenv("RATE_LIMIT_PREFIX", "rl:global"),
	}
	return cfg.sanitized()
}

// LoadLoginRateLimitConfig reads the stricter limiter guarding /auth/login
// against brute-force attempts: ten tries, refilling one every 90 seconds.
func LoadLoginRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        getenv("LOGIN_RATE_LIMIT_ENABLED", "true") == "true",
		Capacity:       atoi(getenv("LOGIN_RATE_LIMIT_CAPACITY", "10")),
		RefillTokens:   1,
		RefillInterval: parseDur(getenv("LOGIN_RATE_LIMIT_REFILL_INTERVAL", "90s")),
		TTL:            parseDur(getenv("LOGIN_RATE_LIMIT_TTL", "30m")),
		Prefix:         getenv("LOGIN_RATE_LIMIT_PREFIX", "rl:login"),
	}
	return cfg.sanitized()
}

func (c RateLimitConfig) sanitized() RateLimitConfig {
	if c.Capacity < 1 {
		c.Capacity = 1
	}
	if c.RefillTokens < 1 {
		c.RefillTokens = 1
	}
	if c.RefillInterval <= 0 {
		c.RefillInterval = time.Second
	}
	if minTTL := 5 * c.RefillInterval; c.TTL < minTTL {
		c.TTL = minTTL
	}
	return c
}
