package config

import "time"

// RateLimitConfig describes a fixed-window request bucket: at most Max
// requests per Window per key. The API runs two buckets, a strict one in
// front of the credential endpoints and a general one for everything else.
type RateLimitConfig struct {
	Enabled bool
	Max     int
	Window  time.Duration
	Prefix  string
}

// LoadAuthRateLimit returns the bucket applied to login/register: 5
// attempts per 15 minutes by default.
func LoadAuthRateLimit() RateLimitConfig {
	return loadBucket("AUTH_RATE_LIMIT", 5, "rl:auth")
}

// LoadGeneralRateLimit returns the bucket applied to the rest of the API:
// 100 requests per 15 minutes by default.
func LoadGeneralRateLimit() RateLimitConfig {
	return loadBucket("RATE_LIMIT", 100, "rl:api")
}

func loadBucket(prefix string, defMax int, keyPrefix string) RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: envStr(prefix+"_ENABLED", "true") == "true",
		Max:     envInt(prefix+"_MAX", defMax),
		Window:  time.Duration(envInt(prefix+"_WINDOW_MIN", 15)) * time.Minute,
		Prefix:  keyPrefix,
	}
	if cfg.Max < 1 {
		cfg.Max = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	return cfg
}
