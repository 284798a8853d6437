package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Push.Enabled && c.Push.URL == "" {
		return fmt.Errorf("push.url is required when push is enabled")
	}
	if c.Push.BatchSize <= 0 {
		return fmt.Errorf("push.batch_size must be > 0 (got %d)", c.Push.BatchSize)
	}
	if c.Push.MaxAttempts <= 0 {
		return fmt.Errorf("push.max_attempts must be > 0 (got %d)", c.Push.MaxAttempts)
	}

	if c.Sharing.MaxTargetsPerShare <= 0 {
		return fmt.Errorf("sharing.max_targets_per_share must be > 0 (got %d)", c.Sharing.MaxTargetsPerShare)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.PerMinute <= 0 {
			return fmt.Errorf("rate_limit.per_minute must be > 0 (got %d)", c.RateLimit.PerMinute)
		}
		if c.RateLimit.AuthPerMinute <= 0 {
			return fmt.Errorf("rate_limit.auth_per_minute must be > 0 (got %d)", c.RateLimit.AuthPerMinute)
		}
	}

	return nil
}
