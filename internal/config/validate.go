package config

import (
	"fmt"
	"time"
)

// devJWTSecret is used outside release mode when JWT_SECRET is unset.
const devJWTSecret = "default_super_secret_key"

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if c.Auth.JWTSecret == "" {
		if c.Server.Release() {
			return fmt.Errorf("auth.jwt_secret is required in release mode")
		}
		c.Auth.JWTSecret = devJWTSecret
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0 (got %s)", c.Auth.AccessTokenTTL)
	}

	if c.Owner.Password == "" {
		if c.Server.Release() {
			return fmt.Errorf("owner.password is required in release mode")
		}
		c.Owner.Password = "changeme"
	}
	if len(c.Owner.Password) < 6 {
		return fmt.Errorf("owner.password must be at least 6 characters")
	}

	if c.WebSocket.SendBuffer <= 0 {
		return fmt.Errorf("websocket.send_buffer must be > 0 (got %d)", c.WebSocket.SendBuffer)
	}
	if c.RateLimit.LoginRPS <= 0 || c.RateLimit.LoginBurst <= 0 {
		return fmt.Errorf("rate_limit login_rps and login_burst must be > 0")
	}
	if c.Server.ShutdownTimeout < time.Second {
		return fmt.Errorf("server.shutdown_timeout must be at least 1s (got %s)", c.Server.ShutdownTimeout)
	}

	return nil
}
