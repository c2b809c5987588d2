package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	CORS      CORSConfig      `yaml:"cors"`
	Log       LogConfig       `yaml:"log"`
	Owner     OwnerConfig     `yaml:"owner"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	Mode            string        `yaml:"mode"             env:"GIN_MODE"                env-default:"debug"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Release reports whether gin runs in release mode.
func (s ServerConfig) Release() bool { return s.Mode == "release" }

// AuthConfig holds access token settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"JWT_SECRET"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"JWT_ISSUER"            env-default:"supplytrace"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"24h"`
	// SecureCookies switches cookies to SameSite=None; Secure for cross-origin frontends.
	SecureCookies bool `yaml:"secure_cookies" env:"AUTH_SECURE_COOKIES" env-default:"false"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173,http://127.0.0.1:5173"`
}

// Origins splits AllowedOrigins on commas.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// OwnerConfig is the account bootstrapped as OWNER on startup.
type OwnerConfig struct {
	Username string `yaml:"username" env:"OWNER_USERNAME" env-default:"owner"`
	Email    string `yaml:"email"    env:"OWNER_EMAIL"    env-default:"owner@supplytrace.local"`
	Password string `yaml:"password" env:"OWNER_PASSWORD"`
}

// WebSocketConfig holds event hub settings.
type WebSocketConfig struct {
	SendBuffer int `yaml:"send_buffer" env:"WS_SEND_BUFFER" env-default:"256"`
}

// RateLimitConfig throttles POST /login per client IP.
type RateLimitConfig struct {
	LoginRPS   float64 `yaml:"login_rps"   env:"LOGIN_RATE_RPS"   env-default:"1"`
	LoginBurst int     `yaml:"login_burst" env:"LOGIN_RATE_BURST" env-default:"5"`
}
