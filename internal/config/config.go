package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Push      PushConfig      `yaml:"push"`
	Sharing   SharingConfig   `yaml:"sharing"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"true"`
}

// AuthConfig holds JWT authentication settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"homely"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"24h"`
}

// PushConfig holds settings for the external push notification provider
// and the outbox dispatcher that drains deliveries to it.
type PushConfig struct {
	Enabled        bool          `yaml:"enabled"          env:"PUSH_ENABLED"          env-default:"true"`
	URL            string        `yaml:"url"              env:"PUSH_URL"`
	APIKey         string        `yaml:"api_key"          env:"PUSH_API_KEY"`
	RequestTimeout time.Duration `yaml:"request_timeout"  env:"PUSH_REQUEST_TIMEOUT"  env-default:"5s"`
	PollInterval   time.Duration `yaml:"poll_interval"    env:"PUSH_POLL_INTERVAL"    env-default:"15s"`
	BatchSize      int           `yaml:"batch_size"       env:"PUSH_BATCH_SIZE"       env-default:"50"`
	MaxAttempts    int           `yaml:"max_attempts"     env:"PUSH_MAX_ATTEMPTS"     env-default:"8"`
	RetentionDays  int           `yaml:"retention_days"   env:"PUSH_RETENTION_DAYS"   env-default:"7"`
}

// SharingConfig holds limits for the sharing workflow.
type SharingConfig struct {
	MaxTargetsPerShare int `yaml:"max_targets_per_share" env:"SHARING_MAX_TARGETS" env-default:"20"`
}

// LogConfig holds logging settings.
// Format is one of: json (production), text (plain), pretty (tint, development).
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled       bool `yaml:"enabled"         env:"RATE_LIMIT_ENABLED"         env-default:"true"`
	PerMinute     int  `yaml:"per_minute"      env:"RATE_LIMIT_PER_MINUTE"      env-default:"300"`
	AuthPerMinute int  `yaml:"auth_per_minute" env:"RATE_LIMIT_AUTH_PER_MINUTE" env-default:"20"`
}
