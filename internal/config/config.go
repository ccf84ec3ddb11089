package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all process-wide configuration, loaded once at startup.
type Config struct {
	// Server
	Port int `envconfig:"PORT" default:"8080"`

	// JWT
	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	// Storage backend: "postgres", "file" or "redis"
	StorageBackend string        `envconfig:"STORAGE_BACKEND" default:"postgres"`
	StorageTimeout time.Duration `envconfig:"STORAGE_TIMEOUT" default:"5s"`

	// Postgres
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Flat-file storage
	DataDir string `envconfig:"DATA_DIR" default:"./data"`

	// Redis
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}
