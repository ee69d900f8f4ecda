package server

import (
	"fmt"
	"net"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "SLOTFRAME"

// Config holds server configuration. Every field is read from
// SLOTFRAME_<name>, e.g. SLOTFRAME_PORT.
type Config struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port string `envconfig:"PORT" default:"8080"`

	// PagesDir is the file store directory, used when MongoURI is empty.
	PagesDir string `envconfig:"PAGES_DIR" default:"pages"`

	// MongoURI selects the MongoDB page store.
	MongoURI      string `envconfig:"MONGO_URI"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"slotframe"`

	// RedisURL enables the shared artifact cache. Without it nothing is cached.
	RedisURL    string `envconfig:"REDIS_URL"`
	CachePrefix string `envconfig:"CACHE_PREFIX" default:"slotframe:"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	MaxBodyBytes    int64         `envconfig:"MAX_BODY_BYTES" default:"1048576"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            "8080",
		PagesDir:        "pages",
		MongoDatabase:   "slotframe",
		CachePrefix:     "slotframe:",
		LogLevel:        "info",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxBodyBytes:    1 << 20,
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}
