// Package config provides configuration related utilities.
package config

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Default values for config.
const (
	defaultHost            = "0.0.0.0"
	defaultPort            = "8080"
	defaultLogPath         = "logs/app.log"
	defaultMaxLogSizeMB    = 5
	defaultMaxLogBackups   = 10
	defaultMaxLogAgeDays   = 14
	defaultCacheTTL        = time.Hour
	defaultGenerateRetries = 5
	defaultCounterBufLen   = 64
)

// DefaultAddress is the default address to run the server
// and to build returned short URLs with.
var DefaultAddress = fmt.Sprintf("%s:%s", defaultHost, defaultPort)

// Config represents an application configuration.
type (
	Config struct {
		// The data source name (DSN) for connecting to the database.
		// An in-memory storage is used when empty.
		DSN string `yaml:"dsn" env:"DATABASE_DSN"`
		// Subconfigs.
		Server  Server  `yaml:"http_server"`
		Redis   Redis   `yaml:"redis"`
		JWT     JWT     `yaml:"jwt"`
		Logger  Logger  `yaml:"logger"`
		Service Service `yaml:"service"`
		// TLSEnabled determines whether the server will be started in the TLS mode.
		TLSEnabled bool `yaml:"enable_https" env:"ENABLE_HTTPS"`
	}
	// Config for server.
	Server struct {
		// Address to run the server.
		RunAddress *NetAddress `yaml:"server_address" env:"SERVER_ADDRESS"`
		// Address to return short URLs with.
		ReturnAddress *NetAddress `yaml:"return_address" env:"BASE_URL"`
		// Read header timeout.
		Timeout time.Duration `yaml:"timeout" env-default:"5s"`
		// Idle timeout.
		IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
		// Shutdown timeout.
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"30s"`
	}
	// Config for the redirect cache. The cache is disabled when
	// Addr is empty.
	Redis struct {
		// Address of the redis server in the form "host:port".
		Addr string `yaml:"addr" env:"REDIS_ADDR"`
		// Optional password.
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		// Database number.
		DB int `yaml:"db" env:"REDIS_DB"`
		// Default TTL for cached redirects.
		TTL time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"1h"`
	}
	// Config for JWT.
	JWT struct {
		// JWT signing key.
		SigningKey string `yaml:"signing_key" env:"JWT_SIGNING_KEY" env-default:"test_key"`
		// JWT expiration.
		Expiration time.Duration `yaml:"expiration" env:"JWT_EXPIRATION" env-default:"24h"`
	}
	// Config for application's logger.
	Logger struct {
		// Path to store log files.
		Path string `yaml:"log_path" env:"LOG_PATH"`
		// Application logging level.
		Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
		// Log files details.
		MaxSizeMB  int `yaml:"max_size_mb"`
		MaxBackups int `yaml:"max_backups"`
		MaxAgeDays int `yaml:"max_age_days"`
	}
	// Config for the link service.
	Service struct {
		// Timeout for a single storage call.
		StoreTimeout time.Duration `yaml:"store_timeout" env-default:"3s"`
		// Timeout for a single cache call.
		CacheTimeout time.Duration `yaml:"cache_timeout" env-default:"500ms"`
		// How many generated codes to try before giving up.
		GenerateRetries int `yaml:"generate_retries"`
		// Length of the buffer for asynchronous access counting.
		CounterBufLen int `yaml:"counter_buffer_length"`
	}
)

// Interface implementation guards.
var (
	_ flag.Value      = (*NetAddress)(nil)
	_ cleanenv.Setter = (*NetAddress)(nil)
)

// NetAddress represents a network address with a host and a port.
type NetAddress string

// NewNetAddress returns a pointer to a new NetAddress with default Host and Port.
func NewNetAddress() *NetAddress {
	a := NetAddress(DefaultAddress)
	return &a
}

// String returns a string representation of the NetAddress in the form "host:port".
func (a *NetAddress) String() string {
	return string(*a)
}

// Set sets the host and port of the NetAddress from a string
// in the form "host:port".
func (a *NetAddress) Set(s string) error {
	host, port, err := net.SplitHostPort(strings.TrimPrefix(s, "http://"))
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", s, err)
	}
	if _, err = strconv.Atoi(port); err != nil {
		return fmt.Errorf("invalid port %q: %w", port, err)
	}
	if host == "" {
		host = defaultHost
	}
	*a = NetAddress(net.JoinHostPort(host, port))
	return nil
}

// SetValue implements the cleanenv.Setter interface.
func (a *NetAddress) SetValue(s string) error {
	return a.Set(s)
}

// New loads the application configuration from an optional YAML file
// pointed to by the CONFIG environment variable, the environment and
// the command line flags, in that order of precedence (flags win).
func New() (*Config, error) {
	cfg := &Config{
		Server: Server{
			RunAddress:    NewNetAddress(),
			ReturnAddress: NewNetAddress(),
		},
		Logger: Logger{
			Path:       defaultLogPath,
			MaxSizeMB:  defaultMaxLogSizeMB,
			MaxBackups: defaultMaxLogBackups,
			MaxAgeDays: defaultMaxLogAgeDays,
		},
		Service: Service{
			GenerateRetries: defaultGenerateRetries,
			CounterBufLen:   defaultCounterBufLen,
		},
	}

	if path := os.Getenv("CONFIG"); path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read config from env: %w", err)
	}

	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = defaultCacheTTL
	}
	if cfg.Service.GenerateRetries <= 0 {
		cfg.Service.GenerateRetries = defaultGenerateRetries
	}
	if cfg.Service.CounterBufLen <= 0 {
		cfg.Service.CounterBufLen = defaultCounterBufLen
	}

	return cfg, nil
}

// ParseFlags overrides the configuration with the command line flags.
// Must be called after New and before the config is used.
func (c *Config) ParseFlags() {
	flag.Var(c.Server.RunAddress, "a", "address to run the server in the form host:port")
	flag.Var(c.Server.ReturnAddress, "b", "address to return short URLs with in the form host:port")
	flag.StringVar(&c.DSN, "d", c.DSN, "data source name for the database")
	flag.StringVar(&c.Redis.Addr, "r", c.Redis.Addr, "redis address for the redirect cache")
	flag.StringVar(&c.Logger.Level, "l", c.Logger.Level, "logging level")
	flag.BoolVar(&c.TLSEnabled, "s", c.TLSEnabled, "run the server in the TLS mode")
	flag.Parse()
}
