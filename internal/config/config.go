package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the client and the stub.
type Config struct {
	AppName     string
	Environment string
	API         APIConfig
	Session     SessionConfig
	Sync        SyncConfig
	Stub        StubConfig
	Context     ContextConfig
	Logger      LoggerConfig
}

type APIConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	MaxConns       int
}

type SessionConfig struct {
	Path string
	TTL  time.Duration
}

type SyncConfig struct {
	FetchConcurrency int
	RefreshInterval  time.Duration
}

type StubConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	JWTSecret    string
	JWTIssuer    string
	TokenTTL     time.Duration
	// WrapCollections makes list endpoints answer {"projects": [...]} style
	// envelopes instead of bare arrays.
	WrapCollections bool
}

type ContextConfig struct {
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults so the client works against a local remote out of the box.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "taskflow"),
		Environment: getString("APP_ENV", "development"),
		API: APIConfig{
			BaseURL:        strings.TrimRight(getString("TASKFLOW_API_URL", "http://localhost:5000/api"), "/"),
			RequestTimeout: getDuration("REQUEST_TIMEOUT_SECONDS", 10*time.Second),
			MaxConns:       getInt("TASKFLOW_API_MAX_CONNS", 16),
		},
		Session: SessionConfig{
			Path: getString("TASKFLOW_SESSION_PATH", defaultSessionPath()),
			TTL:  getDuration("SESSION_TTL", 7*24*time.Hour),
		},
		Sync: SyncConfig{
			FetchConcurrency: getInt("FETCH_CONCURRENCY", 8),
			RefreshInterval:  getDuration("REFRESH_INTERVAL_SECONDS", 30*time.Second),
		},
		Stub: StubConfig{
			Host:            getString("STUB_HOST", "127.0.0.1"),
			Port:            getString("STUB_PORT", "5000"),
			ReadTimeout:     getDuration("STUB_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDuration("STUB_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getDuration("STUB_IDLE_TIMEOUT", 120*time.Second),
			JWTSecret:       getString("JWT_SECRET", "taskflow-dev-secret"),
			JWTIssuer:       getString("JWT_ISSUER", "taskflow-stub"),
			TokenTTL:        getDuration("STUB_TOKEN_TTL", 7*24*time.Hour),
			WrapCollections: getBool("STUB_WRAP_COLLECTIONS", false),
		},
		Context: ContextConfig{
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "warn"),
			Encoding: getString("LOG_ENCODING", "console"),
		},
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("TASKFLOW_API_URL must not be empty")
	}
	if cfg.Sync.FetchConcurrency <= 0 {
		cfg.Sync.FetchConcurrency = 1
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".taskflow", "session.db")
	}
	return filepath.Join(home, ".local", "share", "taskflow", "session.db")
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// StubAddress returns the listen address of the stub remote.
func (c *Config) StubAddress() string {
	return fmt.Sprintf("%s:%s", c.Stub.Host, c.Stub.Port)
}
