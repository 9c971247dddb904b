package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the client.
type Config struct {
	AppName     string
	Environment string
	API         APIConfig
	Credentials CredentialsConfig
	Monitor     MonitorConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Stub        StubConfig
}

// APIConfig describes the remote task service endpoint. Timeouts apply at the
// transport; the core adds no per-request deadlines on top.
type APIConfig struct {
	BaseURL      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxConns     int
}

// CredentialsConfig locates the durable session store.
type CredentialsConfig struct {
	Path   string
	Bucket string
}

type MonitorConfig struct {
	Enabled  bool
	Interval time.Duration
}

type ContextConfig struct {
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// StubConfig configures the local development server in cmd/stubserver.
type StubConfig struct {
	Addr         string
	Secret       string
	SeedEmail    string
	SeedPassword string
	SeedName     string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the client can run without any setup.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "taskgo"),
		Environment: getString("APP_ENV", "development"),
		API: APIConfig{
			BaseURL:      getString("API_BASE_URL", "http://localhost:8000"),
			ReadTimeout:  getDuration("API_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("API_WRITE_TIMEOUT", 15*time.Second),
			MaxConns:     getInt("API_MAX_CONNS", 0),
		},
		Credentials: CredentialsConfig{
			Path:   getString("CREDENTIALS_PATH", defaultCredentialsPath()),
			Bucket: getString("CREDENTIALS_BUCKET", "credentials"),
		},
		Monitor: MonitorConfig{
			Enabled:  getBool("MONITOR_ENABLED", true),
			Interval: getDuration("MONITOR_INTERVAL", 10*time.Second),
		},
		Context: ContextConfig{
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 5*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "console"),
		},
		Stub: StubConfig{
			Addr:         getString("STUB_ADDR", "localhost:8000"),
			Secret:       getString("STUB_SECRET", "stub-secret"),
			SeedEmail:    getString("STUB_SEED_EMAIL", ""),
			SeedPassword: getString("STUB_SEED_PASSWORD", ""),
			SeedName:     getString("STUB_SEED_NAME", "Demo User"),
		},
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

func defaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data/credentials.db"
	}
	return filepath.Join(home, ".taskgo", "credentials.db")
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
