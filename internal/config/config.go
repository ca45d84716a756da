package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Transport     TransportConfig     `yaml:"transport"`
	Auth          AuthConfig          `yaml:"auth"`
	DB            DBConfig            `yaml:"db"`
	Log           LogConfig           `yaml:"log"`
	Storage       StorageConfig       `yaml:"storage"`
	Realtime      RealtimeConfig      `yaml:"realtime"`
	Transcription TranscriptionConfig `yaml:"transcription"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TransportConfig selects how MCP clients connect: "http" or "stdio".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// StorageConfig selects the object store. Driver is "memory" or "minio".
type StorageConfig struct {
	Driver        string        `yaml:"driver"`
	Endpoint      string        `yaml:"endpoint"`
	AccessKey     string        `yaml:"access_key"`
	SecretKey     string        `yaml:"secret_key"`
	Bucket        string        `yaml:"bucket"`
	UseSSL        bool          `yaml:"use_ssl"`
	PublicBaseURL string        `yaml:"public_base_url"`
	URLTTL        time.Duration `yaml:"url_ttl"`
}

// RealtimeConfig selects the event broker. Driver is "memory" or "redis".
type RealtimeConfig struct {
	Driver   string `yaml:"driver"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// TranscriptionConfig points at the voice brief transcription endpoint.
// An empty endpoint disables transcription.
type TranscriptionConfig struct {
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		DB: DBConfig{
			Path: "cutroom.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			Driver: "memory",
			Bucket: "project-files",
			URLTTL: time.Hour,
		},
		Realtime: RealtimeConfig{
			Driver: "memory",
			Addr:   "localhost:6379",
		},
		Transcription: TranscriptionConfig{
			Timeout: 2 * time.Minute,
		},
	}
}

// Load reads configuration from an optional .env file, an optional YAML file
// and environment variables, later sources winning.
func Load() (Config, error) {
	envFile := os.Getenv("CUTROOM_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("CUTROOM_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the driver and mode selections.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	switch c.Storage.Driver {
	case "memory":
	case "minio":
		if c.Storage.Endpoint == "" || c.Storage.Bucket == "" {
			return fmt.Errorf("minio storage requires endpoint and bucket")
		}
	default:
		return fmt.Errorf("invalid storage driver %q", c.Storage.Driver)
	}
	switch c.Realtime.Driver {
	case "memory":
	case "redis":
		if c.Realtime.Addr == "" {
			return fmt.Errorf("redis realtime requires addr")
		}
	default:
		return fmt.Errorf("invalid realtime driver %q", c.Realtime.Driver)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str("CUTROOM_SERVER_HOST", &cfg.Server.Host)
	str("CUTROOM_TRANSPORT_MODE", &cfg.Transport.Mode)
	str("CUTROOM_DB_PATH", &cfg.DB.Path)
	str("CUTROOM_LOG_LEVEL", &cfg.Log.Level)
	str("CUTROOM_LOG_PATH", &cfg.Log.Path)
	str("CUTROOM_STORAGE_DRIVER", &cfg.Storage.Driver)
	str("CUTROOM_STORAGE_ENDPOINT", &cfg.Storage.Endpoint)
	str("CUTROOM_STORAGE_ACCESS_KEY", &cfg.Storage.AccessKey)
	str("CUTROOM_STORAGE_SECRET_KEY", &cfg.Storage.SecretKey)
	str("CUTROOM_STORAGE_BUCKET", &cfg.Storage.Bucket)
	str("CUTROOM_STORAGE_PUBLIC_BASE_URL", &cfg.Storage.PublicBaseURL)
	str("CUTROOM_REALTIME_DRIVER", &cfg.Realtime.Driver)
	str("CUTROOM_REDIS_ADDR", &cfg.Realtime.Addr)
	str("CUTROOM_REDIS_PASSWORD", &cfg.Realtime.Password)
	str("CUTROOM_TRANSCRIPTION_ENDPOINT", &cfg.Transcription.Endpoint)
	str("CUTROOM_TRANSCRIPTION_API_KEY", &cfg.Transcription.APIKey)

	if v := os.Getenv("CUTROOM_SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CUTROOM_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("CUTROOM_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CUTROOM_REDIS_DB: %w", err)
		}
		cfg.Realtime.DB = db
	}
	if v := os.Getenv("CUTROOM_AUTH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CUTROOM_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}
	if v := os.Getenv("CUTROOM_STORAGE_USE_SSL"); v != "" {
		ssl, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CUTROOM_STORAGE_USE_SSL: %w", err)
		}
		cfg.Storage.UseSSL = ssl
	}
	if v := os.Getenv("CUTROOM_STORAGE_URL_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CUTROOM_STORAGE_URL_TTL: %w", err)
		}
		cfg.Storage.URLTTL = ttl
	}
	if v := os.Getenv("CUTROOM_TRANSCRIPTION_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CUTROOM_TRANSCRIPTION_TIMEOUT: %w", err)
		}
		cfg.Transcription.Timeout = timeout
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
