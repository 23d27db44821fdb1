// Package config loads layered configuration: a config.yaml base overridden
// by environment variables (with a .env file loaded first if present),
// following the message-service config pattern.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// App holds server-level settings.
type App struct {
	Env             string `yaml:"env"`
	Port            int    `yaml:"port"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
}

// PortString renders Port as a Fiber listen address suffix.
func (a *App) PortString() string { return fmt.Sprintf(":%d", a.Port) }

// ShutdownTimeoutDuration parses ShutdownTimeout, defaulting to 10s.
func (a *App) ShutdownTimeoutDuration() time.Duration {
	if a.ShutdownTimeout == "" {
		return 10 * time.Second
	}
	d, err := time.ParseDuration(a.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// Mongo holds MongoDB connection settings.
type Mongo struct {
	URI            string `yaml:"uri"`
	DB             string `yaml:"db"`
	MessagesColl   string `yaml:"messages_collection"`
	CommunitiesCol string `yaml:"communities_collection"`
	ChannelsColl   string `yaml:"channels_collection"`
	UsersColl      string `yaml:"users_collection"`
}

// Redis holds Redis connection settings, used both for rate limiting and
// as the distributed cache mirror.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Kafka holds broker settings for the status-change event publisher.
type Kafka struct {
	Brokers          []string `yaml:"brokers"`
	TranslationTopic string   `yaml:"translation_topic"`
}

// JWT holds token signing/verification settings.
type JWT struct {
	Secret     string `yaml:"secret"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// TTL renders TTLMinutes as a Duration, defaulting to 60 minutes.
func (j *JWT) TTL() time.Duration {
	if j.TTLMinutes <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(j.TTLMinutes) * time.Minute
}

// Cache tunes the Translation Cache.
type Cache struct {
	TTLMinutes      int `yaml:"ttl_minutes"`
	MaxEntries      int `yaml:"max_entries"`
	CleanupMinutes  int `yaml:"cleanup_minutes"`
}

// Translator configures the Translator Adapter.
type Translator struct {
	Mode          string `yaml:"mode"` // "online" | "offline"
	Endpoint      string `yaml:"endpoint"`
	APIKey        string `yaml:"api_key"`
	TimeoutSecs   int    `yaml:"timeout_seconds"`
	MaxRetries    int    `yaml:"max_retries"`
	AllowDegraded bool   `yaml:"allow_degraded"`
}

// Pipeline tunes the Pipeline Orchestrator.
type Pipeline struct {
	FanOutConcurrency int      `yaml:"fanout_concurrency"`
	SupportedLangs    []string `yaml:"supported_languages"`
}

// Config is the process-wide configuration root.
type Config struct {
	App        App        `yaml:"app"`
	Mongo      Mongo      `yaml:"mongo"`
	Redis      Redis      `yaml:"redis"`
	Kafka      Kafka      `yaml:"kafka"`
	JWT        JWT        `yaml:"jwt"`
	Cache      Cache      `yaml:"cache"`
	Translator Translator `yaml:"translator"`
	Pipeline   Pipeline   `yaml:"pipeline"`
}

// Load reads config.yaml if present, loads a .env file if present, then
// applies environment overrides, finally validating required fields.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat("config.yaml"); err == nil {
		b, err := os.ReadFile("config.yaml")
		if err != nil {
			return nil, fmt.Errorf("config: read config.yaml: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse config.yaml: %w", err)
		}
	}

	_ = godotenv.Load()
	overrideFromEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.App.Env = v
	}
	if v := os.Getenv("SERVICE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = n
		}
	}

	if v := os.Getenv("MONGODB_URI"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("MONGO_DB"); v != "" {
		cfg.Mongo.DB = v
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}

	if v := os.Getenv("TRANSLATOR_API_KEY"); v != "" {
		cfg.Translator.APIKey = v
	}
	if v := os.Getenv("TRANSLATOR_ENDPOINT"); v != "" {
		cfg.Translator.Endpoint = v
	}
	if v := os.Getenv("TRANSLATOR_MODE"); v != "" {
		cfg.Translator.Mode = v
	}
}

func validate(cfg *Config) error {
	if cfg.App.Port == 0 {
		return errors.New("config: app.port missing or invalid")
	}
	if cfg.JWT.Secret == "" {
		return errors.New("config: jwt.secret missing")
	}
	if cfg.Mongo.URI == "" {
		return errors.New("config: mongo.uri missing")
	}
	return nil
}
