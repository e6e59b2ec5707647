// Package config loads service settings from an optional YAML file, an
// optional .env file and the process environment (highest precedence).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

type Config struct {
	Port          string        `yaml:"port"`
	DatabaseURL   string        `yaml:"databaseUrl"`
	RedisURL      string        `yaml:"redisUrl"`
	StoreKey      string        `yaml:"storeKey"`
	StoreTimeout  time.Duration `yaml:"storeTimeout"`
	RateRPS       float64       `yaml:"rateRps"`
	RateBurst     int           `yaml:"rateBurst"`
	FlushSchedule string        `yaml:"flushSchedule"`
	SeedDemo      bool          `yaml:"seedDemo"`
	BoardDays     int           `yaml:"boardDays"`

	WebhookURLs        []string `yaml:"webhookUrls"`
	WebhookSecret      string   `yaml:"webhookSecret"`
	WebhookEvents      []string `yaml:"webhookEvents"`
	WebhookMaxAttempts int      `yaml:"webhookMaxAttempts"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:          "8080",
		StoreKey:      "tripboard:trips",
		StoreTimeout:  3 * time.Second,
		RateBurst:     20,
		FlushSchedule: "@every 30s",
		SeedDemo:      true,
		BoardDays:     14,

		WebhookMaxAttempts: 10,
	}
}

// Load reads .env (if present), then CONFIG_FILE (if set), then applies
// environment overrides.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: .env ignored: %v", err)
	}
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.readFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) readFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", c.DatabaseURL))
	c.RedisURL = strings.TrimSpace(getEnv("REDIS_URL", c.RedisURL))
	c.StoreKey = getEnv("STORE_KEY", c.StoreKey)
	c.StoreTimeout = getEnvDuration("STORE_TIMEOUT", c.StoreTimeout)
	c.RateRPS = getEnvFloat("RATE_RPS", c.RateRPS)
	c.RateBurst = getEnvInt("RATE_BURST", c.RateBurst)
	c.FlushSchedule = getEnv("FLUSH_SCHEDULE", c.FlushSchedule)
	c.SeedDemo = getEnvBool("SEED_DEMO", c.SeedDemo)
	c.BoardDays = getEnvInt("BOARD_DAYS", c.BoardDays)
	c.WebhookURLs = getEnvList("WEBHOOK_URLS", c.WebhookURLs)
	c.WebhookSecret = getEnv("WEBHOOK_SECRET", c.WebhookSecret)
	c.WebhookEvents = getEnvList("WEBHOOK_EVENTS", c.WebhookEvents)
	c.WebhookMaxAttempts = getEnvInt("WEBHOOK_MAX_ATTEMPTS", c.WebhookMaxAttempts)
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("storeTimeout must be > 0, got %s", c.StoreTimeout)
	}
	if c.RateRPS < 0 || c.RateBurst < 0 {
		return errors.New("rate limits must be >= 0")
	}
	if c.BoardDays < 1 || c.BoardDays > 366 {
		return fmt.Errorf("boardDays must be in [1,366], got %d", c.BoardDays)
	}
	return nil
}

// Backend names the store the settings select: postgres, redis or memory.
func (c Config) Backend() string {
	switch {
	case c.DatabaseURL != "":
		return "postgres"
	case c.RedisURL != "":
		return "redis"
	}
	return "memory"
}

// Redacted is the view exposed on /debug.
func (c Config) Redacted() map[string]any {
	return map[string]any{
		"PORT":             c.Port,
		"STORE_BACKEND":    c.Backend(),
		"STORE_KEY":        c.StoreKey,
		"STORE_TIMEOUT":    c.StoreTimeout.String(),
		"RATE_RPS":         c.RateRPS,
		"RATE_BURST":       c.RateBurst,
		"FLUSH_SCHEDULE":   c.FlushSchedule,
		"SEED_DEMO":        c.SeedDemo,
		"BOARD_DAYS":       c.BoardDays,
		"HAS_DATABASE_URL": c.DatabaseURL != "",
		"HAS_REDIS_URL":    c.RedisURL != "",

		"WEBHOOK_TARGETS":      len(c.WebhookURLs),
		"WEBHOOK_EVENTS":       c.WebhookEvents,
		"WEBHOOK_MAX_ATTEMPTS": c.WebhookMaxAttempts,
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// getEnvList splits a comma-separated value, dropping blanks.
func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
