package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config keeps runtime settings for the API server, the notifier and the CLI.
type Config struct {
	DatabaseURL    string        `yaml:"database_url"`
	HTTPAddr       string        `yaml:"http_addr"`
	SessionSecret  string        `yaml:"session_secret"`
	CookieSecure   bool          `yaml:"cookie_secure"`
	CookieSameSite string        `yaml:"cookie_same_site"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	RedisURL       string        `yaml:"redis_url"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	Timezone       string        `yaml:"timezone"`
	TelegramToken  string        `yaml:"telegram_token"`
	ReportTime     string        `yaml:"report_time"`
	ReportInterval time.Duration `yaml:"report_interval"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		DatabaseURL:    "super_tasks.db",
		HTTPAddr:       ":8080",
		CookieSameSite: "lax",
		CacheTTL:       10 * time.Minute,
		Timezone:       "Local",
		ReportTime:     "08:00",
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load reads the optional YAML file named by SUPERTASKS_CONFIG, then applies
// environment variables on top of it. Variables from a dotenv file
// (SUPERTASKS_ENV_FILE, default .env) fill in whatever the process
// environment leaves unset.
func Load() (Config, error) {
	cfg := Default()

	if err := loadDotEnv(); err != nil {
		return cfg, err
	}

	if path := strings.TrimSpace(os.Getenv("SUPERTASKS_CONFIG")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if _, err := cfg.Location(); err != nil {
		return cfg, err
	}
	if cfg.CacheTTL < 0 {
		return cfg, fmt.Errorf("CACHE_TTL must not be negative")
	}
	return cfg, nil
}

// Location resolves Timezone; "Local" and empty mean the process zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func loadDotEnv() error {
	path := strings.TrimSpace(os.Getenv("SUPERTASKS_ENV_FILE"))
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read env file %s: %w", path, err)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.SessionSecret, "SESSION_SECRET")
	setString(&cfg.CookieSameSite, "COOKIE_SAMESITE")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.Timezone, "TIMEZONE")
	setString(&cfg.TelegramToken, "TELEGRAM_TOKEN")
	setString(&cfg.ReportTime, "REPORT_TIME")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")

	if v, ok := lookup("COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid COOKIE_SECURE %q: %w", v, err)
		}
		cfg.CookieSecure = b
	}
	if v, ok := lookup("DEBUG"); ok {
		dbg, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEBUG %q: %w", v, err)
		}
		if dbg {
			cfg.LogLevel = "debug"
		}
	}
	if v, ok := lookup("CACHE_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CACHE_TTL %q: %w", v, err)
		}
		cfg.CacheTTL = d
	}
	if v, ok := lookup("REPORT_INTERVAL_HOURS"); ok {
		d, err := parseInterval(v)
		if err != nil {
			return err
		}
		cfg.ReportInterval = d
	}
	if v, ok := lookup("CORS_ORIGINS"); ok {
		cfg.CORSOrigins = splitList(v)
	}
	return nil
}

func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseInterval reads a positive number of hours; empty means disabled.
func parseInterval(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0, fmt.Errorf("invalid REPORT_INTERVAL_HOURS %q: want a positive number of hours", raw)
	}
	return hours, nil
}
