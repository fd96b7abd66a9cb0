package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Config struct {
	Port string

	// Document store
	DataDir string
	PerPage int

	// Fields searched when a request does not name any.
	SearchFields []string

	// HTTP
	CORSOrigins []string
	StatsWindow time.Duration

	LogLevel string

	// Optional YAML overlay
	ConfigFile string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		DataDir: envOr("DATA_DIR", "./data"),
		PerPage: envInt("PER_PAGE", 9),

		SearchFields: envList("SEARCH_FIELDS", []string{"title"}),

		CORSOrigins: envList("CORS_ORIGINS", []string{"*"}),
		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		LogLevel: envOr("LOG_LEVEL", "info"),

		ConfigFile: os.Getenv("CONFIG_FILE"),
	}

	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

var portPattern = regexp.MustCompile(`^[0-9]{1,5}$`)

func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Match(portPattern)),
		validation.Field(&c.DataDir, validation.Required),
		validation.Field(&c.PerPage, validation.Required, validation.Min(1)),
		validation.Field(&c.SearchFields, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList reads a comma-separated list, dropping empty entries.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if list := SplitList(v); len(list) > 0 {
		return list
	}
	return fallback
}

// SplitList splits a comma-separated value and trims each entry.
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
