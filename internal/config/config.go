package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds seedctl configuration. Values come from an optional TOML file
// and are overridden by environment variables.
type Config struct {
	OutputPath  string `toml:"output"`       // SEEDCTL_OUTPUT, default "seed_concepts.sql"
	Sport       string `toml:"sport"`        // SEEDCTL_SPORT, default "Baloncesto"
	SandboxDB   string `toml:"sandbox_db"`   // SEEDCTL_DB, default ":memory:"
	DatabaseURL string `toml:"database_url"` // SEEDCTL_DATABASE_URL, optional
	LogLevel    string `toml:"log_level"`    // SEEDCTL_LOG_LEVEL, default "info"
}

// DefaultPath is the config file read when SEEDCTL_CONFIG is unset.
const DefaultPath = "seedctl.toml"

// ErrInvalidLogLevel is returned when log_level is not a slog level name.
var ErrInvalidLogLevel = errors.New("invalid log level")

func defaults() Config {
	return Config{
		OutputPath: "seed_concepts.sql",
		Sport:      "Baloncesto",
		SandboxDB:  ":memory:",
		LogLevel:   "info",
	}
}

// Load reads the file named by SEEDCTL_CONFIG (or DefaultPath), then applies
// environment overrides. A missing default file is not an error; a missing
// explicitly named file is.
func Load() (Config, error) {
	cfg := defaults()

	path, explicit := os.LookupEnv("SEEDCTL_CONFIG")
	if !explicit || path == "" {
		path, explicit = DefaultPath, false
	}
	if err := loadFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	cfg.OutputPath = envOr("SEEDCTL_OUTPUT", cfg.OutputPath)
	cfg.Sport = envOr("SEEDCTL_SPORT", cfg.Sport)
	cfg.SandboxDB = envOr("SEEDCTL_DB", cfg.SandboxDB)
	cfg.DatabaseURL = envOr("SEEDCTL_DATABASE_URL", cfg.DatabaseURL)
	cfg.LogLevel = envOr("SEEDCTL_LOG_LEVEL", cfg.LogLevel)

	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("parse config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Level converts LogLevel into a slog level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return level, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
