package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime configuration of the planner service. Values
// come from an optional YAML file, overridden by PLANNER_* environment
// variables.
type Config struct {
	HTTPPort        int
	SQLiteDSN       string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// fileConfig mirrors the YAML layout. Pointers distinguish absent keys from
// zero values, and the shutdown timeout arrives as a duration string.
type fileConfig struct {
	HTTPPort        *int    `yaml:"http_port"`
	SQLiteDSN       *string `yaml:"sqlite_dsn"`
	LogLevel        *string `yaml:"log_level"`
	ShutdownTimeout *string `yaml:"shutdown_timeout"`
}

// Load reads the YAML file named by PLANNER_CONFIG (or planner.yaml in the
// working directory when unset), then applies environment overrides. A
// missing file is not an error unless it was named explicitly.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:        8080,
		SQLiteDSN:       "file:planner.db?_pragma=foreign_keys(1)",
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,
	}

	path := strings.TrimSpace(os.Getenv("PLANNER_CONFIG"))
	explicit := path != ""
	if !explicit {
		path = "planner.yaml"
	}

	invalid := make([]string, 0, 2)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("fichier de configuration %s invalide: %w", path, err)
		}
		if file.HTTPPort != nil {
			cfg.HTTPPort = *file.HTTPPort
		}
		if file.SQLiteDSN != nil {
			cfg.SQLiteDSN = *file.SQLiteDSN
		}
		if file.LogLevel != nil {
			cfg.LogLevel = *file.LogLevel
		}
		if file.ShutdownTimeout != nil {
			timeout, err := time.ParseDuration(strings.TrimSpace(*file.ShutdownTimeout))
			if err != nil || timeout <= 0 {
				invalid = append(invalid, "shutdown_timeout")
			} else {
				cfg.ShutdownTimeout = timeout
			}
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// No file next to the binary, defaults and environment apply.
	default:
		return Config{}, fmt.Errorf("lecture du fichier de configuration %s: %w", path, err)
	}

	if portValue := strings.TrimSpace(os.Getenv("PLANNER_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "PLANNER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("PLANNER_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if level := strings.TrimSpace(os.Getenv("PLANNER_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("PLANNER_SHUTDOWN_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "PLANNER_SHUTDOWN_TIMEOUT")
		} else {
			cfg.ShutdownTimeout = timeout
		}
	}

	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		invalid = append(invalid, "http_port")
	}
	if strings.TrimSpace(cfg.SQLiteDSN) == "" {
		invalid = append(invalid, "sqlite_dsn")
	}
	if _, ok := parseLevel(cfg.LogLevel); !ok {
		invalid = append(invalid, "log_level")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("valeurs de configuration invalides: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// SlogLevel maps the configured level name to its slog value. Load has
// already rejected unknown names.
func (c Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
