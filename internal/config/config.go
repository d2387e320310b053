// Package config loads taskflow settings from the YAML config file, the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/meluron/taskflow/internal/persist"
	"github.com/meluron/taskflow/internal/stopwatch"
	"github.com/meluron/taskflow/internal/storage"
)

const (
	appName   = "taskflow"
	envPrefix = "TASKFLOW"
)

type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Timer   TimerConfig   `mapstructure:"timer"`
	Log     LogConfig     `mapstructure:"log"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type TimerConfig struct {
	Tick      time.Duration `mapstructure:"tick"`
	SaveEvery int           `mapstructure:"save_every"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", storage.BackendFile)
	v.SetDefault("storage.path", "")
	v.SetDefault("timer.tick", stopwatch.DefaultTickPeriod.String())
	v.SetDefault("timer.save_every", persist.DefaultSaveEvery)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Dir returns the per-user config directory for taskflow.
func Dir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error getting user home directory: %w", err)
		}
		if runtime.GOOS == "windows" {
			configHome = filepath.Join(homeDir, "AppData", "Roaming")
		} else {
			configHome = filepath.Join(homeDir, ".config")
		}
	}
	return filepath.Join(configHome, appName), nil
}

// DefaultPath is where the config file lives unless --config says otherwise.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".yml"), nil
}

// DataPath returns the default store location for a backend.
func DataPath(backend string) (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error getting user home directory: %w", err)
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	name := "store.json"
	if backend == storage.BackendSQLite {
		name = "store.db"
	}
	return filepath.Join(dataHome, appName, name), nil
}

// LoadDotEnv loads variables from .env files into the environment. Variables
// already set win. Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			slog.Debug("no .env file found, using environment variables", "path", f)
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("error loading %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the config file at path, creating it with default values when
// it does not exist. An empty path uses DefaultPath. TASKFLOW_* environment
// variables override the file, e.g. TASKFLOW_STORAGE_BACKEND.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			slog.Info("config file not found; creating one with default values", "path", path)
			if err := v.WriteConfigAs(path); err != nil {
				return nil, fmt.Errorf("error creating config file: %w", err)
			}
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values and replaces non-positive timer settings with
// defaults.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case storage.BackendFile, storage.BackendSQLite, storage.BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Timer.Tick <= 0 {
		c.Timer.Tick = stopwatch.DefaultTickPeriod
	}
	if c.Timer.SaveEvery <= 0 {
		c.Timer.SaveEvery = persist.DefaultSaveEvery
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// StorePath returns the configured path, or the backend's default location
// when none is set.
func (c StorageConfig) StorePath() (string, error) {
	if c.Path != "" || c.Backend == storage.BackendMemory {
		return c.Path, nil
	}
	return DataPath(c.Backend)
}

// SlogLevel parses the configured level.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	return level, nil
}

// NewLogger builds the process logger writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, _ := c.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
