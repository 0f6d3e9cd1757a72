package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/utils"
)

type Config struct {
	Database string         `yaml:"database"`
	User     string         `yaml:"user"`
	Timezone string         `yaml:"timezone"`
	Levels   string         `yaml:"levels"` // path to a level table; empty uses the built-in table
	Tone     string         `yaml:"tone"`
	XP       XPConfig       `yaml:"xp"`
	Backfill BackfillConfig `yaml:"backfill"`
	Log      LogConfig      `yaml:"log"`
	Notify   NotifyConfig   `yaml:"notify"`
}

type XPConfig struct {
	// Floor, when set, is the lowest total a penalty may take a user to.
	Floor *int `yaml:"floor"`
}

type BackfillConfig struct {
	Workers         int     `yaml:"workers"`
	PageSize        int     `yaml:"page_size"`
	WritesPerSecond float64 `yaml:"writes_per_second"` // 0 disables the limiter
	SkipBackup      bool    `yaml:"skip_backup"`
}

type LogConfig struct {
	Debug bool `yaml:"debug"`
}

type NotifyConfig struct {
	Tray bool `yaml:"tray"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Database: constants.DefaultDBPath,
		User:     constants.DefaultUser,
		Timezone: constants.DefaultTimezone,
		Tone:     constants.DefaultTone,
		Backfill: BackfillConfig{
			Workers:  constants.DefaultBackfillWorkers,
			PageSize: constants.DefaultBackfillPageSize,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory if needed.
func Save(path string, cfg Config) error {
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Database == "" {
		cfg.Database = def.Database
	}
	if cfg.User == "" {
		cfg.User = def.User
	}
	if cfg.Timezone == "" {
		cfg.Timezone = def.Timezone
	}
	if cfg.Tone == "" {
		cfg.Tone = def.Tone
	}
	if cfg.Backfill.Workers <= 0 {
		cfg.Backfill.Workers = def.Backfill.Workers
	}
	if cfg.Backfill.PageSize <= 0 {
		cfg.Backfill.PageSize = def.Backfill.PageSize
	}
}

func (c Config) Validate() error {
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if c.Backfill.WritesPerSecond < 0 {
		return fmt.Errorf("backfill.writes_per_second must not be negative")
	}
	return nil
}

// IsPostgres reports whether the database setting is a PostgreSQL URL.
func (c Config) IsPostgres() bool {
	return strings.HasPrefix(c.Database, "postgres://") || strings.HasPrefix(c.Database, "postgresql://")
}

// ConfigDir returns the directory holding the config file, logs and backups.
func ConfigDir(configPath string) string {
	return filepath.Dir(ExpandHome(configPath))
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
