package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `yaml:"env" env:"ENV" env-default:"local"`
	Database `yaml:"database"`
}

type Database struct {
	Path        string        `yaml:"path" env:"DATABASE_PATH" env-required:"true"`
	Mode        string        `yaml:"mode" env:"DATABASE_MODE" env-default:"rwc"`
	BusyTimeout time.Duration `yaml:"busy_timeout" env:"DATABASE_BUSY_TIMEOUT" env-default:"60s"`
	Verbose     bool          `yaml:"verbose" env:"DATABASE_VERBOSE"`
}

// Open modes, named like the mode parameter of SQLite URI filenames.
const (
	ModeReadOnly        = "ro"
	ModeReadWrite       = "rw"
	ModeReadWriteCreate = "rwc"
)

var ErrUnknownMode = errors.New("unknown database mode")

// Load reads the YAML file at configPath. Environment variables override
// file values; a .env file next to the config is loaded into the
// environment first if there is one.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := godotenv.Load(filepath.Join(filepath.Dir(configPath), ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	switch cfg.Mode {
	case ModeReadOnly, ModeReadWrite, ModeReadWriteCreate:
	default:
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownMode, cfg.Mode)
	}

	return &cfg, nil
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		panic("cannot read config: " + err.Error())
	}

	return cfg
}

// Path returns the config path from the CONFIG_PATH environment variable.
func Path() string {
	return os.Getenv("CONFIG_PATH")
}
