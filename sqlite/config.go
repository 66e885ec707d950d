package sqlite

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/GintGld/sqlguard/internal/config"
	"github.com/GintGld/sqlguard/internal/lib/logger"
	"github.com/GintGld/sqlguard/internal/lib/logger/sl"
)

// FromConfig opens the database described by the YAML file at configPath,
// or at $CONFIG_PATH when configPath is empty. Diagnostics go to a slog
// logger chosen by the config's env, tagged with a random connection id.
func FromConfig(configPath string) (*Conn, error) {
	const op = "sqlite.FromConfig"

	if configPath == "" {
		configPath = config.Path()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c, err := openConfigured(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

// MustFromConfig is FromConfig for program start-up. It panics when the
// config cannot be loaded or the database cannot be opened.
func MustFromConfig(configPath string) *Conn {
	if configPath == "" {
		configPath = config.Path()
	}

	c, err := openConfigured(config.MustLoadPath(configPath))
	if err != nil {
		panic("cannot open database: " + err.Error())
	}

	return c
}

func openConfigured(cfg *config.Config) (*Conn, error) {
	log := logger.New(cfg.Env).With(slog.String("conn", uuid.NewString()))

	c := New(Options{
		BusyTimeout: cfg.BusyTimeout,
		Verbose:     cfg.Verbose,
		Logger:      log,
	})

	if err := c.Open(cfg.Path, openFlags(cfg.Mode)); err != nil {
		log.Error("failed to open database", slog.String("path", cfg.Path), sl.Err(err))
		return nil, err
	}
	if !c.IsOpened() {
		// the error handler swallowed the failure
		return nil, ErrNotOpen
	}

	log.Debug("database opened", slog.String("path", cfg.Path), slog.String("mode", cfg.Mode))

	return c, nil
}

func openFlags(mode string) OpenFlag {
	switch mode {
	case config.ModeReadOnly:
		return OpenReadOnly
	case config.ModeReadWrite:
		return OpenReadWrite
	}
	return OpenReadWrite | OpenCreate
}
