// Package cli wires configuration, logging and storage for the composer
// commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bnema/composer/internal/application/port"
	"github.com/bnema/composer/internal/cli/styles"
	"github.com/bnema/composer/internal/domain/build"
	"github.com/bnema/composer/internal/infrastructure/config"
	"github.com/bnema/composer/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/composer/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	// ConfigExisted reports whether the config file was present before
	// loading created a default one.
	ConfigExisted bool
	// LoadErr is the config error, if any. Config then holds the defaults.
	LoadErr error

	journalDB *sqlite.LazyDB

	// Context with logger
	ctx       context.Context
	logCloser io.Closer
}

// NewApp loads configuration from configDir, or the XDG config directory
// when configDir is empty, and sets up logging.
func NewApp(configDir string) (*App, error) {
	var (
		mgr *config.Manager
		err error
	)
	if configDir != "" {
		mgr, err = config.NewManagerAt(configDir)
	} else {
		mgr, err = config.NewManager()
	}
	if err != nil {
		return nil, err
	}

	_, statErr := os.Stat(mgr.GetConfigFile())
	existed := statErr == nil

	loadErr := mgr.Load()
	cfg := mgr.Get()

	logger, closer, err := logging.NewWithFile(cfg.LoggingConfig())
	if err != nil {
		logger = logging.New(cfg.LoggingConfig())
		logger.Warn().Err(err).Msg("file logging disabled")
	}
	ctx := logging.WithContext(context.Background(), logger)

	if loadErr != nil {
		logger.Warn().Err(loadErr).Msg("using default configuration")
	}
	logger.Debug().Str("config", mgr.GetConfigFile()).Msg("configuration loaded")

	return &App{
		Config:        cfg,
		Manager:       mgr,
		Theme:         styles.NewTheme(),
		ConfigExisted: existed,
		LoadErr:       loadErr,
		journalDB:     sqlite.NewLazyDB(cfg.Journal.Path),
		ctx:           ctx,
		logCloser:     closer,
	}, nil
}

// Journal returns the host journal. The database is opened on first use.
func (a *App) Journal() port.Journal {
	return sqlite.NewJournalRepository(a.journalDB)
}

// JournalPath returns the journal database path.
func (a *App) JournalPath() string {
	return a.journalDB.Path()
}

// Close releases all resources.
func (a *App) Close() error {
	var errs []error
	if a.journalDB != nil {
		if err := a.journalDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close journal: %w", err))
		}
	}
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log file: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}
