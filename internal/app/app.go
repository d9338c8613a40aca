package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dori/tock/internal/config"
	"github.com/dori/tock/internal/db"
	"github.com/dori/tock/internal/jsonstore"
	"github.com/dori/tock/internal/logging"
	"github.com/dori/tock/internal/notify"
	"github.com/dori/tock/internal/store"
	"github.com/dori/tock/internal/tracker"
	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// LockFileName is the single-instance lock inside the data directory
const LockFileName = "tock.lock"

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    store.Store
	Tracker  *tracker.Tracker
	Notifier *notify.Notifier
	DataDir  string
	lockFile *flock.Flock
	closeLog func()
}

// New creates a new application instance
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logger, closeLog, err := logging.New(filepath.Join(cfg.DataDir, logging.FileName), logging.ParseLevel(cfg.Log.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		DataDir:  cfg.DataDir,
		Notifier: notify.NewNotifier(cfg.Notify.Enabled),
		closeLog: closeLog,
	}

	s, err := OpenStore(cfg.Store.Backend, cfg.DataDir, logger)
	if err != nil {
		logger.Error("failed to open store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
		closeLog()
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	app.Store = s

	app.Tracker = tracker.New(s, tracker.RealClock{}, logger)
	app.Tracker.SetNotifier(app.Notifier)

	logger.Debug("app started",
		zap.String("data_dir", cfg.DataDir),
		zap.String("store", cfg.Store.Backend),
	)
	return app, nil
}

// OpenStore opens the named backend inside dataDir
func OpenStore(backend, dataDir string, logger *zap.Logger) (store.Store, error) {
	switch backend {
	case store.BackendSQLite:
		database, err := db.Open(filepath.Join(dataDir, db.FileName), logger)
		if err != nil {
			return nil, err
		}
		return database, nil
	case store.BackendJSON:
		return jsonstore.New(filepath.Join(dataDir, jsonstore.FileName), logger), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// AcquireLock takes an exclusive file lock to prevent a second interactive instance
func (a *App) AcquireLock() error {
	lockPath := filepath.Join(a.DataDir, LockFileName)
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of tock is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}

	a.releaseLock()

	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
	} else if a.Logger != nil {
		_ = a.Logger.Sync()
	}

	return errors.Join(errs...)
}
