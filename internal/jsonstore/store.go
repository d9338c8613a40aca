// Package jsonstore provides a JSON file-based implementation of store.Store.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dori/tock/internal/model"
	"github.com/dori/tock/internal/store"
	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// FileName is the store file name inside the data directory
const FileName = "tock.json"

const (
	formatVersion = 1
	lockRetry     = 50 * time.Millisecond
)

// storeData represents the JSON file structure.
// Each kind holds its records in insertion order.
type storeData struct {
	Version int                     `json:"version"`
	Records map[string][]model.Task `json:"records"`
}

// Store implements store.Store using a JSON file.
type Store struct {
	path   string
	lock   *flock.Flock
	logger *zap.Logger
}

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first write.
func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger,
	}
}

// Path returns the store file path
func (s *Store) Path() string {
	return s.path
}

// ReadAll returns every record of kind in insertion order
func (s *Store) ReadAll(ctx context.Context, kind string) ([]model.Task, error) {
	tasks := []model.Task{}
	err := s.withLock(ctx, func(data *storeData) error {
		tasks = append(tasks, data.Records[kind]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Write appends a new record. Writing an id that already exists is an error.
func (s *Store) Write(ctx context.Context, kind string, task *model.Task) error {
	return s.withLockWrite(ctx, func(data *storeData) error {
		if indexOf(data.Records[kind], task.ID) >= 0 {
			return fmt.Errorf("record %s %s already exists", kind, task.ID)
		}
		data.Records[kind] = append(data.Records[kind], *task.Clone())
		return nil
	})
}

// Update replaces a record in place, appending it if absent
func (s *Store) Update(ctx context.Context, kind string, task *model.Task) error {
	return s.withLockWrite(ctx, func(data *storeData) error {
		records := data.Records[kind]
		if i := indexOf(records, task.ID); i >= 0 {
			records[i] = *task.Clone()
			return nil
		}
		data.Records[kind] = append(records, *task.Clone())
		return nil
	})
}

// Delete removes one record
func (s *Store) Delete(ctx context.Context, kind, id string) error {
	return s.withLockWrite(ctx, func(data *storeData) error {
		records := data.Records[kind]
		i := indexOf(records, id)
		if i < 0 {
			return model.ErrTaskNotFound
		}
		data.Records[kind] = append(records[:i], records[i+1:]...)
		return nil
	})
}

// DeleteAll removes every record of kind
func (s *Store) DeleteAll(ctx context.Context, kind string) error {
	return s.withLockWrite(ctx, func(data *storeData) error {
		s.logger.Info("records cleared", zap.String("kind", kind), zap.Int("count", len(data.Records[kind])))
		delete(data.Records, kind)
		return nil
	})
}

// Close releases the lock file handle
func (s *Store) Close() error {
	return s.lock.Close()
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(ctx context.Context, fn func(*storeData) error) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	locked, err := s.lock.TryRLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("acquire read lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire read lock: %s", s.lock.Path())
	}
	defer s.lock.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(ctx context.Context, fn func(*storeData) error) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	locked, err := s.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("acquire write lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire write lock: %s", s.lock.Path())
	}
	defer s.lock.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return nil
}

// read loads the file. A missing file reads as an empty store.
func (s *Store) read() (*storeData, error) {
	data := &storeData{Version: formatVersion}

	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			data.Records = make(map[string][]model.Task)
			return data, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	if err := json.Unmarshal(content, data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	if data.Version > formatVersion {
		return nil, fmt.Errorf("store file version %d is newer than supported version %d", data.Version, formatVersion)
	}
	if data.Records == nil {
		data.Records = make(map[string][]model.Task)
	}
	return data, nil
}

func (s *Store) write(data *storeData) error {
	data.Version = formatVersion
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	s.logger.Debug("store file written", zap.String("path", s.path))
	return nil
}

func indexOf(tasks []model.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

var _ store.Store = (*Store)(nil)
