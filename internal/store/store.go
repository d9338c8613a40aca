// Package store defines the persistence contract the tracker depends on.
// Records are grouped by an entity key (see model.KindTask) and read back
// in the order they were first written.
package store

import (
	"context"

	"github.com/dori/tock/internal/model"
)

// Backend names accepted in configuration
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Store is a keyed object store for tasks
type Store interface {
	// ReadAll returns every record of kind in insertion order, or an empty slice
	ReadAll(ctx context.Context, kind string) ([]model.Task, error)
	// Write stores a new record
	Write(ctx context.Context, kind string, task *model.Task) error
	// Update replaces the record with the same id, or inserts it.
	// An existing record keeps its position.
	Update(ctx context.Context, kind string, task *model.Task) error
	// Delete removes one record. Unknown ids return model.ErrTaskNotFound.
	Delete(ctx context.Context, kind, id string) error
	// DeleteAll removes every record of kind
	DeleteAll(ctx context.Context, kind string) error
	Close() error
}

// Backends lists the supported backend names
func Backends() []string {
	return []string{BackendSQLite, BackendJSON}
}

// IsBackend reports whether name is a supported backend
func IsBackend(name string) bool {
	for _, b := range Backends() {
		if b == name {
			return true
		}
	}
	return false
}
