// Package testutil provides test doubles shared across packages.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dori/tock/internal/model"
	"github.com/dori/tock/internal/store"
)

// FixedClock is a test double for tracker.Clock.
type FixedClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (c *FixedClock) Now() time.Time {
	return c.NowTime
}

// Advance moves the clock forward.
func (c *FixedClock) Advance(d time.Duration) {
	c.NowTime = c.NowTime.Add(d)
}

// MemStore is an in-memory store.Store. The *Err fields make the
// matching operation fail.
type MemStore struct {
	mu      sync.Mutex
	records map[string][]model.Task

	ReadErr      error
	WriteErr     error
	UpdateErr    error
	DeleteErr    error
	DeleteAllErr error
	Closed       bool
}

// NewMemStore returns a MemStore seeded with tasks under model.KindTask.
func NewMemStore(tasks ...*model.Task) *MemStore {
	s := &MemStore{records: make(map[string][]model.Task)}
	for _, t := range tasks {
		s.records[model.KindTask] = append(s.records[model.KindTask], *t.Clone())
	}
	return s
}

// ReadAll returns copies of the stored records.
func (s *MemStore) ReadAll(_ context.Context, kind string) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	out := make([]model.Task, 0, len(s.records[kind]))
	for i := range s.records[kind] {
		out = append(out, *s.records[kind][i].Clone())
	}
	return out, nil
}

// Write appends a record.
func (s *MemStore) Write(_ context.Context, kind string, task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	if s.indexOf(kind, task.ID) >= 0 {
		return fmt.Errorf("record %s %s already exists", kind, task.ID)
	}
	s.records[kind] = append(s.records[kind], *task.Clone())
	return nil
}

// Update replaces a record in place or appends it.
func (s *MemStore) Update(_ context.Context, kind string, task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	if i := s.indexOf(kind, task.ID); i >= 0 {
		s.records[kind][i] = *task.Clone()
		return nil
	}
	s.records[kind] = append(s.records[kind], *task.Clone())
	return nil
}

// Delete removes one record.
func (s *MemStore) Delete(_ context.Context, kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	i := s.indexOf(kind, id)
	if i < 0 {
		return model.ErrTaskNotFound
	}
	s.records[kind] = append(s.records[kind][:i], s.records[kind][i+1:]...)
	return nil
}

// DeleteAll removes every record of kind.
func (s *MemStore) DeleteAll(_ context.Context, kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteAllErr != nil {
		return s.DeleteAllErr
	}
	delete(s.records, kind)
	return nil
}

// Close marks the store closed.
func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// Len returns the number of records of kind.
func (s *MemStore) Len(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records[kind])
}

func (s *MemStore) indexOf(kind, id string) int {
	for i := range s.records[kind] {
		if s.records[kind][i].ID == id {
			return i
		}
	}
	return -1
}

var _ store.Store = (*MemStore)(nil)
