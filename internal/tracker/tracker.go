// Package tracker implements task tracking on top of a store.Store:
// lifecycle commands, the partitioned board, the editor and the summary.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dori/tock/internal/model"
	"github.com/dori/tock/internal/store"
	"go.uber.org/zap"
)

// Notifier is told when a tracking span is closed
type Notifier interface {
	TrackingStopped(title string, elapsed time.Duration) error
}

// Tracker coordinates task commands against the store
type Tracker struct {
	store    store.Store
	clock    Clock
	logger   *zap.Logger
	notifier Notifier
}

// New creates a tracker. A nil clock uses the system clock.
func New(s store.Store, clock Clock, logger *zap.Logger) *Tracker {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{store: s, clock: clock, logger: logger}
}

// SetNotifier installs the notifier used on Stop
func (t *Tracker) SetNotifier(n Notifier) {
	t.notifier = n
}

// Now returns the tracker's current time
func (t *Tracker) Now() time.Time {
	return t.clock.Now()
}

// Tasks returns every task in store order
func (t *Tracker) Tasks(ctx context.Context) ([]model.Task, error) {
	tasks, err := t.store.ReadAll(ctx, model.KindTask)
	if err != nil {
		return nil, t.persistenceErr("read", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// Board reads all tasks and returns them partitioned and filtered by query
func (t *Tracker) Board(ctx context.Context, query string) (Board, error) {
	tasks, err := t.Tasks(ctx)
	if err != nil {
		return Board{}, err
	}
	return BuildBoard(tasks, query), nil
}

// Summary reads all tasks and aggregates tracked time
func (t *Tracker) Summary(ctx context.Context) (Summary, error) {
	tasks, err := t.Tasks(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(tasks), nil
}

// Get returns the task with the exact id
func (t *Tracker) Get(ctx context.Context, id string) (*model.Task, error) {
	tasks, err := t.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return tasks[i].Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", model.ErrTaskNotFound, id)
}

// Resolve finds a task by exact id or by a unique id prefix
func (t *Tracker) Resolve(ctx context.Context, idOrPrefix string) (*model.Task, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, &model.ValidationError{Field: "id", Message: "cannot be empty"}
	}

	tasks, err := t.Tasks(ctx)
	if err != nil {
		return nil, err
	}

	var match *model.Task
	for i := range tasks {
		if tasks[i].ID == idOrPrefix {
			return tasks[i].Clone(), nil
		}
		if strings.HasPrefix(tasks[i].ID, idOrPrefix) {
			if match != nil {
				return nil, fmt.Errorf("%w: %s", model.ErrAmbiguousID, idOrPrefix)
			}
			match = &tasks[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrTaskNotFound, idOrPrefix)
	}
	return match.Clone(), nil
}

// Start opens a time span on the task
func (t *Tracker) Start(ctx context.Context, id string) (*model.Task, error) {
	task, err := t.mutate(ctx, id, func(task *model.Task, now time.Time) error {
		return task.Start(now)
	})
	if err != nil {
		return nil, err
	}
	t.logger.Info("tracking started", zap.String("task_id", task.ID))
	return task, nil
}

// Stop closes the open time span on the task
func (t *Tracker) Stop(ctx context.Context, id string) (*model.Task, error) {
	var span time.Duration
	task, err := t.mutate(ctx, id, func(task *model.Task, now time.Time) error {
		span = task.RunningFor(now)
		return task.Stop(now)
	})
	if err != nil {
		return nil, err
	}

	t.logger.Info("tracking stopped",
		zap.String("task_id", task.ID),
		zap.Duration("span", span),
		zap.Duration("total", task.TotalElapsed()),
	)
	if t.notifier != nil {
		if err := t.notifier.TrackingStopped(task.Title, span); err != nil {
			t.logger.Warn("notification failed", zap.Error(err))
		}
	}
	return task, nil
}

// Toggle stops a running task and starts an idle one
func (t *Tracker) Toggle(ctx context.Context, id string) (*model.Task, error) {
	task, err := t.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.IsInProgress() {
		return t.Stop(ctx, id)
	}
	return t.Start(ctx, id)
}

// Archive flags the task archived
func (t *Tracker) Archive(ctx context.Context, id string) (*model.Task, error) {
	return t.mutate(ctx, id, func(task *model.Task, _ time.Time) error {
		return task.Archive()
	})
}

// Unarchive clears the archived flag
func (t *Tracker) Unarchive(ctx context.Context, id string) (*model.Task, error) {
	return t.mutate(ctx, id, func(task *model.Task, _ time.Time) error {
		return task.Unarchive()
	})
}

// Delete removes one task
func (t *Tracker) Delete(ctx context.Context, id string) error {
	if err := t.store.Delete(ctx, model.KindTask, id); err != nil {
		if errors.Is(err, model.ErrTaskNotFound) {
			return fmt.Errorf("%w: %s", model.ErrTaskNotFound, id)
		}
		return t.persistenceErr("delete", err)
	}
	t.logger.Info("task deleted", zap.String("task_id", id))
	return nil
}

// Clear removes every task
func (t *Tracker) Clear(ctx context.Context) error {
	if err := t.store.DeleteAll(ctx, model.KindTask); err != nil {
		return t.persistenceErr("delete-all", err)
	}
	t.logger.Info("all tasks cleared")
	return nil
}

// Editor returns the create/edit command handler
func (t *Tracker) Editor() *Editor {
	return &Editor{tracker: t}
}

// mutate loads a task, applies fn and writes it back
func (t *Tracker) mutate(ctx context.Context, id string, fn func(*model.Task, time.Time) error) (*model.Task, error) {
	task, err := t.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := t.clock.Now()
	if err := fn(task, now); err != nil {
		return nil, err
	}
	task.UpdatedAt = now

	if err := t.store.Update(ctx, model.KindTask, task); err != nil {
		return nil, t.persistenceErr("update", err)
	}
	return task, nil
}

func (t *Tracker) persistenceErr(op string, err error) error {
	t.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
	return &model.PersistenceError{Op: op, Kind: model.KindTask, Err: err}
}
