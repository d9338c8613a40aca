package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dori/tock/internal/model"
	"github.com/dori/tock/internal/store"
	"go.uber.org/zap"
)

// recordRow maps a row of the records table
type recordRow struct {
	Kind      string    `db:"kind"`
	ID        string    `db:"id"`
	Payload   string    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ReadAll returns every record of kind in insertion order
func (db *DB) ReadAll(ctx context.Context, kind string) ([]model.Task, error) {
	var rows []recordRow
	err := db.SelectContext(ctx, &rows, `
		SELECT id, payload
		FROM records
		WHERE kind = ?
		ORDER BY seq
	`, kind)
	if err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		t, err := mapRow(row)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Write inserts a new record. Writing an id that already exists is an error.
func (db *DB) Write(ctx context.Context, kind string, task *model.Task) error {
	row, err := db.newRow(kind, task)
	if err != nil {
		return err
	}

	_, err = db.NamedExecContext(ctx, `
		INSERT INTO records (kind, id, payload, created_at, updated_at)
		VALUES (:kind, :id, :payload, :created_at, :updated_at)
	`, row)
	if err != nil {
		return err
	}

	db.logger.Debug("record written", zap.String("kind", kind), zap.String("id", task.ID))
	return nil
}

// Update replaces a record by id, inserting it if absent. The row keeps its seq,
// so the record keeps its position in ReadAll.
func (db *DB) Update(ctx context.Context, kind string, task *model.Task) error {
	row, err := db.newRow(kind, task)
	if err != nil {
		return err
	}

	_, err = db.NamedExecContext(ctx, `
		INSERT INTO records (kind, id, payload, created_at, updated_at)
		VALUES (:kind, :id, :payload, :created_at, :updated_at)
		ON CONFLICT (kind, id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, row)
	if err != nil {
		return err
	}

	db.logger.Debug("record updated", zap.String("kind", kind), zap.String("id", task.ID))
	return nil
}

// Delete removes one record
func (db *DB) Delete(ctx context.Context, kind, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM records WHERE kind = ? AND id = ?`, kind, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrTaskNotFound
	}
	return nil
}

// DeleteAll removes every record of kind
func (db *DB) DeleteAll(ctx context.Context, kind string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM records WHERE kind = ?`, kind)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil {
		db.logger.Info("records cleared", zap.String("kind", kind), zap.Int64("count", n))
	}
	return nil
}

func (db *DB) newRow(kind string, task *model.Task) (recordRow, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return recordRow{}, fmt.Errorf("encode %s %s: %w", kind, task.ID, err)
	}
	now := db.now().UTC()
	return recordRow{
		Kind:      kind,
		ID:        task.ID,
		Payload:   string(payload),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func mapRow(row recordRow) (model.Task, error) {
	var t model.Task
	if err := json.Unmarshal([]byte(row.Payload), &t); err != nil {
		return model.Task{}, fmt.Errorf("decode record %s: %w", row.ID, err)
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.Spans == nil {
		t.Spans = []model.TimeSpan{}
	}
	if t.Size == "" {
		t.Size = model.SizeNone
	}
	return t, nil
}

var _ store.Store = (*DB)(nil)
