package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dori/tock/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var t0 = time.Date(2021, 2, 21, 5, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "data", FileName), zap.NewNop())
	t.Cleanup(func() { s.Close() })
	return s
}

func titles(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestStore_MissingFileReadsEmpty(t *testing.T) {
	s := newTestStore(t)

	tasks, err := s.ReadAll(context.Background(), model.KindTask)

	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_WriteAndReadAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task := model.NewTask("Write report", "", model.SizeM, []string{"urgent", "draft"}, t0)
	require.NoError(t, task.Start(t0))
	require.NoError(t, s.Write(ctx, model.KindTask, task))

	tasks, err := s.ReadAll(ctx, model.KindTask)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)
	assert.Equal(t, model.SizeM, tasks[0].Size)
	assert.Equal(t, []string{"urgent", "draft"}, tasks[0].Tags)
	assert.True(t, tasks[0].IsInProgress())
}

func TestStore_FileFormat(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Write(context.Background(), model.KindTask, model.NewTask("a", "", model.SizeNone, nil, t0)))

	content, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(content), `"version": 1`)
	assert.Contains(t, string(content), `"task": [`)
}

func TestStore_WriteDuplicateFails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	task := model.NewTask("a", "", model.SizeNone, nil, t0)

	require.NoError(t, s.Write(ctx, model.KindTask, task))
	assert.Error(t, s.Write(ctx, model.KindTask, task))
}

func TestStore_UpdateKeepsPosition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := model.NewTask("a", "", model.SizeNone, nil, t0)
	b := model.NewTask("b", "", model.SizeNone, nil, t0)
	c := model.NewTask("c", "", model.SizeNone, nil, t0)
	for _, task := range []*model.Task{a, b, c} {
		require.NoError(t, s.Write(ctx, model.KindTask, task))
	}

	b.SetTitle("b2")
	require.NoError(t, s.Update(ctx, model.KindTask, b))
	d := model.NewTask("d", "", model.SizeNone, nil, t0)
	require.NoError(t, s.Update(ctx, model.KindTask, d))

	tasks, err := s.ReadAll(ctx, model.KindTask)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b2", "c", "d"}, titles(tasks))
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := model.NewTask("a", "", model.SizeNone, nil, t0)
	b := model.NewTask("b", "", model.SizeNone, nil, t0)
	require.NoError(t, s.Write(ctx, model.KindTask, a))
	require.NoError(t, s.Write(ctx, model.KindTask, b))

	require.NoError(t, s.Delete(ctx, model.KindTask, a.ID))
	assert.ErrorIs(t, s.Delete(ctx, model.KindTask, a.ID), model.ErrTaskNotFound)

	tasks, err := s.ReadAll(ctx, model.KindTask)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, titles(tasks))
}

func TestStore_DeleteAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, model.KindTask, model.NewTask("a", "", model.SizeNone, nil, t0)))
	require.NoError(t, s.Write(ctx, "other", model.NewTask("b", "", model.SizeNone, nil, t0)))

	require.NoError(t, s.DeleteAll(ctx, model.KindTask))

	tasks, err := s.ReadAll(ctx, model.KindTask)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	others, err := s.ReadAll(ctx, "other")
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestStore_CorruptFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o750))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o600))

	_, err := s.ReadAll(context.Background(), model.KindTask)

	assert.ErrorContains(t, err, "parse store file")
}

func TestStore_NewerVersionRejected(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o750))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"version":2,"records":{}}`), 0o600))

	_, err := s.ReadAll(context.Background(), model.KindTask)

	assert.ErrorContains(t, err, "newer than supported")
}

func TestStore_WriteWaitsForLock(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o750))
	other := New(s.Path(), zap.NewNop())
	defer other.Close()

	locked, err := other.lock.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer other.lock.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err = s.Write(ctx, model.KindTask, model.NewTask("a", "", model.SizeNone, nil, t0))
	assert.Error(t, err)
}
