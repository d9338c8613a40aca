package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dori/tock/internal/app"
	"github.com/dori/tock/internal/config"
	"github.com/dori/tock/internal/model"
	"github.com/dori/tock/internal/testutil"
	"github.com/dori/tock/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var t0 = time.Date(2021, 2, 21, 5, 0, 0, 0, time.UTC)

// harness runs each command line through a fresh CLI sharing one store
type harness struct {
	t       *testing.T
	store   *testutil.MemStore
	clock   *testutil.FixedClock
	dataDir string
	cfgPath string
	opened  *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, key := range []string{config.EnvDataDir, config.EnvStore, config.EnvLogLevel, config.EnvNotify} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	return &harness{
		t:       t,
		store:   testutil.NewMemStore(),
		clock:   &testutil.FixedClock{NowTime: t0},
		dataDir: filepath.Join(dir, "data"),
		cfgPath: filepath.Join(dir, "none.toml"),
	}
}

func (h *harness) open(cfg *config.Config) (*app.App, error) {
	h.opened = cfg
	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		return nil, err
	}
	return &app.App{
		Config:  cfg,
		Store:   h.store,
		Tracker: tracker.New(h.store, h.clock, zap.NewNop()),
		DataDir: cfg.DataDir,
	}, nil
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	c := New("1.2.3", h.open)
	var out bytes.Buffer
	c.Command().SetOut(&out)
	c.Command().SetErr(&out)
	full := append([]string{"--config", h.cfgPath, "--data-dir", h.dataDir}, args...)
	err := c.Execute(context.Background(), full)
	return out.String(), err
}

func (h *harness) tasks() []model.Task {
	h.t.Helper()
	tasks, err := h.store.ReadAll(context.Background(), model.KindTask)
	require.NoError(h.t, err)
	return tasks
}

func (h *harness) add(title string) model.Task {
	h.t.Helper()
	_, err := h.run("add", title)
	require.NoError(h.t, err)
	tasks := h.tasks()
	return tasks[len(tasks)-1]
}

func TestAdd_WithFlags(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("add", "Write report", "-s", "M", "-t", "urgent draft", "-d", "first draft")

	require.NoError(t, err)
	assert.Contains(t, out, "Created: Write report")
	assert.Contains(t, out, "Size: M")
	assert.Contains(t, out, "Tags: urgent, draft")

	tasks := h.tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, model.SizeM, tasks[0].Size)
	assert.Equal(t, []string{"urgent", "draft"}, tasks[0].Tags)
	assert.Equal(t, "first draft", tasks[0].Description)
	assert.False(t, tasks[0].IsInProgress())
}

func TestAdd_QuickSyntax(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("add", "Review", "PR", "@work", "!s", "-t", "code")

	require.NoError(t, err)
	tasks := h.tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Review PR", tasks[0].Title)
	assert.Equal(t, model.SizeS, tasks[0].Size)
	assert.Equal(t, []string{"work", "code"}, tasks[0].Tags)
}

func TestAdd_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown size", []string{"add", "x", "-s", "huge"}},
		{"only tags", []string{"add", "@work"}},
		{"no args", []string{"add"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			_, err := h.run(tt.args...)

			assert.Error(t, err)
			assert.Empty(t, h.tasks())
		})
	}
}

func TestEdit(t *testing.T) {
	h := newHarness(t)
	task := h.add("Write report")

	out, err := h.run("edit", model.ShortID(task.ID), "--title", "Final report", "--size", "xl", "--tags", "done")

	require.NoError(t, err)
	assert.Contains(t, out, "Updated: Final report")
	got := h.tasks()[0]
	assert.Equal(t, "Final report", got.Title)
	assert.Equal(t, model.SizeXL, got.Size)
	assert.Equal(t, []string{"done"}, got.Tags)
}

func TestEdit_NoFlags(t *testing.T) {
	h := newHarness(t)
	task := h.add("x")

	_, err := h.run("edit", task.ID)

	assert.ErrorContains(t, err, "nothing to change")
}

func TestStartStop(t *testing.T) {
	h := newHarness(t)
	task := h.add("Write report")
	id := model.ShortID(task.ID)

	out, err := h.run("start", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Started: Write report")
	assert.True(t, h.tasks()[0].IsInProgress())

	_, err = h.run("start", id)
	assert.ErrorIs(t, err, model.ErrAlreadyRunning)

	h.clock.Advance(2 * time.Hour)
	out, err = h.run("stop", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Stopped: Write report")
	assert.Contains(t, out, "Total: 2h 00m")
	assert.Equal(t, 2*time.Hour, h.tasks()[0].TotalElapsed())
}

func TestStart_UnknownID(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("start", "nope")

	assert.ErrorIs(t, err, model.ErrTaskNotFound)
}

func TestArchiveUnarchiveRm(t *testing.T) {
	h := newHarness(t)
	task := h.add("Old thing")

	_, err := h.run("archive", task.ID)
	require.NoError(t, err)
	assert.True(t, h.tasks()[0].IsArchived())

	_, err = h.run("unarchive", task.ID)
	require.NoError(t, err)
	assert.False(t, h.tasks()[0].IsArchived())

	out, err := h.run("rm", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted: Old thing")
	assert.Empty(t, h.tasks())
}

func TestClear(t *testing.T) {
	h := newHarness(t)
	h.add("a")
	h.add("b")

	_, err := h.run("clear")
	assert.ErrorContains(t, err, "--yes")
	assert.Len(t, h.tasks(), 2)

	_, err = h.run("clear", "--yes")
	require.NoError(t, err)
	assert.Empty(t, h.tasks())
}

func TestList(t *testing.T) {
	h := newHarness(t)
	running := h.add("Review PR @code")
	h.add("Write report @urgent")
	old := h.add("Old urgent thing")
	_, err := h.run("start", running.ID)
	require.NoError(t, err)
	_, err = h.run("archive", old.ID)
	require.NoError(t, err)

	out, err := h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "Active (1)")
	assert.Contains(t, out, "Inactive (1)")
	assert.Contains(t, out, "Archived (1)")
	assert.Contains(t, out, "Review PR")

	out, err = h.run("list", "URG")
	require.NoError(t, err)
	assert.Contains(t, out, "Active (0)")
	assert.Contains(t, out, "Inactive (1)")
	assert.Contains(t, out, "Archived (1)")
	assert.NotContains(t, out, "Review PR")
}

func TestSummary(t *testing.T) {
	h := newHarness(t)
	task := h.add("Write report !M")
	_, err := h.run("start", task.ID)
	require.NoError(t, err)
	h.clock.Advance(150 * time.Minute)
	_, err = h.run("stop", task.ID)
	require.NoError(t, err)

	out, err := h.run("summary")

	require.NoError(t, err)
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "2h")
	assert.Contains(t, out, "Most tracked: Write report (2h 30m)")
	assert.Contains(t, out, "Tasks: 1 (active 0, inactive 1, archived 0)")
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	h.add("Write report @urgent")

	out, err := h.run("export")
	require.NoError(t, err)
	var doc tracker.Export
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, tracker.ExportVersion, doc.Version)
	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, []string{"urgent"}, doc.Tasks[0].Tags)

	out, err = h.run("export", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "version: 1")
	assert.Contains(t, out, "title: Write report")

	_, err = h.run("export", "--format", "xml")
	assert.ErrorContains(t, err, "unknown export format")
}

func TestGlobalFlags(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("--store", "json", "list")
	require.NoError(t, err)
	require.NotNil(t, h.opened)
	assert.Equal(t, "json", h.opened.Store.Backend)
	assert.Equal(t, h.dataDir, h.opened.DataDir)

	_, err = h.run("--store", "mysql", "list")
	assert.ErrorContains(t, err, "unknown store backend")
}

func TestVersion(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("--version")

	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
}

func TestRoot_LaunchesTUI(t *testing.T) {
	h := newHarness(t)
	var launched *app.App
	orig := launchTUIFunc
	launchTUIFunc = func(_ context.Context, a *app.App) error {
		launched = a
		return nil
	}
	defer func() { launchTUIFunc = orig }()

	_, err := h.run()

	require.NoError(t, err)
	require.NotNil(t, launched)
	assert.Equal(t, h.dataDir, launched.DataDir)
}
