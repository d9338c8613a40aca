package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dori/tock/internal/config"
	"github.com/dori/tock/internal/db"
	"github.com/dori/tock/internal/jsonstore"
	"github.com/dori/tock/internal/logging"
	"github.com/dori/tock/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Store.Backend = backend
	return cfg
}

func TestNew_Backends(t *testing.T) {
	tests := []struct {
		backend string
		file    string
	}{
		{"sqlite", db.FileName},
		{"json", jsonstore.FileName},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := testConfig(t, tt.backend)
			a, err := New(cfg)
			require.NoError(t, err)
			defer a.Close()

			ctx := context.Background()
			_, err = a.Tracker.Editor().Submit(ctx, tracker.Draft{Title: "Write report", Size: "M"})
			require.NoError(t, err)

			tasks, err := a.Tracker.Tasks(ctx)
			require.NoError(t, err)
			assert.Len(t, tasks, 1)

			_, err = os.Stat(filepath.Join(cfg.DataDir, tt.file))
			assert.NoError(t, err)
			_, err = os.Stat(filepath.Join(cfg.DataDir, logging.FileName))
			assert.NoError(t, err)
		})
	}
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	_, err := OpenStore("mysql", t.TempDir(), zap.NewNop())

	assert.ErrorContains(t, err, "unknown store backend")
}

func openFDs(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skip("open file descriptors are not listable on this platform")
	}
	return len(entries)
}

func TestNew_StoreFailureClosesLog(t *testing.T) {
	cfg := testConfig(t, "mysql")
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0o755))
	before := openFDs(t)

	a, err := New(cfg)

	require.Error(t, err)
	assert.Nil(t, a)
	assert.ErrorContains(t, err, "unknown store backend")
	assert.Equal(t, before, openFDs(t), "log file handle leaked")

	content, err := os.ReadFile(filepath.Join(cfg.DataDir, logging.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(content), "failed to open store")
}

func TestClose_ClosesLog(t *testing.T) {
	cfg := testConfig(t, "json")
	a, err := New(cfg)
	require.NoError(t, err)

	require.NoError(t, a.Close())
	assert.ErrorIs(t, a.Logger.Sync(), os.ErrClosed)
	assert.NoError(t, a.Close(), "second close is a no-op")
}

func TestAcquireLock_SecondInstanceFails(t *testing.T) {
	cfg := testConfig(t, "json")

	first, err := New(cfg)
	require.NoError(t, err)
	defer first.Close()
	require.NoError(t, first.AcquireLock())

	second, err := New(cfg)
	require.NoError(t, err)
	defer second.Close()

	assert.ErrorContains(t, second.AcquireLock(), "already running")
}

func TestAcquireLock_ReleasedOnClose(t *testing.T) {
	cfg := testConfig(t, "json")

	first, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, first.AcquireLock())
	require.NoError(t, first.Close())

	second, err := New(cfg)
	require.NoError(t, err)
	defer second.Close()
	assert.NoError(t, second.AcquireLock())
}
