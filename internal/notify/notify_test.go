package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs(t *testing.T) {
	args := Args(Notification{
		Title:   "Tracking stopped",
		Body:    "Write report: 2h 00m",
		Urgency: UrgencyCritical,
		Timeout: 5 * time.Second,
		Icon:    "alarm-symbolic",
	})

	assert.Equal(t, []string{
		"-u", "critical",
		"-t", "5000",
		"-i", "alarm-symbolic",
		"-a", "tock",
		"Tracking stopped", "Write report: 2h 00m",
	}, args)
}

func TestArgs_Minimal(t *testing.T) {
	assert.Equal(t, []string{"-u", "normal", "-a", "tock", "hi"}, Args(Notification{Title: "hi", Urgency: UrgencyNormal}))
}

func TestNotifier_TrackingStopped(t *testing.T) {
	var gotName string
	var gotArgs []string
	n := NewNotifier(true)
	n.SetRunner(func(name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	})

	require.NoError(t, n.TrackingStopped("Write report", 2*time.Hour+5*time.Minute))

	assert.Equal(t, "notify-send", gotName)
	assert.Equal(t, "Write report: 2h 05m", gotArgs[len(gotArgs)-1])
}

func TestNotifier_Disabled(t *testing.T) {
	called := false
	n := NewNotifier(false)
	n.SetRunner(func(string, ...string) error {
		called = true
		return nil
	})

	require.NoError(t, n.TrackingStopped("x", time.Minute))
	assert.False(t, called)

	n.SetEnabled(true)
	assert.True(t, n.IsEnabled())
}
