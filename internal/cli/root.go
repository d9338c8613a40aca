// Package cli provides the command-line interface for tock.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dori/tock/internal/app"
	"github.com/dori/tock/internal/config"
	"github.com/dori/tock/internal/store"
	"github.com/dori/tock/internal/tracker"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupTask     = "task"
	groupTracking = "tracking"
	groupReport   = "report"
)

// Opener builds the application from resolved configuration
type Opener func(cfg *config.Config) (*app.App, error)

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// CLI owns the root command and the application it opens lazily
type CLI struct {
	root    *cobra.Command
	open    Opener
	app     *app.App
	cfgPath string
	dataDir string
	backend string
}

// New creates the CLI. A nil opener uses app.New.
func New(version string, open Opener) *CLI {
	if open == nil {
		open = app.New
	}
	c := &CLI{open: open}
	c.root = c.newRootCommand(version)
	return c
}

// Command returns the root command
func (c *CLI) Command() *cobra.Command {
	return c.root
}

// Execute runs the command line and releases the application afterwards
func (c *CLI) Execute(ctx context.Context, args []string) error {
	c.root.SetArgs(args)
	err := c.root.ExecuteContext(ctx)
	if c.app != nil {
		if cerr := c.app.Close(); cerr != nil && err == nil {
			err = cerr
		}
		c.app = nil
	}
	return err
}

func (c *CLI) newRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "tock",
		Short: "Track time spent on tasks",
		Long: `tock keeps a list of tasks and the time spent on each.

Run without a command to open the terminal UI. Tasks are grouped
into Active (tracking), Inactive and Archived sections.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.AcquireLock(); err != nil {
				return err
			}
			return launchTUIFunc(cmd.Context(), c.app)
		},
	}

	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "config file (default $XDG_CONFIG_HOME/tock/config.toml)")
	root.PersistentFlags().StringVar(&c.dataDir, "data-dir", "", "data directory")
	root.PersistentFlags().StringVar(&c.backend, "store", "", "storage backend ("+strings.Join(store.Backends(), "|")+")")

	root.AddGroup(
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupTracking, Title: "Time Tracking:"},
		&cobra.Group{ID: groupReport, Title: "Reports:"},
	)

	for _, cmd := range []*cobra.Command{
		c.newAddCommand(),
		c.newEditCommand(),
		c.newArchiveCommand(),
		c.newUnarchiveCommand(),
		c.newRmCommand(),
		c.newClearCommand(),
	} {
		cmd.GroupID = groupTask
		root.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		c.newStartCommand(),
		c.newStopCommand(),
	} {
		cmd.GroupID = groupTracking
		root.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		c.newListCommand(),
		c.newSummaryCommand(),
		c.newExportCommand(),
	} {
		cmd.GroupID = groupReport
		root.AddCommand(cmd)
	}

	return root
}

// setup resolves configuration (file <- env <- flags) and opens the app
func (c *CLI) setup() error {
	if c.app != nil {
		return nil
	}

	cfg, err := config.NewLoader(c.cfgPath).Load()
	if err != nil {
		return err
	}
	if c.dataDir != "" {
		cfg.DataDir = config.ExpandHome(c.dataDir)
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := c.open(cfg)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *CLI) tracker() (*tracker.Tracker, error) {
	if c.app == nil || c.app.Tracker == nil {
		return nil, errors.New("application not initialized")
	}
	return c.app.Tracker, nil
}

// exactArgs is cobra.ExactArgs with a friendlier message
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("usage: tock %s", usage)
		}
		return nil
	}
}
