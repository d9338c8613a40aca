package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dori/tock/internal/model"
	"github.com/dori/tock/internal/tracker"
	"github.com/spf13/cobra"
)

// newAddCommand creates the add command for creating tasks.
func (c *CLI) newAddCommand() *cobra.Command {
	var opts struct {
		Description string
		Size        string
		Tags        string
	}

	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Create a new task",
		Long: `Create a new task.

Words starting with @ become tags and a word starting with ! sets the size.

Examples:
  tock add "Write report" -s M -t "urgent draft"
  tock add Review PR @work !S`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := c.tracker()
			if err != nil {
				return err
			}

			q := parseQuickAdd(strings.Join(args, " "))
			draft := tracker.Draft{
				Title:       q.Title,
				Description: opts.Description,
				Size:        q.Size,
				Tags:        model.JoinTags(q.Tags),
			}
			if cmd.Flags().Changed("size") {
				draft.Size = opts.Size
			}
			if opts.Tags != "" {
				draft.Tags = strings.TrimSpace(draft.Tags + " " + opts.Tags)
			}

			task, err := tr.Editor().Submit(cmd.Context(), draft)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Created: %s (%s)\n", task.Title, model.ShortID(task.ID))
			if task.Size != model.SizeNone {
				_, _ = fmt.Fprintf(w, "Size: %s\n", task.Size)
			}
			if len(task.Tags) > 0 {
				_, _ = fmt.Fprintf(w, "Tags: %s\n", strings.Join(task.Tags, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "desc", "d", "", "Task description")
	cmd.Flags().StringVarP(&opts.Size, "size", "s", "", "Task size (XS, S, M, L, XL)")
	cmd.Flags().StringVarP(&opts.Tags, "tags", "t", "", "Space separated tags")

	return cmd
}

// newEditCommand creates the edit command. Only flags that are given change.
func (c *CLI) newEditCommand() *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Size        string
		Tags        string
	}

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a task",
		Args:  exactArgs(1, "edit ID [--title T] [--desc D] [--size S] [--tags T]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := c.tracker()
			if err != nil {
				return err
			}

			task, err := tr.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			draft := tracker.DraftFrom(task)
			draft.Spans = nil // intervals are edited in the TUI only
			changed := false
			if cmd.Flags().Changed("title") {
				draft.Title = opts.Title
				changed = true
			}
			if cmd.Flags().Changed("desc") {
				draft.Description = opts.Description
				changed = true
			}
			if cmd.Flags().Changed("size") {
				draft.Size = opts.Size
				changed = true
			}
			if cmd.Flags().Changed("tags") {
				draft.Tags = opts.Tags
				changed = true
			}
			if !changed {
				return errors.New("nothing to change: pass --title, --desc, --size or --tags")
			}

			task, err = tr.Editor().Submit(cmd.Context(), draft)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated: %s (%s)\n", task.Title, model.ShortID(task.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "desc", "", "New description")
	cmd.Flags().StringVar(&opts.Size, "size", "", "New size (XS, S, M, L, XL, None)")
	cmd.Flags().StringVar(&opts.Tags, "tags", "", "New space separated tags")

	return cmd
}

// taskAction builds a command that resolves one task id and applies fn
func (c *CLI) taskAction(use, short, verb string, fn func(*tracker.Tracker, *cobra.Command, string) (*model.Task, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  exactArgs(1, use+" ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := c.tracker()
			if err != nil {
				return err
			}
			task, err := tr.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			task, err = fn(tr, cmd, task.ID)
			if err != nil {
				return err
			}
			printAction(cmd.OutOrStdout(), verb, task)
			return nil
		},
	}
}

func printAction(w io.Writer, verb string, task *model.Task) {
	_, _ = fmt.Fprintf(w, "%s: %s (%s)\n", verb, task.Title, model.ShortID(task.ID))
	if verb == "Stopped" {
		_, _ = fmt.Fprintf(w, "Total: %s\n", model.FormatDuration(task.TotalElapsed()))
	}
}

func (c *CLI) newStartCommand() *cobra.Command {
	return c.taskAction("start", "Start tracking time on a task", "Started",
		func(tr *tracker.Tracker, cmd *cobra.Command, id string) (*model.Task, error) {
			return tr.Start(cmd.Context(), id)
		})
}

func (c *CLI) newStopCommand() *cobra.Command {
	return c.taskAction("stop", "Stop tracking time on a task", "Stopped",
		func(tr *tracker.Tracker, cmd *cobra.Command, id string) (*model.Task, error) {
			return tr.Stop(cmd.Context(), id)
		})
}

func (c *CLI) newArchiveCommand() *cobra.Command {
	return c.taskAction("archive", "Archive a task", "Archived",
		func(tr *tracker.Tracker, cmd *cobra.Command, id string) (*model.Task, error) {
			return tr.Archive(cmd.Context(), id)
		})
}

func (c *CLI) newUnarchiveCommand() *cobra.Command {
	return c.taskAction("unarchive", "Restore an archived task", "Restored",
		func(tr *tracker.Tracker, cmd *cobra.Command, id string) (*model.Task, error) {
			return tr.Unarchive(cmd.Context(), id)
		})
}

func (c *CLI) newRmCommand() *cobra.Command {
	return c.taskAction("rm", "Delete a task", "Deleted",
		func(tr *tracker.Tracker, cmd *cobra.Command, id string) (*model.Task, error) {
			task, err := tr.Get(cmd.Context(), id)
			if err != nil {
				return nil, err
			}
			if err := tr.Delete(cmd.Context(), id); err != nil {
				return nil, err
			}
			return task, nil
		})
}

func (c *CLI) newClearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to delete all tasks without --yes")
			}
			tr, err := c.tracker()
			if err != nil {
				return err
			}
			if err := tr.Clear(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "All tasks deleted")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting all tasks")
	return cmd
}
