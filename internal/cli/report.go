package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dori/tock/internal/model"
	"github.com/dori/tock/internal/tracker"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newListCommand creates the list command showing the partitioned board.
func (c *CLI) newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [QUERY]",
		Short: "List tasks by section",
		Long: `List tasks grouped into Active, Inactive and Archived.

QUERY keeps tasks whose title or any tag contains it, ignoring case.`,
		Aliases: []string{"ls"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := c.tracker()
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			board, err := tr.Board(cmd.Context(), query)
			if err != nil {
				return err
			}
			printBoard(cmd.OutOrStdout(), board, tr.Now())
			return nil
		},
	}
	return cmd
}

func printBoard(w io.Writer, board tracker.Board, now time.Time) {
	for i, section := range board.Sections {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "%s (%d)\n", section.Name(), section.Count())
		if section.Count() == 0 {
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(tw, "ID\tSIZE\tTRACKED\tTAGS\tTITLE")
		for _, task := range section.Tasks {
			tracked := model.FormatDuration(task.TotalElapsed())
			if task.IsInProgress() {
				tracked += " +" + model.FormatDuration(task.RunningFor(now))
			}
			tags := "-"
			if len(task.Tags) > 0 {
				tags = strings.Join(task.Tags, ",")
			}
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				model.ShortID(task.ID), task.Size, tracked, tags, task.Title)
		}
		_ = tw.Flush()
	}
}

// newSummaryCommand creates the summary command.
func (c *CLI) newSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show whole hours tracked per task and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := c.tracker()
			if err != nil {
				return err
			}
			sum, err := tr.Summary(cmd.Context())
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), sum)
			return nil
		},
	}
}

func printSummary(w io.Writer, sum tracker.Summary) {
	_, _ = fmt.Fprintln(w, "Tasks")
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	for _, line := range sum.Tasks {
		_, _ = fmt.Fprintf(tw, "  %s\t%dh\t%s\n", line.Title, line.Hours, model.FormatDuration(line.Elapsed))
	}
	_ = tw.Flush()

	_, _ = fmt.Fprintln(w, "\nSizes")
	tw = tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	for _, size := range sum.Sizes {
		_, _ = fmt.Fprintf(tw, "  %s\t%d tasks\t%dh\n", size.Size, size.Tasks, size.Hours())
	}
	_ = tw.Flush()

	st := sum.Stats
	_, _ = fmt.Fprintln(w, "\nStatistics")
	_, _ = fmt.Fprintf(w, "  Tasks: %d (active %d, inactive %d, archived %d)\n", st.Tasks, st.Active, st.Inactive, st.Archived)
	_, _ = fmt.Fprintf(w, "  Tracked: %s\n", model.FormatDuration(st.Total))
	if st.Top != nil {
		_, _ = fmt.Fprintf(w, "  Most tracked: %s (%s)\n", st.Top.Title, model.FormatDuration(st.Top.Elapsed))
	}
}

// newExportCommand creates the export command.
func (c *CLI) newExportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every task to stdout as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := c.tracker()
			if err != nil {
				return err
			}
			doc, err := tr.Export(cmd.Context())
			if err != nil {
				return err
			}
			return writeExport(cmd.OutOrStdout(), doc, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml)")
	return cmd
}

func writeExport(w io.Writer, doc *tracker.Export, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format %q (want json or yaml)", format)
	}
}
