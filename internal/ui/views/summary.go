package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tock/internal/model"
	"github.com/dori/tock/internal/tracker"
	"github.com/dori/tock/internal/ui/theme"
)

// SummaryView shows tracked hours per task and per size
type SummaryView struct {
	ctx     context.Context
	tracker *tracker.Tracker
	width   int
	height  int

	summary tracker.Summary
	loaded  bool
	offset  int // first task line shown
}

// NewSummaryView creates a new summary view
func NewSummaryView(ctx context.Context, tr *tracker.Tracker) SummaryView {
	return SummaryView{
		ctx:     ctx,
		tracker: tr,
	}
}

// Init loads the summary
func (v SummaryView) Init() tea.Cmd {
	return v.loadSummary()
}

// SetSize sets the view dimensions
func (v SummaryView) SetSize(width, height int) SummaryView {
	v.width = width
	v.height = height
	return v
}

// loadSummary computes a fresh summary from the store
func (v SummaryView) loadSummary() tea.Cmd {
	ctx, tr := v.ctx, v.tracker
	return func() tea.Msg {
		s, err := tr.Summary(ctx)
		return summaryLoadedMsg{summary: s, err: err}
	}
}

// Update handles messages
func (v SummaryView) Update(msg tea.Msg) (SummaryView, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryLoadedMsg:
		if msg.err != nil {
			return v, errCmd(msg.err)
		}
		v.summary = msg.summary
		v.loaded = true
		v.offset = min(v.offset, max(0, len(v.summary.Tasks)-1))
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return v, v.loadSummary()
		case "down", "j":
			if v.offset < len(v.summary.Tasks)-1 {
				v.offset++
			}
		case "up", "k":
			if v.offset > 0 {
				v.offset--
			}
		}
	}

	return v, nil
}

// View renders the summary view
func (v SummaryView) View() string {
	if !v.loaded {
		return "Loading..."
	}

	t := theme.Current.Theme
	stats := v.summary.Stats

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	sections = append(sections, titleStyle.Render("Summary"))
	sections = append(sections, "")

	// Summary cards (side by side)
	cardStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 2).
		Width(16)
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(t.Subtle)

	card := func(value, label string) string {
		return cardStyle.Render(valueStyle.Render(value) + "\n" + labelStyle.Render(label))
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
		card(fmt.Sprintf("%d", stats.Tasks), "Tasks"),
		card(fmt.Sprintf("%d", stats.Active), "Active"),
		card(fmt.Sprintf("%d", stats.Inactive), "Inactive"),
		card(fmt.Sprintf("%d", stats.Archived), "Archived"),
		card(model.FormatDuration(stats.Total), "Tracked"),
	))
	if stats.Top != nil {
		sections = append(sections, labelStyle.Render(
			fmt.Sprintf("Most tracked: %s (%s)", stats.Top.Title, model.FormatDuration(stats.Top.Elapsed)),
		))
	}
	sections = append(sections, "")

	sections = append(sections, v.renderSizes())
	sections = append(sections, "")
	sections = append(sections, v.renderTasks())

	return strings.Join(sections, "\n")
}

// renderSizes renders hours per size as a bar chart
func (v SummaryView) renderSizes() string {
	t := theme.Current.Theme
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)

	lines := []string{headerStyle.Render("Time by Size")}

	var longest int64 = 1
	for _, s := range v.summary.Sizes {
		if int64(s.Elapsed) > longest {
			longest = int64(s.Elapsed)
		}
	}

	barMaxWidth := 30
	for _, s := range v.summary.Sizes {
		width := int(float64(s.Elapsed) / float64(longest) * float64(barMaxWidth))
		if width < 1 && s.Elapsed > 0 {
			width = 1
		}
		bar := lipgloss.NewStyle().Foreground(t.SizeColor(s.Size)).Render(strings.Repeat("█", width))
		pad := strings.Repeat(" ", barMaxWidth-width)
		lines = append(lines, fmt.Sprintf("%-5s %s%s %3dh  %d task(s)", s.Size, bar, pad, s.Hours(), s.Tasks))
	}
	return strings.Join(lines, "\n")
}

// renderTasks renders the per-task hour lines that fit on screen
func (v SummaryView) renderTasks() string {
	t := theme.Current.Theme
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)

	lines := []string{headerStyle.Render("Hours per Task")}
	if len(v.summary.Tasks) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).Render("No tasks yet."))
		return strings.Join(lines, "\n")
	}

	room := v.height - 16 - len(v.summary.Sizes)
	if room < 3 {
		room = 3
	}
	end := min(len(v.summary.Tasks), v.offset+room)

	for _, th := range v.summary.Tasks[v.offset:end] {
		state := " "
		style := lipgloss.NewStyle().Foreground(t.Foreground)
		switch {
		case th.InProgress:
			state = lipgloss.NewStyle().Foreground(t.SectionActive).Render("●")
		case th.Archived:
			style = lipgloss.NewStyle().Foreground(t.Subtle)
		}
		lines = append(lines, fmt.Sprintf("%s %3dh  %-4s %s", state, th.Hours, sizeBadge(th.Size), style.Render(th.Title)))
	}
	if rest := len(v.summary.Tasks) - end; rest > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Subtle).Render(fmt.Sprintf("  ↓ %d more", rest)))
	}
	return strings.Join(lines, "\n")
}
