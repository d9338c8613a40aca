package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tock/internal/model"
	"github.com/dori/tock/internal/tracker"
	"github.com/dori/tock/internal/ui/theme"
	"go.uber.org/zap"
)

// ListMode represents the current input mode of the list view
type ListMode int

const (
	ListModeNormal ListMode = iota
	ListModeSearch
	ListModeConfirmDelete
	ListModeEdit
)

// tickInterval is how often running times are redrawn
const tickInterval = 30 * time.Second

// listRow is one line of the accordion: a section header when task is nil
type listRow struct {
	partition tracker.Partition
	task      *model.Task
}

func (r listRow) isHeader() bool {
	return r.task == nil
}

// ListView displays tasks as three collapsible sections
type ListView struct {
	ctx     context.Context
	tracker *tracker.Tracker
	logger  *zap.Logger
	width   int
	height  int

	tasks     []model.Task // last snapshot from the store
	now       time.Time
	board     tracker.Board
	rows      []listRow
	collapsed map[tracker.Partition]bool

	cursor       int
	scrollOffset int
	focusID      string // task to put the cursor on after the next load

	mode   ListMode
	input  textinput.Model
	query  string
	editor EditorView

	deleteID    string
	deleteTitle string

	statusMsg string
}

// NewListView creates a new list view
func NewListView(ctx context.Context, tr *tracker.Tracker, logger *zap.Logger) ListView {
	if logger == nil {
		logger = zap.NewNop()
	}
	ti := textinput.New()
	ti.Placeholder = "filter by title or tag..."
	ti.CharLimit = 128
	ti.Prompt = ""

	v := ListView{
		ctx:       ctx,
		tracker:   tr,
		logger:    logger,
		collapsed: make(map[tracker.Partition]bool),
		input:     ti,
	}
	v.rebuild()
	return v
}

// Init loads the tasks and starts the running-time ticker
func (v ListView) Init() tea.Cmd {
	return tea.Batch(v.loadTasks(), v.tick())
}

// Reload re-reads the tasks from the store
func (v ListView) Reload() tea.Cmd {
	return v.loadTasks()
}

// IsInputMode returns true when the view is capturing text input
func (v ListView) IsInputMode() bool {
	return v.mode != ListModeNormal
}

// Mode returns the current input mode
func (v ListView) Mode() ListMode {
	return v.mode
}

// SetSize updates the view dimensions
func (v ListView) SetSize(width, height int) ListView {
	v.width = width
	v.height = height
	v.input.Width = width - 4
	if v.mode == ListModeEdit {
		v.editor = v.editor.SetSize(width, height)
	}
	return v
}

func (v ListView) loadTasks() tea.Cmd {
	ctx, tr := v.ctx, v.tracker
	return func() tea.Msg {
		tasks, err := tr.Tasks(ctx)
		return tasksLoadedMsg{tasks: tasks, now: tr.Now(), err: err}
	}
}

func (v ListView) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// visibleRowCount returns how many rows fit in the viewport
func (v ListView) visibleRowCount() int {
	available := v.height - 4
	if v.query != "" || v.mode == ListModeSearch {
		available -= 2
	}
	if available < 1 {
		available = 1
	}
	return available
}

// ensureCursorVisible adjusts scrollOffset to keep cursor in view
func (v *ListView) ensureCursorVisible() {
	visible := v.visibleRowCount()

	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	}
	if v.cursor >= v.scrollOffset+visible {
		v.scrollOffset = v.cursor - visible + 1
	}

	maxOffset := len(v.rows) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v.scrollOffset > maxOffset {
		v.scrollOffset = maxOffset
	}
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
}

// rebuild recomputes the board from the snapshot and flattens it into rows.
// The cursor stays on the same task when that task is still visible.
func (v *ListView) rebuild() {
	keep := v.focusID
	if keep == "" {
		if task := v.selectedTask(); task != nil {
			keep = task.ID
		}
	}
	v.focusID = ""

	v.board = tracker.BuildBoard(v.tasks, v.query)
	v.rows = nil
	for _, section := range v.board.Sections {
		v.rows = append(v.rows, listRow{partition: section.Partition})
		if v.collapsed[section.Partition] {
			continue
		}
		for i := range section.Tasks {
			v.rows = append(v.rows, listRow{partition: section.Partition, task: &section.Tasks[i]})
		}
	}

	if keep != "" {
		for i, row := range v.rows {
			if !row.isHeader() && row.task.ID == keep {
				v.cursor = i
				break
			}
		}
	}
	if v.cursor >= len(v.rows) {
		v.cursor = max(0, len(v.rows)-1)
	}
	v.ensureCursorVisible()
}

// selectedTask returns the task under the cursor, nil on a header
func (v ListView) selectedTask() *model.Task {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return nil
	}
	return v.rows[v.cursor].task
}

// Update handles messages for the list view
func (v ListView) Update(msg tea.Msg) (ListView, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		if msg.err != nil {
			v.logger.Warn("load tasks", zap.Error(msg.err))
			v.statusMsg = "Could not load tasks"
			return v, errCmd(msg.err)
		}
		v.tasks = msg.tasks
		v.now = msg.now
		v.rebuild()
		return v, nil

	case tickMsg:
		if v.tracker != nil {
			v.now = v.tracker.Now()
		}
		return v, v.tick()

	case taskActionMsg:
		if msg.err != nil {
			v.logger.Debug("task action rejected", zap.Error(msg.err))
			return v, errCmd(msg.err)
		}
		v.statusMsg = fmt.Sprintf("%s: %s", msg.verb, msg.task.Title)
		if msg.verb == "Stopped" {
			v.statusMsg += fmt.Sprintf(" (total %s)", model.FormatDuration(msg.task.TotalElapsed()))
		}
		v.focusID = msg.task.ID
		return v, v.loadTasks()

	case taskDeletedMsg:
		if msg.err != nil {
			return v, errCmd(msg.err)
		}
		v.statusMsg = fmt.Sprintf("Deleted: %s", msg.title)
		return v, v.loadTasks()

	case draftSubmittedMsg:
		if msg.err == nil {
			v.mode = ListModeNormal
			if msg.isNew {
				v.statusMsg = fmt.Sprintf("Created: %s", msg.task.Title)
			} else {
				v.statusMsg = fmt.Sprintf("Saved: %s", msg.task.Title)
			}
			v.focusID = msg.task.ID
			return v, v.loadTasks()
		}
		var cmd tea.Cmd
		v.editor, cmd = v.editor.Update(msg)
		return v, cmd

	case editorClosedMsg:
		v.mode = ListModeNormal
		v.statusMsg = "Draft discarded"
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case ListModeSearch:
			return v.handleSearchMode(msg)
		case ListModeConfirmDelete:
			return v.handleDeleteConfirm(msg)
		case ListModeEdit:
			var cmd tea.Cmd
			v.editor, cmd = v.editor.Update(msg)
			return v, cmd
		default:
			return v.handleNormalMode(msg)
		}
	}

	// Cursor blink and friends
	var cmd tea.Cmd
	switch v.mode {
	case ListModeSearch:
		v.input, cmd = v.input.Update(msg)
	case ListModeEdit:
		v.editor, cmd = v.editor.Update(msg)
	}
	return v, cmd
}

// handleNormalMode handles keypresses in normal mode
func (v ListView) handleNormalMode(msg tea.KeyMsg) (ListView, tea.Cmd) {
	v.statusMsg = ""

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
	case "g", "home":
		v.cursor = 0
	case "G", "end":
		v.cursor = max(0, len(v.rows)-1)
	case "pgup":
		v.cursor = max(0, v.cursor-v.visibleRowCount())
	case "pgdown":
		v.cursor = min(max(0, len(v.rows)-1), v.cursor+v.visibleRowCount())

	case " ", "left", "right":
		if v.cursor < len(v.rows) {
			v.toggleSection(v.rows[v.cursor].partition)
		}

	case "/":
		v.mode = ListModeSearch
		v.input.SetValue(v.query)
		v.input.CursorEnd()
		cmd := v.input.Focus()
		return v, cmd

	case "esc":
		if v.query != "" {
			v.query = ""
			v.rebuild()
		}

	case "r":
		v.statusMsg = "Refreshing..."
		return v, v.loadTasks()

	case "a":
		return v.openEditor(tracker.Draft{})

	case "e", "enter":
		task := v.selectedTask()
		if task == nil {
			if msg.String() == "enter" && v.cursor < len(v.rows) {
				v.toggleSection(v.rows[v.cursor].partition)
			}
			break
		}
		return v.openEditor(tracker.DraftFrom(task))

	case "s":
		if task := v.selectedTask(); task != nil {
			return v, v.toggleTracking(task.ID)
		}

	case "x":
		if task := v.selectedTask(); task != nil {
			return v, v.toggleArchived(task.ID, task.IsArchived())
		}

	case "d", "delete":
		if task := v.selectedTask(); task != nil {
			v.mode = ListModeConfirmDelete
			v.deleteID = task.ID
			v.deleteTitle = task.Title
		}
	}

	v.ensureCursorVisible()
	return v, nil
}

func (v *ListView) toggleSection(p tracker.Partition) {
	v.collapsed[p] = !v.collapsed[p]
	v.rebuild()
	// land on the header of the section that was toggled
	for i, row := range v.rows {
		if row.isHeader() && row.partition == p {
			v.cursor = i
			break
		}
	}
	v.ensureCursorVisible()
}

func (v ListView) openEditor(d tracker.Draft) (ListView, tea.Cmd) {
	v.mode = ListModeEdit
	v.editor = NewEditorView(v.ctx, v.tracker.Editor(), d).SetSize(v.width, v.height)
	return v, v.editor.Init()
}

// handleSearchMode filters the list while the user types
func (v ListView) handleSearchMode(msg tea.KeyMsg) (ListView, tea.Cmd) {
	switch msg.String() {
	case "enter":
		v.query = strings.TrimSpace(v.input.Value())
		v.mode = ListModeNormal
		v.input.Blur()
		v.rebuild()
		return v, nil

	case "esc":
		v.query = ""
		v.input.SetValue("")
		v.mode = ListModeNormal
		v.input.Blur()
		v.rebuild()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.query = strings.TrimSpace(v.input.Value())
	v.rebuild()
	return v, cmd
}

func (v ListView) handleDeleteConfirm(msg tea.KeyMsg) (ListView, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = ListModeNormal
		id, title := v.deleteID, v.deleteTitle
		v.deleteID, v.deleteTitle = "", ""
		return v, v.deleteTask(id, title)
	case "n", "N", "esc":
		v.mode = ListModeNormal
		v.deleteID, v.deleteTitle = "", ""
	}
	return v, nil
}

func (v ListView) toggleTracking(id string) tea.Cmd {
	ctx, tr := v.ctx, v.tracker
	return func() tea.Msg {
		task, err := tr.Toggle(ctx, id)
		if err != nil {
			return taskActionMsg{err: err}
		}
		verb := "Stopped"
		if task.IsInProgress() {
			verb = "Started"
		}
		return taskActionMsg{task: task, verb: verb}
	}
}

func (v ListView) toggleArchived(id string, archived bool) tea.Cmd {
	ctx, tr := v.ctx, v.tracker
	return func() tea.Msg {
		if archived {
			task, err := tr.Unarchive(ctx, id)
			return taskActionMsg{task: task, verb: "Restored", err: err}
		}
		task, err := tr.Archive(ctx, id)
		return taskActionMsg{task: task, verb: "Archived", err: err}
	}
}

func (v ListView) deleteTask(id, title string) tea.Cmd {
	ctx, tr := v.ctx, v.tracker
	return func() tea.Msg {
		return taskDeletedMsg{title: title, err: tr.Delete(ctx, id)}
	}
}

// View renders the list view
func (v ListView) View() string {
	if v.mode == ListModeEdit {
		return v.editor.View()
	}

	styles := theme.Current.Styles
	t := theme.Current.Theme

	var b strings.Builder

	if v.mode == ListModeSearch {
		searchStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
		b.WriteString(searchStyle.Render("/"))
		b.WriteString(v.input.View())
		b.WriteString("\n\n")
	} else if v.query != "" {
		filterStyle := lipgloss.NewStyle().Foreground(t.Info).Italic(true)
		b.WriteString(filterStyle.Render(fmt.Sprintf("filter: %q", v.query)))
		b.WriteString(styles.HelpDesc.Render(" (esc to clear)"))
		b.WriteString("\n\n")
	}

	if v.mode == ListModeConfirmDelete {
		confirmStyle := lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
		b.WriteString(confirmStyle.Render(fmt.Sprintf("Delete %q? (y/n)", v.deleteTitle)))
		b.WriteString("\n\n")
	}

	if v.statusMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Info).Italic(true).Render(v.statusMsg))
		b.WriteString("\n\n")
	}

	if len(v.tasks) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).Padding(1, 0)
		b.WriteString(emptyStyle.Render("No tasks. Press 'a' to add one."))
		b.WriteString("\n")
	}

	visible := v.visibleRowCount()
	end := min(len(v.rows), v.scrollOffset+visible)

	if v.scrollOffset > 0 {
		b.WriteString(styles.HelpDesc.Render(fmt.Sprintf("  ↑ %d more above", v.scrollOffset)))
		b.WriteString("\n")
	}
	for i := v.scrollOffset; i < end; i++ {
		row := v.rows[i]
		if row.isHeader() {
			b.WriteString(v.renderHeader(row.partition, i == v.cursor))
		} else {
			b.WriteString(v.renderTask(row.task, i == v.cursor))
		}
		b.WriteString("\n")
	}
	if remaining := len(v.rows) - end; remaining > 0 {
		b.WriteString(styles.HelpDesc.Render(fmt.Sprintf("  ↓ %d more below", remaining)))
		b.WriteString("\n")
	}

	return b.String()
}

func sectionColor(t theme.Theme, p tracker.Partition) lipgloss.Color {
	switch p {
	case tracker.PartitionActive:
		return t.SectionActive
	case tracker.PartitionInactive:
		return t.SectionInactive
	default:
		return t.SectionArchived
	}
}

func (v ListView) renderHeader(p tracker.Partition, isCursor bool) string {
	t := theme.Current.Theme

	arrow := "▼"
	if v.collapsed[p] {
		arrow = "▶"
	}
	section := v.board.Section(p)
	label := fmt.Sprintf("%s %s (%d)", arrow, section.Name(), section.Count())

	style := lipgloss.NewStyle().Foreground(sectionColor(t, p)).Bold(true)
	if isCursor {
		style = style.Background(t.Highlight)
	}
	return style.Render(label)
}

func (v ListView) renderTask(task *model.Task, isCursor bool) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	marker := "  "
	if isCursor {
		marker = lipgloss.NewStyle().Foreground(t.Primary).Render("› ")
	}

	state := " "
	titleStyle := styles.TaskNormal
	if isCursor {
		titleStyle = styles.TaskSelected
	}
	switch {
	case task.IsInProgress():
		state = lipgloss.NewStyle().Foreground(t.SectionActive).Render("●")
		titleStyle = styles.TaskRunning
	case task.IsArchived():
		titleStyle = styles.TaskArchived
	}
	if isCursor {
		titleStyle = titleStyle.Background(t.Highlight)
	}

	size := lipgloss.NewStyle().
		Foreground(t.SizeColor(task.Size)).
		Width(4).
		Render(sizeBadge(task.Size))

	elapsed := task.TotalElapsed() + task.RunningFor(v.now)
	clock := styles.Elapsed.Width(8).Align(lipgloss.Right).Render(model.FormatDuration(elapsed))

	var tags string
	if len(task.Tags) > 0 {
		tags = " " + styles.Tag.Render("#"+strings.Join(task.Tags, " #"))
	}

	title := task.Title
	// prefix and suffix widths: marker 2, state 1, spaces 2, size 4, clock 8, tags
	room := v.width - 17 - lipgloss.Width(tags)
	if room > 3 && lipgloss.Width(title) > room {
		title = truncate(title, room)
	}

	return marker + state + " " + size + titleStyle.Render(title) + tags + " " + clock
}

func sizeBadge(s model.Size) string {
	if s == model.SizeNone || s == "" {
		return "·"
	}
	return string(s)
}

// truncate shortens s to n cells, ending with an ellipsis
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
