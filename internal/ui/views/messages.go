package views

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/tock/internal/model"
	"github.com/dori/tock/internal/tracker"
)

// ErrorMsg carries a failure the view could not handle inline.
// The root model turns persistence errors into a blocking notice.
type ErrorMsg struct {
	Err error
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg { return ErrorMsg{Err: err} }
}

type tasksLoadedMsg struct {
	tasks []model.Task
	now   time.Time
	err   error
}

// tickMsg refreshes the running time shown for in-progress tasks
type tickMsg time.Time

type summaryLoadedMsg struct {
	summary tracker.Summary
	err     error
}

// taskActionMsg reports the outcome of start/stop/archive on one task
type taskActionMsg struct {
	task *model.Task
	verb string
	err  error
}

type taskDeletedMsg struct {
	title string
	err   error
}

type draftSubmittedMsg struct {
	task  *model.Task
	isNew bool
	err   error
}

// editorClosedMsg is sent when the editor is dismissed without saving
type editorClosedMsg struct{}
