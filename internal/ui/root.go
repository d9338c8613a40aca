package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tock/internal/model"
	"github.com/dori/tock/internal/tracker"
	"github.com/dori/tock/internal/ui/theme"
	"github.com/dori/tock/internal/ui/views"
	"go.uber.org/zap"
)

// RootModel is the main application model that manages the tabs
type RootModel struct {
	logger *zap.Logger
	keys   KeyMap
	help   help.Model
	width  int
	height int

	currentView View
	listView    views.ListView
	summaryView views.SummaryView
	helpVisible bool

	statusMsg string
	errorMsg  string
	notice    string // blocking storage failure, dismissed by any key
}

// NewRootModel creates a new root model
func NewRootModel(ctx context.Context, tr *tracker.Tracker, logger *zap.Logger) RootModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := help.New()
	h.ShowAll = true

	return RootModel{
		logger:      logger,
		keys:        DefaultKeyMap(),
		help:        h,
		currentView: ViewTasks,
		listView:    views.NewListView(ctx, tr, logger.Named("list")),
		summaryView: views.NewSummaryView(ctx, tr),
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return m.listView.Init()
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// header (2 lines) and footer (2 lines)
		contentHeight := m.height - 4
		m.listView = m.listView.SetSize(m.width, contentHeight)
		m.summaryView = m.summaryView.SetSize(m.width, contentHeight)
		return m, nil

	case views.ErrorMsg:
		if model.IsPersistence(msg.Err) {
			m.logger.Error("storage failure shown to user", zap.Error(msg.Err))
			m.notice = msg.Err.Error()
			return m, nil
		}
		m.errorMsg = msg.Err.Error()
		return m, nil

	case SwitchViewMsg:
		return m.switchView(msg.View)

	case ThemeChangedMsg:
		m.statusMsg = fmt.Sprintf("Theme: %s", msg.ThemeName)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.notice != "" {
			m.notice = ""
			return m, nil
		}

		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := m.currentView == ViewTasks && m.listView.IsInputMode()

		switch {
		case key.Matches(msg, m.keys.ThemeCycle):
			return m, cycleTheme()
		case isInputMode:
			// the view owns every other key while typing
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = !m.helpVisible
			return m, nil
		case m.helpVisible:
			if msg.String() == "esc" {
				m.helpVisible = false
			}
			return m, nil
		case key.Matches(msg, m.keys.TasksView):
			return m.switchView(ViewTasks)
		case key.Matches(msg, m.keys.SummaryView):
			return m.switchView(ViewSummary)
		case key.Matches(msg, m.keys.NextTab):
			return m.switchView((m.currentView + 1) % viewCount)
		}

		var cmd tea.Cmd
		switch m.currentView {
		case ViewTasks:
			m.listView, cmd = m.listView.Update(msg)
		case ViewSummary:
			m.summaryView, cmd = m.summaryView.Update(msg)
		}
		return m, cmd
	}

	// Loader results and ticks go to both tabs; each ignores what is not its own.
	var listCmd, summaryCmd tea.Cmd
	m.listView, listCmd = m.listView.Update(msg)
	m.summaryView, summaryCmd = m.summaryView.Update(msg)
	return m, tea.Batch(listCmd, summaryCmd)
}

func (m RootModel) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	m.helpVisible = false
	switch v {
	case ViewSummary:
		return m, m.summaryView.Init()
	default:
		return m, m.listView.Reload()
	}
}

// cycleTheme installs the next theme and reports it
func cycleTheme() tea.Cmd {
	next := theme.Next()
	theme.Use(next)
	return func() tea.Msg {
		return ThemeChangedMsg{ThemeName: next.Name}
	}
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	contentHeight := m.height - 4
	var content string
	switch {
	case m.notice != "":
		content = m.renderNotice(contentHeight)
	case m.helpVisible:
		content = m.renderHelp()
	case m.currentView == ViewSummary:
		content = m.summaryView.View()
	default:
		content = m.listView.View()
	}

	// fill the content area so the footer stays at the bottom
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}

	return strings.Join([]string{m.renderHeader(), content, m.renderFooter()}, "\n")
}

// renderHeader renders the title and tab bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("tock")

	var tabs []string
	for i, v := range Views() {
		label := fmt.Sprintf("%d %s", i+1, v)
		if v == m.currentView {
			tabs = append(tabs, styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, styles.TabInactive.Render(label))
		}
	}

	themeIndicator := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1).
		Render(fmt.Sprintf("theme: %s", t.Name))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, append([]string{title}, tabs...)...)
	gap := max(0, m.width-lipgloss.Width(leftSide)-lipgloss.Width(themeIndicator))

	return leftSide + strings.Repeat(" ", gap) + themeIndicator + "\n"
}

// renderFooter renders the status line and key hints
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	hint := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var statusLine string
	if m.errorMsg != "" {
		statusLine = styles.StatusBar.Foreground(t.Error).Render(m.errorMsg)
	} else if m.statusMsg != "" {
		statusLine = styles.StatusBar.Foreground(t.Info).Render(m.statusMsg)
	}

	var hints string
	switch {
	case m.notice != "":
		hints = hint("any key", "dismiss")
	case m.helpVisible:
		hints = hint("?/esc", "close help")
	case m.currentView == ViewSummary:
		hints = hint("j/k", "scroll") + sep +
			hint("r", "refresh") + sep +
			hint("1/tab", "tasks") + sep +
			hint("q", "quit")
	default:
		switch m.listView.Mode() {
		case views.ListModeSearch:
			hints = hint("enter", "keep filter") + sep + hint("esc", "clear")
		case views.ListModeConfirmDelete:
			hints = hint("y", "delete") + sep + hint("n/esc", "cancel")
		case views.ListModeEdit:
			hints = hint("tab", "next field") + sep + hint("enter", "save") + sep + hint("esc", "discard")
		default:
			hints = hint("a", "add") + sep +
				hint("e", "edit") + sep +
				hint("s", "start/stop") + sep +
				hint("x", "archive") + sep +
				hint("d", "del") + sep +
				hint("/", "search") + sep +
				hint("?", "help")
		}
	}

	return statusLine + "\n" + styles.Footer.Render(hints)
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	styles := theme.Current.Styles

	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render("tock help"))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpDesc.Render("Editor: tab/shift+tab move between fields, ←/→ change size, ctrl+n/ctrl+x add or remove an interval, ctrl+s save, esc discard"))
	return styles.Panel.Render(b.String())
}

// renderNotice renders the blocking storage failure box
func (m RootModel) renderNotice(height int) string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	heading := lipgloss.NewStyle().Foreground(t.Error).Bold(true).Render("Storage error")
	body := lipgloss.NewStyle().Width(min(60, max(20, m.width-10))).Render(m.notice)
	box := styles.Notice.Render(heading + "\n\n" + body + "\n\n" + styles.HelpDesc.Render("Press any key to continue"))

	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, box)
}
