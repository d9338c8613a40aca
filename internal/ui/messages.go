package ui

// View represents the current active tab
type View int

const (
	ViewTasks View = iota
	ViewSummary
	viewCount
)

// String returns the tab label for a view
func (v View) String() string {
	switch v {
	case ViewTasks:
		return "Tasks"
	case ViewSummary:
		return "Summary"
	default:
		return "Unknown"
	}
}

// Views returns the tabs in display order
func Views() []View {
	return []View{ViewTasks, ViewSummary}
}

// SwitchViewMsg requests a tab change
type SwitchViewMsg struct {
	View View
}

// ThemeChangedMsg indicates the theme was changed
type ThemeChangedMsg struct {
	ThemeName string
}
