package theme

import "github.com/charmbracelet/lipgloss"

// Nord is an arctic, north-bluish palette
// https://www.nordtheme.com/
var Nord = Theme{
	Name: "nord",

	// Polar Night
	Background: lipgloss.Color("#2E3440"),
	Foreground: lipgloss.Color("#ECEFF4"),
	Subtle:     lipgloss.Color("#4C566A"),
	Highlight:  lipgloss.Color("#3B4252"),
	Border:     lipgloss.Color("#4C566A"),

	// Frost
	Primary:   lipgloss.Color("#88C0D0"),
	Secondary: lipgloss.Color("#81A1C1"),
	Info:      lipgloss.Color("#5E81AC"),

	// Aurora
	Success: lipgloss.Color("#A3BE8C"),
	Warning: lipgloss.Color("#EBCB8B"),
	Error:   lipgloss.Color("#BF616A"),

	SectionActive:   lipgloss.Color("#A3BE8C"),
	SectionInactive: lipgloss.Color("#EBCB8B"),
	SectionArchived: lipgloss.Color("#4C566A"),

	SizeSmall:  lipgloss.Color("#8FBCBB"),
	SizeMedium: lipgloss.Color("#D08770"),
	SizeLarge:  lipgloss.Color("#B48EAD"),
}
