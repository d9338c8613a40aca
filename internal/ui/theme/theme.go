package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tock/internal/model"
)

// Theme defines the color scheme for the UI
type Theme struct {
	Name string

	// Base colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	// Section colors
	SectionActive   lipgloss.Color
	SectionInactive lipgloss.Color
	SectionArchived lipgloss.Color

	// Size colors, smallest to largest
	SizeSmall  lipgloss.Color
	SizeMedium lipgloss.Color
	SizeLarge  lipgloss.Color
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	Header lipgloss.Style
	Footer lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	// Task rows
	TaskNormal   lipgloss.Style
	TaskSelected lipgloss.Style
	TaskRunning  lipgloss.Style
	TaskArchived lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Tag      lipgloss.Style
	Elapsed  lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style
	FieldError   lipgloss.Style

	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
	Notice     lipgloss.Style

	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style

	StatusBar lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 1),

		TabActive: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Bold(true).
			Padding(0, 1),

		TabInactive: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 1),

		TaskNormal: lipgloss.NewStyle().
			Foreground(t.Foreground),

		TaskSelected: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Highlight).
			Bold(true),

		TaskRunning: lipgloss.NewStyle().
			Foreground(t.SectionActive).
			Bold(true),

		TaskArchived: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Italic(true),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Italic(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Tag: lipgloss.NewStyle().
			Foreground(t.Info),

		Elapsed: lipgloss.NewStyle().
			Foreground(t.Secondary),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		FieldError: lipgloss.NewStyle().
			Foreground(t.Error).
			Italic(true).
			PaddingLeft(1),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),

		PanelTitle: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Notice: lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(t.Error).
			Foreground(t.Foreground).
			Padding(1, 3),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),

		HelpSeparator: lipgloss.NewStyle().
			Foreground(t.Border),

		StatusBar: lipgloss.NewStyle().
			Background(t.Highlight).
			Foreground(t.Foreground).
			Padding(0, 1),
	}
}

// SizeColor picks the badge color for a task size
func (t Theme) SizeColor(s model.Size) lipgloss.Color {
	switch s {
	case model.SizeXS, model.SizeS:
		return t.SizeSmall
	case model.SizeM:
		return t.SizeMedium
	case model.SizeL, model.SizeXL:
		return t.SizeLarge
	default:
		return t.Subtle
	}
}

// Current holds the current active theme and styles
var Current = struct {
	Theme  Theme
	Styles Styles
}{
	Theme:  Nord,
	Styles: NewStyles(Nord),
}

// Use installs t as the current theme
func Use(t Theme) {
	Current.Theme = t
	Current.Styles = NewStyles(t)
}

// SetTheme installs the theme with the given name. An empty name keeps
// the current theme.
func SetTheme(name string) error {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	t, ok := ByName(name)
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	Use(t)
	return nil
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Nord,
		Dracula,
	}
}

// Names returns the names of all available themes
func Names() []string {
	var names []string
	for _, t := range Available() {
		names = append(names, t.Name)
	}
	return names
}

// ByName returns a theme by its name, ignoring case
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, true
		}
	}
	return Theme{}, false
}

// Next returns the theme after the current one, wrapping around
func Next() Theme {
	themes := Available()
	for i, t := range themes {
		if t.Name == Current.Theme.Name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}
