package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/tock/internal/app"
	"github.com/dori/tock/internal/ui"
	"github.com/dori/tock/internal/ui/theme"
)

// launchTUI runs the interactive UI until the user quits
func launchTUI(ctx context.Context, a *app.App) error {
	if err := theme.SetTheme(a.Config.UI.Theme); err != nil {
		return err
	}

	p := tea.NewProgram(
		ui.NewRootModel(ctx, a.Tracker, a.Logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
