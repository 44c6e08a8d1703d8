package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sovanreach/weekplan/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	store, err := ctx.OpenSchedule()
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(store), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
