package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/theirongolddev/capex/internal/config"
	"github.com/theirongolddev/capex/internal/tracker"
	"github.com/theirongolddev/capex/internal/tui"
	"github.com/theirongolddev/capex/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive dashboard",
	RunE:  withEnv(runTUI),
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(e *env, _ []string) error {
	theme.SetActive(e.cfg.Appearance.Theme)

	// Force TrueColor so background styling always produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Log lines on stderr would tear the alternate screen.
	quiet := zerolog.Nop()
	tr := tracker.New(e.db, quiet, tracker.WithDefaultYear(e.cfg.General.DefaultYear))

	app := tui.NewApp(tr, quiet, tui.Options{
		Year:     flagYear,
		FirstRun: !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
