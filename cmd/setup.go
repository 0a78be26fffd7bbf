package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/capex/internal/config"
	"github.com/theirongolddev/capex/internal/tui"
	"github.com/theirongolddev/capex/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		// A broken file is replaced by whatever the wizard produces.
		cfg = config.DefaultConfig()
	}
	theme.SetActive(cfg.Appearance.Theme)

	values := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(&values).Run(); err != nil {
		return err
	}
	if err := values.Apply(&cfg); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `capex setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
