package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/theirongolddev/capex/internal/config"
	"github.com/theirongolddev/capex/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	path := config.DBPath(cfg)
	if flagDB != "" {
		path = flagDB
	}
	fmt.Printf("    Store:        %s\n", path)
	fmt.Printf("    Last saved:   %s\n", lastSaved(path))
	if cfg.General.DefaultYear > 0 {
		fmt.Printf("    Default year: %d\n", cfg.General.DefaultYear)
	} else {
		fmt.Println("    Default year: current year")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", cfg.Log.Level)
	fmt.Printf("    Format: %s\n", cfg.Log.Format)
	fmt.Println()

	fmt.Println("  Run `capex setup` to reconfigure.")
	return nil
}

// lastSaved describes the store's most recent write without creating the
// database when it does not exist yet.
func lastSaved(path string) string {
	if _, err := os.Stat(path); err != nil {
		return "never"
	}
	db, err := store.Open(path, zerolog.Nop())
	if err != nil {
		return "unreadable: " + err.Error()
	}
	defer db.Close()

	ts, err := db.LastSaved()
	switch {
	case err != nil:
		return "unreadable: " + err.Error()
	case ts.IsZero():
		return "never"
	default:
		return ts.Local().Format("2006-01-02 15:04")
	}
}
