package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/capex/internal/cli"
	"github.com/theirongolddev/capex/internal/export"
)

var flagImportForce bool

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace the store with a JSON export",
	Long: "Replace all resources, projects, forecasts and actuals with the contents of a\n" +
		"whole-store export. The document is validated before anything is written.",
	Args: cobra.ExactArgs(1),
	RunE: withEnv(func(e *env, args []string) error {
		var r io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}

		s, err := export.Read(r)
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		current, err := e.tracker.Snapshot()
		if err != nil {
			return err
		}
		empty := len(current.Resources) == 0 && len(current.Projects) == 0 &&
			len(current.Forecasts) == 0 && len(current.Actuals) == 0
		if !empty && !flagImportForce {
			return errors.New("store is not empty; pass --force to replace it")
		}

		if err := e.tracker.Import(s); err != nil {
			return err
		}
		fmt.Println(cli.Success("Imported %d resources, %d projects, %d forecasts, %d actuals",
			len(s.Resources), len(s.Projects), len(s.Forecasts), len(s.Actuals)))
		return nil
	}),
}

func init() {
	importCmd.Flags().BoolVar(&flagImportForce, "force", false, "Replace existing data")
	rootCmd.AddCommand(importCmd)
}
