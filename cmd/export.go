package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/capex/internal/cli"
	"github.com/theirongolddev/capex/internal/export"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export [resources|projects|forecasts|actuals|all]",
	Short: "Write tracker data as JSON",
	Long: "Write one collection, or the whole store, as indented JSON.\n" +
		"A whole-store export can be read back with `capex import`.",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"resources", "projects", "forecasts", "actuals", "all"},
	RunE: withEnv(func(e *env, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		}
		c, err := export.ParseCollection(name)
		if err != nil {
			return err
		}

		s, err := e.tracker.Snapshot()
		if err != nil {
			return err
		}

		if flagExportOut != "" && flagExportOut != "-" {
			if err := export.WriteFile(flagExportOut, s, c); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, cli.Success("Exported to %s", flagExportOut))
			return nil
		}
		return export.Write(os.Stdout, s, c)
	}),
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
