package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/capex/internal/cli"
)

var yearCmd = &cobra.Command{
	Use:   "year [YYYY|next|prev]",
	Short: "Show or change the selected year",
	Args:  cobra.MaximumNArgs(1),
	RunE: withEnv(func(e *env, args []string) error {
		current, err := e.tracker.SelectedYear()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			fmt.Println(current)
			return nil
		}

		var year int
		switch args[0] {
		case "next":
			year = current + 1
		case "prev":
			year = current - 1
		default:
			year, err = strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("year %q: expected YYYY, next or prev", args[0])
			}
		}

		if err := e.tracker.SetSelectedYear(year); err != nil {
			return err
		}
		fmt.Println(cli.Success("Selected %d", year))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(yearCmd)
}
