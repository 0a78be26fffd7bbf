package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/capex/internal/cli"
	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/pipeline"
	"github.com/theirongolddev/capex/internal/types"
)

var flagForecastCosts bool

var forecastsCmd = &cobra.Command{
	Use:     "forecasts",
	Aliases: []string{"forecast", "fc"},
	Short:   "Monthly allocation forecasts",
	RunE:    withEnv(runForecastsList),
}

var forecastsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the twelve-month allocation grid for the year",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runForecastsList),
}

var forecastsAddCmd = &cobra.Command{
	Use:   "add <resource-id> <pv-number>",
	Short: "Start an empty forecast for a resource on a project",
	Args:  cobra.ExactArgs(2),
	RunE: withEnv(func(e *env, args []string) error {
		year, err := e.year()
		if err != nil {
			return err
		}
		f, err := e.tracker.AddForecastForYear(args[0], args[1], year)
		if err != nil {
			return err
		}
		fmt.Println(cli.Success("Added forecast %s for %s on %s", shortID(f.ID), f.ResourceID, f.ProjectPVNumber))
		return nil
	}),
}

var forecastsSetCmd = &cobra.Command{
	Use:   "set <forecast-id> <YYYY-MM> [percent]",
	Short: "Set a month's allocation percentage; omit the percent to clear it",
	Long: "Set a month's allocation percentage. Values are clamped to 0-100.\n" +
		"The forecast id may be abbreviated to any unique prefix.",
	Args: cobra.RangeArgs(2, 3),
	RunE: withEnv(func(e *env, args []string) error {
		forecasts, err := e.tracker.Forecasts()
		if err != nil {
			return err
		}
		id, err := resolveForecastID(forecasts, args[0])
		if err != nil {
			return err
		}
		m, err := parseMonthArg(args[1])
		if err != nil {
			return err
		}
		raw := ""
		if len(args) == 3 {
			raw = strings.TrimSuffix(strings.TrimSpace(args[2]), "%")
		}

		f, err := e.tracker.SetAllocationInput(id, m, raw)
		if err != nil {
			return err
		}
		if pct, ok := f.Allocation(m); ok {
			fmt.Println(cli.Success("%s %s on %s: %s", m.Label(), f.ResourceID, f.ProjectPVNumber, cli.FormatAllocation(pct)))
		} else {
			fmt.Println(cli.Success("%s %s on %s: cleared", m.Label(), f.ResourceID, f.ProjectPVNumber))
		}
		return nil
	}),
}

var forecastsDeleteCmd = &cobra.Command{
	Use:   "delete <forecast-id>",
	Short: "Delete a forecast; its actuals are kept",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(e *env, args []string) error {
		forecasts, err := e.tracker.Forecasts()
		if err != nil {
			return err
		}
		id, err := resolveForecastID(forecasts, args[0])
		if err != nil {
			return err
		}
		if err := e.tracker.DeleteForecast(id); err != nil {
			return err
		}
		fmt.Println(cli.Success("Deleted forecast %s", shortID(id)))
		return nil
	}),
}

func init() {
	forecastsListCmd.Flags().BoolVar(&flagForecastCosts, "costs", false, "Show monthly cost instead of allocation")
	forecastsCmd.Flags().BoolVar(&flagForecastCosts, "costs", false, "Show monthly cost instead of allocation")

	forecastsCmd.AddCommand(forecastsListCmd, forecastsAddCmd, forecastsSetCmd, forecastsDeleteCmd)
	rootCmd.AddCommand(forecastsCmd)
}

func runForecastsList(e *env, _ []string) error {
	s, year, err := e.snapshot()
	if err != nil {
		return err
	}
	rows := pipeline.ForecastGrid(s, year)
	if len(rows) == 0 {
		fmt.Println("\n  No forecasts yet. Start one with `capex forecasts add <resource-id> <pv-number>`.")
		return nil
	}

	fmt.Println()
	title := fmt.Sprintf("FORECASTS  %d  allocation", year)
	if flagForecastCosts {
		title = fmt.Sprintf("FORECASTS  %d  monthly cost", year)
	}
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	headers := []string{"ID", "Resource", "Project"}
	for _, m := range types.MonthsOfYear(year) {
		headers = append(headers, cli.FormatMonthHeader(m))
	}
	headers = append(headers, "Total")

	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		name := truncate(r.ResourceName, 18)
		if !r.Active {
			name = cli.Muted(name)
		}
		line := []string{shortID(r.ForecastID), name, truncate(r.ProjectName, 18)}
		for _, c := range r.Cells {
			switch {
			case !c.Set:
				line = append(line, "")
			case flagForecastCosts:
				line = append(line, cli.FormatCompactCost(c.Cost))
			default:
				line = append(line, cli.FormatAllocation(c.Allocation))
			}
		}
		line = append(line, cli.FormatCost(r.Total))
		table = append(table, line)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  headers,
		Rows:     table,
		LeftCols: 3,
	}))
	return nil
}

// resolveForecastID accepts a full id or a unique prefix of one.
func resolveForecastID(forecasts []model.Forecast, prefix string) (string, error) {
	var matches []string
	for _, f := range forecasts {
		if f.ID == prefix {
			return f.ID, nil
		}
		if strings.HasPrefix(f.ID, prefix) {
			matches = append(matches, f.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("forecast %q not found", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("forecast id %q is ambiguous (%d matches)", prefix, len(matches))
	}
}
