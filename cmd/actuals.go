package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/capex/internal/cli"
	"github.com/theirongolddev/capex/internal/pipeline"
	"github.com/theirongolddev/capex/internal/types"
)

var actualsCmd = &cobra.Command{
	Use:     "actuals",
	Aliases: []string{"actual"},
	Short:   "Actual monthly capital costs",
	Long: "Actual costs for a month fulfil the forecast allocation of the month before.\n" +
		"A month can only take a value when that allocation is above zero.",
	RunE: withEnv(runActualsList),
}

var actualsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show actuals for the year against the prior-month forecast",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runActualsList),
}

var actualsSetCmd = &cobra.Command{
	Use:   "set <resource-id> <pv-number> <YYYY-MM> <cost>",
	Short: "Record or replace the actual cost for a month",
	Args:  cobra.ExactArgs(4),
	RunE: withEnv(func(e *env, args []string) error {
		m, err := parseMonthArg(args[2])
		if err != nil {
			return err
		}
		a, _, err := e.tracker.SetActualInput(args[0], args[1], m, strings.TrimPrefix(args[3], "$"))
		if err != nil {
			return err
		}
		fmt.Println(cli.Success("%s %s on %s: %s", m.Label(), a.ResourceID, a.ProjectPVNumber, cli.FormatCost(a.CapitalCost)))
		return nil
	}),
}

var actualsClearCmd = &cobra.Command{
	Use:   "clear <resource-id> <pv-number> <YYYY-MM>",
	Short: "Remove the actual cost for a month",
	Args:  cobra.ExactArgs(3),
	RunE: withEnv(func(e *env, args []string) error {
		m, err := parseMonthArg(args[2])
		if err != nil {
			return err
		}
		if _, _, err := e.tracker.SetActual(args[0], args[1], m, nil); err != nil {
			return err
		}
		fmt.Println(cli.Success("%s %s on %s: cleared", m.Label(), args[0], args[1]))
		return nil
	}),
}

func init() {
	actualsCmd.AddCommand(actualsListCmd, actualsSetCmd, actualsClearCmd)
	rootCmd.AddCommand(actualsCmd)
}

func runActualsList(e *env, _ []string) error {
	s, year, err := e.snapshot()
	if err != nil {
		return err
	}
	rows := pipeline.ActualGrid(s, year)
	if len(rows) == 0 {
		fmt.Println("\n  No forecasts yet. Actuals are recorded against forecast pairs.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("ACTUALS  %d", year)))
	fmt.Println()

	headers := []string{"Resource", "Project"}
	for _, m := range types.MonthsOfYear(year) {
		headers = append(headers, cli.FormatMonthHeader(m))
	}
	headers = append(headers, "Total")

	var orphans int
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := []string{truncate(r.ResourceName, 18), truncate(r.ProjectName, 18)}
		for _, c := range r.Cells {
			switch {
			case !c.Expected && c.Actual != nil:
				orphans++
				line = append(line, cli.Warn(cli.FormatCompactCost(*c.Actual)+"!"))
			case !c.Expected:
				line = append(line, cli.Muted("·"))
			case c.Actual != nil:
				line = append(line, cli.FormatCompactCost(*c.Actual))
			default:
				line = append(line, "")
			}
		}
		line = append(line, cli.FormatCost(r.Total))
		table = append(table, line)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  headers,
		Rows:     table,
		LeftCols: 2,
	}))
	fmt.Println(cli.Muted("  · no allocation in the previous month"))
	if orphans > 0 {
		fmt.Printf("  %s\n", cli.Warn(fmt.Sprintf("%d actual(s) no longer backed by a forecast; clear them with `capex actuals clear`", orphans)))
		e.log.Warn().Int("count", orphans).Int("year", year).Msg("unexpected actuals")
	}
	return nil
}
