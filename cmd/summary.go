package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/capex/internal/cli"
	"github.com/theirongolddev/capex/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Year summary: totals by project and resource against budget",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	s, year, err := e.snapshot()
	if err != nil {
		return err
	}

	if len(s.Resources) == 0 && len(s.Projects) == 0 {
		fmt.Println("\n  Nothing tracked yet.")
		fmt.Println("  Add a resource with `capex resources add` and a project with `capex projects add`.")
		return nil
	}

	stats := pipeline.Summarize(s, year)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CAPEX  %d", year)))
	fmt.Println()

	rows := [][]string{
		{"Active resources", cli.FormatNumber(int64(stats.ActiveResources))},
		{"Projects", cli.FormatNumber(int64(stats.Projects))},
		cli.SeparatorRow,
		{"Forecast", cli.FormatCost(stats.TotalForecast)},
		{"Actual", cli.FormatCost(stats.TotalActual)},
		{"Actual vs forecast", cli.FormatDelta(stats.TotalActual - stats.TotalForecast)},
		cli.SeparatorRow,
		{"Budget", cli.FormatCost(stats.TotalBudget)},
	}
	if stats.TotalBudget > 0 {
		rows = append(rows, []string{"Budget used", cli.FormatPercent(stats.TotalForecast / stats.TotalBudget)})
	}
	over := cli.FormatNumber(int64(stats.OverBudget))
	if stats.OverBudget > 0 {
		over = cli.Warn(over)
	}
	rows = append(rows, []string{"Over budget", over})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if len(stats.ByProject) > 0 {
		fmt.Println()
		prows := make([][]string, 0, len(stats.ByProject))
		for _, p := range stats.ByProject {
			bar := cli.Muted(strings.Repeat("░", 20))
			if p.Budget != nil {
				bar = cli.RenderBudgetBar(p.Total, *p.Budget, 20)
			}
			used := "-"
			if p.Budget != nil {
				used = cli.FormatPercent(p.UsedPercent)
			}
			prows = append(prows, []string{
				p.PVNumber,
				truncate(p.Name, 24),
				cli.FormatCost(p.Total),
				cli.FormatBudget(p.Budget),
				bar,
				used,
				cli.FormatCost(p.Actual),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:    "By project",
			Headers:  []string{"PV", "Name", "Forecast", "Budget", "", "Used", "Actual"},
			Rows:     prows,
			LeftCols: 2,
		}))
	}

	if len(stats.ByResource) > 0 {
		fmt.Println()
		rrows := make([][]string, 0, len(stats.ByResource))
		for _, r := range stats.ByResource {
			rrows = append(rrows, []string{
				truncate(r.Name, 24),
				string(r.Location),
				truncate(r.Company, 18),
				cli.FormatCost(r.Rate),
				cli.FormatNumber(int64(r.Forecasts)),
				cli.FormatCost(r.Total),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:    "By resource",
			Headers:  []string{"Name", "Location", "Company", "Rate", "Forecasts", "Total"},
			Rows:     rrows,
			LeftCols: 3,
		}))
	}

	if len(stats.Monthly) > 0 {
		forecast := make([]float64, len(stats.Monthly))
		actual := make([]float64, len(stats.Monthly))
		for i, m := range stats.Monthly {
			forecast[i] = m.Forecast
			actual[i] = m.Actual
		}
		fmt.Println()
		fmt.Printf("  Forecast  %s\n", cli.RenderSparkline(forecast))
		fmt.Printf("  Actual    %s\n", cli.RenderSparkline(actual))
		fmt.Println(cli.Muted("            Jan ........ Dec"))
	}

	return nil
}
