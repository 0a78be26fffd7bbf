package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/capex/internal/cli"
	"github.com/theirongolddev/capex/internal/pipeline"
	"github.com/theirongolddev/capex/internal/tui"
)

var projectFlags struct {
	pv, name, account string
	budget            float64
	noBudget          bool
	interactive       bool
}

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project", "proj"},
	Short:   "List and manage projects",
	RunE:    withEnv(runProjectsList),
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects with forecast totals against budget",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runProjectsList),
}

var projectsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a project",
	Args:  cobra.NoArgs,
	RunE:  runProjectsAdd,
}

var projectsEditCmd = &cobra.Command{
	Use:   "edit <pv-number>",
	Short: "Edit a project; the PV number cannot change",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsEdit,
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <pv-number>",
	Short: "Delete a project; its forecasts are kept",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(e *env, args []string) error {
		if err := e.tracker.DeleteProject(args[0]); err != nil {
			return err
		}
		fmt.Println(cli.Success("Deleted project %s", args[0]))
		return nil
	}),
}

func init() {
	for _, c := range []*cobra.Command{projectsAddCmd, projectsEditCmd} {
		f := c.Flags()
		f.StringVar(&projectFlags.name, "name", "", "Project name")
		f.StringVar(&projectFlags.account, "account", "", "Oracle account")
		f.Float64Var(&projectFlags.budget, "budget", 0, "Budget ceiling")
		f.BoolVarP(&projectFlags.interactive, "interactive", "i", false, "Fill in the fields with a form")
	}
	projectsAddCmd.Flags().StringVar(&projectFlags.pv, "pv", "", "Unique PV number")
	projectsEditCmd.Flags().BoolVar(&projectFlags.noBudget, "no-budget", false, "Remove the budget")

	projectsCmd.AddCommand(projectsListCmd, projectsAddCmd, projectsEditCmd, projectsDeleteCmd)
	rootCmd.AddCommand(projectsCmd)
}

func runProjectsList(e *env, _ []string) error {
	s, year, err := e.snapshot()
	if err != nil {
		return err
	}
	if len(s.Projects) == 0 {
		fmt.Println("\n  No projects yet. Add one with `capex projects add`.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PROJECTS  %d", year)))
	fmt.Println()

	rows := make([][]string, 0, len(s.Projects))
	for _, p := range s.Projects {
		total := pipeline.TotalByProject(s, p.PVNumber, year)
		used := "-"
		if p.HasBudget() && *p.Budget > 0 {
			used = cli.FormatPercent(total / *p.Budget)
		}
		status := ""
		if pipeline.IsOverBudget(s, p.PVNumber, year) {
			status = cli.Warn("over budget")
		}
		rows = append(rows, []string{
			p.PVNumber,
			truncate(p.Name, 24),
			p.OracleAccount,
			cli.FormatBudget(p.Budget),
			cli.FormatCost(total),
			used,
			cli.FormatCost(pipeline.ActualTotalByProject(s, p.PVNumber, year)),
			status,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"PV", "Name", "Oracle Account", "Budget", fmt.Sprintf("Forecast %d", year), "Used", "Actual", ""},
		Rows:     rows,
		LeftCols: 3,
	}))
	return nil
}

func runProjectsAdd(cmd *cobra.Command, _ []string) error {
	fields := tui.ProjectFields{}
	applyProjectFlags(cmd, &fields)
	if cmd.Flags().Changed("pv") {
		fields.PVNumber = projectFlags.pv
	}

	if projectFlags.interactive {
		if err := tui.NewProjectForm(&fields, false).Run(); err != nil {
			return err
		}
	}
	d, err := fields.Draft()
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	p, err := e.tracker.AddProject(d)
	if err != nil {
		return err
	}
	fmt.Println(cli.Success("Added project %s (%s)", p.PVNumber, p.Name))
	return nil
}

func runProjectsEdit(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	s, err := e.tracker.Snapshot()
	if err != nil {
		return err
	}
	existing, ok := s.Project(args[0])
	if !ok {
		return fmt.Errorf("project %q not found", args[0])
	}

	fields := tui.ProjectFieldsFrom(existing)
	applyProjectFlags(cmd, &fields)
	if projectFlags.noBudget {
		fields.Budget = ""
	}
	if projectFlags.interactive {
		if err := tui.NewProjectForm(&fields, true).Run(); err != nil {
			return err
		}
	}
	d, err := fields.Draft()
	if err != nil {
		return err
	}

	p, err := e.tracker.UpdateProject(existing.PVNumber, d)
	if err != nil {
		return err
	}
	fmt.Println(cli.Success("Updated project %s", p.PVNumber))
	return nil
}

func applyProjectFlags(cmd *cobra.Command, f *tui.ProjectFields) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		f.Name = projectFlags.name
	}
	if flags.Changed("account") {
		f.OracleAccount = projectFlags.account
	}
	if flags.Changed("budget") {
		f.Budget = flags.Lookup("budget").Value.String()
	}
}
