package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/capex/internal/cli"
	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/pipeline"
	"github.com/theirongolddev/capex/internal/tui"
)

var resourceFlags struct {
	id, name, location, company, start, end string
	rate                                    float64
	interactive                             bool
	all                                     bool
}

var resourcesCmd = &cobra.Command{
	Use:     "resources",
	Aliases: []string{"resource", "res"},
	Short:   "List and manage resources",
	RunE:    withEnv(runResourcesList),
}

var resourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resources active in the year with their forecast totals",
	Long: `List resources active in the selected year with their forecast totals.
Resources whose end date falls before the year are hidden; --all lists them
too, without a total.`,
	Args: cobra.NoArgs,
	RunE:  withEnv(runResourcesList),
}

var resourcesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a resource",
	Args:  cobra.NoArgs,
	RunE:  runResourcesAdd,
}

var resourcesEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a resource; the id cannot change",
	Args:  cobra.ExactArgs(1),
	RunE:  runResourcesEdit,
}

var resourcesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a resource; its forecasts are kept",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(e *env, args []string) error {
		if err := e.tracker.DeleteResource(args[0]); err != nil {
			return err
		}
		fmt.Println(cli.Success("Deleted resource %s", args[0]))
		return nil
	}),
}

func init() {
	for _, c := range []*cobra.Command{resourcesAddCmd, resourcesEditCmd} {
		f := c.Flags()
		f.StringVar(&resourceFlags.name, "name", "", "Full name")
		f.Float64Var(&resourceFlags.rate, "rate", 0, "Monthly rate")
		f.StringVar(&resourceFlags.location, "location", "", "Onshore or Offshore")
		f.StringVar(&resourceFlags.company, "company", "", "Company")
		f.StringVar(&resourceFlags.start, "start", "", "Start date (YYYY-MM-DD)")
		f.StringVar(&resourceFlags.end, "end", "", "End date (YYYY-MM-DD)")
		f.BoolVarP(&resourceFlags.interactive, "interactive", "i", false, "Fill in the fields with a form")
	}
	resourcesAddCmd.Flags().StringVar(&resourceFlags.id, "id", "", "Unique resource id")
	for _, c := range []*cobra.Command{resourcesCmd, resourcesListCmd} {
		c.Flags().BoolVarP(&resourceFlags.all, "all", "a", false, "Include resources that ended before the year")
	}

	resourcesCmd.AddCommand(resourcesListCmd, resourcesAddCmd, resourcesEditCmd, resourcesDeleteCmd)
	rootCmd.AddCommand(resourcesCmd)
}

func runResourcesList(e *env, _ []string) error {
	s, year, err := e.snapshot()
	if err != nil {
		return err
	}
	if len(s.Resources) == 0 {
		fmt.Println("\n  No resources yet. Add one with `capex resources add`.")
		return nil
	}
	list := pipeline.ResourceList(s, year, resourceFlags.all)
	if len(list) == 0 {
		fmt.Printf("\n  No resources active in %d. Use --all to list ended ones.\n", year)
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("RESOURCES  %d", year)))
	fmt.Println()

	fmt.Print(cli.RenderTable(resourceTable(list, year)))
	if hidden := len(s.Resources) - len(list); hidden > 0 {
		fmt.Println(cli.Muted(fmt.Sprintf("  %d ended before %d; --all to show", hidden, year)))
	}
	return nil
}

// resourceTable lays out a resource list. Ended resources show no total.
func resourceTable(list []pipeline.ResourceListRow, year int) cli.Table {
	rows := make([][]string, 0, len(list))
	for _, row := range list {
		r := row.Resource
		status, total := "active", cli.FormatCost(row.Total)
		if !row.Active {
			status, total = cli.Muted("ended"), cli.Muted("-")
		}
		rows = append(rows, []string{
			r.ID,
			truncate(r.FullName, 24),
			truncate(r.Company, 18),
			string(r.Location),
			cli.FormatCost(r.Rate),
			cli.FormatDate(r.StartDate),
			cli.FormatDate(r.EndDate),
			status,
			total,
		})
	}
	return cli.Table{
		Headers:  []string{"ID", "Name", "Company", "Location", "Rate", "Start", "End", "Status", fmt.Sprintf("Forecast %d", year)},
		Rows:     rows,
		LeftCols: 4,
	}
}

func runResourcesAdd(cmd *cobra.Command, _ []string) error {
	fields := tui.ResourceFields{}
	applyResourceFlags(cmd, &fields)
	if cmd.Flags().Changed("id") {
		fields.ID = resourceFlags.id
	}

	if resourceFlags.interactive {
		if err := tui.NewResourceForm(&fields, false).Run(); err != nil {
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

	r, err := e.tracker.AddResource(d)
	if err != nil {
		return err
	}
	fmt.Println(cli.Success("Added resource %s (%s)", r.ID, r.FullName))
	return nil
}

func runResourcesEdit(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	resources, err := e.tracker.Resources()
	if err != nil {
		return err
	}
	s := model.Snapshot{Resources: resources}
	existing, ok := s.Resource(args[0])
	if !ok {
		return fmt.Errorf("resource %q not found", args[0])
	}

	fields := tui.ResourceFieldsFrom(existing)
	applyResourceFlags(cmd, &fields)
	if resourceFlags.interactive {
		if err := tui.NewResourceForm(&fields, true).Run(); err != nil {
			return err
		}
	}
	d, err := fields.Draft()
	if err != nil {
		return err
	}

	r, err := e.tracker.UpdateResource(existing.ID, d)
	if err != nil {
		return err
	}
	fmt.Println(cli.Success("Updated resource %s", r.ID))
	return nil
}

// applyResourceFlags overlays only the flags the user actually set.
func applyResourceFlags(cmd *cobra.Command, f *tui.ResourceFields) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		f.FullName = resourceFlags.name
	}
	if flags.Changed("rate") {
		f.Rate = flags.Lookup("rate").Value.String()
	}
	if flags.Changed("location") {
		f.Location = resourceFlags.location
	}
	if flags.Changed("company") {
		f.Company = resourceFlags.company
	}
	if flags.Changed("start") {
		f.StartDate = resourceFlags.start
	}
	if flags.Changed("end") {
		f.EndDate = resourceFlags.end
	}
}
