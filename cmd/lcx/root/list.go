package root

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Giantpizzahead/life-coach-x/internal/catalog"
	"github.com/Giantpizzahead/life-coach-x/internal/engine"
	"github.com/Giantpizzahead/life-coach-x/internal/ui"
)

func newListCmd(a *app) *cobra.Command {
	var dueOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the task catalog by section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(a.cfg.CatalogPath)
			if err != nil {
				return err
			}
			loc, err := a.cfg.Location()
			if err != nil {
				return err
			}
			cal := engine.Calendar{RolloverHour: a.cfg.RolloverHour, Location: loc}
			today := cal.EffectiveDay(time.Now())

			var keep func(*engine.Task) bool
			if dueOnly {
				keep = func(t *engine.Task) bool { return engine.IsDue(t, today) }
			}

			out := cmd.OutOrStdout()
			groups := catalog.BySection(cat, keep)
			if len(groups) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(no tasks)"))
				return nil
			}
			for _, g := range groups {
				fmt.Fprintln(out, ui.H2.Render(g.Section.Name))
				for _, t := range g.Tasks {
					due := ui.Muted.Render("·")
					if engine.IsDue(t, today) {
						due = ui.Good.Render("●")
					}
					fmt.Fprintf(out, "%s %s %s %s\n", due, t.Name, ui.Muted.Render("("+t.ID+")"), ui.Muted.Render(t.Recurrence.String()))
					fmt.Fprintf(out, "    %s\n", ui.TierValues(t))
					for _, item := range catalog.Checklist(t.Description) {
						fmt.Fprintf(out, "    - %s\n", item.Text)
					}
				}
				fmt.Fprintln(out, "")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dueOnly, "due", false, "Only tasks due today")
	return cmd
}
