package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Giantpizzahead/life-coach-x/internal/ui"
)

func newStatusCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show HP and today's tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := svc.Open(ctx); err != nil {
				return err
			}
			st, err := svc.Status(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconHeart, "Status"))
			fmt.Fprintln(out, ui.LabelValue("Profile", svc.Profile()))
			fmt.Fprintln(out, ui.LabelValue("HP", ui.HP(st.Snapshot.TotalPoints, false)))
			fmt.Fprintln(out, ui.LabelValue("Today", fmt.Sprintf("%s %s", st.OpenDay, ui.Muted.Render("(preview "+ui.FormatDelta(st.Preview)+")"))))
			fmt.Fprintln(out, ui.LabelValue("Next rollover", st.NextRollover.Format("Mon Jan 2 15:04")))
			fmt.Fprintln(out, "")

			if len(st.Groups) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("Nothing due today."))
				return nil
			}
			for _, g := range st.Groups {
				fmt.Fprintln(out, ui.H2.Render(g.Section.Name))
				for _, l := range g.Lines {
					line := fmt.Sprintf("- %s %s %s %s", ui.TierIcon(l.Stored), l.Task.Name, ui.Muted.Render("("+l.Task.ID+")"), ui.TierText(l.Stored))
					if l.Stale {
						line += " " + ui.Warn.Render(ui.IconWarn+" not offered, scores 0")
					}
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, "")
			}
			return nil
		},
	}

	return cmd
}
