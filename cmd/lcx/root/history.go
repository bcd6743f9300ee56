package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
	"github.com/Giantpizzahead/life-coach-x/internal/ui"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the HP history, newest first",
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
			records, err := svc.History(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "History"))
			if len(records) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(no history yet)"))
				return nil
			}
			shown := 0
			for i := len(records) - 1; i >= 0 && (limit <= 0 || shown < limit); i-- {
				r := records[i]
				prev := 0
				if i > 0 {
					prev = records[i-1].TotalPoints
				}
				change := ""
				if i > 0 {
					change = ui.HP(r.TotalPoints-prev, true)
				}
				icon := ui.IconSun
				if r.Reason == engine.ReasonManualAdjustment {
					icon = ui.IconLoop
				}
				fmt.Fprintf(out, "%s %s %-18s %s %s\n", r.Day, icon, r.Reason, ui.FormatHP(r.TotalPoints), change)
				shown++
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 14, "Number of records to show (0 for all)")
	return cmd
}
