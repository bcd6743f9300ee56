package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Giantpizzahead/life-coach-x/internal/ui"
)

func newRolloverCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollover",
		Short: "Close out every day that has ended",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			before, err := svc.Status(ctx)
			if err != nil {
				return err
			}
			snap, n, err := svc.Rollover(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if n == 0 {
				fmt.Fprintf(out, "%s %s\n", ui.Muted.Render(ui.IconInfo+" Nothing to roll over; next rollover at"), before.NextRollover.Format("Mon Jan 2 15:04"))
				return nil
			}
			fmt.Fprintf(out, "%s %d day(s)\n", ui.Good.Render(ui.IconSun+" Rolled over"), n)
			fmt.Fprintln(out, ui.LabelValue("HP", fmt.Sprintf("%s → %s", ui.FormatHP(before.Snapshot.TotalPoints), ui.HP(snap.TotalPoints, false))))
			return nil
		},
	}

	return cmd
}
