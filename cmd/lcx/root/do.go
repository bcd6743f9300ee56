package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
	"github.com/Giantpizzahead/life-coach-x/internal/ui"
)

func newDoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <task> <tier>",
		Short: "Mark a task for today (tier: none|minimum|full|bonus|unselected)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("task id and tier are required")
			}
			if _, err := engine.ParseTier(args[1]); err != nil {
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			tier, _ := engine.ParseTier(args[1])
			if _, err := svc.Select(ctx, args[0], tier); err != nil {
				var notOffered engine.TierNotOfferedError
				if errors.As(err, &notOffered) {
					task := svc.Catalog().Task(args[0])
					return fmt.Errorf("%w (offered: %s)", err, ui.TierValues(task))
				}
				return err
			}
			st, err := svc.Status(ctx)
			if err != nil {
				return err
			}

			task := svc.Catalog().Task(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
				ui.TierIcon(tier), task.Name, ui.TierText(tier),
				ui.Muted.Render(fmt.Sprintf("(%s at rollover)", ui.FormatDelta(engine.PointsFor(task, tier)))))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Today's preview", ui.HP(st.Preview, true)))
			return nil
		},
	}

	return cmd
}
