package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Giantpizzahead/life-coach-x/internal/gateway"
	"github.com/Giantpizzahead/life-coach-x/internal/ui"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Move the local snapshot to remote storage",
		Long: `Copy the profile's local snapshot to Redis and clear the local copy.
Nothing is copied when the remote store already holds a snapshot for the profile.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			local, err := openLocal(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer local.Close()
			rg := a.openRemote()
			defer rg.Close()
			if err := rg.Ping(ctx); err != nil {
				return err
			}

			res, err := gateway.Migrate(ctx, local, rg, a.cfg.Profile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case res.Copied:
				fmt.Fprintf(out, "%s profile %s to %s\n", ui.Good.Render(ui.IconDone+" Migrated"), a.cfg.Profile, a.cfg.Storage.Remote.Addr)
				fmt.Fprintln(out, ui.Muted.Render("Set storage.backend: remote to keep using it."))
			default:
				fmt.Fprintln(out, ui.Muted.Render(ui.IconInfo+" Nothing to migrate (no local snapshot, or remote already has one)."))
			}
			return nil
		},
	}

	return cmd
}
