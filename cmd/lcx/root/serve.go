package root

import (
	"github.com/spf13/cobra"

	"github.com/Giantpizzahead/life-coach-x/internal/syncserver"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the profile over HTTP for other devices",
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
			cfg := a.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}
			srv := syncserver.New(svc, cfg, syncserver.Options{Logger: a.log})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
