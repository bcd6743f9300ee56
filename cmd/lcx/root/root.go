package root

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Giantpizzahead/life-coach-x/internal/config"
	"github.com/Giantpizzahead/life-coach-x/internal/logging"
	"github.com/Giantpizzahead/life-coach-x/internal/ui"
)

const Version = "0.1.0"

// GlobalFlags are the persistent flags shared by every command.
type GlobalFlags struct {
	ConfigPath string
	Profile    string
	Backend    string
	Verbose    bool
	Quiet      bool
}

// app is the state built once per invocation by PersistentPreRunE.
type app struct {
	flags *GlobalFlags
	cfg   *config.Config
	log   zerolog.Logger
	// stderr receives console logs; tests point it at a buffer.
	stderr io.Writer
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lcx",
		Short:         "Daily habit tracker with an HP score",
		Long:          "lcx tracks recurring daily tasks. Each task is marked none, minimum, full or bonus; at the daily rollover the day's points are added to your HP.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context())
		},
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	f := a.flags
	cmd.PersistentFlags().StringVar(&f.ConfigPath, "config", "", "Config file (default ~/.lcx/config.yaml)")
	cmd.PersistentFlags().StringVarP(&f.Profile, "profile", "p", "", "Profile to operate on")
	cmd.PersistentFlags().StringVar(&f.Backend, "backend", "", "Storage backend (local|remote|memory)")
	cmd.PersistentFlags().BoolVarP(&f.Verbose, "verbose", "v", false, "Debug logging")
	cmd.PersistentFlags().BoolVarP(&f.Quiet, "quiet", "q", false, "Only log warnings and errors")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		newStatusCmd(a),
		newListCmd(a),
		newDoCmd(a),
		newAdjustCmd(a),
		newRolloverCmd(a),
		newHistoryCmd(a),
		newBoardCmd(a),
		newServeCmd(a),
		newMigrateCmd(a),
		newResetCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

func (a *app) init(ctx context.Context) error {
	cfg, err := config.Load(ctx, a.flags.ConfigPath)
	if err != nil {
		return err
	}
	if a.flags.Profile != "" {
		cfg.Profile = a.flags.Profile
	}
	if a.flags.Backend != "" {
		cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(a.flags.Backend))
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.New(logging.Options{
		Verbose: a.flags.Verbose,
		Quiet:   a.flags.Quiet,
		Config:  cfg.Log,
		Console: a.stderr,
	})
	a.log.Debug().Str("profile", cfg.Profile).Str("backend", cfg.Storage.Backend).Msg("starting")
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logging.Close()

	cmd := newRootCmd(&app{flags: &GlobalFlags{}})
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		stop()
		logging.Close()
		os.Exit(1)
	}
}
