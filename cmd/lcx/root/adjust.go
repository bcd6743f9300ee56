package root

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Giantpizzahead/life-coach-x/internal/ui"
)

// parseDelta accepts HP points ("150", "-25") or dollars ("$1.50", "-$0.25", "+$2").
func parseDelta(s string) (int, error) {
	s = strings.TrimSpace(s)
	sign := 1
	switch {
	case strings.HasPrefix(s, "-"):
		sign, s = -1, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, fmt.Errorf("invalid delta %q", s)
	}
	if !strings.HasPrefix(s, "$") {
		n, err := strconv.Atoi(s)
		if err != nil || n == 0 {
			return 0, fmt.Errorf("invalid delta %q", s)
		}
		return sign * n, nil
	}

	dollars, cents, hasCents := strings.Cut(s[1:], ".")
	d, err := strconv.Atoi(dollars)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	c := 0
	if hasCents {
		if len(cents) == 1 {
			cents += "0"
		}
		if len(cents) != 2 {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		if c, err = strconv.Atoi(cents); err != nil || c < 0 {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
	}
	n := d*100 + c
	if n == 0 {
		return 0, errors.New("delta must be non-zero")
	}
	return sign * n, nil
}

func newAdjustCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adjust <delta>",
		Short: "Add or remove HP right away (e.g. 150, -25, -$1.50)",
		Long: `Apply a manual HP adjustment. The change is immediate and is recorded in the
history as a manual adjustment. Use -- before negative values: lcx adjust -- -150`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("delta is required")
			}
			_, err := parseDelta(args[0])
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			delta, _ := parseDelta(args[0])
			snap, err := svc.Adjust(ctx, delta)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Key.Render("Adjusted"), ui.HP(delta, true))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("HP", ui.HP(snap.TotalPoints, false)))
			return nil
		},
	}

	return cmd
}
