package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/woolly-dev/woolly/internal/board"
)

func newPhaseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Work with plan phases",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "move <mode/name> <phase-number> <column>",
		Short: "Set a phase's status by moving it to a column",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return userError(fmt.Errorf("phase number %q: %w", args[1], err))
			}
			bf := boardFlags{phases: true}
			return a.moveCard(cmd, args[0], board.PhaseCardID(n), args[2], bf)
		},
	})
	return cmd
}
