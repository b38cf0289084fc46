package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/woolly-dev/woolly/internal/board"
	"github.com/woolly-dev/woolly/internal/tui"
	"github.com/woolly-dev/woolly/pkg/types"
)

// boardFlags select what a board shows.
type boardFlags struct {
	phase  int
	phases bool
}

func (f *boardFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.phase, "phase", 0, "show only the checklist of this phase")
	cmd.Flags().BoolVar(&f.phases, "phases", false, "show phases as cards instead of checklist tasks")
}

// adapter returns the board adapter the flags ask for.
func (f *boardFlags) adapter(cmd *cobra.Command) (board.Adapter, error) {
	if f.phases {
		if cmd.Flags().Changed("phase") {
			return nil, userError(fmt.Errorf("--phase and --phases are mutually exclusive"))
		}
		return board.PhaseAdapter{}, nil
	}
	if cmd.Flags().Changed("phase") {
		n := f.phase
		return board.ChecklistAdapter{Phase: &n}, nil
	}
	return board.ChecklistAdapter{}, nil
}

func newBoardCmd(a *app) *cobra.Command {
	var bf boardFlags

	cmd := &cobra.Command{
		Use:   "board <mode/name>",
		Short: "Open the interactive plan board",
		Long: "Show the plan as four columns: To Do, In Progress, Completed and\n" +
			"Blocked. Pick a card up with space, carry it with the arrow keys and\n" +
			"drop it with space or enter. Changes are saved immediately and undone\n" +
			"if the save fails.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := types.ParseProjectRef(args[0])
			if err != nil {
				return userError(err)
			}
			adapter, err := bf.adapter(cmd)
			if err != nil {
				return err
			}

			s, err := a.openStore(false)
			if err != nil {
				return err
			}
			defer s.Detach()

			logger, logClose, err := a.screenLogger()
			if err != nil {
				return sysError(err)
			}
			defer logClose.Close()

			opts := board.Options{Adapter: adapter, Logger: logger}
			if err := tui.Run(cmd.Context(), s, ref, opts); err != nil {
				return sysError(fmt.Errorf("board: %w", err))
			}
			return nil
		},
	}

	bf.register(cmd)
	return cmd
}
