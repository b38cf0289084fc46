package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/woolly-dev/woolly/pkg/types"
)

func newProjectsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Work with projects",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list [mode]",
		Short: "List projects, optionally of one mode",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modes := types.Modes
			if len(args) == 1 {
				mode, err := types.ParseMode(args[0])
				if err != nil {
					return userError(err)
				}
				modes = []types.Mode{mode}
			}

			s, err := a.openStore(false)
			if err != nil {
				return err
			}
			defer s.Detach()

			refs := []types.ProjectRef{}
			for _, mode := range modes {
				names, err := s.ListProjects(cmd.Context(), mode)
				if err != nil {
					return classify(fmt.Errorf("list %s: %w", mode, err))
				}
				for _, name := range names {
					refs = append(refs, types.ProjectRef{Mode: mode, Name: name})
				}
			}

			if a.flagJSON {
				return printJSON(cmd, refs)
			}
			if len(refs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects")
				return nil
			}
			for _, ref := range refs {
				fmt.Fprintln(cmd.OutOrStdout(), ref.String())
			}
			return nil
		},
	})
	return cmd
}
