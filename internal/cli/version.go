package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/woolly-dev/woolly"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the woolly version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "woolly %s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
