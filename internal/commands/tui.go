package commands

import (
	"github.com/spf13/cobra"

	"github.com/handiism/album-ratings/internal/tui"
)

func newTUICommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit the collection interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(opts)
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), settings, opts.verbose)
		},
	}
}
