package commands

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/handiism/album-ratings/internal/collection"
)

// confirm asks the user a yes/no question on the terminal.
var confirm = func(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}

func addDelete(topLevel *cobra.Command, opts *rootOptions) {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <album id>",
		Aliases: []string{"rm"},
		Short:   "Delete an album",
		Example: `
albums delete 7
albums delete 7 --yes
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.album(id); err != nil {
				return err
			}

			var c collection.Confirmer = collection.ConfirmFunc(confirm)
			if yes {
				c = collection.Always
			}

			deleted, err := a.ctrl.Delete(cmd.Context(), id, c)
			if err != nil {
				return a.fail(err)
			}
			if !deleted {
				_, _ = fmt.Fprintln(a.errOut, "Kept.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")

	topLevel.AddCommand(cmd)
}
