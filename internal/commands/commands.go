// Package commands implements the albums command line.
package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	verbose    bool
}

// New returns the albums root command with every subcommand attached.
func New() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "albums",
		Short:         "Rate and review a shared album collection.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	addRootFlags(cmd, opts)

	addCommands(cmd, opts)
	return cmd
}

// NewTUI returns a root command that only starts the terminal interface.
func NewTUI() *cobra.Command {
	opts := &rootOptions{}

	cmd := newTUICommand(opts)
	cmd.Use = "albums-tui"
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	addRootFlags(cmd, opts)
	return cmd
}

func addCommands(topLevel *cobra.Command, opts *rootOptions) {
	addList(topLevel, opts)
	addShow(topLevel, opts)
	addAdd(topLevel, opts)
	addEdit(topLevel, opts)
	addDelete(topLevel, opts)
	addImport(topLevel, opts)
	addExport(topLevel, opts)
	addTag(topLevel, opts)
	addConfig(topLevel, opts)
	topLevel.AddCommand(newTUICommand(opts))
}

func addRootFlags(cmd *cobra.Command, opts *rootOptions) {
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to the settings file (default ~/.config/album-ratings/config.json)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "show verbose notices")
}

// reportedError is an error whose notice was already printed.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// Reported reports whether err was already shown to the user as a notice.
func Reported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}
