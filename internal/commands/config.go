package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/handiism/album-ratings/internal/config"
)

func addConfig(topLevel *cobra.Command, opts *rootOptions) {
	var (
		initFile bool
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective settings",
		Example: `
albums config
albums config --init
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			path, err := homedir.Expand(path)
			if err != nil {
				return err
			}

			if initFile {
				if _, err := os.Stat(path); err == nil && !force {
					return fmt.Errorf("%s already exists, use --force to overwrite", path)
				}
				if err := config.DefaultSettings().Save(path); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Wrote "+path)
				return nil
			}

			settings, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := settings.ApplyEnv(); err != nil {
				return err
			}
			if settings.SupabaseKey != "" {
				settings.SupabaseKey = "********"
			}

			data, err := json.MarshalIndent(settings, "", "  ")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s\n", path, data)
			return nil
		},
	}

	cmd.Flags().BoolVar(&initFile, "init", false, "write the default settings file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file with --init")

	topLevel.AddCommand(cmd)
}
