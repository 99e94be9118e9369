package commands

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/handiism/album-ratings/internal/collection"
	ioutils "github.com/handiism/album-ratings/internal/io"
)

func addExport(topLevel *cobra.Command, opts *rootOptions) {
	var sortFlag string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the sorted collection as JSON",
		Example: `
albums export > albums.json
albums export ~/albums.json --sort artist-asc
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			key, err := sortKey(sortFlag, a.settings.SortKey())
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(a.ctrl.View(key), "", "  ")
			if err != nil {
				return err
			}
			data = append(data, '\n')

			if len(args) == 0 || args[0] == "-" {
				_, err := a.out.Write(data)
				return err
			}

			path, err := homedir.Expand(args[0])
			if err != nil {
				return err
			}
			if err := ioutils.WriteFile(path, data); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			a.notice(collection.Notice{
				Message: fmt.Sprintf("Exported %d album(s) to %s", a.ctrl.Len(), path),
				Level:   collection.LevelSuccess,
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&sortFlag, "sort", "s", "", "ordering: "+sortKeyList())

	topLevel.AddCommand(cmd)
}
