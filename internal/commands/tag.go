package commands

import (
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/handiism/album-ratings/internal/audio"
	"github.com/handiism/album-ratings/internal/collection"
)

func addTag(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "tag <album id> <file.mp3>...",
		Short: "Write an album's rating and review into MP3 tags",
		Example: `
albums tag 7 ~/Music/Blue/*.mp3
`,
		Args: cobra.MinimumNArgs(2),
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

			album, err := a.album(id)
			if err != nil {
				return err
			}

			var failed int
			for _, arg := range args[1:] {
				path, err := homedir.Expand(arg)
				if err == nil {
					err = audio.WriteTags(path, album)
				}
				if err != nil {
					failed++
					a.notice(collection.Notice{Message: fmt.Sprintf("%s: %v", arg, err), Level: collection.LevelError, Err: err})
					continue
				}
				a.notice(collection.Notice{Message: "Tagged " + path, Level: collection.LevelSuccess})
			}

			if failed > 0 {
				return a.fail(fmt.Errorf("%d of %d file(s) could not be tagged", failed, len(args)-1))
			}
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
