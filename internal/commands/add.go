package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/handiism/album-ratings/internal/audio"
	"github.com/handiism/album-ratings/internal/bandcamp"
	"github.com/handiism/album-ratings/internal/collection"
	apphttp "github.com/handiism/album-ratings/internal/http"
	"github.com/handiism/album-ratings/internal/model"
	"github.com/handiism/album-ratings/internal/session"
)

func addAdd(topLevel *cobra.Command, opts *rootOptions) {
	var (
		draft        draftFlags
		fromMP3      string
		fromBandcamp string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an album",
		Example: `
albums add --title "Blue" --artist "Joni Mitchell" --rating 5
albums add --from-mp3 "~/Music/Blue/01 All I Want.mp3" --rating 4
albums add --from-bandcamp https://artist.bandcamp.com/album/name
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromMP3 != "" && fromBandcamp != "" {
				return errors.New("--from-mp3 and --from-bandcamp are mutually exclusive")
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			sess := session.New()
			sess.BeginAdd()

			switch {
			case fromMP3 != "":
				f, err := a.draftFromMP3(fromMP3)
				if err != nil {
					return err
				}
				sess.Prefill(f)
			case fromBandcamp != "":
				f, err := a.draftFromBandcamp(ctx, fromBandcamp)
				if err != nil {
					return err
				}
				sess.Prefill(f)
			}

			if _, err := draft.apply(cmd, sess, session.Add); err != nil {
				return err
			}
			return a.fail(sess.Commit(ctx, session.Add, a.ctrl))
		},
	}

	draft.register(cmd)
	cmd.Flags().StringVar(&fromMP3, "from-mp3", "", "prefill from the ID3 tags of an MP3 file")
	cmd.Flags().StringVar(&fromBandcamp, "from-bandcamp", "", "prefill from a Bandcamp album page")

	topLevel.AddCommand(cmd)
}

// draftFromMP3 reads album fields from the tags of path. An embedded picture
// is saved under the covers directory and used as the cover.
func (a *app) draftFromMP3(path string) (model.Fields, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return model.Fields{}, err
	}

	tags, err := audio.ReadTags(path)
	if err != nil {
		return model.Fields{}, fmt.Errorf("read tags: %w", err)
	}
	f := tags.Fields()

	cover, err := tags.SaveCover(a.settings.CoversDir, f.Artist+" - "+f.Title)
	if err != nil {
		a.notice(collection.Notice{Message: fmt.Sprintf("Could not save embedded cover: %v", err), Level: collection.LevelWarning, Err: err})
	} else if cover != "" {
		f.Cover = cover
		a.notice(collection.Notice{Message: "Saved cover to " + cover, Level: collection.LevelVerbose})
	}
	return f, nil
}

func (a *app) draftFromBandcamp(ctx context.Context, url string) (model.Fields, error) {
	importer := bandcamp.NewImporter(apphttp.NewClient(a.settings.UserAgent, a.settings.Timeout()))

	release, err := importer.Album(ctx, url)
	if err != nil {
		return model.Fields{}, fmt.Errorf("import %s: %w", url, err)
	}
	a.notice(collection.Notice{
		Message: fmt.Sprintf("Found %s - %s (%d tracks)", release.Artist, release.Title, len(release.Tracks)),
		Level:   collection.LevelVerbose,
	})
	return release.Fields(), nil
}
