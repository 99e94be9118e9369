package commands

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/album-ratings/internal/bandcamp"
	"github.com/handiism/album-ratings/internal/collection"
	apphttp "github.com/handiism/album-ratings/internal/http"
	"github.com/handiism/album-ratings/internal/model"
)

// maxConcurrentPageFetch bounds how many album pages are fetched at once.
const maxConcurrentPageFetch = 4

func addImport(topLevel *cobra.Command, opts *rootOptions) {
	var (
		dryRun bool
		rating int
	)

	cmd := &cobra.Command{
		Use:   "import <bandcamp url>",
		Short: "Add every album of a Bandcamp artist",
		Long: `Fetches the discography of a Bandcamp artist and adds the albums not yet
in the collection. An album or track URL imports just that release.`,
		Example: `
albums import https://artist.bandcamp.com
albums import https://artist.bandcamp.com --dry-run
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			importer := bandcamp.NewImporter(apphttp.NewClient(a.settings.UserAgent, a.settings.Timeout()))

			urls := []string{args[0]}
			if !isReleaseURL(args[0]) {
				urls, err = importer.AlbumURLs(ctx, args[0])
				if err != nil {
					return fmt.Errorf("discography: %w", err)
				}
			}
			a.notice(collection.Notice{Message: fmt.Sprintf("Found %d release(s)", len(urls)), Level: collection.LevelInfo})

			releases := make([]*bandcamp.Release, len(urls))
			var mu sync.Mutex
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(maxConcurrentPageFetch)
			for i, url := range urls {
				i, url := i, url
				g.Go(func() error {
					release, err := importer.Album(gctx, url)
					if err != nil {
						if gctx.Err() != nil {
							return gctx.Err()
						}
						mu.Lock()
						a.notice(collection.Notice{Message: fmt.Sprintf("Skipping %s: %v", url, err), Level: collection.LevelWarning, Err: err})
						mu.Unlock()
						return nil
					}
					releases[i] = release
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			var added, skipped int
			for _, r := range releases {
				if r == nil {
					continue
				}
				f := r.Fields()
				f.Rating = model.ClampRating(rating)

				if hasAlbum(a.ctrl.Albums(), f) {
					skipped++
					a.notice(collection.Notice{Message: fmt.Sprintf("Already rated: %s - %s", f.Artist, f.Title), Level: collection.LevelVerbose})
					continue
				}
				if dryRun {
					_, _ = fmt.Fprintf(a.out, "%s - %s\n", f.Artist, f.Title)
					continue
				}
				if err := a.ctrl.Create(ctx, f); err != nil {
					return a.fail(err)
				}
				added++
			}

			if !dryRun {
				a.notice(collection.Notice{
					Message: fmt.Sprintf("Imported %d album(s), %d already present", added, skipped),
					Level:   collection.LevelInfo,
				})
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list what would be added without adding it")
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "star rating given to every imported album")

	topLevel.AddCommand(cmd)
}

func isReleaseURL(url string) bool {
	return strings.Contains(url, "/album/") || strings.Contains(url, "/track/")
}

// hasAlbum reports whether albums already holds f's artist and title,
// ignoring case.
func hasAlbum(albums []model.Album, f model.Fields) bool {
	for _, a := range albums {
		if strings.EqualFold(a.Artist, f.Artist) && strings.EqualFold(a.Title, f.Title) {
			return true
		}
	}
	return false
}
