package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/handiism/album-ratings/internal/model"
	"github.com/handiism/album-ratings/internal/review"
)

// reviewWidth is the wrap width of reviews printed by show.
const reviewWidth = 72

func addShow(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "show <album id>",
		Short: "Show one album with its review",
		Example: `
albums show 7
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

			album, err := a.album(id)
			if err != nil {
				return err
			}

			style := review.StyleDark
			if color.NoColor {
				style = review.StylePlain
			}
			printAlbum(a, album, review.New(style))
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func printAlbum(a *app, album model.Album, reviews *review.Renderer) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), album.ID)
	tbl.AddRow(bold.Sprint("Title"), album.Title)
	tbl.AddRow(bold.Sprint("Artist"), album.Artist)
	tbl.AddRow(bold.Sprint("Rating"), color.New(color.FgHiYellow).Sprint(model.Stars(album.Rating)))
	if album.HasCover() {
		tbl.AddRow(bold.Sprint("Cover"), album.Cover)
	}
	_, _ = fmt.Fprintln(a.out, tbl)

	text := reviews.Render(album.Review, reviewWidth)
	if text == "" {
		_, _ = faint.Fprintln(a.out, "\nNo review.")
		return
	}
	_, _ = fmt.Fprintf(a.out, "\n%s\n", text)
}
