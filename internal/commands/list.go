package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/handiism/album-ratings/internal/model"
	"github.com/handiism/album-ratings/internal/sorting"
)

func addList(topLevel *cobra.Command, opts *rootOptions) {
	var (
		sortFlag string
		wide     bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the collection",
		Example: `
albums list
albums list --sort title-asc --wide
`,
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
			printAlbums(a.out, a.ctrl.View(key), key, wide)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sortFlag, "sort", "s", "", "ordering: "+sortKeyList())
	cmd.Flags().BoolVarP(&wide, "wide", "w", false, "show covers and reviews")

	topLevel.AddCommand(cmd)
}

func printAlbums(w io.Writer, albums []model.Album, key sorting.Key, wide bool) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	stars := color.New(color.FgHiYellow)

	noun := "albums"
	if len(albums) == 1 {
		noun = "album"
	}
	_, _ = bold.Fprintf(w, "%d %s", len(albums), noun)
	_, _ = faint.Fprintf(w, " - sorted by %s\n", key.Label())

	if len(albums) == 0 {
		_, _ = faint.Fprintln(w, "No albums yet. Add one with: albums add --title ... --artist ...")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	if wide {
		tbl.Wrap = true
		tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Rating"), bold.Sprint("Artist"), bold.Sprint("Title"), bold.Sprint("Cover"), bold.Sprint("Review"))
	} else {
		tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Rating"), bold.Sprint("Artist"), bold.Sprint("Title"))
	}

	for _, a := range albums {
		if wide {
			cover := a.Cover
			if !a.HasCover() {
				cover = faint.Sprint("-")
			}
			tbl.AddRow(a.ID, stars.Sprint(model.Stars(a.Rating)), a.Artist, a.Title, cover, strings.TrimSpace(a.Review))
			continue
		}
		tbl.AddRow(a.ID, stars.Sprint(model.Stars(a.Rating)), a.Artist, a.Title)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

// sortKey parses flag, falling back to def when it is empty.
func sortKey(flag string, def sorting.Key) (sorting.Key, error) {
	if flag == "" {
		return def, nil
	}
	key, ok := sorting.ParseKey(flag)
	if !ok {
		return "", fmt.Errorf("unknown sort %q, want one of %s", flag, sortKeyList())
	}
	return key, nil
}

func sortKeyList() string {
	keys := sorting.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
