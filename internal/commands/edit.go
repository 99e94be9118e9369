package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/handiism/album-ratings/internal/model"
	"github.com/handiism/album-ratings/internal/session"
	"github.com/handiism/album-ratings/internal/store"
)

func addEdit(topLevel *cobra.Command, opts *rootOptions) {
	var draft draftFlags

	cmd := &cobra.Command{
		Use:   "edit <album id>",
		Short: "Change an album",
		Example: `
albums edit 7 --rating 4
albums edit 7 --review "Grew on me."
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

			sess := session.New()
			sess.BeginEdit(album)
			changed, err := draft.apply(cmd, sess, session.Edit)
			if err != nil {
				return err
			}
			if !changed {
				return errors.New("nothing to change, pass at least one of --title, --artist, --cover, --review, --rating")
			}
			return a.fail(sess.Commit(cmd.Context(), session.Edit, a.ctrl))
		},
	}

	draft.register(cmd)
	topLevel.AddCommand(cmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid album id %q", s)
	}
	return id, nil
}

// album looks id up in the loaded collection.
func (a *app) album(id int64) (model.Album, error) {
	album, ok := a.ctrl.Album(id)
	if !ok {
		return model.Album{}, fmt.Errorf("album %d: %w", id, store.ErrNotFound)
	}
	return album, nil
}
