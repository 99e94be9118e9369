package commands

import (
	"github.com/spf13/cobra"

	"github.com/handiism/album-ratings/internal/session"
)

// draftFlags are the album fields settable from the command line.
type draftFlags struct {
	title  string
	artist string
	cover  string
	review string
	rating int
}

func (d *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&d.title, "title", "t", "", "album title")
	cmd.Flags().StringVarP(&d.artist, "artist", "a", "", "album artist")
	cmd.Flags().StringVar(&d.cover, "cover", "", "cover image URL or path")
	cmd.Flags().StringVar(&d.review, "review", "", "review text")
	cmd.Flags().IntVarP(&d.rating, "rating", "r", 0, "star rating, 0 to 5")
}

// apply copies the flags given on the command line into the draft in slot
// and reports whether any were given.
func (d *draftFlags) apply(cmd *cobra.Command, sess *session.Session, slot session.Slot) (bool, error) {
	flags := cmd.Flags()

	text := []struct {
		flag  string
		field session.Field
		value string
	}{
		{"title", session.FieldTitle, d.title},
		{"artist", session.FieldArtist, d.artist},
		{"cover", session.FieldCover, d.cover},
		{"review", session.FieldReview, d.review},
	}

	changed := false
	for _, t := range text {
		if !flags.Changed(t.flag) {
			continue
		}
		if err := sess.SetField(slot, t.field, t.value); err != nil {
			return changed, err
		}
		changed = true
	}

	if flags.Changed("rating") {
		if err := sess.SetRating(slot, d.rating); err != nil {
			return changed, err
		}
		changed = true
	}
	return changed, nil
}
