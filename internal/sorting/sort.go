package sorting

import (
	"cmp"
	"slices"

	"github.com/handiism/album-ratings/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Key names a presentation ordering of the collection.
type Key string

const (
	RatingDesc Key = "rating-desc"
	RatingAsc  Key = "rating-asc"
	TitleAsc   Key = "title-asc"
	TitleDesc  Key = "title-desc"
	ArtistAsc  Key = "artist-asc"
	ArtistDesc Key = "artist-desc"
)

// Default is the ordering used when nothing else was chosen.
const Default = RatingDesc

var keys = []Key{RatingDesc, RatingAsc, TitleAsc, TitleDesc, ArtistAsc, ArtistDesc}

var labels = map[Key]string{
	RatingDesc: "Rating (high to low)",
	RatingAsc:  "Rating (low to high)",
	TitleAsc:   "Title (A-Z)",
	TitleDesc:  "Title (Z-A)",
	ArtistAsc:  "Artist (A-Z)",
	ArtistDesc: "Artist (Z-A)",
}

// Keys returns every supported key in menu order.
func Keys() []Key {
	return slices.Clone(keys)
}

// ParseKey returns the key named s and whether it is supported.
func ParseKey(s string) (Key, bool) {
	k := Key(s)
	_, ok := labels[k]
	return k, ok
}

// Label returns a human readable name of the ordering.
func (k Key) Label() string {
	if l, ok := labels[k]; ok {
		return l
	}
	return string(k)
}

// Next returns the key following k in menu order, wrapping around.
// Unknown keys continue with Default.
func (k Key) Next() Key {
	i := slices.Index(keys, k)
	if i < 0 {
		return Default
	}
	return keys[(i+1)%len(keys)]
}

// Sorter orders albums using the collation rules of a language.
//
// The zero value collates with the root locale.
type Sorter struct {
	Tag language.Tag
}

// New returns a Sorter for the given BCP 47 language tag. An unparsable tag
// falls back to the root locale.
func New(locale string) Sorter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return Sorter{Tag: tag}
}

// Sort orders albums with the root locale. See Sorter.Sort.
func Sort(albums []model.Album, key Key) []model.Album {
	return Sorter{}.Sort(albums, key)
}

// Sort returns a new slice holding albums ordered by key.
//
// The sort is stable: albums that compare equal keep their input order.
// An unknown key returns the albums in input order. The input slice is never
// modified.
func (s Sorter) Sort(albums []model.Album, key Key) []model.Album {
	sorted := slices.Clone(albums)
	if sorted == nil {
		sorted = []model.Album{}
	}

	var compare func(a, b model.Album) int
	switch key {
	case RatingDesc:
		compare = func(a, b model.Album) int { return cmp.Compare(b.Rating, a.Rating) }
	case RatingAsc:
		compare = func(a, b model.Album) int { return cmp.Compare(a.Rating, b.Rating) }
	case TitleAsc, TitleDesc, ArtistAsc, ArtistDesc:
		// Collators keep internal buffers, one per call keeps Sort safe to share.
		c := collate.New(s.Tag)
		field := func(a model.Album) string { return a.Title }
		if key == ArtistAsc || key == ArtistDesc {
			field = func(a model.Album) string { return a.Artist }
		}
		if key == TitleDesc || key == ArtistDesc {
			compare = func(a, b model.Album) int { return c.CompareString(field(b), field(a)) }
		} else {
			compare = func(a, b model.Album) int { return c.CompareString(field(a), field(b)) }
		}
	default:
		return sorted
	}

	slices.SortStableFunc(sorted, compare)
	return sorted
}
