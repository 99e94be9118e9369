package dto

import "slices"

// JSONTrack is one entry of trackinfo.
type JSONTrack struct {
	Number *int   `json:"track_num"`
	Title  string `json:"title"`
}

// TrackTitles returns the track titles in track-number order. Tracks without
// a number keep their page order after the numbered ones.
func (ja *JSONAlbum) TrackTitles() []string {
	tracks := slices.Clone(ja.Tracks)
	slices.SortStableFunc(tracks, func(a, b JSONTrack) int {
		switch {
		case a.Number == nil && b.Number == nil:
			return 0
		case a.Number == nil:
			return 1
		case b.Number == nil:
			return -1
		}
		return *a.Number - *b.Number
	})

	titles := make([]string, 0, len(tracks))
	for _, t := range tracks {
		titles = append(titles, t.Title)
	}
	return titles
}
