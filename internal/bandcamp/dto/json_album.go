package dto

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	artworkURLStart = "https://f4.bcbits.com/img/a"
	artworkURLEnd   = "_0.jpg"
)

// BandcampTime is a custom time type that handles Bandcamp's date format.
type BandcampTime struct {
	time.Time
}

// UnmarshalJSON parses Bandcamp's date format: "01 Jan 2023 00:00:00 GMT"
func (bt *BandcampTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		bt.Time = time.Time{}
		return nil
	}

	formats := []string{
		"02 Jan 2006 15:04:05 MST",
		"2 Jan 2006 15:04:05 MST",
		time.RFC3339,
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			bt.Time = t
			return nil
		}
	}

	return fmt.Errorf("unable to parse date: %s", s)
}

// JSONAlbum is the data-tralbum object embedded in an album or track page.
type JSONAlbum struct {
	Current     *JSONAlbumData `json:"current"`
	ArtID       *int64         `json:"art_id"`
	Artist      string         `json:"artist"`
	ReleaseDate *BandcampTime  `json:"album_release_date"`
	Tracks      []JSONTrack    `json:"trackinfo"`
}

// JSONAlbumData contains album metadata.
type JSONAlbumData struct {
	Title       string        `json:"title"`
	About       string        `json:"about"`
	ReleaseDate *BandcampTime `json:"release_date"`
	PublishDate *BandcampTime `json:"publish_date"`
}

// Title returns the album title, or "" when the page has none.
func (ja *JSONAlbum) Title() string {
	if ja.Current == nil {
		return ""
	}
	return ja.Current.Title
}

// ArtworkURL builds the full-size cover URL from art_id.
func (ja *JSONAlbum) ArtworkURL() string {
	if ja.ArtID == nil || *ja.ArtID <= 0 {
		return ""
	}
	return fmt.Sprintf("%s%010d%s", artworkURLStart, *ja.ArtID, artworkURLEnd)
}

// Released returns the release date with fallbacks to the album's own
// release and publish dates.
func (ja *JSONAlbum) Released() time.Time {
	switch {
	case ja.ReleaseDate != nil:
		return ja.ReleaseDate.Time
	case ja.Current != nil && ja.Current.ReleaseDate != nil:
		return ja.Current.ReleaseDate.Time
	case ja.Current != nil && ja.Current.PublishDate != nil:
		return ja.Current.PublishDate.Time
	}
	return time.Time{}
}
