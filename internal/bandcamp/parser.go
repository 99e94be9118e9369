package bandcamp

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/handiism/album-ratings/internal/bandcamp/dto"
	"github.com/handiism/album-ratings/internal/model"
)

// urlConcat matches the JavaScript-style concatenation some pages leave in
// the embedded JSON: url: "http://x.bandcamp.com" + "/album/y",
var urlConcat = regexp.MustCompile(`(url: ".+)" \+ "(.+",)`)

// Release is what an album page says about an album.
type Release struct {
	Title    string
	Artist   string
	CoverURL string
	About    string
	Released time.Time
	Tracks   []string
}

// Fields turns the release into a new-album draft. The rating and review are
// left for the user.
func (r *Release) Fields() model.Fields {
	return model.Fields{
		Cover:  r.CoverURL,
		Title:  r.Title,
		Artist: r.Artist,
	}
}

// ParseAlbumPage extracts a Release from the HTML of a Bandcamp album or
// track page.
//
// This function performs the following steps:
//  1. Extracts the data-tralbum JSON from the HTML
//  2. Fixes malformed JSON (URL concatenation)
//  3. Deserializes it and builds the cover URL from art_id
//
// The HTML should be the full page source from a URL like:
//   - https://artist.bandcamp.com/album/album-name
//   - https://artist.bandcamp.com/track/track-name
//
// Example:
//
//	release, err := bandcamp.ParseAlbumPage(htmlContent)
//	if err != nil {
//	    return fmt.Errorf("failed to parse album: %w", err)
//	}
//	draft := release.Fields()
func ParseAlbumPage(htmlContent string) (*Release, error) {
	albumData, err := extractAlbumData(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve album data: %w", err)
	}

	var ja dto.JSONAlbum
	if err := json.Unmarshal([]byte(fixJSON(albumData)), &ja); err != nil {
		return nil, fmt.Errorf("failed to parse album JSON: %w", err)
	}

	release := &Release{
		Title:    strings.TrimSpace(ja.Title()),
		Artist:   strings.TrimSpace(ja.Artist),
		CoverURL: ja.ArtworkURL(),
		Released: ja.Released(),
		Tracks:   ja.TrackTitles(),
	}
	if ja.Current != nil {
		release.About = strings.TrimSpace(ja.Current.About)
	}
	if release.Title == "" {
		return nil, fmt.Errorf("album data has no title")
	}

	return release, nil
}

// extractAlbumData extracts the data-tralbum JSON string from HTML.
//
// Bandcamp embeds album data in the HTML like this:
//
//	<script ... data-tralbum="{...JSON...}">
//
// The attribute value is HTML-escaped (quotes become &quot;), so the result
// is unescaped before it is returned.
func extractAlbumData(htmlContent string) (string, error) {
	const startString = `data-tralbum="{`
	const stopString = `}"`

	startIndex := strings.Index(htmlContent, startString)
	if startIndex == -1 {
		return "", fmt.Errorf("could not find album data in HTML")
	}

	startIndex += len(startString) - 1 // keep the opening brace
	remaining := htmlContent[startIndex:]

	endIndex := strings.Index(remaining, stopString)
	if endIndex == -1 {
		return "", fmt.Errorf("could not find end of album data")
	}

	return html.UnescapeString(remaining[:endIndex+1]), nil
}

// fixJSON removes the " + " URL concatenation that makes some pages' JSON
// invalid.
func fixJSON(albumData string) string {
	return urlConcat.ReplaceAllString(albumData, "${1}${2}")
}
