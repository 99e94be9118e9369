package bandcamp

import (
	"errors"
	"regexp"
	"slices"
	"strings"
)

// ErrNoAlbumFound is returned when no album or track URLs can be found on a
// page.
var ErrNoAlbumFound = errors.New("no album found on page")

var (
	releaseLink     = regexp.MustCompile(`(/(?:album|track)/[^"&?#\s]+?)(?:"|&quot;)`)
	singleAlbumLink = regexp.MustCompile(`href="(/album/[^"?#]+)"`)
)

// AlbumPaths extracts the album and track paths listed on an artist's music
// page (https://artist.bandcamp.com/music).
//
// The returned paths are relative, sorted and free of duplicates:
//   - /album/my-album
//   - /track/my-track
//
// When an artist has only one album, Bandcamp serves the album page instead
// of a listing; that album's path is returned.
//
// Returns ErrNoAlbumFound if the page lists nothing.
func AlbumPaths(musicPageHTML string) ([]string, error) {
	if isSingleAlbumPage(musicPageHTML) {
		return singleAlbumPath(musicPageHTML)
	}

	set := make(map[string]struct{})
	for _, m := range releaseLink.FindAllStringSubmatch(musicPageHTML, -1) {
		set[m[1]] = struct{}{}
	}
	if len(set) == 0 {
		return nil, ErrNoAlbumFound
	}

	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths, nil
}

// isSingleAlbumPage reports whether the music page redirected to an album
// page. Only album pages carry the "discography" sidebar div.
func isSingleAlbumPage(html string) bool {
	return strings.Contains(html, `div id="discography"`)
}

func singleAlbumPath(html string) ([]string, error) {
	set := make(map[string]struct{})
	for _, m := range singleAlbumLink.FindAllStringSubmatch(html, -1) {
		set[m[1]] = struct{}{}
	}

	switch len(set) {
	case 0:
		return nil, ErrNoAlbumFound
	case 1:
		for p := range set {
			return []string{p}, nil
		}
	}
	return nil, errors.New("found multiple album URLs, expected exactly one")
}
