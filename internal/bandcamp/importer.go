package bandcamp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	apphttp "github.com/handiism/album-ratings/internal/http"
)

// Importer fetches Bandcamp pages and turns them into Releases.
//
// Example usage:
//
//	imp := bandcamp.NewImporter(client)
//
//	release, err := imp.Album(ctx, "https://artist.bandcamp.com/album/name")
//	if err != nil {
//	    return err
//	}
//	sess.Prefill(release.Fields())
type Importer struct {
	client *apphttp.Client
}

// NewImporter creates an Importer that fetches pages with client.
func NewImporter(client *apphttp.Client) *Importer {
	return &Importer{client: client}
}

// Album fetches and parses one album or track page.
func (i *Importer) Album(ctx context.Context, pageURL string) (*Release, error) {
	body, err := i.client.GetString(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	return ParseAlbumPage(body)
}

// AlbumURLs fetches the artist's music page and returns the absolute URLs of
// every album and track it lists.
//
// artistURL may be the artist root (https://artist.bandcamp.com) or any page
// on it; the /music page of its host is used.
func (i *Importer) AlbumURLs(ctx context.Context, artistURL string) ([]string, error) {
	base, err := url.Parse(strings.TrimSpace(artistURL))
	if err != nil {
		return nil, fmt.Errorf("invalid artist URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid artist URL %q", artistURL)
	}

	musicURL := base.ResolveReference(&url.URL{Path: "/music"})
	body, err := i.client.GetString(ctx, musicURL.String())
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", musicURL, err)
	}

	paths, err := AlbumPaths(body)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		urls = append(urls, base.ResolveReference(&url.URL{Path: p}).String())
	}
	return urls, nil
}
