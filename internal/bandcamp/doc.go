// Package bandcamp imports album drafts from Bandcamp pages.
//
// The package handles two use cases:
//
//  1. Parsing an album or track page into a Release (title, artist, cover)
//  2. Listing every album on an artist's music page
//
// # Album Page Parsing
//
//	imp := bandcamp.NewImporter(client)
//	release, err := imp.Album(ctx, "https://artist.bandcamp.com/album/name")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Album: %s by %s\n", release.Title, release.Artist)
//
// # Discography Listing
//
//	urls, err := imp.AlbumURLs(ctx, "https://artist.bandcamp.com")
//	if errors.Is(err, bandcamp.ErrNoAlbumFound) {
//	    fmt.Println("Artist has no published music")
//	}
//
// # Bandcamp Data Format
//
// Bandcamp embeds album data as JSON in the HTML page within a
// `data-tralbum` attribute. This package extracts and parses that JSON,
// handling Bandcamp's non-standard date format and fixing malformed JSON.
// The cover URL is derived from the album's art_id.
package bandcamp
