// Package audio reads and writes the album-level ID3 tags of MP3 files.
//
// # Prefilling a draft
//
// ReadTags pulls the album title, artist, comment and cover picture out of a
// track so a new-album draft does not have to be typed by hand:
//
//	tags, err := audio.ReadTags("01 - Intro.mp3")
//	if err != nil {
//	    return err
//	}
//	draft := tags.Fields()
//	cover, _ := tags.SaveCover(coverDir, tags.Album)
//
// The draft prefers album-level frames (TALB, TPE2) and falls back to the
// track-level ones (TIT2, TPE1).
//
// # Stamping a rating
//
// WriteTags goes the other way: it writes a rated album's title, artist,
// stars and review back into each track of the release:
//
//	for _, path := range tracks {
//	    if err := audio.WriteTags(path, album); err != nil {
//	        return err
//	    }
//	}
//
// The rating comment is written under its own COMM description, so other
// comments in the file are preserved and rewriting replaces the old one.
package audio
