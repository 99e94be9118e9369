package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"

	ioutils "github.com/handiism/album-ratings/internal/io"
	"github.com/handiism/album-ratings/internal/model"
)

// commentDescription tags the COMM frame written by WriteTags so it can be
// found and replaced later.
const commentDescription = "album-ratings"

// Tags is the album-level metadata found in an MP3 file.
type Tags struct {
	Title       string // TIT2, the track title
	Album       string // TALB
	Artist      string // TPE1
	AlbumArtist string // TPE2
	Comment     string // first COMM frame

	// Picture is the front cover (or first attached picture), if any.
	Picture     []byte
	PictureMIME string
}

// ReadTags parses the ID3v2 tag of the file at path.
//
// A file without a tag yields empty Tags and no error.
//
// Example:
//
//	tags, err := audio.ReadTags("01 - Intro.mp3")
//	if err != nil {
//	    return err
//	}
//	draft := tags.Fields()
func ReadTags(path string) (*Tags, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("read tags %s: %w", path, err)
	}
	defer tag.Close()

	t := &Tags{
		Title:       strings.TrimSpace(tag.Title()),
		Album:       strings.TrimSpace(tag.Album()),
		Artist:      strings.TrimSpace(tag.Artist()),
		AlbumArtist: strings.TrimSpace(tag.GetTextFrame("TPE2").Text),
	}

	for _, f := range tag.GetFrames(tag.CommonID("Comments")) {
		if cf, ok := f.(id3v2.CommentFrame); ok && strings.TrimSpace(cf.Text) != "" {
			t.Comment = strings.TrimSpace(cf.Text)
			break
		}
	}

	pictures := tag.GetFrames(tag.CommonID("Attached picture"))
	for _, f := range pictures {
		pf, ok := f.(id3v2.PictureFrame)
		if !ok {
			continue
		}
		if t.Picture == nil || pf.PictureType == id3v2.PTFrontCover {
			t.Picture = pf.Picture
			t.PictureMIME = pf.MimeType
		}
		if pf.PictureType == id3v2.PTFrontCover {
			break
		}
	}

	return t, nil
}

// Fields turns the tags into a new-album draft.
//
// The album title falls back to the track title, and the album artist to the
// track artist. The comment becomes the review. Cover and rating are left
// empty.
func (t *Tags) Fields() model.Fields {
	f := model.Fields{
		Title:  t.Album,
		Artist: t.AlbumArtist,
		Review: t.Comment,
	}
	if f.Title == "" {
		f.Title = t.Title
	}
	if f.Artist == "" {
		f.Artist = t.Artist
	}
	return f
}

// SaveCover writes the embedded picture to dir as <name>.<ext> and returns
// its path. It returns "" when the file has no picture.
func (t *Tags) SaveCover(dir, name string) (string, error) {
	if len(t.Picture) == 0 {
		return "", nil
	}
	if err := ioutils.EnsureDir(dir); err != nil {
		return "", err
	}

	ext := ".jpg"
	if strings.Contains(strings.ToLower(t.PictureMIME), "png") {
		ext = ".png"
	}

	path := filepath.Join(dir, ioutils.SanitizeFileName(name)+ext)
	if err := ioutils.WriteFile(path, t.Picture); err != nil {
		return "", err
	}
	return path, nil
}

// WriteTags stamps album-level metadata of a rated album into the MP3 at path.
//
// This method:
//  1. Sets the album title (TALB) and album artist (TPE2)
//  2. Replaces the comment written by a previous call with the star rating
//     and the review
//  3. Leaves track-level frames (TIT2, TPE1, TRCK) untouched
//
// Example:
//
//	err := audio.WriteTags("01 - Intro.mp3", album)
func WriteTags(path string, album model.Album) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetAlbum(album.Title)
	tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, album.Artist)

	commID := tag.CommonID("Comments")
	kept := make([]id3v2.CommentFrame, 0)
	for _, f := range tag.GetFrames(commID) {
		if cf, ok := f.(id3v2.CommentFrame); ok && cf.Description != commentDescription {
			kept = append(kept, cf)
		}
	}
	tag.DeleteFrames(commID)
	for _, cf := range kept {
		tag.AddCommentFrame(cf)
	}
	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    id3v2.EncodingUTF8,
		Language:    "eng",
		Description: commentDescription,
		Text:        ratingComment(album),
	})

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func ratingComment(album model.Album) string {
	text := model.Stars(album.Rating)
	if review := strings.TrimSpace(album.Review); review != "" {
		text += " " + review
	}
	return text
}
