package model

import (
	"fmt"
	"strings"
)

// MaxRating is the highest star rating an album can carry.
const MaxRating = 5

// Album represents one rated entry of the shared collection.
//
// Album is the record returned by the collection store:
//   - ID is assigned by the store and never changes afterwards
//   - Title and Artist identify the release
//   - Cover is an optional image reference (URI)
//   - Review is optional free text
//   - Rating is 0..5 stars, 0 meaning unrated
//
// Albums handed out by the collection are copies. Editing one never touches
// the canonical collection.
//
// Example:
//
//	album := model.Album{ID: 7, Title: "Abbey Road", Artist: "The Beatles", Rating: 5}
//	fields := album.Fields() // editable copy without the ID
type Album struct {
	// ID is the store-assigned identity. Zero means "not yet assigned".
	ID int64 `json:"id"`

	// Cover is a URI to the cover image. Empty string means no cover.
	Cover string `json:"cover"`

	// Title is the album title.
	Title string `json:"title"`

	// Artist is the album artist name.
	Artist string `json:"artist"`

	// Review is the free-text review, possibly empty.
	Review string `json:"review"`

	// Rating is the star rating in [0, MaxRating].
	Rating int `json:"rating"`
}

// Fields is an Album without its identity.
//
// Fields is used both as the candidate for an insert and as the payload of an
// update, where every editable column is written.
type Fields struct {
	Cover  string `json:"cover"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Review string `json:"review"`
	Rating int    `json:"rating"`
}

// Fields returns the editable part of the album.
func (a Album) Fields() Fields {
	return Fields{
		Cover:  a.Cover,
		Title:  a.Title,
		Artist: a.Artist,
		Review: a.Review,
		Rating: a.Rating,
	}
}

// HasCover returns true if the album references a cover image.
func (a Album) HasCover() bool {
	return strings.TrimSpace(a.Cover) != ""
}

// String returns "Artist - Title".
func (a Album) String() string {
	return fmt.Sprintf("%s - %s", a.Artist, a.Title)
}

// WithID attaches an identity to the fields.
func (f Fields) WithID(id int64) Album {
	return Album{
		ID:     id,
		Cover:  f.Cover,
		Title:  f.Title,
		Artist: f.Artist,
		Review: f.Review,
		Rating: f.Rating,
	}
}

// Validate checks the constraints shared by inserts and updates.
func (f Fields) Validate() error {
	if f.Rating < 0 || f.Rating > MaxRating {
		return &ValidationError{Field: "rating", Reason: fmt.Sprintf("must be between 0 and %d", MaxRating)}
	}
	return nil
}

// ValidateNew checks the constraints of a new album: title and artist are
// required on top of everything Validate checks.
func (f Fields) ValidateNew() error {
	if f.Title == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	if f.Artist == "" {
		return &ValidationError{Field: "artist", Reason: "is required"}
	}
	return f.Validate()
}

// ValidationError reports a field that failed a local check before any
// request was sent to the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ClampRating forces n into [0, MaxRating].
func ClampRating(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxRating {
		return MaxRating
	}
	return n
}

// Stars renders a rating as filled and empty stars, e.g. "★★★☆☆".
func Stars(rating int) string {
	rating = ClampRating(rating)
	return strings.Repeat("★", rating) + strings.Repeat("☆", MaxRating-rating)
}
