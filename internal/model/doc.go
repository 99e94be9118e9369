// Package model defines the core data structures shared by every layer
// of album-ratings.
//
// # Album
//
// Album is one entry of the shared collection, as returned by the store:
//
//	album := model.Album{ID: 1, Title: "Blue", Artist: "Joni Mitchell", Rating: 5}
//	fmt.Println(album)              // "Joni Mitchell - Blue"
//	fmt.Println(model.Stars(album.Rating)) // "★★★★★"
//
// # Fields
//
// Fields is an Album without its ID. It is the candidate passed to an insert
// and the payload of an update:
//
//	f := model.Fields{Title: "Blue", Artist: "Joni Mitchell"}
//	if err := f.ValidateNew(); err != nil {
//	    // *model.ValidationError
//	}
//
// Ratings are whole stars in [0, MaxRating]; 0 means unrated.
package model
