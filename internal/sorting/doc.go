// Package sorting derives presentation orderings of the album collection.
//
// Sorting is pure: it copies its input, never mutates it, and keeps no state
// between calls. All orderings are stable, so albums that compare equal keep
// the order of the underlying collection (ascending ID).
//
//	view := sorting.Sort(albums, sorting.TitleAsc)
//
// String keys compare with locale-aware collation:
//
//	view := sorting.New("ko").Sort(albums, sorting.ArtistDesc)
//
// Unknown keys are not an error; the albums come back in input order.
package sorting
