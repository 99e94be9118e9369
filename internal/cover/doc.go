// Package cover turns album cover references into terminal art.
//
// A cover is fetched (over HTTP or from a local file), scaled with the
// Catmull-Rom kernel and drawn with half-block characters, two pixels per
// cell. Anything that goes wrong, from an empty reference to a 404 or a
// corrupt image, renders Fallback instead.
//
//	covers := cover.NewCache(client, 24)
//
//	// Warm the cache for the visible list, four downloads at a time
//	_ = covers.Prefetch(ctx, refs, 4, nil)
//
//	fmt.Println(covers.View(album.Cover))
package cover
