// Package http provides the HTTP client shared by the REST store backend and
// the cover fetcher.
//
// The Client in this package handles:
//   - User-Agent and default headers (API keys)
//   - Timeout handling
//   - JSON requests and responses
//   - Mapping non-2xx responses to *StatusError
//
// # Basic Usage
//
//	client := http.NewClient("AlbumRatings", 30*time.Second).
//	    WithHeader("apikey", key)
//
//	// Fetch raw bytes
//	data, err := client.Get(ctx, coverURL)
//
//	// JSON round trip
//	var rows []model.Album
//	err = client.DoJSON(ctx, "GET", listURL, nil, nil, &rows)
package http
