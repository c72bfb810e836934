// Package http provides the HTTP client used for album art lookups and
// cover downloads.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - Turning non-200 responses into *StatusError
//
// # Basic Usage
//
//	client := http.NewClient(10*time.Second, "mp3-tagger")
//
//	// Fetch a JSON document
//	body, err := client.Get(ctx, searchURL)
//
//	// Download cover art
//	data, err := client.DownloadBytes(ctx, artworkURL)
package http
