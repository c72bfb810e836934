// Package artwork finds and downloads album art.
//
// Searches go to the iTunes Search API. The API only lists 100x100
// thumbnails; result URLs are rewritten to the size configured in
// SearchOptions, which the artwork CDN serves from the same path.
//
// # Searching
//
//	searcher := artwork.NewSearcher(client, artwork.SearchOptions{Size: "1200x1200", Limit: 5})
//	candidates, err := searcher.Candidates(ctx, "abbey road")
//	for c := range candidates {
//	    fmt.Println(c, c.URL)
//	}
//
// A failed or malformed lookup returns ErrRemoteLookup. No lookup ever
// touches a track; the caller decides what to embed.
//
// # Downloading
//
//	fetcher := artwork.NewFetcher(client, ioutils.PrepareOptions{MaxSize: 1000, ConvertToJPEG: true})
//	img, err := fetcher.Fetch(ctx, c.URL)
//	report := sync.ApplyPicture(img.Data, img.MIMEType)
package artwork
