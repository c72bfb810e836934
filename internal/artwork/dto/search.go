package dto

import "strings"

// thumbnailSize is the size of the artwork URL every search result carries.
const thumbnailSize = "100x100"

// SearchResponse is the body of an iTunes Search API reply.
type SearchResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []SearchResult `json:"results"`
}

// SearchResult is one album in a SearchResponse.
type SearchResult struct {
	WrapperType    string `json:"wrapperType"`
	CollectionID   int64  `json:"collectionId"`
	CollectionName string `json:"collectionName"`
	ArtistName     string `json:"artistName"`
	ArtworkURL100  string `json:"artworkUrl100"`
	ReleaseDate    string `json:"releaseDate"`
	TrackCount     int    `json:"trackCount"`
}

// LargeArtworkURL returns the artwork URL with the 100x100 thumbnail
// replaced by size, e.g. "1200x1200". The API only lists the thumbnail but
// serves other sizes from the same path. An empty size keeps the thumbnail.
func (r SearchResult) LargeArtworkURL(size string) string {
	if size == "" {
		return r.ArtworkURL100
	}
	return strings.Replace(r.ArtworkURL100, thumbnailSize, size, 1)
}

// Year returns the first four characters of the release date.
func (r SearchResult) Year() string {
	if len(r.ReleaseDate) < 4 {
		return ""
	}
	return r.ReleaseDate[:4]
}
