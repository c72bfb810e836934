package artwork

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"

	"github.com/cshotwell/mp3-tagger/internal/artwork/dto"
	"github.com/cshotwell/mp3-tagger/internal/http"
	"github.com/sirupsen/logrus"
)

// ErrRemoteLookup is returned when the catalog cannot be reached or
// answers with something that is not a search result. Callers should show
// it as "no results" and carry on.
var ErrRemoteLookup = errors.New("album art lookup failed")

// DefaultSearchURL is the iTunes Search API endpoint.
const DefaultSearchURL = "https://itunes.apple.com/search"

// Getter fetches a URL. *http.Client implements it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// SearchOptions configures a Searcher. Zero values select the defaults.
type SearchOptions struct {
	BaseURL string
	Country string
	Limit   int

	// Size replaces the 100x100 thumbnail size in result URLs.
	Size string

	Logger logrus.FieldLogger
}

// Candidate is one piece of album art offered by the catalog.
type Candidate struct {
	Artist string
	Album  string
	Year   string
	URL    string
}

func (c Candidate) String() string {
	label := c.Album
	if c.Artist != "" {
		label = c.Artist + " - " + label
	}
	if c.Year != "" {
		label += " (" + c.Year + ")"
	}
	return label
}

// Searcher looks up album art by free-text query.
//
// Example:
//
//	s := artwork.NewSearcher(client, artwork.SearchOptions{Size: "1200x1200"})
//	urls, err := s.Search(ctx, "saintseneca dark arc")
//	if err != nil {
//	    return err // ErrRemoteLookup
//	}
//	for u := range urls {
//	    fmt.Println(u)
//	}
type Searcher struct {
	client  Getter
	baseURL string
	country string
	limit   int
	size    string
	log     logrus.FieldLogger
}

// NewSearcher creates a Searcher that sends its requests through client.
func NewSearcher(client Getter, opts SearchOptions) *Searcher {
	s := &Searcher{
		client:  client,
		baseURL: opts.BaseURL,
		country: opts.Country,
		limit:   opts.Limit,
		size:    opts.Size,
		log:     opts.Logger,
	}
	if s.baseURL == "" {
		s.baseURL = DefaultSearchURL
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	return s
}

// SearchURL builds the request URL for query. Spaces become '+'.
func (s *Searcher) SearchURL(query string) string {
	params := []string{
		"term=" + url.QueryEscape(query),
		"media=music",
		"entity=album",
	}
	if s.country != "" {
		params = append(params, "country="+url.QueryEscape(s.country))
	}
	if s.limit > 0 {
		params = append(params, "limit="+strconv.Itoa(s.limit))
	}

	sep := "?"
	if strings.Contains(s.baseURL, "?") {
		sep = "&"
	}
	return s.baseURL + sep + strings.Join(params, "&")
}

// Candidates runs the query and returns the albums that carry artwork.
//
// A non-200 answer or an empty result list yields an empty sequence and no
// error. The request is made before Candidates returns; the sequence only
// walks the decoded results.
func (s *Searcher) Candidates(ctx context.Context, query string) (iter.Seq[Candidate], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return none[Candidate](), nil
	}

	searchURL := s.SearchURL(query)
	log := s.log.WithField("query", query)

	body, err := s.client.Get(ctx, searchURL)
	if err != nil {
		var statusErr *http.StatusError
		if errors.As(err, &statusErr) {
			log.WithField("status", statusErr.Code).Warn("Album art search returned no results")
			return none[Candidate](), nil
		}
		return none[Candidate](), fmt.Errorf("%w: %w", ErrRemoteLookup, err)
	}

	var resp dto.SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return none[Candidate](), fmt.Errorf("%w: malformed response: %w", ErrRemoteLookup, err)
	}
	log.WithField("results", len(resp.Results)).Debug("Album art search done")

	size := s.size
	return func(yield func(Candidate) bool) {
		for _, r := range resp.Results {
			if r.ArtworkURL100 == "" {
				continue
			}
			c := Candidate{
				Artist: r.ArtistName,
				Album:  r.CollectionName,
				Year:   r.Year(),
				URL:    r.LargeArtworkURL(size),
			}
			if !yield(c) {
				return
			}
		}
	}, nil
}

// Search is Candidates reduced to the image URLs.
func (s *Searcher) Search(ctx context.Context, query string) (iter.Seq[string], error) {
	candidates, err := s.Candidates(ctx, query)
	if err != nil {
		return none[string](), err
	}
	return func(yield func(string) bool) {
		for c := range candidates {
			if !yield(c.URL) {
				return
			}
		}
	}, nil
}

// Take collects at most n values of seq. Zero or a negative n collects all,
// matching a search sent without a limit.
func Take[T any](seq iter.Seq[T], n int) []T {
	var out []T
	for v := range seq {
		out = append(out, v)
		if n > 0 && len(out) == n {
			break
		}
	}
	return out
}

func none[T any]() iter.Seq[T] {
	return func(func(T) bool) {}
}
