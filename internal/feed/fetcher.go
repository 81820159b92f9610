// Package feed fetches and validates RSS/Atom feeds and extracts plain
// text from entry markup. Retry policy does not live here: a failed
// fetch is reported once and the caller decides which source to try
// next.
package feed

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

// Kind classifies a fetch failure.
type Kind string

const (
	// KindHTTP covers network errors, timeouts and non-2xx statuses.
	KindHTTP Kind = "http"
	// KindParse covers bodies that are not a valid RSS/Atom document.
	KindParse Kind = "parse"
	// KindEmptyFeed covers feeds that parse but contain zero entries.
	KindEmptyFeed Kind = "empty_feed"
)

// FetchError is the typed failure returned by Fetch.
type FetchError struct {
	URL    string
	Kind   Kind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("feed fetch %s: %s (status %d)", e.URL, e.Kind, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("feed fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("feed fetch %s: %s", e.URL, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher performs single-shot feed fetches with a bounded timeout.
type Fetcher struct {
	client *http.Client
	parser *gofeed.Parser
	log    *zap.Logger
}

// NewFetcher creates a Fetcher sharing one HTTP client across calls.
func NewFetcher(client *http.Client, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		client: client,
		parser: gofeed.NewParser(),
		log:    log,
	}
}

// Fetch issues one GET against url and parses the body as RSS/Atom.
// A feed with zero entries is a *FetchError with KindEmptyFeed, not a
// success.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Kind: KindHTTP, Err: err}
	}
	req.Header.Set("User-Agent", "knowledgedrop/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Error("feed request failed", zap.String("url", url), zap.Error(err))
		return nil, &FetchError{URL: url, Kind: KindHTTP, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.log.Error("feed request returned non-2xx",
			zap.String("url", url), zap.Int("status", resp.StatusCode))
		return nil, &FetchError{URL: url, Kind: KindHTTP, Status: resp.StatusCode}
	}

	parsed, err := f.parser.Parse(resp.Body)
	if err != nil {
		f.log.Error("feed body is not a valid feed", zap.String("url", url), zap.Error(err))
		return nil, &FetchError{URL: url, Kind: KindParse, Err: err}
	}

	if len(parsed.Items) == 0 {
		f.log.Warn("feed has no entries", zap.String("url", url))
		return nil, &FetchError{URL: url, Kind: KindEmptyFeed}
	}

	return parsed, nil
}
