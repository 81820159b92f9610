package provider

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"knowledgedrop/internal/feed"
)

// FeedSource is a provider backed by a fixed RSS/Atom feed. One entry
// is chosen uniformly at random from whatever the feed returns.
type FeedSource struct {
	name       string
	label      string
	url        string
	maxContent int
	fetcher    *feed.Fetcher
	log        *zap.Logger
}

// NewFeedSource creates a feed-backed provider.
func NewFeedSource(name, label, url string, maxContent int, fetcher *feed.Fetcher, log *zap.Logger) *FeedSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &FeedSource{
		name:       name,
		label:      label,
		url:        url,
		maxContent: maxContent,
		fetcher:    fetcher,
		log:        log.Named(name),
	}
}

// Name implements Provider.
func (s *FeedSource) Name() string { return s.name }

// Fetch implements Provider.
func (s *FeedSource) Fetch(ctx context.Context) (Record, error) {
	parsed, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", s.name, err)
	}

	entry := parsed.Items[rand.IntN(len(parsed.Items))]

	title := entry.Title
	if title == "" {
		title = fmt.Sprintf("Artigo %s", s.label)
	}

	s.log.Debug("selected feed entry", zap.String("title", title), zap.String("link", entry.Link))

	return Record{
		Title:   title,
		Link:    entry.Link,
		Content: feed.ExtractText(entry.Description, s.maxContent),
	}, nil
}
