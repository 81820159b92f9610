package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"knowledgedrop/internal/config"
	"knowledgedrop/internal/feed"
)

// PlatoSource fetches the Stanford Encyclopedia's random-entry
// redirect. The final redirected URL becomes the link; the document
// must contain an h1 title or the fetch fails.
type PlatoSource struct {
	randomURL  string
	maxContent int
	client     *http.Client
	log        *zap.Logger
}

// NewPlato creates the encyclopedia random-entry provider.
func NewPlato(cfg config.PlatoConfig, maxContent int, client *http.Client, log *zap.Logger) *PlatoSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlatoSource{
		randomURL:  cfg.RandomURL,
		maxContent: maxContent,
		client:     client,
		log:        log.Named("plato"),
	}
}

// Name implements Provider.
func (s *PlatoSource) Name() string { return Plato }

// Fetch implements Provider.
func (s *PlatoSource) Fetch(ctx context.Context) (Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.randomURL, nil)
	if err != nil {
		return Record{}, fmt.Errorf("plato: %w", err)
	}
	req.Header.Set("User-Agent", "knowledgedrop/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return Record{}, fmt.Errorf("plato: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Record{}, fmt.Errorf("plato: unexpected status %d", resp.StatusCode)
	}

	// The client has already followed the random redirect; this is the
	// entry's canonical URL.
	finalURL := resp.Request.URL.String()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return Record{}, fmt.Errorf("plato: parse entry: %w", err)
	}

	title := strings.TrimSpace(textOf(findElement(doc, "h1")))
	if title == "" {
		return Record{}, fmt.Errorf("plato: entry at %s has no title heading", finalURL)
	}

	var content string
	if preamble := findElementByID(doc, "preamble"); preamble != nil {
		content = feed.ExtractText(textOf(preamble), s.maxContent)
	} else if p := findElement(doc, "p"); p != nil {
		content = feed.ExtractText(textOf(p), s.maxContent)
	}
	if content == feed.NoContent {
		content = ""
	}

	s.log.Debug("resolved random entry", zap.String("title", title), zap.String("link", finalURL))

	return Record{
		Title:   title,
		Link:    finalURL,
		Content: content,
	}, nil
}

// findElement returns the first element with the given tag, depth-first.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// findElementByID returns the first element carrying the given id.
func findElementByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElementByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// textOf concatenates the text nodes under n.
func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
