package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"knowledgedrop/internal/config"
)

// WikipediaSource picks a random page from a random target category and
// resolves it through the page-summary REST endpoint, following
// redirects to the canonical title.
type WikipediaSource struct {
	apiURL     string
	summaryURL string
	categories []string
	pageLimit  int
	client     *http.Client
	log        *zap.Logger
}

// NewWikipedia creates the wikipedia random-lookup provider.
func NewWikipedia(cfg config.WikipediaConfig, client *http.Client, log *zap.Logger) *WikipediaSource {
	if log == nil {
		log = zap.NewNop()
	}
	limit := cfg.PageLimit
	if limit <= 0 {
		limit = 50
	}
	return &WikipediaSource{
		apiURL:     cfg.APIURL,
		summaryURL: cfg.SummaryURL,
		categories: cfg.Categories,
		pageLimit:  limit,
		client:     client,
		log:        log.Named("wikipedia"),
	}
}

// Name implements Provider.
func (s *WikipediaSource) Name() string { return Wikipedia }

type categoryMembersResponse struct {
	Query struct {
		CategoryMembers []struct {
			Title string `json:"title"`
		} `json:"categorymembers"`
	} `json:"query"`
}

type pageSummaryResponse struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Fetch implements Provider.
func (s *WikipediaSource) Fetch(ctx context.Context) (Record, error) {
	if len(s.categories) == 0 {
		return Record{}, fmt.Errorf("wikipedia: no target categories configured")
	}
	category := s.categories[rand.IntN(len(s.categories))]

	members, err := s.categoryMembers(ctx, category)
	if err != nil {
		return Record{}, err
	}
	if len(members) == 0 {
		return Record{}, fmt.Errorf("wikipedia: category %q has no members", category)
	}

	title := members[rand.IntN(len(members))]
	s.log.Debug("picked page", zap.String("category", category), zap.String("title", title))

	summary, err := s.pageSummary(ctx, title)
	if err != nil {
		return Record{}, err
	}
	if summary.ContentURLs.Desktop.Page == "" {
		return Record{}, fmt.Errorf("wikipedia: summary for %q has no desktop url", title)
	}

	rec := Record{
		Title:   summary.Title,
		Link:    summary.ContentURLs.Desktop.Page,
		Content: summary.Extract,
	}
	if rec.Title == "" {
		rec.Title = "Artigo Desconhecido"
	}
	if rec.Content == "" {
		rec.Content = "Sem resumo disponível."
	}
	return rec, nil
}

func (s *WikipediaSource) categoryMembers(ctx context.Context, category string) ([]string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "categorymembers")
	params.Set("cmtitle", "Categoria:"+category)
	params.Set("cmtype", "page")
	params.Set("cmlimit", strconv.Itoa(s.pageLimit))
	params.Set("format", "json")

	var out categoryMembersResponse
	if err := s.getJSON(ctx, s.apiURL+"?"+params.Encode(), &out); err != nil {
		return nil, fmt.Errorf("wikipedia: category members: %w", err)
	}

	titles := make([]string, 0, len(out.Query.CategoryMembers))
	for _, m := range out.Query.CategoryMembers {
		if m.Title != "" {
			titles = append(titles, m.Title)
		}
	}
	return titles, nil
}

func (s *WikipediaSource) pageSummary(ctx context.Context, title string) (*pageSummaryResponse, error) {
	u := s.summaryURL + "/" + url.PathEscape(title) + "?redirect=true"

	var out pageSummaryResponse
	if err := s.getJSON(ctx, u, &out); err != nil {
		return nil, fmt.Errorf("wikipedia: page summary: %w", err)
	}
	return &out, nil
}

func (s *WikipediaSource) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "knowledgedrop/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, u)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
