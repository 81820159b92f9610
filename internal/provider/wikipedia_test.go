package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledgedrop/internal/config"
)

func wikipediaTestServer(t *testing.T, members []string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "query", r.URL.Query().Get("action"))
		assert.Equal(t, "categorymembers", r.URL.Query().Get("list"))
		assert.Equal(t, "50", r.URL.Query().Get("cmlimit"))

		type member struct {
			Title string `json:"title"`
		}
		ms := make([]member, 0, len(members))
		for _, m := range members {
			ms = append(ms, member{Title: m})
		}
		resp := map[string]any{
			"query": map[string]any{"categorymembers": ms},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	mux.HandleFunc("/api/rest_v1/page/summary/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("redirect"))
		resp := map[string]any{
			"title":   "Nebulosa de Órion",
			"extract": "Uma nebulosa difusa na constelação de Órion.",
			"content_urls": map[string]any{
				"desktop": map[string]any{
					"page": "https://pt.wikipedia.org/wiki/Nebulosa_de_%C3%93rion",
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	return httptest.NewServer(mux)
}

func newWikipediaSource(srvURL string, categories []string) *WikipediaSource {
	cfg := config.WikipediaConfig{
		APIURL:     srvURL + "/w/api.php",
		SummaryURL: srvURL + "/api/rest_v1/page/summary",
		Categories: categories,
		PageLimit:  50,
	}
	return NewWikipedia(cfg, &http.Client{Timeout: 5 * time.Second}, nil)
}

func TestWikipedia_Fetch(t *testing.T) {
	srv := wikipediaTestServer(t, []string{"Nebulosa de Órion"})
	defer srv.Close()

	src := newWikipediaSource(srv.URL, []string{"Astronomia"})
	rec, err := src.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Nebulosa de Órion", rec.Title)
	assert.Equal(t, "https://pt.wikipedia.org/wiki/Nebulosa_de_%C3%93rion", rec.Link)
	assert.Contains(t, rec.Content, "nebulosa difusa")
}

func TestWikipedia_EmptyCategory(t *testing.T) {
	srv := wikipediaTestServer(t, nil)
	defer srv.Close()

	src := newWikipediaSource(srv.URL, []string{"Aracnologia"})
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no members")
}

func TestWikipedia_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src := newWikipediaSource(srv.URL, []string{"Física"})
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
}

func TestWikipedia_MissingDesktopURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"query":{"categorymembers":[{"title":"Tolkien"}]}}`))
	})
	mux.HandleFunc("/api/rest_v1/page/summary/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title":"Tolkien","extract":"..."}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	src := newWikipediaSource(srv.URL, []string{"Tolkien"})
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no desktop url")
}

func TestWikipedia_NoCategoriesConfigured(t *testing.T) {
	src := newWikipediaSource("http://unused.invalid", nil)
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
}
