// Package provider implements the content sources: one adapter per
// named source, each producing a normalized Record or a typed error.
// The fallback policy across providers lives in internal/pipeline, one
// level up.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"

	"knowledgedrop/internal/config"
	"knowledgedrop/internal/feed"
)

// Provider names. The registry is keyed by these; dispatch is an
// explicit map lookup resolved at construction time, never by
// reflection or string assembly.
const (
	Wikipedia      = "wikipedia"
	Science        = "science"
	Jstor          = "jstor"
	Nautilus       = "nautilus"
	PesquisaFapesp = "pesquisa_fapesp"
	Plato          = "plato"
	DailyStoic     = "daily_stoic"
)

// Record is the normalized output of any provider.
type Record struct {
	Title   string
	Link    string
	Content string // optional, plain text, bounded
}

// Usable reports whether the record carries enough to build a note.
func (r Record) Usable() bool {
	return r.Title != "" || r.Link != ""
}

// Provider is the uniform contract every adapter satisfies.
type Provider interface {
	Name() string
	Fetch(ctx context.Context) (Record, error)
}

// FallbackRecord builds the standardized manual-research placeholder
// listing the sources that were attempted.
func FallbackRecord(attempted ...string) Record {
	return Record{
		Title: "Falha na Geração Automática",
		Link:  "",
		Content: fmt.Sprintf(`**Fontes tentadas:** %s

## Instruções:
1. Acesse manualmente: [Wikipedia](https://wikipedia.org)
2. Escolha um conceito relevante
3. Adicione seus insights abaixo`, strings.Join(attempted, ", ")),
	}
}

// BuildRegistry constructs every configured provider, keyed by name.
// Feed-backed sources come from cfg.Providers.Feeds; wikipedia and
// plato are always registered. The breaker decorator is applied when
// enabled.
func BuildRegistry(cfg *config.Config, client *http.Client, fetcher *feed.Fetcher, log *zap.Logger) map[string]Provider {
	if log == nil {
		log = zap.NewNop()
	}

	registry := make(map[string]Provider)

	for name, fc := range cfg.Providers.Feeds {
		registry[name] = NewFeedSource(name, fc.Label, fc.URL, cfg.Content.MaxLength, fetcher, log)
	}
	registry[Wikipedia] = NewWikipedia(cfg.Providers.Wikipedia, client, log)
	registry[Plato] = NewPlato(cfg.Providers.Plato, cfg.Content.MaxLength, client, log)

	if cfg.Providers.Breaker.Enabled {
		for name, p := range registry {
			registry[name] = WithBreaker(p, cfg.Providers.Breaker, log)
		}
	}

	return registry
}

// Names returns the registered provider names in sorted order.
func Names(registry map[string]Provider) []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
