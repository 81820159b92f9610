// Package pipeline orchestrates the daily content acquisition: try the
// primary provider, walk its fallback chain on failure, fetch the
// daily-quote companion, and hand back an aggregate that is always
// fully populated.
package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"knowledgedrop/internal/provider"
)

// Defaulted field values, kept byte-for-byte from the note consumer's
// point of view.
const (
	TitleUnavailable   = "Título não disponível"
	ContentUnavailable = "Conteúdo não disponível"
	QuoteDefaultTitle  = "Daily Stoic"
)

// ErrNoUsableContent is returned when neither the main chain nor the
// daily quote produced anything real. The aggregate is still populated
// with placeholders; the caller decides whether to abort the run.
var ErrNoUsableContent = errors.New("no usable content from any source")

// Aggregate is the orchestrator's final output.
type Aggregate struct {
	Main       provider.Record
	DailyStoic provider.Record
}

// Orchestrator walks fallback chains over a fixed provider registry.
type Orchestrator struct {
	providers    map[string]provider.Provider
	fallbacks    map[string][]string
	maxFallbacks int
	log          *zap.Logger
}

// New creates an Orchestrator. maxFallbacks caps failed attempts: once
// the attempt count exceeds it, remaining candidates are not tried.
func New(providers map[string]provider.Provider, fallbacks map[string][]string, maxFallbacks int, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		providers:    providers,
		fallbacks:    fallbacks,
		maxFallbacks: maxFallbacks,
		log:          log.Named("pipeline"),
	}
}

// Run acquires the main record for primary (with fallbacks) and the
// daily-quote record (no fallbacks), defaulting any missing field.
func (o *Orchestrator) Run(ctx context.Context, primary string) (Aggregate, error) {
	main, attempted, found := o.fetchWithFallback(ctx, primary)
	if !found {
		o.log.Warn("all providers failed, synthesizing placeholder",
			zap.Strings("attempted", attempted))
		main = provider.FallbackRecord(attempted...)
	}

	quote, quoteErr := o.fetchQuote(ctx)
	if quoteErr != nil {
		o.log.Error("daily quote fetch failed", zap.Error(quoteErr))
	}

	agg := Aggregate{
		Main:       withDefaults(main, TitleUnavailable),
		DailyStoic: withDefaults(quote, QuoteDefaultTitle),
	}

	if !found && quoteErr != nil {
		return agg, ErrNoUsableContent
	}
	return agg, nil
}

// fetchWithFallback tries primary and then its configured alternates in
// order. The selected record is assigned only on success, so a failed
// later attempt can never erase an earlier one; found distinguishes
// "nothing yet" from a legitimately empty record.
func (o *Orchestrator) fetchWithFallback(ctx context.Context, primary string) (provider.Record, []string, bool) {
	candidates := append([]string{primary}, o.fallbacks[primary]...)

	var selected provider.Record
	found := false
	attempted := make([]string, 0, len(candidates))

	for i, name := range candidates {
		if i > o.maxFallbacks {
			o.log.Warn("fallback budget exhausted, giving up early",
				zap.Int("attempts", i), zap.Strings("skipped", candidates[i:]))
			break
		}

		p, ok := o.providers[name]
		if !ok {
			o.log.Warn("candidate provider not registered", zap.String("provider", name))
			continue
		}

		attempted = append(attempted, name)

		rec, err := p.Fetch(ctx)
		if err != nil {
			o.log.Error("provider failed, trying fallback",
				zap.String("provider", name), zap.Error(err))
			continue
		}
		if !rec.Usable() {
			o.log.Warn("provider returned unusable content, trying fallback",
				zap.String("provider", name))
			continue
		}

		selected = rec
		found = true
		o.log.Info("content acquired",
			zap.String("provider", name),
			zap.String("title", rec.Title),
			zap.Int("attempt", i+1))
		break
	}

	return selected, attempted, found
}

// fetchQuote invokes the daily-quote accessor. It is always the same
// source and no fallback chain applies to it.
func (o *Orchestrator) fetchQuote(ctx context.Context) (provider.Record, error) {
	p, ok := o.providers[provider.DailyStoic]
	if !ok {
		return provider.Record{}, errors.New("daily_stoic provider not registered")
	}
	return p.Fetch(ctx)
}

// withDefaults fills the missing fields of a record with the literal
// "not available" values the note template expects.
func withDefaults(r provider.Record, defaultTitle string) provider.Record {
	if r.Title == "" {
		r.Title = defaultTitle
	}
	if r.Content == "" {
		r.Content = ContentUnavailable
	}
	return r
}

// DailySource picks the day's provider: Monday through Friday rotate
// through the configured list, weekends fall back to wikipedia.
func DailySource(rotation []string, t time.Time) string {
	wd := t.Weekday()
	if wd >= time.Monday && wd <= time.Friday {
		idx := int(wd) - 1
		if idx < len(rotation) {
			return rotation[idx]
		}
	}
	return provider.Wikipedia
}
