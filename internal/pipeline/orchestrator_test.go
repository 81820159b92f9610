package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledgedrop/internal/provider"
)

// fakeProvider scripts one adapter's behavior and counts invocations.
type fakeProvider struct {
	name  string
	rec   provider.Record
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Fetch(ctx context.Context) (provider.Record, error) {
	f.calls++
	return f.rec, f.err
}

func goodRecord(title string) provider.Record {
	return provider.Record{Title: title, Link: "https://example.org/" + title, Content: "texto"}
}

func quoteProvider() *fakeProvider {
	return &fakeProvider{name: provider.DailyStoic, rec: goodRecord("stoic")}
}

func registryOf(providers ...*fakeProvider) map[string]provider.Provider {
	reg := make(map[string]provider.Provider, len(providers))
	for _, p := range providers {
		reg[p.name] = p
	}
	return reg
}

var testFallbacks = map[string][]string{
	"jstor":   {"science", "wikipedia"},
	"science": {"wikipedia", "nautilus"},
}

func TestRun_PrimarySuccessShortCircuits(t *testing.T) {
	jstor := &fakeProvider{name: "jstor", rec: goodRecord("artigo-jstor")}
	science := &fakeProvider{name: "science", rec: goodRecord("artigo-science")}
	wiki := &fakeProvider{name: "wikipedia", rec: goodRecord("artigo-wiki")}
	quote := quoteProvider()

	o := New(registryOf(jstor, science, wiki, quote), testFallbacks, 2, nil)
	agg, err := o.Run(context.Background(), "jstor")
	require.NoError(t, err)

	assert.Equal(t, "artigo-jstor", agg.Main.Title)
	assert.Equal(t, 1, jstor.calls)
	assert.Zero(t, science.calls, "fallback must not be invoked when primary succeeds")
	assert.Zero(t, wiki.calls)
	assert.Equal(t, 1, quote.calls, "quote accessor always runs")
}

func TestRun_FallbackOrder(t *testing.T) {
	jstor := &fakeProvider{name: "jstor", err: errors.New("timeout")}
	science := &fakeProvider{name: "science", err: errors.New("503")}
	wiki := &fakeProvider{name: "wikipedia", rec: goodRecord("artigo-wiki")}
	quote := quoteProvider()

	o := New(registryOf(jstor, science, wiki, quote), testFallbacks, 2, nil)
	agg, err := o.Run(context.Background(), "jstor")
	require.NoError(t, err)

	assert.Equal(t, "artigo-wiki", agg.Main.Title)
	assert.Equal(t, 1, jstor.calls)
	assert.Equal(t, 1, science.calls)
	assert.Equal(t, 1, wiki.calls)
}

func TestRun_AllFailSynthesizesPlaceholder(t *testing.T) {
	jstor := &fakeProvider{name: "jstor", err: errors.New("down")}
	science := &fakeProvider{name: "science", err: errors.New("down")}
	wiki := &fakeProvider{name: "wikipedia", err: errors.New("down")}
	quote := quoteProvider()

	o := New(registryOf(jstor, science, wiki, quote), testFallbacks, 2, nil)
	agg, err := o.Run(context.Background(), "jstor")
	require.NoError(t, err, "quote succeeded, so the run is degraded but not failed")

	assert.Equal(t, "Falha na Geração Automática", agg.Main.Title)
	assert.Contains(t, agg.Main.Content, "jstor, science, wikipedia")
	assert.NotEmpty(t, agg.Main.Title)
}

func TestRun_MaxFallbacksStopsEarly(t *testing.T) {
	// Four-candidate chain, budget of 1: only the primary and the first
	// fallback may be attempted.
	first := &fakeProvider{name: "a", err: errors.New("down")}
	second := &fakeProvider{name: "b", err: errors.New("down")}
	third := &fakeProvider{name: "c", rec: goodRecord("nunca")}
	fourth := &fakeProvider{name: "d", rec: goodRecord("jamais")}
	quote := quoteProvider()

	fallbacks := map[string][]string{"a": {"b", "c", "d"}}
	o := New(registryOf(first, second, third, fourth, quote), fallbacks, 1, nil)

	agg, err := o.Run(context.Background(), "a")
	require.NoError(t, err)

	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Zero(t, third.calls, "budget exceeded, remaining candidates must not run")
	assert.Zero(t, fourth.calls)
	assert.Equal(t, "Falha na Geração Automática", agg.Main.Title)
}

func TestRun_LaterFailureCannotEraseEarlierSuccess(t *testing.T) {
	// The primary succeeds with an empty-content record; the chain must
	// stop there and the defaulting layer fills content in. No fallback
	// runs, so no later attempt can overwrite the selection.
	primary := &fakeProvider{name: "jstor", rec: provider.Record{Title: "só título", Link: "https://x"}}
	science := &fakeProvider{name: "science", err: errors.New("down")}
	quote := quoteProvider()

	o := New(registryOf(primary, science, quote), map[string][]string{"jstor": {"science"}}, 2, nil)
	agg, err := o.Run(context.Background(), "jstor")
	require.NoError(t, err)

	assert.Equal(t, "só título", agg.Main.Title)
	assert.Equal(t, ContentUnavailable, agg.Main.Content)
	assert.Zero(t, science.calls)
}

func TestRun_DefaultsAlwaysPopulated(t *testing.T) {
	for _, name := range []string{"jstor", "science"} {
		prov := &fakeProvider{name: name, err: errors.New("down")}
		quote := quoteProvider()
		o := New(registryOf(prov, quote), nil, 2, nil)

		agg, err := o.Run(context.Background(), name)
		require.NoError(t, err)
		assert.NotEmpty(t, agg.Main.Title, "main.title must never be empty for %s", name)
		assert.NotEmpty(t, agg.DailyStoic.Title)
	}
}

func TestRun_QuoteDefaulting(t *testing.T) {
	jstor := &fakeProvider{name: "jstor", rec: goodRecord("artigo")}
	quote := &fakeProvider{name: provider.DailyStoic, rec: provider.Record{Link: "https://dailystoic.com/x"}}

	o := New(registryOf(jstor, quote), nil, 2, nil)
	agg, err := o.Run(context.Background(), "jstor")
	require.NoError(t, err)

	want := provider.Record{
		Title:   QuoteDefaultTitle,
		Link:    "https://dailystoic.com/x",
		Content: ContentUnavailable,
	}
	if diff := cmp.Diff(want, agg.DailyStoic); diff != "" {
		t.Errorf("daily stoic record mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_BothUnavailableIsHardFailure(t *testing.T) {
	jstor := &fakeProvider{name: "jstor", err: errors.New("down")}
	quote := &fakeProvider{name: provider.DailyStoic, err: errors.New("down")}

	o := New(registryOf(jstor, quote), nil, 2, nil)
	agg, err := o.Run(context.Background(), "jstor")

	require.ErrorIs(t, err, ErrNoUsableContent)
	// Even the hard-failure aggregate stays fully populated.
	assert.NotEmpty(t, agg.Main.Title)
	assert.NotEmpty(t, agg.DailyStoic.Title)
}

func TestRun_UnknownPrimaryStillDegrades(t *testing.T) {
	quote := quoteProvider()
	o := New(registryOf(quote), nil, 2, nil)

	agg, err := o.Run(context.Background(), "inexistente")
	require.NoError(t, err)
	assert.Equal(t, "Falha na Geração Automática", agg.Main.Title)
}

func TestDailySource(t *testing.T) {
	rotation := []string{"wikipedia", "science", "jstor", "nautilus", "pesquisa_fapesp"}

	cases := []struct {
		day  time.Time
		want string
	}{
		{time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC), "wikipedia"},       // Monday
		{time.Date(2025, 3, 4, 8, 0, 0, 0, time.UTC), "science"},         // Tuesday
		{time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC), "jstor"},           // Wednesday
		{time.Date(2025, 3, 6, 8, 0, 0, 0, time.UTC), "nautilus"},        // Thursday
		{time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC), "pesquisa_fapesp"}, // Friday
		{time.Date(2025, 3, 8, 8, 0, 0, 0, time.UTC), "wikipedia"},       // Saturday
		{time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC), "wikipedia"},       // Sunday
	}
	for _, tc := range cases {
		if got := DailySource(rotation, tc.day); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.day.Weekday(), tc.want, got)
		}
	}
}

func TestDailySource_ShortRotation(t *testing.T) {
	// Friday with a two-entry rotation falls back to wikipedia.
	friday := time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "wikipedia", DailySource([]string{"science", "jstor"}, friday))
}
