package provider

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"knowledgedrop/internal/config"
)

// breakerProvider wraps a Provider with a circuit breaker so a source
// that keeps timing out fails fast instead of burning the full HTTP
// timeout on every fallback pass.
type breakerProvider struct {
	base Provider
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker decorates p with a sony/gobreaker circuit breaker. The
// breaker trips after the configured number of consecutive failures and
// re-probes after the open-state timeout.
func WithBreaker(p Provider, cfg config.BreakerConfig, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 3
	}

	settings := gobreaker.Settings{
		Name:    p.Name(),
		Timeout: cfg.TimeoutDuration(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("provider breaker state change",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &breakerProvider{
		base: p,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Name implements Provider.
func (b *breakerProvider) Name() string { return b.base.Name() }

// Fetch implements Provider.
func (b *breakerProvider) Fetch(ctx context.Context) (Record, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.base.Fetch(ctx)
	})
	if err != nil {
		// The base adapter already tags its errors with the source name;
		// open-state rejections come straight from gobreaker.
		return Record{}, err
	}

	rec, ok := result.(Record)
	if !ok {
		return Record{}, fmt.Errorf("%s: breaker returned unexpected type", b.base.Name())
	}
	return rec, nil
}
