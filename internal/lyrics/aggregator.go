package lyrics

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"bestlyrics/internal/logger"
	"bestlyrics/internal/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const defaultSourceTimeout = 8 * time.Second

// Aggregator queries every source concurrently and ranks what comes back.
// The order of sources is their priority when scores tie.
type Aggregator struct {
	sources []Source
	logger  *logger.Logger
	metrics *metrics.Collector
	timeout time.Duration
	tracer  trace.Tracer
}

// NewAggregator creates an Aggregator over sources, in priority order.
// If timeout is 0, each source call is bounded by the default (8s).
func NewAggregator(sources []Source, log *logger.Logger, m *metrics.Collector, timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}
	return &Aggregator{
		sources: sources,
		logger:  log,
		metrics: m,
		timeout: timeout,
		tracer:  otel.Tracer("bestlyrics/lyrics"),
	}
}

// Sources returns the identifiers of all registered sources in priority order.
func (a *Aggregator) Sources() []SourceID {
	ids := make([]SourceID, len(a.sources))
	for i, s := range a.sources {
		ids[i] = s.ID()
	}
	return ids
}

// Aggregate fetches candidates from all sources, waits for every call to
// finish, then cleans, scores and ranks them. An error is returned only when
// ctx is cancelled before the sources finish.
func (a *Aggregator) Aggregate(ctx context.Context, q Query) (Result, error) {
	ctx, span := a.tracer.Start(ctx, "lyrics.Aggregate", trace.WithAttributes(
		attribute.String("title", q.Title),
		attribute.String("artist", q.Artist),
	))
	defer span.End()

	raw := make([][]RawCandidate, len(a.sources))
	elapsed := make([]time.Duration, len(a.sources))

	// Sources report their own faults and never fail the group; Wait only
	// joins the calls.
	var g errgroup.Group
	for i, src := range a.sources {
		g.Go(func() error {
			raw[i], elapsed[i] = a.fetch(ctx, src, q)
			return nil
		})
	}
	g.Wait()

	result := Result{Tried: a.Sources()}

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		a.metrics.Request("cancelled")
		return result, fmt.Errorf("lyrics lookup cancelled: %w", err)
	}

	for i, src := range a.sources {
		kept := 0
		for _, c := range raw[i] {
			text, ok := Clean(c)
			if !ok {
				a.logger.Debug("%s: candidate below %d characters after cleaning, dropped", c.Source, MinLength)
				continue
			}
			kept++
			result.Ranked = append(result.Ranked, ScoredCandidate{
				Source: c.Source,
				Text:   text,
				Synced: c.Synced,
				Score:  Score(text, q.Title, q.Artist),
			})
		}
		a.metrics.ObserveFetch(string(src.ID()), elapsed[i], len(raw[i]), kept)
	}

	slices.SortStableFunc(result.Ranked, func(x, y ScoredCandidate) int {
		return cmp.Compare(y.Score, x.Score)
	})

	best, ok := result.Best()
	if !ok {
		a.logger.Debug("No lyrics for %q by %q from %d sources", q.Title, q.Artist, len(a.sources))
		a.metrics.Request("empty")
		return result, nil
	}

	a.logger.Debug("Best lyrics for %q by %q: %s (score %.1f, %d candidates)",
		q.Title, q.Artist, best.Source, best.Score, len(result.Ranked))
	span.SetAttributes(attribute.String("selected", string(best.Source)))
	a.metrics.Request("found")
	a.metrics.Selected(string(best.Source))
	return result, nil
}

func (a *Aggregator) fetch(ctx context.Context, src Source, q Query) ([]RawCandidate, time.Duration) {
	ctx, span := a.tracer.Start(ctx, "lyrics.Source.Fetch", trace.WithAttributes(
		attribute.String("source", string(src.ID())),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	candidates := src.Fetch(ctx, q)
	span.SetAttributes(attribute.Int("candidates", len(candidates)))
	return candidates, time.Since(start)
}
