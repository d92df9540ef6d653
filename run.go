package main

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Runner searches many blueprints on a bounded pool of goroutines. Each
// blueprint is an independent task; tasks share nothing but the metrics.
type Runner struct {
	cfg     Config
	logger  *slog.Logger
	metrics *Metrics
}

// NewRunner creates a runner. A nil logger uses slog.Default(); nil metrics
// are not recorded.
func NewRunner(cfg Config, logger *slog.Logger, metrics *Metrics) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, logger: logger, metrics: metrics}
}

func (r *Runner) workers(n int) int {
	w := r.cfg.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	return max(1, min(w, n))
}

// Solve searches every blueprint for the given horizon. Results come back in
// input order. Cancelling ctx stops blueprints that have not started yet;
// searches already running finish.
func (r *Runner) Solve(ctx context.Context, blueprints []*Blueprint, minutes int) ([]Result, error) {
	results := make([]Result, len(blueprints))
	if len(blueprints) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers(len(blueprints)))
	for i, bp := range blueprints {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.solveOne(gctx, bp, minutes)
			if err != nil {
				return err
			}
			results[i] = res
			r.logger.Info("blueprint solved",
				"progress", fmt.Sprintf("%d/%d", i+1, len(blueprints)),
				"blueprint", bp.ID,
				"minutes", minutes,
				"geodes", res.Geodes,
				"elapsed", res.Elapsed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) solveOne(ctx context.Context, bp *Blueprint, minutes int) (Result, error) {
	_, span := tracer().Start(ctx, "geode.Solve", trace.WithAttributes(
		attribute.Int("blueprint.id", bp.ID),
		attribute.Int("search.minutes", minutes),
	))
	defer span.End()

	res, err := NewOptimizer(bp, r.cfg, r.logger).Optimize(minutes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, fmt.Errorf("blueprint %d: %w", bp.ID, err)
	}
	span.SetAttributes(
		attribute.Int("search.geodes", res.Geodes),
		attribute.Int64("search.nodes", res.Stats.Nodes),
		attribute.Int64("search.cache_hits", res.Stats.CacheHits),
		attribute.Int64("search.pruned", res.Stats.PrunedTotal()),
	)
	r.metrics.Observe(res)
	return res, nil
}

// Quality runs the first task variant: every blueprint (or the configured
// prefix) over cfg.Quality.Minutes, answered by the sum of quality levels.
func (r *Runner) Quality(ctx context.Context, blueprints []*Blueprint) (int, []Result, error) {
	results, err := r.Solve(ctx, prefix(blueprints, r.cfg.Quality.Blueprints), r.cfg.Quality.Minutes)
	if err != nil {
		return 0, nil, err
	}
	return TotalQuality(results), results, nil
}

// Product runs the second task variant: the first cfg.Product.Blueprints
// blueprints over cfg.Product.Minutes, answered by the product of their
// geode counts.
func (r *Runner) Product(ctx context.Context, blueprints []*Blueprint) (int, []Result, error) {
	results, err := r.Solve(ctx, prefix(blueprints, r.cfg.Product.Blueprints), r.cfg.Product.Minutes)
	if err != nil {
		return 0, nil, err
	}
	return GeodeProduct(results), results, nil
}

// prefix returns the first n blueprints, or all of them when n is 0 or
// larger than the input.
func prefix(blueprints []*Blueprint, n int) []*Blueprint {
	if n <= 0 || n >= len(blueprints) {
		return blueprints
	}
	return blueprints[:n]
}
