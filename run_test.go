package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func exampleBlueprints() []*Blueprint {
	return []*Blueprint{exampleBlueprint(), secondExampleBlueprint()}
}

func testRunner(cfg Config, m *Metrics) *Runner {
	return NewRunner(cfg, slog.New(slog.DiscardHandler), m)
}

func TestRunnerSolveKeepsInputOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 2
	bps := []*Blueprint{secondExampleBlueprint(), exampleBlueprint()}

	results, err := testRunner(cfg, nil).Solve(context.Background(), bps, 24)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].BlueprintID)
	assert.Equal(t, 12, results[0].Geodes)
	assert.Equal(t, 1, results[1].BlueprintID)
	assert.Equal(t, 9, results[1].Geodes)
}

func TestRunnerSolveEmpty(t *testing.T) {
	results, err := testRunner(DefaultConfig(), nil).Solve(context.Background(), nil, 24)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRunnerQuality(t *testing.T) {
	answer, results, err := testRunner(DefaultConfig(), nil).Quality(context.Background(), exampleBlueprints())
	require.NoError(t, err)
	assert.Equal(t, 33, answer)
	assert.Len(t, results, 2)
}

func TestRunnerProduct(t *testing.T) {
	if testing.Short() {
		t.Skip("32-minute search")
	}
	answer, results, err := testRunner(DefaultConfig(), nil).Product(context.Background(), exampleBlueprints())
	require.NoError(t, err)
	assert.Equal(t, 56*62, answer)
	assert.Len(t, results, 2)
}

func TestRunnerProductPrefix(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Product = VariantConfig{Minutes: 24, Blueprints: 1}
	answer, results, err := testRunner(cfg, nil).Product(context.Background(), exampleBlueprints())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 9, answer)
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testRunner(DefaultConfig(), nil).Solve(ctx, exampleBlueprints(), 24)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunnerBadBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Backend = "memcached"
	_, err := testRunner(cfg, nil).Solve(context.Background(), exampleBlueprints(), 10)
	assert.ErrorContains(t, err, "unknown cache backend")
}

func TestRunnerWorkers(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, min(runtime.GOMAXPROCS(0), 2), testRunner(cfg, nil).workers(2))
	cfg.Workers = 8
	assert.Equal(t, 3, testRunner(cfg, nil).workers(3))
	assert.Equal(t, 1, testRunner(cfg, nil).workers(0))
}

func TestRunnerMetrics(t *testing.T) {
	m := NewMetrics()
	_, results, err := testRunner(DefaultConfig(), m).Quality(context.Background(), exampleBlueprints())
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.searches))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.geodes.WithLabelValues("1", "24")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.geodes.WithLabelValues("2", "24")))
	assert.Equal(t, float64(results[0].Stats.Nodes+results[1].Stats.Nodes), testutil.ToFloat64(m.nodes))
	assert.Equal(t, int(numPruneReasons)-1, testutil.CollectAndCount(m.pruned))
	assert.Equal(t, float64(results[0].Stats.Pruned[PrunedBound]+results[1].Stats.Pruned[PrunedBound]),
		testutil.ToFloat64(m.pruned.WithLabelValues("bound")))

	path := filepath.Join(t.TempDir(), "geode.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "geode_search_blueprints_total 2")
	assert.Contains(t, string(data), `geode_search_max_geodes{blueprint="2",minutes="24"} 12`)
}

func TestMetricsNil(t *testing.T) {
	var m *Metrics
	m.Observe(Result{Geodes: 1})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile("/nonexistent/dir/file.prom"))
	assert.NoError(t, NewMetrics().WriteTextfile(""))
}

func TestRunnerSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	_, err := testRunner(DefaultConfig(), nil).Solve(context.Background(), exampleBlueprints(), 24)
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	ids := map[int64]int64{}
	for _, span := range spans {
		assert.Equal(t, "geode.Solve", span.Name())
		attrs := map[attribute.Key]attribute.Value{}
		for _, kv := range span.Attributes() {
			attrs[kv.Key] = kv.Value
		}
		assert.Equal(t, int64(24), attrs["search.minutes"].AsInt64())
		ids[attrs["blueprint.id"].AsInt64()] = attrs["search.geodes"].AsInt64()
	}
	assert.Equal(t, map[int64]int64{1: 9, 2: 12}, ids)
}

func TestSetupStdoutTracing(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	shutdown, err := setupStdoutTracing(&buf)
	require.NoError(t, err)

	_, err = testRunner(DefaultConfig(), nil).Solve(context.Background(), exampleBlueprints()[:1], 12)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "geode.Solve")
}

func TestPrefix(t *testing.T) {
	bps := exampleBlueprints()
	assert.Len(t, prefix(bps, 0), 2)
	assert.Len(t, prefix(bps, 1), 1)
	assert.Len(t, prefix(bps, 5), 2)
	assert.Empty(t, prefix(nil, 3))
}
