package catalog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const metricNamespace = "finitefield.org/hanko-menu/internal/catalog"

type instruments struct {
	fetchLatency        metric.Float64Histogram
	fetchLatencyEnabled bool
	lookups             metric.Int64Counter
	lookupsEnabled      bool
}

func newInstruments(meter metric.Meter, logger *zap.Logger) *instruments {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(metricNamespace)
	}

	latency, latencyErr := meter.Float64Histogram(
		"catalog.fetch.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Latency in milliseconds of the catalog fetch"),
	)
	if latencyErr != nil {
		logger.Warn("catalog: unable to register fetch latency metric", zap.Error(latencyErr))
	}

	lookups, lookupsErr := meter.Int64Counter(
		"catalog.derivation.lookups",
		metric.WithDescription("Count of memoized category and search derivations by result"),
	)
	if lookupsErr != nil {
		logger.Warn("catalog: unable to register derivation lookup metric", zap.Error(lookupsErr))
	}

	return &instruments{
		fetchLatency:        latency,
		fetchLatencyEnabled: latencyErr == nil,
		lookups:             lookups,
		lookupsEnabled:      lookupsErr == nil,
	}
}

func (in *instruments) recordFetch(ctx context.Context, d time.Duration, err error) {
	if in == nil || !in.fetchLatencyEnabled {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	in.fetchLatency.Record(ctx, float64(d)/float64(time.Millisecond),
		metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (in *instruments) recordLookup(kind string, hit bool) {
	if in == nil || !in.lookupsEnabled {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	in.lookups.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("result", result),
	))
}
