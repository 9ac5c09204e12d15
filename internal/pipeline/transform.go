package pipeline

import (
	"context"
	"log/slog"

	"github.com/freightprint/carbon-etl/internal/domain"
	"github.com/freightprint/carbon-etl/internal/emissions"
	"github.com/freightprint/carbon-etl/internal/observability"
)

// ShipmentTransformer implements Transformer using the domain transform
// functions and the emission calculation engine, with optional weather
// enrichment.
type ShipmentTransformer struct {
	calc    *emissions.Calculator
	weather domain.WeatherProvider
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewTransformer creates a ShipmentTransformer. Pass a nil weather provider
// to disable weather enrichment.
func NewTransformer(calc *emissions.Calculator, weather domain.WeatherProvider, metrics *observability.Metrics, logger *slog.Logger) *ShipmentTransformer {
	return &ShipmentTransformer{
		calc:    calc,
		weather: weather,
		metrics: metrics,
		logger:  logger,
	}
}

// Transform parses a raw record, annotates quality issues, resolves weather
// conditions at the origin, and runs the emission calculation. A record the
// engine rejects (bad weight, distance, or mode) fails the transform; the
// pipeline skips and commits it.
func (t *ShipmentTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.Shipment, error) {
	shipment, rec, err := domain.ParseRawShipment(raw)
	if err != nil {
		return domain.Shipment{}, err
	}

	shipment.QualityIssues = domain.ValidateRecord(rec)
	for _, issue := range shipment.QualityIssues {
		t.metrics.QualityIssues.WithLabelValues(issue).Inc()
	}

	shipment.WeatherImpact, shipment.WeatherSource = domain.ResolveWeatherImpact(ctx, shipment, t.weather, t.logger)

	result, err := t.calc.TransportEmissions(shipment.TransportParams())
	if err != nil {
		return domain.Shipment{}, err
	}
	shipment.Emissions = result

	return domain.EnrichShipment(shipment), nil
}
