package domain

import (
	"context"
	"log/slog"

	"github.com/freightprint/carbon-etl/internal/emissions"
)

// Weather source labels recorded on enriched shipments.
const (
	WeatherSourceObserved = "observed"
	WeatherSourceNone     = "none"
	WeatherSourceFailed   = "failed"
)

// WeatherProvider looks up current conditions at a coordinate.
type WeatherProvider interface {
	CurrentConditions(ctx context.Context, lat, lon float64) (emissions.Observation, error)
}

// ResolveWeatherImpact attempts to look up conditions at the shipment's
// origin and convert them to emission adjustment factors. If provider is
// nil, the origin has no coordinates, or the lookup fails, the shipment
// proceeds without weather adjustment (graceful degradation) and the
// returned source label records why.
func ResolveWeatherImpact(ctx context.Context, s Shipment, provider WeatherProvider, logger *slog.Logger) (*emissions.WeatherImpact, string) {
	if provider == nil {
		return nil, WeatherSourceNone
	}
	if s.Origin.Lat == 0 && s.Origin.Lon == 0 {
		return nil, WeatherSourceNone
	}

	obs, err := provider.CurrentConditions(ctx, s.Origin.Lat, s.Origin.Lon)
	if err != nil {
		logger.Warn("weather lookup failed",
			"shipment_id", s.ID,
			"lat", s.Origin.Lat,
			"lon", s.Origin.Lon,
			"error", err,
		)
		return nil, WeatherSourceFailed
	}

	impact := emissions.ComputeWeatherImpact(obs, s.TransportMode)
	return &impact, WeatherSourceObserved
}
