package domain

import (
	"context"
	"time"

	"github.com/freightprint/carbon-etl/internal/emissions"
)

// RawShipmentRecord represents the flat JSON structure published by upstream
// logistics systems. Coordinates are pointers so a missing field can be told
// apart from a genuine 0.0 reading (Null Island is not a warehouse).
type RawShipmentRecord struct {
	ShipmentID      string   `json:"shipment_id"`
	Carrier         string   `json:"carrier"`
	PackageType     string   `json:"package_type"`
	OriginCity      string   `json:"origin_city"`
	OriginLat       *float64 `json:"origin_lat"`
	OriginLon       *float64 `json:"origin_lon"`
	DestinationCity string   `json:"destination_city"`
	DestinationLat  *float64 `json:"destination_lat"`
	DestinationLon  *float64 `json:"destination_lon"`
	DistanceKM      float64  `json:"distance_km"`
	WeightKG        float64  `json:"weight_kg"`
	TransportMode   string   `json:"transport_mode"`
	DepartureTime   string   `json:"departure_time"` // RFC 3339
	ArrivalTime     string   `json:"arrival_time"`   // RFC 3339

	// Optional operational overrides; zero means "use engine default".
	LoadFactor     float64 `json:"load_factor,omitempty"`
	FuelEfficiency float64 `json:"fuel_efficiency,omitempty"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Location is a named place with WGS-84 coordinates.
type Location struct {
	City string  `json:"city,omitempty"`
	Lat  float64 `json:"lat,omitempty"`
	Lon  float64 `json:"lon,omitempty"`
}

// Shipment is the domain-rich representation after parsing and enrichment.
type Shipment struct {
	ID            string    `json:"id"`
	Carrier       string    `json:"carrier,omitempty"`
	PackageType   string    `json:"package_type,omitempty"`
	Origin        Location  `json:"origin"`
	Destination   Location  `json:"destination"`
	DistanceKM    float64   `json:"distance_km"`
	WeightKG      float64   `json:"weight_kg"`
	TransportMode string    `json:"transport_mode"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	TransitHours  float64   `json:"transit_hours,omitempty"`

	// Operational overrides carried through from the raw record; zero means
	// the engine default was used.
	LoadFactor     float64 `json:"load_factor,omitempty"`
	FuelEfficiency float64 `json:"fuel_efficiency,omitempty"`

	// Emission enrichment fields.
	Emissions              emissions.EmissionResult `json:"emissions"`
	CarbonIntensityKGPerKM float64                  `json:"carbon_intensity_kg_per_km"`
	WeatherImpact          *emissions.WeatherImpact `json:"weather_impact,omitempty"`
	WeatherSource          string                   `json:"weather_source,omitempty"` // "observed", "none", "failed"

	// Quality annotations.
	QualityIssues []string `json:"quality_issues,omitempty"`
	Anomalous     bool     `json:"anomalous,omitempty"`

	RawPayload  []byte    `json:"-"`
	ProcessedAt time.Time `json:"processed_at"`
}

// TransportParams maps the shipment onto the calculation engine's input.
func (s Shipment) TransportParams() emissions.TransportParams {
	return emissions.TransportParams{
		DistanceKM:     s.DistanceKM,
		WeightKG:       s.WeightKG,
		Mode:           s.TransportMode,
		Weather:        s.WeatherImpact,
		LoadFactor:     s.LoadFactor,
		FuelEfficiency: s.FuelEfficiency,
	}
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
