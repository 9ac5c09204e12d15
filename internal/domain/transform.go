package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// ParseRawShipment deserializes a RawEvent's value into a Shipment.
// It expects the flat JSON produced by upstream logistics systems.
//
// Missing distances are recovered from origin/destination coordinates via
// great-circle distance when both ends are present; timestamps that fail to
// parse are left as zero times rather than rejecting the record, so a sloppy
// upstream cannot block emission accounting. Physical validation happens
// later, in the calculation engine.
func ParseRawShipment(raw RawEvent) (Shipment, RawShipmentRecord, error) {
	var rec RawShipmentRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return Shipment{}, RawShipmentRecord{}, fmt.Errorf("parse raw shipment: %w", err)
	}

	origin := Location{City: strings.TrimSpace(rec.OriginCity)}
	if rec.OriginLat != nil && rec.OriginLon != nil {
		origin.Lat = *rec.OriginLat
		origin.Lon = *rec.OriginLon
	}
	destination := Location{City: strings.TrimSpace(rec.DestinationCity)}
	if rec.DestinationLat != nil && rec.DestinationLon != nil {
		destination.Lat = *rec.DestinationLat
		destination.Lon = *rec.DestinationLon
	}

	distance := rec.DistanceKM
	if distance <= 0 && hasCoords(rec.OriginLat, rec.OriginLon) && hasCoords(rec.DestinationLat, rec.DestinationLon) {
		distance = HaversineKM(origin.Lat, origin.Lon, destination.Lat, destination.Lon)
	}

	departure := parseRFC3339OrZero(rec.DepartureTime)
	arrival := parseRFC3339OrZero(rec.ArrivalTime)

	id := strings.TrimSpace(rec.ShipmentID)
	if id == "" {
		id = generateID(rec)
	}

	return Shipment{
		ID:             id,
		Carrier:        strings.TrimSpace(rec.Carrier),
		PackageType:    strings.TrimSpace(rec.PackageType),
		Origin:         origin,
		Destination:    destination,
		DistanceKM:     distance,
		WeightKG:       rec.WeightKG,
		TransportMode:  strings.ToLower(strings.TrimSpace(rec.TransportMode)),
		DepartureTime:  departure,
		ArrivalTime:    arrival,
		LoadFactor:     rec.LoadFactor,
		FuelEfficiency: rec.FuelEfficiency,

		RawPayload: raw.Value,
	}, rec, nil
}

func hasCoords(lat, lon *float64) bool {
	return lat != nil && lon != nil
}

// parseRFC3339OrZero parses an RFC 3339 timestamp, returning the zero time on
// failure. Empty and malformed timestamps are common in carrier feeds.
func parseRFC3339OrZero(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// generateID produces a deterministic ID from the record's key fields.
// Deterministic IDs keep reprocessing idempotent downstream: replaying the
// same raw record produces the same shipment ID.
func generateID(rec RawShipmentRecord) string {
	input := fmt.Sprintf("%s|%s|%s|%g|%g|%s",
		rec.OriginCity, rec.DestinationCity, rec.TransportMode,
		rec.WeightKG, rec.DistanceKM, rec.DepartureTime,
	)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	return "shp-" + short
}

// EnrichShipment attaches derived fields after the emission calculation:
// per-kilometer carbon intensity, transit duration, and the processing
// timestamp. The emission result itself is set by the caller beforehand.
func EnrichShipment(s Shipment) Shipment {
	if s.DistanceKM > 0 {
		s.CarbonIntensityKGPerKM = s.Emissions.CO2KG / s.DistanceKM
	}
	if !s.DepartureTime.IsZero() && !s.ArrivalTime.IsZero() && s.ArrivalTime.After(s.DepartureTime) {
		s.TransitHours = s.ArrivalTime.Sub(s.DepartureTime).Hours()
	}
	s.ProcessedAt = clock.Now()
	return s
}

// SerializeShipment renders a shipment as an OutputEvent for the sink topic.
// The shipment ID becomes the message key so downstream consumers see all
// updates for one shipment in order.
func SerializeShipment(s Shipment) (OutputEvent, error) {
	value, err := json.Marshal(s)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize shipment %s: %w", s.ID, err)
	}

	return OutputEvent{
		Key:   []byte(s.ID),
		Value: value,
		Headers: map[string]string{
			"transport_mode": s.TransportMode,
			"processed_at":   s.ProcessedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}
