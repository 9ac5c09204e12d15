package domain

import (
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/freightprint/carbon-etl/internal/emissions"
)

// Quality issue codes attached to shipments. Issues are advisory: a flagged
// shipment still flows through the pipeline, letting downstream consumers
// decide how much to trust it. Hard rejection is the calculation engine's job.
const (
	IssueMissingShipmentID   = "missing_shipment_id"
	IssueMissingOriginCoords = "missing_origin_coords"
	IssueMissingDestCoords   = "missing_destination_coords"
	IssueNonPositiveDistance = "non_positive_distance"
	IssueNonPositiveWeight   = "non_positive_weight"
	IssueImplausibleWeight   = "implausible_weight"
	IssueImplausibleDistance = "implausible_distance"
	IssueUnknownMode         = "unknown_transport_mode"
	IssueArrivalBeforeDepart = "arrival_before_departure"
)

// Plausibility bounds for freight records. Heavier than a loaded 747 or
// further than half the planet's circumference means a unit error upstream.
const (
	maxPlausibleWeightKG   = 150000.0
	maxPlausibleDistanceKM = 20500.0
)

// ValidateRecord inspects a raw shipment record and returns the list of
// quality issue codes found, or nil for a clean record.
func ValidateRecord(rec RawShipmentRecord) []string {
	var issues []string

	if rec.ShipmentID == "" {
		issues = append(issues, IssueMissingShipmentID)
	}
	if !hasCoords(rec.OriginLat, rec.OriginLon) {
		issues = append(issues, IssueMissingOriginCoords)
	}
	if !hasCoords(rec.DestinationLat, rec.DestinationLon) {
		issues = append(issues, IssueMissingDestCoords)
	}

	switch {
	case rec.WeightKG <= 0:
		issues = append(issues, IssueNonPositiveWeight)
	case rec.WeightKG > maxPlausibleWeightKG:
		issues = append(issues, IssueImplausibleWeight)
	}

	canDerive := hasCoords(rec.OriginLat, rec.OriginLon) && hasCoords(rec.DestinationLat, rec.DestinationLon)
	switch {
	case rec.DistanceKM <= 0 && !canDerive:
		issues = append(issues, IssueNonPositiveDistance)
	case rec.DistanceKM > maxPlausibleDistanceKM:
		issues = append(issues, IssueImplausibleDistance)
	}

	if !emissions.ValidMode(strings.ToLower(strings.TrimSpace(rec.TransportMode))) {
		issues = append(issues, IssueUnknownMode)
	}

	departure := parseRFC3339OrZero(rec.DepartureTime)
	arrival := parseRFC3339OrZero(rec.ArrivalTime)
	if !departure.IsZero() && !arrival.IsZero() && arrival.Before(departure) {
		issues = append(issues, IssueArrivalBeforeDepart)
	}

	return issues
}

// anomalyZScoreThreshold flags shipments whose CO2-equivalent sits more than
// three population standard deviations from their transport mode's batch mean.
const anomalyZScoreThreshold = 3.0

// minAnomalySampleSize is the smallest per-mode group worth computing
// statistics over.
const minAnomalySampleSize = 4

// FlagAnomalousEmissions marks statistical outliers within a batch of
// enriched shipments and returns how many were flagged. Shipments are
// grouped by transport mode so an air shipment is never compared against
// sea freight baselines. Groups too small for a meaningful distribution,
// or with zero variance, are skipped.
func FlagAnomalousEmissions(shipments []Shipment) int {
	byMode := map[string][]int{}
	for i, s := range shipments {
		byMode[s.TransportMode] = append(byMode[s.TransportMode], i)
	}

	flagged := 0
	for _, indices := range byMode {
		if len(indices) < minAnomalySampleSize {
			continue
		}

		values := make([]float64, len(indices))
		for j, i := range indices {
			values[j] = shipments[i].Emissions.CO2EquivalentKG
		}

		mean := stat.Mean(values, nil)
		std := stat.PopStdDev(values, nil)
		if std == 0 {
			continue
		}

		for j, i := range indices {
			z := (values[j] - mean) / std
			if z > anomalyZScoreThreshold || z < -anomalyZScoreThreshold {
				shipments[i].Anomalous = true
				flagged++
			}
		}
	}

	return flagged
}

// QualityReport summarizes validation outcomes over a batch.
type QualityReport struct {
	Total       int            `json:"total"`
	Clean       int            `json:"clean"`
	IssueCounts map[string]int `json:"issue_counts,omitempty"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// BuildQualityReport tallies the quality issues attached to a batch of
// shipments.
func BuildQualityReport(shipments []Shipment) QualityReport {
	report := QualityReport{
		Total:       len(shipments),
		IssueCounts: map[string]int{},
		GeneratedAt: clock.Now(),
	}
	for _, s := range shipments {
		if len(s.QualityIssues) == 0 {
			report.Clean++
			continue
		}
		for _, issue := range s.QualityIssues {
			report.IssueCounts[issue]++
		}
	}
	if len(report.IssueCounts) == 0 {
		report.IssueCounts = nil
	}
	return report
}
