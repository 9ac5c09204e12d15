// Command genload generates synthetic shipment fixtures for the test suites
// and for seeding a local Kafka topic. It runs every generated record through
// the actual domain transformation so the enriched fixture matches real
// pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genload \
//	  -count 200 -seed 42 -start 2026-03-01 \
//	  -raw-out data/mock/shipments_raw.json \
//	  -enriched-out data/mock/shipments_enriched.json
//
// With -brokers set, the raw records are also published to the given Kafka
// topic, seeding a locally running pipeline.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/freightprint/carbon-etl/internal/domain"
	"github.com/freightprint/carbon-etl/internal/emissions"
	"github.com/freightprint/carbon-etl/internal/generator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	count := flag.Int("count", 200, "number of shipments to generate")
	seed := flag.Int64("seed", 42, "random seed for deterministic output")
	start := flag.String("start", "2026-03-01", "start of the departure window (YYYY-MM-DD)")
	days := flag.Int("days", 30, "length of the departure window in days")
	dirtyRate := flag.Float64("dirty-rate", 0, "fraction of records with data defects")
	rawOut := flag.String("raw-out", "", "output path for the raw JSON fixture")
	enrichedOut := flag.String("enriched-out", "", "output path for the enriched JSON fixture")
	brokers := flag.String("brokers", "", "comma-separated Kafka brokers to publish raw records to (optional)")
	topic := flag.String("topic", "raw-shipments", "Kafka topic for -brokers publishing")
	flag.Parse()

	if *rawOut == "" || *enrichedOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raw-out, -enriched-out")
	}

	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		return fmt.Errorf("parse -start: %w", err)
	}

	// Fix the clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		startDate.AddDate(0, 0, *days).Add(6 * time.Hour),
	))
	defer domain.SetClock(nil)

	records := generator.New(generator.Config{
		Seed:      *seed,
		Count:     *count,
		StartDate: startDate,
		Days:      *days,
		DirtyRate: *dirtyRate,
	}).Generate()

	shipments, rejected, err := transformAll(records)
	if err != nil {
		return err
	}
	anomalies := domain.FlagAnomalousEmissions(shipments)

	log.Printf("generated: %d records", len(records))
	log.Printf("transformed: %d, rejected: %d, anomalous: %d", len(shipments), rejected, anomalies)

	if err := writeJSON(*rawOut, records); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s", *rawOut)

	if err := writeJSON(*enrichedOut, shipments); err != nil {
		return fmt.Errorf("writing enriched fixture: %w", err)
	}
	log.Printf("wrote enriched fixture: %s", *enrichedOut)

	if *brokers != "" {
		if err := publishRaw(*brokers, *topic, records); err != nil {
			return fmt.Errorf("publishing to kafka: %w", err)
		}
		log.Printf("published %d raw records to %s", len(records), *topic)
	}

	printStats(shipments)
	return nil
}

// publishRaw seeds a Kafka topic with the generated raw records, keyed by
// shipment ID the same way upstream producers key them.
func publishRaw(brokers, topic string, records []domain.RawShipmentRecord) error {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	defer writer.Close()

	msgs := make([]kafkago.Message, 0, len(records))
	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(rec.ShipmentID),
			Value: payload,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return writer.WriteMessages(ctx, msgs...)
}

// transformAll runs the real parse, validate, calculate, enrich chain over
// the generated records. Records the engine rejects are counted and skipped,
// matching the pipeline's poison record handling.
func transformAll(records []domain.RawShipmentRecord) ([]domain.Shipment, int, error) {
	calc := emissions.NewCalculator(emissions.DefaultFactors(), slog.Default())

	shipments := make([]domain.Shipment, 0, len(records))
	var rejected int

	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal record: %w", err)
		}

		shipment, parsed, err := domain.ParseRawShipment(domain.RawEvent{
			Key:   []byte(rec.ShipmentID),
			Value: payload,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("parse record %s: %w", rec.ShipmentID, err)
		}
		shipment.QualityIssues = domain.ValidateRecord(parsed)

		result, err := calc.TransportEmissions(shipment.TransportParams())
		if err != nil {
			rejected++
			continue
		}
		shipment.Emissions = result

		shipments = append(shipments, domain.EnrichShipment(shipment))
	}
	return shipments, rejected, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// statsResult holds aggregated counts for printStats reporting.
type statsResult struct {
	modeCounts    map[string]int
	packageCounts map[string]int
	issueCounts   map[string]int
	totalCO2E     float64
	totalCO2      float64
	anomalous     int
	withWeather   int
}

func collectStats(shipments []domain.Shipment) statsResult {
	s := statsResult{
		modeCounts:    map[string]int{},
		packageCounts: map[string]int{},
		issueCounts:   map[string]int{},
	}
	for i := range shipments {
		sh := &shipments[i]
		s.modeCounts[sh.TransportMode]++
		s.packageCounts[sh.PackageType]++
		s.totalCO2E += sh.Emissions.CO2EquivalentKG
		s.totalCO2 += sh.Emissions.CO2KG
		if sh.Anomalous {
			s.anomalous++
		}
		if sh.WeatherImpact != nil {
			s.withWeather++
		}
		for _, issue := range sh.QualityIssues {
			s.issueCounts[issue]++
		}
	}
	return s
}

func printStats(shipments []domain.Shipment) {
	stats := collectStats(shipments)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(shipments))
	fmt.Printf("By mode: air=%d, ground=%d, sea=%d\n",
		stats.modeCounts["air"], stats.modeCounts["ground"], stats.modeCounts["sea"])
	printCountMap("By package", stats.packageCounts)
	fmt.Printf("Total CO2: %.2f kg\n", stats.totalCO2)
	fmt.Printf("Total CO2e: %.2f kg\n", stats.totalCO2E)
	fmt.Printf("Anomalous: %d\n", stats.anomalous)
	fmt.Printf("With weather impact: %d\n", stats.withWeather)
	printCountMap("Quality issues", stats.issueCounts)

	printHeaviestEmitter(shipments)
}

func printCountMap(label string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("%s: ", label)
	for _, k := range keys {
		fmt.Printf("%s=%d ", k, counts[k])
	}
	fmt.Println()
}

func printHeaviestEmitter(shipments []domain.Shipment) {
	if len(shipments) == 0 {
		return
	}
	heaviest := &shipments[0]
	for i := range shipments {
		if shipments[i].Emissions.CO2EquivalentKG > heaviest.Emissions.CO2EquivalentKG {
			heaviest = &shipments[i]
		}
	}

	fmt.Printf("\nHeaviest emitter:\n")
	fmt.Printf("  ID: %s\n", heaviest.ID)
	fmt.Printf("  Route: %s -> %s (%.1f km, %s)\n",
		heaviest.Origin.City, heaviest.Destination.City, heaviest.DistanceKM, heaviest.TransportMode)
	fmt.Printf("  Weight: %.2f kg\n", heaviest.WeightKG)
	fmt.Printf("  CO2e: %.6f kg\n", heaviest.Emissions.CO2EquivalentKG)
	fmt.Printf("  Carbon intensity: %.6f kg/km\n", heaviest.CarbonIntensityKGPerKM)
	fmt.Printf("  Departure: %s\n", heaviest.DepartureTime.Format(time.RFC3339))
}
