// Package generator produces synthetic freight shipment records for fixtures,
// load tests, and local development. Generation is fully deterministic for a
// given seed so fixtures can be regenerated byte-for-byte.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/freightprint/carbon-etl/internal/domain"
)

// Transport speeds used to derive arrival times, in km/h.
const (
	airSpeedKMH    = 800.0
	groundSpeedKMH = 60.0
	seaSpeedKMH    = 25.0
)

// Minimum end-to-end transit per mode, in hours. Covers customs, handling,
// and last-mile regardless of distance.
const (
	airMinHours    = 2.0
	groundMinHours = 4.0
	seaMinHours    = 24.0
)

// Config controls synthetic shipment generation.
type Config struct {
	Seed      int64
	Count     int
	StartDate time.Time // departures spread across [StartDate, StartDate+Days)
	Days      int

	// DirtyRate is the fraction of records [0,1] emitted with a data defect
	// (missing coordinates, missing ID, or zero weight) to exercise quality
	// validation downstream. Zero produces only clean records.
	DirtyRate float64
}

// Generator produces RawShipmentRecord values from a seeded source.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// New creates a generator. Count defaults to 100, Days to 30, and StartDate
// to the start of the current month when unset.
func New(cfg Config) *Generator {
	if cfg.Count <= 0 {
		cfg.Count = 100
	}
	if cfg.Days <= 0 {
		cfg.Days = 30
	}
	if cfg.StartDate.IsZero() {
		now := time.Now().UTC()
		cfg.StartDate = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate produces cfg.Count shipment records.
func (g *Generator) Generate() []domain.RawShipmentRecord {
	records := make([]domain.RawShipmentRecord, 0, g.cfg.Count)
	for i := 0; i < g.cfg.Count; i++ {
		records = append(records, g.next())
	}
	return records
}

func (g *Generator) next() domain.RawShipmentRecord {
	origin := cities[g.rng.Intn(len(cities))]
	dest := cities[g.rng.Intn(len(cities))]
	for dest.Name == origin.Name {
		dest = cities[g.rng.Intn(len(cities))]
	}

	distance := domain.HaversineKM(origin.Lat, origin.Lon, dest.Lat, dest.Lon)
	departure := g.departureTime()
	mode := g.chooseMode(distance, origin.Continent == dest.Continent, departure.Month())
	pkg := g.choosePackageType(mode)
	weight := pkg.MinWeightKG + g.rng.Float64()*(pkg.MaxWeightKG-pkg.MinWeightKG)
	arrival := departure.Add(transitDuration(mode, distance))

	oLat, oLon := origin.Lat, origin.Lon
	dLat, dLon := dest.Lat, dest.Lon

	rec := domain.RawShipmentRecord{
		ShipmentID:      g.shipmentID(),
		Carrier:         carriers[g.rng.Intn(len(carriers))],
		PackageType:     pkg.Name,
		OriginCity:      origin.Name,
		OriginLat:       &oLat,
		OriginLon:       &oLon,
		DestinationCity: dest.Name,
		DestinationLat:  &dLat,
		DestinationLon:  &dLon,
		DistanceKM:      roundKM(distance),
		WeightKG:        roundKG(weight),
		TransportMode:   mode,
		DepartureTime:   departure.Format(time.RFC3339),
		ArrivalTime:     arrival.Format(time.RFC3339),
	}

	// Roughly a third of shipments carry operational overrides.
	if g.rng.Float64() < 0.35 {
		rec.LoadFactor = 0.55 + g.rng.Float64()*0.45 // (0.55, 1.0)
		rec.FuelEfficiency = 0.85 + g.rng.Float64()*0.3
	}

	if g.cfg.DirtyRate > 0 && g.rng.Float64() < g.cfg.DirtyRate {
		g.corrupt(&rec)
	}
	return rec
}

// chooseMode picks a transport mode from the route shape. Short hops go by
// road, intercontinental bulk by sea, and time-sensitive or overseas light
// freight by air. November and December skew toward air for peak season.
func (g *Generator) chooseMode(distanceKM float64, sameContinent bool, month time.Month) string {
	airBias := 0.0
	if month == time.November || month == time.December {
		airBias = 0.15
	}

	switch {
	case distanceKM < 1500 && sameContinent:
		if g.rng.Float64() < 0.1+airBias {
			return "air"
		}
		return "ground"
	case sameContinent:
		if g.rng.Float64() < 0.4+airBias {
			return "air"
		}
		return "ground"
	default:
		if g.rng.Float64() < 0.35+airBias {
			return "air"
		}
		return "sea"
	}
}

// choosePackageType picks a package category appropriate for the mode.
// Containers do not fly.
func (g *Generator) choosePackageType(mode string) PackageType {
	pool := packageTypes
	if mode == "air" {
		pool = packageTypes[:4]
	}
	return pool[g.rng.Intn(len(pool))]
}

// departureTime spreads departures across the configured window, biased
// toward business hours (06:00 to 20:00 UTC).
func (g *Generator) departureTime() time.Time {
	day := g.rng.Intn(g.cfg.Days)
	hour := 6 + g.rng.Intn(14)
	minute := g.rng.Intn(60)
	return g.cfg.StartDate.AddDate(0, 0, day).
		Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func (g *Generator) shipmentID() string {
	// Deterministic UUIDs: the seeded source doubles as the randomness reader.
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// rand.Rand.Read never fails.
		panic(fmt.Sprintf("generate uuid: %v", err))
	}
	return "shp-" + id.String()
}

// corrupt introduces one of the data defects the pipeline's quality
// validation is built to catch.
func (g *Generator) corrupt(rec *domain.RawShipmentRecord) {
	switch g.rng.Intn(4) {
	case 0:
		rec.OriginLat = nil
		rec.OriginLon = nil
	case 1:
		rec.ShipmentID = ""
	case 2:
		rec.WeightKG = 0
	case 3:
		rec.DistanceKM = 0
		rec.DestinationLat = nil
		rec.DestinationLon = nil
	}
}

func transitDuration(mode string, distanceKM float64) time.Duration {
	var hours float64
	switch mode {
	case "air":
		hours = max(distanceKM/airSpeedKMH, airMinHours)
	case "sea":
		hours = max(distanceKM/seaSpeedKMH, seaMinHours)
	default:
		hours = max(distanceKM/groundSpeedKMH, groundMinHours)
	}
	return time.Duration(hours * float64(time.Hour))
}

func roundKM(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundKG(v float64) float64 {
	return math.Round(v*100) / 100
}
