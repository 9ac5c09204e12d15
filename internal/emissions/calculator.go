package emissions

import (
	"errors"
	"log/slog"
	"math"
)

// Defaults applied when a shipment omits its operational overrides.
const (
	DefaultLoadFactor     = 0.8
	DefaultFuelEfficiency = 1.0
)

// Scope 3 estimation coefficients, kg CO2e per kg of goods.
const (
	packagingPerKG     = 0.1
	warehousingPerDay  = 0.05
	warehouseDwellDays = 2.0
)

// TransportParams describes one freight movement. DistanceKM, WeightKG and
// Mode are required. Weather is an optional pre-computed impact; nil means no
// adjustment. Zero-valued LoadFactor and FuelEfficiency mean "use default"
// (0.8 and 1.0 respectively) so batch descriptors can omit the overrides.
type TransportParams struct {
	DistanceKM     float64        `json:"distance_km"`
	WeightKG       float64        `json:"weight_kg"`
	Mode           string         `json:"transport_mode"`
	Weather        *WeatherImpact `json:"weather_impact,omitempty"`
	LoadFactor     float64        `json:"load_factor,omitempty"`
	FuelEfficiency float64        `json:"fuel_efficiency,omitempty"`
}

// EmissionResult holds the per-gas emission masses for one shipment, in kg,
// rounded to 6 decimal places, plus the two multipliers actually applied
// (reported at 4 decimal places). Rounding is presentation-only: the engine
// never feeds a rounded value back into a chained computation.
type EmissionResult struct {
	CO2KG           float64 `json:"co2_kg"`
	CH4KG           float64 `json:"ch4_kg"`
	N2OKG           float64 `json:"n2o_kg"`
	CO2EquivalentKG float64 `json:"co2_equivalent_kg"`

	WeatherFactor     float64 `json:"weather_factor"`
	OperationalFactor float64 `json:"operational_factor"`
}

// SupplyChainResult aggregates emissions across a batch of shipments.
// Scope3KG is included in TotalCO2EquivalentKG only when requested and is
// never folded into the per-gas totals.
type SupplyChainResult struct {
	TotalCO2KG           float64 `json:"total_co2_kg"`
	TotalCH4KG           float64 `json:"total_ch4_kg"`
	TotalN2OKG           float64 `json:"total_n2o_kg"`
	TotalCO2EquivalentKG float64 `json:"total_co2_equivalent_kg"`
	Scope3KG             float64 `json:"scope_3_emissions_kg"`
	ShipmentCount        int     `json:"shipment_count"`
}

// Calculator computes per-shipment and portfolio-level freight emissions
// against an immutable factor table. Safe for concurrent use.
type Calculator struct {
	factors FactorTable
	logger  *slog.Logger
}

// NewCalculator creates a calculator over the given factor table.
func NewCalculator(factors FactorTable, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{factors: factors, logger: logger}
}

// TransportEmissions computes the emission masses for one shipment.
//
// Preconditions: DistanceKM > 0, WeightKG > 0, Mode ∈ {air, ground, sea},
// 0 < LoadFactor <= 1 and FuelEfficiency > 0 after defaults are applied.
// Violations return an *InvalidInputError before any computation. A
// non-finite result returns a *CalculationError; failures are logged with
// the offending inputs and always propagated.
func (c *Calculator) TransportEmissions(p TransportParams) (EmissionResult, error) {
	p = applyDefaults(p)

	if err := validate(p); err != nil {
		c.logger.Error("transport emission input rejected",
			"error", err,
			"distance_km", p.DistanceKM,
			"weight_kg", p.WeightKG,
			"transport_mode", p.Mode,
		)
		return EmissionResult{}, err
	}

	factors, _ := c.factors.forMode(p.Mode)

	weightTons := p.WeightKG / 1000.0
	baseCO2 := factors.CO2 * weightTons * p.DistanceKM
	baseCH4 := factors.CH4 * weightTons * p.DistanceKM
	baseN2O := factors.N2O * weightTons * p.DistanceKM

	operational := (1.0 / p.LoadFactor) * p.FuelEfficiency

	weather := 1.0
	if p.Weather != nil {
		weather = p.Weather.Combined()
	}

	co2 := baseCO2 * operational * weather
	ch4 := baseCH4 * operational * weather
	n2o := baseN2O * operational * weather
	co2e := co2 + ch4*c.factors.CH4GWP + n2o*c.factors.N2OGWP

	if !finite(co2e) {
		err := &CalculationError{Mode: p.Mode, Err: errors.New("non-finite emission value")}
		c.logger.Error("transport emission calculation failed",
			"error", err,
			"distance_km", p.DistanceKM,
			"weight_kg", p.WeightKG,
			"transport_mode", p.Mode,
			"weather_factor", weather,
			"operational_factor", operational,
		)
		return EmissionResult{}, err
	}

	result := EmissionResult{
		CO2KG:             round6(co2),
		CH4KG:             round6(ch4),
		N2OKG:             round6(n2o),
		CO2EquivalentKG:   round6(co2e),
		WeatherFactor:     round4(weather),
		OperationalFactor: round4(operational),
	}

	c.logger.Debug("transport emissions calculated",
		"distance_km", p.DistanceKM,
		"weight_kg", p.WeightKG,
		"transport_mode", p.Mode,
		"co2_kg", result.CO2KG,
		"co2_equivalent_kg", result.CO2EquivalentKG,
	)

	return result, nil
}

// SupplyChainEmissions folds a batch of shipments into portfolio totals.
// Aggregation is all-or-nothing: the first shipment failure aborts the batch
// and no partial result is returned, so a malformed shipment can never
// silently understate a portfolio total. When includeScope3 is set, an
// indirect packaging+warehousing estimate is summed per shipment and added
// to the CO2-equivalent total only.
func (c *Calculator) SupplyChainEmissions(shipments []TransportParams, includeScope3 bool) (SupplyChainResult, error) {
	var totalCO2, totalCH4, totalN2O, totalCO2e float64

	for i, shipment := range shipments {
		result, err := c.TransportEmissions(shipment)
		if err != nil {
			return SupplyChainResult{}, &BatchError{Index: i, Err: err}
		}
		totalCO2 += result.CO2KG
		totalCH4 += result.CH4KG
		totalN2O += result.N2OKG
		totalCO2e += result.CO2EquivalentKG
	}

	scope3 := 0.0
	if includeScope3 {
		scope3 = scope3Emissions(shipments)
		totalCO2e += scope3
	}

	result := SupplyChainResult{
		TotalCO2KG:           round6(totalCO2),
		TotalCH4KG:           round6(totalCH4),
		TotalN2OKG:           round6(totalN2O),
		TotalCO2EquivalentKG: round6(totalCO2e),
		Scope3KG:             round6(scope3),
		ShipmentCount:        len(shipments),
	}

	c.logger.Info("supply chain emissions calculated",
		"total_co2_kg", result.TotalCO2KG,
		"total_co2_equivalent_kg", result.TotalCO2EquivalentKG,
		"shipment_count", result.ShipmentCount,
	)

	return result, nil
}

// scope3Emissions estimates indirect emissions from packaging and an assumed
// two-day warehouse dwell, both scaling with shipped weight.
func scope3Emissions(shipments []TransportParams) float64 {
	total := 0.0
	for _, s := range shipments {
		packaging := s.WeightKG * packagingPerKG
		warehousing := s.WeightKG * warehousingPerDay * warehouseDwellDays
		total += packaging + warehousing
	}
	return total
}

func applyDefaults(p TransportParams) TransportParams {
	if p.LoadFactor == 0 {
		p.LoadFactor = DefaultLoadFactor
	}
	if p.FuelEfficiency == 0 {
		p.FuelEfficiency = DefaultFuelEfficiency
	}
	return p
}

func validate(p TransportParams) error {
	switch {
	case !(p.DistanceKM > 0):
		return &InvalidInputError{Field: "distance_km", Reason: "must be positive"}
	case !(p.WeightKG > 0):
		return &InvalidInputError{Field: "weight_kg", Reason: "must be positive"}
	case !ValidMode(p.Mode):
		return &InvalidInputError{Field: "transport_mode", Reason: "must be one of air, ground, sea"}
	case !(p.LoadFactor > 0) || p.LoadFactor > 1:
		return &InvalidInputError{Field: "load_factor", Reason: "must be in (0, 1]"}
	case !(p.FuelEfficiency > 0):
		return &InvalidInputError{Field: "fuel_efficiency", Reason: "must be positive"}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func round6(f float64) float64 { return roundTo(f, 6) }
func round4(f float64) float64 { return roundTo(f, 4) }

func roundTo(f float64, decimals int) float64 {
	shift := math.Pow(10, float64(decimals))
	return math.Round(f*shift) / shift
}
