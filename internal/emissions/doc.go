// Package emissions is the freight carbon calculation engine.
//
// # Model
//
// Transport emissions follow the ton-kilometer model used by EPA freight
// emission factors: each transport mode carries fixed CO2, CH4 and N2O
// coefficients expressed in kg per metric ton moved one kilometer. A
// shipment's base emission per gas is
//
//	factor[gas][mode] × (weight_kg / 1000) × distance_km
//
// scaled by two diagnostic multipliers:
//
//	operational = (1 / load_factor) × fuel_efficiency
//	weather     = product of temperature, wind, precipitation and humidity factors
//
// A half-empty truck burns fuel for the whole trip, so a lower load factor
// proportionally increases the emissions attributed to the cargo on board.
//
// The CO2-equivalent figure weights each gas by its 100-year Global Warming
// Potential: CH4 at 25x, N2O at 298x.
//
// # Failure policy
//
// The per-shipment and portfolio calculations fail hard: invalid inputs are
// rejected with [InvalidInputError] before any arithmetic, and non-finite
// results surface as [CalculationError]. Weather factor computation is the
// sole exception: it degrades to a neutral (all 1.0) impact rather than
// failing, because weather is an enhancement, not a correctness-critical
// input.
//
// # Concurrency
//
// A Calculator is a pure function of its inputs plus an immutable factor
// table. It holds no mutable state and is safe for unrestricted concurrent
// use; callers needing parallel throughput can shard a batch across workers
// and sum the partial results.
package emissions
