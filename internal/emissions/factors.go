package emissions

// Transport modes recognized by the engine.
const (
	ModeAir    = "air"
	ModeGround = "ground"
	ModeSea    = "sea"
)

// GasFactors holds per-gas emission coefficients for one transport mode,
// in kg emitted per metric ton moved one kilometer.
type GasFactors struct {
	CO2 float64
	CH4 float64
	N2O float64
}

// FactorTable is the immutable emission factor configuration. It is built
// once at engine initialization and shared read-only by every calculation;
// copies are cheap, so it is passed by value.
type FactorTable struct {
	Air    GasFactors
	Ground GasFactors
	Sea    GasFactors

	// 100-year Global Warming Potentials relative to CO2.
	CH4GWP float64
	N2OGWP float64
}

// DefaultFactors returns the EPA freight emission factor table.
func DefaultFactors() FactorTable {
	return FactorTable{
		Air:    GasFactors{CO2: 1.02, CH4: 0.0001, N2O: 0.00001},
		Ground: GasFactors{CO2: 0.089, CH4: 0.0002, N2O: 0.00002},
		Sea:    GasFactors{CO2: 0.014, CH4: 0.00005, N2O: 0.000005},
		CH4GWP: 25.0,
		N2OGWP: 298.0,
	}
}

// forMode returns the gas factors for a transport mode. The second return
// is false for unrecognized modes.
func (t FactorTable) forMode(mode string) (GasFactors, bool) {
	switch mode {
	case ModeAir:
		return t.Air, true
	case ModeGround:
		return t.Ground, true
	case ModeSea:
		return t.Sea, true
	default:
		return GasFactors{}, false
	}
}

// ValidMode reports whether mode is one of air, ground or sea.
func ValidMode(mode string) bool {
	return mode == ModeAir || mode == ModeGround || mode == ModeSea
}
