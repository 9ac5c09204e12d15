package emissions

import "math"

// Observation holds raw weather readings at a shipment's origin. Wind
// direction is accepted for interface compatibility with upstream weather
// records but is not referenced by any factor yet.
type Observation struct {
	TemperatureCelsius   float64 `json:"temperature_celsius"`
	WindSpeedKMH         float64 `json:"wind_speed_kmh"`
	WindDirectionDegrees float64 `json:"wind_direction_degrees"`
	PrecipitationMM      float64 `json:"precipitation_mm"`
	HumidityPercent      float64 `json:"humidity_percent"`
}

// WeatherImpact holds four independent multiplicative adjustments to fuel
// efficiency. Each factor is nominally 1.0, meaning no effect.
type WeatherImpact struct {
	Temperature   float64 `json:"temperature_factor"`
	Wind          float64 `json:"wind_factor"`
	Precipitation float64 `json:"precipitation_factor"`
	Humidity      float64 `json:"humidity_factor"`
}

// NeutralWeatherImpact returns an impact with all factors at 1.0.
func NeutralWeatherImpact() WeatherImpact {
	return WeatherImpact{Temperature: 1.0, Wind: 1.0, Precipitation: 1.0, Humidity: 1.0}
}

// Combined returns the product of the four factors.
func (w WeatherImpact) Combined() float64 {
	return w.Temperature * w.Wind * w.Precipitation * w.Humidity
}

// ComputeWeatherImpact maps an observation to per-factor multipliers for the
// given transport mode. It never fails: observations that produce a
// non-finite or non-positive factor degrade to the neutral impact, because
// weather adjustment is an enhancement rather than a correctness-critical
// input. Unrecognized modes fall through to the no-effect branch of each
// sub-factor; strict mode validation belongs to the calculator.
func ComputeWeatherImpact(obs Observation, mode string) WeatherImpact {
	impact := WeatherImpact{
		Temperature:   temperatureFactor(obs.TemperatureCelsius, mode),
		Wind:          windFactor(obs.WindSpeedKMH, mode),
		Precipitation: precipitationFactor(obs.PrecipitationMM, mode),
		Humidity:      humidityFactor(obs.HumidityPercent),
	}
	if !finitePositive(impact.Temperature) ||
		!finitePositive(impact.Wind) ||
		!finitePositive(impact.Precipitation) ||
		!finitePositive(impact.Humidity) {
		return NeutralWeatherImpact()
	}
	return impact
}

// Optimal operating temperature band in °C. Inside the band the factor is
// 1.0; outside, fuel efficiency degrades with distance from the nearer edge.
const (
	optimalTempMin = 15.0
	optimalTempMax = 25.0
)

func temperatureFactor(tempC float64, mode string) float64 {
	if tempC >= optimalTempMin && tempC <= optimalTempMax {
		return 1.0
	}

	deviation := optimalTempMin - tempC
	if tempC > optimalTempMax {
		deviation = tempC - optimalTempMax
	}

	sensitivity := 0.02
	switch mode {
	case ModeAir:
		sensitivity = 0.02
	case ModeGround:
		sensitivity = 0.03
	case ModeSea:
		sensitivity = 0.01
	}

	factor := 1.0 + deviation*sensitivity
	return math.Max(0.8, math.Min(1.2, factor))
}

func windFactor(speedKMH float64, mode string) float64 {
	switch mode {
	case ModeAir:
		// Aircraft are the most wind-sensitive.
		switch {
		case speedKMH > 50:
			return 1.15
		case speedKMH > 25:
			return 1.08
		default:
			return 1.0
		}
	case ModeGround:
		if speedKMH > 40 {
			return 1.05
		}
		return 1.0
	default:
		// Sea freight is effectively insensitive to wind at this granularity.
		return 1.0
	}
}

func precipitationFactor(mm float64, mode string) float64 {
	switch mode {
	case ModeGround:
		switch {
		case mm > 10:
			return 1.12
		case mm > 5:
			return 1.06
		default:
			return 1.0
		}
	case ModeAir:
		if mm > 5 {
			return 1.05
		}
		return 1.0
	default:
		return 1.0
	}
}

func humidityFactor(percent float64) float64 {
	// High humidity degrades engine performance regardless of mode.
	switch {
	case percent > 80:
		return 1.02
	case percent > 60:
		return 1.01
	default:
		return 1.0
	}
}

func finitePositive(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}
