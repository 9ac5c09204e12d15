package emissions

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestTemperatureFactor(t *testing.T) {
	tests := []struct {
		name  string
		tempC float64
		mode  string
		want  float64
	}{
		{name: "inside band lower edge", tempC: 15, mode: ModeGround, want: 1.0},
		{name: "inside band upper edge", tempC: 25, mode: ModeGround, want: 1.0},
		{name: "inside band middle", tempC: 20, mode: ModeAir, want: 1.0},
		{name: "ground 5 below", tempC: 10, mode: ModeGround, want: 1.15},
		{name: "ground 5 above", tempC: 30, mode: ModeGround, want: 1.15},
		{name: "air 10 above", tempC: 35, mode: ModeAir, want: 1.2},
		{name: "sea 10 below", tempC: 5, mode: ModeSea, want: 1.1},
		{name: "ground clamps at upper bound", tempC: -30, mode: ModeGround, want: 1.2},
		{name: "air clamps at upper bound", tempC: 60, mode: ModeAir, want: 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, temperatureFactor(tt.tempC, tt.mode), 1e-9)
		})
	}
}

func TestWindFactor(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
		mode  string
		want  float64
	}{
		{name: "air calm", speed: 25, mode: ModeAir, want: 1.0},
		{name: "air moderate", speed: 26, mode: ModeAir, want: 1.08},
		{name: "air strong boundary", speed: 50, mode: ModeAir, want: 1.08},
		{name: "air strong", speed: 51, mode: ModeAir, want: 1.15},
		{name: "ground below threshold", speed: 40, mode: ModeGround, want: 1.0},
		{name: "ground above threshold", speed: 41, mode: ModeGround, want: 1.05},
		{name: "sea in a gale", speed: 90, mode: ModeSea, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, windFactor(tt.speed, tt.mode), 1e-9)
		})
	}
}

func TestPrecipitationFactor(t *testing.T) {
	tests := []struct {
		name string
		mm   float64
		mode string
		want float64
	}{
		{name: "ground dry", mm: 0, mode: ModeGround, want: 1.0},
		{name: "ground light boundary excluded", mm: 5, mode: ModeGround, want: 1.0},
		{name: "ground light", mm: 5.01, mode: ModeGround, want: 1.06},
		{name: "ground heavy boundary excluded", mm: 10, mode: ModeGround, want: 1.06},
		{name: "ground heavy", mm: 10.01, mode: ModeGround, want: 1.12},
		{name: "air dry", mm: 5, mode: ModeAir, want: 1.0},
		{name: "air wet", mm: 6, mode: ModeAir, want: 1.05},
		{name: "sea downpour", mm: 50, mode: ModeSea, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, precipitationFactor(tt.mm, tt.mode), 1e-9)
		})
	}
}

func TestHumidityFactor(t *testing.T) {
	assert.InDelta(t, 1.0, humidityFactor(60), 1e-9)
	assert.InDelta(t, 1.01, humidityFactor(61), 1e-9)
	assert.InDelta(t, 1.01, humidityFactor(80), 1e-9)
	assert.InDelta(t, 1.02, humidityFactor(81), 1e-9)
}

func TestComputeWeatherImpact(t *testing.T) {
	obs := Observation{
		TemperatureCelsius: 30,
		WindSpeedKMH:       45,
		PrecipitationMM:    12,
		HumidityPercent:    85,
	}

	got := ComputeWeatherImpact(obs, ModeGround)

	want := WeatherImpact{
		Temperature:   1.15,
		Wind:          1.05,
		Precipitation: 1.12,
		Humidity:      1.02,
	}
	if diff := cmp.Diff(want, got, cmpFloatApprox()); diff != "" {
		t.Errorf("weather impact mismatch (-want +got):\n%s", diff)
	}

	assert.InDelta(t, 1.15*1.05*1.12*1.02, got.Combined(), 1e-9)
}

func TestComputeWeatherImpact_MildConditionsAreNeutral(t *testing.T) {
	obs := Observation{
		TemperatureCelsius: 20,
		WindSpeedKMH:       10,
		PrecipitationMM:    0,
		HumidityPercent:    50,
	}

	for _, mode := range []string{ModeAir, ModeGround, ModeSea} {
		got := ComputeWeatherImpact(obs, mode)
		assert.Equal(t, NeutralWeatherImpact(), got, "mode %s", mode)
		assert.InDelta(t, 1.0, got.Combined(), 1e-9)
	}
}

func TestComputeWeatherImpact_UnknownModeIsLenient(t *testing.T) {
	obs := Observation{
		TemperatureCelsius: 40,
		WindSpeedKMH:       60,
		PrecipitationMM:    15,
		HumidityPercent:    90,
	}

	got := ComputeWeatherImpact(obs, "pipeline")

	// Unknown modes get the mode-independent factors only.
	assert.InDelta(t, 1.2, got.Temperature, 1e-9)
	assert.InDelta(t, 1.0, got.Wind, 1e-9)
	assert.InDelta(t, 1.0, got.Precipitation, 1e-9)
	assert.InDelta(t, 1.02, got.Humidity, 1e-9)
}

func TestComputeWeatherImpact_DegradesToNeutral(t *testing.T) {
	obs := Observation{
		TemperatureCelsius: math.NaN(),
		WindSpeedKMH:       30,
		HumidityPercent:    70,
	}

	got := ComputeWeatherImpact(obs, ModeAir)
	assert.Equal(t, NeutralWeatherImpact(), got)
}

func cmpFloatApprox() cmp.Option {
	return cmp.Comparer(func(a, b float64) bool {
		return math.Abs(a-b) < 1e-9
	})
}
