package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL pipeline.
type Metrics struct {
	ShipmentsConsumed prometheus.Counter
	ShipmentsProduced prometheus.Counter
	TransformErrors   prometheus.Counter
	PipelineRunning   prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Emission accounting metrics.
	CO2EquivalentKG   prometheus.Counter
	QualityIssues     *prometheus.CounterVec // labels: issue
	EmissionAnomalies prometheus.Counter

	// Weather enrichment metrics.
	WeatherRequests    *prometheus.CounterVec // labels: outcome={success,error}
	WeatherCache       *prometheus.CounterVec // labels: result={hit,miss}
	WeatherAPIDuration prometheus.Histogram
	WeatherEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ShipmentsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "carbon_etl",
			Name:      "shipments_consumed_total",
			Help:      "Total shipment records read from the source topic.",
		}),
		ShipmentsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "carbon_etl",
			Name:      "shipments_produced_total",
			Help:      "Total enriched shipments written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "carbon_etl",
			Name:      "transform_errors_total",
			Help:      "Total transformation failures.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "carbon_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "carbon_etl",
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "carbon_etl",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		CO2EquivalentKG: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "carbon_etl",
			Name:      "co2_equivalent_kg_total",
			Help:      "Cumulative CO2-equivalent kilograms attributed to processed shipments.",
		}),
		QualityIssues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carbon_etl",
			Name:      "quality_issues_total",
			Help:      "Data quality issues found in raw shipment records, by issue code.",
		}, []string{"issue"}),
		EmissionAnomalies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "carbon_etl",
			Name:      "emission_anomalies_total",
			Help:      "Shipments flagged as statistical emission outliers within their batch.",
		}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carbon_etl",
			Name:      "weather_requests_total",
			Help:      "Weather API requests by outcome.",
		}, []string{"outcome"}),
		WeatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carbon_etl",
			Name:      "weather_cache_total",
			Help:      "Weather cache lookups by result.",
		}, []string{"result"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "carbon_etl",
			Name:      "weather_api_duration_seconds",
			Help:      "OpenWeather API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		WeatherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "carbon_etl",
			Name:      "weather_enabled",
			Help:      "1 when weather enrichment is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.ShipmentsConsumed,
		m.ShipmentsProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.CO2EquivalentKG,
		m.QualityIssues,
		m.EmissionAnomalies,
		m.WeatherRequests,
		m.WeatherCache,
		m.WeatherAPIDuration,
		m.WeatherEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ShipmentsConsumed:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "carbon_etl", Name: "shipments_consumed_total"}),
		ShipmentsProduced:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "carbon_etl", Name: "shipments_produced_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "carbon_etl", Name: "transform_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "carbon_etl", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "carbon_etl", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "carbon_etl", Name: "batch_processing_duration_seconds"}),
		CO2EquivalentKG:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "carbon_etl", Name: "co2_equivalent_kg_total"}),
		QualityIssues:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "carbon_etl", Name: "quality_issues_total"}, []string{"issue"}),
		EmissionAnomalies:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "carbon_etl", Name: "emission_anomalies_total"}),
		WeatherRequests:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "carbon_etl", Name: "weather_requests_total"}, []string{"outcome"}),
		WeatherCache:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "carbon_etl", Name: "weather_cache_total"}, []string{"result"}),
		WeatherAPIDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "carbon_etl", Name: "weather_api_duration_seconds"}),
		WeatherEnabled:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "carbon_etl", Name: "weather_enabled"}),
	}
}
