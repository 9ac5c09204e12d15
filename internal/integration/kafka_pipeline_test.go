//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightprint/carbon-etl/internal/adapter/kafka"
	"github.com/freightprint/carbon-etl/internal/config"
	"github.com/freightprint/carbon-etl/internal/domain"
	"github.com/freightprint/carbon-etl/internal/emissions"
	"github.com/freightprint/carbon-etl/internal/generator"
	"github.com/freightprint/carbon-etl/internal/observability"
	"github.com/freightprint/carbon-etl/internal/pipeline"
)

const (
	testSourceTopic = "test-raw-shipments"
	testSinkTopic   = "test-shipment-emissions"
)

var generatorStart = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

// enrichedMessage holds a deserialized message read from the sink topic.
type enrichedMessage struct {
	Shipment domain.Shipment
	Key      string
	Headers  map[string]string
}

func newTransformer() *pipeline.ShipmentTransformer {
	calc := emissions.NewCalculator(emissions.DefaultFactors(), discardLogger())
	return pipeline.NewTransformer(calc, nil, observability.NewMetricsForTesting(), discardLogger())
}

// referenceRecord is a known route whose emission numbers are asserted
// exactly: 1000 km by ground at 1000 kg and load factor 0.8.
func referenceRecord() domain.RawShipmentRecord {
	oLat, oLon := 53.5511, 9.9937
	dLat, dLon := 51.9244, 4.4777
	return domain.RawShipmentRecord{
		ShipmentID:      "shp-integration-1",
		Carrier:         "Nordwind Logistics",
		PackageType:     "pallet",
		OriginCity:      "Hamburg",
		OriginLat:       &oLat,
		OriginLon:       &oLon,
		DestinationCity: "Rotterdam",
		DestinationLat:  &dLat,
		DestinationLon:  &dLon,
		DistanceKM:      1000,
		WeightKG:        1000,
		TransportMode:   "ground",
		DepartureTime:   "2026-03-02T08:00:00Z",
		ArrivalTime:     "2026-03-02T20:00:00Z",
		LoadFactor:      0.8,
	}
}

// readEnriched reads a single message from the sink consumer and deserializes it.
func readEnriched(ctx context.Context, t *testing.T, consumer *kafkago.Reader) enrichedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var shipment domain.Shipment
	require.NoError(t, json.Unmarshal(msg.Value, &shipment), "unmarshal sink message")

	return enrichedMessage{
		Shipment: shipment,
		Key:      string(msg.Key),
		Headers:  headers,
	}
}

// TestKafkaReaderWriter verifies the adapter layer: kafka.Reader (Extractor)
// and kafka.Writer (Loader) correctly round-trip a message through Kafka.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("test-reader-%d", time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}

	// Publish a raw shipment record to the source topic.
	record := referenceRecord()
	payload, err := json.Marshal(record)
	require.NoError(t, err)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(record.ShipmentID),
		Value: payload,
	}))

	// Extract via kafka.Reader.
	// Retry because the consumer group may need time to rebalance before
	// partitions are assigned and messages become available.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	var batch []domain.RawEvent
	for {
		var err error
		batch, err = reader.ExtractBatch(ctx, 1)
		require.NoError(t, err)
		if len(batch) > 0 {
			break
		}
		if ctx.Err() != nil {
			t.Fatal("timed out waiting for message from source topic")
		}
	}
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte(record.ShipmentID), raw.Key)
	assert.Equal(t, payload, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")

	// Commit the offset.
	require.NoError(t, raw.Commit(ctx))

	// Transform the raw event into an enriched shipment.
	shipment, err := newTransformer().Transform(ctx, raw)
	require.NoError(t, err)

	// Load via kafka.Writer.
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.LoadBatch(ctx, []domain.Shipment{shipment}))

	// Read from the sink topic and verify headers + value.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	em := readEnriched(ctx, t, consumer)
	assert.Equal(t, record.ShipmentID, em.Key)
	assert.Equal(t, "ground", em.Headers["transport_mode"])
	assert.Contains(t, em.Headers, "processed_at")
	_, err = time.Parse(time.RFC3339, em.Headers["processed_at"])
	assert.NoError(t, err, "processed_at should be valid RFC3339")

	assert.Equal(t, record.ShipmentID, em.Shipment.ID)
	assert.Equal(t, "Hamburg", em.Shipment.Origin.City)
	assert.Equal(t, "Rotterdam", em.Shipment.Destination.City)
	assert.InDelta(t, 111.25, em.Shipment.Emissions.CO2KG, 1e-9)
	assert.InDelta(t, 124.95, em.Shipment.Emissions.CO2EquivalentKG, 1e-9)
	assert.InDelta(t, 0.11125, em.Shipment.CarbonIntensityKGPerKM, 1e-9)
	assert.InDelta(t, 12.0, em.Shipment.TransitHours, 1e-9)
}

// TestPipelineEndToEnd wires the full pipeline (Reader, Transformer, Writer)
// with real Kafka and verifies that a seeded synthetic batch is enriched.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("test-pipeline-%d", time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}

	// Publish a deterministic batch of clean synthetic shipments.
	records := generator.New(generator.Config{
		Seed:      42,
		Count:     60,
		StartDate: generatorStart,
		Days:      14,
	}).Generate()

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	msgs := make([]kafkago.Message, 0, len(records))
	wantModes := map[string]int{}
	for _, rec := range records {
		payload, err := json.Marshal(rec)
		require.NoError(t, err)
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(rec.ShipmentID),
			Value: payload,
		})
		wantModes[rec.TransportMode]++
	}
	require.NoError(t, producer.WriteMessages(ctx, msgs...))

	// Wire up the pipeline.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, newTransformer(), writer, discardLogger(), metrics, 50)

	// Run the pipeline in a goroutine.
	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	// Read all enriched messages from the sink topic.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make([]enrichedMessage, 0, len(records))
	for len(received) < len(records) {
		em := readEnriched(ctx, t, consumer)
		received = append(received, em)
	}

	pipelineCancel()
	require.NoError(t, <-errCh)

	// Validate counts by transport mode against the generated batch.
	require.Len(t, received, len(records))
	gotModes := map[string]int{}
	for _, em := range received {
		gotModes[em.Shipment.TransportMode]++

		// Every message must have mode and processed_at headers.
		assert.NotEmpty(t, em.Headers["transport_mode"], "missing transport_mode header")
		assert.Contains(t, em.Headers, "processed_at", "missing processed_at header")
		_, err := time.Parse(time.RFC3339, em.Headers["processed_at"])
		assert.NoError(t, err, "invalid processed_at format")

		// Every enriched shipment carries a positive footprint.
		assert.Greater(t, em.Shipment.Emissions.CO2EquivalentKG, 0.0, "shipment %s", em.Shipment.ID)
		assert.Greater(t, em.Shipment.CarbonIntensityKGPerKM, 0.0, "shipment %s", em.Shipment.ID)
		assert.Empty(t, em.Shipment.QualityIssues, "shipment %s", em.Shipment.ID)
	}
	assert.Equal(t, wantModes, gotModes)
}

// TestPipelineTransformError verifies that an invalid message (poison pill)
// is skipped and the pipeline continues processing valid messages.
func TestPipelineTransformError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("test-poison-%d", time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}

	// Publish: invalid JSON, a record the engine rejects, then a valid record.
	validPayload, err := json.Marshal(referenceRecord())
	require.NoError(t, err)

	zeroWeight := referenceRecord()
	zeroWeight.ShipmentID = "shp-integration-2"
	zeroWeight.WeightKG = 0
	zeroWeightPayload, err := json.Marshal(zeroWeight)
	require.NoError(t, err)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("zero-weight"), Value: zeroWeightPayload},
		kafkago.Message{Key: []byte("good"), Value: validPayload},
	))

	// Wire up the pipeline.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, newTransformer(), writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	// Only the valid message should appear on the sink topic.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	em := readEnriched(ctx, t, consumer)
	assert.Equal(t, "shp-integration-1", em.Shipment.ID)
	assert.InDelta(t, 124.95, em.Shipment.Emissions.CO2EquivalentKG, 1e-9)

	// Verify no second message arrives (the poison pills were skipped).
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err = consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}
