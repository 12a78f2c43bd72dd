//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/geodata-client/internal/adapter/datasetapi"
	"github.com/couchcryptid/geodata-client/internal/adapter/geocode"
	"github.com/couchcryptid/geodata-client/internal/adapter/kafka"
	"github.com/couchcryptid/geodata-client/internal/config"
	"github.com/couchcryptid/geodata-client/internal/domain"
	"github.com/couchcryptid/geodata-client/internal/observability"
	"github.com/couchcryptid/geodata-client/internal/session"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testExportTopic = "test-geodata-results"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("geoscope-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestSearchExportsToKafka runs a search against a fake dataset API and reads
// the exported records back from Kafka.
func TestSearchExportsToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testExportTopic)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":17,"name":"Aachen","recclass":"L5","mass":21,"year":1880,"lat":50.775,"lon":6.08333},
			{"id":18,"name":"Legacy","location":"POINT(12.5 -7.25)"}
		]`))
	}))
	defer api.Close()

	cfg := &config.Config{
		KafkaBrokers:     []string{broker},
		KafkaExportTopic: testExportTopic,
	}
	clock := clockwork.NewRealClock()
	writer := kafka.NewWriter(cfg, clock, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	source := datasetapi.NewClient(datasetapi.Options{BaseURL: api.URL, Timeout: 5 * time.Second}, discardLogger())
	resolver := geocode.NewResolver(geocode.NewClient(api.URL, time.Second, metrics, discardLogger()),
		geocode.NewSessionCache(), metrics, discardLogger())
	sess := session.New(source, resolver, discardLogger(), metrics,
		session.WithClock(clock), session.WithExporter(writer))

	rs, err := sess.Search(ctx, domain.CategoryPointImpact, nil)
	require.NoError(t, err)
	require.Len(t, rs.Cards, 2)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testExportTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	for _, wantKey := range []string{"meteorite:17", "meteorite:18"} {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from export topic")

		assert.Equal(t, wantKey, string(msg.Key))

		var out kafka.ExportedRecord
		require.NoError(t, json.Unmarshal(msg.Value, &out))
		assert.Equal(t, rs.Generation, out.Generation)
		assert.Equal(t, domain.CategoryPointImpact, out.Category)
		require.NotNil(t, out.Record.Lat)
	}
}
