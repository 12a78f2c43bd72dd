package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/geodata-client/internal/config"
	"github.com/couchcryptid/geodata-client/internal/domain"
	"github.com/couchcryptid/geodata-client/internal/session"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
)

// ExportedRecord is the message value published for each card of a result set.
type ExportedRecord struct {
	Generation   uint64               `json:"generation"`
	Category     domain.Category      `json:"category"`
	Index        int                  `json:"index"`
	Record       domain.DisplayRecord `json:"record"`
	Presentation domain.Presentation  `json:"presentation"`
	FetchedAt    time.Time            `json:"fetched_at"`
}

// messageWriter is the subset of *kafkago.Writer the exporter needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes normalized result sets to a Kafka topic.
// It implements session.Exporter.
type Writer struct {
	writer messageWriter
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured export topic.
func NewWriter(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaExportTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, clock: clock, logger: logger}
}

// Export serializes every card of the result set and publishes them in a
// single WriteMessages call. Records sharing a key land on one partition.
func (w *Writer) Export(ctx context.Context, rs *session.ResultSet) error {
	if rs == nil || len(rs.Cards) == 0 {
		return nil
	}
	exportedAt := w.clock.Now().UTC()

	msgs := make([]kafkago.Message, len(rs.Cards))
	for i := range rs.Cards {
		msg, err := serializeToMessage(rs, rs.Cards[i], exportedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write export messages: %w", err)
	}
	w.logger.Debug("result set exported", "generation", rs.Generation, "records", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one card into a Kafka message.
func serializeToMessage(rs *session.ResultSet, card session.Card, exportedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(ExportedRecord{
		Generation:   rs.Generation,
		Category:     rs.Category,
		Index:        card.Index,
		Record:       card.Record,
		Presentation: card.Presentation,
		FetchedAt:    rs.FetchedAt,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize display record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(messageKey(rs, card)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(rs.Category)},
			{Key: "exported_at", Value: []byte(exportedAt.Format(time.RFC3339))},
		},
	}, nil
}

// messageKey is "<category>:<id>", or "<category>:g<generation>-<index>" for
// records without an id.
func messageKey(rs *session.ResultSet, card session.Card) string {
	if card.Record.ID != nil {
		return string(rs.Category) + ":" + strconv.FormatInt(*card.Record.ID, 10)
	}
	return fmt.Sprintf("%s:g%d-%d", rs.Category, rs.Generation, card.Index)
}
