// Package kafka publishes change notifications to a Kafka topic so downstream
// consumers can react to database updates without polling the CSV snapshots.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/floodwatch/gdacs-flood-db/internal/domain"
)

// Change types carried in the notification envelope.
const (
	changeTypeNew     = "new"
	changeTypeChanged = "changed"
)

// Notifier produces one message per new or changed event. It implements
// pipeline.Notifier.
type Notifier struct {
	writer *kafkago.Writer
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewNotifier creates a Kafka producer for the change topic.
func NewNotifier(brokers []string, topic string, clock clockwork.Clock, logger *slog.Logger) *Notifier {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Notifier{writer: w, clock: clock, logger: logger}
}

// notification is the message payload for one detected change.
type notification struct {
	ChangeType    string                        `json:"change_type"`
	Event         domain.Event                  `json:"event"`
	ChangedFields []string                      `json:"changed_fields,omitempty"`
	ChangeDetails map[string]domain.FieldChange `json:"change_details,omitempty"`
	DetectedAt    string                        `json:"detected_at"`
}

// PublishChanges serializes and publishes all new and changed events in a
// single WriteMessages call for efficiency.
func (n *Notifier) PublishChanges(ctx context.Context, fresh []domain.Event, changed []domain.ChangedEvent) error {
	if len(fresh) == 0 && len(changed) == 0 {
		return nil
	}

	detectedAt := n.clock.Now().UTC().Format(time.RFC3339)

	msgs := make([]kafkago.Message, 0, len(fresh)+len(changed))
	for _, e := range fresh {
		msg, err := serializeNotification(notification{
			ChangeType: changeTypeNew,
			Event:      e,
			DetectedAt: detectedAt,
		})
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	for _, c := range changed {
		msg, err := serializeNotification(notification{
			ChangeType:    changeTypeChanged,
			Event:         c.Event,
			ChangedFields: c.ChangedFields,
			ChangeDetails: c.Details,
			DetectedAt:    detectedAt,
		})
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	return n.writer.WriteMessages(ctx, msgs...)
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}

// serializeNotification marshals one change into a Kafka message keyed by
// GDACS_ID, so all updates for one event land in the same partition.
func serializeNotification(note notification) (kafkago.Message, error) {
	data, err := json.Marshal(note)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize change notification: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(note.Event.GDACSID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "change_type", Value: []byte(note.ChangeType)},
			{Key: "detected_at", Value: []byte(note.DetectedAt)},
		},
	}, nil
}
