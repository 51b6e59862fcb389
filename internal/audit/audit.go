// Package audit records admin and engine actions to a Kafka topic so the
// moderation team has a durable trail independent of the primary database.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/subhvivah/matrimony/pkg/config"
	"github.com/subhvivah/matrimony/pkg/logger"
)

// Entry is a single audit record
type Entry struct {
	Action     string                 `json:"action"`
	ActorEmail string                 `json:"actor_email,omitempty"`
	ProfileID  string                 `json:"profile_id,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Recorder publishes audit entries. Recording is fire-and-forget: a failed
// write is logged, never surfaced to the caller.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

// KafkaRecorder writes entries to a Kafka topic
type KafkaRecorder struct {
	writer  *kafka.Writer
	timeout time.Duration
	now     func() time.Time
}

var _ Recorder = (*KafkaRecorder)(nil)

// NewKafkaRecorder creates a recorder against the configured brokers
func NewKafkaRecorder(cfg config.AuditConfig) *KafkaRecorder {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}
	return &KafkaRecorder{
		writer:  writer,
		timeout: 5 * time.Second,
		now:     time.Now,
	}
}

// Record publishes the entry, stamping OccurredAt when unset
func (r *KafkaRecorder) Record(ctx context.Context, entry Entry) {
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = r.now()
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		logger.Error("audit entry marshal failed", zap.Error(err))
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	err = r.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(entry.ProfileID),
		Value: payload,
	})
	if err != nil {
		logger.Error("audit publish failed",
			zap.String("action", entry.Action), zap.Error(err))
	}
}

// Close flushes and closes the underlying writer
func (r *KafkaRecorder) Close() error {
	return r.writer.Close()
}

// LogRecorder writes entries to the application log only. Used when Kafka is
// disabled in configuration.
type LogRecorder struct {
	now func() time.Time
}

var _ Recorder = (*LogRecorder)(nil)

// NewLogRecorder creates a log-only recorder
func NewLogRecorder() *LogRecorder {
	return &LogRecorder{now: time.Now}
}

// Record logs the entry
func (r *LogRecorder) Record(ctx context.Context, entry Entry) {
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = r.now()
	}
	logger.WithContext(ctx).Info("audit",
		zap.String("action", entry.Action),
		zap.String("actor_email", entry.ActorEmail),
		zap.String("profile_id", entry.ProfileID),
		zap.Any("details", entry.Details),
		zap.Time("occurred_at", entry.OccurredAt),
	)
}

// NewRecorder returns a Kafka recorder when enabled, log-only otherwise
func NewRecorder(cfg config.AuditConfig) Recorder {
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) > 0 {
		return NewKafkaRecorder(cfg)
	}
	return NewLogRecorder()
}
