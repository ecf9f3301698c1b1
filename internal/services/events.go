// Package services – scoring events
//
// After an overall aggregation writes new values onto an assessment, the
// engine publishes an AssessmentScored event so downstream consumers
// (dashboards, exports) can refresh without polling. Publishing happens
// after the transaction commits and never fails the aggregation.
package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

// AssessmentScored is emitted after every overall write.
type AssessmentScored struct {
	AssessmentID string               `json:"assessment_id"`
	Policy       domain.GradingPolicy `json:"grading_policy"`
	Mode         domain.ScoringMode   `json:"scoring_mode"`
	Score        float64              `json:"score"`
	MaxScore     float64              `json:"max_score"`
	Percentage   float64              `json:"percentage"`
	Grade        *domain.Grade        `json:"grade"`
	ScoredAt     time.Time            `json:"scored_at"`
}

// Publisher delivers scoring events.
type Publisher interface {
	Publish(ctx context.Context, ev AssessmentScored) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, AssessmentScored) error { return nil }

// kafkaWriter is the subset of *kafka.Writer used by KafkaPublisher.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// publishTimeout caps how long Publish may hold up the caller.
const publishTimeout = 2 * time.Second

// KafkaPublisher writes JSON events keyed by assessment id, so every event
// for one assessment lands on the same partition in order.
type KafkaPublisher struct {
	w       kafkaWriter
	timeout time.Duration
}

// NewKafkaPublisher returns a publisher writing to topic on brokers. The
// writer is asynchronous: Publish only enqueues, and delivery failures are
// logged from the writer's completion callback.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
			Async:        true,
			Completion:   logDelivery,
		},
		timeout: publishTimeout,
	}
}

func logDelivery(msgs []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, m := range msgs {
		log.Warn().Err(err).Str("assessment_id", string(m.Key)).Msg("deliver assessment scored")
	}
}

// Publish implements Publisher. It is detached from ctx cancellation, so an
// event is still handed over when the request that triggered it has already
// returned, and it gives up after the publisher timeout.
func (p *KafkaPublisher) Publish(ctx context.Context, ev AssessmentScored) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	timeout := p.timeout
	if timeout <= 0 {
		timeout = publishTimeout
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.AssessmentID),
		Value: b,
		Time:  ev.ScoredAt,
	})
}

// Close flushes pending writes.
func (p *KafkaPublisher) Close() error { return p.w.Close() }
