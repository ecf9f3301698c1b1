package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/tbourn/go-assessment-backend/internal/domain"
)

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { w.closed = true; return nil }

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w}
	g := domain.GradeGreen
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), AssessmentScored{
		AssessmentID: "a1",
		Policy:       domain.PolicyThreeTier,
		Mode:         domain.ModeQuestionnaire,
		Score:        4,
		MaxScore:     5,
		Percentage:   80,
		Grade:        &g,
		ScoredAt:     at,
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("messages = %d", len(w.msgs))
	}
	m := w.msgs[0]
	if string(m.Key) != "a1" || !m.Time.Equal(at) {
		t.Fatalf("key=%q time=%v", m.Key, m.Time)
	}
	var got map[string]any
	if err := json.Unmarshal(m.Value, &got); err != nil {
		t.Fatalf("value not JSON: %v", err)
	}
	if got["grade"] != "green" || got["percentage"] != 80.0 || got["scoring_mode"] != "questionnaire" {
		t.Fatalf("payload = %v", got)
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Fatalf("Close: %v closed=%v", err, w.closed)
	}
}

// stuckWriter blocks until the write context ends, like a writer retrying
// against an unreachable broker.
type stuckWriter struct{}

func (stuckWriter) WriteMessages(ctx context.Context, _ ...kafka.Message) error {
	<-ctx.Done()
	return ctx.Err()
}

func (stuckWriter) Close() error { return nil }

func TestKafkaPublisher_BoundedByTimeout(t *testing.T) {
	p := &KafkaPublisher{w: stuckWriter{}, timeout: 20 * time.Millisecond}

	start := time.Now()
	err := p.Publish(context.Background(), AssessmentScored{AssessmentID: "a1"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v; want deadline exceeded", err)
	}
	if d := time.Since(start); d > time.Second {
		t.Fatalf("Publish blocked for %v", d)
	}
}

func TestKafkaPublisher_IgnoresCallerCancel(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Publish(ctx, AssessmentScored{AssessmentID: "a1"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("messages = %d", len(w.msgs))
	}
}

func TestNewKafkaPublisher_Config(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "assessment.scored")
	kw, ok := p.w.(*kafka.Writer)
	if !ok {
		t.Fatalf("writer type %T", p.w)
	}
	if kw.Topic != "assessment.scored" || kw.Addr == nil {
		t.Fatalf("writer = topic %q addr %v", kw.Topic, kw.Addr)
	}
	if !kw.Async || kw.Completion == nil || p.timeout != publishTimeout {
		t.Fatalf("writer async=%v completion=%v timeout=%v", kw.Async, kw.Completion != nil, p.timeout)
	}
	logDelivery([]kafka.Message{{Key: []byte("a1")}}, errors.New("broker down"))
}

func TestNopPublisher(t *testing.T) {
	if err := (NopPublisher{}).Publish(context.Background(), AssessmentScored{}); err != nil {
		t.Fatalf("NopPublisher: %v", err)
	}
}
