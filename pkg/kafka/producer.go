// Package kafka publishes per-account resolution outcomes
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const (
	// EventTypePrefix prefixes the lowercased outcome, e.g. account.merge
	EventTypePrefix = "account."
	SchemaVersion   = "1.0"
)

// MessageWriter is the part of kafka.Writer the producer needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes outcome events
type Producer struct {
	writer    MessageWriter
	logger    ectologger.Logger
	topic     string
	batchSize int
}

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// ParseCompression maps a codec name to the kafka-go codec
func ParseCompression(name string) (kafka.Compression, error) {
	switch strings.ToLower(name) {
	case "", "snappy":
		return kafka.Snappy, nil
	case "gzip":
		return kafka.Gzip, nil
	case "lz4":
		return kafka.Lz4, nil
	case "zstd":
		return kafka.Zstd, nil
	case "none":
		return 0, nil
	}
	return 0, fmt.Errorf("unsupported kafka compression %q", name)
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg ProducerConfig, logger ectologger.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("no kafka topic configured")
	}

	compression, err := ParseCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}

	return NewProducerWithWriter(writer, cfg.Topic, cfg.BatchSize, logger), nil
}

// NewProducerWithWriter wires a producer to an existing writer
func NewProducerWithWriter(w MessageWriter, topic string, batchSize int, logger ectologger.Logger) *Producer {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Producer{
		writer:    w,
		logger:    logger,
		topic:     topic,
		batchSize: batchSize,
	}
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// OutcomeEvent announces the outcome assigned to one account
type OutcomeEvent struct {
	EventType        string    `json:"event_type"`
	RunID            string    `json:"run_id"`
	AccountID        string    `json:"account_id"`
	AccountName      *string   `json:"account_name,omitempty"`
	Row              int       `json:"row"`
	Outcome          string    `json:"outcome"`
	DomainRoot       *string   `json:"domain_root,omitempty"`
	DomainSuffix     *string   `json:"domain_suffix,omitempty"`
	ProposedParentID *string   `json:"proposed_parent_id,omitempty"`
	MergeTargetID    *string   `json:"merge_target_id,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// NewOutcomeEvents builds one event per account that received an action.
// No Action records produce nothing.
func NewOutcomeEvents(runID string, accounts []models.Account, now time.Time) []*OutcomeEvent {
	events := make([]*OutcomeEvent, 0)
	for i := range accounts {
		acc := &accounts[i]
		if acc.Outcome.IsNoAction() {
			continue
		}
		events = append(events, &OutcomeEvent{
			EventType:        EventTypePrefix + strings.ToLower(acc.Outcome.String()),
			RunID:            runID,
			AccountID:        acc.AccountID,
			AccountName:      acc.AccountName,
			Row:              acc.Row,
			Outcome:          acc.Outcome.String(),
			DomainRoot:       acc.DomainRoot,
			DomainSuffix:     acc.DomainSuffix,
			ProposedParentID: acc.ProposedParentID,
			MergeTargetID:    acc.MergeTargetID,
			Timestamp:        now,
		})
	}
	return events
}

// Message encodes the event. The key is the account id so every event for
// an account lands on the same partition.
func (e *OutcomeEvent) Message(topic, traceParent string) (kafka.Message, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, err
	}

	headers := []kafka.Header{
		{Key: "event_type", Value: []byte(e.EventType)},
		{Key: "run_id", Value: []byte(e.RunID)},
		{Key: "outcome", Value: []byte(e.Outcome)},
		{Key: "schema_version", Value: []byte(SchemaVersion)},
	}
	if traceParent != "" {
		headers = append(headers, kafka.Header{Key: "traceparent", Value: []byte(traceParent)})
	}

	return kafka.Message{
		Topic:   topic,
		Key:     []byte(e.AccountID),
		Value:   data,
		Headers: headers,
	}, nil
}

// PublishOutcomes publishes an event for every actioned account and returns
// how many were sent
func (p *Producer) PublishOutcomes(ctx context.Context, runID string, accounts []models.Account) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishOutcomes")
	defer span.End()

	events := NewOutcomeEvents(runID, accounts, time.Now().UTC())
	if len(events) == 0 {
		return 0, nil
	}

	traceParent := tracing.GetTraceParent(ctx)
	sent := 0
	for start := 0; start < len(events); start += p.batchSize {
		end := min(start+p.batchSize, len(events))

		messages := make([]kafka.Message, 0, end-start)
		for _, event := range events[start:end] {
			msg, err := event.Message(p.topic, traceParent)
			if err != nil {
				return sent, fmt.Errorf("failed to encode event for %s: %w", event.AccountID, err)
			}
			messages = append(messages, msg)
		}

		if err := p.writer.WriteMessages(ctx, messages...); err != nil {
			p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"batch_size": len(messages),
				"sent":       sent,
			}).Error("Failed to publish outcome events batch")
			return sent, err
		}
		sent += len(messages)
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"topic":  p.topic,
		"run_id": runID,
		"events": sent,
	}).Debug("Published outcome events")

	return sent, nil
}
