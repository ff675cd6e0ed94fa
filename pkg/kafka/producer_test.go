package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

type recordingWriter struct {
	batches [][]kafka.Message
	err     error
	closed  bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.batches = append(w.batches, msgs)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func nopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func sampleAccounts() []models.Account {
	return []models.Account{
		{Row: 0, AccountID: "P", Outcome: models.OutcomeParent, DomainRoot: models.StringPtr("acme"), DomainSuffix: models.StringPtr("com")},
		{Row: 1, AccountID: "C", Outcome: models.OutcomeChild, ProposedParentID: models.StringPtr("P")},
		{Row: 2, AccountID: "N", Outcome: models.OutcomeNoAction},
		{Row: 3, AccountID: "M", Outcome: models.OutcomeMerge, MergeTargetID: models.StringPtr("P")},
		{Row: 4, AccountID: "D", Outcome: models.OutcomeDelete},
	}
}

func headerMap(msg kafka.Message) map[string]string {
	out := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

func TestNewOutcomeEvents_SkipsNoAction(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	events := NewOutcomeEvents("run-1", sampleAccounts(), now)

	require.Len(t, events, 4)
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.AccountID
		assert.Equal(t, "run-1", e.RunID)
		assert.Equal(t, now, e.Timestamp)
	}
	assert.Equal(t, []string{"P", "C", "M", "D"}, ids)
	assert.Equal(t, "account.child", events[1].EventType)
	assert.Equal(t, "P", models.Deref(events[1].ProposedParentID))
}

func TestOutcomeEvent_Message(t *testing.T) {
	event := NewOutcomeEvents("run-1", sampleAccounts(), time.Now())[2]

	msg, err := event.Message("outcomes", "00-abc-def-01")
	require.NoError(t, err)

	assert.Equal(t, "outcomes", msg.Topic)
	assert.Equal(t, "M", string(msg.Key))

	headers := headerMap(msg)
	assert.Equal(t, "account.merge", headers["event_type"])
	assert.Equal(t, "run-1", headers["run_id"])
	assert.Equal(t, "Merge", headers["outcome"])
	assert.Equal(t, "00-abc-def-01", headers["traceparent"])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "P", decoded["merge_target_id"])
	assert.NotContains(t, decoded, "proposed_parent_id")

	msg, err = event.Message("outcomes", "")
	require.NoError(t, err)
	assert.NotContains(t, headerMap(msg), "traceparent")
}

func TestPublishOutcomes_Batches(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "outcomes", 3, nopLogger())

	sent, err := p.PublishOutcomes(context.Background(), "run-1", sampleAccounts())
	require.NoError(t, err)
	assert.Equal(t, 4, sent)
	require.Len(t, w.batches, 2)
	assert.Len(t, w.batches[0], 3)
	assert.Len(t, w.batches[1], 1)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishOutcomes_NothingToSend(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "outcomes", 10, nopLogger())

	sent, err := p.PublishOutcomes(context.Background(), "run-1", []models.Account{{AccountID: "x"}})
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, w.batches)
}

func TestPublishOutcomes_WriterError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	p := NewProducerWithWriter(w, "outcomes", 10, nopLogger())

	_, err := p.PublishOutcomes(context.Background(), "run-1", sampleAccounts())
	assert.EqualError(t, err, "broker down")
}

func TestNewProducer_Validation(t *testing.T) {
	_, err := NewProducer(ProducerConfig{Topic: "t"}, nopLogger())
	assert.Error(t, err)

	_, err = NewProducer(ProducerConfig{Brokers: []string{"localhost:9092"}}, nopLogger())
	assert.Error(t, err)

	_, err = NewProducer(ProducerConfig{Brokers: []string{"localhost:9092"}, Topic: "t", Compression: "brotli"}, nopLogger())
	assert.Error(t, err)

	p, err := NewProducer(ProducerConfig{Brokers: []string{"localhost:9092"}, Topic: "t", Compression: "none"}, nopLogger())
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestParseCompression(t *testing.T) {
	for name, want := range map[string]kafka.Compression{
		"":       kafka.Snappy,
		"snappy": kafka.Snappy,
		"GZIP":   kafka.Gzip,
		"lz4":    kafka.Lz4,
		"zstd":   kafka.Zstd,
		"none":   0,
	} {
		got, err := ParseCompression(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}
