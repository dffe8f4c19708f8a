//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/twmb/franz-go/pkg/kgo"

	"calldex/internal/platform/config"
	"calldex/internal/platform/events"
	"calldex/internal/platform/logger"
)

func TestKafkaPublisherRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := redpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v24.1.2")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	broker, err := container.KafkaSeedBroker(ctx)
	require.NoError(t, err)

	cfg := config.KafkaConfig{Brokers: []string{broker}, Topic: "calldex.events.test"}
	publisher, err := events.NewKafka(ctx, cfg, logger.New())
	require.NoError(t, err)
	t.Cleanup(publisher.Close)

	sent := events.Event{
		Type:        events.TypeSpamReported,
		UserID:      "8f14ab63-54f8-4f1b-9a0f-3a1f0a63d001",
		PhoneNumber: "9995550001",
		Device:      "Chrome/Linux",
		OccurredAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, publisher.Publish(ctx, sent))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	pollCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(pollCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, sent.PhoneNumber, string(records[0].Key))

	var got events.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, sent, got)
}
