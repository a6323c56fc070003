//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"taskgate/internal/audit"
	"taskgate/internal/platform/config"
	id "taskgate/pkg/domain"
	"taskgate/pkg/testutil/containers"
)

func TestKafkaSinkPublishes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	broker := containers.NewRedpandaContainer(t)

	cfg := config.KafkaConfig{Brokers: []string{broker.Broker}, Topic: "taskgate.audit.test"}
	sink, err := audit.NewKafkaSink(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, sink)
	defer sink.Close()

	userID := id.NewUserID()
	event := audit.Event{
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Action:    audit.ActionStepCompleted,
		Step:      "training",
	}
	require.NoError(t, sink.Append(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Broker),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, userID.String(), string(records[0].Key))

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, audit.ActionStepCompleted, got.Action)
	require.Equal(t, "training", got.Step)
}
