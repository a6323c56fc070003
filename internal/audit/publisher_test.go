package audit

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "taskgate/pkg/domain"
	"taskgate/pkg/requestcontext"
)

type failingSink struct{}

func (failingSink) Append(context.Context, Event) error {
	return errors.New("sink down")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestPublisherEmit(t *testing.T) {
	ctx := context.Background()
	userID := id.NewUserID()

	t.Run("enriches from context and fans out", func(t *testing.T) {
		store := NewMemoryStore()
		pub := NewPublisher(testLogger(), store)

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		ctx := requestcontext.WithTime(ctx, now)
		ctx = requestcontext.WithRequestID(ctx, "req-1")
		ctx = requestcontext.WithDeviceName(ctx, "Safari on iOS")

		pub.Emit(ctx, Event{UserID: userID, Action: ActionStepCompleted, Step: "profile"})

		events, err := store.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, now, events[0].Timestamp)
		assert.Equal(t, "req-1", events[0].RequestID)
		assert.Equal(t, "Safari on iOS", events[0].Device)
	})

	t.Run("sink failure does not panic or stop other sinks", func(t *testing.T) {
		store := NewMemoryStore()
		pub := NewPublisher(testLogger(), failingSink{}, store)

		pub.Emit(ctx, Event{UserID: userID, Action: ActionQuizGraded, Score: 90, Passed: true})

		events, err := store.ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})

	t.Run("nil publisher is a no-op", func(t *testing.T) {
		var pub *Publisher
		pub.Emit(ctx, Event{UserID: userID, Action: ActionUserLoggedIn})
	})
}

func TestMemoryStoreFiltersByUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a, b := id.NewUserID(), id.NewUserID()

	require.NoError(t, store.Append(ctx, Event{UserID: a, Action: ActionUserSignedUp}))
	require.NoError(t, store.Append(ctx, Event{UserID: b, Action: ActionUserSignedUp}))
	require.NoError(t, store.Append(ctx, Event{UserID: a, Action: ActionStepCompleted}))

	events, err := store.ListByUser(ctx, a)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
