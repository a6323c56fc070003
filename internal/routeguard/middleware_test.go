package routeguard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskgate/internal/activation/models"
	"taskgate/internal/audit"
	id "taskgate/pkg/domain"
	dErrors "taskgate/pkg/domain-errors"
	"taskgate/pkg/requestcontext"
	"taskgate/pkg/testutil"
)

type stubLoader struct {
	record *models.ActivationRecord
	err    error
	calls  int
}

func (l *stubLoader) Refresh(_ context.Context, _ id.UserID) (*models.ActivationRecord, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.record, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func guardWith(loader RecordLoader, auditStore *audit.MemoryStore) *Guard {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := []Option{WithLogger(logger)}
	if auditStore != nil {
		opts = append(opts, WithAuditPublisher(audit.NewPublisher(logger, auditStore)))
	}
	return New(NewRealGatePolicy(DefaultTable()), loader, opts...)
}

func authedRequest(t *testing.T, path string, userID id.UserID) *http.Request {
	req := testutil.WithAuthID(testutil.NewRequest(t, http.MethodGet, path), userID)
	return req.WithContext(requestcontext.WithUserRole(req.Context(), string(models.RoleDoer)))
}

func TestGuardMiddleware(t *testing.T) {
	t.Run("redirects unauthenticated protected requests to login", func(t *testing.T) {
		loader := &stubLoader{}
		handler := guardWith(loader, nil).Middleware(okHandler())

		rr := testutil.DoRequest(handler, testutil.NewRequest(t, http.MethodGet, "/dashboard"))

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, RouteLogin, rr.Header().Get("Location"))
		assert.Zero(t, loader.calls, "no record fetch without a principal")
	})

	t.Run("forwards fully activated users", func(t *testing.T) {
		userID := id.NewUserID()
		record := models.NewRecord(userID, models.RoleDoer)
		record.ProfileCompleted = true
		record.TrainingCompleted = true
		record.QuizPassed = true
		record.BankDetailsAdded = true
		record.OnboardingCompleted = true

		handler := guardWith(&stubLoader{record: record}, nil).Middleware(okHandler())
		rr := testutil.DoRequest(handler, authedRequest(t, "/dashboard", userID))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("redirects incomplete users to their current step and audits it", func(t *testing.T) {
		userID := id.NewUserID()
		record := models.NewRecord(userID, models.RoleDoer)
		record.ProfileCompleted = true

		auditStore := audit.NewMemoryStore()
		handler := guardWith(&stubLoader{record: record}, auditStore).Middleware(okHandler())
		rr := testutil.DoRequest(handler, authedRequest(t, "/dashboard", userID))

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/onboarding/training", rr.Header().Get("Location"))

		events, err := auditStore.ListByUser(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.ActionGuardRedirect, events[0].Action)
	})

	t.Run("degrades to onboarding redirect when the fetch fails", func(t *testing.T) {
		userID := id.NewUserID()
		loader := &stubLoader{err: errors.New("store unreachable")}
		handler := guardWith(loader, nil).Middleware(okHandler())

		rr := testutil.DoRequest(handler, authedRequest(t, "/dashboard", userID))

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, RouteOnboardingEntry, rr.Header().Get("Location"))
	})

	t.Run("fetch failures are retried on the next request", func(t *testing.T) {
		userID := id.NewUserID()
		loader := &stubLoader{err: errors.New("store unreachable")}
		handler := guardWith(loader, nil).Middleware(okHandler())

		testutil.DoRequest(handler, authedRequest(t, "/dashboard", userID))
		require.Equal(t, 1, loader.calls)

		// The store recovers; the guard must not have cached the failure.
		loader.err = nil
		record := models.NewRecord(userID, models.RoleDoer)
		record.OnboardingCompleted = true
		record.ProfileCompleted = true
		record.TrainingCompleted = true
		record.QuizPassed = true
		record.BankDetailsAdded = true
		loader.record = record

		rr := testutil.DoRequest(handler, authedRequest(t, "/dashboard", userID))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 2, loader.calls)
	})

	t.Run("treats a missing record as not onboarded", func(t *testing.T) {
		userID := id.NewUserID()
		loader := &stubLoader{err: dErrors.New(dErrors.CodeNotFound, "activation record not found")}
		handler := guardWith(loader, nil).Middleware(okHandler())

		rr := testutil.DoRequest(handler, authedRequest(t, "/dashboard", userID))

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, RouteOnboardingEntry, rr.Header().Get("Location"))
	})

	t.Run("bypass policy allows everything but the carve-outs", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		handler := New(NewBypassGatePolicy(), &stubLoader{}, WithLogger(logger)).Middleware(okHandler())

		rr := testutil.DoRequest(handler, testutil.NewRequest(t, http.MethodGet, "/dashboard"))
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = testutil.DoRequest(handler, testutil.NewRequest(t, http.MethodGet, "/onboarding"))
		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, RouteHome, rr.Header().Get("Location"))
	})
}
