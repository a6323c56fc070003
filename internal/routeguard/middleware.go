package routeguard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/sync/singleflight"

	"taskgate/internal/activation/models"
	"taskgate/internal/audit"
	"taskgate/internal/routeguard/metrics"
	id "taskgate/pkg/domain"
	dErrors "taskgate/pkg/domain-errors"
	"taskgate/pkg/requestcontext"
)

// RecordLoader fetches the activation record for a principal. The activation
// service satisfies this.
type RecordLoader interface {
	Refresh(ctx context.Context, userID id.UserID) (*models.ActivationRecord, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Guard is the HTTP middleware that applies a GatePolicy to every request.
// The guard itself performs at most one record fetch per evaluation;
// concurrent evaluations for the same user share one fetch.
type Guard struct {
	policy  GatePolicy
	records RecordLoader
	logger  *slog.Logger
	auditor AuditPublisher
	metrics *metrics.Metrics
	group   singleflight.Group
}

type Option func(g *Guard)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(g *Guard) {
		g.auditor = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Guard) {
		g.metrics = m
	}
}

// New constructs a Guard. The policy choice (real vs bypass) is made by the
// caller at startup; a bypass policy is logged loudly there.
func New(policy GatePolicy, records RecordLoader, opts ...Option) *Guard {
	g := &Guard{
		policy:  policy,
		records: records,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Middleware evaluates the gate for each request and either forwards it or
// answers with a redirect.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		in := g.buildInput(r)
		decision := g.policy.Decide(in)

		if decision.Allow {
			g.metrics.IncrementDecision("allow", decision.Reason)
			next.ServeHTTP(w, r)
			return
		}

		g.metrics.IncrementDecision("redirect", decision.Reason)
		g.logger.InfoContext(r.Context(), "guard redirect",
			"request_id", requestcontext.RequestID(r.Context()),
			"target", in.Target,
			"redirect_to", decision.RedirectTo,
			"reason", decision.Reason,
			"policy", g.policy.Name(),
		)
		if g.auditor != nil && in.Principal != nil {
			g.auditor.Emit(r.Context(), audit.Event{
				UserID:   in.Principal.UserID,
				Action:   audit.ActionGuardRedirect,
				Decision: decision.RedirectTo,
				Reason:   decision.Reason,
			})
		}
		http.Redirect(w, r, decision.RedirectTo, http.StatusFound)
	})
}

// buildInput assembles the decision input from the request: the principal
// placed in context by the auth middleware, and their record when one exists.
func (g *Guard) buildInput(r *http.Request) Input {
	in := Input{Target: r.URL.Path}

	userID := requestcontext.UserID(r.Context())
	if userID.IsNil() {
		return in
	}

	principal := &Principal{UserID: userID}
	if role, err := models.ParseRole(requestcontext.UserRole(r.Context())); err == nil {
		principal.Role = role
	}
	in.Principal = principal

	record, err := g.loadRecord(r.Context(), userID)
	switch {
	case err == nil:
		in.Record = record
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		// No record yet: treated as not onboarded, which the rules already
		// handle conservatively.
	default:
		in.FetchFailed = true
		g.metrics.IncrementFetchFailure()
		g.logger.WarnContext(r.Context(), "record fetch failed during guard evaluation",
			"request_id", requestcontext.RequestID(r.Context()),
			"user_id", userID,
			"error", err,
		)
	}
	return in
}

// loadRecord deduplicates concurrent fetches for the same user. Errors are
// never cached; the next navigation retries.
func (g *Guard) loadRecord(ctx context.Context, userID id.UserID) (*models.ActivationRecord, error) {
	v, err, _ := g.group.Do(userID.String(), func() (any, error) {
		return g.records.Refresh(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	record, ok := v.(*models.ActivationRecord)
	if !ok {
		return nil, errors.New("unexpected record type from loader")
	}
	return record, nil
}
