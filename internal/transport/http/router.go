// Package httptransport composes the public HTTP surface: platform
// middleware, the activation gate, and the per-module handlers.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	activationhandler "taskgate/internal/activation/handler"
	"taskgate/internal/activation/models"
	identityhandler "taskgate/internal/identity/handler"
	"taskgate/internal/platform/metrics"
	"taskgate/internal/platform/middleware"
	"taskgate/internal/routeguard"
	dErrors "taskgate/pkg/domain-errors"
	"taskgate/pkg/platform/httputil"
)

// Deps carries everything the router composes. Handlers arrive fully
// constructed so tests can wire fakes behind the same surface.
type Deps struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	JWTValidator middleware.JWTValidator
	Identity     *identityhandler.Handler
	Activation   *activationhandler.Handler
	Guard        *routeguard.Guard
}

// NewRouter wires all endpoints. Every navigable route runs through the
// activation gate; only the operational endpoints bypass it.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Device)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Latency(deps.Metrics))

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// OptionalAuth resolves the principal without rejecting anonymous
	// requests; the guard then decides what each principal may reach.
	r.Group(func(gated chi.Router) {
		gated.Use(middleware.OptionalAuth(deps.JWTValidator))
		gated.Use(deps.Guard.Middleware)

		deps.Identity.Register(gated)
		gated.Get(routeguard.RouteLogin, pageHandler("login"))
		gated.Get("/signup", pageHandler("signup"))

		gated.Group(func(authed chi.Router) {
			authed.Use(middleware.RequireAuth(deps.JWTValidator, deps.Logger))

			deps.Activation.Register(authed)
			authed.Get(routeguard.RouteOnboardingEntry, pageHandler("onboarding"))
			authed.Get("/onboarding/{step}", handleStepPage)

			authed.Get(routeguard.RouteHome, pageHandler("dashboard"))
			authed.Get("/tasks", pageHandler("tasks"))
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pageHandler stands in for the frontend shell. The server is API-first; the
// named routes exist so the guard has concrete targets to classify.
func pageHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"page": name})
	}
}

func handleStepPage(w http.ResponseWriter, r *http.Request) {
	step, err := models.ParseStep(chi.URLParam(r, "step"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown onboarding step"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"page": "onboarding",
		"step": string(step),
	})
}
