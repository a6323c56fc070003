package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"taskgate/internal/activation/models"
	"taskgate/internal/activation/service"
	id "taskgate/pkg/domain"
	dErrors "taskgate/pkg/domain-errors"
	"taskgate/pkg/platform/httputil"
	"taskgate/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the activation operations the handler needs.
type Service interface {
	Status(ctx context.Context, userID id.UserID) (*service.Status, error)
	CompleteStep(ctx context.Context, userID id.UserID, step models.Step) (*models.ActivationRecord, error)
	RecordTrainingProgress(ctx context.Context, userID id.UserID, percent int) (*models.ActivationRecord, error)
	SubmitQuiz(ctx context.Context, userID id.UserID, quizID string, answers map[id.QuestionID]int) (*service.SubmitQuizResult, error)
	RetryQuiz(ctx context.Context, userID id.UserID) (*models.ActivationRecord, error)
}

// Handler wires onboarding endpoints to the activation service. All routes
// require an authenticated principal; the user ID comes from request context.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an activation handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts onboarding endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/onboarding/status", h.HandleStatus)
	r.Post("/onboarding/steps/{step}", h.HandleCompleteStep)
	r.Put("/onboarding/training/progress", h.HandleTrainingProgress)
	r.Post("/onboarding/quiz/submit", h.HandleSubmitQuiz)
	r.Post("/onboarding/quiz/retry", h.HandleRetryQuiz)
}

func (h *Handler) authedUser(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	userID := requestcontext.UserID(r.Context())
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return userID, true
}

// HandleStatus handles GET /onboarding/status requests.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(w, r)
	if !ok {
		return
	}

	status, err := h.service.Status(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromStatus(status))
}

// HandleCompleteStep handles POST /onboarding/steps/{step} requests.
func (h *Handler) HandleCompleteStep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	userID, ok := h.authedUser(w, r)
	if !ok {
		return
	}

	step, err := models.ParseStep(chi.URLParam(r, "step"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.CompleteStep(ctx, userID, step)
	if err != nil {
		h.logger.WarnContext(ctx, "step completion rejected",
			"request_id", requestID,
			"user_id", userID,
			"step", string(step),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "step completed",
		"request_id", requestID,
		"user_id", userID,
		"step", string(step),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromRecord(record))
}

// HandleTrainingProgress handles PUT /onboarding/training/progress requests.
func (h *Handler) HandleTrainingProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.authedUser(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[TrainingProgressRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.RecordTrainingProgress(ctx, userID, *req.ProgressPercent)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromRecord(record))
}

// HandleSubmitQuiz handles POST /onboarding/quiz/submit requests.
func (h *Handler) HandleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	userID, ok := h.authedUser(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[SubmitQuizRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.SubmitQuiz(ctx, userID, req.QuizID, req.Answers)
	if err != nil {
		h.logger.WarnContext(ctx, "quiz submission failed",
			"request_id", requestID,
			"user_id", userID,
			"quiz_id", req.QuizID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "quiz submission graded",
		"request_id", requestID,
		"user_id", userID,
		"quiz_id", req.QuizID,
		"passed", result.Grade.Passed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromQuizResult(result))
}

// HandleRetryQuiz handles POST /onboarding/quiz/retry requests.
func (h *Handler) HandleRetryQuiz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(w, r)
	if !ok {
		return
	}

	record, err := h.service.RetryQuiz(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromRecord(record))
}
