// Package service implements the activation state machine. It composes the
// step policy, the grading engine, and the record store into the operations
// the onboarding endpoints and the route guard consume.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"taskgate/internal/activation/metrics"
	"taskgate/internal/activation/models"
	"taskgate/internal/activation/policy"
	"taskgate/internal/audit"
	"taskgate/internal/quiz/grading"
	quizmodels "taskgate/internal/quiz/models"
	id "taskgate/pkg/domain"
	dErrors "taskgate/pkg/domain-errors"
	"taskgate/pkg/requestcontext"
	"taskgate/pkg/sentinel"
)

type RecordStore interface {
	Get(ctx context.Context, userID id.UserID) (*models.ActivationRecord, error)
	Save(ctx context.Context, record *models.ActivationRecord, expectedVersion int64) error
}

// QuestionSource supplies the ordered question bank for a quiz identifier.
type QuestionSource interface {
	Bank(ctx context.Context, quizID string) (*quizmodels.Bank, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service applies step-completion events to activation records. Every
// successful transition persists exactly one record write; precondition
// failures mutate nothing.
type Service struct {
	records   RecordStore
	questions QuestionSource
	grader    *grading.Engine

	logger  *slog.Logger
	auditor AuditPublisher
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// New constructs a Service.
func New(records RecordStore, questions QuestionSource, grader *grading.Engine, opts ...Option) *Service {
	s := &Service{
		records:   records,
		questions: questions,
		grader:    grader,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("taskgate/internal/activation")
	}
	return s
}

// StepStatus is one row of the status projection consumed by clients to
// render a stepper.
type StepStatus struct {
	Step     models.Step `json:"step"`
	Complete bool        `json:"complete"`
	Unlocked bool        `json:"unlocked"`
}

// Status is the full view of one user's position in the gate.
type Status struct {
	Record *models.ActivationRecord `json:"record"`

	// CurrentStep is the first incomplete step; empty when fully activated.
	CurrentStep    models.Step  `json:"current_step,omitempty"`
	FullyActivated bool         `json:"fully_activated"`
	Steps          []StepStatus `json:"steps"`
}

// Initialize provisions an empty record for a new user. It is idempotent:
// an existing record is left untouched.
func (s *Service) Initialize(ctx context.Context, userID id.UserID, role models.Role) error {
	record := models.NewRecord(userID, role)
	if err := s.records.Save(ctx, record, 0); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create activation record")
	}
	s.logger.InfoContext(ctx, "activation record created",
		"user_id", userID,
		"role", string(role),
	)
	return nil
}

// Refresh re-reads the backing record, discarding any cached snapshot the
// caller holds.
func (s *Service) Refresh(ctx context.Context, userID id.UserID) (*models.ActivationRecord, error) {
	record, err := s.records.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "activation record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load activation record")
	}
	return record, nil
}

// CurrentStep returns the first incomplete step for the record, or ok=false
// when the user is fully activated.
func (s *Service) CurrentStep(record *models.ActivationRecord) (models.Step, bool) {
	return policy.FirstIncomplete(record)
}

// Status loads the record and projects it into the per-step view.
func (s *Service) Status(ctx context.Context, userID id.UserID) (*Status, error) {
	record, err := s.Refresh(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildStatus(record), nil
}

func buildStatus(record *models.ActivationRecord) *Status {
	order := policy.Order(record.Role)
	steps := make([]StepStatus, 0, len(order))
	for _, step := range order {
		steps = append(steps, StepStatus{
			Step:     step,
			Complete: policy.IsComplete(record, step),
			Unlocked: policy.IsUnlocked(record, step),
		})
	}
	current, ok := policy.FirstIncomplete(record)
	st := &Status{
		Record:         record,
		FullyActivated: !ok,
		Steps:          steps,
	}
	if ok {
		st.CurrentStep = current
	}
	return st
}

// CompleteStep marks a step as done. The step must be unlocked: its
// predecessor in the role's order must already be complete, otherwise the
// call is rejected with no mutation. Re-completing an already complete step
// is a no-op. The quiz step cannot be completed here; it only completes
// through a passing graded submission.
func (s *Service) CompleteStep(ctx context.Context, userID id.UserID, step models.Step) (*models.ActivationRecord, error) {
	ctx, span := s.tracer.Start(ctx, "activation.CompleteStep",
		trace.WithAttributes(attribute.String("step", string(step))))
	defer span.End()

	record, err := s.Refresh(ctx, userID)
	if err != nil {
		return nil, s.traceErr(span, err)
	}

	if !policy.Contains(record.Role, step) {
		return nil, s.traceErr(span, dErrors.New(dErrors.CodeInvalidInput, "step is not part of this role's onboarding"))
	}
	if record.StepComplete(step) {
		return record, nil
	}
	if !policy.IsUnlocked(record, step) {
		return nil, s.traceErr(span, dErrors.New(dErrors.CodeOutOfOrderStep, "complete the previous step first"))
	}
	if step == models.StepQuiz {
		return nil, s.traceErr(span, dErrors.New(dErrors.CodeInvalidRequest, "the quiz completes by passing a graded submission"))
	}

	switch step {
	case models.StepProfile:
		record.ProfileCompleted = true
	case models.StepTraining:
		record.TrainingCompleted = true
		record.TrainingProgressPercent = 100
	case models.StepBankDetails:
		record.BankDetailsAdded = true
	case models.StepPaymentMethod:
		record.PaymentMethodAdded = true
	}
	completedGate := s.recompute(record)

	record, err = s.save(ctx, record)
	if err != nil {
		return record, s.traceErr(span, err)
	}

	s.metrics.IncrementStepCompleted(string(record.Role), string(step))
	s.emit(ctx, audit.Event{UserID: userID, Action: audit.ActionStepCompleted, Step: string(step)})
	if completedGate {
		s.metrics.IncrementOnboardingCompleted()
		s.emit(ctx, audit.Event{UserID: userID, Action: audit.ActionOnboardingCompleted})
	}
	s.logger.InfoContext(ctx, "onboarding step completed",
		"user_id", userID,
		"step", string(step),
		"onboarding_completed", record.OnboardingCompleted,
	)
	return record, nil
}

// RecordTrainingProgress advances the training progress percentage. Progress
// is monotonic non-decreasing; reaching 100 completes the training step and
// pins the percentage there.
func (s *Service) RecordTrainingProgress(ctx context.Context, userID id.UserID, percent int) (*models.ActivationRecord, error) {
	if percent < 0 || percent > 100 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "progress must be between 0 and 100")
	}

	record, err := s.Refresh(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !policy.Contains(record.Role, models.StepTraining) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "role has no training step")
	}
	if !policy.IsUnlocked(record, models.StepTraining) {
		return nil, dErrors.New(dErrors.CodeOutOfOrderStep, "complete the previous step first")
	}
	if record.TrainingCompleted || percent <= record.TrainingProgressPercent {
		return record, nil
	}

	record.TrainingProgressPercent = percent
	completedGate := false
	if percent == 100 {
		record.TrainingCompleted = true
		completedGate = s.recompute(record)
	}

	record, err = s.save(ctx, record)
	if err != nil {
		return record, err
	}

	if record.TrainingCompleted {
		s.metrics.IncrementStepCompleted(string(record.Role), string(models.StepTraining))
		s.emit(ctx, audit.Event{UserID: userID, Action: audit.ActionStepCompleted, Step: string(models.StepTraining)})
	}
	if completedGate {
		s.metrics.IncrementOnboardingCompleted()
		s.emit(ctx, audit.Event{UserID: userID, Action: audit.ActionOnboardingCompleted})
	}
	return record, nil
}

// SubmitQuizResult carries the grading outcome and the record it was applied to.
type SubmitQuizResult struct {
	Grade   *quizmodels.GradeResult
	Attempt models.QuizAttemptResult
	Record  *models.ActivationRecord
}

// SubmitQuiz grades the answer set against the bank and applies the outcome.
// The graded result and the pass flag land on the record in a single write;
// a grade is never partially applied. The raw answers are discarded.
func (s *Service) SubmitQuiz(ctx context.Context, userID id.UserID, quizID string, answers map[id.QuestionID]int) (*SubmitQuizResult, error) {
	ctx, span := s.tracer.Start(ctx, "activation.SubmitQuiz",
		trace.WithAttributes(attribute.String("quiz_id", quizID)))
	defer span.End()

	record, err := s.Refresh(ctx, userID)
	if err != nil {
		return nil, s.traceErr(span, err)
	}
	if !policy.Contains(record.Role, models.StepQuiz) {
		return nil, s.traceErr(span, dErrors.New(dErrors.CodeInvalidInput, "role has no quiz step"))
	}
	if record.QuizPassed {
		return nil, s.traceErr(span, dErrors.New(dErrors.CodeConflict, "quiz already passed; retry it first to attempt again"))
	}
	if !policy.IsUnlocked(record, models.StepQuiz) {
		return nil, s.traceErr(span, dErrors.New(dErrors.CodeOutOfOrderStep, "complete training before taking the quiz"))
	}

	bank, err := s.questions.Bank(ctx, quizID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, s.traceErr(span, dErrors.New(dErrors.CodeNotFound, "question bank not found"))
		}
		return nil, s.traceErr(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load question bank"))
	}

	grade, err := s.grader.Grade(bank, answers)
	if err != nil {
		return nil, s.traceErr(span, err)
	}

	attempt := models.QuizAttemptResult{
		AttemptID:   id.NewAttemptID(),
		Score:       grade.Score,
		Passed:      grade.Passed,
		AttemptedAt: requestcontext.Now(ctx),
	}
	record.LastQuizAttempt = &attempt
	record.QuizPassed = grade.Passed
	completedGate := s.recompute(record)

	record, err = s.save(ctx, record)
	if err != nil {
		return nil, s.traceErr(span, err)
	}

	s.metrics.IncrementQuizGraded(grade.Passed)
	s.emit(ctx, audit.Event{
		UserID: userID,
		Action: audit.ActionQuizGraded,
		Score:  grade.Score,
		Passed: grade.Passed,
	})
	if grade.Passed {
		s.metrics.IncrementStepCompleted(string(record.Role), string(models.StepQuiz))
		s.emit(ctx, audit.Event{UserID: userID, Action: audit.ActionStepCompleted, Step: string(models.StepQuiz)})
	}
	if completedGate {
		s.metrics.IncrementOnboardingCompleted()
		s.emit(ctx, audit.Event{UserID: userID, Action: audit.ActionOnboardingCompleted})
	}
	s.logger.InfoContext(ctx, "quiz graded",
		"user_id", userID,
		"quiz_id", quizID,
		"score", grade.Score,
		"passed", grade.Passed,
	)
	return &SubmitQuizResult{Grade: grade, Attempt: attempt, Record: record}, nil
}

// RetryQuiz resets the pass flag so the user can attempt the quiz again. It
// is the only path that sets QuizPassed back to false, and it is refused once
// a later step is complete because unsetting the quiz would break ordering.
func (s *Service) RetryQuiz(ctx context.Context, userID id.UserID) (*models.ActivationRecord, error) {
	record, err := s.Refresh(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !policy.Contains(record.Role, models.StepQuiz) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "role has no quiz step")
	}
	if !record.QuizPassed {
		return record, nil
	}
	if laterStepComplete(record, models.StepQuiz) {
		return nil, dErrors.New(dErrors.CodeConflict, "cannot retry the quiz after later steps are complete")
	}

	record.QuizPassed = false
	s.recompute(record)

	record, err = s.save(ctx, record)
	if err != nil {
		return record, err
	}

	s.emit(ctx, audit.Event{UserID: userID, Action: audit.ActionQuizRetried})
	s.logger.InfoContext(ctx, "quiz reset for retry", "user_id", userID)
	return record, nil
}

// recompute refreshes the derived OnboardingCompleted flag and reports
// whether this mutation flipped it to true.
func (s *Service) recompute(record *models.ActivationRecord) bool {
	was := record.OnboardingCompleted
	record.OnboardingCompleted = policy.AllComplete(record)
	return !was && record.OnboardingCompleted
}

// save persists the record against its loaded version. On a version conflict
// it refreshes and hands the fresh record back with a stale-record error so
// the caller can re-attempt against current state.
func (s *Service) save(ctx context.Context, record *models.ActivationRecord) (*models.ActivationRecord, error) {
	if err := s.records.Save(ctx, record, record.Version); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.IncrementStaleSaves()
			s.logger.WarnContext(ctx, "activation record changed underneath update",
				"user_id", record.UserID,
			)
			fresh, refreshErr := s.records.Get(ctx, record.UserID)
			if refreshErr != nil {
				fresh = nil
			}
			return fresh, dErrors.New(dErrors.CodeStaleRecord, "record changed underneath this update; please retry")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save activation record")
	}
	return record, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor != nil {
		s.auditor.Emit(ctx, event)
	}
}

func (s *Service) traceErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// laterStepComplete reports whether any step after the given one in the
// record's role order is already complete.
func laterStepComplete(record *models.ActivationRecord, step models.Step) bool {
	order := policy.Order(record.Role)
	seen := false
	for _, s := range order {
		if seen && record.StepComplete(s) {
			return true
		}
		if s == step {
			seen = true
		}
	}
	return false
}
