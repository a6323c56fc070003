package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	activation "taskgate/internal/activation/models"
	"taskgate/internal/audit"
	"taskgate/internal/identity/models"
	"taskgate/internal/platform/metrics"
	id "taskgate/pkg/domain"
	dErrors "taskgate/pkg/domain-errors"
	"taskgate/pkg/email"
	"taskgate/pkg/secrets"
	"taskgate/pkg/sentinel"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

// TokenIssuer mints signed access tokens for authenticated users.
type TokenIssuer interface {
	GenerateAccessToken(userID id.UserID, role string, expiresIn time.Duration) (string, error)
}

// ActivationInitializer creates the onboarding record for a new user. Every
// user has exactly one record from the moment the account exists.
type ActivationInitializer interface {
	Initialize(ctx context.Context, userID id.UserID, role activation.Role) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service handles signup and login. Passwords are stored only as bcrypt
// hashes; login failures are reported uniformly so the response does not
// reveal whether the email exists.
type Service struct {
	users       UserStore
	tokens      TokenIssuer
	activations ActivationInitializer
	tokenTTL    time.Duration

	logger  *slog.Logger
	auditor AuditPublisher
	metrics *metrics.Metrics
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

// New constructs a Service.
func New(users UserStore, tokens TokenIssuer, activations ActivationInitializer, tokenTTL time.Duration, opts ...Option) *Service {
	s := &Service{
		users:       users,
		tokens:      tokens,
		activations: activations,
		tokenTTL:    tokenTTL,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup registers a user, provisions their onboarding record, and returns
// the user with a fresh access token.
func (s *Service) Signup(ctx context.Context, emailAddr, password, roleStr string) (*models.User, string, error) {
	role, err := activation.ParseRole(roleStr)
	if err != nil {
		return nil, "", err
	}
	if len(password) < 8 {
		return nil, "", dErrors.New(dErrors.CodeInvalidInput, "password must be at least 8 characters")
	}

	hash, err := secrets.Hash(password)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user, err := models.NewUser(id.NewUserID(), emailAddr, role, hash, time.Now())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, "", dErrors.New(dErrors.CodeInvalidInput, "email must be a valid address")
		}
		return nil, "", err
	}
	user.FirstName, user.LastName = email.DeriveNameFromEmail(user.Email)

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, "", dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	if err := s.activations.Initialize(ctx, user.ID, role); err != nil {
		// The user exists but has no onboarding record yet. Initialize is
		// idempotent and runs again on login, so log loudly and continue.
		s.logger.ErrorContext(ctx, "failed to initialize activation record",
			"user_id", user.ID,
			"error", err,
		)
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, string(role), s.tokenTTL)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.metrics.IncrementUsersCreated()
	s.emit(ctx, user.ID, audit.ActionUserSignedUp)
	s.logger.InfoContext(ctx, "user signed up",
		"user_id", user.ID,
		"role", string(role),
	)
	return user, token, nil
}

// Login authenticates by email and password and returns a fresh access token.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (*models.User, string, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	user, err := s.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, "", dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	if err := secrets.Verify(password, user.PasswordHash); err != nil {
		return nil, "", dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	// Self-heal a missing onboarding record; Initialize is idempotent.
	if err := s.activations.Initialize(ctx, user.ID, user.Role); err != nil {
		s.logger.ErrorContext(ctx, "failed to initialize activation record",
			"user_id", user.ID,
			"error", err,
		)
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, string(user.Role), s.tokenTTL)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.emit(ctx, user.ID, audit.ActionUserLoggedIn)
	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return user, token, nil
}

// GetUser loads a user by ID.
func (s *Service) GetUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user, nil
}

func (s *Service) emit(ctx context.Context, userID id.UserID, action audit.Action) {
	if s.auditor != nil {
		s.auditor.Emit(ctx, audit.Event{UserID: userID, Action: action})
	}
}
