package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	activation "taskgate/internal/activation/models"
	"taskgate/internal/identity/models"
	id "taskgate/pkg/domain"
	dErrors "taskgate/pkg/domain-errors"
	"taskgate/pkg/testutil"
)

type stubService struct {
	signupErr error
	loginErr  error
	user      *models.User
	token     string
}

func (s *stubService) Signup(_ context.Context, email, password, role string) (*models.User, string, error) {
	if s.signupErr != nil {
		return nil, "", s.signupErr
	}
	return s.user, s.token, nil
}

func (s *stubService) Login(_ context.Context, email, password string) (*models.User, string, error) {
	if s.loginErr != nil {
		return nil, "", s.loginErr
	}
	return s.user, s.token, nil
}

func newRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	New(svc, nil).Register(r)
	return r
}

func testUser() *models.User {
	return &models.User{
		ID:        id.NewUserID(),
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "User",
		Role:      activation.RoleDoer,
	}
}

func TestHandleSignup(t *testing.T) {
	t.Run("returns 201 with user and token", func(t *testing.T) {
		user := testUser()
		router := newRouter(&stubService{user: user, token: "tok-1"})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/signup", SignupRequest{
			Email:    "jane@example.com",
			Password: "s3cret-pass",
			Role:     "doer",
		})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[AuthResponse](t, rr)
		assert.Equal(t, user.ID.String(), resp.User.ID)
		assert.Equal(t, "tok-1", resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
	})

	t.Run("rejects missing email", func(t *testing.T) {
		router := newRouter(&stubService{})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/signup", SignupRequest{
			Password: "s3cret-pass",
			Role:     "doer",
		})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		testutil.AssertErrorCode(t, rr, string(dErrors.CodeBadRequest))
	})

	t.Run("maps duplicate email to 409", func(t *testing.T) {
		router := newRouter(&stubService{
			signupErr: dErrors.New(dErrors.CodeConflict, "email is already registered"),
		})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/signup", SignupRequest{
			Email:    "dup@example.com",
			Password: "s3cret-pass",
			Role:     "doer",
		})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusConflict)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		router := newRouter(&stubService{})

		req := testutil.NewRequest(t, http.MethodPost, "/auth/signup")
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestHandleLogin(t *testing.T) {
	t.Run("returns 200 with token", func(t *testing.T) {
		user := testUser()
		router := newRouter(&stubService{user: user, token: "tok-2"})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", LoginRequest{
			Email:    "jane@example.com",
			Password: "s3cret-pass",
		})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[AuthResponse](t, rr)
		require.Equal(t, "tok-2", resp.AccessToken)
	})

	t.Run("maps bad credentials to 401", func(t *testing.T) {
		router := newRouter(&stubService{
			loginErr: dErrors.New(dErrors.CodeUnauthorized, "invalid email or password"),
		})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", LoginRequest{
			Email:    "jane@example.com",
			Password: "wrong",
		})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		testutil.AssertErrorCode(t, rr, string(dErrors.CodeUnauthorized))
	})
}
