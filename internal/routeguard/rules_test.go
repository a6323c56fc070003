package routeguard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskgate/internal/activation/models"
	id "taskgate/pkg/domain"
)

func doerRecord(mutate func(*models.ActivationRecord)) *models.ActivationRecord {
	record := models.NewRecord(id.NewUserID(), models.RoleDoer)
	if mutate != nil {
		mutate(record)
	}
	return record
}

func somePrincipal() *Principal {
	return &Principal{UserID: id.NewUserID(), Role: models.RoleDoer}
}

func TestClassify(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		path string
		want Class
	}{
		{"/healthz", ClassPublic},
		{"/metrics", ClassPublic},
		{"/login", ClassAuthOnly},
		{"/auth/signup", ClassAuthOnly},
		{"/onboarding", ClassOnboarding},
		{"/onboarding/quiz", ClassOnboarding},
		{"/onboarding/", ClassOnboarding},
		{"/dashboard", ClassProtected},
		{"/tasks", ClassProtected},
		{"/tasks/42", ClassProtected},
		// Unlisted paths fail closed.
		{"/totally/unknown", ClassProtected},
		{"/onboardingx", ClassProtected},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Classify(tt.path))
		})
	}
}

func TestDecide(t *testing.T) {
	table := DefaultTable()

	t.Run("public routes allow unconditionally", func(t *testing.T) {
		d := Decide(table, Input{Target: "/healthz"})
		assert.True(t, d.Allow)
	})

	t.Run("unauthenticated protected target redirects to login", func(t *testing.T) {
		d := Decide(table, Input{Target: "/dashboard"})
		require.False(t, d.Allow)
		assert.Equal(t, RouteLogin, d.RedirectTo)
	})

	t.Run("unauthenticated onboarding target redirects to login", func(t *testing.T) {
		d := Decide(table, Input{Target: "/onboarding/profile"})
		require.False(t, d.Allow)
		assert.Equal(t, RouteLogin, d.RedirectTo)
	})

	t.Run("unauthenticated login page is allowed", func(t *testing.T) {
		d := Decide(table, Input{Target: "/login"})
		assert.True(t, d.Allow)
	})

	t.Run("incomplete onboarding redirects protected target to current step", func(t *testing.T) {
		record := doerRecord(func(r *models.ActivationRecord) {
			r.ProfileCompleted = true
			r.TrainingCompleted = true
			r.TrainingProgressPercent = 100
		})
		d := Decide(table, Input{Principal: somePrincipal(), Record: record, Target: "/dashboard"})
		require.False(t, d.Allow)
		assert.Equal(t, "/onboarding/quiz", d.RedirectTo)
	})

	t.Run("finished gate redirects login page to home", func(t *testing.T) {
		record := doerRecord(func(r *models.ActivationRecord) {
			r.ProfileCompleted = true
			r.TrainingCompleted = true
			r.QuizPassed = true
			r.BankDetailsAdded = true
			r.OnboardingCompleted = true
		})
		d := Decide(table, Input{Principal: somePrincipal(), Record: record, Target: "/login"})
		require.False(t, d.Allow)
		assert.Equal(t, RouteHome, d.RedirectTo)
	})

	t.Run("authenticated but not onboarded login page redirects to current step", func(t *testing.T) {
		record := doerRecord(func(r *models.ActivationRecord) {
			r.ProfileCompleted = true
		})
		d := Decide(table, Input{Principal: somePrincipal(), Record: record, Target: "/login"})
		require.False(t, d.Allow)
		assert.Equal(t, "/onboarding/training", d.RedirectTo)
	})

	t.Run("finished gate cannot be re-entered", func(t *testing.T) {
		record := doerRecord(func(r *models.ActivationRecord) {
			r.ProfileCompleted = true
			r.TrainingCompleted = true
			r.QuizPassed = true
			r.BankDetailsAdded = true
			r.OnboardingCompleted = true
		})
		d := Decide(table, Input{Principal: somePrincipal(), Record: record, Target: "/onboarding/quiz"})
		require.False(t, d.Allow)
		assert.Equal(t, RouteHome, d.RedirectTo)
	})

	t.Run("onboarding routes allow while incomplete", func(t *testing.T) {
		record := doerRecord(nil)
		d := Decide(table, Input{Principal: somePrincipal(), Record: record, Target: "/onboarding/bank_details"})
		assert.True(t, d.Allow, "the state machine, not the guard, enforces step order")
	})

	t.Run("fully activated protected target allows", func(t *testing.T) {
		record := doerRecord(func(r *models.ActivationRecord) {
			r.ProfileCompleted = true
			r.TrainingCompleted = true
			r.QuizPassed = true
			r.BankDetailsAdded = true
			r.OnboardingCompleted = true
		})
		d := Decide(table, Input{Principal: somePrincipal(), Record: record, Target: "/dashboard"})
		assert.True(t, d.Allow)
	})

	t.Run("fetch failure degrades to not onboarded", func(t *testing.T) {
		d := Decide(table, Input{Principal: somePrincipal(), FetchFailed: true, Target: "/dashboard"})
		require.False(t, d.Allow)
		assert.Equal(t, RouteOnboardingEntry, d.RedirectTo)
	})

	t.Run("missing record redirects protected target to onboarding entry", func(t *testing.T) {
		d := Decide(table, Input{Principal: somePrincipal(), Target: "/dashboard"})
		require.False(t, d.Allow)
		assert.Equal(t, RouteOnboardingEntry, d.RedirectTo)
	})

	t.Run("decisions are idempotent for equal inputs", func(t *testing.T) {
		record := doerRecord(func(r *models.ActivationRecord) {
			r.ProfileCompleted = true
		})
		in := Input{Principal: somePrincipal(), Record: record, Target: "/dashboard"}
		first := Decide(table, in)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Decide(table, in))
		}
	})
}

func TestBypassGatePolicy(t *testing.T) {
	policy := NewBypassGatePolicy()

	t.Run("allows protected routes without a principal", func(t *testing.T) {
		d := policy.Decide(Input{Target: "/dashboard"})
		assert.True(t, d.Allow)
	})

	t.Run("still redirects the login page home", func(t *testing.T) {
		d := policy.Decide(Input{Target: "/login"})
		require.False(t, d.Allow)
		assert.Equal(t, RouteHome, d.RedirectTo)
	})

	t.Run("still redirects the onboarding entry home", func(t *testing.T) {
		d := policy.Decide(Input{Target: "/onboarding"})
		require.False(t, d.Allow)
		assert.Equal(t, RouteHome, d.RedirectTo)
	})

	t.Run("allows onboarding sub-steps", func(t *testing.T) {
		d := policy.Decide(Input{Target: "/onboarding/quiz"})
		assert.True(t, d.Allow)
	})
}
