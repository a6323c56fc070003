package routeguard

import (
	"taskgate/internal/activation/models"
	id "taskgate/pkg/domain"
)

// Principal is an authenticated identity, independent of onboarding progress.
type Principal struct {
	UserID id.UserID
	Role   models.Role
}

// Input is everything a guard decision depends on. The guard takes these as
// plain arguments rather than reading ambient state so decisions are
// deterministic and unit-testable.
type Input struct {
	// Principal is nil for unauthenticated requests.
	Principal *Principal

	// Record is the principal's activation record snapshot; nil when there is
	// no principal, the record is missing, or the fetch failed.
	Record *models.ActivationRecord

	// FetchFailed marks a record fetch that errored. The decision degrades
	// to the most restrictive outcome instead of granting access.
	FetchFailed bool

	// Target is the requested path.
	Target string
}

// Decision is the guard outcome: allow the request or redirect it.
type Decision struct {
	Allow      bool
	RedirectTo string

	// Reason names the rule that produced the decision, for logs and audit.
	Reason string
}

func allow(reason string) Decision {
	return Decision{Allow: true, Reason: reason}
}

func redirect(target, reason string) Decision {
	return Decision{RedirectTo: target, Reason: reason}
}

// Decide classifies the target and evaluates the guard rules in fixed
// priority order. The order matters: categories are not mutually exclusive
// in practice (the login page while already authenticated, a finished gate's
// onboarding route). Decide is a pure function: equal inputs produce equal
// decisions.
func Decide(table *Table, in Input) Decision {
	class := table.Classify(in.Target)

	if class == ClassPublic {
		return allow("public route")
	}

	if in.Principal == nil {
		if class == ClassProtected || class == ClassOnboarding {
			return redirect(RouteLogin, "unauthenticated")
		}
		return allow("auth route without principal")
	}

	// A failed fetch must never grant access; treat the user as not yet
	// onboarded and let the next navigation retry the fetch.
	completed := !in.FetchFailed && in.Record != nil && in.Record.OnboardingCompleted

	switch class {
	case ClassAuthOnly:
		if completed {
			return redirect(RouteHome, "authenticated on auth-only route")
		}
		return redirect(currentStepRoute(in.Record), "authenticated but not onboarded on auth-only route")
	case ClassOnboarding:
		if completed {
			return redirect(RouteHome, "gate already finished")
		}
		// The state machine, not the guard, enforces ordering within
		// onboarding.
		return allow("onboarding in progress")
	case ClassProtected:
		if !completed {
			return redirect(currentStepRoute(in.Record), "onboarding incomplete")
		}
	}
	return allow("fully activated")
}
