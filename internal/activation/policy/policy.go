// Package policy defines step ordering and unlock rules for the onboarding
// gate. This is pure domain logic - no I/O, no side effects. Everything is
// derived from the record snapshot passed in.
package policy

import (
	"taskgate/internal/activation/models"
)

// Role step tables. Roles differ only in membership and order; the unlock
// rule below is the same for every role.
var stepOrders = map[models.Role][]models.Step{
	models.RoleDoer: {
		models.StepProfile,
		models.StepTraining,
		models.StepQuiz,
		models.StepBankDetails,
	},
	models.RoleClient: {
		models.StepProfile,
		models.StepPaymentMethod,
	},
}

// Order returns the required steps for a role, in completion order.
// The returned slice is a copy; callers may not mutate the tables.
func Order(role models.Role) []models.Step {
	steps := stepOrders[role]
	out := make([]models.Step, len(steps))
	copy(out, steps)
	return out
}

// Contains reports whether step is part of the role's table at all.
func Contains(role models.Role, step models.Step) bool {
	return indexOf(role, step) >= 0
}

// IsComplete reports whether the step's completion flag is set on the record.
func IsComplete(record *models.ActivationRecord, step models.Step) bool {
	if record == nil {
		return false
	}
	return record.StepComplete(step)
}

// IsUnlocked reports whether the step may be attempted. The first step is
// always unlocked for an authenticated principal; step i (i>0) is unlocked
// iff step i-1 is complete. This is the single rule shared by every role.
func IsUnlocked(record *models.ActivationRecord, step models.Step) bool {
	if record == nil {
		return false
	}
	i := indexOf(record.Role, step)
	if i < 0 {
		return false
	}
	if i == 0 {
		return true
	}
	return IsComplete(record, stepOrders[record.Role][i-1])
}

// FirstIncomplete returns the earliest step not yet complete. ok is false when
// every required step is complete (the fully-activated sentinel).
func FirstIncomplete(record *models.ActivationRecord) (step models.Step, ok bool) {
	if record == nil {
		return "", false
	}
	for _, s := range stepOrders[record.Role] {
		if !IsComplete(record, s) {
			return s, true
		}
	}
	return "", false
}

// AllComplete reports whether every required step flag for the role is true.
// The state machine uses this to recompute OnboardingCompleted on mutation.
func AllComplete(record *models.ActivationRecord) bool {
	if record == nil {
		return false
	}
	_, incomplete := FirstIncomplete(record)
	return !incomplete
}

// Ordered reports whether the record satisfies the ordering invariant: every
// complete step has all strictly-preceding steps complete.
func Ordered(record *models.ActivationRecord) bool {
	if record == nil {
		return true
	}
	seenIncomplete := false
	for _, s := range stepOrders[record.Role] {
		if IsComplete(record, s) {
			if seenIncomplete {
				return false
			}
		} else {
			seenIncomplete = true
		}
	}
	return true
}

func indexOf(role models.Role, step models.Step) int {
	for i, s := range stepOrders[role] {
		if s == step {
			return i
		}
	}
	return -1
}
