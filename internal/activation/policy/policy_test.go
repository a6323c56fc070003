package policy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskgate/internal/activation/models"
	id "taskgate/pkg/domain"
)

func newDoerRecord() *models.ActivationRecord {
	return models.NewRecord(id.NewUserID(), models.RoleDoer)
}

func TestOrder(t *testing.T) {
	t.Run("doer table", func(t *testing.T) {
		assert.Equal(t, []models.Step{
			models.StepProfile,
			models.StepTraining,
			models.StepQuiz,
			models.StepBankDetails,
		}, Order(models.RoleDoer))
	})

	t.Run("client table", func(t *testing.T) {
		assert.Equal(t, []models.Step{
			models.StepProfile,
			models.StepPaymentMethod,
		}, Order(models.RoleClient))
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		steps := Order(models.RoleDoer)
		steps[0] = models.StepQuiz
		assert.Equal(t, models.StepProfile, Order(models.RoleDoer)[0])
	})
}

func TestIsUnlocked(t *testing.T) {
	t.Run("first step always unlocked", func(t *testing.T) {
		assert.True(t, IsUnlocked(newDoerRecord(), models.StepProfile))
	})

	t.Run("later steps locked until predecessor complete", func(t *testing.T) {
		record := newDoerRecord()
		assert.False(t, IsUnlocked(record, models.StepTraining))
		assert.False(t, IsUnlocked(record, models.StepQuiz))
		assert.False(t, IsUnlocked(record, models.StepBankDetails))

		record.ProfileCompleted = true
		assert.True(t, IsUnlocked(record, models.StepTraining))
		assert.False(t, IsUnlocked(record, models.StepQuiz))

		record.TrainingCompleted = true
		assert.True(t, IsUnlocked(record, models.StepQuiz))
	})

	t.Run("steps outside the role table are never unlocked", func(t *testing.T) {
		record := models.NewRecord(id.NewUserID(), models.RoleClient)
		record.ProfileCompleted = true
		assert.False(t, IsUnlocked(record, models.StepTraining))
		assert.False(t, IsUnlocked(record, models.StepBankDetails))
		assert.True(t, IsUnlocked(record, models.StepPaymentMethod))
	})

	t.Run("nil record", func(t *testing.T) {
		assert.False(t, IsUnlocked(nil, models.StepProfile))
	})
}

func TestFirstIncomplete(t *testing.T) {
	record := newDoerRecord()

	step, ok := FirstIncomplete(record)
	require.True(t, ok)
	assert.Equal(t, models.StepProfile, step)

	record.ProfileCompleted = true
	record.TrainingCompleted = true
	step, ok = FirstIncomplete(record)
	require.True(t, ok)
	assert.Equal(t, models.StepQuiz, step)

	record.QuizPassed = true
	record.BankDetailsAdded = true
	_, ok = FirstIncomplete(record)
	assert.False(t, ok, "fully complete record has no incomplete step")
	assert.True(t, AllComplete(record))
}

// TestOrdered_Property generates random completion flag combinations and
// asserts Ordered agrees with a direct check of the invariant: if step i is
// complete then all steps j<i are complete.
func TestOrdered_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for range 500 {
		record := newDoerRecord()
		record.ProfileCompleted = rng.Intn(2) == 0
		record.TrainingCompleted = rng.Intn(2) == 0
		record.QuizPassed = rng.Intn(2) == 0
		record.BankDetailsAdded = rng.Intn(2) == 0

		steps := Order(models.RoleDoer)
		want := true
		for i, s := range steps {
			if !IsComplete(record, s) {
				continue
			}
			for _, prev := range steps[:i] {
				if !IsComplete(record, prev) {
					want = false
				}
			}
		}
		assert.Equal(t, want, Ordered(record),
			"flags: profile=%v training=%v quiz=%v bank=%v",
			record.ProfileCompleted, record.TrainingCompleted,
			record.QuizPassed, record.BankDetailsAdded)
	}
}
