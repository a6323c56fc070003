package source

import (
	id "taskgate/pkg/domain"

	"taskgate/internal/quiz/models"
)

// DefaultDoerQuizID is the bank served to doers when no content database is
// configured.
const DefaultDoerQuizID = "doer-onboarding"

// DefaultDoerBank returns the built-in doer onboarding quiz. It exists so a
// local server without a content database still runs the full activation
// flow; production deployments load banks from PostgreSQL instead.
func DefaultDoerBank() *models.Bank {
	prompts := []struct {
		prompt      string
		options     [models.OptionsPerQuestion]string
		correct     int
		explanation string
	}{
		{
			prompt:      "A task deadline has passed and the work is unfinished. What do you do first?",
			options:     [4]string{"Mark the task complete", "Message the client through the platform", "Delete the task", "Wait for the client to notice"},
			correct:     1,
			explanation: "Always communicate delays through the platform before anything else.",
		},
		{
			prompt:      "Where must payment for a completed task be settled?",
			options:     [4]string{"Cash on delivery", "Any payment app", "Through the platform", "Bank transfer arranged privately"},
			correct:     2,
			explanation: "Off-platform settlement voids the payment protection.",
		},
		{
			prompt:      "A client asks for your personal phone number before accepting a task. You should",
			options:     [4]string{"Share it to build trust", "Decline and keep contact in-app", "Share a relative's number", "Ask them for theirs first"},
			correct:     1,
			explanation: "Contact details stay in-app until a task is accepted.",
		},
		{
			prompt:      "You arrive and the job differs from its description. The correct move is to",
			options:     [4]string{"Do the different job anyway", "Leave without a word", "Request a scope update in-app before starting", "Demand extra cash on the spot"},
			correct:     2,
			explanation: "Scope changes must be agreed in-app so both sides are covered.",
		},
		{
			prompt:      "How soon should you respond to a task offer?",
			options:     [4]string{"Within the response window shown on the offer", "Whenever convenient", "Only if the pay is high", "After comparing other offers for a week"},
			correct:     0,
			explanation: "Offers expire at the end of their response window.",
		},
		{
			prompt:      "What does your reliability score reflect?",
			options:     [4]string{"Only client star ratings", "Completed tasks, punctuality, and cancellations", "How long your profile text is", "Your quiz score"},
			correct:     1,
			explanation: "Reliability blends completion, punctuality, and cancellation history.",
		},
		{
			prompt:      "You need to cancel an accepted task. You should cancel",
			options:     [4]string{"As early as possible, in-app, with a reason", "By not showing up", "Only after the start time", "By asking the client to cancel instead"},
			correct:     0,
			explanation: "Early in-app cancellation limits the reliability penalty.",
		},
		{
			prompt:      "A client disputes the hours you logged. The dispute is resolved by",
			options:     [4]string{"Whoever argues longest", "The platform's resolution process", "Splitting the difference privately", "Deleting the task record"},
			correct:     1,
			explanation: "Disputes go through resolution; never settle them off the record.",
		},
		{
			prompt:      "Which equipment statement is true?",
			options:     [4]string{"Clients always provide tools", "Listed tool requirements are part of the task contract", "Tools are optional", "The platform ships tools to you"},
			correct:     1,
			explanation: "If the listing names tools, bringing them is contractual.",
		},
		{
			prompt:      "Your bank details are used for",
			options:     [4]string{"Identity verification only", "Receiving payouts", "Client background checks", "Nothing until you opt in"},
			correct:     1,
			explanation: "Payouts go to the account captured during onboarding.",
		},
	}

	questions := make([]models.Question, 0, len(prompts))
	for i, p := range prompts {
		questions = append(questions, models.Question{
			ID:                 id.NewQuestionID(),
			Prompt:             p.prompt,
			Options:            p.options[:],
			CorrectOptionIndex: p.correct,
			Explanation:        p.explanation,
			OrderIndex:         i,
		})
	}
	return &models.Bank{QuizID: DefaultDoerQuizID, Questions: questions}
}
