package consult

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/healthport/kiosk/internal/llm"
	"github.com/healthport/kiosk/internal/session"
)

// ErrMalformedAssessment means the model's assessment did not match the schema.
var ErrMalformedAssessment = errors.New("malformed assessment")

// Assessment is the structured outcome of the conversation.
type Assessment struct {
	Summary         string   `json:"summary" validate:"required"`
	Recommendations []string `json:"recommendations" validate:"required,min=1,max=8,dive,required"`
	Condition       string   `json:"condition" validate:"required"`
	Severity        string   `json:"severity" validate:"required"`
	NextStep        string   `json:"nextStep" validate:"required"`
}

var validate = validator.New()

const assessmentPrompt = `Summarise the consultation above as JSON with exactly these keys: ` +
	`"summary" (two sentences), "recommendations" (array of short strings), "condition", ` +
	`"severity" (low, medium or high) and "nextStep" (consultation, medication, selfCare or referral). ` +
	`Respond with the JSON only.`

// DefaultRecommendations are stored when no assessment can be produced.
var DefaultRecommendations = []string{
	"Symptoms consistent with tension headaches with possible migraine features",
	"Take regular breaks from screens",
	"Stay hydrated",
	"Practice stress-reduction techniques",
	"Consult healthcare provider if symptoms persist or worsen",
}

// DefaultAssessment is the fallback outcome, keeping whatever summary the
// call produced.
func DefaultAssessment(summary string) Assessment {
	return Assessment{
		Summary:         summary,
		Recommendations: append([]string(nil), DefaultRecommendations...),
		Condition:       "Tension Headache with Migraine Features",
		Severity:        string(session.SeverityMedium),
		NextStep:        string(session.NextStepMedication),
	}
}

// ParseAssessment validates a model answer.
func ParseAssessment(text string) (Assessment, error) {
	var a Assessment
	if err := json.Unmarshal([]byte(llm.StripFences(text)), &a); err != nil {
		return Assessment{}, fmt.Errorf("%w: %v", ErrMalformedAssessment, err)
	}
	if err := validate.Struct(a); err != nil {
		return Assessment{}, fmt.Errorf("%w: %v", ErrMalformedAssessment, err)
	}
	if _, err := session.ParseSeverity(a.Severity); err != nil {
		return Assessment{}, fmt.Errorf("%w: %v", ErrMalformedAssessment, err)
	}
	if _, err := session.ParseNextStep(a.NextStep); err != nil {
		return Assessment{}, fmt.Errorf("%w: %v", ErrMalformedAssessment, err)
	}
	return a, nil
}

// Assess asks the model to assess the transcript. A nil client yields the
// default assessment.
func Assess(ctx context.Context, client llm.Chatter, history []session.Message) (Assessment, error) {
	if client == nil {
		return DefaultAssessment(""), nil
	}

	msgs := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, llm.Message{Role: "user", Content: assessmentPrompt})

	answer, err := client.Chat(ctx, msgs)
	if err != nil {
		return Assessment{}, fmt.Errorf("assess: %w", err)
	}
	return ParseAssessment(answer)
}

// Apply stores the conversation and diagnosis. The transcript is kept with
// the conversation.
func (a Assessment) Apply(store *session.Store, transcript []session.Message) {
	severity, _ := session.ParseSeverity(a.Severity)
	next, _ := session.ParseNextStep(a.NextStep)

	store.SetConversation(session.Conversation{
		Summary:         strings.TrimSpace(a.Summary),
		Recommendations: append([]string(nil), a.Recommendations...),
		Transcript:      append([]session.Message(nil), transcript...),
	})
	store.UpdateDiagnosis(func(d *session.Diagnosis) {
		d.Condition = a.Condition
		d.Severity = severity
		d.NextStep = next
	})
}
