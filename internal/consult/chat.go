package consult

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/healthport/kiosk/internal/llm"
	"github.com/healthport/kiosk/internal/session"
)

// ErrConversationOver is returned by the scripted assistant once it has
// nothing left to ask.
var ErrConversationOver = errors.New("conversation complete")

// Responder produces the assistant's next message from the transcript so far.
type Responder interface {
	Reply(ctx context.Context, history []session.Message) (string, error)
}

// Greeting opens every text conversation.
func Greeting(name string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hello %s, I'm your AI medical assistant. I'll be asking you some questions about your symptoms to help provide a preliminary assessment. How can I help you today?", name)
}

// Chat answers through a chat-completion model, primed with the visit.
type Chat struct {
	client llm.Chatter
	system string
}

func NewChat(client llm.Chatter, st session.State) *Chat {
	return &Chat{client: client, system: SystemPrompt(st)}
}

// SystemPrompt describes the patient to the model.
func SystemPrompt(st session.State) string {
	var b strings.Builder
	b.WriteString("You are a friendly medical assistant at a self-service health kiosk. ")
	b.WriteString("Ask one short question at a time about the patient's symptoms. ")
	b.WriteString("After four or five questions give a brief preliminary assessment and say the consultation is complete. ")
	b.WriteString("Never claim to be a doctor.\n\nPatient:\n")
	for _, line := range PatientLines(st) {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// PatientLines summarises identity, vitals and symptoms, skipping what was
// not collected.
func PatientLines(st session.State) []string {
	id, bio, hm := st.Identity, st.Biometrics, st.HealthMetrics
	var lines []string
	if id.Name != "" {
		lines = append(lines, "Name: "+id.Name)
	}
	if id.Age > 0 {
		lines = append(lines, fmt.Sprintf("Age: %d", id.Age))
	}
	if id.Gender != "" {
		lines = append(lines, "Gender: "+id.Gender)
	}
	if bio.BMI > 0 {
		lines = append(lines, fmt.Sprintf("BMI: %.1f (%s)", bio.BMI, hm.BMICategory))
	}
	if bio.Temperature > 0 {
		lines = append(lines, fmt.Sprintf("Temperature: %.1f °C (%s)", bio.Temperature, hm.TemperatureStatus))
	}
	if bio.SpO2 > 0 {
		lines = append(lines, fmt.Sprintf("SpO2: %d%% (%s)", bio.SpO2, hm.SpO2Status))
	}
	if bio.HeartRate > 0 {
		lines = append(lines, fmt.Sprintf("Heart rate: %d bpm (%s)", bio.HeartRate, hm.HeartRateStatus))
	}
	if bio.BloodPressure.Systolic > 0 {
		lines = append(lines, fmt.Sprintf("Blood pressure: %d/%d mmHg (%s)", bio.BloodPressure.Systolic, bio.BloodPressure.Diastolic, hm.BloodPressureStatus))
	}
	if len(st.Symptoms.PainAreas) > 0 {
		lines = append(lines, "Pain areas: "+strings.Join(st.Symptoms.PainAreas, ", "))
	}
	if st.Symptoms.Description != "" {
		lines = append(lines, "Symptoms: "+st.Symptoms.Description)
	}
	return lines
}

func (c *Chat) Reply(ctx context.Context, history []session.Message) (string, error) {
	msgs := make([]llm.Message, 0, len(history)+1)
	msgs = append(msgs, llm.Message{Role: "system", Content: c.system})
	for _, m := range history {
		msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
	}
	reply, err := c.client.Chat(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

var scriptedResponses = []string{
	"I understand. Can you tell me more about these headaches? Are they on a specific side of your head, and have you noticed anything that makes them better or worse?",
	"Thank you for that information. Have you been experiencing any other symptoms along with the headaches and dizziness, such as fatigue, nausea, or vision changes?",
	"I see. Have you taken any medication for these symptoms, and if so, did it provide any relief?",
	"Do you have any history of migraines, head injuries, or similar headaches in the past?",
	"Based on the information you've provided, your symptoms are consistent with tension headaches, possibly with some migraine features. I recommend taking regular breaks from screens, staying hydrated, and practicing stress-reduction techniques. If symptoms persist or worsen, a consultation with a healthcare provider would be advisable.",
}

// SuggestedReplies are offered as quick answers by the scripted assistant.
var SuggestedReplies = []string{
	"I've been having headaches and feeling dizzy for the past few days.",
	"The pain is mostly on the right side of my head and gets worse when I stand up quickly.",
	"Yes, I've been feeling more tired than usual and having trouble sleeping.",
	"I took some over-the-counter pain medication but it only helps temporarily.",
	"No, I don't have any history of migraines or head injuries.",
}

// Scripted is the offline assistant: it answers the n-th patient message
// with the n-th canned question.
type Scripted struct{}

func (Scripted) Reply(_ context.Context, history []session.Message) (string, error) {
	turns := 0
	for _, m := range history {
		if m.Role == RoleUser {
			turns++
		}
	}
	if turns == 0 || turns > len(scriptedResponses) {
		return "", ErrConversationOver
	}
	return scriptedResponses[turns-1], nil
}

// ScriptLength is how many patient messages the scripted assistant answers.
func ScriptLength() int {
	return len(scriptedResponses)
}
