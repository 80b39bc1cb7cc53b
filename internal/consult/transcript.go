// Package consult runs the AI consultation: the live transcript, the voice
// session, the text chat fallbacks and the final assessment.
package consult

import (
	"strings"
	"sync"

	"github.com/healthport/kiosk/internal/session"
)

const (
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// Transcript accumulates final utterances. Consecutive messages from the
// same speaker are merged into one bubble.
type Transcript struct {
	mu       sync.Mutex
	messages []session.Message
}

// Add appends content for role, merging into the last message when the
// speaker has not changed. Empty content is ignored.
func (t *Transcript) Add(role, content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	role = normalizeRole(role)

	t.mu.Lock()
	defer t.mu.Unlock()

	if n := len(t.messages); n > 0 && t.messages[n-1].Role == role {
		t.messages[n-1].Content += " " + content
		return
	}
	t.messages = append(t.messages, session.Message{Role: role, Content: content})
}

// Messages returns a copy of the transcript.
func (t *Transcript) Messages() []session.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]session.Message(nil), t.messages...)
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// UserTurns counts messages spoken by the patient.
func (t *Transcript) UserTurns() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, m := range t.messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

func normalizeRole(role string) string {
	switch strings.ToLower(role) {
	case "assistant", "ai", "bot", "model":
		return RoleAssistant
	default:
		return RoleUser
	}
}
