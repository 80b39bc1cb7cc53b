// Package notify announces completed visits on the NATS bus.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/healthport/kiosk/internal/session"
)

// VisitCompleted is published when a patient leaves the kiosk.
type VisitCompleted struct {
	VisitID       string    `json:"visit_id"`
	CompletedAt   time.Time `json:"completed_at"`
	Language      string    `json:"language"`
	OverallHealth string    `json:"overall_health"`
	Condition     string    `json:"condition"`
	Severity      string    `json:"severity"`
	NextStep      string    `json:"next_step"`
	PainAreas     []string  `json:"pain_areas"`
	Rating        int       `json:"rating"`
	Comments      string    `json:"comments,omitempty"`
}

// NewVisitCompleted builds the event from the final visit state. No
// identity fields leave the kiosk.
func NewVisitCompleted(st session.State, now time.Time) VisitCompleted {
	pain := make([]string, len(st.Symptoms.PainAreas))
	copy(pain, st.Symptoms.PainAreas)
	return VisitCompleted{
		VisitID:       st.VisitID,
		CompletedAt:   now.UTC(),
		Language:      string(st.Identity.Language),
		OverallHealth: st.HealthMetrics.OverallHealth.String(),
		Condition:     st.Diagnosis.Condition,
		Severity:      string(st.Diagnosis.Severity),
		NextStep:      string(st.Diagnosis.NextStep),
		PainAreas:     pain,
		Rating:        st.Feedback.Rating,
		Comments:      st.Feedback.Comments,
	}
}

// Publisher sends visit events.
type Publisher interface {
	Publish(ctx context.Context, ev VisitCompleted) error
	Close()
}

// New connects to url. An empty url disables publishing.
func New(url, subject string) (Publisher, error) {
	if url == "" {
		return Nop{}, nil
	}
	return NewNATSPublisher(url, subject)
}

// NATSPublisher publishes JSON events on a subject.
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
}

func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("healthport-kiosk"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{nc: nc, subject: subject}, nil
}

// Publish sends ev and flushes so delivery errors surface before the
// kiosk resets.
func (p *NATSPublisher) Publish(ctx context.Context, ev VisitCompleted) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", p.subject, err)
	}
	if err := p.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush %s: %w", p.subject, err)
	}
	return nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, VisitCompleted) error { return nil }

func (Nop) Close() {}
