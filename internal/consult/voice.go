package consult

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fasthttp/websocket"

	"github.com/healthport/kiosk/internal/session"
	"github.com/healthport/kiosk/internal/vitals"
)

// ErrVoiceUnavailable is returned when no voice endpoint is configured or
// the endpoint cannot be reached.
var ErrVoiceUnavailable = errors.New("voice assistant unavailable")

// EventType names the voice session events.
type EventType string

const (
	EventCallStart   EventType = "call-start"
	EventCallEnd     EventType = "call-end"
	EventSpeechStart EventType = "speech-start"
	EventSpeechEnd   EventType = "speech-end"
	EventVolumeLevel EventType = "volume-level"
	EventMessage     EventType = "message"
	EventError       EventType = "error"
)

// Event is one decoded voice session event. Only the fields relevant to
// Type are set.
type Event struct {
	Type       EventType
	Role       string
	Transcript string
	Final      bool
	Summary    string
	Volume     float64
	Err        string
}

type wireMessage struct {
	Type           string `json:"type"`
	Role           string `json:"role"`
	Transcript     string `json:"transcript"`
	TranscriptType string `json:"transcriptType"`
	Summary        string `json:"summary"`
}

type wireEvent struct {
	Type    string       `json:"type"`
	Level   float64      `json:"level"`
	Error   string       `json:"error"`
	Message *wireMessage `json:"message"`
}

func (w wireEvent) event() Event {
	ev := Event{Type: EventType(w.Type), Volume: w.Level, Err: w.Error}
	if w.Message != nil {
		switch w.Message.Type {
		case "transcript":
			ev.Role = w.Message.Role
			ev.Transcript = w.Message.Transcript
			ev.Final = w.Message.TranscriptType == "final"
		case "end-of-call-report":
			ev.Summary = w.Message.Summary
		}
	}
	return ev
}

type startMessage struct {
	Type               string             `json:"type"`
	AssistantID        string             `json:"assistantId"`
	AssistantOverrides assistantOverrides `json:"assistantOverrides"`
}

type assistantOverrides struct {
	VariableValues map[string]interface{} `json:"variableValues"`
}

// Variables exposes the visit to the voice assistant's prompt.
func Variables(st session.State) map[string]interface{} {
	b := st.Biometrics
	bp := ""
	if b.BloodPressure.Systolic > 0 {
		bp = fmt.Sprintf("%d/%d %s", b.BloodPressure.Systolic, b.BloodPressure.Diastolic, vitals.UnitPressure)
	}
	return map[string]interface{}{
		"name":          st.Identity.Name,
		"age":           st.Identity.Age,
		"gender":        st.Identity.Gender,
		"nhisNumber":    st.Identity.NationalID,
		"painAreas":     st.Symptoms.PainAreas,
		"height":        b.Height,
		"weight":        b.Weight,
		"bmi":           b.BMI,
		"temperature":   b.Temperature,
		"spO2":          b.SpO2,
		"heartRate":     b.HeartRate,
		"bloodPressure": bp,
	}
}

// VoiceClient opens voice sessions with a hosted assistant.
type VoiceClient struct {
	url         string
	apiKey      string
	assistantID string
	dialer      *websocket.Dialer
}

func NewVoiceClient(url, apiKey, assistantID string) *VoiceClient {
	return &VoiceClient{
		url:         url,
		apiKey:      apiKey,
		assistantID: assistantID,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether an endpoint is configured.
func (c *VoiceClient) Enabled() bool {
	return c != nil && c.url != ""
}

// Start dials the endpoint and starts the assistant with the visit's
// variables.
func (c *VoiceClient) Start(ctx context.Context, vars map[string]interface{}) (*VoiceSession, error) {
	if !c.Enabled() {
		return nil, ErrVoiceUnavailable
	}

	header := http.Header{}
	if c.apiKey != "" {
		header.Set("Authorization", "Bearer "+c.apiKey)
	}
	conn, _, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVoiceUnavailable, err)
	}

	start := startMessage{
		Type:               "start",
		AssistantID:        c.assistantID,
		AssistantOverrides: assistantOverrides{VariableValues: vars},
	}
	if err := conn.WriteJSON(start); err != nil {
		conn.Close()
		return nil, fmt.Errorf("start voice session: %w", err)
	}

	s := &VoiceSession{
		conn:   conn,
		events: make(chan Event, 32),
		done:   make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

// VoiceSession is a live assistant call.
type VoiceSession struct {
	conn      *websocket.Conn
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
	writeMu   sync.Mutex
}

// Events delivers decoded events until the session ends; the channel is
// then closed.
func (s *VoiceSession) Events() <-chan Event {
	return s.events
}

// Stop ends the call.
func (s *VoiceSession) Stop() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.writeMu.Lock()
		_ = s.conn.WriteJSON(map[string]string{"type": "stop"})
		s.writeMu.Unlock()
		err = s.conn.Close()
	})
	return err
}

func (s *VoiceSession) readLoop() {
	defer close(s.events)
	for {
		var w wireEvent
		if err := s.conn.ReadJSON(&w); err != nil {
			select {
			case <-s.done:
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					s.emit(Event{Type: EventError, Err: err.Error()})
				}
				s.emit(Event{Type: EventCallEnd})
			}
			return
		}
		if !s.emit(w.event()) {
			return
		}
	}
}

func (s *VoiceSession) emit(ev Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

// CallState is what the conversation screen shows about the call.
type CallState struct {
	Connecting        bool
	Connected         bool
	Complete          bool
	AssistantSpeaking bool
	Volume            float64
	Summary           string
	LastError         string
}

// Apply folds ev into the call state and the transcript.
func (c *CallState) Apply(ev Event, t *Transcript) {
	switch ev.Type {
	case EventCallStart:
		c.Connecting = false
		c.Connected = true
	case EventCallEnd:
		c.Connecting = false
		c.Connected = false
		c.Complete = true
	case EventSpeechStart:
		c.AssistantSpeaking = true
	case EventSpeechEnd:
		c.AssistantSpeaking = false
	case EventVolumeLevel:
		c.Volume = ev.Volume
	case EventError:
		c.Connecting = false
		c.LastError = ev.Err
	case EventMessage:
		if ev.Final && ev.Transcript != "" {
			t.Add(ev.Role, ev.Transcript)
		}
		if ev.Summary != "" {
			c.Summary = ev.Summary
		}
	}
}
