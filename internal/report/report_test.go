package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/healthport/kiosk/internal/session"
)

func janeDoe() session.State {
	store := session.NewStore()
	store.UpdateIdentity(func(id *session.Identity) {
		id.Name = "Jane Doe"
		id.Age = 34
		id.Gender = "Female"
	})
	store.UpdateBiometrics(func(b *session.Biometrics) {
		b.Height = 160
		b.Weight = 50
		b.Temperature = 38.0
	})
	store.SetConversation(session.Conversation{Recommendations: []string{"Stay hydrated"}})
	store.UpdateDiagnosis(func(d *session.Diagnosis) {
		d.Condition = "Tension Headache"
		d.Severity = session.SeverityMedium
		d.NextStep = session.NextStepMedication
	})
	return store.Get()
}

var issued = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func TestReceipt_Text(t *testing.T) {
	r := New(janeDoe(), issued)
	text := r.Text()

	for _, want := range []string{
		"--- Health Report ---",
		"Name: Jane Doe",
		"Age: 34",
		"Height: 160cm",
		"Weight: 50kg",
		"BMI: 19.5 (Normal)",
		"Temperature: 38°C (Elevated)",
		"SpO2: -",
		"Overall Health: Fair",
		"Severity: Moderate Severity",
		"Prescription\n1. Ibuprofen 200mg (10 tablets)",
		"2. Stay hydrated",
		"Follow up in 2 weeks or sooner if symptoms worsen.",
		"Scan the QR Code to access results\nhttps://healthport.com",
		"Date: 2026-10-19 09:30",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Receipt missing %q:\n%s", want, text)
		}
	}
	if !strings.HasPrefix(r.Number, "HP-") || len(r.Number) != 13 {
		t.Errorf("Unexpected receipt number %q", r.Number)
	}
}

func TestReceipt_NextSteps(t *testing.T) {
	st := janeDoe()

	st.Diagnosis.NextStep = session.NextStepReferral
	text := New(st, issued).Text()
	if !strings.Contains(text, "Prescription\n1. None") || !strings.Contains(text, "City Health Medical Center") {
		t.Errorf("Unexpected referral receipt:\n%s", text)
	}

	st.Diagnosis.NextStep = session.NextStepConsultation
	text = New(st, issued).Text()
	if !strings.Contains(text, "Dr. Sarah Johnson") {
		t.Errorf("Unexpected consultation receipt:\n%s", text)
	}
}

func TestReceipt_EmptyVisit(t *testing.T) {
	text := New(session.NewState(), issued).Text()
	if !strings.Contains(text, "Name: -") || strings.Contains(text, "Overall Health") || strings.Contains(text, "Diagnosis:") {
		t.Errorf("Unexpected empty receipt:\n%s", text)
	}
}

func TestReceipt_PDF(t *testing.T) {
	r := New(janeDoe(), issued)

	if _, err := r.PDF(filepath.Join(t.TempDir(), "missing.ttf")); err != nil {
		if errors.Is(err, ErrNoFont) {
			t.Skip("no TTF font installed")
		}
		t.Fatalf("PDF: %v", err)
	}

	data, err := r.PDF()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("Expected PDF header, got %q", data[:8])
	}
}

func TestWriter_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "receipts")
	w := NewWriter(dir, "", nil)
	r := New(janeDoe(), issued)

	paths, err := w.Save(r)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(paths) == 0 || filepath.Base(paths[0]) != "receipt_"+r.Number+".txt" {
		t.Fatalf("Unexpected paths %v", paths)
	}
	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != r.Text() {
		t.Error("Saved text differs from receipt text")
	}
}
