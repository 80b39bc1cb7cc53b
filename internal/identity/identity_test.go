package identity

import (
	"context"
	"errors"
	"image"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/healthport/kiosk/internal/ocr"
)

var fixedNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func TestParseResponse(t *testing.T) {
	answer := "```json\n" + `{"successful": true, "person_details": {"name": "Jane Doe", "dateOfBirth": "1990-05-14", "gender": "F", "id_number": "NHIS-123"}}` + "\n```"

	p, err := ParseResponse(answer, fixedNow)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if p.Name != "Jane Doe" || p.Gender != "Female" || p.IDNumber != "NHIS-123" {
		t.Errorf("Unexpected person %+v", p)
	}
	if p.Age != 36 {
		t.Errorf("Expected age 36, got %d", p.Age)
	}
}

func TestParseResponse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   error
	}{
		{"not json", "I could not read this card", ErrMalformedResponse},
		{"missing successful", `{"person_details":{"name":"A"}}`, ErrMalformedResponse},
		{"not successful", `{"successful": false}`, ErrNotRecognized},
		{"not successful with empty details", `{"successful": false, "person_details": {"name": ""}}`, ErrNotRecognized},
		{"missing details", `{"successful": true}`, ErrMalformedResponse},
		{"missing name", `{"successful": true, "person_details": {"gender": "M"}}`, ErrMalformedResponse},
		{"bad age", `{"successful": true, "person_details": {"name": "A", "age": -3}}`, ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.answer, fixedNow)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseResponse_AgeFallback(t *testing.T) {
	p, err := ParseResponse(`{"successful": true, "person_details": {"name": "Kofi", "dateOfBirth": "unknown", "age": 41}}`, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if p.Age != 41 {
		t.Errorf("Expected age 41, got %d", p.Age)
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"1990-05-14", "14/05/1990", "1990/05/14", "14-05-1990", "14.05.1990", "14 May 1990", "14 May 1990", "May 14, 1990"} {
		d, ok := ParseDate(s)
		if !ok || d.Year() != 1990 {
			t.Errorf("ParseDate(%q) = %v, %v", s, d, ok)
		}
	}
	if _, ok := ParseDate(""); ok {
		t.Error("Expected empty date to fail")
	}
}

func TestNormalizeGender(t *testing.T) {
	tests := map[string]string{
		"M": "Male", "male": "Male", "F": "Female", "Femme": "Female", "": "", "Other": "Other",
	}
	for in, want := range tests {
		if got := NormalizeGender(in); got != want {
			t.Errorf("NormalizeGender(%q) = %q, want %q", in, got, want)
		}
	}
}

type stubCamera struct{ err error }

func (c stubCamera) Snapshot(context.Context) (image.Image, error) {
	if c.err != nil {
		return nil, c.err
	}
	return image.NewRGBA(image.Rect(0, 0, 8, 4)), nil
}

type stubOCR struct {
	gotURL string
	err    error
}

func (s *stubOCR) Parse(_ context.Context, dataURL string) (ocr.Result, error) {
	s.gotURL = dataURL
	return ocr.Result{Text: "JANE DOE", Raw: []byte(`{"ParsedResults":[{"ParsedText":"JANE DOE"}]}`)}, s.err
}

type stubModel struct {
	prompt string
	answer string
}

func (s *stubModel) Generate(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.answer, nil
}

func TestExtractor_Read(t *testing.T) {
	recognizer := &stubOCR{}
	model := &stubModel{answer: `{"successful": true, "person_details": {"name": "Jane Doe", "gender": "female"}}`}
	e := NewExtractor(stubCamera{}, recognizer, model, 4)

	p, err := e.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if p.Name != "Jane Doe" || p.Gender != "Female" {
		t.Errorf("Unexpected person %+v", p)
	}
	if !strings.HasPrefix(recognizer.gotURL, "data:image/png;base64,") {
		t.Errorf("Expected data URL sent to OCR, got %q", recognizer.gotURL)
	}
	if !strings.Contains(model.prompt, `"ParsedText":"JANE DOE"`) || !strings.Contains(model.prompt, "'successful'") {
		t.Errorf("Prompt missing OCR JSON or schema: %q", model.prompt)
	}
}

func TestExtractor_Failures(t *testing.T) {
	if _, err := NewExtractor(nil, &stubOCR{}, &stubModel{}, 0).Read(context.Background()); !errors.Is(err, ocr.ErrNoCamera) {
		t.Errorf("Expected ErrNoCamera, got %v", err)
	}

	e := NewExtractor(stubCamera{err: ocr.ErrNoCamera}, &stubOCR{}, &stubModel{}, 0)
	if _, err := e.Read(context.Background()); !errors.Is(err, ocr.ErrNoCamera) {
		t.Errorf("Expected camera error passed through, got %v", err)
	}

	e = NewExtractor(stubCamera{}, &stubOCR{err: ocr.ErrNoText}, &stubModel{}, 0)
	if _, err := e.Read(context.Background()); !errors.Is(err, ocr.ErrNoText) {
		t.Errorf("Expected ErrNoText, got %v", err)
	}
}

func TestDemoReader(t *testing.T) {
	r := DemoReader{Rand: rand.New(rand.NewPCG(7, 0))}
	for i := 0; i < 50; i++ {
		p, err := r.Read(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if p.Name == "" || !strings.Contains(p.Name, " ") {
			t.Errorf("Expected first and last name, got %q", p.Name)
		}
		if p.Age < 18 || p.Age > 80 {
			t.Errorf("Age %d out of range", p.Age)
		}
		if !strings.HasPrefix(p.IDNumber, "NHIS-") || len(p.IDNumber) != 13 {
			t.Errorf("Unexpected ID %q", p.IDNumber)
		}
	}
}

func TestDemoReader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (DemoReader{Delay: time.Hour}).Read(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestGenerateName_Deterministic(t *testing.T) {
	a := GenerateName("Male", rand.New(rand.NewPCG(1, 2)))
	b := GenerateName("Male", rand.New(rand.NewPCG(1, 2)))
	if a != b {
		t.Errorf("Expected same name for same seed, got %q and %q", a, b)
	}
}
