// Package identity reads the patient's details off a photographed ID card:
// camera snapshot, OCR, then a language model turns the raw OCR result into
// a validated person record.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/healthport/kiosk/internal/llm"
	"github.com/healthport/kiosk/internal/ocr"
)

var (
	// ErrMalformedResponse means the model answer did not match the schema.
	ErrMalformedResponse = errors.New("malformed identity response")
	// ErrNotRecognized means the model could not find a name on the card.
	ErrNotRecognized = errors.New("identity not recognised")
)

const promptTemplate = "this is the result of the OCR: %s, respond with a json with the details of the person formatted properly. " +
	"use the keys name, dateOfBirth, gender and id_number inside an object called person_details. " +
	"also it should have a key called as 'successful' with a boolean value, it should be true if you could extract at least the name, and false otherwise."

// Person is what the kiosk keeps from the card.
type Person struct {
	Name        string
	Age         int
	Gender      string
	IDNumber    string
	DateOfBirth string
}

// Reader produces a Person; implemented by the card extractor and the demo
// reader used when no OCR service is configured.
type Reader interface {
	Read(ctx context.Context) (Person, error)
}

// TextRecognizer is the OCR side of the pipeline.
type TextRecognizer interface {
	Parse(ctx context.Context, dataURL string) (ocr.Result, error)
}

// Generator is the language-model side of the pipeline.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type personDetails struct {
	Name        string `json:"name" validate:"required"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	IDNumber    string `json:"id_number"`
	Age         *int   `json:"age" validate:"omitempty,gte=0,lte=130"`
}

type extraction struct {
	Successful    *bool          `json:"successful" validate:"required"`
	PersonDetails *personDetails `json:"person_details" validate:"-"`
}

var validate = validator.New()

// Extractor runs camera → OCR → model.
type Extractor struct {
	camera   ocr.Camera
	ocr      TextRecognizer
	model    Generator
	maxWidth int
	now      func() time.Time
}

func NewExtractor(camera ocr.Camera, recognizer TextRecognizer, model Generator, maxWidth int) *Extractor {
	return &Extractor{
		camera:   camera,
		ocr:      recognizer,
		model:    model,
		maxWidth: maxWidth,
		now:      time.Now,
	}
}

// Read implements Reader.
func (e *Extractor) Read(ctx context.Context) (Person, error) {
	if e.camera == nil {
		return Person{}, ocr.ErrNoCamera
	}

	img, err := e.camera.Snapshot(ctx)
	if err != nil {
		return Person{}, err
	}
	dataURL, err := ocr.DataURL(ocr.Downscale(img, e.maxWidth))
	if err != nil {
		return Person{}, err
	}

	result, err := e.ocr.Parse(ctx, dataURL)
	if err != nil {
		return Person{}, fmt.Errorf("ocr: %w", err)
	}

	answer, err := e.model.Generate(ctx, BuildPrompt(result.Raw))
	if err != nil {
		return Person{}, fmt.Errorf("identity model: %w", err)
	}

	return ParseResponse(answer, e.now())
}

// BuildPrompt embeds the raw OCR response in the extraction prompt.
func BuildPrompt(ocrJSON []byte) string {
	return fmt.Sprintf(promptTemplate, string(ocrJSON))
}

// ParseResponse validates the model answer. now fixes the current year for
// the age calculation.
func ParseResponse(answer string, now time.Time) (Person, error) {
	var ex extraction
	if err := json.Unmarshal([]byte(llm.StripFences(answer)), &ex); err != nil {
		return Person{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := validate.Struct(ex); err != nil {
		return Person{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !*ex.Successful {
		return Person{}, ErrNotRecognized
	}
	if ex.PersonDetails == nil {
		return Person{}, fmt.Errorf("%w: missing person_details", ErrMalformedResponse)
	}
	if err := validate.Struct(ex.PersonDetails); err != nil {
		return Person{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	d := ex.PersonDetails
	p := Person{
		Name:        strings.TrimSpace(d.Name),
		Gender:      NormalizeGender(d.Gender),
		IDNumber:    strings.TrimSpace(d.IDNumber),
		DateOfBirth: strings.TrimSpace(d.DateOfBirth),
	}
	if dob, ok := ParseDate(p.DateOfBirth); ok {
		p.Age = now.Year() - dob.Year()
	} else if d.Age != nil {
		p.Age = *d.Age
	}
	return p, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
	"02-01-2006",
	"02.01.2006",
	"2 January 2006",
	"02 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

// ParseDate accepts the date formats commonly printed on ID cards.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeGender maps card abbreviations to display labels.
func NormalizeGender(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "m", "male", "masculin", "homme":
		return "Male"
	case "f", "female", "féminin", "feminin", "femme":
		return "Female"
	case "":
		return ""
	default:
		return strings.TrimSpace(g)
	}
}
