// Package ocr captures the ID card and reads its text through the OCR.space
// parse API.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ErrNoText is returned when the service processed the image but found nothing.
var ErrNoText = errors.New("no text recognised")

// Client posts snapshots to the OCR service.
type Client struct {
	url        string
	apiKey     string
	language   string
	httpClient *http.Client
}

func NewClient(url, apiKey, language string) *Client {
	if language == "" {
		language = "eng"
	}
	return &Client{
		url:      url,
		apiKey:   apiKey,
		language: language,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type parsedResult struct {
	ParsedText        string `json:"ParsedText"`
	FileParseExitCode int    `json:"FileParseExitCode"`
	ErrorMessage      string `json:"ErrorMessage"`
}

type parseResponse struct {
	ParsedResults         []parsedResult  `json:"ParsedResults"`
	OCRExitCode           int             `json:"OCRExitCode"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

// Result is the recognised text together with the raw service response,
// which the identity extractor forwards verbatim to the language model.
type Result struct {
	Text string
	Raw  json.RawMessage
}

// Parse sends a base64 data URL to the service.
func (c *Client) Parse(ctx context.Context, dataURL string) (Result, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := [][2]string{
		{"apikey", c.apiKey},
		{"language", c.language},
		{"isOverlayRequired", "false"},
		{"base64Image", dataURL},
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return Result{}, err
		}
	}
	if err := writer.Close(); err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("OCR API error: %s - %s", resp.Status, string(raw))
	}

	var parsed parseResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Result{}, fmt.Errorf("decode ocr response: %w", err)
	}
	if parsed.IsErroredOnProcessing {
		return Result{}, fmt.Errorf("OCR processing error: %s", string(parsed.ErrorMessage))
	}

	texts := make([]string, 0, len(parsed.ParsedResults))
	for _, r := range parsed.ParsedResults {
		if t := strings.TrimSpace(r.ParsedText); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return Result{Raw: raw}, ErrNoText
	}

	return Result{Text: strings.Join(texts, "\n"), Raw: raw}, nil
}
