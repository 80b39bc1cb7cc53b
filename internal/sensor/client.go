// Package sensor talks to, and implements, the HTTP bridge in front of the
// kiosk's measuring hardware.
package sensor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Sensors the bridge knows about.
const (
	Height      = "height"
	Weight      = "weight"
	Temperature = "temperature"
	Pulse       = "pulse"
	BP          = "bp"
)

// Known lists every sensor name in route order.
var Known = []string{Height, Weight, Temperature, Pulse, BP}

// Reading statuses.
const (
	StatusFetching = "fetching"
	StatusWaiting  = "waiting"
	StatusReady    = "ready"
	StatusFailed   = "error"
)

// ErrUnknownSensor is returned for sensors the bridge does not serve.
var ErrUnknownSensor = errors.New("unknown sensor")

// StatusError is a non-200 bridge response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sensor bridge error: %d - %s", e.Code, e.Body)
}

// Reading is the bridge's JSON reply. Value is nil while waiting.
type Reading struct {
	Sensor string  `json:"sensor"`
	Value  *string `json:"value"`
	Status string  `json:"status"`
	Error  string  `json:"error,omitempty"`
}

// Client polls a sensor bridge.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
}

// NewClient creates a client for the bridge at baseURL.
func NewClient(baseURL string, pollInterval, timeout time.Duration) *Client {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		pollInterval: pollInterval,
	}
}

// Request asks the bridge to start reading sensor. The bridge answers at
// once with a placeholder value.
func (c *Client) Request(ctx context.Context, sensor string) error {
	_, err := c.get(ctx, "/"+url.PathEscape(sensor))
	return err
}

// Poll fetches the latest reading. A ready value is cleared on the bridge.
func (c *Client) Poll(ctx context.Context, sensor string) (Reading, error) {
	return c.get(ctx, "/poll/"+url.PathEscape(sensor))
}

// Await polls until the reading is ready or ctx is done.
func (c *Client) Await(ctx context.Context, sensor string) (string, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		r, err := c.Poll(ctx, sensor)
		if err != nil {
			return "", err
		}
		switch r.Status {
		case StatusReady:
			if r.Value == nil {
				return "", fmt.Errorf("%s: ready without a value", sensor)
			}
			return *r.Value, nil
		case StatusFailed:
			return "", fmt.Errorf("%s: %s", sensor, r.Error)
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("waiting for %s: %w", sensor, ctx.Err())
		case <-ticker.C:
		}
	}
}

// AwaitFloat waits for a numeric reading.
func (c *Client) AwaitFloat(ctx context.Context, sensor string) (float64, error) {
	raw, err := c.Await(ctx, sensor)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s reading %q: %w", sensor, raw, err)
	}
	return v, nil
}

// AwaitPressure waits for a "systolic/diastolic" reading.
func (c *Client) AwaitPressure(ctx context.Context) (systolic, diastolic int, err error) {
	raw, err := c.Await(ctx, BP)
	if err != nil {
		return 0, 0, err
	}
	return ParsePressure(raw)
}

// ParsePressure parses "120/80".
func ParsePressure(raw string) (systolic, diastolic int, err error) {
	sys, dia, ok := strings.Cut(strings.TrimSpace(raw), "/")
	if !ok {
		return 0, 0, fmt.Errorf("parse blood pressure %q: missing '/'", raw)
	}
	if systolic, err = strconv.Atoi(strings.TrimSpace(sys)); err != nil {
		return 0, 0, fmt.Errorf("parse systolic %q: %w", sys, err)
	}
	if diastolic, err = strconv.Atoi(strings.TrimSpace(dia)); err != nil {
		return 0, 0, fmt.Errorf("parse diastolic %q: %w", dia, err)
	}
	return systolic, diastolic, nil
}

func (c *Client) get(ctx context.Context, path string) (Reading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return Reading{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Reading{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Reading{}, fmt.Errorf("%s: %w", path, ErrUnknownSensor)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Reading{}, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var r Reading
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return Reading{}, fmt.Errorf("decode bridge response: %w", err)
	}
	return r, nil
}
