package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestClient_ParseSendsForm(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		got = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			got[k] = v[0]
		}
		w.Write([]byte(`{"ParsedResults":[{"ParsedText":"REPUBLIC OF GHANA\nJANE DOE\n","FileParseExitCode":1}],"OCRExitCode":1,"IsErroredOnProcessing":false}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-123", "")
	res, err := c.Parse(context.Background(), "data:image/png;base64,AAAA")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := map[string]string{
		"apikey":            "key-123",
		"language":          "eng",
		"isOverlayRequired": "false",
		"base64Image":       "data:image/png;base64,AAAA",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("Field %s = %q, want %q", k, got[k], v)
		}
	}
	if res.Text != "REPUBLIC OF GHANA\nJANE DOE" {
		t.Errorf("Expected trimmed text, got %q", res.Text)
	}
	if !strings.Contains(string(res.Raw), "ParsedResults") {
		t.Errorf("Expected raw response kept, got %s", res.Raw)
	}
}

func TestClient_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"http error", http.StatusForbidden, `denied`, nil},
		{"processing error", http.StatusOK, `{"IsErroredOnProcessing":true,"ErrorMessage":["bad image"]}`, nil},
		{"no text", http.StatusOK, `{"ParsedResults":[{"ParsedText":"  "}]}`, ErrNoText},
		{"not json", http.StatusOK, `<html>`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "", "eng").Parse(context.Background(), "data:")
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFileCamera(t *testing.T) {
	if _, err := (FileCamera{}).Snapshot(context.Background()); !errors.Is(err, ErrNoCamera) {
		t.Errorf("Expected ErrNoCamera for empty path, got %v", err)
	}

	missing := FileCamera{Path: filepath.Join(t.TempDir(), "none.png")}
	if _, err := missing.Snapshot(context.Background()); !errors.Is(err, ErrNoCamera) {
		t.Errorf("Expected ErrNoCamera for missing file, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "card.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	src.Set(1, 1, color.White)
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := FileCamera{Path: path}.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
		t.Errorf("Expected 40x20, got %v", img.Bounds())
	}
}

func TestDownscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1920, 1080))

	got := Downscale(src, 960)
	if got.Bounds().Dx() != 960 || got.Bounds().Dy() != 540 {
		t.Errorf("Expected 960x540, got %v", got.Bounds())
	}
	if Downscale(src, 0) != image.Image(src) {
		t.Error("Expected unchanged image for maxWidth 0")
	}
	if Downscale(src, 4000) != image.Image(src) {
		t.Error("Expected unchanged image when already narrow enough")
	}
}

func TestDataURL(t *testing.T) {
	url, err := DataURL(image.NewGray(image.Rect(0, 0, 2, 2)))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("Expected PNG data URL, got %q", url)
	}
}
