package audio

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/healthport/kiosk/internal/session"
)

func TestClipName(t *testing.T) {
	tests := []struct {
		key  Key
		lang session.Language
		want string
	}{
		{KeyHome, session.LanguageEnglish, "home_english.mp3"},
		{KeyHeightWeight, session.LanguageAkan, "h&w_akan.m4a"},
		{KeyHeartRate, session.LanguageFrench, "hr&bp_french.mp3"},
		{KeyVitalsOverview, session.LanguageAkan, "vitalsOverview_akan.m4a"},
	}
	for _, tt := range tests {
		if got := ClipName(tt.key, tt.lang); got != tt.want {
			t.Errorf("ClipName(%s, %s) = %q, want %q", tt.key, tt.lang, got, tt.want)
		}
	}

	if got := ClipPath("public/audio", KeyAI, session.LanguageEnglish); got != filepath.Join("public/audio", "ai_english.mp3") {
		t.Errorf("Unexpected path %q", got)
	}
}

func TestPlayer_DisabledIsNoop(t *testing.T) {
	p := NewPlayer(t.TempDir(), "", nil, nil)
	if p.Enabled() {
		t.Error("Expected disabled player")
	}
	if err := p.Play(context.Background(), KeyHome, session.LanguageEnglish); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
	p.Stop()

	var nilPlayer *Player
	nilPlayer.Stop()
}

func TestPlayer_MissingClip(t *testing.T) {
	p := NewPlayer(t.TempDir(), "true", nil, nil)
	err := p.Play(context.Background(), KeyPain, session.LanguageFrench)
	if !errors.Is(err, ErrClipNotFound) {
		t.Errorf("Expected ErrClipNotFound, got %v", err)
	}
}

func TestPlayer_Play(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "temp_english.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewPlayer(dir, "true", []string{"-q"}, nil)
	if err := p.Play(context.Background(), KeyTemperature, session.LanguageEnglish); err != nil {
		t.Fatalf("Play: %v", err)
	}
	p.Stop()
}
