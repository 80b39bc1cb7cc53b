// Package audio resolves and plays the spoken prompt for each kiosk screen.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/healthport/kiosk/internal/logger"
	"github.com/healthport/kiosk/internal/session"
)

// Key names a recorded prompt.
type Key string

const (
	KeyHome           Key = "home"
	KeyAuth           Key = "auth"
	KeyHeightWeight   Key = "h&w"
	KeyTemperature    Key = "temp"
	KeySpO2           Key = "spo2"
	KeyHeartRate      Key = "hr&bp"
	KeyPain           Key = "pain"
	KeyVitalsOverview Key = "vitalsOverview"
	KeyAI             Key = "ai"
)

// ErrClipNotFound is returned when the clip file does not exist.
var ErrClipNotFound = errors.New("audio clip not found")

// ClipName returns "{key}_{language}.{ext}". Akan prompts are m4a
// recordings, the others mp3.
func ClipName(key Key, lang session.Language) string {
	ext := "mp3"
	if lang == session.LanguageAkan {
		ext = "m4a"
	}
	return fmt.Sprintf("%s_%s.%s", key, lang, ext)
}

// ClipPath joins dir and the clip name.
func ClipPath(dir string, key Key, lang session.Language) string {
	return filepath.Join(dir, ClipName(key, lang))
}

// Player runs an external command per clip. Starting a clip stops the one
// still playing. With no command configured it does nothing.
type Player struct {
	dir     string
	command string
	args    []string
	log     logger.ILogger

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewPlayer(dir, command string, args []string, log logger.ILogger) *Player {
	if log == nil {
		log = logger.Nop{}
	}
	return &Player{dir: dir, command: command, args: args, log: log}
}

// Enabled reports whether a player command is configured.
func (p *Player) Enabled() bool {
	return p != nil && p.command != ""
}

// Play starts the clip in the background and returns once it has started.
func (p *Player) Play(ctx context.Context, key Key, lang session.Language) error {
	if !p.Enabled() {
		return nil
	}

	path := ClipPath(p.dir, key, lang)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, ErrClipNotFound)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()

	playCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(playCtx, p.command, append(append([]string(nil), p.args...), path)...)
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start player: %w", err)
	}
	p.cancel = cancel

	go func() {
		if err := cmd.Wait(); err != nil && playCtx.Err() == nil {
			p.log.Warn("audio", "playback failed", map[string]interface{}{"clip": path, "error": err.Error()})
		}
		cancel()
	}()
	return nil
}

// Stop interrupts the current clip.
func (p *Player) Stop() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}
