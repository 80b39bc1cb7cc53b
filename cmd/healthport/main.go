package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/healthport/kiosk/cmd/healthport/wizard"
	"github.com/healthport/kiosk/internal/audio"
	"github.com/healthport/kiosk/internal/config"
	"github.com/healthport/kiosk/internal/consult"
	"github.com/healthport/kiosk/internal/i18n"
	"github.com/healthport/kiosk/internal/identity"
	"github.com/healthport/kiosk/internal/llm"
	"github.com/healthport/kiosk/internal/logger"
	"github.com/healthport/kiosk/internal/notify"
	"github.com/healthport/kiosk/internal/ocr"
	"github.com/healthport/kiosk/internal/report"
	"github.com/healthport/kiosk/internal/sensor"
	"github.com/healthport/kiosk/internal/session"
)

// version is set at build time via -ldflags
var version = "dev"

// demoReadDelay is how long the demo identity reader pretends to analyse the card.
const demoReadDelay = 3 * time.Second

func main() {
	seed := flag.Uint64("seed", 0, "Seed for simulated readings (optional, random if not specified)")
	resume := flag.String("resume", "", "Resume a visit from a YAML session file")
	exportSession := flag.String("export-session", "", "Save the visit to a YAML session file on exit")
	receiptDir := flag.String("receipt-dir", "", "Directory for visit receipts (overrides RECEIPT_DIR)")
	logFile := flag.String("log-file", "", "Log file path (overrides LOG_FILE_PATH)")
	envFile := flag.String("env", ".env", "Environment file to load")

	help := flag.Bool("help", false, "Show help message")
	showVersion := flag.Bool("version", false, "Show version")

	flag.Parse()

	if *showVersion {
		fmt.Printf("healthport %s\n", version)
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *receiptDir != "" {
		cfg.App.ReceiptDir = *receiptDir
	}
	if *logFile != "" {
		cfg.App.LogFilePath = *logFile
	}

	// The TUI owns the terminal: log to file only
	log := logger.NewFileLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer log.Sync()

	var state *session.State
	if *resume != "" {
		absPath, err := filepath.Abs(*resume)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: resolving session path: %v\n", err)
			os.Exit(1)
		}
		loaded, err := session.LoadFromYAML(absPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: loading session: %v\n", err)
			os.Exit(1)
		}
		state = &loaded
	}

	catalog, err := i18n.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	publisher, err := notify.New(cfg.Nats.URL, cfg.Nats.Subject)
	if err != nil {
		// Visit events are optional; the kiosk still runs without them
		log.Warn("main", "visit events disabled", map[string]interface{}{"error": err.Error()})
		publisher = notify.Nop{}
	}
	defer publisher.Close()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(rngSeed, 0))

	services := wizard.Services{
		Identity:  identityReader(cfg, rng),
		Voice:     consult.NewVoiceClient(cfg.Voice.URL, cfg.Voice.APIKey, cfg.Voice.AssistantID),
		Audio:     audio.NewPlayer(cfg.Audio.Dir, cfg.Audio.Command, cfg.Audio.Args, log),
		Receipts:  report.NewWriter(cfg.App.ReceiptDir, cfg.App.FontPath, log),
		Publisher: publisher,
		Catalog:   catalog,
		Log:       log,
		Rand:      rng,
	}
	if cfg.Sensor.Enabled {
		services.Sensors = sensor.NewClient(cfg.Sensor.BaseURL, cfg.Sensor.PollInterval, cfg.Sensor.Timeout)
	}
	if chat := llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model); chat != nil {
		services.Chat = chat
	}

	log.Info("main", "kiosk starting", map[string]interface{}{
		"version":  version,
		"seed":     rngSeed,
		"sensors":  cfg.Sensor.Enabled,
		"voice":    services.Voice.Enabled(),
		"chat":     services.Chat != nil,
		"resuming": state != nil,
	})

	if err := wizard.Run(wizard.Options{
		State:      state,
		ExportPath: *exportSession,
		Services:   services,
	}); err != nil {
		log.Error("main", "kiosk stopped", map[string]interface{}{"error": err.Error()})
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// identityReader reads the ID card through OCR and Gemini when both are
// configured, otherwise it fabricates a demo identity.
func identityReader(cfg *config.Config, rng *rand.Rand) identity.Reader {
	if cfg.OCR.APIKey == "" || cfg.Gemini.APIKey == "" || cfg.Camera.SnapshotPath == "" {
		return identity.DemoReader{Delay: demoReadDelay, Rand: rng}
	}
	return identity.NewExtractor(
		ocr.FileCamera{Path: cfg.Camera.SnapshotPath},
		ocr.NewClient(cfg.OCR.URL, cfg.OCR.APIKey, cfg.OCR.Language),
		llm.NewGemini(cfg.Gemini.BaseURL, cfg.Gemini.Model, cfg.Gemini.APIKey),
		cfg.Camera.MaxWidth,
	)
}

func printHelp() {
	fmt.Println("healthport")
	fmt.Println("==========")
	fmt.Println()
	fmt.Println("Self-service health kiosk: identification, vital signs, AI consultation")
	fmt.Println("and next steps, in the terminal.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  healthport [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --seed <N>              Seed for simulated readings (random if not specified)")
	fmt.Println("  --resume <FILE>         Resume a visit saved as YAML")
	fmt.Println("  --export-session <FILE> Save the visit as YAML on exit")
	fmt.Println("  --receipt-dir <DIR>     Directory for visit receipts (default: 'receipts')")
	fmt.Println("  --log-file <PATH>       Log file (default: 'healthport.log')")
	fmt.Println("  --env <FILE>            Environment file to load (default: '.env')")
	fmt.Println("  --version               Show version")
	fmt.Println("  --help                  Show this help message")
	fmt.Println()
	fmt.Println("Keys:")
	fmt.Println("  F1       Toggle help for the current screen")
	fmt.Println("  Ctrl+S   Save the visit to a YAML file")
	fmt.Println("  Ctrl+C   Quit")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  SENSOR_BRIDGE_ENABLED, SENSOR_BRIDGE_URL   Sensor bridge (see sensorbridge)")
	fmt.Println("  OCR_API_KEY, GOOGLE_GEMINI_API_KEY,")
	fmt.Println("  CAMERA_SNAPSHOT_PATH                       ID card reading (demo reader otherwise)")
	fmt.Println("  OPENAI_API_KEY                             Typed consultation (scripted otherwise)")
	fmt.Println("  VOICE_SESSION_URL                          Voice consultation")
	fmt.Println("  AUDIO_DIR, AUDIO_PLAYER                    Spoken guidance clips")
	fmt.Println("  NATS_URL                                   Visit-completed events")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Run the kiosk with reproducible readings")
	fmt.Println("  healthport --seed 42")
	fmt.Println()
	fmt.Println("  # Save the visit and pick it up later")
	fmt.Println("  healthport --export-session visit.yaml")
	fmt.Println("  healthport --resume visit.yaml")
}
