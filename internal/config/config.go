package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Sensor SensorConfig
	Camera CameraConfig
	OCR    OCRConfig
	Gemini GeminiConfig
	OpenAI OpenAIConfig
	Voice  VoiceConfig
	Audio  AudioConfig
	Nats   NatsConfig
	Bridge BridgeConfig
}

type AppConfig struct {
	Environment string `validate:"oneof=development production"`
	LogFilePath string `validate:"required"`
	ReceiptDir  string `validate:"required"`
	FontPath    string
}

type SensorConfig struct {
	Enabled      bool
	BaseURL      string        `validate:"required,url"`
	PollInterval time.Duration `validate:"gt=0"`
	Timeout      time.Duration `validate:"gt=0"`
}

type CameraConfig struct {
	SnapshotPath string
	MaxWidth     int `validate:"gte=0"`
}

type OCRConfig struct {
	URL      string `validate:"required,url"`
	APIKey   string
	Language string `validate:"required"`
}

type GeminiConfig struct {
	BaseURL string `validate:"required,url"`
	Model   string `validate:"required"`
	APIKey  string
}

type OpenAIConfig struct {
	APIKey string
	Model  string `validate:"required"`
}

type VoiceConfig struct {
	URL         string `validate:"omitempty,url"`
	APIKey      string
	AssistantID string
}

type AudioConfig struct {
	Dir     string
	Command string
	Args    []string
}

type NatsConfig struct {
	URL     string `validate:"omitempty,url"`
	Subject string `validate:"required"`
}

type BridgeConfig struct {
	Addr    string        `validate:"required"`
	Delay   time.Duration `validate:"gte=0"`
	Testing bool
}

// Load reads the environment, after loading envFiles (default ".env") when
// present. Missing env files are not an error.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		App: AppConfig{
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "healthport.log"),
			ReceiptDir:  getEnv("RECEIPT_DIR", "receipts"),
			FontPath:    getEnv("RECEIPT_FONT_PATH", ""),
		},
		Sensor: SensorConfig{
			Enabled:      getEnvAsBool("SENSOR_BRIDGE_ENABLED", false),
			BaseURL:      getEnv("SENSOR_BRIDGE_URL", "http://localhost:5000"),
			PollInterval: getEnvAsDuration("SENSOR_POLL_INTERVAL", 500*time.Millisecond),
			Timeout:      getEnvAsDuration("SENSOR_TIMEOUT", 20*time.Second),
		},
		Camera: CameraConfig{
			SnapshotPath: getEnv("CAMERA_SNAPSHOT_PATH", ""),
			MaxWidth:     getEnvAsInt("CAMERA_MAX_WIDTH", 960),
		},
		OCR: OCRConfig{
			URL:      getEnv("OCR_URL", "https://api.ocr.space/parse/image"),
			APIKey:   getEnv("OCR_API_KEY", ""),
			Language: getEnv("OCR_LANGUAGE", "eng"),
		},
		Gemini: GeminiConfig{
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			APIKey:  getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			Model:  getEnv("OPENAI_MODEL_CHAT", "gpt-4o-mini"),
		},
		Voice: VoiceConfig{
			URL:         getEnv("VOICE_SESSION_URL", ""),
			APIKey:      getEnv("VOICE_API_KEY", ""),
			AssistantID: getEnv("VOICE_ASSISTANT_ID", ""),
		},
		Audio: AudioConfig{
			Dir:     getEnv("AUDIO_DIR", "public/audio"),
			Command: getEnv("AUDIO_PLAYER", ""),
			Args:    strings.Fields(getEnv("AUDIO_PLAYER_ARGS", "")),
		},
		Nats: NatsConfig{
			URL:     getEnv("NATS_URL", ""),
			Subject: getEnv("NATS_VISIT_SUBJECT", "kiosk.visits.completed"),
		},
		Bridge: BridgeConfig{
			Addr:    getEnv("BRIDGE_ADDR", ":5000"),
			Delay:   getEnvAsDuration("BRIDGE_FETCH_DELAY", 5*time.Second),
			Testing: getEnvAsBool("BRIDGE_TESTING", false),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags on cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction reports whether the kiosk runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
