package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v9"
)

// EnvPrefix is prepended to every variable name below, so Port is read
// from STT_PORT and so on.
const EnvPrefix = "STT_"

type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	DataPath string `env:"DATA_PATH" envDefault:"./data"`
	DBPath   string `env:"DB_PATH"`
	// UploadPath holds uploaded and recorded audio until the pipeline
	// consumes it. Defaults to <DataPath>/uploads.
	UploadPath string `env:"UPLOAD_PATH"`

	MaxUploadBytes  int64   `env:"MAX_UPLOAD_BYTES" envDefault:"268435456"`
	MaxDurationSecs float64 `env:"MAX_DURATION_SECS" envDefault:"7200"`
	SegmentSeconds  int     `env:"SEGMENT_SECONDS" envDefault:"60"`
	PoolSize        int     `env:"POOL_SIZE" envDefault:"4"`
	Language        string  `env:"LANGUAGE" envDefault:"en"`

	FFmpegBinary  string `env:"FFMPEG_BINARY" envDefault:"ffmpeg"`
	FFprobeBinary string `env:"FFPROBE_BINARY" envDefault:"ffprobe"`

	// Engine selects the default transcription engine. Empty means the
	// first engine that is actually configured wins (resolution order:
	// whisper-server, groq, whisper-cli).
	Engine           string `env:"ENGINE"`
	WhisperServerURL string `env:"WHISPER_SERVER_URL"`
	WhisperCLIModel  string `env:"WHISPER_CLI_MODEL" envDefault:"small"`
	WhisperCLIBinary string `env:"WHISPER_CLI_BINARY" envDefault:"whisper"`

	GroqAPIKey       string `env:"GROQ_API_KEY"`
	GroqWhisperModel string `env:"GROQ_WHISPER_MODEL" envDefault:"whisper-large-v3"`

	LLMBaseURL string `env:"LLM_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	LLMModel   string `env:"LLM_MODEL" envDefault:"mixtral-8x7b-32768"`

	JWTSecret     string   `env:"JWT_SECRET"`
	AdminUsername string   `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string   `env:"ADMIN_PASSWORD" envDefault:"admin"`
	CORSOrigins   []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataPath, "stt.db")
	}
	if cfg.UploadPath == "" {
		cfg.UploadPath = filepath.Join(cfg.DataPath, "uploads")
	}
	return cfg, nil
}

// EnsureJWTSecret generates a random secret when none is configured.
// Returns true when a secret was generated; callers should warn that
// sessions will not survive restarts in that case.
func (c *Config) EnsureJWTSecret() (bool, error) {
	if c.JWTSecret != "" {
		return false, nil
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return false, fmt.Errorf("generating JWT secret: %w", err)
	}
	c.JWTSecret = hex.EncodeToString(b)
	return true, nil
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
