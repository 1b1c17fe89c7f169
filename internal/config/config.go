package config

import (
	"fmt"
	"time"
)

// Config holds all oracle configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	LLM       LLMConfig       `koanf:"llm"`
	Translate TranslateConfig `koanf:"translate"`
	Social    SocialConfig    `koanf:"social"`
	Assets    AssetsConfig    `koanf:"assets"`
	Cards     CardsConfig     `koanf:"cards"`
	Schedule  ScheduleConfig  `koanf:"schedule"`
	Logging   LoggingConfig   `koanf:"logging"`
}

type ServerConfig struct {
	Bind        string   `koanf:"bind"`
	Port        int      `koanf:"port"`
	CreatorKey  string   `koanf:"creator_key"`
	PublicURL   string   `koanf:"public_url"` // base for relative card URLs
	CORSOrigins []string `koanf:"cors_origins"`
	RateLimit   int      `koanf:"rate_limit"` // requests per minute per IP on /api
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type LLMConfig struct {
	Provider     string        `koanf:"provider"` // "openai", "anthropic", "ollama", "claude-cli"
	Model        string        `koanf:"model"`
	OpenAIKey    string        `koanf:"openai_key"`
	OpenAIURL    string        `koanf:"openai_url"`
	AnthropicKey string        `koanf:"anthropic_key"`
	OllamaURL    string        `koanf:"ollama_url"`
	OllamaModel  string        `koanf:"ollama_model"`
	Timeout      time.Duration `koanf:"timeout"`
	MaxFailures  uint32        `koanf:"max_failures"` // consecutive failures before the breaker opens
	CoolDown     time.Duration `koanf:"cool_down"`
}

type TranslateConfig struct {
	Provider string `koanf:"provider"` // "hint", "llm", "none"
}

type SocialConfig struct {
	GraphURL        string        `koanf:"graph_url"`
	GraphVersion    string        `koanf:"graph_version"`
	InstagramUserID string        `koanf:"instagram_user_id"`
	AccessToken     string        `koanf:"access_token"`
	FacebookPageID  string        `koanf:"facebook_page_id"`
	FacebookToken   string        `koanf:"facebook_token"`
	PollAttempts    int           `koanf:"poll_attempts"`
	PollInterval    time.Duration `koanf:"poll_interval"`
	TestImageURL    string        `koanf:"test_image_url"`
}

type AssetsConfig struct {
	CloudName string `koanf:"cloud_name"`
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
	Folder    string `koanf:"folder"`
	UploadURL string `koanf:"upload_url"`
}

type CardsConfig struct {
	Dir         string `koanf:"dir"`
	CaptionsDir string `koanf:"captions_dir"`
	FontPath    string `koanf:"font_path"`
	Size        int    `koanf:"size"`
}

// GenerateJob queues one creator card of Kind whenever Spec fires.
type GenerateJob struct {
	Spec string `koanf:"spec"`
	Kind string `koanf:"kind"`
}

type ScheduleConfig struct {
	Enabled     bool          `koanf:"enabled"`
	Timezone    string        `koanf:"timezone"`
	Generate    []GenerateJob `koanf:"generate"`
	Post        []string      `koanf:"post"`
	Source      string        `koanf:"source"` // "queue" or "manifest"
	RotateEvery time.Duration `koanf:"rotate_every"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind:      "127.0.0.1",
			Port:      8787,
			RateLimit: 120,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-5.1",
			OpenAIURL:   "https://api.openai.com/v1/responses",
			OllamaURL:   "http://localhost:11434",
			OllamaModel: "llama3.2",
			Timeout:     60 * time.Second,
			MaxFailures: 5,
			CoolDown:    30 * time.Second,
		},
		Translate: TranslateConfig{
			Provider: "hint",
		},
		Social: SocialConfig{
			GraphURL:     "https://graph.facebook.com",
			GraphVersion: "v21.0",
			PollAttempts: 20,
			PollInterval: 2 * time.Second,
			TestImageURL: "https://storage.googleapis.com/graph-explorer-api-samples/jerry.jpg",
		},
		Assets: AssetsConfig{
			Folder:    "11eleven",
			UploadURL: "https://api.cloudinary.com/v1_1",
		},
		Cards: CardsConfig{
			Dir:         "cards",
			CaptionsDir: "captions",
			Size:        1080,
		},
		Schedule: ScheduleConfig{
			Enabled:  true,
			Timezone: "America/Chicago",
			Generate: []GenerateJob{
				{Spec: "0 9 * * *", Kind: "early"},
				{Spec: "0 15 * * *", Kind: "early"},
				{Spec: "0 20 * * *", Kind: "deep"},
				{Spec: "11 11 * * *", Kind: "1111"},
				{Spec: "11 23 * * *", Kind: "1111"},
			},
			Post: []string{
				"0 9 * * *",
				"0 15 * * *",
				"0 20 * * *",
				"11 11 * * *",
				"11 23 * * *",
			},
			Source: "queue",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

// Location returns the scheduler time zone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	if c.Schedule.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
