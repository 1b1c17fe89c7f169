package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar overrides the config file search.
const PathEnvVar = "CONFIG_PATH"

// DefaultPaths lists config files searched in order when no path is given.
var DefaultPaths = []string{
	"oracle.yaml",
	"oracle.yml",
	"/etc/oracle/oracle.yaml",
}

// envMappings maps supported environment variables to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"port":               "server.port",
	"oracle_bind":        "server.bind",
	"creator_key":        "server.creator_key",
	"public_url":         "server.public_url",
	"cors_origins":       "server.cors_origins",
	"oracle_db":          "database.path",
	"llm_provider":       "llm.provider",
	"llm_model":          "llm.model",
	"openai_api_key":     "llm.openai_key",
	"anthropic_api_key":  "llm.anthropic_key",
	"ollama_url":         "llm.ollama_url",
	"ollama_model":       "llm.ollama_model",
	"translate_provider": "translate.provider",
	"fb_ig_access_token": "social.access_token",
	"fb_account_id":      "social.instagram_user_id",
	"fb_page_id":         "social.facebook_page_id",
	"fb_page_token":      "social.facebook_token",
	"test_image_url":     "social.test_image_url",
	"cloudinary_cloud":   "assets.cloud_name",
	"cloudinary_key":     "assets.api_key",
	"cloudinary_secret":  "assets.api_secret",
	"cards_dir":          "cards.dir",
	"card_font":          "cards.font_path",
	"oracle_timezone":    "schedule.timezone",
	"oracle_schedule":    "schedule.enabled",
	"posting_source":     "schedule.source",
	"log_level":          "logging.level",
	"log_format":         "logging.format",
	"log_caller":         "logging.caller",
}

// sliceKeys are config paths that arrive from the environment as
// comma-separated strings.
var sliceKeys = []string{
	"server.cors_origins",
	"schedule.post",
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in increasing priority. An empty path searches
// CONFIG_PATH and DefaultPaths.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := Default()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := splitSlices(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func envTransform(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

func splitSlices(k *koanf.Koanf) error {
	for _, path := range sliceKeys {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// Validate checks enumerated settings and numeric ranges.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.LLM.Provider {
	case "openai", "anthropic", "ollama", "claude-cli":
	default:
		return fmt.Errorf("unknown llm.provider %q", c.LLM.Provider)
	}
	switch c.Translate.Provider {
	case "hint", "llm", "none":
	default:
		return fmt.Errorf("unknown translate.provider %q", c.Translate.Provider)
	}
	switch c.Schedule.Source {
	case "queue", "manifest":
	default:
		return fmt.Errorf("unknown schedule.source %q", c.Schedule.Source)
	}
	if c.Social.PollAttempts < 1 {
		return fmt.Errorf("social.poll_attempts must be positive")
	}
	if c.Social.PollInterval < 0 {
		return fmt.Errorf("social.poll_interval must not be negative")
	}
	if c.Schedule.RotateEvery != 0 && c.Schedule.RotateEvery < time.Minute {
		return fmt.Errorf("schedule.rotate_every must be at least 1m")
	}
	if c.Schedule.Timezone != "" {
		if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
			return fmt.Errorf("schedule.timezone: %w", err)
		}
	}
	return nil
}
