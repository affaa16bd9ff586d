// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	//backend the tracker's REST API lives on
	BackendURL      string `yaml:"backend_url" env:"BACKEND_URL"`
	BackendEmail    string `yaml:"backend_email" env:"BACKEND_EMAIL"`
	BackendPassword string `yaml:"backend_password" env:"BACKEND_PASSWORD"`

	//page to autofill and where the control surface listens
	TargetURL  string `yaml:"target_url" env:"TARGET_URL"`
	ListenAddr string `yaml:"listen_addr"`

	//browser
	Headless    bool   `yaml:"headless"`
	CookiesPath string `yaml:"cookies_path"`

	//persistence + debug artifacts
	StorePath       string `yaml:"store_path"`
	ScreenshotsPath string `yaml:"screenshots_path"`

	//optional run notifications
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`

	//per-platform enable flags; platforms absent from the map are enabled
	Platforms map[string]bool `yaml:"platforms"`

	//never submit without explicit consent
	AutoSubmit bool `yaml:"auto_submit"`

	DefaultResumeVersion string `yaml:"default_resume_version"`

	//custom-question policy: explicit, reviewable answers instead of
	//hard-coded heuristics; demographic questions are never answered
	WorkAuthorizationAnswer string `yaml:"work_authorization_answer"`
	SponsorshipAnswer       string `yaml:"sponsorship_answer"`
}

// Default returns a config with every default applied and nothing validated.
// Harnesses that never touch the backend use this directly.
func Default() *Config {
	return &Config{
		ListenAddr:              ":8090",
		Headless:                true,
		CookiesPath:             ".cookies",
		StorePath:               ".store",
		ScreenshotsPath:         "screenshots",
		WorkAuthorizationAnswer: "Yes",
		SponsorshipAnswer:       "No",
	}
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	if v := os.Getenv("BACKEND_URL"); v != "" {
		cfg.BackendURL = v
	}
	if v := os.Getenv("BACKEND_EMAIL"); v != "" {
		cfg.BackendEmail = v
	}
	if v := os.Getenv("BACKEND_PASSWORD"); v != "" {
		cfg.BackendPassword = v
	}
	if v := os.Getenv("TARGET_URL"); v != "" {
		cfg.TargetURL = v
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	//Validate required fields
	if cfg.BackendURL == "" {
		log.Fatal("BACKEND_URL is required")
	}

	return cfg
}

// PlatformEnabled reports whether a platform may be autofilled. Unlisted
// platforms default to enabled.
func (c *Config) PlatformEnabled(name string) bool {
	if c.Platforms == nil {
		return true
	}
	enabled, ok := c.Platforms[name]
	if !ok {
		return true
	}
	return enabled
}
