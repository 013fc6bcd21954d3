package app

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"cipherforge/internal/assistant"
)

// Config controls runtime behavior for the dashboard.
type Config struct {
	APIKey        string `env:"GEMINI_API_KEY"`
	Model         string `env:"CIPHERFORGE_MODEL" envDefault:"gemini-2.5-flash"`
	AssistantMode string `env:"CIPHERFORGE_ASSISTANT" envDefault:"auto"`
	Personality   string `env:"CIPHERFORGE_PERSONALITY" envDefault:"enigmatic_hacker"`
	CatalogDir    string `env:"CIPHERFORGE_CATALOG_DIR"`
	LogPath       string `env:"CIPHERFORGE_LOG"`
	ASCIIOnly     bool   `env:"CIPHERFORGE_ASCII"`
	DebugLayout   bool   `env:"CIPHERFORGE_DEBUG_LAYOUT"`
	UI            UIConfig
}

type UIConfig struct {
	StyleVariant string `env:"CIPHERFORGE_STYLE" envDefault:"neon_grid"`
	MotionLevel  string `env:"CIPHERFORGE_MOTION" envDefault:"full"`
	MouseScope   string `env:"CIPHERFORGE_MOUSE" envDefault:"scoped"`
}

func DefaultConfig() Config {
	return Config{
		Model:         "gemini-2.5-flash",
		AssistantMode: "auto",
		Personality:   "enigmatic_hacker",
		UI: UIConfig{
			StyleVariant: "neon_grid",
			MotionLevel:  "full",
			MouseScope:   "scoped",
		},
	}
}

// FromEnv builds the config from the process environment, reading a
// .env file first when one is present.
func FromEnv() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.AssistantMode {
	case "", "auto", "mock", "off":
	default:
		return fmt.Errorf("invalid assistant mode %q", c.AssistantMode)
	}
	if c.AssistantMode == "" {
		c.AssistantMode = "auto"
	}

	if c.Model == "" {
		c.Model = assistant.DefaultModel
	}

	if c.Personality == "" {
		c.Personality = "enigmatic_hacker"
	}
	if _, err := assistant.ParsePersonality(c.Personality); err != nil {
		return err
	}

	switch c.UI.StyleVariant {
	case "", "neon_grid", "phosphor", "midnight":
	default:
		return fmt.Errorf("invalid ui style variant %q", c.UI.StyleVariant)
	}
	if c.UI.StyleVariant == "" {
		c.UI.StyleVariant = "neon_grid"
	}
	switch c.UI.MotionLevel {
	case "", "off", "reduced", "full":
	default:
		return fmt.Errorf("invalid ui motion level %q", c.UI.MotionLevel)
	}
	if c.UI.MotionLevel == "" {
		c.UI.MotionLevel = "full"
	}
	switch c.UI.MouseScope {
	case "", "off", "scoped", "full":
	default:
		return fmt.Errorf("invalid ui mouse scope %q", c.UI.MouseScope)
	}
	if c.UI.MouseScope == "" {
		c.UI.MouseScope = "scoped"
	}

	return nil
}
