// Package config holds all knowledgedrop configuration.
// Configuration lives in a single YAML file; environment variables
// override the secrets and vault location so a .env file keeps working
// the way it always has.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all knowledgedrop configuration.
type Config struct {
	// HTTP client settings shared by every outbound call
	HTTP HTTPConfig `yaml:"http"`

	// Content extraction bounds
	Content ContentConfig `yaml:"content"`

	// Knowledge sources, rotation and fallback chains
	Providers ProvidersConfig `yaml:"providers"`

	// Gemini summary generation
	LLM LLMConfig `yaml:"llm"`

	// Obsidian vault output
	Vault VaultConfig `yaml:"vault"`

	// Daily schedule for the daemon mode
	Schedule ScheduleConfig `yaml:"schedule"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// HTTPConfig configures the shared outbound HTTP behavior.
type HTTPConfig struct {
	Timeout string `yaml:"timeout"` // e.g. "10s"
}

// TimeoutDuration parses the configured timeout, falling back to 10s.
func (c HTTPConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// ContentConfig bounds extracted article text.
type ContentConfig struct {
	MaxLength int `yaml:"max_length"`
}

// FeedConfig describes one feed-backed source.
type FeedConfig struct {
	URL   string `yaml:"url"`
	Label string `yaml:"label"`
}

// WikipediaConfig configures the random category-member lookup.
type WikipediaConfig struct {
	APIURL     string   `yaml:"api_url"`
	SummaryURL string   `yaml:"summary_url"`
	Categories []string `yaml:"categories"`
	PageLimit  int      `yaml:"page_limit"`
}

// PlatoConfig configures the encyclopedia random-entry lookup.
type PlatoConfig struct {
	RandomURL string `yaml:"random_url"`
}

// BreakerConfig configures the optional per-provider circuit breaker.
type BreakerConfig struct {
	Enabled             bool   `yaml:"enabled"`
	ConsecutiveFailures uint32 `yaml:"consecutive_failures"`
	Timeout             string `yaml:"timeout"`
}

// TimeoutDuration parses the breaker open-state timeout, falling back to 30s.
func (c BreakerConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// ProvidersConfig configures the content sources.
type ProvidersConfig struct {
	// Rotation maps Monday..Friday onto provider names, in order.
	Rotation []string `yaml:"rotation"`

	// Fallbacks lists the alternates tried when a primary fails.
	Fallbacks map[string][]string `yaml:"fallbacks"`

	// MaxFallbacks caps failed attempts before giving up early.
	MaxFallbacks int `yaml:"max_fallbacks"`

	Feeds     map[string]FeedConfig `yaml:"feeds"`
	Wikipedia WikipediaConfig       `yaml:"wikipedia"`
	Plato     PlatoConfig           `yaml:"plato"`
	Breaker   BreakerConfig         `yaml:"breaker"`
}

// LLMConfig configures the Gemini client.
type LLMConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

// TimeoutDuration parses the generation timeout, falling back to 60s.
func (c LLMConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// VaultConfig configures the Obsidian vault output.
type VaultConfig struct {
	Path   string `yaml:"path"`
	Name   string `yaml:"name"`
	Subdir string `yaml:"subdir"`
}

// ScheduleConfig configures the daemon mode.
type ScheduleConfig struct {
	Cron string `yaml:"cron"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the configuration the original daily run used.
func DefaultConfig() *Config {
	return &Config{
		HTTP:    HTTPConfig{Timeout: "10s"},
		Content: ContentConfig{MaxLength: 2000},
		Providers: ProvidersConfig{
			Rotation: []string{"wikipedia", "science", "jstor", "nautilus", "pesquisa_fapesp"},
			Fallbacks: map[string][]string{
				"wikipedia":       {"pesquisa_fapesp", "jstor"},
				"science":         {"wikipedia", "nautilus"},
				"jstor":           {"science", "wikipedia"},
				"pesquisa_fapesp": {"science", "jstor"},
				"nautilus":        {"pesquisa_fapesp", "wikipedia"},
				"plato":           {"wikipedia", "jstor"},
			},
			MaxFallbacks: 2,
			Feeds: map[string]FeedConfig{
				"jstor":           {URL: "https://daily.jstor.org/feed/", Label: "JSTOR"},
				"pesquisa_fapesp": {URL: "https://revistapesquisa.fapesp.br/feed/", Label: "Pesquisa FAPESP"},
				"nautilus":        {URL: "https://nautil.us/feed/", Label: "Nautilus"},
				"science":         {URL: "https://www.science.org/rss/news_current.xml", Label: "Science"},
				"daily_stoic":     {URL: "https://dailystoic.com/feed/", Label: "Daily Stoic"},
			},
			Wikipedia: WikipediaConfig{
				APIURL:     "https://pt.wikipedia.org/w/api.php",
				SummaryURL: "https://pt.wikipedia.org/api/rest_v1/page/summary",
				Categories: []string{
					"Aracnologia",
					"Astronomia",
					"Biologia",
					"Ciências naturais",
					"Cosmologia",
					"Cristianismo",
					"Física",
					"História antiga",
					"História da ciência",
					"História da Igreja",
					"História da religião",
					"Mitologia",
					"Paleontologia",
					"Reforma Protestante",
					"Sobrevivência",
					"Tecnologia",
					"Tolkien",
				},
				PageLimit: 50,
			},
			Plato: PlatoConfig{
				RandomURL: "https://plato.stanford.edu/cgi-bin/encyclopedia/random",
			},
			Breaker: BreakerConfig{
				Enabled:             false,
				ConsecutiveFailures: 3,
				Timeout:             "30s",
			},
		},
		LLM: LLMConfig{
			Model:   "gemini-2.5-flash",
			Timeout: "60s",
		},
		Vault: VaultConfig{
			Path:   "./vault",
			Subdir: "Inbox",
		},
		Schedule: ScheduleConfig{Cron: "0 7 * * *"},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML config file, layering it over the defaults and
// applying environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// Save writes the config as YAML, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides layers environment variables over the file values.
// GEMINI_API_KEY wins over the legacy API_KEY name.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("OBSIDIAN_VAULT_NAME"); v != "" {
		c.Vault.Name = v
	}
	if v := os.Getenv("VAULT_PATH"); v != "" {
		c.Vault.Path = v
	}
}

// Validate checks that every referenced provider name can actually be
// built from this configuration, so a typo fails at startup instead of
// at 7am.
func (c *Config) Validate() error {
	known := map[string]bool{
		"wikipedia": true,
		"plato":     true,
	}
	for name := range c.Providers.Feeds {
		known[name] = true
	}

	if len(c.Providers.Rotation) == 0 {
		return fmt.Errorf("providers.rotation must not be empty")
	}
	for _, name := range c.Providers.Rotation {
		if !known[name] {
			return fmt.Errorf("providers.rotation references unknown provider %q", name)
		}
	}
	for primary, alts := range c.Providers.Fallbacks {
		if !known[primary] {
			return fmt.Errorf("providers.fallbacks references unknown provider %q", primary)
		}
		for _, alt := range alts {
			if !known[alt] {
				return fmt.Errorf("fallbacks for %q reference unknown provider %q", primary, alt)
			}
		}
	}

	if c.Providers.MaxFallbacks < 0 {
		return fmt.Errorf("providers.max_fallbacks must not be negative")
	}
	if c.Content.MaxLength <= 0 {
		return fmt.Errorf("content.max_length must be positive")
	}
	if _, err := time.ParseDuration(c.HTTP.Timeout); err != nil {
		return fmt.Errorf("http.timeout is not a valid duration: %w", err)
	}
	if c.Vault.Path == "" {
		return fmt.Errorf("vault.path must not be empty")
	}
	return nil
}
