package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Sources    Sources    `yaml:"sources"`
	NLP        NLP        `yaml:"nlp"`
	LLM        LLM        `yaml:"llm"`
	Generation Generation `yaml:"generation"`
	Domain     Domain     `yaml:"domain"`
	Output     Output     `yaml:"output"`
	Server     Server     `yaml:"server"`
	Logging    Logging    `yaml:"logging"`
}

type Sources struct {
	Feeds []Feed `yaml:"feeds"`
	Inbox string `yaml:"inbox"`
}

type Feed struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

// NLP points at the annotation engine that tags the cleaned transcript.
type NLP struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

type LLM struct {
	Provider        string        `yaml:"provider"`
	Model           string        `yaml:"model"`
	OllamaURL       string        `yaml:"ollama_url"`
	OpenAIModel     string        `yaml:"openai_model"`
	APIKeyEnv       string        `yaml:"api_key_env"`
	GeminiModel     string        `yaml:"gemini_model"`
	GeminiAPIKeyEnv string        `yaml:"gemini_api_key_env"`
	Temperature     float64       `yaml:"temperature"`
	MaxTokens       int           `yaml:"max_tokens"`
	Timeout         time.Duration `yaml:"timeout"`
	Retries         int           `yaml:"retries"`
}

// Generation holds the length and count contracts of the generated artifacts.
type Generation struct {
	BlogTitleMax      int    `yaml:"blog_title_max"`
	BlogSections      int    `yaml:"blog_sections"`
	ExcerptLength     int    `yaml:"excerpt_length"`
	FAQMinQuestions   int    `yaml:"faq_min_questions"`
	FAQMaxAnswer      int    `yaml:"faq_max_answer"`
	SummaryMinWords   int    `yaml:"summary_min_words"`
	SummaryMaxWords   int    `yaml:"summary_max_words"`
	MaxTakeaways      int    `yaml:"max_takeaways"`
	SEOTitleMax       int    `yaml:"seo_title_max"`
	SEODescriptionMax int    `yaml:"seo_description_max"`
	SEOMinKeywords    int    `yaml:"seo_min_keywords"`
	BrandName         string `yaml:"brand_name"`
}

// Domain customizes term expansion and the context preamble for rewrites.
type Domain struct {
	Terms   map[string]string `yaml:"terms"`
	Phrases []string          `yaml:"phrases"`
	Context string            `yaml:"context"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for contentforge.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "contentforge")
}

// DataDir returns the XDG data directory for contentforge.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "contentforge")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/contentforge/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'contentforge init' to create a default config",
		xdgConfig,
	)
}

// Load reads, parses and validates a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file overrides anything.
func Default() *Config {
	return &Config{
		NLP: NLP{
			Endpoint: "http://localhost:8080",
			Timeout:  30 * time.Second,
		},
		LLM: LLM{
			Provider:        "openai",
			Model:           "qwen2.5:7b",
			OllamaURL:       "http://localhost:11434",
			OpenAIModel:     "gpt-4o-mini",
			APIKeyEnv:       "OPENAI_API_KEY",
			GeminiModel:     "gemini-2.5-flash",
			GeminiAPIKeyEnv: "GEMINI_API_KEY",
			Temperature:     0.7,
			MaxTokens:       1500,
			Timeout:         60 * time.Second,
			Retries:         2,
		},
		Generation: Generation{
			BlogTitleMax:      60,
			BlogSections:      3,
			ExcerptLength:     73,
			FAQMinQuestions:   3,
			FAQMaxAnswer:      150,
			SummaryMinWords:   150,
			SummaryMaxWords:   200,
			MaxTakeaways:      3,
			SEOTitleMax:       60,
			SEODescriptionMax: 155,
			SEOMinKeywords:    2,
			BrandName:         "Your Podcast Name",
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Validate rejects contracts that cannot be satisfied.
func (c *Config) Validate() error {
	g := c.Generation
	positive := []struct {
		name string
		v    int
	}{
		{"generation.blog_title_max", g.BlogTitleMax},
		{"generation.blog_sections", g.BlogSections},
		{"generation.excerpt_length", g.ExcerptLength},
		{"generation.faq_min_questions", g.FAQMinQuestions},
		{"generation.faq_max_answer", g.FAQMaxAnswer},
		{"generation.summary_min_words", g.SummaryMinWords},
		{"generation.summary_max_words", g.SummaryMaxWords},
		{"generation.max_takeaways", g.MaxTakeaways},
		{"generation.seo_title_max", g.SEOTitleMax},
		{"generation.seo_description_max", g.SEODescriptionMax},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.name, p.v)
		}
	}
	if g.SummaryMinWords > g.SummaryMaxWords {
		return fmt.Errorf("generation.summary_min_words (%d) exceeds summary_max_words (%d)",
			g.SummaryMinWords, g.SummaryMaxWords)
	}
	if c.LLM.Retries < 0 {
		return fmt.Errorf("llm.retries must not be negative")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive")
	}
	return nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// GetInbox returns the transcript inbox watched by the watch command.
func (c *Config) GetInbox() string {
	if c.Sources.Inbox != "" {
		return c.Sources.Inbox
	}
	return filepath.Join(c.GetDataDir(), "inbox")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
