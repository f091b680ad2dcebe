package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Topic tables
	Topics    []Topic  `yaml:"topics"`
	Sites     []string `yaml:"sites"`
	Modifiers []string `yaml:"search_modifiers"`

	// Search settings
	Search SearchConfig `yaml:"search"`

	// LLM settings
	LLM LLMConfig `yaml:"llm"`

	// TTS settings
	TTS TTSConfig `yaml:"tts"`

	// Image settings
	Images ImageConfig `yaml:"images"`

	// Clip timing and encoding
	Timing TimingConfig `yaml:"timing"`

	// Output layout
	Output OutputConfig `yaml:"output"`
}

// Topic maps a display label to its alternate search phrases.
// Topics are iterated in declaration order throughout the run.
type Topic struct {
	Name    string   `yaml:"name"`
	Queries []string `yaml:"queries"`
}

type SearchConfig struct {
	SnippetsPerQuery int `yaml:"snippets_per_query"`
	SitesPerTopic    int `yaml:"sites_per_topic"`
	SummaryMaxChars  int `yaml:"summary_max_chars"`
}

type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	APIKeyEnv   string  `yaml:"api_key_env"`
}

type TTSConfig struct {
	Voice  string  `yaml:"voice"`
	Rate   int     `yaml:"rate"`
	Volume float64 `yaml:"volume"`
}

type ImageConfig struct {
	MinSize       int `yaml:"min_size"`
	MaxCandidates int `yaml:"max_candidates"`
	TimeoutSec    int `yaml:"timeout_sec"`
}

type TimingConfig struct {
	PreRoll float64 `yaml:"pre_roll"`
	Fade    float64 `yaml:"fade"`
	TailPad float64 `yaml:"tail_pad"`
	FPS     int     `yaml:"fps"`
}

type OutputConfig struct {
	Root             string `yaml:"root"`
	KeepIntermediate bool   `yaml:"keep_intermediate"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the renderer cannot honor.
func (c *Config) Validate() error {
	if c.Timing.PreRoll < 0 || c.Timing.Fade < 0 || c.Timing.TailPad < 0 {
		return fmt.Errorf("timing values must be non-negative")
	}
	if c.Timing.FPS <= 0 {
		return fmt.Errorf("fps must be positive")
	}
	seen := make(map[string]bool, len(c.Topics))
	for _, t := range c.Topics {
		if t.Name == "" {
			return fmt.Errorf("topic with empty name")
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate topic %q", t.Name)
		}
		seen[t.Name] = true
	}
	return nil
}

// AudioDir is where per-section narration audio lands.
func (c *Config) AudioDir() string { return filepath.Join(c.Output.Root, "audio_clips") }

// ImageDir is where validated topic images land.
func (c *Config) ImageDir() string { return filepath.Join(c.Output.Root, "images") }

// SlideDir is where exported slide rasters land.
func (c *Config) SlideDir() string { return filepath.Join(c.Output.Root, "slides") }

// ClipDir is where per-section rendered clips land.
func (c *Config) ClipDir() string { return filepath.Join(c.Output.Root, "clips") }

// DeckFile is the persisted slide deck document.
func (c *Config) DeckFile() string { return filepath.Join(c.Output.Root, "news_roundup_deck.json") }

// FinalVideo is the concatenated output artifact.
func (c *Config) FinalVideo() string { return filepath.Join(c.Output.Root, "news_roundup.mp4") }

// FinalAudio is the standalone audio track extracted from the final video.
func (c *Config) FinalAudio() string { return filepath.Join(c.Output.Root, "news_roundup_audio.m4a") }

// LogFile is the persisted run log.
func (c *Config) LogFile() string { return filepath.Join(c.Output.Root, "run.log") }

// Default returns the built-in topic tables and timing used when no
// config file is present.
func Default() *Config {
	return &Config{
		Topics: []Topic{
			{Name: "Anthropic", Queries: []string{"Anthropic news", "Claude AI updates", "Anthropic announcements"}},
			{Name: "OpenAI", Queries: []string{"OpenAI news", "OpenAI announcements", "GPT-5 updates", "ChatGPT news"}},
			{Name: "Humanoid Robots", Queries: []string{"humanoid robot news", "robotics breakthroughs", "AI-powered robots"}},
			{Name: "AI Startups", Queries: []string{"AI startup venture capital", "AI funding news", "AI startup acquisitions"}},
		},
		Sites: []string{
			"theverge.com",
			"arstechnica.com",
			"techcrunch.com",
			"the-decoder.com",
			"sciencedaily.com",
		},
		Modifiers: []string{"latest", "breaking", "update", "research"},
		Search: SearchConfig{
			SnippetsPerQuery: 5,
			SitesPerTopic:    2,
			SummaryMaxChars:  400,
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			Model:       "meta-llama/llama-4-scout-17b-16e-instruct",
			Temperature: 0.2,
			APIKeyEnv:   "GROQ_API_KEY",
		},
		TTS: TTSConfig{
			Voice:  "en-US-AriaNeural",
			Rate:   175,
			Volume: 0.9,
		},
		Images: ImageConfig{
			MinSize:       100,
			MaxCandidates: 5,
			TimeoutSec:    10,
		},
		Timing: TimingConfig{
			PreRoll: 0.6,
			Fade:    0.4,
			TailPad: 0.2,
			FPS:     24,
		},
		Output: OutputConfig{
			Root:             "output",
			KeepIntermediate: false,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		filepath.Join(os.Getenv("HOME"), ".newsroundup", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
