package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Tickers map[string]string `yaml:"tickers"` // symbol -> zero-padded CIK

	WindowDays int    `yaml:"window_days"`
	OutputDir  string `yaml:"output_dir"`

	Edgar struct {
		BaseURL           string  `yaml:"base_url"`
		UserAgent         string  `yaml:"user_agent"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
	} `yaml:"edgar"`

	MarketData struct {
		QuoteURL       string `yaml:"quote_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"market_data"`

	Classifier struct {
		Provider            string  `yaml:"provider"` // OPENAI or KEYWORD
		Model               string  `yaml:"model"`
		BatchSize           int     `yaml:"batch_size"`
		ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	} `yaml:"classifier"`

	Sources struct {
		GoogleEnabled  bool `yaml:"google_enabled"`
		YouTubeEnabled bool `yaml:"youtube_enabled"`
		MaxResults     int  `yaml:"max_results"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
	} `yaml:"sources"`

	Fusion struct {
		SourceWeights      map[string]float64 `yaml:"source_weights"`
		InsiderWeight      float64            `yaml:"insider_weight"`
		RenormalizeMissing bool               `yaml:"renormalize_missing"`
	} `yaml:"fusion"`
}

func (c *Config) Validate() error {
	if c.WindowDays <= 0 {
		return fmt.Errorf("window_days must be positive, got %d", c.WindowDays)
	}
	if c.Classifier.Provider != "OPENAI" && c.Classifier.Provider != "KEYWORD" {
		return fmt.Errorf("classifier.provider must be 'OPENAI' or 'KEYWORD', got '%s'", c.Classifier.Provider)
	}
	if c.Classifier.ConfidenceThreshold < 0 || c.Classifier.ConfidenceThreshold > 1 {
		return fmt.Errorf("classifier.confidence_threshold must be between 0-1, got %.2f", c.Classifier.ConfidenceThreshold)
	}
	if c.Fusion.InsiderWeight < 0 {
		return errors.New("fusion.insider_weight cannot be negative")
	}
	for name, w := range c.Fusion.SourceWeights {
		if w < 0 {
			return fmt.Errorf("fusion.source_weights[%s] cannot be negative, got %.2f", name, w)
		}
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.WindowDays == 0 {
		c.WindowDays = 183
	}
	if c.OutputDir == "" {
		c.OutputDir = "data"
	}
	if c.Edgar.BaseURL == "" {
		c.Edgar.BaseURL = "https://data.sec.gov"
	}
	if c.Edgar.RequestsPerSecond == 0 {
		// SEC fair-access limit is 10 req/s; stay under it.
		c.Edgar.RequestsPerSecond = 8
	}
	if c.Edgar.TimeoutSeconds == 0 {
		c.Edgar.TimeoutSeconds = 30
	}
	if c.MarketData.QuoteURL == "" {
		c.MarketData.QuoteURL = "https://query1.finance.yahoo.com/v7/finance/quote"
	}
	if c.MarketData.TimeoutSeconds == 0 {
		c.MarketData.TimeoutSeconds = 20
	}
	if c.Classifier.Provider == "" {
		c.Classifier.Provider = "KEYWORD"
	}
	if c.Classifier.BatchSize == 0 {
		c.Classifier.BatchSize = 32
	}
	if c.Classifier.ConfidenceThreshold == 0 {
		c.Classifier.ConfidenceThreshold = 0.85
	}
	if c.Sources.MaxResults == 0 {
		c.Sources.MaxResults = 25
	}
	if c.Sources.TimeoutSeconds == 0 {
		c.Sources.TimeoutSeconds = 30
	}
	if c.Fusion.SourceWeights == nil {
		c.Fusion.SourceWeights = map[string]float64{
			"GoogleSearch": 0.5,
			"YouTube":      0.4,
		}
	}
	if c.Fusion.InsiderWeight == 0 {
		c.Fusion.InsiderWeight = 0.1
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
