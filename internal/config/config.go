package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file kept at the root of the data directory.
const FileName = "fintrack.yaml"

// Config represents the top-level fintrack.yaml configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Auth     AuthConfig     `yaml:"auth"`
	Currency CurrencyConfig `yaml:"currency"`
	Tax      TaxConfig      `yaml:"tax"`
	Logging  LoggingConfig  `yaml:"logging"`
	Git      GitConfig      `yaml:"git"`
}

// StorageConfig selects the record store backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "json" or "sqlite"
	Path    string `yaml:"path"`    // relative paths resolve against the data dir
}

// AuthConfig locates the credentials file.
type AuthConfig struct {
	Path string `yaml:"path"`
}

// CurrencyConfig holds the fixed conversion table. A rate is the number of
// base units per one unit of the keyed currency.
type CurrencyConfig struct {
	Base  string             `yaml:"base"`
	Rates map[string]float64 `yaml:"rates"`
}

// TaxConfig configures the flat percentage calculator and the progressive
// bracket schedule.
type TaxConfig struct {
	FlatRate float64         `yaml:"flat_rate"` // percent, e.g. 15
	Brackets []BracketConfig `yaml:"brackets"`
}

// BracketConfig taxes income in (Lower, Upper] at Rate percent. Upper 0
// marks the open-ended top bracket.
type BracketConfig struct {
	Lower float64 `yaml:"lower"`
	Upper float64 `yaml:"upper"`
	Rate  float64 `yaml:"rate"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// GitConfig controls committing the data directory after each save.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a fintrack.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault reads <dataDir>/fintrack.yaml, falling back to defaults when
// the file does not exist.
func LoadOrDefault(dataDir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dataDir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the built-in rate table and tax settings.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "json",
			Path:    "records.json",
		},
		Auth: AuthConfig{
			Path: "users.json",
		},
		Currency: CurrencyConfig{
			Base: "BDT",
			Rates: map[string]float64{
				"USD": 95,
				"EUR": 110,
				"INR": 1.3,
			},
		},
		Tax: TaxConfig{
			FlatRate: 15,
			Brackets: []BracketConfig{
				{Lower: 0, Upper: 300000, Rate: 0},
				{Lower: 300000, Upper: 700000, Rate: 10},
				{Lower: 700000, Upper: 3000000, Rate: 15},
				{Lower: 3000000, Upper: 0, Rate: 25},
			},
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "fintrack",
			AuthorEmail: "fintrack@localhost",
		},
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.Storage.Backend {
	case "json", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("invalid storage backend %q: must be json or sqlite", c.Storage.Backend))
	}
	if c.Storage.Path == "" {
		problems = append(problems, "storage path is empty")
	}
	if c.Auth.Path == "" {
		problems = append(problems, "auth path is empty")
	}

	if strings.TrimSpace(c.Currency.Base) == "" {
		problems = append(problems, "currency base is empty")
	}
	for code, rate := range c.Currency.Rates {
		if rate <= 0 {
			problems = append(problems, fmt.Sprintf("currency rate for %s must be positive, got %v", code, rate))
		}
	}

	if c.Tax.FlatRate < 0 {
		problems = append(problems, fmt.Sprintf("flat tax rate must not be negative, got %v", c.Tax.FlatRate))
	}

	problems = append(problems, validateBrackets(c.Tax.Brackets)...)

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format %q", c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Resolve joins a configured path onto dataDir unless it is already absolute.
func Resolve(dataDir, path string) string {
	path = ExpandPath(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataDir, path)
}

// validateBrackets checks that the schedule starts at zero, is contiguous and
// only leaves its last bracket open-ended. An empty schedule is allowed and
// means the built-in one.
func validateBrackets(brackets []BracketConfig) []string {
	var problems []string
	for i, b := range brackets {
		if i == 0 && b.Lower != 0 {
			problems = append(problems, fmt.Sprintf("tax bracket 1 must start at 0, got %v", b.Lower))
		}
		if i > 0 && b.Lower != brackets[i-1].Upper {
			problems = append(problems, fmt.Sprintf("tax bracket %d must start at %v, got %v", i+1, brackets[i-1].Upper, b.Lower))
		}
		last := i == len(brackets)-1
		if b.Upper == 0 && !last {
			problems = append(problems, fmt.Sprintf("tax bracket %d is open-ended but not last", i+1))
		}
		if b.Upper != 0 && b.Upper <= b.Lower {
			problems = append(problems, fmt.Sprintf("tax bracket %d upper %v must exceed lower %v", i+1, b.Upper, b.Lower))
		}
		if b.Rate < 0 || b.Rate > 100 {
			problems = append(problems, fmt.Sprintf("tax bracket %d rate must be between 0 and 100, got %v", i+1, b.Rate))
		}
	}
	return problems
}
