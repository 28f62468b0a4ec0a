// Package config loads scanner configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"example.com/stock-pattern-scanner/internal/symbols"
)

// Config represents the application configuration.
type Config struct {
	Scanner  ScannerConfig  `yaml:"scanner"`
	Data     DataConfig     `yaml:"data"`
	Email    EmailConfig    `yaml:"email"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Output   OutputConfig   `yaml:"output"`
}

// ScannerConfig holds scan settings.
type ScannerConfig struct {
	Patterns      []string `yaml:"patterns"`
	Symbols       []string `yaml:"symbols"`
	SymbolFile    string   `yaml:"symbol_file"`
	Lookback      int      `yaml:"lookback"`       // trailing bars per symbol
	MinConfidence int      `yaml:"min_confidence"` // merged-output threshold
	Workers       int      `yaml:"workers"`
	Penetration   float64  `yaml:"penetration"` // three-candle reversal depth
}

// DataConfig holds market data fetch settings.
type DataConfig struct {
	Range    string        `yaml:"range"`
	Interval string        `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
	Workers  int           `yaml:"workers"`
}

// EmailConfig holds alert delivery settings. Credentials come from the
// environment, never from the YAML file.
type EmailConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
	Username string   `yaml:"-"`
	Password string   `yaml:"-"`
}

// ScheduleConfig holds the daily scan schedule.
type ScheduleConfig struct {
	Enabled bool   `yaml:"enabled"`
	At      string `yaml:"at"` // local wall-clock time, HH:MM
}

// OutputConfig holds report settings.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // table or json
}

// DefaultPatterns is the scan set used when the config names none.
var DefaultPatterns = []string{
	"morning_star", "evening_star", "hammer", "shooting_star",
	"engulfing", "doji", "three_black_crows", "three_white_soldiers",
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Scanner: ScannerConfig{
			Patterns:      append([]string(nil), DefaultPatterns...),
			Symbols:       symbols.Defaults(),
			Lookback:      30,
			MinConfidence: 60,
			Workers:       4,
			Penetration:   0.3,
		},
		Data: DataConfig{
			Range:    "6mo",
			Interval: "1d",
			Timeout:  30 * time.Second,
			Workers:  8,
		},
		Email: EmailConfig{
			Port: 587,
		},
		Schedule: ScheduleConfig{
			At: "09:00",
		},
		Output: OutputConfig{
			Dir:    ".",
			Format: "table",
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error; the defaults are returned. Environment overrides apply on both
// paths.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv pulls credentials and overrides from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("SCANNER_EMAIL_USERNAME"); v != "" {
		c.Email.Username = v
	}
	if v := os.Getenv("SCANNER_EMAIL_PASSWORD"); v != "" {
		c.Email.Password = v
	}
	if v := os.Getenv("SCANNER_SMTP_HOST"); v != "" {
		c.Email.Host = v
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Scanner.Lookback < 3 {
		return fmt.Errorf("scanner.lookback must be at least 3")
	}
	if c.Scanner.MinConfidence < 0 || c.Scanner.MinConfidence > 100 {
		return fmt.Errorf("scanner.min_confidence must be in [0, 100]")
	}
	if c.Scanner.Workers < 1 {
		return fmt.Errorf("scanner.workers must be at least 1")
	}
	if c.Scanner.Penetration <= 0 || c.Scanner.Penetration >= 1 {
		return fmt.Errorf("scanner.penetration must be in (0, 1)")
	}
	if len(c.Scanner.Patterns) == 0 {
		return fmt.Errorf("scanner.patterns must name at least one pattern")
	}
	for _, sym := range c.Scanner.Symbols {
		if !symbols.IsValid(sym) {
			return fmt.Errorf("scanner.symbols: invalid symbol %q", sym)
		}
	}
	if c.Email.Enabled {
		if c.Email.Host == "" || c.Email.From == "" || len(c.Email.To) == 0 {
			return fmt.Errorf("email.host, email.from and email.to are required when email is enabled")
		}
	}
	if c.Schedule.Enabled {
		if _, err := time.Parse("15:04", c.Schedule.At); err != nil {
			return fmt.Errorf("schedule.at must be HH:MM: %w", err)
		}
	}
	switch c.Output.Format {
	case "table", "json":
	default:
		return fmt.Errorf("output.format must be table or json")
	}
	return nil
}
