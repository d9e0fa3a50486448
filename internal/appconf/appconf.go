// Package appconf holds runtime configuration for the departby service.
package appconf

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Production:
		return "production"
	case Test:
		return "test"
	default:
		return "development"
	}
}

// EnvFlagToEnvironment maps the -env flag value to an Environment,
// defaulting to Development for unrecognized values.
func EnvFlagToEnvironment(flag string) Environment {
	switch flag {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// Config is the full runtime configuration, assembled in cmd/api from
// flags, environment variables, and an optional YAML file.
type Config struct {
	Port      int
	Env       Environment
	ApiKeys   []string
	RateLimit int
	Verbose   bool

	// Upstream MBTA v3 API.
	MBTABaseURL string
	MBTAAPIKey  string

	// Feed poll cadence. Bounded to 15-30s elsewhere by default flags;
	// tests use shorter intervals.
	PollInterval time.Duration

	// Path to the SQLite settings database. ":memory:" for tests.
	SettingsDBPath string
}

// FileConfig is the subset of Config that may be supplied via a YAML file.
// File values override flag defaults but not explicitly set flags; that
// merge happens in cmd/api.
type FileConfig struct {
	Port           int    `yaml:"port"`
	RateLimit      int    `yaml:"rateLimit"`
	MBTABaseURL    string `yaml:"mbtaBaseURL"`
	MBTAAPIKey     string `yaml:"mbtaApiKey"`
	PollIntervalMS int    `yaml:"pollIntervalMS"`
	SettingsDBPath string `yaml:"settingsDBPath"`
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return fc, nil
}

// Merge applies non-zero file values onto c.
func (c *Config) Merge(fc FileConfig) {
	if fc.Port != 0 {
		c.Port = fc.Port
	}
	if fc.RateLimit != 0 {
		c.RateLimit = fc.RateLimit
	}
	if fc.MBTABaseURL != "" {
		c.MBTABaseURL = fc.MBTABaseURL
	}
	if fc.MBTAAPIKey != "" {
		c.MBTAAPIKey = fc.MBTAAPIKey
	}
	if fc.PollIntervalMS != 0 {
		c.PollInterval = time.Duration(fc.PollIntervalMS) * time.Millisecond
	}
	if fc.SettingsDBPath != "" {
		c.SettingsDBPath = fc.SettingsDBPath
	}
}
