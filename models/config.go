package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultAPIURL    = "https://jira.atlassian.com"
	DefaultStartDate = "1970-01-01"

	startDateLayout = "2006-01-02"
	envPrefix       = "TAP_JIRA_"
)

// Config holds the tap settings for a single run
type Config struct {
	APIURL            string      `json:"api_url,omitempty" toml:"api_url,omitempty"`
	BaseURL           string      `json:"base_url,omitempty" toml:"base_url,omitempty"`
	Username          string      `json:"username,omitempty" toml:"username,omitempty"`
	Password          string      `json:"password,omitempty" toml:"password,omitempty"`
	StartDate         interface{} `json:"start_date,omitempty" toml:"start_date,omitempty"`
	UserAgent         string      `json:"user_agent,omitempty" toml:"user_agent,omitempty"`
	RequestsPerSecond float64     `json:"requests_per_second,omitempty" toml:"requests_per_second,omitempty"`
	MaxRetries        int         `json:"max_retries,omitempty" toml:"max_retries,omitempty"`
	StateURL          string      `json:"state_url,omitempty" toml:"state_url,omitempty"`
}

// ReadConfig parses a JSON or TOML (by .toml extension) config file and applies TAP_JIRA_* overrides
func ReadConfig(filePath string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(filePath)
	if err != nil {
		return cfg, fmt.Errorf("error reading config %s: %w", filePath, err)
	}

	if strings.EqualFold(filepath.Ext(filePath), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("error unmarshalling toml config: %w", err)
		}
	} else if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling json config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(envPrefix + "API_URL"); ok {
		c.APIURL = v
	}
	if v, ok := os.LookupEnv(envPrefix + "USERNAME"); ok {
		c.Username = v
	}
	if v, ok := os.LookupEnv(envPrefix + "PASSWORD"); ok {
		c.Password = v
	}
	if v, ok := os.LookupEnv(envPrefix + "START_DATE"); ok {
		c.StartDate = v
	}
	if v, ok := os.LookupEnv(envPrefix + "STATE_URL"); ok {
		c.StateURL = v
	}
	if v, ok := os.LookupEnv(envPrefix + "REQUESTS_PER_SECOND"); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sREQUESTS_PER_SECOND %q: %w", envPrefix, v, err)
		}
		c.RequestsPerSecond = rps
	}
	return nil
}

// Validate checks that the required settings are present
func (c Config) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("missing required field: username")
	}
	if c.Password == "" {
		return fmt.Errorf("missing required field: password")
	}
	if _, err := ParseStartDate(c.StartDate); err != nil {
		return err
	}
	return nil
}

// URL returns api_url, falling back to base_url and then the public instance
func (c Config) URL() string {
	if c.APIURL != "" {
		return c.APIURL
	}
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultAPIURL
}

// ParseStartDate resolves the start_date setting to a UTC date.
// Strings are parsed strictly from their YYYY-MM-DD prefix; dates already
// decoded by the config format pass through.
func ParseStartDate(v interface{}) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return time.Parse(startDateLayout, DefaultStartDate)
	case string:
		if d == "" {
			return time.Parse(startDateLayout, DefaultStartDate)
		}
		if len(d) < len(startDateLayout) {
			return time.Time{}, fmt.Errorf("invalid start_date %q: expected YYYY-MM-DD", d)
		}
		t, err := time.Parse(startDateLayout, d[:len(startDateLayout)])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid start_date %q: %w", d, err)
		}
		return t, nil
	case time.Time:
		return d, nil
	case toml.LocalDate:
		return d.AsTime(time.UTC), nil
	case toml.LocalDateTime:
		return d.AsTime(time.UTC), nil
	default:
		return time.Time{}, fmt.Errorf("invalid start_date %v: unsupported type %T", v, v)
	}
}
