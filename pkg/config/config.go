// Package config provides configuration handling for the domain monitor application
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// NtfyConfig holds settings for the ntfy.sh push notification service
type NtfyConfig struct {
	// Topic URL to POST notifications to, e.g. https://ntfy.sh/my-domains
	URL string `json:"url"`

	// Notification priority: low, default or high
	Priority string `json:"priority"`

	// Optional basic-auth credentials for protected topics
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// AppConfig holds application settings
type AppConfig struct {
	// Push notification settings
	Ntfy NtfyConfig `json:"ntfy"`

	// Cron expression for full WHOIS refresh cycles
	CheckInterval string `json:"checkInterval"`

	// Cron expression for lightweight day-count recalculation
	RecalculateInterval string `json:"recalculateInterval"`

	// Number of days before expiration to start warning
	WarningDays int `json:"warningDays"`

	// Whether cached expiration data may be trusted for domains far from expiry
	UseCache bool `json:"useCache"`

	// After a config save, recalculate from cache instead of a full refresh
	RecalculateAfterSave bool `json:"recalculateAfterSave"`

	// Port the web interface starts probing from
	Port int `json:"port"`

	// Per-lookup WHOIS timeout in seconds
	WhoisTimeoutSeconds int `json:"whoisTimeoutSeconds"`
}

// WhoisTimeout returns the configured WHOIS timeout as a duration.
func (c *AppConfig) WhoisTimeout() time.Duration {
	return time.Duration(c.WhoisTimeoutSeconds) * time.Second
}

// DomainSpec is a single monitored domain as configured by the user
type DomainSpec struct {
	// The domain name to check
	Domain string `json:"domain"`

	// Optional free-text description shown in the UI
	Description string `json:"description,omitempty"`
}

// DomainsConfig wraps the configured domain list for (de)serialization
type DomainsConfig struct {
	Domains []DomainSpec `json:"domains"`
}

// Defaults returns a configuration with default values.
func Defaults() *AppConfig {
	return &AppConfig{
		Ntfy:                NtfyConfig{Priority: "default"},
		CheckInterval:       "0 6 * * *",
		RecalculateInterval: "0 0 * * *",
		WarningDays:         30,
		UseCache:            true,
		Port:                3000,
		WhoisTimeoutSeconds: 10,
	}
}

// Store loads and saves the configuration file pair (config.json and
// domains.json) in a single directory.
type Store struct {
	dir string
	log *logrus.Logger
	mu  sync.Mutex
}

// NewStore creates a configuration store rooted at dir.
func NewStore(dir string, log *logrus.Logger) *Store {
	return &Store{dir: dir, log: log}
}

// Load reads the application config and domain list. Missing files fall
// back to defaults and an empty domain list; unreadable or invalid files
// are an error since a refresh cycle has nothing to iterate over without
// valid configuration.
func (s *Store) Load() (*AppConfig, []DomainSpec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := Defaults()
	if err := readJSON(filepath.Join(s.dir, "config.json"), cfg); err != nil {
		return nil, nil, err
	}
	cfg.LoadFromEnv()

	var domains DomainsConfig
	if err := readJSON(filepath.Join(s.dir, "domains.json"), &domains); err != nil {
		return nil, nil, err
	}

	return cfg, domains.Domains, nil
}

// Save writes both configuration files.
func (s *Store) Save(cfg *AppConfig, domains []DomainSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeJSON(filepath.Join(s.dir, "config.json"), cfg); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(s.dir, "domains.json"), DomainsConfig{Domains: domains}); err != nil {
		return err
	}
	s.log.Debugf("Configuration saved to %s with %d domains", s.dir, len(domains))
	return nil
}

// readJSON unmarshals path into v, leaving v untouched when the file is absent
func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

// writeJSON marshals v with indentation and writes it to path
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadFromEnv overrides configuration with environment variables
func (c *AppConfig) LoadFromEnv() {
	setString(&c.Ntfy.URL, "NTFY_URL")
	setString(&c.Ntfy.Priority, "NTFY_PRIORITY")
	setString(&c.Ntfy.Username, "NTFY_USERNAME")
	setString(&c.Ntfy.Password, "NTFY_PASSWORD")
	setString(&c.CheckInterval, "CHECK_INTERVAL")
	setString(&c.RecalculateInterval, "RECALCULATE_INTERVAL")
	setInt(&c.WarningDays, "WARNING_DAYS")
	setBool(&c.UseCache, "USE_CACHE")
	setBool(&c.RecalculateAfterSave, "RECALCULATE_AFTER_SAVE")
	setInt(&c.Port, "PORT")
	setInt(&c.WhoisTimeoutSeconds, "WHOIS_TIMEOUT_SECONDS")
}

// setString sets a string field from env
func setString(field *string, env string) {
	if v := os.Getenv(env); v != "" {
		*field = strings.TrimSpace(v)
	}
}

// setInt sets an int field from env
func setInt(field *int, env string) {
	if v := os.Getenv(env); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*field = i
		}
	}
}

// setBool sets a bool field from env
func setBool(field *bool, env string) {
	if v := os.Getenv(env); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*field = b
		}
	}
}
