package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pithecene-io/formstate/adapter"
)

// Config represents a formstate.yaml configuration file.
// All values are optional and act as defaults for command flags.
// CLI flags always override config values.
type Config struct {
	ProjectURL string            `yaml:"project_url"`
	Token      string            `yaml:"token"`
	Timeout    Duration          `yaml:"timeout"`
	Headers    map[string]string `yaml:"headers,omitempty"`
	Adapter    AdapterConfig     `yaml:"adapter"`
}

// AdapterConfig holds adapter defaults from the config file.
type AdapterConfig struct {
	Type     string            `yaml:"type"`
	URL      string            `yaml:"url"`
	Channel  string            `yaml:"channel,omitempty"`
	Headers  map[string]string `yaml:"headers,omitempty"`
	Timeout  Duration          `yaml:"timeout,omitempty"`
	Retries  *int              `yaml:"retries,omitempty"`
	Encoding string            `yaml:"encoding,omitempty"`
}

// Adapter types.
const (
	AdapterWebhook = "webhook"
	AdapterRedis   = "redis"
)

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Validate checks cross-field constraints that YAML decoding cannot express.
func (c *Config) Validate() error {
	if c.ProjectURL != "" && !strings.HasPrefix(c.ProjectURL, "http://") && !strings.HasPrefix(c.ProjectURL, "https://") {
		return fmt.Errorf("project_url must be an http(s) URL, got %q", c.ProjectURL)
	}
	if c.Timeout.Duration < 0 {
		return fmt.Errorf("timeout must be >= 0, got %s", c.Timeout.Duration)
	}
	return c.Adapter.Validate()
}

// Enabled reports whether an adapter is configured.
func (a AdapterConfig) Enabled() bool {
	return a.Type != ""
}

// Validate checks the adapter section.
func (a AdapterConfig) Validate() error {
	switch a.Type {
	case "":
		return nil
	case AdapterWebhook, AdapterRedis:
	default:
		return fmt.Errorf("adapter.type must be %s or %s, got %q", AdapterWebhook, AdapterRedis, a.Type)
	}
	if a.URL == "" {
		return fmt.Errorf("adapter.url is required for %s adapter", a.Type)
	}
	if a.Retries != nil && *a.Retries < 0 {
		return fmt.Errorf("adapter.retries must be >= 0, got %d", *a.Retries)
	}
	if _, err := adapter.ParseEncoding(a.Encoding); err != nil {
		return fmt.Errorf("adapter.encoding: %w", err)
	}
	return nil
}
