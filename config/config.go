// Package config provides YAML configuration parsing for AgentBoard.
//
// This package enables running AgentBoard as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Agent Admin
//	port: 8080
//
//	api:
//	  base_url: ${ADMIN_API_URL:-http://localhost:5000}
//	  timeout: 10s
//	  headers:
//	    Authorization: Bearer ${ADMIN_TOKEN}
//
//	log_interval: 5s
//	stats_interval: 30s
//
//	stats:
//	  - key: total_conversations
//	    label: Total Conversations
//
//	agents:
//	  - id: customer_service
//	    name: Customer Service
//	    fields: [tone, max_tokens]
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTitle         = "Agent Admin"
	defaultPort          = 8080
	defaultLogInterval   = 5 * time.Second
	defaultStatsInterval = 30 * time.Second

	// minRefreshInterval prevents accidental hammering of the admin API
	// with overly aggressive polling.
	minRefreshInterval = 1 * time.Second
)

// Config is the root configuration structure for AgentBoard.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Defaults to "Agent Admin" if not set.
	Title string `yaml:"title"`

	// Port is the HTTP server port for the browser UI. Defaults to 8080.
	Port int `yaml:"port"`

	// API describes the admin backend.
	API APIConfig `yaml:"api"`

	// LogInterval is the time between log refreshes.
	// Accepts duration strings like "5s", "1m", "500ms". Defaults to 5s.
	LogInterval Duration `yaml:"log_interval"`

	// StatsInterval is the time between stats refreshes. Defaults to 30s.
	StatsInterval Duration `yaml:"stats_interval"`

	// Stats declares the stat elements, in display order.
	Stats []StatConfig `yaml:"stats"`

	// Agents declares the agent panels, in display order.
	Agents []AgentConfig `yaml:"agents"`
}

// APIConfig describes the admin API the dashboard talks to.
type APIConfig struct {
	// BaseURL is the admin API origin, e.g. http://localhost:5000.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	BaseURL string `yaml:"base_url"`

	// Headers are sent with every request.
	// Values support environment variable substitution.
	Headers map[string]string `yaml:"headers"`

	// Timeout bounds every request. Zero means no timeout.
	Timeout Duration `yaml:"timeout"`
}

// StatConfig declares one stat element.
type StatConfig struct {
	// Key is the field name in the /api/stats response.
	Key string `yaml:"key"`

	// Label is the caption shown next to the value. Defaults to Key.
	Label string `yaml:"label"`
}

// AgentConfig declares one agent panel.
type AgentConfig struct {
	// ID is the agent identifier sent to the admin API.
	ID string `yaml:"id"`

	// Name is the display name. Defaults to ID.
	Name string `yaml:"name"`

	// Fields lists the config form inputs. Empty means the form accepts
	// any field.
	Fields []string `yaml:"fields"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in the base URL and header values.
// Defaults are applied for Title, Port, LogInterval (5s) and
// StatsInterval (30s).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Title == "" {
		cfg.Title = defaultTitle
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.LogInterval == 0 {
		cfg.LogInterval = Duration(defaultLogInterval)
	}
	if cfg.StatsInterval == 0 {
		cfg.StatsInterval = Duration(defaultStatsInterval)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.LogInterval.Duration() < minRefreshInterval {
		return fmt.Errorf("log_interval must be at least %s, got %s", minRefreshInterval, c.LogInterval.Duration())
	}
	if c.StatsInterval.Duration() < minRefreshInterval {
		return fmt.Errorf("stats_interval must be at least %s, got %s", minRefreshInterval, c.StatsInterval.Duration())
	}

	if err := c.API.expandAndValidate(); err != nil {
		return err
	}

	seenStats := make(map[string]struct{}, len(c.Stats))
	for i, s := range c.Stats {
		if s.Key == "" {
			return fmt.Errorf("stats[%d]: key is required", i)
		}
		if _, dup := seenStats[s.Key]; dup {
			return fmt.Errorf("stats[%d]: duplicate key %q", i, s.Key)
		}
		seenStats[s.Key] = struct{}{}
	}

	seenAgents := make(map[string]struct{}, len(c.Agents))
	for i, a := range c.Agents {
		if a.ID == "" {
			return fmt.Errorf("agents[%d]: id is required", i)
		}
		if _, dup := seenAgents[a.ID]; dup {
			return fmt.Errorf("agents[%d]: duplicate id %q", i, a.ID)
		}
		seenAgents[a.ID] = struct{}{}

		seenFields := make(map[string]struct{}, len(a.Fields))
		for _, f := range a.Fields {
			if f == "" {
				return fmt.Errorf("agents[%d] (%s): field names cannot be empty", i, a.ID)
			}
			if _, dup := seenFields[f]; dup {
				return fmt.Errorf("agents[%d] (%s): duplicate field %q", i, a.ID, f)
			}
			seenFields[f] = struct{}{}
		}
	}

	return nil
}

func (a *APIConfig) expandAndValidate() error {
	if a.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	expanded, err := expandEnvVars(a.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	a.BaseURL = expanded

	parsedURL, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: invalid url: %w", err)
	}
	if parsedURL.Scheme == "" {
		return errors.New("api.base_url must have a scheme (http:// or https://)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("api.base_url scheme must be http or https, got %q", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return errors.New("api.base_url must include a host")
	}

	for k, v := range a.Headers {
		expanded, err := expandEnvVars(v)
		if err != nil {
			return fmt.Errorf("api.headers[%s]: %w", k, err)
		}
		a.Headers[k] = expanded
	}

	if a.Timeout != 0 {
		if a.Timeout.Duration() < 0 {
			return fmt.Errorf("api.timeout cannot be negative, got %s", a.Timeout.Duration())
		}
		if a.Timeout.Duration() < time.Second {
			return fmt.Errorf("api.timeout must be at least 1s if specified, got %s", a.Timeout.Duration())
		}
	}

	return nil
}
