package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config carries the tunables the shell and its HTTP-performing commands
// need. Values load from an optional YAML file and can be overridden through
// VSHELL_* environment variables.
type Config struct {
	HTTP   HTTPConfig   `yaml:"http"`
	Limits LimitsConfig `yaml:"limits"`
	Debug  bool         `yaml:"debug" env:"VSHELL_DEBUG"`
}

type HTTPConfig struct {
	// BaseURL is prepended to relative URLs passed to curl/browse.
	BaseURL string `yaml:"base_url" env:"VSHELL_HTTP_BASE_URL"`
	// Headers are sent on every outbound request unless the command
	// overrides them with -H.
	Headers        map[string]string `yaml:"headers"`
	TimeoutSeconds int               `yaml:"timeout_seconds" env:"VSHELL_HTTP_TIMEOUT_SECONDS"`
	// ProxyURL routes requests through an HTTP proxy when set.
	ProxyURL string `yaml:"proxy_url" env:"VSHELL_HTTP_PROXY_URL"`
	// HTTP2 switches to the full-profile HTTP/2 client for endpoints that
	// fingerprint the h2 SETTINGS frame as well as the TLS ClientHello.
	HTTP2 bool `yaml:"http2" env:"VSHELL_HTTP_HTTP2"`
	// MaxResponseBytes caps how much of a response body is kept.
	MaxResponseBytes int `yaml:"max_response_bytes" env:"VSHELL_HTTP_MAX_RESPONSE_BYTES"`
}

type LimitsConfig struct {
	// GrepLineChars truncates individual matched lines.
	GrepLineChars int `yaml:"grep_line_chars" env:"VSHELL_GREP_LINE_CHARS"`
	// GrepTotalChars is the total output budget for a grep invocation.
	GrepTotalChars int `yaml:"grep_total_chars" env:"VSHELL_GREP_TOTAL_CHARS"`
	// MaxOutputChars caps the stdout of a whole Execute call as surfaced
	// to the tool layer.
	MaxOutputChars int `yaml:"max_output_chars" env:"VSHELL_MAX_OUTPUT_CHARS"`
}

func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			TimeoutSeconds:   30,
			MaxResponseBytes: 512 * 1024,
		},
		Limits: LimitsConfig{
			GrepLineChars:  500,
			GrepTotalChars: 50000,
			MaxOutputChars: 100000,
		},
	}
}

// Load reads the YAML config at path (missing file is not an error) and then
// applies environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}

	return cfg, nil
}
