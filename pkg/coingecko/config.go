package coingecko

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"coinhealth-api/pkg/confkit"
)

// Config describes the upstream API connection settings.
type Config struct {
	BaseURL string `yaml:"base_url"`

	TimeoutRaw string        `yaml:"timeout"`
	Timeout    time.Duration `yaml:"-"`
}

// LoadConfig reads upstream configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open coingecko config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read coingecko config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal coingecko config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() error {
	c.BaseURL = strings.TrimSpace(os.ExpandEnv(c.BaseURL))
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}

	c.TimeoutRaw = strings.TrimSpace(os.ExpandEnv(c.TimeoutRaw))
	if c.TimeoutRaw == "" {
		c.Timeout = defaultHTTPTimeout
		return nil
	}
	timeout, err := time.ParseDuration(c.TimeoutRaw)
	if err != nil {
		return fmt.Errorf("parse coingecko timeout %q: %w", c.TimeoutRaw, err)
	}
	if timeout <= 0 {
		return errors.New("coingecko: timeout must be positive")
	}
	c.Timeout = timeout
	return nil
}

// BuildClient constructs a Client from the configuration.
func (c *Config) BuildClient(opts ...Option) *Client {
	base := []Option{WithBaseURL(c.BaseURL), WithTimeout(c.Timeout)}
	return NewClient(append(base, opts...)...)
}
