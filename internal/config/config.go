package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration parameters
type Config struct {
	BaseURL             string `yaml:"base_url" json:"base_url"`
	ListenAddr          string `yaml:"listen_addr" json:"listen_addr"`
	UserAgent           string `yaml:"user_agent" json:"user_agent"`
	MaxConnections      int    `yaml:"max_connections" json:"max_connections"`
	MaxIdleConnections  int    `yaml:"max_idle_connections" json:"max_idle_connections"`
	ConnectTimeoutMs    int    `yaml:"connect_timeout_ms" json:"connect_timeout_ms"`
	RequestTimeoutMs    int    `yaml:"request_timeout_ms" json:"request_timeout_ms"`
	RetryAttempts       int    `yaml:"retry_attempts" json:"retry_attempts"`
	RetryDelayMs        int    `yaml:"retry_delay_ms" json:"retry_delay_ms"`
	MaxLinksPerArticle  int    `yaml:"max_links_per_article" json:"max_links_per_article"`
	MaxDepthLimit       int    `yaml:"max_depth_limit" json:"max_depth_limit"`
	MaxConcurrentCrawls int    `yaml:"max_concurrent_crawls" json:"max_concurrent_crawls"`
	MaxBodySize         int    `yaml:"max_body_size" json:"max_body_size"`
	LogLevel            string `yaml:"log_level" json:"log_level"`
	MetricsPath         string `yaml:"metrics_path" json:"metrics_path"`
	DBPath              string `yaml:"db_path" json:"db_path"`
}

// Default returns a configuration with every field set to its default
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// LoadConfig reads and validates configuration from a YAML or JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	// Decode over the defaults so keys missing from the file keep them
	// and explicit zeros are kept for validate to judge
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	normalize(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyDefaults sets default values for zero-valued fields
func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://en.wikipedia.org/wiki/"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8000"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (compatible; WordFrequencyBot/1.0; +https://github.com/)"
	}
	if cfg.MaxConnections == 0 {
		cfg.MaxConnections = 10
	}
	if cfg.MaxIdleConnections == 0 {
		cfg.MaxIdleConnections = 5
	}
	if cfg.ConnectTimeoutMs == 0 {
		cfg.ConnectTimeoutMs = 5000
	}
	if cfg.RequestTimeoutMs == 0 {
		cfg.RequestTimeoutMs = 10000
	}
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelayMs == 0 {
		cfg.RetryDelayMs = 500
	}
	if cfg.MaxLinksPerArticle == 0 {
		cfg.MaxLinksPerArticle = 3
	}
	if cfg.MaxDepthLimit == 0 {
		cfg.MaxDepthLimit = 10
	}
	if cfg.MaxConcurrentCrawls == 0 {
		cfg.MaxConcurrentCrawls = 4
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = 20 * 1024 * 1024
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "metrics.json"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "wordweaver.db"
	}
	normalize(cfg)
}

// normalize makes BaseURL end in a slash so titles can be appended
func normalize(cfg *Config) {
	if cfg.BaseURL != "" && !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
}

// validate checks that values are sensible
func validate(cfg *Config) error {
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return fmt.Errorf("base_url must be an http(s) URL")
	}
	if cfg.MaxConnections < 1 {
		return fmt.Errorf("max_connections must be >= 1")
	}
	if cfg.MaxIdleConnections < 0 || cfg.MaxIdleConnections > cfg.MaxConnections {
		return fmt.Errorf("max_idle_connections must be between 0 and max_connections")
	}
	if cfg.ConnectTimeoutMs < 100 {
		return fmt.Errorf("connect_timeout_ms must be >= 100")
	}
	if cfg.RequestTimeoutMs < 1000 {
		return fmt.Errorf("request_timeout_ms must be >= 1000")
	}
	if cfg.RetryAttempts < 1 {
		return fmt.Errorf("retry_attempts must be >= 1")
	}
	if cfg.RetryDelayMs < 0 {
		return fmt.Errorf("retry_delay_ms must be >= 0")
	}
	if cfg.MaxLinksPerArticle < 1 {
		return fmt.Errorf("max_links_per_article must be >= 1")
	}
	if cfg.MaxDepthLimit < 0 {
		return fmt.Errorf("max_depth_limit must be >= 0")
	}
	if cfg.MaxConcurrentCrawls < 1 {
		return fmt.Errorf("max_concurrent_crawls must be >= 1")
	}
	return nil
}

// ConnectTimeout returns the dial timeout for new connections
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutMs) * time.Millisecond
}

// RequestTimeout returns the total timeout of one request
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// RetryDelay returns the pause between fetch attempts
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}
