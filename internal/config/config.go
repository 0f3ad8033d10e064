// ABOUTME: Loading and validation of node and client configuration
// ABOUTME: YAML file with defaults, overridable from the environment
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lavaline/lavaline-go/pkg/lavaline"
)

// Config represents the complete application configuration.
type Config struct {
	Node    NodeConfig    `yaml:"node"`
	Client  ClientConfig  `yaml:"client"`
	Logging LoggingConfig `yaml:"logging"`
}

// NodeConfig holds the audio node connection settings.
type NodeConfig struct {
	Host     string `yaml:"host" env:"LAVALINE_HOST"`
	Port     int    `yaml:"port" env:"LAVALINE_PORT"`
	Password string `yaml:"password" env:"LAVALINE_PASSWORD"`
	Secure   bool   `yaml:"secure" env:"LAVALINE_SECURE"`
}

// ClientConfig holds the client identity presented to the node.
type ClientConfig struct {
	UserID        string `yaml:"user_id" env:"LAVALINE_USER_ID"`
	Shards        int    `yaml:"shards" env:"LAVALINE_SHARDS"`
	ResumeKey     string `yaml:"resume_key" env:"LAVALINE_RESUME_KEY"`
	ResumeTimeout int    `yaml:"resume_timeout" env:"LAVALINE_RESUME_TIMEOUT"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" env:"LAVALINE_LOG_LEVEL"`
}

// defaults returns a config with every optional field filled in.
func defaults() *Config {
	return &Config{
		Node: NodeConfig{
			Host: "127.0.0.1",
			Port: 2333,
		},
		Client: ClientConfig{
			Shards: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment variables. A .env file in the working
// directory is honored when present.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	godotenv.Load()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Node.Host == "" {
		return fmt.Errorf("node.host is required")
	}

	if c.Node.Port <= 0 || c.Node.Port > 65535 {
		return fmt.Errorf("node.port must be a valid port, got %d", c.Node.Port)
	}

	if c.Node.Password == "" {
		return fmt.Errorf("node.password is required")
	}

	if c.Client.UserID == "" {
		return fmt.Errorf("client.user_id is required")
	}

	if c.Client.Shards < 1 {
		return fmt.Errorf("client.shards must be at least 1")
	}

	if c.Client.ResumeTimeout < 0 {
		return fmt.Errorf("client.resume_timeout must not be negative")
	}

	return nil
}

// Lavaline converts the file-level configuration into client options.
func (c *Config) Lavaline() lavaline.Config {
	return lavaline.Config{
		Host:          c.Node.Host,
		Port:          c.Node.Port,
		Password:      c.Node.Password,
		Secure:        c.Node.Secure,
		UserID:        c.Client.UserID,
		Shards:        c.Client.Shards,
		ResumeKey:     c.Client.ResumeKey,
		ResumeTimeout: c.Client.ResumeTimeout,
	}
}
