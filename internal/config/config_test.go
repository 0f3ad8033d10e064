// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Covers defaults, YAML parsing, env overrides, and required fields
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
node:
  password: youshallnotpass
client:
  user_id: "123456789"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Node.Host != "127.0.0.1" {
		t.Errorf("expected default host, got %q", cfg.Node.Host)
	}
	if cfg.Node.Port != 2333 {
		t.Errorf("expected default port, got %d", cfg.Node.Port)
	}
	if cfg.Client.Shards != 1 {
		t.Errorf("expected default shard count, got %d", cfg.Client.Shards)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level, got %q", cfg.Logging.Level)
	}
}

func TestLoadParsesFile(t *testing.T) {
	path := writeConfig(t, `
node:
  host: node.example.com
  port: 443
  password: secret
  secure: true
client:
  user_id: "123456789"
  shards: 4
  resume_timeout: 60
logging:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Node.Host != "node.example.com" || cfg.Node.Port != 443 || !cfg.Node.Secure {
		t.Errorf("unexpected node config: %+v", cfg.Node)
	}
	if cfg.Client.Shards != 4 || cfg.Client.ResumeTimeout != 60 {
		t.Errorf("unexpected client config: %+v", cfg.Client)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("unexpected log level %q", cfg.Logging.Level)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
node:
  host: node.example.com
  password: from-file
client:
  user_id: "123456789"
`)

	t.Setenv("LAVALINE_PASSWORD", "from-env")
	t.Setenv("LAVALINE_PORT", "8080")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Node.Password != "from-env" {
		t.Errorf("expected env password to win, got %q", cfg.Node.Password)
	}
	if cfg.Node.Port != 8080 {
		t.Errorf("expected env port to win, got %d", cfg.Node.Port)
	}
	if cfg.Node.Host != "node.example.com" {
		t.Errorf("expected file host preserved, got %q", cfg.Node.Host)
	}
}

func TestLoadWithoutFileUsesEnvironment(t *testing.T) {
	t.Setenv("LAVALINE_PASSWORD", "secret")
	t.Setenv("LAVALINE_USER_ID", "42")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Node.Password != "secret" || cfg.Client.UserID != "42" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestValidateRejectsMissingFields(t *testing.T) {
	cases := []struct {
		name     string
		contents string
	}{
		{"missing password", "client:\n  user_id: \"1\"\n"},
		{"missing user id", "node:\n  password: x\n"},
		{"bad port", "node:\n  port: 70000\n  password: x\nclient:\n  user_id: \"1\"\n"},
		{"bad shards", "node:\n  password: x\nclient:\n  user_id: \"1\"\n  shards: 0\n"},
		{"negative resume timeout", "node:\n  password: x\nclient:\n  user_id: \"1\"\n  resume_timeout: -1\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.contents)); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLavalineConversion(t *testing.T) {
	cfg := &Config{
		Node:   NodeConfig{Host: "h", Port: 2333, Password: "p", Secure: true},
		Client: ClientConfig{UserID: "u", Shards: 2, ResumeKey: "k", ResumeTimeout: 30},
	}

	out := cfg.Lavaline()
	if out.Host != "h" || out.Port != 2333 || out.Password != "p" || !out.Secure {
		t.Errorf("unexpected node fields: %+v", out)
	}
	if out.UserID != "u" || out.Shards != 2 || out.ResumeKey != "k" || out.ResumeTimeout != 30 {
		t.Errorf("unexpected client fields: %+v", out)
	}
}
