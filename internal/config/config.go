// Package config handles application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Vault    VaultConfig     `yaml:"vault,omitempty"`
	Model    string          `yaml:"model"`
	Server   ServerConfig    `yaml:"server,omitempty"`
	Storage  StorageConfig   `yaml:"storage,omitempty"`
	Personas []PersonaConfig `yaml:"personas,omitempty"`
}

// VaultConfig holds the ordered credential pool. An absent section is a
// valid, detectable state: the app runs in degraded mode and asks for a
// manual key.
type VaultConfig struct {
	Keys []string `yaml:"keys"`
}

// ServerConfig holds server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	Path string `yaml:"path,omitempty"`
}

// PersonaConfig holds custom persona definitions.
type PersonaConfig struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Directive   string `yaml:"directive"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Model: "gemini-1.5-flash",
		Server: ServerConfig{
			Port: 8184,
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file, proceed with defaults
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Apply .env overrides if file exists
	if env, err := LoadEnv(".env"); err == nil {
		ApplyEnvOverrides(cfg, env)
	}

	if cfg.Model == "" {
		cfg.Model = Default().Model
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = Default().Server.Port
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo saves the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// VaultConfigured reports whether a credential pool is present.
func (c *Config) VaultConfigured() bool {
	return len(c.Vault.Keys) > 0
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "rostrum.yaml"
	}
	return filepath.Join(home, ".rostrum", "config.yaml")
}

// GenerateExample generates an example configuration file.
func GenerateExample() string {
	example := `# rostrum configuration file
# Place this file at ~/.rostrum/config.yaml

# Ordered credential pool. Keys are tried lowest index first; list position
# controls which account absorbs traffic first. Omit the section entirely to
# run without a pool (a manual key can then be supplied per session).
vault:
  keys:
    - AIzaSyExampleKeyOne
    - AIzaSyExampleKeyTwo

model: gemini-1.5-flash

server:
  port: 8184

storage:
  path: ""                 # default: ~/.rostrum/rostrum.db

# Custom personas (optional)
personas:
  - id: statistician
    name: Statistician
    description: Grounds every claim in data
    directive: |
      You are a statistician. Quantify uncertainty. Demand data for every
      claim and state confidence intervals where possible.
`
	return example
}
