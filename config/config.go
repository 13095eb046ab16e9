package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the patch tool.
type Config struct {
	Patch   PatchConfig   `yaml:"patch"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
}

// PatchConfig selects the files to patch and the substitutions to apply.
type PatchConfig struct {
	Files    []string     `yaml:"files"`
	Includes []string     `yaml:"includes"`
	Excludes []string     `yaml:"excludes"`
	Rules    []RuleConfig `yaml:"rules"`
	Encoding string       `yaml:"encoding" env:"TEXTPATCH_ENCODING"` // "utf-8" or any WHATWG label, e.g. "windows-1252"
}

// RuleConfig is one literal substitution.
type RuleConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// HistoryConfig controls backups of patched files.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled" env:"TEXTPATCH_HISTORY"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" env:"TEXTPATCH_LOG_LEVEL"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Patch: PatchConfig{
			Excludes: []string{"**/.git/**", "**/.textpatch/**", "**/node_modules/**", "**/vendor/**", "**/build/**"},
			Rules: []RuleConfig{
				{From: "ChipInfo.type.", To: "ChipInfo.Type."},
			},
			Encoding: "utf-8",
		},
		History: HistoryConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load loads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		// Defaults if no config file
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for textpatch.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "textpatch.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".textpatch", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	cfg := DefaultConfig()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// HistoryDBPath returns the path to the history database.
func HistoryDBPath(dir string) string {
	return filepath.Join(dir, ".textpatch", "history.db")
}

// EnsureStateDir ensures the .textpatch directory exists.
func EnsureStateDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".textpatch"), 0755)
}
