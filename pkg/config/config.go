package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	LLMProvider           string            `json:"llm_provider"`
	Model                 string            `json:"model"`
	APIKeys               map[string]string `json:"api_keys"`
	WorkingDir            string            `json:"working_dir"`
	MaxRevisions          int               `json:"max_revisions"`
	Timeout               int               `json:"timeout_seconds"`
	SlidesServiceURL      string            `json:"slides_service_url"`
	SlidesCredentialsPath string            `json:"slides_credentials_path"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	workingDir := filepath.Join(homeDir, ".deckplan")

	return &Config{
		LLMProvider:  "openai",
		Model:        "gpt-4o-mini",
		APIKeys:      make(map[string]string),
		WorkingDir:   workingDir,
		MaxRevisions: 5,
		Timeout:      60,
	}
}

// LoadConfig loads configuration from a file, creating it with default
// values when it does not exist yet
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, fmt.Errorf("failed to create config directory: %w", err)
			}
			data, err := json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return nil, fmt.Errorf("failed to write default config: %w", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
