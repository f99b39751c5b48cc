package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// AppConfig holds the user's permanent API keys and backend preferences.
type AppConfig struct {
	TelegramToken       string `json:"telegram_token"`
	TelegramAllowedUser string `json:"telegram_allowed_user"`

	STTBackend string `json:"stt_backend"`  // e.g. "openai", "groq", "whisper-cli"
	STTAPIKey  string `json:"stt_apikey"`   // (Empty for whisper-cli)
	STTBaseURL string `json:"stt_base_url"` // Optional override for OpenAI-compatible servers
	STTModel   string `json:"stt_model"`    // e.g. "whisper-1", "whisper-large-v3", "small"

	TranslatorBackend string `json:"translator_backend"` // e.g. "google", "openai", "anthropic"
	TranslatorAPIKey  string `json:"translator_apikey"`  // (Empty for google)
	TranslatorModel   string `json:"translator_model"`   // e.g. "gpt-4o-mini"

	SessionPolicy     string `json:"session_policy"`      // "replace" or "reject"
	SessionTTLMinutes int    `json:"session_ttl_minutes"` // idle sessions expire after this
}

// getConfigPath returns the absolute path to ~/.rift/config.json
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find home directory: %w", err)
	}
	// Ensure the base directory exists
	dir := filepath.Join(home, ".rift")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("could not create rift directory: %w", err)
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk.
func Load() (*AppConfig, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config not found. Please run 'rift configure' first")
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Save writes the config back to disk securely.
func (cfg *AppConfig) Save() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	// Save with strict permissions since it contains API keys (rw-------)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config to disk: %w", err)
	}

	return nil
}
