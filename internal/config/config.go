package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration.
type Config struct {
	Token     TokenConfig     `json:"token"`
	Detection DetectionConfig `json:"detection"`
	Output    OutputConfig    `json:"output"`
}

// TokenConfig holds configuration for token rendering.
type TokenConfig struct {
	DefaultTexture string  `json:"default_texture"`
	BorderWidthPx  int     `json:"border_width_px"`
	ZoomMin        float64 `json:"zoom_min"`
	ZoomMax        float64 `json:"zoom_max"`
}

// DetectionConfig holds configuration for the face-detection backend.
type DetectionConfig struct {
	Backend       string  `json:"backend"`
	ServerURL     string  `json:"server_url"`
	Model         string  `json:"model"`
	MinConfidence float64 `json:"min_confidence"`
	SendFormat    string  `json:"send_format"`
	SendMaxDim    int     `json:"send_max_dim"`
	SendQuality   int     `json:"send_quality"`
}

// OutputConfig holds configuration for output generation.
type OutputConfig struct {
	Format    string `json:"format"`
	Quality   int    `json:"quality"`
	OutputDir string `json:"output_dir"`
	Suffix    string `json:"suffix"`
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Token: TokenConfig{
			DefaultTexture: "gradient",
			BorderWidthPx:  8,
			ZoomMin:        0.5,
			ZoomMax:        1.5,
		},
		Detection: DetectionConfig{
			Backend:       "none",
			ServerURL:     "http://localhost:11434",
			Model:         "openbmb/minicpm-v4.5",
			MinConfidence: 0.3,
			SendFormat:    "jpg",
			SendMaxDim:    1536,
			SendQuality:   85,
		},
		Output: OutputConfig{
			Format:    "png",
			Quality:   90,
			OutputDir: "./out",
			Suffix:    "_token",
		},
	}
}

// LoadFromFile loads configuration from a JSON file.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file.
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Token.BorderWidthPx != 8 && c.Token.BorderWidthPx != 16 {
		return fmt.Errorf("token.border_width_px must be 8 or 16")
	}

	if c.Token.ZoomMin <= 0 || c.Token.ZoomMax <= c.Token.ZoomMin {
		return fmt.Errorf("token zoom bounds must satisfy 0 < zoom_min < zoom_max")
	}

	if c.Detection.Backend != "none" && c.Detection.Backend != "ollama" {
		return fmt.Errorf("detection.backend must be 'none' or 'ollama'")
	}

	if c.Detection.MinConfidence < 0 || c.Detection.MinConfidence > 1 {
		return fmt.Errorf("detection.min_confidence must be between 0 and 1")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	switch c.Output.Format {
	case "png", "jpg", "jpeg", "webp":
	default:
		return fmt.Errorf("output.format must be png, jpg or webp")
	}

	return nil
}

// GetConfigPath returns the default configuration file path.
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "token-forge", "config.json")
}
