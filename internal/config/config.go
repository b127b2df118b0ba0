// Package config loads the server configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	// Port the HTTP server listens on. The PORT environment variable, when
	// set, overrides it.
	Port string `yaml:"port"`

	// ModelsDir is the directory model filenames below are relative to.
	ModelsDir string `yaml:"models_dir"`

	// Threshold is the minimum confidence for an accepted interpretation.
	Threshold float32 `yaml:"threshold"`

	// Models maps a symbol set name to its model filename. A missing or
	// empty entry disables that symbol set.
	Models map[string]string `yaml:"models"`

	Hands HandsConfig `yaml:"hands"`
	TTS   TTSConfig   `yaml:"tts"`
}

// HandsConfig configures the hand-landmark detector.
type HandsConfig struct {
	Model         string  `yaml:"model"`
	InputSize     int     `yaml:"input_size"`
	MaxHands      int     `yaml:"max_hands"`
	MinConfidence float32 `yaml:"min_confidence"`
}

// TTSConfig configures the text-to-speech client.
type TTSConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Port:      "8080",
		ModelsDir: "models",
		Threshold: 0.6,
		Models: map[string]string{
			"digit": "digitSignLanguage.onnx",
			"asl":   "americanSignLanguage.onnx",
			"isl":   "indianSignLanguage.onnx",
		},
		Hands: HandsConfig{
			Model:         "handLandmarks.onnx",
			InputSize:     224,
			MaxHands:      2,
			MinConfidence: 0.5,
		},
	}
}

// Load reads the configuration from file, filling unset fields from Default.
func Load(file string) (Config, error) {
	cfg := Default()

	f, err := os.Open(file)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", file, err)
	}
	return cfg, nil
}

// ModelPath resolves a model filename against ModelsDir. Empty names stay
// empty, marking the slot unconfigured.
func (c *Config) ModelPath(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.ModelsDir, name)
}
