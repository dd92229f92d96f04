// Package config provides configuration loading and management for
// screwplanner. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFrameOfReferenceUID is the placeholder DICOM Frame of Reference
// UID used when none can be discovered from the loaded volume. Exports
// carrying it must be updated manually for viewer compatibility.
const DefaultFrameOfReferenceUID = "1.2.826.0.1.3680043.8.498.86332697281993822957134910852142346599"

// DefaultVolumeID is the viewer's streaming volume identifier.
const DefaultVolumeID = "cornerstoneStreamingImageVolume:default"

// DefaultParallelScale is the viewer's parallel-projection scale matched
// to the reference dataset.
const DefaultParallelScale = 234.20727282007405

// DefaultCameraDistance is the camera distance from the focal point in mm.
const DefaultCameraDistance = 350.0

// Config represents the application configuration loaded from YAML
type Config struct {
	// Viewer parameters passed through to the exported viewports
	Viewer struct {
		// FrameOfReferenceUID is the DICOM Frame of Reference UID of the
		// loaded volume; empty means fall back to the placeholder
		FrameOfReferenceUID string `yaml:"frameOfReferenceUID"`

		// VolumeID identifies the volume to the external viewer
		VolumeID string `yaml:"volumeId"`

		// ParallelScale is the parallel-projection scale of the viewer
		ParallelScale float64 `yaml:"parallelScale"`

		// CameraDistance is the camera distance from the focal point in mm
		CameraDistance float64 `yaml:"cameraDistance"`
	} `yaml:"viewer"`

	// Output parameters
	Output struct {
		// Dir is the directory snapshot and transformation files go to
		Dir string `yaml:"dir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default viewer parameters
	cfg.Viewer.FrameOfReferenceUID = DefaultFrameOfReferenceUID
	cfg.Viewer.VolumeID = DefaultVolumeID
	cfg.Viewer.ParallelScale = DefaultParallelScale
	cfg.Viewer.CameraDistance = DefaultCameraDistance

	// Set default output parameters
	cfg.Output.Dir = "."
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
