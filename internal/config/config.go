// Package config provides configuration loading and management for parkvision-mcp.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/parkvision-mcp/internal/detection"
	"github.com/ironsheep/parkvision-mcp/internal/imaging"
)

// DefaultPath is used when PARKVISION_CONFIG is not set.
const DefaultPath = "parkvision.yaml"

// Config represents the application configuration loaded from YAML
type Config struct {
	// Seeds configures marker-color seed location
	Seeds struct {
		// Color1 and Color2 are the calibrated marker colors as "#RRGGBB".
		// Empty means not yet calibrated.
		Color1 string `yaml:"color_1"`
		Color2 string `yaml:"color_2"`

		// Tolerance is the per-channel match window
		Tolerance int `yaml:"tolerance"`

		// BisectionBudget bounds the rows scanned in each half of the frame
		BisectionBudget int `yaml:"bisection_budget"`
	} `yaml:"seeds"`

	// Segmentation configures region growing
	Segmentation struct {
		// IntensityThreshold is the largest admitted intensity difference from the seed
		IntensityThreshold int `yaml:"intensity_threshold"`

		// NoiseFloor is the minimum region size in pixels
		NoiseFloor int `yaml:"noise_floor"`
	} `yaml:"segmentation"`

	// Classification configures shape classification
	Classification struct {
		// Gate is the absolute admissibility half-width on each descriptor axis
		Gate float64 `yaml:"gate"`

		// Classes are the trained per-shape statistics, in tie-break order
		Classes []detection.TrainedClass `yaml:"classes"`
	} `yaml:"classification"`
}

// DefaultConfig returns a configuration with default values. Marker colors
// and classes are left empty: they only come from calibration.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Seeds.Tolerance = detection.DefaultColorTolerance
	cfg.Seeds.BisectionBudget = detection.DefaultBisectionBudget

	cfg.Segmentation.IntensityThreshold = 30
	cfg.Segmentation.NoiseFloor = detection.DefaultNoiseFloor

	cfg.Classification.Gate = detection.DefaultGate

	return cfg
}

// PathFromEnv returns the config path from PARKVISION_CONFIG, or DefaultPath.
func PathFromEnv() string {
	if p := os.Getenv("PARKVISION_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// TargetColors parses the marker colors. An empty color is reported as
// detection.ErrMissingTargetColors; a malformed one as a parse error.
func (c *Config) TargetColors() (detection.TargetColors, error) {
	colors := detection.TargetColors{Tolerance: c.Seeds.Tolerance}
	if c.Seeds.Color1 == "" || c.Seeds.Color2 == "" {
		return colors, detection.ErrMissingTargetColors
	}
	first, err := imaging.ParseRGB(c.Seeds.Color1)
	if err != nil {
		return colors, fmt.Errorf("seeds.color_1: %w", err)
	}
	second, err := imaging.ParseRGB(c.Seeds.Color2)
	if err != nil {
		return colors, fmt.Errorf("seeds.color_2: %w", err)
	}
	colors.First, colors.Second = &first, &second
	return colors, nil
}

// SetColor stores a calibrated marker color in slot 1 or 2.
func (c *Config) SetColor(slot int, rgb imaging.RGB) error {
	switch slot {
	case 1:
		c.Seeds.Color1 = rgb.Hex()
	case 2:
		c.Seeds.Color2 = rgb.Hex()
	default:
		return fmt.Errorf("color slot must be 1 or 2, got %d", slot)
	}
	return nil
}

// PipelineConfig converts the configuration for detection.NewPipeline.
func (c *Config) PipelineConfig() (detection.PipelineConfig, error) {
	colors, err := c.TargetColors()
	if err != nil {
		return detection.PipelineConfig{}, err
	}
	return detection.PipelineConfig{
		Colors:          colors,
		BisectionBudget: c.Seeds.BisectionBudget,
		Threshold:       c.Segmentation.IntensityThreshold,
		NoiseFloor:      c.Segmentation.NoiseFloor,
		Gate:            c.Classification.Gate,
		Classes:         c.Classification.Classes,
	}, nil
}

// Validate reports every configuration problem at once. Missing calibration
// is reported with detection.ErrMissingTargetColors and
// detection.ErrNoTrainedClasses so callers can test for it with errors.Is.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.TargetColors(); err != nil {
		errs = append(errs, err)
	}
	if c.Seeds.Tolerance < 0 {
		errs = append(errs, fmt.Errorf("seeds.tolerance must be >= 0, got %d", c.Seeds.Tolerance))
	}
	if c.Segmentation.IntensityThreshold < 0 {
		errs = append(errs, fmt.Errorf("segmentation.intensity_threshold must be >= 0, got %d", c.Segmentation.IntensityThreshold))
	}
	if len(c.Classification.Classes) == 0 {
		errs = append(errs, detection.ErrNoTrainedClasses)
	}
	return errors.Join(errs...)
}
