package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var scriptVerbs = map[string]bool{
	"down": true, "up": true, "trigger": true, "camera": true, "walk": true, "speed": true,
}

// Validate checks values the loaders cannot repair.
func (c *Config) Validate() error {
	if _, err := c.CameraSettings(); err != nil {
		return err
	}
	if c.Locomotion.MoveSpeed < 0 {
		return fmt.Errorf("locomotion.move_speed: must not be negative, got %v", c.Locomotion.MoveSpeed)
	}
	// The zero box means unbounded; any other box needs room on X and Z
	b := c.Locomotion.Bounds
	if b != (BoundsConfig{}) && (b.Min[0] >= b.Max[0] || b.Min[2] >= b.Max[2]) {
		return fmt.Errorf("locomotion.bounds: min %v must be below max %v on x and z", b.Min, b.Max)
	}
	if c.Simulation.FrameRate <= 0 {
		return fmt.Errorf("simulation.frame_rate: must be positive, got %d", c.Simulation.FrameRate)
	}
	if c.Window.Enabled && (c.Window.Width <= 0 || c.Window.Height <= 0) {
		return fmt.Errorf("window: size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume: must be within [0, 1], got %v", c.Audio.Volume)
	}
	for i, step := range c.Simulation.Script {
		if !scriptVerbs[step.Do] {
			return fmt.Errorf("simulation.script[%d]: unknown action %q", i, step.Do)
		}
	}
	return nil
}

// findConfigFile looks for config in the working directory, then the
// user config directory.
func findConfigFile() string {
	candidates := []string{
		"./rigsim.yaml",
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "MidgardRig")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "MidgardRig")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "midgard-rig")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "midgard-rig")
	}
}

// loadFromFile merges a YAML file over cfg. Unknown keys are rejected so a
// misspelt setting does not silently keep its default.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
