// Package config handles rig simulator configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/midgard-rig/internal/engine/camera"
	"github.com/Faultbox/midgard-rig/internal/engine/character"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

// Config holds all settings.
type Config struct {
	Rig        RigConfig        `yaml:"rig"`
	Animation  AnimationConfig  `yaml:"animation"`
	Locomotion LocomotionConfig `yaml:"locomotion"`
	Camera     CameraConfig     `yaml:"camera"`
	Simulation SimulationConfig `yaml:"simulation"`
	Window     WindowConfig     `yaml:"window"`
	Audio      AudioConfig      `yaml:"audio"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// RigConfig holds asset paths.
type RigConfig struct {
	Path        string   `yaml:"path"`    // Rig document; empty uses the procedural rig
	Catalog     string   `yaml:"catalog"` // Catalog file; empty uses the built-in table
	SearchPaths []string `yaml:"search_paths"`
}

// AnimationConfig holds clip playback settings.
type AnimationConfig struct {
	DefaultClip      string  `yaml:"default_clip"`
	MinPlaybackSpeed float32 `yaml:"min_playback_speed"`
	DoubleTapMargin  float32 `yaml:"double_tap_margin"`
}

// BoundsConfig is an axis-aligned movement box. Only X and Z apply.
type BoundsConfig struct {
	Min [3]float32 `yaml:"min,flow"`
	Max [3]float32 `yaml:"max,flow"`
}

// LocomotionConfig holds movement settings.
type LocomotionConfig struct {
	MoveSpeed      float32      `yaml:"move_speed"`
	ReferenceSpeed float32      `yaml:"reference_speed"`
	RotationSpeed  float32      `yaml:"rotation_speed"` // radians per frame
	WalkCategory   string       `yaml:"walk_category"`
	Bounds         BoundsConfig `yaml:"bounds"`
	BobAmount      float32      `yaml:"bob_amount"`
	BobSteps       int          `yaml:"bob_steps"`
	Scale          float32      `yaml:"scale"`
	Heading        float32      `yaml:"heading"`
}

// CameraConfig holds camera rig settings.
type CameraConfig struct {
	Mode              string  `yaml:"mode"`
	Distance          float32 `yaml:"distance"`
	Height            float32 `yaml:"height"`
	FirstPersonHeight float32 `yaml:"first_person_height"`
}

// ScriptStep is one timed input of a simulation script. Do is one of
// down, up, trigger, camera, walk or speed; Arg is the key, clip, mode,
// category or value.
type ScriptStep struct {
	At  time.Duration `yaml:"at"`
	Do  string        `yaml:"do"`
	Arg string        `yaml:"arg,omitempty"`
}

// SimulationConfig drives cmd/rigsim.
type SimulationConfig struct {
	FrameRate   int           `yaml:"frame_rate"`
	Duration    time.Duration `yaml:"duration"`
	Interactive bool          `yaml:"interactive"`
	Script      []ScriptStep  `yaml:"script"`
}

// WindowConfig holds settings for the SDL viewer.
type WindowConfig struct {
	Enabled bool `yaml:"enabled"`
	Width   int  `yaml:"width"`
	Height  int  `yaml:"height"`
	VSync   bool `yaml:"vsync"`
}

// AudioConfig holds footstep cue settings. Cues only play in the viewer.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0.0 to 1.0
	Stride  float32 `yaml:"stride"` // world units between footsteps
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Animation: AnimationConfig{
			DefaultClip:      "Idle",
			MinPlaybackSpeed: 0.05,
			DoubleTapMargin:  0.1,
		},
		Locomotion: LocomotionConfig{
			MoveSpeed:      0.4,
			ReferenceSpeed: 0.4,
			RotationSpeed:  0.05,
			WalkCategory:   "normal",
			Bounds: BoundsConfig{
				Min: [3]float32{-100, 0, -100},
				Max: [3]float32{100, 0, 100},
			},
			BobAmount: 0.1,
			BobSteps:  25,
			Scale:     4,
		},
		Camera: CameraConfig{
			Mode:              camera.ThirdPerson.String(),
			Distance:          12,
			Height:            5,
			FirstPersonHeight: 5.8,
		},
		Simulation: SimulationConfig{
			FrameRate: 61,
			Duration:  10 * time.Second,
			Script:    DefaultScript(),
		},
		Window: WindowConfig{
			Width:  1024,
			Height: 768,
			VSync:  true,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.8,
			Stride:  2,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// DefaultScript walks forward, double-taps during the stop clip, turns,
// dances, switches camera and backs up.
func DefaultScript() []ScriptStep {
	return []ScriptStep{
		{At: 0, Do: "down", Arg: "forward"},
		{At: 2 * time.Second, Do: "up", Arg: "forward"},
		{At: 2200 * time.Millisecond, Do: "down", Arg: "forward"},
		{At: 2300 * time.Millisecond, Do: "up", Arg: "forward"},
		{At: 3500 * time.Millisecond, Do: "down", Arg: "rotateLeft"},
		{At: 4 * time.Second, Do: "up", Arg: "rotateLeft"},
		{At: 4500 * time.Millisecond, Do: "trigger", Arg: "Dance"},
		{At: 6500 * time.Millisecond, Do: "camera", Arg: "firstPerson"},
		{At: 7 * time.Second, Do: "down", Arg: "backward"},
		{At: 8 * time.Second, Do: "up", Arg: "backward"},
	}
}

// LocomotionSettings converts the animation and locomotion sections.
func (c *Config) LocomotionSettings() character.Settings {
	l := c.Locomotion
	return character.Settings{
		MoveSpeed:        l.MoveSpeed,
		ReferenceSpeed:   l.ReferenceSpeed,
		RotationSpeed:    l.RotationSpeed,
		MinPlaybackSpeed: c.Animation.MinPlaybackSpeed,
		DoubleTapMargin:  c.Animation.DoubleTapMargin,
		WalkCategory:     l.WalkCategory,
		Bounds: character.Bounds{
			Min: math.Vec3FromSlice(l.Bounds.Min[:]),
			Max: math.Vec3FromSlice(l.Bounds.Max[:]),
		},
		BobAmount: l.BobAmount,
		BobSteps:  l.BobSteps,
		Scale:     l.Scale,
		Heading:   l.Heading,
	}
}

// CameraSettings converts the camera section.
func (c *Config) CameraSettings() (camera.Settings, error) {
	mode, err := camera.ParseMode(c.Camera.Mode)
	if err != nil {
		return camera.Settings{}, fmt.Errorf("camera.mode: %w", err)
	}
	return camera.Settings{
		Mode:              mode,
		Distance:          c.Camera.Distance,
		Height:            c.Camera.Height,
		FirstPersonHeight: c.Camera.FirstPersonHeight,
	}, nil
}

// FrameInterval returns the simulated time between frames.
func (c *Config) FrameInterval() time.Duration {
	if c.Simulation.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Simulation.FrameRate)
}
