package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/midgard-rig/internal/engine/camera"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Locomotion defaults
	if cfg.Locomotion.MoveSpeed != 0.4 {
		t.Errorf("expected move speed 0.4, got %f", cfg.Locomotion.MoveSpeed)
	}
	if cfg.Locomotion.RotationSpeed != 0.05 {
		t.Errorf("expected rotation speed 0.05, got %f", cfg.Locomotion.RotationSpeed)
	}
	if cfg.Locomotion.WalkCategory != "normal" {
		t.Errorf("expected walk category 'normal', got %s", cfg.Locomotion.WalkCategory)
	}
	if cfg.Locomotion.Scale != 4 {
		t.Errorf("expected scale 4, got %f", cfg.Locomotion.Scale)
	}

	// Animation defaults
	if cfg.Animation.DefaultClip != "Idle" {
		t.Errorf("expected default clip 'Idle', got %s", cfg.Animation.DefaultClip)
	}
	if cfg.Animation.DoubleTapMargin != 0.1 {
		t.Errorf("expected double tap margin 0.1, got %f", cfg.Animation.DoubleTapMargin)
	}

	// Camera defaults
	if cfg.Camera.Mode != "thirdPerson" {
		t.Errorf("expected camera mode 'thirdPerson', got %s", cfg.Camera.Mode)
	}
	if cfg.Camera.FirstPersonHeight != 5.8 {
		t.Errorf("expected first person height 5.8, got %f", cfg.Camera.FirstPersonHeight)
	}

	// Simulation defaults
	if cfg.Simulation.FrameRate != 61 {
		t.Errorf("expected frame rate 61, got %d", cfg.Simulation.FrameRate)
	}
	if len(cfg.Simulation.Script) == 0 {
		t.Error("expected a default script")
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
rig:
  path: "hero.yaml"
  search_paths: ["assets", "/opt/rigs"]

locomotion:
  move_speed: 0.8
  walk_category: relaxed
  bounds:
    min: [-10, 0, -20]
    max: [10, 0, 20]

camera:
  mode: orbital
  distance: 30

simulation:
  frame_rate: 30
  duration: 4s
  script:
    - {at: 0s, do: down, arg: forward}
    - {at: 1500ms, do: up, arg: forward}

logging:
  level: "debug"
  log_file: "rig.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Rig.Path != "hero.yaml" {
		t.Errorf("expected rig path hero.yaml, got %s", cfg.Rig.Path)
	}
	if len(cfg.Rig.SearchPaths) != 2 {
		t.Errorf("expected 2 search paths, got %v", cfg.Rig.SearchPaths)
	}
	if cfg.Locomotion.MoveSpeed != 0.8 {
		t.Errorf("expected move speed 0.8, got %f", cfg.Locomotion.MoveSpeed)
	}
	// Unset keys keep their defaults
	if cfg.Locomotion.RotationSpeed != 0.05 {
		t.Errorf("expected default rotation speed, got %f", cfg.Locomotion.RotationSpeed)
	}
	if cfg.Locomotion.Bounds.Max != [3]float32{10, 0, 20} {
		t.Errorf("unexpected bounds max %v", cfg.Locomotion.Bounds.Max)
	}
	if cfg.Camera.Mode != "orbital" || cfg.Camera.Distance != 30 {
		t.Errorf("unexpected camera %+v", cfg.Camera)
	}
	if cfg.Camera.Height != 5 {
		t.Errorf("expected default camera height, got %f", cfg.Camera.Height)
	}
	if cfg.Simulation.Duration != 4*time.Second {
		t.Errorf("expected duration 4s, got %v", cfg.Simulation.Duration)
	}
	if len(cfg.Simulation.Script) != 2 || cfg.Simulation.Script[1].At != 1500*time.Millisecond {
		t.Errorf("script not replaced: %+v", cfg.Simulation.Script)
	}
	if cfg.Logging.LogFile != "rig.log" {
		t.Errorf("expected log file 'rig.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
locomotion:
  move_speed: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileStrict(t *testing.T) {
	dir := t.TempDir()

	typo := filepath.Join(dir, "typo.yaml")
	if err := os.WriteFile(typo, []byte("locomotion:\n  move_sped: 0.8\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := loadFromFile(Default(), typo); err == nil {
		t.Error("expected error for an unknown key, got nil")
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, empty); err != nil {
		t.Errorf("empty file: %v", err)
	}
	if cfg.Locomotion.MoveSpeed != 0.4 {
		t.Errorf("empty file changed defaults: move speed %f", cfg.Locomotion.MoveSpeed)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"camera mode", func(c *Config) { c.Camera.Mode = "cinematic" }},
		{"negative speed", func(c *Config) { c.Locomotion.MoveSpeed = -1 }},
		{"inverted bounds", func(c *Config) { c.Locomotion.Bounds.Min[0] = 200 }},
		{"point bounds", func(c *Config) {
			c.Locomotion.Bounds = BoundsConfig{Min: [3]float32{5, 0, 5}, Max: [3]float32{5, 0, 5}}
		}},
		{"flat bounds", func(c *Config) { c.Locomotion.Bounds.Max[2] = c.Locomotion.Bounds.Min[2] }},
		{"frame rate", func(c *Config) { c.Simulation.FrameRate = 0 }},
		{"script verb", func(c *Config) { c.Simulation.Script = []ScriptStep{{Do: "jump"}} }},
		{"window size", func(c *Config) { c.Window.Enabled = true; c.Window.Width = 0 }},
		{"audio volume", func(c *Config) { c.Audio.Volume = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateZeroBounds(t *testing.T) {
	cfg := Default()
	cfg.Locomotion.Bounds = BoundsConfig{}
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero bounds should mean unbounded, got %v", err)
	}
	if !cfg.LocomotionSettings().Bounds.Unbounded() {
		t.Error("zero bounds converted to a limiting box")
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Locomotion.Heading = 1.5

	s := cfg.LocomotionSettings()
	if s.MoveSpeed != 0.4 || s.MinPlaybackSpeed != 0.05 || s.Heading != 1.5 {
		t.Errorf("unexpected locomotion settings %+v", s)
	}
	if s.Bounds.Min != (math.Vec3{X: -100, Z: -100}) {
		t.Errorf("unexpected bounds %+v", s.Bounds)
	}

	cs, err := cfg.CameraSettings()
	if err != nil {
		t.Fatalf("CameraSettings: %v", err)
	}
	if cs.Mode != camera.ThirdPerson || cs.Distance != 12 {
		t.Errorf("unexpected camera settings %+v", cs)
	}

	if got := cfg.FrameInterval(); got != time.Second/61 {
		t.Errorf("FrameInterval = %v", got)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  mode: orbital\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}

	// rigsim.yaml wins over config.yaml
	if err := os.WriteFile(filepath.Join(tmpDir, "rigsim.yaml"), []byte("camera:\n  mode: orbital\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path = findConfigFile(); path != "./rigsim.yaml" {
		t.Errorf("findConfigFile = %q, want ./rigsim.yaml", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "asset flags",
			setup: func() {
				*flagRig = "hero.yaml"
				*flagCatalog = "moves.yaml"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Rig.Path != "hero.yaml" || cfg.Rig.Catalog != "moves.yaml" {
					t.Errorf("unexpected rig config %+v", cfg.Rig)
				}
			},
			teardown: func() {
				*flagRig = ""
				*flagCatalog = ""
			},
		},
		{
			name: "movement flags",
			setup: func() {
				*flagWalk = "relaxed"
				*flagSpeed = 0.8
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Locomotion.WalkCategory != "relaxed" {
					t.Errorf("expected walk category relaxed, got %s", cfg.Locomotion.WalkCategory)
				}
				if cfg.Locomotion.MoveSpeed != 0.8 {
					t.Errorf("expected move speed 0.8, got %f", cfg.Locomotion.MoveSpeed)
				}
			},
			teardown: func() {
				*flagWalk = ""
				*flagSpeed = 0
			},
		},
		{
			name:  "camera flag",
			setup: func() { *flagCamera = "first" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Camera.Mode != "first" {
					t.Errorf("expected camera mode 'first', got %s", cfg.Camera.Mode)
				}
				if err := cfg.Validate(); err != nil {
					t.Errorf("alias rejected: %v", err)
				}
			},
			teardown: func() { *flagCamera = "" },
		},
		{
			name: "simulation flags",
			setup: func() {
				*flagDuration = 3 * time.Second
				*flagInteractive = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Simulation.Duration != 3*time.Second || !cfg.Simulation.Interactive {
					t.Errorf("unexpected simulation config %+v", cfg.Simulation)
				}
			},
			teardown: func() {
				*flagDuration = 0
				*flagInteractive = false
			},
		},
		{
			name: "viewer flags",
			setup: func() {
				*flagWindow = true
				*flagMute = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Enabled {
					t.Error("expected window enabled")
				}
				if cfg.Audio.Enabled {
					t.Error("expected audio muted")
				}
			},
			teardown: func() {
				*flagWindow = false
				*flagMute = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
locomotion:
  move_speed: 0.6
  walk_category: relaxed
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagSpeed = 1.2
	defer func() {
		*flagConfig = ""
		*flagSpeed = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Speed from flag, not file
	if cfg.Locomotion.MoveSpeed != 1.2 {
		t.Errorf("expected move speed 1.2 from flag, got %f", cfg.Locomotion.MoveSpeed)
	}
	// Category from file since no flag override
	if cfg.Locomotion.WalkCategory != "relaxed" {
		t.Errorf("expected walk category relaxed from file, got %s", cfg.Locomotion.WalkCategory)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Camera.Mode = "orbital"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Camera.Mode != "orbital" {
		t.Errorf("expected saved camera mode orbital, got %s", loaded.Camera.Mode)
	}
	if len(loaded.Simulation.Script) != len(cfg.Simulation.Script) {
		t.Errorf("script length %d after reload, want %d", len(loaded.Simulation.Script), len(cfg.Simulation.Script))
	}
}
