package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagRig         = flag.String("rig", "", "Rig document (default: procedural rig)")
	flagCatalog     = flag.String("catalog", "", "Animation catalog file (default: built-in)")
	flagWalk        = flag.String("walk", "", "Walk category")
	flagSpeed       = flag.Float64("speed", 0, "Move speed in units per frame")
	flagCamera      = flag.String("camera", "", "Camera mode: orbital, thirdPerson or firstPerson")
	flagDuration    = flag.Duration("duration", 0, "Simulated run length")
	flagInteractive = flag.Bool("interactive", false, "Drive the character from the terminal")
	flagWindow      = flag.Bool("window", false, "Drive the character from an SDL window")
	flagMute        = flag.Bool("mute", false, "Disable footstep cues")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagRig != "" {
		cfg.Rig.Path = *flagRig
	}
	if *flagCatalog != "" {
		cfg.Rig.Catalog = *flagCatalog
	}
	if *flagWalk != "" {
		cfg.Locomotion.WalkCategory = *flagWalk
	}
	if *flagSpeed > 0 {
		cfg.Locomotion.MoveSpeed = float32(*flagSpeed)
	}
	if *flagCamera != "" {
		cfg.Camera.Mode = *flagCamera
	}
	if *flagDuration > 0 {
		cfg.Simulation.Duration = *flagDuration
	}
	if *flagInteractive {
		cfg.Simulation.Interactive = true
	}
	if *flagWindow {
		cfg.Window.Enabled = true
	}
	if *flagMute {
		cfg.Audio.Enabled = false
	}
}
