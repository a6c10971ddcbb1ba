// Package game wires configuration, assets, the character catalog and the
// camera into a frame-stepped scene.
package game

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/assets"
	"github.com/Faultbox/midgard-rig/internal/config"
	"github.com/Faultbox/midgard-rig/internal/engine/camera"
	"github.com/Faultbox/midgard-rig/internal/engine/character"
	"github.com/Faultbox/midgard-rig/internal/engine/input"
	"github.com/Faultbox/midgard-rig/internal/game/entity"
	"github.com/Faultbox/midgard-rig/internal/logger"
)

// PlayerID is the entity ID of the controlled character.
const PlayerID = 1

// Game is one scene with a controlled character.
type Game struct {
	cfg      *config.Config
	assets   *assets.Manager
	rig      *assets.Rig
	catalog  *character.Catalog
	camera   *camera.Rig
	entities *entity.Manager
	player   *entity.Character
	router   *input.Router

	now    time.Duration
	frames int
}

// New loads the rig and catalog named by cfg and spawns the player.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		cfg:      cfg,
		assets:   assets.NewManager(),
		entities: entity.NewManager(),
	}

	for _, dir := range cfg.Rig.SearchPaths {
		if err := g.assets.AddRoot(dir); err != nil {
			logger.Warn("skipping search path", zap.String("path", dir), zap.Error(err))
		}
	}

	file, err := g.loadCatalogFile()
	if err != nil {
		return nil, err
	}

	if cfg.Rig.Path != "" {
		g.rig, err = g.assets.Rig(cfg.Rig.Path)
		if err != nil {
			return nil, fmt.Errorf("loading rig: %w", err)
		}
	} else {
		g.rig = assets.Procedural(file.ClipNames())
		logger.Info("using procedural rig", zap.Int("clips", len(g.rig.Clips)))
	}

	g.catalog, err = character.NewCatalog(file, g.rig.Clips)
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}

	camSettings, err := cfg.CameraSettings()
	if err != nil {
		return nil, err
	}
	g.camera = camera.NewRig(camSettings)

	g.player = entity.NewCharacter(PlayerID, "player", g.catalog, g.rig.Skeleton, g.camera, cfg.LocomotionSettings(), 0)
	g.entities.SetPlayer(g.player)
	g.router = input.NewRouter(g.player.Locomotion(), g.camera)

	logger.Info("scene ready",
		zap.Int("joints", g.rig.Skeleton.JointCount()),
		zap.Int("descriptors", g.catalog.Len()),
		zap.Stringer("camera", g.camera.Mode()))
	return g, nil
}

func (g *Game) loadCatalogFile() (character.CatalogFile, error) {
	var file character.CatalogFile
	if g.cfg.Rig.Catalog == "" {
		file = character.DefaultCatalogFile()
	} else {
		path, err := g.assets.Resolve(g.cfg.Rig.Catalog)
		if err != nil {
			return file, fmt.Errorf("catalog: %w", err)
		}
		if file, err = character.LoadCatalogFile(path); err != nil {
			return file, err
		}
	}
	if g.cfg.Animation.DefaultClip != "" {
		file.Default = g.cfg.Animation.DefaultClip
	}
	return file, nil
}

// Advance runs one frame at clock time now.
func (g *Game) Advance(now time.Duration) {
	g.now = now
	g.frames++
	g.entities.Update(now)
}

// Step advances the clock by one configured frame interval.
func (g *Game) Step() {
	g.Advance(g.now + g.cfg.FrameInterval())
}

// Now returns the clock time of the last frame.
func (g *Game) Now() time.Duration {
	return g.now
}

// Frames returns the number of frames run.
func (g *Game) Frames() int {
	return g.frames
}

// Player returns the controlled character.
func (g *Game) Player() *entity.Character {
	return g.player
}

// Camera returns the camera rig.
func (g *Game) Camera() *camera.Rig {
	return g.camera
}

// Catalog returns the animation catalog.
func (g *Game) Catalog() *character.Catalog {
	return g.catalog
}

// Router returns the input router for the player.
func (g *Game) Router() *input.Router {
	return g.router
}

// Entities returns the character manager.
func (g *Game) Entities() *entity.Manager {
	return g.entities
}

// Apply performs one script step at its time, or at the last frame time if
// that is later.
func (g *Game) Apply(step config.ScriptStep) error {
	at := step.At
	if at < g.now {
		at = g.now
	}
	loco := g.player.Locomotion()
	switch step.Do {
	case "down", "up":
		a, err := input.ParseAction(step.Arg)
		if err != nil {
			return err
		}
		if step.Do == "down" {
			g.router.Press(a, at)
		} else {
			g.router.Release(a, at)
		}
	case "trigger":
		loco.TriggerAnimation(step.Arg, at)
	case "camera":
		if step.Arg == "" {
			loco.ToggleCameraMode(at)
			return nil
		}
		m, err := camera.ParseMode(step.Arg)
		if err != nil {
			return err
		}
		loco.SetCameraMode(m, at)
	case "walk":
		loco.SetWalkCategory(step.Arg)
	case "speed":
		v, err := strconv.ParseFloat(step.Arg, 32)
		if err != nil {
			return fmt.Errorf("speed %q: %w", step.Arg, err)
		}
		loco.SetMoveSpeed(float32(v))
	default:
		return fmt.Errorf("unknown script action %q", step.Do)
	}
	return nil
}

// Close releases cached assets.
func (g *Game) Close() {
	logger.Info("closing scene", zap.Int("frames", g.frames))
	g.assets.Close()
}
