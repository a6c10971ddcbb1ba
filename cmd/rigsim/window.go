package main

import (
	"context"
	"fmt"
	gomath "math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/config"
	"github.com/Faultbox/midgard-rig/internal/engine/audio"
	"github.com/Faultbox/midgard-rig/internal/engine/input"
	"github.com/Faultbox/midgard-rig/internal/engine/window"
	"github.com/Faultbox/midgard-rig/internal/game"
	"github.com/Faultbox/midgard-rig/internal/game/entity"
	"github.com/Faultbox/midgard-rig/internal/logger"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

// View extents in world units around the character.
const (
	frontHalfWidth = 12
	frontHeight    = 24
	unboundedField = 50
)

const cameraFOV = gomath.Pi / 3

var (
	colorBackground = window.Color{R: 24, G: 24, B: 28, A: 255}
	colorGrid       = window.Color{R: 60, G: 60, B: 70, A: 255}
	colorBone       = window.Color{R: 240, G: 200, B: 80, A: 255}
	colorJoint      = window.Color{R: 255, G: 255, B: 255, A: 255}
	colorHeading    = window.Color{R: 90, G: 200, B: 120, A: 255}
)

// runWindowed drives the player from an SDL window: keys move, digits
// trigger actions, left-drag and the wheel steer the camera.
func runWindowed(ctx context.Context, g *game.Game, cfg *config.Config) error {
	win, err := window.New(window.Config{
		Title:  "Midgard Rig",
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer win.Close()

	var sound *audio.Manager
	if cfg.Audio.Enabled {
		sound = audio.New(cfg.Audio.Volume)
		if err := sound.Init(); err != nil {
			// The viewer works without audio
			logger.Warn("audio unavailable", zap.Error(err))
			sound = nil
		} else {
			defer sound.Close()
		}
	}
	steps := audio.NewFootsteps(cfg.Audio.Stride)

	in := input.New()
	router := g.Router()
	ticker := time.NewTicker(cfg.FrameInterval())
	defer ticker.Stop()

	start := time.Now()
	active := g.Player().Animation().ActiveName()
	var bones []entity.Bone

	logger.Info("windowed session started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		now := time.Since(start)
		quit := in.Update()
		for _, ev := range in.Events() {
			if !router.HandleEvent(ev, now) {
				quit = true
			}
		}
		if quit {
			logger.Info("windowed session ended", zap.Int("frames", g.Frames()))
			return nil
		}

		g.Advance(now)
		st := g.Player().DebugState()

		if st.ActiveClip != active {
			active = st.ActiveClip
			win.SetTitle("Midgard Rig - " + active)
			if sound != nil {
				playCue(sound.PlayClipCue)
			}
		}
		if steps.Observe(st.Position, st.IsMoving) && sound != nil {
			playCue(sound.PlayFootstep)
		}

		bones = g.Player().Bones(bones[:0])
		drawWindow(win, g, cfg, st.Position, st.Heading, bones)
	}
}

func playCue(play func() error) {
	if err := play(); err != nil {
		logger.Debug("cue dropped", zap.Error(err))
	}
}

// drawWindow shows the field from above on the left, and on the right the
// camera rig's view above the skeleton seen from the front.
func drawWindow(win *window.Window, g *game.Game, cfg *config.Config, pos math.Vec3, heading float32, bones []entity.Bone) {
	w, h := win.GetSize()
	win.Clear(colorBackground)

	minX, minZ, maxX, maxZ := fieldBox(cfg, pos)
	top := window.Fit(window.TopDown, minX, minZ, maxX, maxZ, 0, 0, w/2, h)
	camView := window.NewPerspective(g.Camera().ViewMatrix(), cameraFOV, w/2, 0, w-w/2, h/2)
	front := window.Fit(window.Front,
		pos.X-frontHalfWidth, pos.Y, pos.X+frontHalfWidth, pos.Y+frontHeight, w/2, h/2, w-w/2, h-h/2)

	win.SetColor(colorGrid)
	win.Outline(top.Bounds())
	win.Outline(front.Bounds())
	win.Outline(int32(w/2), 0, int32(w-w/2), int32(h/2))

	drawBones(win, flatProjector(top), bones)
	drawBones(win, flatProjector(front), bones)
	if g.Camera().ModelVisible() {
		drawBones(win, camView.Project, bones)
	}

	// Heading marker, two metres ahead
	win.SetColor(colorHeading)
	ahead := math.Vec3{
		X: pos.X + 2*float32(gomath.Sin(float64(heading))),
		Z: pos.Z + 2*float32(gomath.Cos(float64(heading))),
	}
	x1, y1 := top.Project(pos)
	x2, y2 := top.Project(ahead)
	win.Line(x1, y1, x2, y2)

	win.Present()
}

// fieldBox is the top-down extent: the movement bounds, or a window around
// the character when movement is unbounded.
func fieldBox(cfg *config.Config, pos math.Vec3) (minX, minZ, maxX, maxZ float32) {
	b := cfg.LocomotionSettings().Bounds
	if b.Unbounded() {
		return pos.X - unboundedField, pos.Z - unboundedField, pos.X + unboundedField, pos.Z + unboundedField
	}
	return b.Min.X, b.Min.Z, b.Max.X, b.Max.Z
}

type projector func(math.Vec3) (int32, int32, bool)

func flatProjector(vp window.Viewport) projector {
	return func(p math.Vec3) (int32, int32, bool) {
		x, y := vp.Project(p)
		return x, y, true
	}
}

func drawBones(win *window.Window, project projector, bones []entity.Bone) {
	win.SetColor(colorBone)
	for _, b := range bones {
		x1, y1, ok1 := project(b.From)
		x2, y2, ok2 := project(b.To)
		if ok1 && ok2 {
			win.Line(x1, y1, x2, y2)
		}
	}
	win.SetColor(colorJoint)
	for _, b := range bones {
		if x, y, ok := project(b.To); ok {
			win.FillRect(x-2, y-2, 5, 5)
		}
	}
}
