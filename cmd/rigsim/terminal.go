package main

import (
	"context"
	"fmt"
	gomath "math"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/config"
	"github.com/Faultbox/midgard-rig/internal/engine/character"
	"github.com/Faultbox/midgard-rig/internal/engine/input"
	"github.com/Faultbox/midgard-rig/internal/game"
	"github.com/Faultbox/midgard-rig/internal/logger"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

const statusLines = 4

var (
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHero   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleMenu   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// headingGlyphs are indexed by heading octant, starting at +Z (up the
// screen) and turning towards +X.
var headingGlyphs = []rune{'^', '/', '>', '\\', 'v', '/', '<', '\\'}

// runInteractive drives the player from the keyboard until quit or ctx ends.
// Terminals send no key-up, so a held key is released once its auto-repeat
// stops.
func runInteractive(ctx context.Context, g *game.Game, cfg *config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	ticker := time.NewTicker(cfg.FrameInterval())
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(screen, events, done)

	start := time.Now()
	hold := input.NewHoldTracker(input.DefaultHoldTimeout)
	router := g.Router()
	bounds := cfg.LocomotionSettings().Bounds

	logger.Info("interactive session started")
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			now := time.Since(start)
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if slot, ok := input.TriggerSlot(ev); ok {
					router.Trigger(slot, now)
					continue
				}
				a := input.KeyAction(ev)
				if a == input.ActionNone || !hold.Press(a, now) {
					continue
				}
				if !router.Press(a, now) {
					logger.Info("interactive session ended", zap.Int("frames", g.Frames()))
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			now := time.Since(start)
			for _, a := range hold.Expired(now) {
				router.Release(a, now)
			}
			g.Advance(now)
			draw(screen, g, bounds)
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done
// is closed.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return // screen finalized
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func draw(screen tcell.Screen, g *game.Game, bounds character.Bounds) {
	screen.Clear()
	w, h := screen.Size()
	fieldH := h - statusLines
	if w < 3 || fieldH < 3 {
		screen.Show()
		return
	}

	for x := 0; x < w; x++ {
		screen.SetContent(x, 0, '-', nil, styleBorder)
		screen.SetContent(x, fieldH-1, '-', nil, styleBorder)
	}
	for y := 0; y < fieldH; y++ {
		screen.SetContent(0, y, '|', nil, styleBorder)
		screen.SetContent(w-1, y, '|', nil, styleBorder)
	}

	st := g.Player().DebugState()
	if col, row, ok := fieldCell(bounds, st.Position, w, fieldH); ok {
		screen.SetContent(col, row, headingGlyph(st.Heading), nil, styleHero)
	}

	status := fmt.Sprintf("clip %-20s pos (%6.1f %5.2f %6.1f)  heading %5.2f  camera %s",
		st.ActiveClip, st.Position.X, st.Position.Y, st.Position.Z, st.Heading, st.CameraMode)
	drawText(screen, 0, fieldH, status, styleStatus)
	drawText(screen, 0, fieldH+1, fmt.Sprintf("moving %-5v keys %v", st.IsMoving, st.HeldKeys), styleStatus)

	menu := ""
	for i, d := range g.Catalog().Actions() {
		if i >= 9 {
			break
		}
		menu += fmt.Sprintf("%d:%s ", i+1, d.Name)
	}
	drawText(screen, 0, fieldH+2, menu, styleMenu)
	drawText(screen, 0, fieldH+3, "WASD/arrows move  C camera  Q quit", styleBorder)

	screen.Show()
}

// fieldCell maps pos inside bounds to a cell of the bordered w x fieldH
// field, +Z up the screen. It reports false when the box has no area to
// scale by.
func fieldCell(bounds character.Bounds, pos math.Vec3, w, fieldH int) (col, row int, ok bool) {
	spanX := bounds.Max.X - bounds.Min.X
	spanZ := bounds.Max.Z - bounds.Min.Z
	if bounds.Unbounded() || spanX <= 0 || spanZ <= 0 {
		return 0, 0, false
	}
	fx := (pos.X - bounds.Min.X) / spanX
	fz := (pos.Z - bounds.Min.Z) / spanZ
	col = 1 + int(fx*float32(w-3))
	row = fieldH - 2 - int(fz*float32(fieldH-3))
	return col, row, true
}

func headingGlyph(h float32) rune {
	turn := gomath.Mod(float64(h), 2*gomath.Pi)
	if turn < 0 {
		turn += 2 * gomath.Pi
	}
	octant := int(gomath.Round(turn/(gomath.Pi/4))) % len(headingGlyphs)
	return headingGlyphs[octant]
}

func drawText(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
