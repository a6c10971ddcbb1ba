package game

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/config"
	"github.com/Faultbox/midgard-rig/internal/engine/character"
	"github.com/Faultbox/midgard-rig/internal/logger"
)

// Report summarises a scripted run.
type Report struct {
	Frames int
	Clips  []string // active clip names in the order they became active
	Final  character.DebugState
}

// RunScript replays script at the configured frame rate until duration of
// simulated time has passed or ctx is done.
func (g *Game) RunScript(ctx context.Context, script []config.ScriptStep, duration time.Duration) (Report, error) {
	steps := append([]config.ScriptStep(nil), script...)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].At < steps[j].At })

	var report Report
	active := g.player.Animation().ActiveName()
	report.Clips = append(report.Clips, active)
	nextLog := time.Second

	for g.now < duration {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		frameEnd := g.now + g.cfg.FrameInterval()
		for len(steps) > 0 && steps[0].At <= frameEnd {
			if err := g.Apply(steps[0]); err != nil {
				return report, fmt.Errorf("script step at %v: %w", steps[0].At, err)
			}
			logger.Debug("script step",
				zap.Duration("at", steps[0].At),
				zap.String("do", steps[0].Do),
				zap.String("arg", steps[0].Arg))
			steps = steps[1:]
		}

		g.Advance(frameEnd)
		report.Frames++

		if name := g.player.Animation().ActiveName(); name != active {
			active = name
			report.Clips = append(report.Clips, name)
			logger.Debug("clip changed", zap.String("clip", name), zap.Duration("at", g.now))
		}
		if g.now >= nextLog {
			logState(g.now, g.player.DebugState())
			nextLog += time.Second
		}
	}

	report.Final = g.player.DebugState()
	return report, nil
}

func logState(now time.Duration, st character.DebugState) {
	logger.Info("state",
		zap.Duration("t", now),
		zap.Float32("x", st.Position.X),
		zap.Float32("y", st.Position.Y),
		zap.Float32("z", st.Position.Z),
		zap.Float32("heading", st.Heading),
		zap.String("clip", st.ActiveClip),
		zap.Bool("moving", st.IsMoving),
		zap.Stringer("camera", st.CameraMode),
		zap.Strings("keys", st.HeldKeys))
}
