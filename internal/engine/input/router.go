package input

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/engine/camera"
	"github.com/Faultbox/midgard-rig/internal/engine/character"
	"github.com/Faultbox/midgard-rig/internal/logger"
)

// Router dispatches actions and window events to a character controller and
// its camera rig.
type Router struct {
	loco *character.Locomotion
	rig  *camera.Rig

	dragging bool
}

// NewRouter creates a router. rig may be nil.
func NewRouter(loco *character.Locomotion, rig *camera.Rig) *Router {
	return &Router{loco: loco, rig: rig}
}

// Press applies the start of an action. It returns false when the action
// asks to quit.
func (r *Router) Press(a Action, now time.Duration) bool {
	if k, ok := a.Key(); ok {
		r.loco.KeyDown(k, now)
		return true
	}
	switch a {
	case ActionToggleCamera:
		m := r.loco.ToggleCameraMode(now)
		logger.Info("camera mode changed", zap.Stringer("mode", m))
	case ActionQuit:
		return false
	}
	return true
}

// Release applies the end of a movement action.
func (r *Router) Release(a Action, now time.Duration) {
	if k, ok := a.Key(); ok {
		r.loco.KeyUp(k, now)
	}
}

// Trigger plays the visible action at slot, as listed by the catalog.
func (r *Router) Trigger(slot int, now time.Duration) bool {
	actions := r.loco.Catalog().Actions()
	if slot < 0 || slot >= len(actions) {
		return false
	}
	name := actions[slot].Name
	logger.Debug("trigger animation", zap.String("clip", name))
	return r.loco.TriggerAnimation(name, now)
}

// HandleEvent applies a polled SDL event. It returns false when the event
// asks to quit.
func (r *Router) HandleEvent(ev Event, now time.Duration) bool {
	switch ev.Type {
	case EventQuit:
		return false
	case EventKeyDown:
		if ev.Repeat {
			return true
		}
		if slot, ok := ScancodeSlot(ev.Key); ok {
			r.Trigger(slot, now)
			return true
		}
		return r.Press(ScancodeAction(ev.Key), now)
	case EventKeyUp:
		r.Release(ScancodeAction(ev.Key), now)
	case EventMouseDown:
		if ev.Button == sdl.BUTTON_LEFT {
			r.dragging = true
		}
	case EventMouseUp:
		if ev.Button == sdl.BUTTON_LEFT {
			r.dragging = false
		}
	case EventMouseMove:
		if r.dragging && r.rig != nil {
			r.rig.HandleDrag(float32(ev.DeltaX), float32(ev.DeltaY))
		}
	case EventMouseWheel:
		if r.rig != nil {
			r.rig.HandleZoom(float32(ev.Wheel))
		}
	}
	return true
}
