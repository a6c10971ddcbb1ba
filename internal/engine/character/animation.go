package character

import (
	gomath "math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/internal/logger"
)

// StateMachine tracks the active descriptor of one character and advances
// clip-local time every frame.
type StateMachine struct {
	catalog *Catalog

	active    ClipID
	startedAt time.Duration // clock time the active clip was selected
	lastTick  time.Duration
	localTime float32 // seconds into the active clip
}

// NewStateMachine creates a state machine on the catalog default clip.
func NewStateMachine(catalog *Catalog, now time.Duration) *StateMachine {
	sm := &StateMachine{catalog: catalog}
	sm.SelectID(catalog.Default(), now)
	return sm
}

// Catalog returns the catalog the machine selects from.
func (sm *StateMachine) Catalog() *Catalog {
	return sm.catalog
}

// Select makes the named descriptor active. Unknown names log a warning and
// select the default descriptor; the return value reports whether name was
// found.
func (sm *StateMachine) Select(name string, now time.Duration) bool {
	id, ok := sm.catalog.Lookup(name)
	if !ok {
		def := sm.catalog.Descriptor(sm.catalog.Default())
		logger.Warn("unknown animation, using default",
			zap.String("clip", name),
			zap.String("default", def.Name))
		id = def.ID
	}
	sm.SelectID(id, now)
	return ok
}

// SelectID makes descriptor id active from its first frame.
func (sm *StateMachine) SelectID(id ClipID, now time.Duration) {
	sm.active = id
	sm.startedAt = now
	sm.lastTick = now
	sm.localTime = 0
}

// Tick advances local time by the clock delta scaled by speed and follows
// successors when the active clip completes. Overflow past the end carries
// into the successor. It reports whether the active descriptor changed.
func (sm *StateMachine) Tick(now time.Duration, speed float32) bool {
	dt := now - sm.lastTick
	if dt < 0 {
		dt = 0
	}
	sm.lastTick = now
	if speed < 0 {
		speed = 0
	}
	sm.localTime += float32(dt.Seconds()) * speed

	switched := false
	// Each step enters a new descriptor, so a full pass over the catalog
	// means a cycle of zero-length clips
	for steps := 0; ; steps++ {
		if steps > sm.catalog.Len() {
			sm.localTime = 0
			break
		}

		d := sm.catalog.Descriptor(sm.active)
		dur := d.Duration()
		if dur > 0 && sm.localTime < dur {
			break
		}

		if d.Next == NoClip {
			switch {
			case dur <= 0:
				sm.localTime = 0
			case d.Hold:
				sm.localTime = dur
			default:
				sm.localTime = float32(gomath.Mod(float64(sm.localTime), float64(dur)))
			}
			break
		}

		overflow := sm.localTime - dur
		if overflow < 0 {
			overflow = 0
		}
		logger.Debug("animation advanced",
			zap.String("from", d.Name),
			zap.String("to", sm.catalog.Descriptor(d.Next).Name))
		sm.active = d.Next
		sm.startedAt = now
		sm.localTime = overflow
		switched = true
	}
	return switched
}

// Active returns the active descriptor.
func (sm *StateMachine) Active() *Descriptor {
	return sm.catalog.Descriptor(sm.active)
}

// ActiveID returns the active descriptor id.
func (sm *StateMachine) ActiveID() ClipID {
	return sm.active
}

// ActiveName returns the active descriptor name.
func (sm *StateMachine) ActiveName() string {
	return sm.Active().Name
}

// StartedAt returns the clock time the active clip was selected.
func (sm *StateMachine) StartedAt() time.Duration {
	return sm.startedAt
}

// LocalTime returns the sample time within the active clip, in seconds.
func (sm *StateMachine) LocalTime() float32 {
	return sm.localTime
}

// Evaluate writes the pose for the active clip at the current local time.
// It returns false when the skeleton is not loaded yet.
func (sm *StateMachine) Evaluate(skeleton *model.Skeleton, pose *model.Pose) bool {
	return skeleton.Evaluate(sm.Active().Clip, sm.localTime, pose)
}
