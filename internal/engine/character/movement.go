package character

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/engine/camera"
	"github.com/Faultbox/midgard-rig/internal/logger"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

type commandKind int

const (
	cmdStop commandKind = iota
)

// command is a deferred state change applied at the start of Update.
type command struct {
	at   time.Duration
	gen  uint64
	kind commandKind
}

// Locomotion turns key events into heading, position and walk clip
// selection for one character. All methods run on the frame loop; deferred
// stops are queued and applied by Update, never from another goroutine.
type Locomotion struct {
	machine  *StateMachine
	camera   *camera.Rig
	settings Settings

	position   math.Vec3
	baseHeight float32
	heading    float32

	keys           [keyCount]bool
	movingForward  bool
	movingBackward bool

	startedMoving time.Duration
	rampDelay     time.Duration
	suppressUntil time.Duration

	// generation increments on every key-down; a queued stop whose
	// generation is stale no longer applies
	generation uint64
	pending    []command

	bobStep    float32
	atBoundary bool
}

// NewLocomotion creates a controller driving machine. cam may be nil for
// headless characters, which behave as if in third-person mode.
func NewLocomotion(machine *StateMachine, cam *camera.Rig, s Settings) *Locomotion {
	l := &Locomotion{
		machine:  machine,
		camera:   cam,
		settings: s,
		heading:  WrapHeading(s.Heading),
	}
	if l.settings.BobSteps <= 0 {
		l.settings.BobSteps = 25
	}
	if l.settings.ReferenceSpeed <= 0 {
		l.settings.ReferenceSpeed = l.settings.MoveSpeed
	}
	return l
}

// Catalog returns the catalog the controller selects clips from.
func (l *Locomotion) Catalog() *Catalog {
	return l.machine.Catalog()
}

// CameraMode returns the active camera mode.
func (l *Locomotion) CameraMode() camera.Mode {
	if l.camera == nil {
		return camera.ThirdPerson
	}
	return l.camera.Mode()
}

func (l *Locomotion) walkSet() (WalkSet, bool) {
	cat := l.machine.Catalog()
	if !cat.HasWalkSets() {
		return WalkSet{}, false
	}
	ws, _ := cat.WalkSet(l.settings.WalkCategory)
	return ws, true
}

// KeyDown handles a key press at clock time now.
func (l *Locomotion) KeyDown(k Key, now time.Duration) {
	if k < 0 || k >= keyCount {
		return
	}
	if l.CameraMode() == camera.Orbital {
		return
	}
	if l.keys[k] {
		return // auto-repeat
	}

	if k == KeyRotateLeft || k == KeyRotateRight {
		l.keys[k.opposite()] = false
		l.keys[k] = true
		return
	}

	if now < l.suppressUntil {
		logger.Debug("key-down suppressed during stop clip",
			zap.Stringer("key", k),
			zap.Duration("remaining", l.suppressUntil-now))
		return
	}

	l.keys[k.opposite()] = false
	l.keys[k] = true
	l.generation++
	l.movingForward = k == KeyForward
	l.movingBackward = k == KeyBackward
	l.startedMoving = now
	l.rampDelay = 0

	ws, ok := l.walkSet()
	if !ok {
		return
	}
	start := ws.Start
	if k == KeyBackward {
		start = ws.RevStart
	}
	l.machine.SelectID(start, now)
	l.rampDelay = l.machine.Active().PreDelay
}

// KeyUp handles a key release at clock time now.
func (l *Locomotion) KeyUp(k Key, now time.Duration) {
	if k < 0 || k >= keyCount || !l.keys[k] {
		return
	}
	l.keys[k] = false
	if k == KeyRotateLeft || k == KeyRotateRight {
		return
	}

	cat := l.machine.Catalog()
	ws, ok := l.walkSet()
	if !ok || l.machine.ActiveID() == cat.Default() {
		l.stop()
		return
	}

	end := ws.End
	if k == KeyBackward {
		end = ws.RevEnd
	}
	l.machine.SelectID(end, now)

	d := l.machine.Active()
	speed := l.PlaybackSpeed()
	if speed <= 0 {
		l.stop()
		return
	}
	clipTime := time.Duration(float64(d.Duration()) / float64(speed) * float64(time.Second))
	l.suppressUntil = now + time.Duration(float64(clipTime)*(1+float64(l.settings.DoubleTapMargin)))

	delay := time.Duration(float64(d.PostDelay) / float64(speed))
	if delay <= 0 {
		l.stop()
		return
	}
	l.pending = append(l.pending, command{at: now + delay, gen: l.generation, kind: cmdStop})
}

func (l *Locomotion) stop() {
	l.movingForward = false
	l.movingBackward = false
}

// halt drops held movement keys and queued stops and returns to the default
// clip if a walk clip is playing.
func (l *Locomotion) halt(now time.Duration) {
	l.keys = [keyCount]bool{}
	l.generation++
	l.pending = l.pending[:0]
	l.stop()
	if l.machine.Active().Walk {
		l.machine.SelectID(l.machine.Catalog().Default(), now)
	}
}

// drain applies queued commands that are due.
func (l *Locomotion) drain(now time.Duration) {
	kept := l.pending[:0]
	for _, c := range l.pending {
		if c.at > now {
			kept = append(kept, c)
			continue
		}
		if c.gen != l.generation {
			continue
		}
		switch c.kind {
		case cmdStop:
			l.stop()
		}
	}
	l.pending = kept
}

// IsMoving reports whether velocity is being applied.
func (l *Locomotion) IsMoving() bool {
	return (l.movingForward || l.movingBackward) && l.CameraMode() != camera.Orbital
}

// PlaybackSpeed is the rate the active clip plays at: the move speed relative
// to the reference speed, floored, times the descriptor sensitivity.
func (l *Locomotion) PlaybackSpeed() float32 {
	base := float32(1)
	if l.settings.ReferenceSpeed > 0 {
		base = l.settings.MoveSpeed / l.settings.ReferenceSpeed
	}
	if base < l.settings.MinPlaybackSpeed {
		base = l.settings.MinPlaybackSpeed
	}
	return base * l.machine.Active().Sensitivity
}

// RampPhase returns the acceleration factor in [0, 1] at now.
func (l *Locomotion) RampPhase(now time.Duration) float32 {
	if l.rampDelay <= 0 {
		return 1
	}
	p := float32(now-l.startedMoving) / float32(l.rampDelay)
	return clampf(p, 0, 1)
}

// EffectiveMoveSpeed is the distance covered this frame at now.
func (l *Locomotion) EffectiveMoveSpeed(now time.Duration) float32 {
	sens := l.machine.Catalog().CategorySensitivity(l.settings.WalkCategory)
	return l.settings.MoveSpeed * sens * l.RampPhase(now)
}

// Update runs one frame: queued commands, clip advance, rotation, movement,
// bobbing and camera tracking.
func (l *Locomotion) Update(now time.Duration) {
	l.drain(now)
	l.machine.Tick(now, l.PlaybackSpeed())

	if l.CameraMode() != camera.Orbital {
		if l.keys[KeyRotateLeft] {
			l.heading += l.settings.RotationSpeed
		}
		if l.keys[KeyRotateRight] {
			l.heading -= l.settings.RotationSpeed
		}
		l.heading = WrapHeading(l.heading)

		forward := Forward(l.heading)
		var dir math.Vec3
		if l.movingForward {
			dir = dir.Add(forward)
		}
		if l.movingBackward {
			dir = dir.Sub(forward)
		}
		if dir.Length() > 0 {
			step := dir.Normalize().Scale(l.EffectiveMoveSpeed(now))
			l.moveBy(step)
		}
	}

	l.updateBob()

	if l.camera != nil {
		l.camera.Track(l.position, l.heading)
	}
}

// moveBy applies step on X and Z, sliding along the boundary: if the full
// move leaves the bounds each axis is retried alone.
func (l *Locomotion) moveBy(step math.Vec3) {
	b := l.settings.Bounds
	candidate := math.Vec3{X: l.position.X + step.X, Y: l.position.Y, Z: l.position.Z + step.Z}
	if b.Contains(candidate) {
		l.position = candidate
		l.atBoundary = false
		return
	}

	onlyX := math.Vec3{X: candidate.X, Y: l.position.Y, Z: l.position.Z}
	onlyZ := math.Vec3{X: l.position.X, Y: l.position.Y, Z: candidate.Z}
	if b.Contains(onlyX) {
		l.position.X = onlyX.X
	}
	if b.Contains(onlyZ) {
		l.position.Z = onlyZ.Z
	}

	if !l.atBoundary {
		l.atBoundary = true
		logger.Debug("movement clamped at boundary",
			zap.Float32("x", l.position.X),
			zap.Float32("z", l.position.Z))
	}
}

func (l *Locomotion) updateBob() {
	if !l.IsMoving() {
		l.bobStep = 0
		l.position.Y = l.baseHeight
		return
	}
	// One walk cycle is a unit of phase split into BobSteps frames
	l.bobStep += 1 / float32(l.settings.BobSteps)
	if l.bobStep >= 1 {
		l.bobStep -= 1
	}
	offset := l.bobStep * l.settings.BobAmount
	if offset < 0 {
		offset = -offset
	}
	l.position.Y = l.baseHeight + offset
}

// SetWalkCategory switches walking style. Unknown categories use the default
// walk set with the fallback sensitivity.
func (l *Locomotion) SetWalkCategory(name string) {
	if _, ok := l.machine.Catalog().WalkSet(name); !ok {
		logger.Warn("unknown walk category, using default set", zap.String("category", name))
	}
	l.settings.WalkCategory = name
}

// WalkCategory returns the current walking style.
func (l *Locomotion) WalkCategory() string {
	return l.settings.WalkCategory
}

// SetMoveSpeed sets the base move speed; negative values are treated as 0.
func (l *Locomotion) SetMoveSpeed(v float32) {
	if v < 0 {
		v = 0
	}
	l.settings.MoveSpeed = v
}

// MoveSpeed returns the base move speed.
func (l *Locomotion) MoveSpeed() float32 {
	return l.settings.MoveSpeed
}

// SetRotationSpeed sets the per-frame turn rate in radians.
func (l *Locomotion) SetRotationSpeed(v float32) {
	l.settings.RotationSpeed = v
}

// TriggerAnimation plays a one-shot clip in place. Movement is halted first.
// Unknown names fall back to the default clip.
func (l *Locomotion) TriggerAnimation(name string, now time.Duration) bool {
	l.halt(now)
	return l.machine.Select(name, now)
}

// SetCameraMode switches the camera. Entering orbital mode halts movement.
func (l *Locomotion) SetCameraMode(m camera.Mode, now time.Duration) {
	if l.camera == nil {
		return
	}
	l.camera.SetMode(m)
	l.onCameraChange(now)
}

// ToggleCameraMode cycles the camera mode and returns the new mode.
func (l *Locomotion) ToggleCameraMode(now time.Duration) camera.Mode {
	if l.camera == nil {
		return camera.ThirdPerson
	}
	m := l.camera.Toggle()
	l.onCameraChange(now)
	return m
}

func (l *Locomotion) onCameraChange(now time.Duration) {
	logger.Debug("camera mode", zap.Stringer("mode", l.camera.Mode()))
	if l.camera.Mode() == camera.Orbital {
		l.halt(now)
	}
	l.camera.Track(l.position, l.heading)
}

// SetPosition places the character, clamped to the bounds. Y becomes the
// resting height for bobbing.
func (l *Locomotion) SetPosition(p math.Vec3) {
	l.position = l.settings.Bounds.Clamp(p)
	l.baseHeight = l.position.Y
	if l.camera != nil {
		l.camera.Track(l.position, l.heading)
	}
}

// Position returns the current position.
func (l *Locomotion) Position() math.Vec3 {
	return l.position
}

// Heading returns the facing angle in radians.
func (l *Locomotion) Heading() float32 {
	return l.heading
}

// SetHeading sets the facing angle.
func (l *Locomotion) SetHeading(h float32) {
	l.heading = WrapHeading(h)
}

// ModelMatrix returns the character world transform.
func (l *Locomotion) ModelMatrix() math.Mat4 {
	return ModelMatrix(l.position, l.heading, l.settings.Scale)
}

// DebugState returns a snapshot of the controller.
func (l *Locomotion) DebugState() DebugState {
	var held []string
	for k := Key(0); k < keyCount; k++ {
		if l.keys[k] {
			held = append(held, k.String())
		}
	}
	return DebugState{
		Position:   l.position,
		Heading:    l.heading,
		ActiveClip: l.machine.ActiveName(),
		IsMoving:   l.IsMoving(),
		CameraMode: l.CameraMode(),
		HeldKeys:   held,
	}
}
