package entity

import (
	"time"

	"github.com/Faultbox/midgard-rig/internal/engine/camera"
	"github.com/Faultbox/midgard-rig/internal/engine/character"
	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

// Character is one animated, keyboard-driven character instance. The
// skeleton and clips are shared; the pose buffer is owned.
type Character struct {
	ID      uint32
	Name    string
	Visible bool

	machine  *character.StateMachine
	loco     *character.Locomotion
	skeleton *model.Skeleton
	pose     *model.Pose
	ready    bool
}

// NewCharacter creates a character playing the catalog default clip. skel
// may be nil until the asset arrives; cam may be nil for characters the
// camera does not follow.
func NewCharacter(id uint32, name string, catalog *character.Catalog, skel *model.Skeleton, cam *camera.Rig, s character.Settings, now time.Duration) *Character {
	machine := character.NewStateMachine(catalog, now)
	return &Character{
		ID:       id,
		Name:     name,
		Visible:  true,
		machine:  machine,
		loco:     character.NewLocomotion(machine, cam, s),
		skeleton: skel,
		pose:     model.NewPose(skel.JointCount()),
	}
}

// SetSkeleton attaches the skeleton once loaded.
func (c *Character) SetSkeleton(skel *model.Skeleton) {
	c.skeleton = skel
	c.ready = false
}

// Update advances locomotion and the animation, then recomputes the pose.
// Without a skeleton the pose is left untouched and Update returns false.
func (c *Character) Update(now time.Duration) bool {
	c.loco.Update(now)
	c.ready = c.machine.Evaluate(c.skeleton, c.pose)
	return c.ready
}

// Ready reports whether the last Update produced a pose.
func (c *Character) Ready() bool {
	return c.ready
}

// JointMatrices returns the skinning matrices of the last evaluated pose,
// or nil before the first one. The slice is reused every frame.
func (c *Character) JointMatrices() []math.Mat4 {
	if !c.ready {
		return nil
	}
	return c.pose.Skin
}

// Pose returns the pose buffer.
func (c *Character) Pose() *model.Pose {
	return c.pose
}

// ModelMatrix returns the character world transform.
func (c *Character) ModelMatrix() math.Mat4 {
	return c.loco.ModelMatrix()
}

// Bone is one parent-to-child segment in world space.
type Bone struct {
	From, To math.Vec3
}

// Bones appends the world-space segments of the last pose to dst. It
// returns dst unchanged until the first pose is ready.
func (c *Character) Bones(dst []Bone) []Bone {
	if !c.ready {
		return dst
	}
	m := c.loco.ModelMatrix()
	for i := 0; i < c.skeleton.JointCount(); i++ {
		parent := c.skeleton.Joint(i).Parent
		if parent == model.NoParent {
			continue
		}
		dst = append(dst, Bone{
			From: m.Mul(c.pose.World[parent]).Translation(),
			To:   m.Mul(c.pose.World[i]).Translation(),
		})
	}
	return dst
}

// Locomotion returns the movement controller.
func (c *Character) Locomotion() *character.Locomotion {
	return c.loco
}

// Animation returns the animation state machine.
func (c *Character) Animation() *character.StateMachine {
	return c.machine
}

// DebugState returns the controller snapshot.
func (c *Character) DebugState() character.DebugState {
	return c.loco.DebugState()
}
