// Package model provides keyframe tracks, animation clips and skeleton pose
// evaluation for skinned characters.
package model

import (
	"errors"

	"github.com/Faultbox/midgard-rig/pkg/math"
)

// Load-time validation errors.
var (
	ErrEmptyTrack    = errors.New("track has no samples")
	ErrTrackLength   = errors.New("track times and values disagree in length")
	ErrUnsortedTimes = errors.New("track times are not ascending")
	ErrInvalidParent = errors.New("joint parent index out of range")
	ErrJointCycle    = errors.New("joint hierarchy contains a cycle")
)

// NoParent marks a root joint.
const NoParent = -1

// Joint is one node of a skeleton.
type Joint struct {
	Name        string
	Parent      int // NoParent for roots
	InverseBind math.Mat4
}

// Channel identifies which property a track animates.
type Channel int

const (
	ChannelTranslation Channel = iota
	ChannelRotation
	ChannelScale
)

// String returns the channel name used in rig documents.
func (c Channel) String() string {
	switch c {
	case ChannelTranslation:
		return "translation"
	case ChannelRotation:
		return "rotation"
	case ChannelScale:
		return "scale"
	default:
		return "unknown"
	}
}

// Components returns the number of floats per sample for the channel.
func (c Channel) Components() int {
	if c == ChannelRotation {
		return 4
	}
	return 3
}

// Pose holds the per-frame matrices of one character.
// All three slices have one entry per joint.
type Pose struct {
	Local []math.Mat4
	World []math.Mat4
	Skin  []math.Mat4
}

// NewPose allocates a pose for n joints, initialised to identity.
func NewPose(n int) *Pose {
	p := &Pose{}
	p.resize(n)
	return p
}

func (p *Pose) resize(n int) {
	if len(p.Skin) == n {
		return
	}
	if cap(p.Local) < n {
		p.Local = make([]math.Mat4, n)
		p.World = make([]math.Mat4, n)
		p.Skin = make([]math.Mat4, n)
	}
	p.Local = p.Local[:n]
	p.World = p.World[:n]
	p.Skin = p.Skin[:n]
	for i := 0; i < n; i++ {
		p.Local[i] = math.Identity()
		p.World[i] = math.Identity()
		p.Skin[i] = math.Identity()
	}
}

// Len returns the joint count.
func (p *Pose) Len() int {
	return len(p.Skin)
}
