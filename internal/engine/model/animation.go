package model

import (
	"fmt"
	"sort"

	"github.com/Faultbox/midgard-rig/pkg/math"
)

// VectorTrack is a keyframe track of vec3 samples (translation or scale).
type VectorTrack struct {
	Times  []float32
	Values []math.Vec3
}

// QuatTrack is a keyframe track of rotation samples.
type QuatTrack struct {
	Times  []float32
	Values []math.Quat
}

// NewVectorTrack builds a track from flattened samples (3 floats each).
func NewVectorTrack(times, values []float32) (*VectorTrack, error) {
	if err := validateTimes(times, values, 3); err != nil {
		return nil, err
	}
	tr := &VectorTrack{Times: times, Values: make([]math.Vec3, len(times))}
	for i := range tr.Values {
		tr.Values[i] = math.Vec3FromSlice(values[i*3:])
	}
	return tr, nil
}

// NewQuatTrack builds a rotation track from flattened x, y, z, w samples.
// Samples are normalized on load.
func NewQuatTrack(times, values []float32) (*QuatTrack, error) {
	if err := validateTimes(times, values, 4); err != nil {
		return nil, err
	}
	tr := &QuatTrack{Times: times, Values: make([]math.Quat, len(times))}
	for i := range tr.Values {
		tr.Values[i] = math.QuatFromSlice(values[i*4:]).Normalize()
	}
	return tr, nil
}

func validateTimes(times, values []float32, stride int) error {
	if len(times) == 0 {
		return ErrEmptyTrack
	}
	if len(values) != len(times)*stride {
		return fmt.Errorf("%w: %d times, %d floats, %d per sample", ErrTrackLength, len(times), len(values), stride)
	}
	for i := 1; i < len(times); i++ {
		if times[i] < times[i-1] {
			return fmt.Errorf("%w: times[%d]=%v < times[%d]=%v", ErrUnsortedTimes, i, times[i], i-1, times[i-1])
		}
	}
	return nil
}

// locate returns the index of the left sample of the interval bracketing t
// and the interpolation factor within it. When clamped is true only index
// is meaningful.
func locate(times []float32, t float32) (index int, alpha float32, clamped bool) {
	last := len(times) - 1
	if t <= times[0] {
		return 0, 0, true
	}
	if t >= times[last] {
		return last, 0, true
	}

	// First sample strictly after t; it exists and is > 0 given the checks above
	next := sort.Search(len(times), func(i int) bool { return times[i] > t })
	prev := next - 1

	span := times[next] - times[prev]
	if span <= 0 {
		return prev, 0, false
	}
	return prev, (t - times[prev]) / span, false
}

// Sample returns the interpolated vector at time t, clamped at both ends.
func (tr *VectorTrack) Sample(t float32) math.Vec3 {
	i, alpha, clamped := locate(tr.Times, t)
	if clamped {
		return tr.Values[i]
	}
	return tr.Values[i].Lerp(tr.Values[i+1], alpha)
}

// Sample returns the slerped rotation at time t, clamped at both ends.
func (tr *QuatTrack) Sample(t float32) math.Quat {
	i, alpha, clamped := locate(tr.Times, t)
	if clamped {
		return tr.Values[i]
	}
	return tr.Values[i].Slerp(tr.Values[i+1], alpha)
}

// End returns the time of the last sample.
func (tr *VectorTrack) End() float32 { return tr.Times[len(tr.Times)-1] }

// End returns the time of the last sample.
func (tr *QuatTrack) End() float32 { return tr.Times[len(tr.Times)-1] }

// JointTracks holds the optional channels animating one joint.
type JointTracks struct {
	Translation *VectorTrack
	Rotation    *QuatTrack
	Scale       *VectorTrack
}

// LocalTransform evaluates T * R * S at time t. Missing channels use
// zero translation, identity rotation and unit scale.
func (jt *JointTracks) LocalTransform(t float32) math.Mat4 {
	tr := math.Vec3{}
	rot := math.QuatIdentity()
	sc := math.Vec3{X: 1, Y: 1, Z: 1}
	if jt == nil {
		return math.Compose(tr, rot, sc)
	}
	if jt.Translation != nil {
		tr = jt.Translation.Sample(t)
	}
	if jt.Rotation != nil {
		rot = jt.Rotation.Sample(t)
	}
	if jt.Scale != nil {
		sc = jt.Scale.Sample(t)
	}
	return math.Compose(tr, rot, sc)
}

func (jt *JointTracks) end() float32 {
	var d float32
	if jt.Translation != nil && jt.Translation.End() > d {
		d = jt.Translation.End()
	}
	if jt.Rotation != nil && jt.Rotation.End() > d {
		d = jt.Rotation.End()
	}
	if jt.Scale != nil && jt.Scale.End() > d {
		d = jt.Scale.End()
	}
	return d
}

// Clip is one named animation. It is read-only after NewClip and may be
// shared between characters.
type Clip struct {
	Name     string
	Duration float32
	tracks   map[int]*JointTracks
}

// NewClip builds a clip from per-joint tracks. The duration is the latest
// sample time over all tracks.
func NewClip(name string, tracks map[int]*JointTracks) *Clip {
	c := &Clip{Name: name, tracks: make(map[int]*JointTracks, len(tracks))}
	for joint, jt := range tracks {
		if jt == nil {
			continue
		}
		c.tracks[joint] = jt
		if d := jt.end(); d > c.Duration {
			c.Duration = d
		}
	}
	return c
}

// Tracks returns the channels for joint, or nil if the clip does not animate it.
func (c *Clip) Tracks(joint int) *JointTracks {
	return c.tracks[joint]
}

// JointCount returns the number of animated joints.
func (c *Clip) JointCount() int {
	return len(c.tracks)
}

// LocalTransform resolves the local matrix of joint at time t.
func (c *Clip) LocalTransform(joint int, t float32) math.Mat4 {
	return c.tracks[joint].LocalTransform(t)
}

// HasAnimation reports whether any track of the clip has more than one sample.
// Clips with only single-sample tracks are static poses.
func (c *Clip) HasAnimation() bool {
	for _, jt := range c.tracks {
		if jt.Translation != nil && len(jt.Translation.Times) > 1 ||
			jt.Rotation != nil && len(jt.Rotation.Times) > 1 ||
			jt.Scale != nil && len(jt.Scale.Times) > 1 {
			return true
		}
	}
	return false
}
