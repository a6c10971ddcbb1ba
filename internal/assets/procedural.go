package assets

import (
	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

// ProceduralBoneLength is the rest offset between chain joints.
const ProceduralBoneLength = 2

var proceduralJoints = []string{"root", "spine", "head"}

// Procedural builds a three-joint chain standing on Y with one clip per name.
// Each clip holds the rest offsets and swings the spine about Z over one
// second, so any catalog can run without an asset file.
func Procedural(names []string) *Rig {
	joints := make([]model.Joint, len(proceduralJoints))
	rest := make([]math.Mat4, len(proceduralJoints))
	for i, name := range proceduralJoints {
		joints[i] = model.Joint{Name: name, Parent: i - 1, InverseBind: math.Identity()}
		rest[i] = math.Identity()
		if i > 0 {
			rest[i] = math.Translate(0, ProceduralBoneLength, 0)
		}
	}

	skel, err := model.NewSkeleton(joints)
	if err != nil {
		// Fixed chain; cannot fail
		panic(err)
	}
	skel = skel.WithInverseBinds(skel.BindInverses(rest))

	rig := &Rig{Skeleton: skel, Clips: make(map[string]*model.Clip, len(names))}
	for i, name := range names {
		rig.Clips[name] = swingClip(name, 0.2+0.05*float32(i%5))
	}
	return rig
}

func swingClip(name string, angle float32) *model.Clip {
	offset, _ := model.NewVectorTrack([]float32{0}, []float32{0, ProceduralBoneLength, 0})

	z := math.Vec3{Z: 1}
	samples := []math.Quat{
		math.QuatIdentity(),
		math.QuatFromAxisAngle(z, angle),
		math.QuatIdentity(),
	}
	values := make([]float32, 0, 4*len(samples))
	for _, q := range samples {
		values = append(values, q.X, q.Y, q.Z, q.W)
	}
	swing, _ := model.NewQuatTrack([]float32{0, 0.5, 1}, values)

	return model.NewClip(name, map[int]*model.JointTracks{
		1: {Translation: offset, Rotation: swing},
		2: {Translation: offset},
	})
}
