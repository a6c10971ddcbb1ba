package model

import (
	"fmt"

	"github.com/Faultbox/midgard-rig/pkg/math"
)

// Skeleton is the static joint hierarchy of a rig. It is immutable after
// NewSkeleton and safe to share between characters.
type Skeleton struct {
	joints   []Joint
	order    []int // parents before children
	children [][]int
}

// NewSkeleton validates the parent indices and derives the evaluation order.
func NewSkeleton(joints []Joint) (*Skeleton, error) {
	n := len(joints)
	s := &Skeleton{
		joints:   append([]Joint(nil), joints...),
		children: make([][]int, n),
	}

	var roots []int
	for i, j := range joints {
		switch {
		case j.Parent == NoParent:
			roots = append(roots, i)
		case j.Parent < 0 || j.Parent >= n:
			return nil, fmt.Errorf("joint %d (%q): %w: %d", i, j.Name, ErrInvalidParent, j.Parent)
		case j.Parent == i:
			return nil, fmt.Errorf("joint %d (%q): %w: parent is itself", i, j.Name, ErrJointCycle)
		default:
			s.children[j.Parent] = append(s.children[j.Parent], i)
		}
	}

	// Breadth-first from the roots; joints never reached sit on a cycle
	s.order = make([]int, 0, n)
	s.order = append(s.order, roots...)
	for head := 0; head < len(s.order); head++ {
		s.order = append(s.order, s.children[s.order[head]]...)
	}
	if len(s.order) != n {
		return nil, fmt.Errorf("%w: %d of %d joints unreachable from a root", ErrJointCycle, n-len(s.order), n)
	}

	return s, nil
}

// JointCount returns the number of joints.
func (s *Skeleton) JointCount() int {
	if s == nil {
		return 0
	}
	return len(s.joints)
}

// Joint returns joint i.
func (s *Skeleton) Joint(i int) Joint {
	return s.joints[i]
}

// Order returns the evaluation order. The slice must not be modified.
func (s *Skeleton) Order() []int {
	return s.order
}

// Find returns the index of the joint named name, or -1.
func (s *Skeleton) Find(name string) int {
	for i, j := range s.joints {
		if j.Name == name {
			return i
		}
	}
	return -1
}

// Evaluate samples clip at time t and writes local, world and skinning
// matrices into pose, resizing it to the joint count. A nil skeleton leaves
// the pose untouched and returns false. A nil clip yields the rest pose with
// identity local transforms.
func (s *Skeleton) Evaluate(clip *Clip, t float32, pose *Pose) bool {
	if s == nil || pose == nil {
		return false
	}
	pose.resize(len(s.joints))

	for _, j := range s.order {
		var local math.Mat4
		if clip != nil {
			local = clip.LocalTransform(j, t)
		} else {
			local = math.Identity()
		}
		pose.Local[j] = local

		if p := s.joints[j].Parent; p != NoParent {
			pose.World[j] = pose.World[p].Mul(local)
		} else {
			pose.World[j] = local
		}
		pose.Skin[j] = pose.World[j].Mul(s.joints[j].InverseBind)
	}
	return true
}

// BindInverses computes inverse bind matrices from per-joint rest transforms,
// composing them down the hierarchy in the same order Evaluate uses.
func (s *Skeleton) BindInverses(rest []math.Mat4) []math.Mat4 {
	world := make([]math.Mat4, len(s.joints))
	inv := make([]math.Mat4, len(s.joints))
	for _, j := range s.order {
		if p := s.joints[j].Parent; p != NoParent {
			world[j] = world[p].Mul(rest[j])
		} else {
			world[j] = rest[j]
		}
		inv[j] = world[j].Inverse()
	}
	return inv
}

// WithInverseBinds returns a copy of the skeleton using the given matrices.
func (s *Skeleton) WithInverseBinds(inv []math.Mat4) *Skeleton {
	out := &Skeleton{
		joints:   append([]Joint(nil), s.joints...),
		order:    s.order,
		children: s.children,
	}
	for i := range out.joints {
		if i < len(inv) {
			out.joints[i].InverseBind = inv[i]
		}
	}
	return out
}
