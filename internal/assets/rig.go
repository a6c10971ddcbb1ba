package assets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

// ErrBadMatrix is returned when an inverse bind matrix is not 16 floats.
var ErrBadMatrix = errors.New("inverse bind matrix must have 16 values")

// JointData is one joint of a rig document. A nil Parent marks a root.
// InverseBind is column-major; empty means identity.
type JointData struct {
	Name        string    `yaml:"name,omitempty"`
	Parent      *int      `yaml:"parent"`
	InverseBind []float32 `yaml:"inverse_bind,omitempty"`
}

// TrackData holds flattened samples: 3 floats per vector, 4 per quaternion.
type TrackData struct {
	Times  []float32 `yaml:"times"`
	Values []float32 `yaml:"values"`
}

// JointTrackData holds the optional channels for one joint.
type JointTrackData struct {
	Translation *TrackData `yaml:"translation,omitempty"`
	Rotation    *TrackData `yaml:"rotation,omitempty"`
	Scale       *TrackData `yaml:"scale,omitempty"`
}

// ClipData maps joint index to its tracks.
type ClipData struct {
	Tracks   map[int]JointTrackData `yaml:"tracks"`
	Duration float32                `yaml:"duration,omitempty"`
}

// RigData is the payload handed over by an asset parser: a joint list and
// named clips.
type RigData struct {
	Joints []JointData          `yaml:"joints"`
	Clips  map[string]*ClipData `yaml:"clips"`
}

// Rig is a built, read-only skeleton and its clips. One Rig is shared by
// every character using it.
type Rig struct {
	Skeleton *model.Skeleton
	Clips    map[string]*model.Clip
}

// DecodeRig reads a YAML rig document.
func DecodeRig(r io.Reader) (*RigData, error) {
	var d RigData
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decoding rig: %w", err)
	}
	return &d, nil
}

// LoadRig reads a YAML rig document from path.
func LoadRig(path string) (*RigData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rig %s: %w", path, err)
	}
	defer f.Close()
	return DecodeRig(f)
}

// Build validates d and constructs the skeleton and clips.
func Build(d *RigData) (*Rig, error) {
	joints := make([]model.Joint, len(d.Joints))
	for i, jd := range d.Joints {
		j := model.Joint{Name: jd.Name, Parent: model.NoParent, InverseBind: math.Identity()}
		if jd.Parent != nil {
			j.Parent = *jd.Parent
		}
		switch len(jd.InverseBind) {
		case 0:
		case 16:
			copy(j.InverseBind[:], jd.InverseBind)
		default:
			return nil, fmt.Errorf("joint %d: %w (got %d)", i, ErrBadMatrix, len(jd.InverseBind))
		}
		joints[i] = j
	}

	skel, err := model.NewSkeleton(joints)
	if err != nil {
		return nil, fmt.Errorf("building skeleton: %w", err)
	}

	rig := &Rig{Skeleton: skel, Clips: make(map[string]*model.Clip, len(d.Clips))}
	for name, cd := range d.Clips {
		if cd == nil {
			continue
		}
		clip, err := buildClip(name, cd, len(joints))
		if err != nil {
			return nil, err
		}
		rig.Clips[name] = clip
	}
	return rig, nil
}

func buildClip(name string, cd *ClipData, jointCount int) (*model.Clip, error) {
	tracks := make(map[int]*model.JointTracks, len(cd.Tracks))
	for joint, td := range cd.Tracks {
		if joint < 0 || joint >= jointCount {
			return nil, fmt.Errorf("clip %q: track for joint %d: %w", name, joint, model.ErrInvalidParent)
		}
		jt := &model.JointTracks{}
		var err error
		if td.Translation != nil {
			if jt.Translation, err = model.NewVectorTrack(td.Translation.Times, td.Translation.Values); err != nil {
				return nil, fmt.Errorf("clip %q joint %d %s: %w", name, joint, model.ChannelTranslation, err)
			}
		}
		if td.Rotation != nil {
			if jt.Rotation, err = model.NewQuatTrack(td.Rotation.Times, td.Rotation.Values); err != nil {
				return nil, fmt.Errorf("clip %q joint %d %s: %w", name, joint, model.ChannelRotation, err)
			}
		}
		if td.Scale != nil {
			if jt.Scale, err = model.NewVectorTrack(td.Scale.Times, td.Scale.Values); err != nil {
				return nil, fmt.Errorf("clip %q joint %d %s: %w", name, joint, model.ChannelScale, err)
			}
		}
		tracks[joint] = jt
	}

	clip := model.NewClip(name, tracks)
	if cd.Duration > clip.Duration {
		clip.Duration = cd.Duration
	}
	return clip, nil
}

// ClipNames returns the clip names in sorted order.
func (r *Rig) ClipNames() []string {
	names := make([]string, 0, len(r.Clips))
	for name := range r.Clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
