package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

const twoJointRig = `
joints:
  - name: hip
    parent: null
  - name: knee
    parent: 0
    inverse_bind: [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,-3,0,1]
clips:
  Kick:
    tracks:
      1:
        translation:
          times: [0]
          values: [0, 3, 0]
        rotation:
          times: [0, 1]
          values: [0, 0, 0, 1,  0.7071068, 0, 0, 0.7071068]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDecodeAndBuild(t *testing.T) {
	data, err := DecodeRig(strings.NewReader(twoJointRig))
	if err != nil {
		t.Fatalf("DecodeRig: %v", err)
	}
	if data.Joints[0].Parent != nil {
		t.Error("root parent decoded as non-nil")
	}

	rig, err := Build(data)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rig.Skeleton.JointCount() != 2 {
		t.Fatalf("JointCount = %d, want 2", rig.Skeleton.JointCount())
	}
	if rig.Skeleton.Find("knee") != 1 {
		t.Errorf("Find(knee) = %d", rig.Skeleton.Find("knee"))
	}

	kick := rig.Clips["Kick"]
	if kick == nil || kick.Duration != 1 {
		t.Fatalf("Kick clip = %+v", kick)
	}

	pose := model.NewPose(2)
	rig.Skeleton.Evaluate(kick, 0, pose)
	if !pose.Skin[1].ApproxEqual(math.Identity(), 0.0001) {
		t.Errorf("skin at bind pose = %v, want identity", pose.Skin[1])
	}

	// 90 degrees about X at the end: knee local +Y turns to +Z
	rig.Skeleton.Evaluate(kick, 1, pose)
	tip := pose.World[1].TransformVec3(math.Vec3{Y: 1})
	if !tip.ApproxEqual(math.Vec3{Y: 3, Z: 1}, 0.001) {
		t.Errorf("knee +Y after kick = %v, want (0, 3, 1)", tip)
	}
}

func TestBuildErrors(t *testing.T) {
	one := 1
	tests := []struct {
		name string
		data RigData
		want error
	}{
		{
			"short matrix",
			RigData{Joints: []JointData{{InverseBind: []float32{1, 0, 0}}}},
			ErrBadMatrix,
		},
		{
			"parent out of range",
			RigData{Joints: []JointData{{Parent: &one}}},
			model.ErrInvalidParent,
		},
		{
			"track length",
			RigData{
				Joints: []JointData{{}},
				Clips: map[string]*ClipData{"Bad": {Tracks: map[int]JointTrackData{
					0: {Translation: &TrackData{Times: []float32{0, 1}, Values: []float32{0, 0, 0}}},
				}}},
			},
			model.ErrTrackLength,
		},
		{
			"track for missing joint",
			RigData{
				Joints: []JointData{{}},
				Clips: map[string]*ClipData{"Bad": {Tracks: map[int]JointTrackData{
					3: {Scale: &TrackData{Times: []float32{0}, Values: []float32{1, 1, 1}}},
				}}},
			},
			model.ErrInvalidParent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(&tt.data); !errors.Is(err, tt.want) {
				t.Errorf("Build error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildDurationOverride(t *testing.T) {
	data := &RigData{
		Joints: []JointData{{}},
		Clips: map[string]*ClipData{"Pause": {
			Duration: 2.5,
			Tracks: map[int]JointTrackData{
				0: {Translation: &TrackData{Times: []float32{0, 1}, Values: []float32{0, 0, 0, 1, 0, 0}}},
			},
		}},
	}
	rig, err := Build(data)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if d := rig.Clips["Pause"].Duration; d != 2.5 {
		t.Errorf("Duration = %v, want 2.5", d)
	}
}

func TestProcedural(t *testing.T) {
	rig := Procedural([]string{"Idle", "Wave"})

	if rig.Skeleton.JointCount() != 3 {
		t.Fatalf("JointCount = %d, want 3", rig.Skeleton.JointCount())
	}
	if got := rig.ClipNames(); len(got) != 2 || got[0] != "Idle" || got[1] != "Wave" {
		t.Errorf("ClipNames = %v", got)
	}

	pose := model.NewPose(3)
	rig.Skeleton.Evaluate(rig.Clips["Wave"], 0, pose)
	for i := range pose.Skin {
		if !pose.Skin[i].ApproxEqual(math.Identity(), 0.0001) {
			t.Errorf("skin[%d] at t=0 = %v, want identity", i, pose.Skin[i])
		}
	}
	if head := pose.World[2].Translation(); !head.ApproxEqual(math.Vec3{Y: 2 * ProceduralBoneLength}, 0.0001) {
		t.Errorf("head at rest = %v", head)
	}

	rig.Skeleton.Evaluate(rig.Clips["Wave"], 0.5, pose)
	if head := pose.World[2].Translation(); head.X >= 0 {
		t.Errorf("head mid-swing = %v, want leaning to -X", head)
	}
}

func TestManagerLoadsAndCaches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "hero.yaml", twoJointRig)

	m := NewManager()
	defer m.Close()
	if err := m.AddRoot(dir); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}

	first, err := m.Rig("hero.yaml")
	if err != nil {
		t.Fatalf("Rig: %v", err)
	}
	second, err := m.Rig("hero.yaml")
	if err != nil {
		t.Fatalf("Rig (cached): %v", err)
	}
	if first != second {
		t.Error("second load did not return the shared rig")
	}
	if hits, misses := m.Cache().Stats(); hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses; want 1, 1", hits, misses)
	}
}

func TestManagerRootPriority(t *testing.T) {
	low, high := t.TempDir(), t.TempDir()
	writeFile(t, low, "rig.yaml", twoJointRig)
	want := writeFile(t, high, "rig.yaml", twoJointRig)

	m := NewManager()
	if err := m.AddRoot(low); err != nil {
		t.Fatal(err)
	}
	if err := m.AddRoot(high); err != nil {
		t.Fatal(err)
	}
	got, err := m.Resolve("rig.yaml")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != want {
		t.Errorf("Resolve = %s, want %s", got, want)
	}
}

func TestManagerErrors(t *testing.T) {
	dir := t.TempDir()
	m := NewManager()

	if _, err := m.Rig("missing.yaml"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing rig error = %v, want ErrNotFound", err)
	}
	file := writeFile(t, dir, "plain.txt", "x")
	if err := m.AddRoot(file); err == nil {
		t.Error("AddRoot accepted a file")
	}

	writeFile(t, dir, "broken.yaml", "joints: [")
	if err := m.AddRoot(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Rig("broken.yaml"); err == nil {
		t.Error("broken document loaded")
	}
}
