package entity

import (
	"testing"
	"time"

	"github.com/Faultbox/midgard-rig/internal/assets"
	"github.com/Faultbox/midgard-rig/internal/engine/camera"
	"github.com/Faultbox/midgard-rig/internal/engine/character"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

func newScene(t *testing.T) (*character.Catalog, *assets.Rig) {
	t.Helper()
	f := character.DefaultCatalogFile()
	rig := assets.Procedural(f.ClipNames())
	cat, err := character.NewCatalog(f, rig.Clips)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return cat, rig
}

func TestCharacterUpdate(t *testing.T) {
	cat, rig := newScene(t)
	c := NewCharacter(1, "hero", cat, rig.Skeleton, nil, character.DefaultSettings(), 0)

	if c.JointMatrices() != nil {
		t.Error("joint matrices before the first update")
	}
	if !c.Update(16 * time.Millisecond) {
		t.Fatal("Update returned false with a skeleton")
	}
	if got := len(c.JointMatrices()); got != 3 {
		t.Errorf("len(JointMatrices) = %d, want 3", got)
	}

	c.Locomotion().KeyDown(character.KeyForward, 16*time.Millisecond)
	c.Update(2 * time.Second)
	if c.DebugState().Position.Z <= 0 {
		t.Errorf("position = %v, want +Z after walking", c.DebugState().Position)
	}
	if got := c.Animation().ActiveName(); got != "WalkLoop" {
		t.Errorf("active = %q, want WalkLoop", got)
	}
}

func TestCharacterWithoutSkeleton(t *testing.T) {
	cat, rig := newScene(t)
	c := NewCharacter(1, "hero", cat, nil, nil, character.DefaultSettings(), 0)

	if c.Update(16 * time.Millisecond) {
		t.Error("Update reported a pose with no skeleton")
	}
	if c.JointMatrices() != nil {
		t.Error("joint matrices exposed before the skeleton loaded")
	}

	c.SetSkeleton(rig.Skeleton)
	if !c.Update(32 * time.Millisecond) {
		t.Error("Update failed after the skeleton arrived")
	}
	if len(c.JointMatrices()) != rig.Skeleton.JointCount() {
		t.Errorf("pose length %d, want %d", len(c.JointMatrices()), rig.Skeleton.JointCount())
	}
}

func TestCharacterModelMatrix(t *testing.T) {
	cat, rig := newScene(t)
	s := character.DefaultSettings()
	s.Scale = 1
	c := NewCharacter(1, "hero", cat, rig.Skeleton, nil, s, 0)
	c.Locomotion().SetPosition(math.Vec3{X: 3, Z: -2})

	if got := c.ModelMatrix().Translation(); got != (math.Vec3{X: 3, Z: -2}) {
		t.Errorf("model translation = %v, want (3, 0, -2)", got)
	}
}

func TestCharacterBones(t *testing.T) {
	cat, rig := newScene(t)
	s := character.DefaultSettings()
	c := NewCharacter(1, "hero", cat, rig.Skeleton, nil, s, 0)
	c.Locomotion().SetPosition(math.Vec3{X: 3, Z: -2})

	if got := c.Bones(nil); len(got) != 0 {
		t.Fatalf("bones before the first pose: %v", got)
	}
	c.Update(16 * time.Millisecond)

	bones := c.Bones(nil)
	if len(bones) != 2 {
		t.Fatalf("len(Bones) = %d, want 2", len(bones))
	}
	root := c.ModelMatrix().Translation()
	if !bones[0].From.ApproxEqual(root, 1e-4) {
		t.Errorf("first bone starts at %v, want the character origin %v", bones[0].From, root)
	}
	if !bones[1].From.ApproxEqual(bones[0].To, 1e-4) {
		t.Errorf("bones are not chained: %v", bones)
	}
	want := assets.ProceduralBoneLength * s.Scale
	for i, b := range bones {
		if l := b.To.Distance(b.From); l < want-1e-3 || l > want+1e-3 {
			t.Errorf("bone %d length = %v, want %v", i, l, want)
		}
	}
}

func TestCharactersShareRigButNotPose(t *testing.T) {
	cat, rig := newScene(t)
	a := NewCharacter(1, "a", cat, rig.Skeleton, nil, character.DefaultSettings(), 0)
	b := NewCharacter(2, "b", cat, rig.Skeleton, nil, character.DefaultSettings(), 0)

	a.Locomotion().TriggerAnimation("Dance", 0)
	a.Update(400 * time.Millisecond)
	b.Update(400 * time.Millisecond)

	if a.Pose() == b.Pose() {
		t.Fatal("characters share a pose buffer")
	}
	if a.JointMatrices()[1] == b.JointMatrices()[1] {
		t.Error("different clips produced identical spine matrices")
	}
}

func TestManager(t *testing.T) {
	cat, rig := newScene(t)
	m := NewManager()
	cam := camera.NewRig(camera.Settings{Mode: camera.ThirdPerson, Distance: 12, Height: 5, FirstPersonHeight: 5.8})

	player := NewCharacter(7, "player", cat, rig.Skeleton, cam, character.DefaultSettings(), 0)
	m.SetPlayer(player)
	m.Add(NewCharacter(3, "npc", cat, rig.Skeleton, nil, character.DefaultSettings(), 0))
	loading := NewCharacter(5, "loading", cat, nil, nil, character.DefaultSettings(), 0)
	loading.Visible = false
	m.Add(loading)

	if m.Count() != 3 {
		t.Fatalf("Count = %d, want 3", m.Count())
	}
	all := m.All()
	if all[0].ID != 3 || all[1].ID != 5 || all[2].ID != 7 {
		t.Errorf("All not ordered by ID: %d %d %d", all[0].ID, all[1].ID, all[2].ID)
	}
	if got := len(m.AllVisible()); got != 2 {
		t.Errorf("AllVisible = %d, want 2", got)
	}

	if posed := m.Update(16 * time.Millisecond); posed != 2 {
		t.Errorf("Update posed %d characters, want 2", posed)
	}

	m.Clear()
	if m.Count() != 1 || m.Get(7) != player {
		t.Errorf("Clear kept %d characters", m.Count())
	}

	m.Remove(7)
	if m.Player() != nil {
		t.Error("removed player still referenced")
	}
	m.ClearAll()
	if m.Count() != 0 {
		t.Errorf("ClearAll left %d characters", m.Count())
	}
}
