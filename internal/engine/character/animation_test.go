package character

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/internal/logger"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func chainCatalog(t *testing.T) *Catalog {
	t.Helper()
	f := CatalogFile{
		Default: "Idle",
		Actions: []DescriptorSpec{
			{Name: "Idle"},
			{Name: "Start", Next: "Loop"},
			{Name: "Loop"},
			{Name: "Blink", Next: "Flash"},
			{Name: "Flash", Next: "Start"},
			{Name: "Pose", Hold: true},
		},
	}
	clips := map[string]*model.Clip{
		"Idle":  swingClip(t, "Idle", 2),
		"Start": swingClip(t, "Start", 1),
		"Loop":  swingClip(t, "Loop", 2),
		"Blink": swingClip(t, "Blink", 0.1),
		"Flash": swingClip(t, "Flash", 0.1),
		"Pose":  swingClip(t, "Pose", 1),
	}
	c, err := NewCatalog(f, clips)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func TestStateMachineAutoAdvance(t *testing.T) {
	sm := NewStateMachine(chainCatalog(t), 0)
	sm.Select("Start", 0)

	if sm.Tick(ms(900), 1) {
		t.Fatal("switched before the clip ended")
	}
	if sm.ActiveName() != "Start" {
		t.Fatalf("active = %q, want Start", sm.ActiveName())
	}

	if !sm.Tick(ms(1100), 1) {
		t.Fatal("Tick past the end did not report a switch")
	}
	if sm.ActiveName() != "Loop" {
		t.Fatalf("active = %q, want Loop", sm.ActiveName())
	}
	if got := sm.LocalTime(); got < 0.099 || got > 0.101 {
		t.Errorf("overflow carried = %v, want 0.1", got)
	}
	if sm.StartedAt() != ms(1100) {
		t.Errorf("StartedAt = %v, want 1.1s", sm.StartedAt())
	}
}

func TestStateMachineLoops(t *testing.T) {
	sm := NewStateMachine(chainCatalog(t), 0)
	sm.Select("Loop", 0)

	if sm.Tick(ms(4500), 1) {
		t.Error("looping clip reported a switch")
	}
	if sm.ActiveName() != "Loop" {
		t.Errorf("active = %q, want Loop", sm.ActiveName())
	}
	if got := sm.LocalTime(); got < 0.499 || got > 0.501 {
		t.Errorf("LocalTime = %v, want 0.5", got)
	}
}

func TestStateMachineHold(t *testing.T) {
	sm := NewStateMachine(chainCatalog(t), 0)
	sm.Select("Pose", 0)
	sm.Tick(ms(3000), 1)
	if sm.LocalTime() != 1 {
		t.Errorf("held LocalTime = %v, want clip end 1", sm.LocalTime())
	}
	sm.Tick(ms(3500), 1)
	if sm.LocalTime() != 1 {
		t.Errorf("held LocalTime after second tick = %v", sm.LocalTime())
	}
}

func TestStateMachineChainsShortClips(t *testing.T) {
	sm := NewStateMachine(chainCatalog(t), 0)
	sm.Select("Blink", 0)

	// 0.1 + 0.1 + 1.0 consumed, 0.05 into Loop
	sm.Tick(ms(1250), 1)
	if sm.ActiveName() != "Loop" {
		t.Fatalf("active = %q, want Loop", sm.ActiveName())
	}
	if got := sm.LocalTime(); got < 0.049 || got > 0.051 {
		t.Errorf("LocalTime = %v, want 0.05", got)
	}
}

func TestStateMachinePlaybackSpeed(t *testing.T) {
	sm := NewStateMachine(chainCatalog(t), 0)
	sm.Select("Start", 0)

	sm.Tick(ms(1000), 0.5)
	if sm.ActiveName() != "Start" {
		t.Fatalf("half speed: active = %q after 1s, want Start", sm.ActiveName())
	}
	if got := sm.LocalTime(); got < 0.499 || got > 0.501 {
		t.Errorf("LocalTime = %v, want 0.5", got)
	}

	sm.Tick(ms(1300), 2)
	if sm.ActiveName() != "Loop" {
		t.Errorf("double speed: active = %q, want Loop", sm.ActiveName())
	}
}

func TestStateMachineUnknownName(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	defer logger.Replace(core)()

	sm := NewStateMachine(chainCatalog(t), 0)
	sm.Select("Start", 0)

	if sm.Select("Moonwalk", ms(10)) {
		t.Error("Select of unknown name returned true")
	}
	if sm.ActiveName() != "Idle" {
		t.Errorf("active = %q, want Idle fallback", sm.ActiveName())
	}
	if logs.FilterField(zap.String("clip", "Moonwalk")).Len() != 1 {
		t.Errorf("expected one warning naming the clip, got %v", logs.All())
	}
}

func TestStateMachineEvaluate(t *testing.T) {
	sm := NewStateMachine(chainCatalog(t), 0)
	skel, err := model.NewSkeleton([]model.Joint{{Name: "root", Parent: model.NoParent, InverseBind: math.Identity()}})
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}

	pose := model.NewPose(1)
	if !sm.Evaluate(skel, pose) {
		t.Fatal("Evaluate returned false")
	}
	if !pose.Skin[0].ApproxEqual(math.Identity(), 0.0001) {
		t.Errorf("pose at t=0 = %v, want identity", pose.Skin[0])
	}

	if sm.Evaluate(nil, pose) {
		t.Error("Evaluate with no skeleton returned true")
	}
}
