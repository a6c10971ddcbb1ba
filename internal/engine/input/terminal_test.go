package input

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func TestKeyAction(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Action
	}{
		{"w", tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), ActionForward},
		{"W", tcell.NewEventKey(tcell.KeyRune, 'W', tcell.ModShift), ActionForward},
		{"up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), ActionForward},
		{"s", tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone), ActionBackward},
		{"left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), ActionRotateLeft},
		{"d", tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone), ActionRotateRight},
		{"c", tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone), ActionToggleCamera},
		{"esc", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionQuit},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), ActionQuit},
		{"x", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyAction(tt.ev); got != tt.want {
				t.Errorf("KeyAction = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTriggerSlot(t *testing.T) {
	if slot, ok := TriggerSlot(tcell.NewEventKey(tcell.KeyRune, '1', tcell.ModNone)); !ok || slot != 0 {
		t.Errorf("'1' = (%d, %v), want (0, true)", slot, ok)
	}
	if slot, ok := TriggerSlot(tcell.NewEventKey(tcell.KeyRune, '9', tcell.ModNone)); !ok || slot != 8 {
		t.Errorf("'9' = (%d, %v), want (8, true)", slot, ok)
	}
	if _, ok := TriggerSlot(tcell.NewEventKey(tcell.KeyRune, '0', tcell.ModNone)); ok {
		t.Error("'0' mapped to a slot")
	}
}

func TestHoldTracker(t *testing.T) {
	h := NewHoldTracker(100 * time.Millisecond)

	if !h.Press(ActionForward, 0) {
		t.Error("first press not reported as new")
	}
	if h.Press(ActionForward, 50*time.Millisecond) {
		t.Error("repeat reported as new")
	}
	h.Press(ActionRotateLeft, 60*time.Millisecond)

	if got := h.Expired(140 * time.Millisecond); len(got) != 0 {
		t.Errorf("expired early: %v", got)
	}
	got := h.Expired(160 * time.Millisecond)
	if len(got) != 2 || got[0] != ActionForward || got[1] != ActionRotateLeft {
		t.Errorf("Expired = %v, want [forward rotateLeft]", got)
	}
	if h.Held(ActionForward) {
		t.Error("expired action still held")
	}
	if !h.Press(ActionForward, 200*time.Millisecond) {
		t.Error("press after release not reported as new")
	}
}

func TestHoldTrackerDefaultTimeout(t *testing.T) {
	h := NewHoldTracker(0)
	h.Press(ActionBackward, 0)
	if len(h.Expired(DefaultHoldTimeout-time.Millisecond)) != 0 {
		t.Error("released before the default timeout")
	}
	if len(h.Expired(DefaultHoldTimeout)) != 1 {
		t.Error("not released at the default timeout")
	}
}

func TestParseAction(t *testing.T) {
	for _, a := range []Action{ActionForward, ActionBackward, ActionRotateLeft, ActionRotateRight, ActionToggleCamera, ActionQuit} {
		got, err := ParseAction(a.String())
		if err != nil || got != a {
			t.Errorf("ParseAction(%q) = %v, %v", a.String(), got, err)
		}
	}
	if _, err := ParseAction("none"); err == nil {
		t.Error("ParseAction accepted none")
	}
	if _, err := ParseAction("jump"); err == nil {
		t.Error("ParseAction accepted jump")
	}
}
