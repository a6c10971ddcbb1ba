package input

import (
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"
)

// DefaultHoldTimeout is how long a terminal key counts as held after its
// last auto-repeat.
const DefaultHoldTimeout = 150 * time.Millisecond

// KeyAction maps a terminal key event to an action. Letters are
// case-insensitive.
func KeyAction(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyUp:
		return ActionForward
	case tcell.KeyDown:
		return ActionBackward
	case tcell.KeyLeft:
		return ActionRotateLeft
	case tcell.KeyRight:
		return ActionRotateRight
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return ActionForward
		case 's', 'S':
			return ActionBackward
		case 'a', 'A':
			return ActionRotateLeft
		case 'd', 'D':
			return ActionRotateRight
		case 'c', 'C':
			return ActionToggleCamera
		case 'q', 'Q':
			return ActionQuit
		}
	}
	return ActionNone
}

// TriggerSlot returns the zero-based action slot for digits 1-9.
func TriggerSlot(ev *tcell.EventKey) (int, bool) {
	if ev.Key() != tcell.KeyRune {
		return 0, false
	}
	r := ev.Rune()
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '1'), true
}

// HoldTracker turns terminal auto-repeat into press and release pairs.
// Terminals report no key-up, so a key is released once no repeat has
// arrived for the timeout.
type HoldTracker struct {
	timeout time.Duration
	seen    map[Action]time.Duration
}

// NewHoldTracker creates a tracker. A non-positive timeout uses
// DefaultHoldTimeout.
func NewHoldTracker(timeout time.Duration) *HoldTracker {
	if timeout <= 0 {
		timeout = DefaultHoldTimeout
	}
	return &HoldTracker{timeout: timeout, seen: make(map[Action]time.Duration)}
}

// Press records a key event and reports whether it starts a new hold.
func (h *HoldTracker) Press(a Action, now time.Duration) bool {
	_, held := h.seen[a]
	h.seen[a] = now
	return !held
}

// Expired removes and returns the holds whose last repeat is older than
// the timeout, in action order.
func (h *HoldTracker) Expired(now time.Duration) []Action {
	var out []Action
	for a, last := range h.seen {
		if now-last >= h.timeout {
			out = append(out, a)
		}
	}
	for _, a := range out {
		delete(h.seen, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Held reports whether a is currently held.
func (h *HoldTracker) Held(a Action) bool {
	_, ok := h.seen[a]
	return ok
}
