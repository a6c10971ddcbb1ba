package input

import (
	"fmt"

	"github.com/Faultbox/midgard-rig/internal/engine/character"
)

// Action is a device-independent command.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBackward
	ActionRotateLeft
	ActionRotateRight
	ActionToggleCamera
	ActionQuit
)

var actionNames = [...]string{
	ActionNone:         "none",
	ActionForward:      "forward",
	ActionBackward:     "backward",
	ActionRotateLeft:   "rotateLeft",
	ActionRotateRight:  "rotateRight",
	ActionToggleCamera: "toggleCamera",
	ActionQuit:         "quit",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction returns the action named s, as printed by String.
func ParseAction(s string) (Action, error) {
	for a, name := range actionNames {
		if a != int(ActionNone) && name == s {
			return Action(a), nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", s)
}

// Key returns the locomotion key for movement actions.
func (a Action) Key() (character.Key, bool) {
	switch a {
	case ActionForward:
		return character.KeyForward, true
	case ActionBackward:
		return character.KeyBackward, true
	case ActionRotateLeft:
		return character.KeyRotateLeft, true
	case ActionRotateRight:
		return character.KeyRotateRight, true
	}
	return 0, false
}
