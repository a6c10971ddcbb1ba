// Package input maps SDL and terminal key events to character actions.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies a polled window event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int
	DeltaY int
	Button uint8
	Wheel  int
}

// Input polls SDL events for one frame.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to events.
// Returns true if the window was closed.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if ev, ok := convert(event); ok {
			i.events = append(i.events, ev)
			if ev.Type == EventQuit {
				return true
			}
		}
	}

	return false
}

func convert(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED {
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		}

	case *sdl.KeyboardEvent:
		ev := Event{Key: e.Keysym.Scancode, Repeat: e.Repeat != 0}
		switch e.Type {
		case sdl.KEYDOWN:
			ev.Type = EventKeyDown
			return ev, true
		case sdl.KEYUP:
			ev.Type = EventKeyUp
			return ev, true
		}

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DeltaX: int(e.XRel),
			DeltaY: int(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		ev := Event{MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
		if e.State == sdl.PRESSED {
			ev.Type = EventMouseDown
		} else {
			ev.Type = EventMouseUp
		}
		return ev, true

	case *sdl.MouseWheelEvent:
		return Event{Type: EventMouseWheel, Wheel: int(e.Y)}, true
	}
	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Push appends an event as if it had been polled. Used by replay drivers.
func (i *Input) Push(ev Event) {
	i.events = append(i.events, ev)
}

// DefaultScancodes binds WASD, the arrow keys and C.
var DefaultScancodes = map[sdl.Scancode]Action{
	sdl.SCANCODE_W:      ActionForward,
	sdl.SCANCODE_UP:     ActionForward,
	sdl.SCANCODE_S:      ActionBackward,
	sdl.SCANCODE_DOWN:   ActionBackward,
	sdl.SCANCODE_A:      ActionRotateLeft,
	sdl.SCANCODE_LEFT:   ActionRotateLeft,
	sdl.SCANCODE_D:      ActionRotateRight,
	sdl.SCANCODE_RIGHT:  ActionRotateRight,
	sdl.SCANCODE_C:      ActionToggleCamera,
	sdl.SCANCODE_ESCAPE: ActionQuit,
}

// ScancodeAction returns the action bound to sc, or ActionNone.
func ScancodeAction(sc sdl.Scancode) Action {
	return DefaultScancodes[sc]
}

// ScancodeSlot returns the 1-based action slot of the digit keys 1-9.
func ScancodeSlot(sc sdl.Scancode) (int, bool) {
	if sc < sdl.SCANCODE_1 || sc > sdl.SCANCODE_9 {
		return 0, false
	}
	return int(sc-sdl.SCANCODE_1) + 1, true
}
