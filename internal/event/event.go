// Package event defines the input, system, and tick events the renderer
// consumes, plus the Source abstraction that isolates the frame loop's
// single blocking call.
package event

import "time"

// Kind identifies the type of an event.
type Kind int

const (
	KindNone Kind = iota
	KindKey
	KindMouse
	KindResize
	KindPaste
	KindFocus
	KindTick
	KindShutdown
)

// String returns the name of the event kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindKey:
		return "key"
	case KindMouse:
		return "mouse"
	case KindResize:
		return "resize"
	case KindPaste:
		return "paste"
	case KindFocus:
		return "focus"
	case KindTick:
		return "tick"
	case KindShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Event is a tagged union. Kind selects which fields are meaningful.
type Event struct {
	Kind Kind

	// Key event fields.
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields.
	MouseX, MouseY int
	Button         MouseButton

	// Resize event fields.
	Width, Height int

	// Focus event field.
	Focused bool

	// Paste event field.
	Text string

	// Tick event field.
	Time time.Time
}

// KeyEvent creates a key event.
func KeyEvent(key Key, r rune, mod ModMask) Event {
	return Event{Kind: KindKey, Key: key, Rune: r, Mod: mod}
}

// ResizeEvent creates a resize event.
func ResizeEvent(width, height int) Event {
	return Event{Kind: KindResize, Width: width, Height: height}
}

// TickEvent creates a tick event for the given time.
func TickEvent(at time.Time) Event {
	return Event{Kind: KindTick, Time: at}
}

// ShutdownEvent creates a shutdown request event.
func ShutdownEvent() Event {
	return Event{Kind: KindShutdown}
}

// Key identifies a non-printable key. Printable input arrives as KeyRune
// with the Rune field set.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
)

// ModMask is a bitmask of held modifier keys.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton identifies which button a mouse event reports.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)
