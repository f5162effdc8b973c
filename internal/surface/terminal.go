package surface

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/termloom/termloom/internal/caps"
	"github.com/termloom/termloom/internal/cell"
	"github.com/termloom/termloom/internal/event"
	"github.com/termloom/termloom/internal/geom"
	"github.com/termloom/termloom/internal/logging"
)

// eventQueueSize bounds the terminal event queue. Input bursts beyond
// this are dropped rather than blocking the poll goroutine.
const eventQueueSize = 128

// Terminal drives a real terminal through tcell. It owns the terminal
// modes for its lifetime: Init acquires the alternate screen and raw
// mode, Close restores them. Capabilities gate which optional modes
// are requested.
type Terminal struct {
	screen tcell.Screen
	caps   caps.Capabilities
	log    *logging.Logger
	source *event.ChanSource

	mu     sync.Mutex
	closed bool
}

// NewTerminal creates a terminal surface over the process terminal.
func NewTerminal(capabilities caps.Capabilities, log *logging.Logger) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return newTerminal(screen, capabilities, log), nil
}

func newTerminal(screen tcell.Screen, capabilities caps.Capabilities, log *logging.Logger) *Terminal {
	if log == nil {
		log = logging.Discard()
	}
	return &Terminal{
		screen: screen,
		caps:   capabilities,
		log:    log.WithComponent("terminal"),
		source: event.NewChanSource(eventQueueSize),
	}
}

// Init acquires the terminal: alternate screen, raw input, and the
// optional modes the detected capabilities allow. It starts the event
// poll goroutine; events arrive on Source.
func (t *Terminal) Init() error {
	if err := t.screen.Init(); err != nil {
		return err
	}

	if t.caps.Mouse {
		t.screen.EnableMouse()
	}
	t.screen.EnablePaste()
	t.screen.HideCursor()

	w, h := t.screen.Size()
	t.log.Info("terminal acquired size=%dx%d colors=%d", w, h, t.screen.Colors())

	go t.poll()
	return nil
}

// Size returns the terminal dimensions.
func (t *Terminal) Size() geom.Size {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.screen.Size()
	return geom.NewSize(w, h)
}

// PutCell stages one cell. Continuation cells are skipped; tcell
// manages wide-glyph shadowing itself when given the lead rune.
func (t *Terminal) PutCell(x, y int, c cell.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || c.IsContinuation() {
		return
	}

	var combining []rune
	if c.Combining != "" {
		combining = []rune(c.Combining)
	}
	r := c.Rune
	if r == 0 {
		r = ' '
	}
	t.screen.SetContent(x, y, r, combining, convertStyle(c.Style))
}

// Flush makes staged cells visible.
func (t *Terminal) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	t.screen.Show()
	return nil
}

// Sync forces a full repaint on the next flush, discarding tcell's
// model of what is on screen.
func (t *Terminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.closed {
		t.screen.Sync()
	}
}

// Close restores the terminal and closes the event source. Safe to
// call more than once.
func (t *Terminal) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.mu.Unlock()

	// Fini unblocks the poll goroutine's PollEvent.
	t.screen.Fini()
	t.source.Close()
	t.log.Info("terminal released")
}

// Source returns the event source fed by the terminal. It delivers
// key, mouse, paste, focus, and resize events and closes when the
// terminal does.
func (t *Terminal) Source() event.Source {
	return t.source
}

// poll pumps tcell events into the source until the screen is
// finalized.
func (t *Terminal) poll() {
	for {
		tev := t.screen.PollEvent()
		if tev == nil {
			return
		}
		ev := convertEvent(tev)
		if ev.Kind == event.KindNone {
			continue
		}
		if err := t.source.Post(ev); err != nil {
			if err == event.ErrSourceClosed {
				return
			}
			t.log.Warn("dropping %s event: %v", ev.Kind, err)
		}
	}
}

// convertStyle maps a cell style onto tcell.
func convertStyle(s cell.Style) tcell.Style {
	st := tcell.StyleDefault

	if !s.Foreground.IsDefault() {
		st = st.Foreground(convertColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		st = st.Background(convertColor(s.Background))
	}

	if s.Attributes.Has(cell.AttrBold) {
		st = st.Bold(true)
	}
	if s.Attributes.Has(cell.AttrDim) {
		st = st.Dim(true)
	}
	if s.Attributes.Has(cell.AttrItalic) {
		st = st.Italic(true)
	}
	if s.Attributes.Has(cell.AttrUnderline) {
		st = st.Underline(true)
	}
	if s.Attributes.Has(cell.AttrBlink) {
		st = st.Blink(true)
	}
	if s.Attributes.Has(cell.AttrReverse) {
		st = st.Reverse(true)
	}
	if s.Attributes.Has(cell.AttrStrikethrough) {
		st = st.StrikeThrough(true)
	}

	return st
}

func convertColor(c cell.Color) tcell.Color {
	if c.Indexed {
		return tcell.PaletteColor(int(c.R))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// convertEvent maps a tcell event onto ours. Unhandled event types map
// to KindNone and are dropped.
func convertEvent(tev tcell.Event) event.Event {
	switch e := tev.(type) {
	case *tcell.EventKey:
		return event.KeyEvent(convertKey(e.Key()), e.Rune(), convertMod(e.Modifiers()))

	case *tcell.EventResize:
		w, h := e.Size()
		return event.ResizeEvent(w, h)

	case *tcell.EventMouse:
		x, y := e.Position()
		return event.Event{
			Kind:   event.KindMouse,
			MouseX: x,
			MouseY: y,
			Button: convertMouseButton(e.Buttons()),
			Mod:    convertMod(e.Modifiers()),
		}

	case *tcell.EventPaste:
		return event.Event{Kind: event.KindPaste, Focused: e.Start()}

	case *tcell.EventFocus:
		return event.Event{Kind: event.KindFocus, Focused: e.Focused}

	default:
		return event.Event{}
	}
}

func convertKey(k tcell.Key) event.Key {
	switch k {
	case tcell.KeyRune:
		return event.KeyRune
	case tcell.KeyEscape:
		return event.KeyEscape
	case tcell.KeyEnter:
		return event.KeyEnter
	case tcell.KeyTab:
		return event.KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return event.KeyBackspace
	case tcell.KeyDelete:
		return event.KeyDelete
	case tcell.KeyHome:
		return event.KeyHome
	case tcell.KeyEnd:
		return event.KeyEnd
	case tcell.KeyPgUp:
		return event.KeyPageUp
	case tcell.KeyPgDn:
		return event.KeyPageDown
	case tcell.KeyUp:
		return event.KeyUp
	case tcell.KeyDown:
		return event.KeyDown
	case tcell.KeyLeft:
		return event.KeyLeft
	case tcell.KeyRight:
		return event.KeyRight
	case tcell.KeyCtrlC:
		return event.KeyCtrlC
	default:
		return event.KeyNone
	}
}

func convertMod(m tcell.ModMask) event.ModMask {
	var result event.ModMask
	if m&tcell.ModShift != 0 {
		result |= event.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= event.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= event.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= event.ModMeta
	}
	return result
}

func convertMouseButton(b tcell.ButtonMask) event.MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return event.MouseLeft
	case b&tcell.Button2 != 0:
		return event.MouseMiddle
	case b&tcell.Button3 != 0:
		return event.MouseRight
	case b&tcell.WheelUp != 0:
		return event.MouseWheelUp
	case b&tcell.WheelDown != 0:
		return event.MouseWheelDown
	default:
		return event.MouseNone
	}
}
