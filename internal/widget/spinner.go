package widget

import (
	"github.com/termloom/termloom/internal/cell"
	"github.com/termloom/termloom/internal/component"
	"github.com/termloom/termloom/internal/draw"
	"github.com/termloom/termloom/internal/event"
	"github.com/termloom/termloom/internal/geom"
	"github.com/termloom/termloom/internal/style"
)

var (
	spinnerBraille = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}
	spinnerASCII   = []rune{'|', '/', '-', '\\'}
)

// Spinner is a one-cell activity indicator advanced by tick events. It
// asks for ticks only while spinning, so an idle spinner costs no
// frames.
type Spinner struct {
	component.Base
	frame    int
	spinning bool
}

// NewSpinner creates a stopped spinner.
func NewSpinner() *Spinner {
	return &Spinner{}
}

// Start begins animating.
func (s *Spinner) Start() {
	s.spinning = true
}

// Stop freezes the spinner on its current frame.
func (s *Spinner) Stop() {
	s.spinning = false
}

// Spinning reports whether the spinner is animating.
func (s *Spinner) Spinning() bool {
	return s.spinning
}

// WantsTicks reports whether the spinner needs tick events.
func (s *Spinner) WantsTicks() bool {
	return s.spinning
}

// HandleEvent advances the animation on ticks while spinning.
func (s *Spinner) HandleEvent(ev event.Event) component.Invalidate {
	if ev.Kind == event.KindTick && s.spinning {
		s.frame++
		return component.InvalidatePaint
	}
	return component.InvalidateNone
}

// Measure wants a single cell.
func (s *Spinner) Measure(c geom.Constraints) geom.Size {
	return c.Clamp(geom.NewSize(1, 1))
}

// Render paints the current frame glyph.
func (s *Spinner) Render(ctx *draw.Context) {
	glyphs := spinnerASCII
	if ctx.Capabilities().UnicodeWidth {
		glyphs = spinnerBraille
	}
	r := glyphs[s.frame%len(glyphs)]
	ctx.SetCell(0, 0, cell.New(r, ctx.Style(style.TokenAccent)))
}

// DebugName identifies the spinner in logs.
func (s *Spinner) DebugName() string {
	return "spinner"
}
