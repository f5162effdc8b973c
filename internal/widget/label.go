// Package widget provides the built-in components: text labels,
// progress bars, spinners, and the containers that arrange them. Every
// widget degrades with the output tier it is rendered at, so the same
// tree works from a kitty terminal down to a dumb one.
package widget

import (
	"github.com/termloom/termloom/internal/cell"
	"github.com/termloom/termloom/internal/component"
	"github.com/termloom/termloom/internal/draw"
	"github.com/termloom/termloom/internal/geom"
	"github.com/termloom/termloom/internal/style"
)

// Label renders one line of text in a theme token's style.
type Label struct {
	component.Base
	text  string
	token string
}

// NewLabel creates a label.
func NewLabel(text string) *Label {
	return &Label{text: text, token: style.TokenText}
}

// SetText replaces the label text. The caller is responsible for
// scheduling a repaint.
func (l *Label) SetText(text string) {
	l.text = text
}

// Text returns the current text.
func (l *Label) Text() string {
	return l.text
}

// SetToken sets the theme token the text is styled with.
func (l *Label) SetToken(token string) {
	l.token = token
}

// Measure wants one row at the text's width.
func (l *Label) Measure(c geom.Constraints) geom.Size {
	return c.Clamp(geom.NewSize(cell.StringWidth(l.text), 1))
}

// Render paints the text, clipped to the label's area.
func (l *Label) Render(ctx *draw.Context) {
	ctx.DrawText(0, 0, l.text, ctx.Style(l.token))
}

// DebugName identifies the label in logs.
func (l *Label) DebugName() string {
	return "label"
}
