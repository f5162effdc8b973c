// Package draw provides the paint context handed to components during
// the render pass: a clipped, origin-translated view onto a cell sink,
// with access to the active theme and the detected terminal
// capabilities.
//
// Components paint in local coordinates. The context translates every
// write into sink coordinates and discards writes outside the current
// clip region, so a component can never paint outside the area it was
// given.
package draw

import (
	"github.com/termloom/termloom/internal/caps"
	"github.com/termloom/termloom/internal/cell"
	"github.com/termloom/termloom/internal/geom"
	"github.com/termloom/termloom/internal/logging"
	"github.com/termloom/termloom/internal/style"
)

// CellSink is the write side of a paint target. Both the frame buffer
// and the in-memory surface satisfy it.
type CellSink interface {
	Size() geom.Size
	PutCell(x, y int, c cell.Cell)
}

// frame is one level of the clip stack: an origin in sink coordinates,
// the effective clip in sink coordinates, and the local size the
// component at this level sees.
type frame struct {
	ox, oy int
	clip   geom.Rect
	size   geom.Size
}

// Context is the paint surface for one render pass. It is not safe for
// concurrent use; the renderer hands it to one component at a time.
type Context struct {
	sink  CellSink
	theme *style.Theme
	caps  caps.Capabilities
	log   *logging.Logger
	stack []frame
}

// NewContext creates a context covering the whole sink.
func NewContext(sink CellSink, theme *style.Theme, capabilities caps.Capabilities, log *logging.Logger) *Context {
	if theme == nil {
		theme = style.Default()
	}
	if log == nil {
		log = logging.Discard()
	}
	size := sink.Size()
	return &Context{
		sink:  sink,
		theme: theme,
		caps:  capabilities,
		log:   log,
		stack: []frame{{clip: geom.RectOf(size), size: size}},
	}
}

func (c *Context) top() *frame {
	return &c.stack[len(c.stack)-1]
}

// Size returns the local dimensions of the current paint area.
func (c *Context) Size() geom.Size {
	return c.top().size
}

// Bounds returns the current paint area in local coordinates.
func (c *Context) Bounds() geom.Rect {
	return geom.RectOf(c.top().size)
}

// Theme returns the active theme.
func (c *Context) Theme() *style.Theme {
	return c.theme
}

// Capabilities returns the detected terminal capabilities.
func (c *Context) Capabilities() caps.Capabilities {
	return c.caps
}

// Style resolves a theme token.
func (c *Context) Style(token string) cell.Style {
	return c.theme.Resolve(token)
}

// PushClip enters a child region given in local coordinates. Subsequent
// writes are translated so the region's top-left corner becomes (0,0)
// and are clipped to the region's visible part. A region extending
// outside the current area is clipped, not rejected.
//
// Every PushClip must be balanced by a PopClip.
func (c *Context) PushClip(r geom.Rect) {
	t := c.top()
	abs := r.Translate(t.ox, t.oy)
	clip := t.clip.Intersection(abs)
	if !t.clip.ContainsRect(abs) {
		c.log.Warn("clipping out-of-bounds region %s to %s", r, clip.Translate(-t.ox, -t.oy))
	}
	c.stack = append(c.stack, frame{
		ox:   abs.X,
		oy:   abs.Y,
		clip: clip,
		size: r.Size(),
	})
}

// PopClip leaves the current region. Popping the root region is a no-op.
func (c *Context) PopClip() {
	if len(c.stack) <= 1 {
		c.log.Warn("unbalanced PopClip on root region")
		return
	}
	c.stack = c.stack[:len(c.stack)-1]
}

// Depth returns the number of pushed regions, zero at the root.
func (c *Context) Depth() int {
	return len(c.stack) - 1
}

// SetCell writes one cell at local coordinates. Writes outside the
// current clip are discarded; a wide glyph that does not fit entirely
// within the clip is discarded whole, so the sink never receives half
// a glyph.
func (c *Context) SetCell(x, y int, cl cell.Cell) {
	t := c.top()
	ax, ay := x+t.ox, y+t.oy
	if !t.clip.Contains(ax, ay) {
		return
	}
	if cl.Width > 1 && ax+cl.Width > t.clip.Right() {
		return
	}
	c.sink.PutCell(ax, ay, cl)
}

// Fill sets every cell within the given local rectangle.
func (c *Context) Fill(r geom.Rect, cl cell.Cell) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			c.SetCell(x, y, cl)
		}
	}
}

// Clear fills the current area with a blank cell in the given style.
func (c *Context) Clear(st cell.Style) {
	c.Fill(c.Bounds(), cell.Empty().WithStyle(st))
}

// DrawText writes a string starting at local x,y, splitting it into
// grapheme clusters. Wide glyphs occupy two columns. Returns the number
// of columns advanced, including any that fell outside the clip.
func (c *Context) DrawText(x, y int, s string, st cell.Style) int {
	start := x
	for _, cl := range cell.FromString(s, st) {
		if cl.IsContinuation() {
			continue
		}
		c.SetCell(x, y, cl)
		x += cl.Width
	}
	return x - start
}

// Border runes, chosen by capability tier: box drawing needs a terminal
// that measures wide and ambiguous runes the way we do.
var (
	borderUnicode = [6]rune{'┌', '┐', '└', '┘', '─', '│'}
	borderASCII   = [6]rune{'+', '+', '+', '+', '-', '|'}
)

// DrawBorder draws a one-cell border just inside the given local
// rectangle. Rectangles smaller than 2x2 are ignored.
func (c *Context) DrawBorder(r geom.Rect, st cell.Style) {
	if r.Width < 2 || r.Height < 2 {
		return
	}

	glyphs := borderASCII
	if c.caps.UnicodeWidth {
		glyphs = borderUnicode
	}

	put := func(x, y int, g rune) {
		c.SetCell(x, y, cell.New(g, st))
	}

	put(r.X, r.Y, glyphs[0])
	put(r.Right()-1, r.Y, glyphs[1])
	put(r.X, r.Bottom()-1, glyphs[2])
	put(r.Right()-1, r.Bottom()-1, glyphs[3])
	for x := r.X + 1; x < r.Right()-1; x++ {
		put(x, r.Y, glyphs[4])
		put(x, r.Bottom()-1, glyphs[4])
	}
	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		put(r.X, y, glyphs[5])
		put(r.Right()-1, y, glyphs[5])
	}
}
