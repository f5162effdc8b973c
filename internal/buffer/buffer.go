// Package buffer provides the frame buffer: a width×height grid of cells
// that components paint into and the diff engine compares. The renderer
// owns exactly two equal-dimensioned buffers, front and back.
package buffer

import (
	"strings"

	"github.com/termloom/termloom/internal/cell"
	"github.com/termloom/termloom/internal/geom"
)

// Buffer is a grid of cells stored row-major.
type Buffer struct {
	cells  []cell.Cell
	width  int
	height int
}

// New creates a buffer of the given dimensions filled with blank cells.
func New(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Buffer{
		cells:  make([]cell.Cell, width*height),
		width:  width,
		height: height,
	}
	b.Clear()
	return b
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() geom.Size {
	return geom.NewSize(b.width, b.height)
}

// Width returns the buffer width.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height.
func (b *Buffer) Height() int { return b.height }

// InBounds returns true if the coordinates lie within the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Buffer) index(x, y int) int {
	return y*b.width + x
}

// CellAt returns the cell at the given position, or a blank cell when out
// of bounds.
func (b *Buffer) CellAt(x, y int) cell.Cell {
	if !b.InBounds(x, y) {
		return cell.Empty()
	}
	return b.cells[b.index(x, y)]
}

// PutCell writes one cell. Out-of-bounds writes are ignored.
//
// The buffer maintains the wide-glyph invariant: overwriting either half
// of a wide glyph blanks the orphaned half, and writing a wide cell in
// the last column is narrowed to a blank, so continuation cells never
// carry independent content.
func (b *Buffer) PutCell(x, y int, c cell.Cell) {
	if !b.InBounds(x, y) {
		return
	}

	// A wide glyph cannot start in the last column.
	if c.Width > 1 && x+c.Width > b.width {
		c = cell.Empty().WithStyle(c.Style)
	}

	b.repairAround(x, y, c.Width)
	b.cells[b.index(x, y)] = c
	for i := 1; i < c.Width; i++ {
		b.cells[b.index(x+i, y)] = cell.Continuation(c.Style)
	}
}

// repairAround blanks glyph halves orphaned by a write of the given width
// at x,y.
func (b *Buffer) repairAround(x, y, width int) {
	if width < 1 {
		width = 1
	}

	// Writing over a continuation cell orphans the lead to its left.
	if cur := b.cells[b.index(x, y)]; cur.IsContinuation() && x > 0 {
		lead := b.index(x-1, y)
		if b.cells[lead].Width > 1 {
			b.cells[lead] = cell.Empty().WithStyle(b.cells[lead].Style)
		}
	}

	// Writing over the lead of a wide glyph orphans its continuation.
	last := x + width - 1
	if last+1 < b.width {
		if cur := b.cells[b.index(last, y)]; cur.Width > 1 {
			cont := b.index(last+1, y)
			if b.cells[cont].IsContinuation() {
				b.cells[cont] = cell.Empty().WithStyle(b.cells[cont].Style)
			}
		}
	}
}

// Fill sets every cell in the buffer.
func (b *Buffer) Fill(c cell.Cell) {
	for i := range b.cells {
		b.cells[i] = c
	}
}

// FillRect sets every cell within the given rectangle.
func (b *Buffer) FillRect(r geom.Rect, c cell.Cell) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			b.PutCell(x, y, c)
		}
	}
}

// Clear resets the buffer to blank cells with the default style.
func (b *Buffer) Clear() {
	b.Fill(cell.Empty())
}

// WriteString writes a string starting at the given position, splitting
// it into grapheme clusters and emitting continuation cells for wide
// glyphs. Returns the number of columns written.
func (b *Buffer) WriteString(x, y int, s string, style cell.Style) int {
	written := 0
	for _, c := range cell.FromString(s, style) {
		if c.IsContinuation() {
			continue
		}
		if x >= b.width || y < 0 || y >= b.height {
			break
		}
		b.PutCell(x, y, c)
		x += c.Width
		written += c.Width
	}
	return written
}

// Resize reallocates the buffer to new dimensions, preserving the
// overlapping region. Returns true if the dimensions changed.
func (b *Buffer) Resize(width, height int) bool {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == b.width && height == b.height {
		return false
	}

	next := make([]cell.Cell, width*height)
	for i := range next {
		next[i] = cell.Empty()
	}

	copyW := min(width, b.width)
	copyH := min(height, b.height)
	for y := 0; y < copyH; y++ {
		copy(next[y*width:y*width+copyW], b.cells[y*b.width:y*b.width+copyW])

		// A narrowing cut can bisect a wide glyph, stranding its lead
		// in the new last column without a continuation.
		if width > 0 && width < b.width {
			if last := next[y*width+width-1]; last.Width > 1 {
				next[y*width+width-1] = cell.Empty().WithStyle(last.Style)
			}
		}
	}

	b.cells = next
	b.width = width
	b.height = height
	return true
}

// CopyFrom makes this buffer an exact copy of other, reallocating if the
// dimensions differ.
func (b *Buffer) CopyFrom(other *Buffer) {
	if b.width != other.width || b.height != other.height {
		b.cells = make([]cell.Cell, len(other.cells))
		b.width = other.width
		b.height = other.height
	}
	copy(b.cells, other.cells)
}

// Equal returns true if two buffers have identical dimensions and content.
func (b *Buffer) Equal(other *Buffer) bool {
	if b.width != other.width || b.height != other.height {
		return false
	}
	for i := range b.cells {
		if !b.cells[i].Equals(other.cells[i]) {
			return false
		}
	}
	return true
}

// Row returns the cells of one row. The slice aliases the buffer and is
// only valid until the next write.
func (b *Buffer) Row(y int) []cell.Cell {
	if y < 0 || y >= b.height {
		return nil
	}
	return b.cells[y*b.width : (y+1)*b.width]
}

// Snapshot returns the buffer content as a newline-separated string, one
// row per line, for golden-frame assertions.
func (b *Buffer) Snapshot() string {
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < b.width; x++ {
			c := b.cells[b.index(x, y)]
			if c.IsContinuation() {
				continue
			}
			if c.Rune == 0 {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteString(c.Content())
		}
	}
	return sb.String()
}
