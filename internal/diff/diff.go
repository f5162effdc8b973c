// Package diff computes the damage between two frames as horizontal
// spans of changed cells. Spans are the canonical damage unit; rect
// coalescing is an optional pass for backends that prefer larger,
// fewer regions over exact ones.
package diff

import (
	"errors"
	"sort"

	"github.com/termloom/termloom/internal/buffer"
	"github.com/termloom/termloom/internal/cell"
	"github.com/termloom/termloom/internal/geom"
)

// ErrSizeMismatch is returned when the two buffers have different
// dimensions. The renderer reallocates both buffers on resize, so a
// mismatch here means a frame was diffed mid-resize.
var ErrSizeMismatch = errors.New("diff: buffer dimensions differ")

// Span is a run of changed cells on one row. X0 is inclusive, X1
// exclusive.
type Span struct {
	Row int
	X0  int
	X1  int
}

// Width returns the number of cells the span covers.
func (s Span) Width() int {
	return s.X1 - s.X0
}

// mergeGap is the largest run of unchanged cells bridged when joining
// adjacent spans on a row. Emitting one span across a small gap is
// cheaper than the cursor move between two.
const mergeGap = 2

// Diff compares two equal-dimension buffers and returns the spans of
// next that differ from prev, in row-major order. Identical buffers
// produce no spans.
//
// Spans never split a wide glyph: a change to either half widens the
// span to cover the whole glyph.
func Diff(prev, next *buffer.Buffer) ([]Span, error) {
	if !prev.Size().Equals(next.Size()) {
		return nil, ErrSizeMismatch
	}

	size := next.Size()
	var spans []Span
	for y := 0; y < size.Height; y++ {
		prevRow := prev.Row(y)
		nextRow := next.Row(y)
		spans = appendRowSpans(spans, y, prevRow, nextRow)
	}
	return spans, nil
}

func appendRowSpans(spans []Span, row int, prevRow, nextRow []cell.Cell) []Span {
	width := len(nextRow)
	x := 0
	for x < width {
		if nextRow[x].Equals(prevRow[x]) {
			x++
			continue
		}

		start := x
		end := x + 1
		gap := 0
		for scan := end; scan < width; scan++ {
			if nextRow[scan].Equals(prevRow[scan]) {
				gap++
				if gap > mergeGap {
					break
				}
				continue
			}
			end = scan + 1
			gap = 0
		}

		// Never split a wide glyph in either frame: the flush would
		// otherwise write half a glyph over the other frame's half.
		for start > 0 && (prevRow[start].IsContinuation() || nextRow[start].IsContinuation()) {
			start--
		}
		for end < width && (prevRow[end].IsContinuation() || nextRow[end].IsContinuation()) {
			end++
		}

		spans = append(spans, Span{Row: row, X0: start, X1: end})
		x = end
	}
	return spans
}

// FullDamage returns one span per row covering the whole buffer, used
// after a resize or when the front buffer content is unknown.
func FullDamage(size geom.Size) []Span {
	if size.IsEmpty() {
		return nil
	}
	spans := make([]Span, size.Height)
	for y := 0; y < size.Height; y++ {
		spans[y] = Span{Row: y, X0: 0, X1: size.Width}
	}
	return spans
}

// CoalesceRects merges spans on consecutive rows into rectangles. Two
// spans join the same rectangle when their rows are adjacent and their
// column ranges are within gap cells of each other; the rectangle
// grows to their union. The result covers every input span, possibly
// with extra cells.
func CoalesceRects(spans []Span, gap int) []geom.Rect {
	if len(spans) == 0 {
		return nil
	}
	if gap < 0 {
		gap = 0
	}

	ordered := make([]Span, len(spans))
	copy(ordered, spans)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Row != ordered[j].Row {
			return ordered[i].Row < ordered[j].Row
		}
		return ordered[i].X0 < ordered[j].X0
	})

	var done []geom.Rect
	var open []geom.Rect
	for _, s := range ordered {
		sr := geom.NewRect(s.X0, s.Row, s.Width(), 1)
		merged := false
		for i, r := range open {
			if s.Row > r.Bottom() {
				continue
			}
			if s.X0 > r.Right()+gap || s.X1 < r.X-gap {
				continue
			}
			open[i] = r.Union(sr)
			merged = true
			break
		}
		if !merged {
			open = append(open, sr)
		}

		// Rectangles the current row can no longer touch are final.
		kept := open[:0]
		for _, r := range open {
			if s.Row > r.Bottom() {
				done = append(done, r)
				continue
			}
			kept = append(kept, r)
		}
		open = kept
	}
	done = append(done, open...)

	sort.Slice(done, func(i, j int) bool {
		if done[i].Y != done[j].Y {
			return done[i].Y < done[j].Y
		}
		return done[i].X < done[j].X
	})
	return done
}
