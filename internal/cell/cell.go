// Package cell defines the terminal cell data model shared by buffers,
// surfaces, and the diff engine: colors, styles, and the Cell itself.
//
// A glyph wider than one column occupies consecutive cells; the trailing
// cells hold a continuation marker and never carry independent content.
package cell

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Cell is one terminal character position.
type Cell struct {
	// Rune is the base rune of the glyph, or 0 for a continuation cell.
	Rune rune

	// Combining holds any trailing runes of the grapheme cluster
	// (combining marks, ZWJ sequences). Empty for plain runes.
	Combining string

	// Width is the display width of the glyph: 1, 2, or 0 for a
	// continuation cell.
	Width int

	// Style is the visual style of the cell.
	Style Style
}

// Empty returns a blank cell with the default style.
func Empty() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

// New creates a cell for a single rune with the given style.
func New(r rune, style Style) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: style}
}

// Continuation returns the marker cell placed after a wide glyph.
// It carries the style of its leading cell so style diffs stay aligned.
func Continuation(style Style) Cell {
	return Cell{Style: style}
}

// IsContinuation returns true for the trailing cell of a wide glyph.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Rune == 0
}

// IsBlank returns true if the cell shows nothing.
func (c Cell) IsBlank() bool {
	return c.Rune == ' ' || c.Rune == 0
}

// Content returns the full glyph as a string.
func (c Cell) Content() string {
	if c.Rune == 0 {
		return ""
	}
	if c.Combining == "" {
		return string(c.Rune)
	}
	return string(c.Rune) + c.Combining
}

// Equals returns true if two cells are identical in content and style.
func (c Cell) Equals(other Cell) bool {
	return c.Rune == other.Rune &&
		c.Combining == other.Combining &&
		c.Width == other.Width &&
		c.Style.Equals(other.Style)
}

// WithStyle returns the cell restyled.
func (c Cell) WithStyle(style Style) Cell {
	c.Style = style
	return c
}

// RuneWidth returns the display width of a single rune.
func RuneWidth(r rune) int {
	if r < 32 || r == 0x7F {
		return 0
	}
	return runewidth.RuneWidth(r)
}

// FromString converts a string into cells, one per grapheme cluster.
// Wide clusters are followed by continuation cells so that the slice
// length equals the string's display width.
func FromString(s string, style Style) []Cell {
	cells := make([]Cell, 0, len(s))
	state := -1
	for len(s) > 0 {
		var cluster string
		var boundaries int
		cluster, s, boundaries, state = uniseg.StepString(s, state)

		width := boundaries >> uniseg.ShiftWidth
		if width <= 0 {
			continue
		}

		base, combining := splitCluster(cluster)
		cells = append(cells, Cell{
			Rune:      base,
			Combining: combining,
			Width:     width,
			Style:     style,
		})
		for i := 1; i < width; i++ {
			cells = append(cells, Continuation(style))
		}
	}
	return cells
}

// StringWidth returns the display width of a string in cells.
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// String converts cells back to a string, skipping continuation cells.
func String(cells []Cell) string {
	var b strings.Builder
	for _, c := range cells {
		if c.IsContinuation() || c.Rune == 0 {
			continue
		}
		b.WriteString(c.Content())
	}
	return b.String()
}

// splitCluster separates a grapheme cluster into its base rune and any
// trailing runes.
func splitCluster(cluster string) (rune, string) {
	var base rune
	for i, r := range cluster {
		if i == 0 {
			base = r
			continue
		}
		return base, cluster[i:]
	}
	return base, ""
}
