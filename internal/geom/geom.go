// Package geom provides the immutable value types used by layout and
// rendering: sizes, rectangles, and layout constraints.
package geom

import "fmt"

// Size represents a width and height in terminal cells.
type Size struct {
	Width  int
	Height int
}

// NewSize creates a size.
func NewSize(width, height int) Size {
	return Size{Width: width, Height: height}
}

// IsEmpty returns true if the size has no area.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Area returns the number of cells covered by the size.
func (s Size) Area() int {
	if s.IsEmpty() {
		return 0
	}
	return s.Width * s.Height
}

// Equals returns true if two sizes are identical.
func (s Size) Equals(other Size) bool {
	return s.Width == other.Width && s.Height == other.Height
}

// String returns a string representation of the size.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Rect represents a rectangular region in screen coordinates.
// X and Y are the top-left corner; Width and Height extend right and down.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NewRect creates a rectangle from position and size.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// RectOf creates a rectangle at the origin with the given size.
func RectOf(size Size) Rect {
	return Rect{Width: size.Width, Height: size.Height}
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains returns true if the point is within the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// ContainsRect returns true if other lies entirely within r.
func (r Rect) ContainsRect(other Rect) bool {
	if other.IsEmpty() {
		return true
	}
	return other.X >= r.X && other.Right() <= r.Right() &&
		other.Y >= r.Y && other.Bottom() <= r.Bottom()
}

// Intersects returns true if two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.Right() && r.Right() > other.X &&
		r.Y < other.Bottom() && r.Bottom() > other.Y
}

// Intersection returns the overlapping region of two rectangles.
// Returns an empty rectangle if they do not overlap.
func (r Rect) Intersection(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}
	x := max(r.X, other.X)
	y := max(r.Y, other.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  min(r.Right(), other.Right()) - x,
		Height: min(r.Bottom(), other.Bottom()) - y,
	}
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x := min(r.X, other.X)
	y := min(r.Y, other.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  max(r.Right(), other.Right()) - x,
		Height: max(r.Bottom(), other.Bottom()) - y,
	}
}

// Inset returns a rectangle shrunk by the given amount on every side.
// The result never inverts; over-insetting produces an empty rectangle
// centered in r.
func (r Rect) Inset(amount int) Rect {
	result := Rect{
		X:      r.X + amount,
		Y:      r.Y + amount,
		Width:  r.Width - 2*amount,
		Height: r.Height - 2*amount,
	}
	if result.Width < 0 {
		result.Width = 0
	}
	if result.Height < 0 {
		result.Height = 0
	}
	return result
}

// Translate returns a rectangle moved by the given delta.
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Equals returns true if two rectangles are identical.
func (r Rect) Equals(other Rect) bool {
	return r.X == other.X && r.Y == other.Y &&
		r.Width == other.Width && r.Height == other.Height
}

// String returns a string representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// Constraints bound the sizes a component may report from Measure.
type Constraints struct {
	Min Size
	Max Size
}

// Tight creates constraints that admit exactly one size.
func Tight(size Size) Constraints {
	return Constraints{Min: size, Max: size}
}

// Loose creates constraints from zero up to the given size.
func Loose(size Size) Constraints {
	return Constraints{Max: size}
}

// Clamp returns the size adjusted to lie within the constraints.
func (c Constraints) Clamp(size Size) Size {
	w := size.Width
	if w < c.Min.Width {
		w = c.Min.Width
	}
	if w > c.Max.Width {
		w = c.Max.Width
	}
	h := size.Height
	if h < c.Min.Height {
		h = c.Min.Height
	}
	if h > c.Max.Height {
		h = c.Max.Height
	}
	return Size{Width: w, Height: h}
}

// Satisfies returns true if the size already lies within the constraints.
func (c Constraints) Satisfies(size Size) bool {
	return size.Equals(c.Clamp(size))
}
