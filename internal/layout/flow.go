// Package layout provides pure arithmetic helpers that partition a
// rectangle among children, either by fixed size or proportionally by
// weight. The helpers never produce a child extending past the parent;
// content that does not fit is clipped.
package layout

import "github.com/termloom/termloom/internal/geom"

// Spec describes how much of the main axis one child receives.
// A Fixed value takes precedence; otherwise the child shares the
// remaining space in proportion to Weight.
type Spec struct {
	Fixed  int
	Weight int
}

// Fixed creates a spec for a fixed-size child.
func Fixed(cells int) Spec {
	if cells < 0 {
		cells = 0
	}
	return Spec{Fixed: cells}
}

// Flex creates a spec for a proportionally sized child.
func Flex(weight int) Spec {
	if weight < 1 {
		weight = 1
	}
	return Spec{Weight: weight}
}

// SplitRow partitions a rectangle into side-by-side columns, one per spec.
// Fixed children are allotted first; flex children share the remainder by
// weight, with leftover cells distributed left to right. Every returned
// rectangle lies within the parent.
func SplitRow(parent geom.Rect, specs []Spec) []geom.Rect {
	return split(parent, specs, true)
}

// SplitColumn partitions a rectangle into stacked rows, one per spec.
func SplitColumn(parent geom.Rect, specs []Spec) []geom.Rect {
	return split(parent, specs, false)
}

// Stack returns n copies of the parent rectangle, for layered children
// that each cover the full area.
func Stack(parent geom.Rect, n int) []geom.Rect {
	if n <= 0 {
		return nil
	}
	rects := make([]geom.Rect, n)
	for i := range rects {
		rects[i] = parent
	}
	return rects
}

func split(parent geom.Rect, specs []Spec, horizontal bool) []geom.Rect {
	if len(specs) == 0 {
		return nil
	}

	axis := parent.Height
	if horizontal {
		axis = parent.Width
	}
	if axis < 0 {
		axis = 0
	}

	sizes := make([]int, len(specs))
	remaining := axis
	totalWeight := 0

	// First pass: fixed children, clipped to what is left
	for i, spec := range specs {
		if spec.Fixed > 0 || spec.Weight == 0 {
			size := spec.Fixed
			if size > remaining {
				size = remaining
			}
			sizes[i] = size
			remaining -= size
		} else {
			totalWeight += spec.Weight
		}
	}

	// Second pass: flex children share the remainder by weight
	if totalWeight > 0 && remaining > 0 {
		flexSpace := remaining
		for i, spec := range specs {
			if spec.Fixed > 0 || spec.Weight == 0 {
				continue
			}
			size := flexSpace * spec.Weight / totalWeight
			sizes[i] = size
			remaining -= size
		}
		// Leftover cells from integer division go to the first flex children
		for i, spec := range specs {
			if remaining == 0 {
				break
			}
			if spec.Fixed > 0 || spec.Weight == 0 {
				continue
			}
			sizes[i]++
			remaining--
		}
	}

	rects := make([]geom.Rect, len(specs))
	offset := 0
	for i, size := range sizes {
		if horizontal {
			rects[i] = geom.NewRect(parent.X+offset, parent.Y, size, parent.Height)
		} else {
			rects[i] = geom.NewRect(parent.X, parent.Y+offset, parent.Width, size)
		}
		offset += size
	}
	return rects
}
