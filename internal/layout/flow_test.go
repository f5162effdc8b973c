package layout

import (
	"testing"

	"github.com/termloom/termloom/internal/geom"
)

func TestSplitRowProportional(t *testing.T) {
	parent := geom.NewRect(0, 0, 30, 10)
	rects := SplitRow(parent, []Spec{Flex(1), Flex(2)})

	if len(rects) != 2 {
		t.Fatalf("expected 2 rects, got %d", len(rects))
	}
	if rects[0].Width != 10 || rects[1].Width != 20 {
		t.Errorf("widths = %d,%d, want 10,20", rects[0].Width, rects[1].Width)
	}
	if rects[1].X != 10 {
		t.Errorf("second child X = %d, want 10", rects[1].X)
	}
}

func TestSplitRowFixedAndFlex(t *testing.T) {
	parent := geom.NewRect(5, 3, 20, 4)
	rects := SplitRow(parent, []Spec{Fixed(6), Flex(1), Flex(1)})

	if rects[0].Width != 6 {
		t.Errorf("fixed child width = %d, want 6", rects[0].Width)
	}
	if rects[1].Width != 7 || rects[2].Width != 7 {
		t.Errorf("flex widths = %d,%d, want 7,7", rects[1].Width, rects[2].Width)
	}
	// Children must tile the parent exactly
	if rects[2].Right() != parent.Right() {
		t.Errorf("last child right edge = %d, want %d", rects[2].Right(), parent.Right())
	}
}

func TestSplitColumnRemainderDistribution(t *testing.T) {
	parent := geom.NewRect(0, 0, 8, 10)
	rects := SplitColumn(parent, []Spec{Flex(1), Flex(1), Flex(1)})

	total := 0
	for _, r := range rects {
		total += r.Height
	}
	if total != 10 {
		t.Errorf("heights sum to %d, want 10", total)
	}
	// 10/3: first child gets the leftover cell
	if rects[0].Height != 4 || rects[1].Height != 3 || rects[2].Height != 3 {
		t.Errorf("heights = %d,%d,%d, want 4,3,3",
			rects[0].Height, rects[1].Height, rects[2].Height)
	}
}

func TestSplitContainment(t *testing.T) {
	parents := []geom.Rect{
		geom.NewRect(0, 0, 80, 24),
		geom.NewRect(10, 5, 7, 3),
		geom.NewRect(0, 0, 1, 1),
		geom.NewRect(0, 0, 0, 0),
	}
	specSets := [][]Spec{
		{Flex(1)},
		{Fixed(100), Flex(1)},
		{Fixed(3), Fixed(3), Flex(2), Flex(5)},
	}

	for _, parent := range parents {
		for _, specs := range specSets {
			for _, r := range SplitRow(parent, specs) {
				if !parent.ContainsRect(r) {
					t.Errorf("SplitRow child %v escapes parent %v", r, parent)
				}
			}
			for _, r := range SplitColumn(parent, specs) {
				if !parent.ContainsRect(r) {
					t.Errorf("SplitColumn child %v escapes parent %v", r, parent)
				}
			}
		}
	}
}

func TestSplitRowOversizedFixed(t *testing.T) {
	parent := geom.NewRect(0, 0, 10, 2)
	rects := SplitRow(parent, []Spec{Fixed(8), Fixed(8)})

	if rects[0].Width != 8 {
		t.Errorf("first fixed width = %d, want 8", rects[0].Width)
	}
	if rects[1].Width != 2 {
		t.Errorf("second fixed width = %d, want clipped to 2", rects[1].Width)
	}
}

func TestStack(t *testing.T) {
	parent := geom.NewRect(2, 2, 6, 6)
	rects := Stack(parent, 3)

	if len(rects) != 3 {
		t.Fatalf("expected 3 rects, got %d", len(rects))
	}
	for i, r := range rects {
		if !r.Equals(parent) {
			t.Errorf("layer %d = %v, want %v", i, r, parent)
		}
	}

	if Stack(parent, 0) != nil {
		t.Error("Stack with zero children should return nil")
	}
}
