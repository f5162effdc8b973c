package geom

import "testing"

func TestRectIntersection(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{
			name: "overlapping",
			a:    NewRect(0, 0, 10, 10),
			b:    NewRect(5, 5, 10, 10),
			want: NewRect(5, 5, 5, 5),
		},
		{
			name: "contained",
			a:    NewRect(0, 0, 20, 20),
			b:    NewRect(4, 4, 2, 2),
			want: NewRect(4, 4, 2, 2),
		},
		{
			name: "disjoint",
			a:    NewRect(0, 0, 5, 5),
			b:    NewRect(10, 10, 5, 5),
			want: Rect{},
		},
		{
			name: "touching edges do not overlap",
			a:    NewRect(0, 0, 5, 5),
			b:    NewRect(5, 0, 5, 5),
			want: Rect{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Intersection(tt.b)
			if !got.Equals(tt.want) {
				t.Errorf("Intersection(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRectContainsRect(t *testing.T) {
	parent := NewRect(2, 2, 10, 10)

	if !parent.ContainsRect(NewRect(2, 2, 10, 10)) {
		t.Error("rectangle should contain itself")
	}
	if !parent.ContainsRect(NewRect(4, 4, 2, 2)) {
		t.Error("rectangle should contain inner rectangle")
	}
	if parent.ContainsRect(NewRect(0, 0, 4, 4)) {
		t.Error("rectangle should not contain overlapping rectangle")
	}
	if parent.ContainsRect(NewRect(8, 8, 10, 10)) {
		t.Error("rectangle should not contain rectangle extending past it")
	}
	if !parent.ContainsRect(Rect{}) {
		t.Error("empty rectangle is trivially contained")
	}
}

func TestRectUnion(t *testing.T) {
	a := NewRect(0, 0, 4, 4)
	b := NewRect(6, 6, 4, 4)

	got := a.Union(b)
	want := NewRect(0, 0, 10, 10)
	if !got.Equals(want) {
		t.Errorf("Union = %v, want %v", got, want)
	}

	if !a.Union(Rect{}).Equals(a) {
		t.Error("union with empty should return the non-empty rectangle")
	}
}

func TestRectInset(t *testing.T) {
	r := NewRect(0, 0, 10, 10)

	got := r.Inset(2)
	want := NewRect(2, 2, 6, 6)
	if !got.Equals(want) {
		t.Errorf("Inset(2) = %v, want %v", got, want)
	}

	// Over-insetting must not invert
	got = NewRect(0, 0, 3, 3).Inset(5)
	if !got.IsEmpty() {
		t.Errorf("over-inset should be empty, got %v", got)
	}
}

func TestConstraintsClamp(t *testing.T) {
	c := Constraints{
		Min: NewSize(5, 2),
		Max: NewSize(20, 10),
	}

	tests := []struct {
		name string
		in   Size
		want Size
	}{
		{"within bounds", NewSize(10, 5), NewSize(10, 5)},
		{"below minimum", NewSize(1, 1), NewSize(5, 2)},
		{"above maximum", NewSize(100, 100), NewSize(20, 10)},
		{"mixed", NewSize(1, 100), NewSize(5, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Clamp(tt.in)
			if !got.Equals(tt.want) {
				t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if !c.Satisfies(got) {
				t.Errorf("clamped size %v should satisfy constraints", got)
			}
		})
	}
}

func TestTightAndLoose(t *testing.T) {
	size := NewSize(8, 3)

	tight := Tight(size)
	if !tight.Clamp(NewSize(1, 1)).Equals(size) {
		t.Error("tight constraints should force the exact size")
	}
	if !tight.Clamp(NewSize(100, 100)).Equals(size) {
		t.Error("tight constraints should force the exact size")
	}

	loose := Loose(size)
	if !loose.Clamp(NewSize(2, 2)).Equals(NewSize(2, 2)) {
		t.Error("loose constraints should admit smaller sizes")
	}
	if !loose.Clamp(NewSize(100, 100)).Equals(size) {
		t.Error("loose constraints should cap at the maximum")
	}
}
