package component

import (
	"testing"

	"github.com/termloom/termloom/internal/buffer"
	"github.com/termloom/termloom/internal/caps"
	"github.com/termloom/termloom/internal/cell"
	"github.com/termloom/termloom/internal/draw"
	"github.com/termloom/termloom/internal/event"
	"github.com/termloom/termloom/internal/geom"
	"github.com/termloom/termloom/internal/style"
)

func TestInvalidateMerge(t *testing.T) {
	tests := []struct {
		a, b, want Invalidate
	}{
		{InvalidateNone, InvalidateNone, InvalidateNone},
		{InvalidateNone, InvalidatePaint, InvalidatePaint},
		{InvalidatePaint, InvalidateNone, InvalidatePaint},
		{InvalidatePaint, InvalidateLayout, InvalidateLayout},
		{InvalidateLayout, InvalidatePaint, InvalidateLayout},
		{InvalidateLayout, InvalidateLayout, InvalidateLayout},
	}
	for _, tt := range tests {
		if got := tt.a.Merge(tt.b); got != tt.want {
			t.Errorf("%v.Merge(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestInvalidateString(t *testing.T) {
	if InvalidateLayout.String() != "layout" || InvalidateNone.String() != "none" {
		t.Error("Invalidate String names wrong")
	}
	if Invalidate(99).String() != "unknown" {
		t.Error("out-of-range Invalidate should stringify as unknown")
	}
}

func TestBaseDefaults(t *testing.T) {
	var b Base

	bounds := geom.NewRect(2, 3, 10, 4)
	b.Layout(bounds)
	if !b.Bounds().Equals(bounds) {
		t.Errorf("Bounds = %v, want %v", b.Bounds(), bounds)
	}

	if got := b.HandleEvent(event.KeyEvent(event.KeyRune, 'a', 0)); got != InvalidateNone {
		t.Errorf("Base HandleEvent = %v, want none", got)
	}

	c := geom.Constraints{Min: geom.NewSize(1, 1), Max: geom.NewSize(8, 2)}
	if got := b.Measure(c); !got.Equals(geom.NewSize(8, 2)) {
		t.Errorf("Base Measure = %v, want max 8x2", got)
	}
}

func TestWrapRenders(t *testing.T) {
	c := Wrap("greeting", func(ctx *draw.Context) {
		ctx.DrawText(0, 0, "hi", ctx.Style(style.TokenText))
	})
	if c.DebugName() != "greeting" {
		t.Errorf("DebugName = %q", c.DebugName())
	}

	buf := buffer.New(4, 1)
	ctx := draw.NewContext(buf, style.Default(), caps.Capabilities{UnicodeWidth: true}, nil)
	c.Render(ctx)

	if buf.CellAt(0, 0).Rune != 'h' || buf.CellAt(1, 0).Rune != 'i' {
		t.Errorf("wrapped render did not paint: %q", buf.Snapshot())
	}
}

func TestWrapNilRender(t *testing.T) {
	c := Wrap("empty", nil)
	buf := buffer.New(2, 1)
	ctx := draw.NewContext(buf, style.Default(), caps.Capabilities{}, nil)
	c.Render(ctx) // must not panic
	if got := buf.CellAt(0, 0); !got.IsBlank() {
		t.Errorf("nil render painted %q", got.Rune)
	}
}

type tickingComponent struct {
	Base
	animating bool
}

func (c *tickingComponent) Render(*draw.Context) {}
func (c *tickingComponent) DebugName() string    { return "ticking" }
func (c *tickingComponent) WantsTicks() bool     { return c.animating }

func TestWantsTicks(t *testing.T) {
	plain := Wrap("plain", nil)
	if WantsTicks(plain) {
		t.Error("component without TickAware should not want ticks")
	}

	tc := &tickingComponent{}
	if WantsTicks(tc) {
		t.Error("idle TickAware component should not want ticks")
	}
	tc.animating = true
	if !WantsTicks(tc) {
		t.Error("animating component should want ticks")
	}
}

// Styled cell check keeps Wrap honest about passing the context through
// unchanged.
func TestWrapContextPassthrough(t *testing.T) {
	var seen geom.Size
	c := Wrap("probe", func(ctx *draw.Context) {
		seen = ctx.Size()
		ctx.SetCell(0, 0, cell.New('x', cell.Style{}))
	})

	buf := buffer.New(7, 3)
	c.Render(draw.NewContext(buf, style.Default(), caps.Capabilities{}, nil))
	if !seen.Equals(geom.NewSize(7, 3)) {
		t.Errorf("context size seen = %v, want 7x3", seen)
	}
}
