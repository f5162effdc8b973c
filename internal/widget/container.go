package widget

import (
	"github.com/termloom/termloom/internal/component"
	"github.com/termloom/termloom/internal/draw"
	"github.com/termloom/termloom/internal/event"
	"github.com/termloom/termloom/internal/geom"
	"github.com/termloom/termloom/internal/layout"
)

type child struct {
	comp component.Component
	spec layout.Spec
	rect geom.Rect
}

// box is the shared implementation of Row and Column. Children receive
// rectangles relative to the box origin; Render pushes a clip region
// per child so each paints in its own coordinates.
type box struct {
	component.Base
	children   []child
	horizontal bool
}

func (b *box) add(c component.Component, spec layout.Spec) {
	b.children = append(b.children, child{comp: c, spec: spec})
}

// Layout subdivides the assigned bounds among the children.
func (b *box) Layout(bounds geom.Rect) {
	b.Base.Layout(bounds)

	specs := make([]layout.Spec, len(b.children))
	for i, ch := range b.children {
		specs[i] = ch.spec
	}

	local := geom.RectOf(bounds.Size())
	var rects []geom.Rect
	if b.horizontal {
		rects = layout.SplitRow(local, specs)
	} else {
		rects = layout.SplitColumn(local, specs)
	}
	for i := range b.children {
		b.children[i].rect = rects[i]
		b.children[i].comp.Layout(rects[i])
	}
}

// Render paints each child inside its own clipped region.
func (b *box) Render(ctx *draw.Context) {
	for _, ch := range b.children {
		if ch.rect.IsEmpty() {
			continue
		}
		ctx.PushClip(ch.rect)
		ch.comp.Render(ctx)
		ctx.PopClip()
	}
}

// HandleEvent fans the event out to every child and merges the
// resulting invalidations.
func (b *box) HandleEvent(ev event.Event) component.Invalidate {
	result := component.InvalidateNone
	for _, ch := range b.children {
		result = result.Merge(ch.comp.HandleEvent(ev))
	}
	return result
}

// WantsTicks reports whether any child animates.
func (b *box) WantsTicks() bool {
	for _, ch := range b.children {
		if component.WantsTicks(ch.comp) {
			return true
		}
	}
	return false
}

// Deinit releases every child that holds resources.
func (b *box) Deinit() {
	for _, ch := range b.children {
		if d, ok := ch.comp.(component.Deiniter); ok {
			d.Deinit()
		}
	}
}

// Row arranges children side by side.
type Row struct {
	box
}

// NewRow creates an empty row.
func NewRow() *Row {
	return &Row{box{horizontal: true}}
}

// Add appends a child with its sizing spec and returns the row for
// chaining.
func (r *Row) Add(c component.Component, spec layout.Spec) *Row {
	r.add(c, spec)
	return r
}

// DebugName identifies the row in logs.
func (r *Row) DebugName() string {
	return "row"
}

// Column arranges children top to bottom.
type Column struct {
	box
}

// NewColumn creates an empty column.
func NewColumn() *Column {
	return &Column{}
}

// Add appends a child with its sizing spec and returns the column for
// chaining.
func (c *Column) Add(comp component.Component, spec layout.Spec) *Column {
	c.add(comp, spec)
	return c
}

// DebugName identifies the column in logs.
func (c *Column) DebugName() string {
	return "column"
}

// Stack layers children over the full area; later children paint over
// earlier ones.
type Stack struct {
	box
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Add appends a layer and returns the stack for chaining.
func (s *Stack) Add(c component.Component) *Stack {
	s.add(c, layout.Spec{})
	return s
}

// Layout gives every layer the full bounds.
func (s *Stack) Layout(bounds geom.Rect) {
	s.Base.Layout(bounds)
	rects := layout.Stack(geom.RectOf(bounds.Size()), len(s.children))
	for i := range s.children {
		s.children[i].rect = rects[i]
		s.children[i].comp.Layout(rects[i])
	}
}

// DebugName identifies the stack in logs.
func (s *Stack) DebugName() string {
	return "stack"
}
