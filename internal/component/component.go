// Package component defines the contract between the renderer and the
// things it draws. A component measures itself under constraints, is
// assigned a rectangle, paints into a draw context, and reacts to
// events by reporting how much of the frame pipeline must rerun.
package component

import (
	"github.com/termloom/termloom/internal/draw"
	"github.com/termloom/termloom/internal/event"
	"github.com/termloom/termloom/internal/geom"
)

// Invalidate reports how much work an event made necessary. Levels are
// ordered: a layout invalidation implies a repaint.
type Invalidate int

const (
	// InvalidateNone means the event changed nothing visible.
	InvalidateNone Invalidate = iota
	// InvalidatePaint means content changed within the current bounds.
	InvalidatePaint
	// InvalidateLayout means geometry changed; the tree must be laid
	// out again before painting.
	InvalidateLayout
)

// Merge combines two invalidation levels, keeping the stronger one.
func (i Invalidate) Merge(other Invalidate) Invalidate {
	if other > i {
		return other
	}
	return i
}

// String returns the level name for logs.
func (i Invalidate) String() string {
	switch i {
	case InvalidateNone:
		return "none"
	case InvalidatePaint:
		return "paint"
	case InvalidateLayout:
		return "layout"
	default:
		return "unknown"
	}
}

// Component is anything the renderer can lay out and paint.
//
// All methods are called from the render loop goroutine; implementations
// need no locking unless they share state with other goroutines.
type Component interface {
	// Measure reports the size the component wants under the given
	// constraints. The result must satisfy the constraints.
	Measure(c geom.Constraints) geom.Size

	// Layout assigns the component its rectangle in parent coordinates.
	// Containers subdivide the rectangle among their children here.
	Layout(bounds geom.Rect)

	// Render paints the component. The context is already clipped and
	// translated to the component's bounds, so painting starts at (0,0).
	Render(ctx *draw.Context)

	// HandleEvent reacts to an event and reports what it invalidated.
	HandleEvent(ev event.Event) Invalidate

	// DebugName identifies the component in logs.
	DebugName() string
}

// Deiniter is implemented by components that hold resources needing
// release when the renderer shuts down.
type Deiniter interface {
	Deinit()
}

// TickAware is implemented by components that animate. The renderer
// only schedules tick events while at least one attached component
// wants them.
type TickAware interface {
	WantsTicks() bool
}

// WantsTicks reports whether the component currently asks for tick
// events. Components that do not implement TickAware never do.
func WantsTicks(c Component) bool {
	t, ok := c.(TickAware)
	return ok && t.WantsTicks()
}

// Base provides default behavior for leaf components: it records the
// assigned bounds and ignores events. Embed it and override what the
// component actually needs.
type Base struct {
	bounds geom.Rect
}

// Measure accepts the largest size the constraints admit.
func (b *Base) Measure(c geom.Constraints) geom.Size {
	return c.Clamp(c.Max)
}

// Layout records the assigned rectangle.
func (b *Base) Layout(bounds geom.Rect) {
	b.bounds = bounds
}

// Bounds returns the rectangle assigned by the last Layout call.
func (b *Base) Bounds() geom.Rect {
	return b.bounds
}

// HandleEvent ignores the event.
func (b *Base) HandleEvent(event.Event) Invalidate {
	return InvalidateNone
}

type funcComponent struct {
	Base
	name   string
	render func(ctx *draw.Context)
}

// Wrap turns a bare render function into a component, for tests and
// static content.
func Wrap(name string, render func(ctx *draw.Context)) Component {
	return &funcComponent{name: name, render: render}
}

func (f *funcComponent) Render(ctx *draw.Context) {
	if f.render != nil {
		f.render(ctx)
	}
}

func (f *funcComponent) DebugName() string {
	return f.name
}
