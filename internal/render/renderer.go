// Package render runs the frame loop: take an event, lay out the
// component tree, paint it into the back buffer, diff against the
// front buffer, and flush the damage to the surface. All component
// code runs on the loop goroutine; the loop has exactly one suspension
// point, waiting for the next event or animation tick.
package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/termloom/termloom/internal/buffer"
	"github.com/termloom/termloom/internal/caps"
	"github.com/termloom/termloom/internal/component"
	"github.com/termloom/termloom/internal/diff"
	"github.com/termloom/termloom/internal/draw"
	"github.com/termloom/termloom/internal/event"
	"github.com/termloom/termloom/internal/geom"
	"github.com/termloom/termloom/internal/logging"
	"github.com/termloom/termloom/internal/style"
	"github.com/termloom/termloom/internal/surface"
)

// Phase identifies where in the frame pipeline the renderer is. The
// loop always returns to PhaseIdle between frames.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseEvent
	PhaseLayout
	PhasePaint
	PhaseDiff
	PhaseFlush
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEvent:
		return "event"
	case PhaseLayout:
		return "layout"
	case PhasePaint:
		return "paint"
	case PhaseDiff:
		return "diff"
	case PhaseFlush:
		return "flush"
	default:
		return "unknown"
	}
}

// maxTickSkip caps how many animation frames backpressure can drop in
// a row; input events are never dropped.
const maxTickSkip = 32

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(r *Renderer) { r.log = log }
}

// WithTheme sets the theme. It is adapted to the output tier before
// use.
func WithTheme(t *style.Theme) Option {
	return func(r *Renderer) { r.baseTheme = t }
}

// WithTickInterval sets the animation tick period.
func WithTickInterval(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.tickEvery = d
		}
	}
}

// WithFlushWarn sets the flush latency above which animation frames
// are skipped.
func WithFlushWarn(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.flushWarn = d
		}
	}
}

// WithCoalesceGap enables rect coalescing of damage spans with the
// given merge distance. Negative flushes exact spans.
func WithCoalesceGap(gap int) Option {
	return func(r *Renderer) { r.coalesceGap = gap }
}

// WithTierOverride forces the output tier, capped at what the
// capabilities actually support.
func WithTierOverride(t caps.Tier) Option {
	return func(r *Renderer) {
		r.tier = r.caps.Clamp(t)
	}
}

// Renderer owns the frame loop and the front and back buffers.
//
// All methods except Shutdown and Metrics must be called from a single
// goroutine; Run occupies that goroutine until shutdown or failure.
type Renderer struct {
	surf      surface.Surface
	caps      caps.Capabilities
	tier      caps.Tier
	baseTheme *style.Theme
	theme     *style.Theme
	log       *logging.Logger
	metrics   *Metrics

	root  component.Component
	front *buffer.Buffer
	back  *buffer.Buffer

	phase       Phase
	pending     component.Invalidate
	forceFull   bool
	tickEvery   time.Duration
	flushWarn   time.Duration
	coalesceGap int
	skipTicks   int
	frameSeq    uint64

	stop    chan struct{}
	running bool
}

// New creates a renderer over the given surface. The theme is adapted
// to the tier the capabilities select, so components always receive
// colors the terminal can show.
func New(surf surface.Surface, capabilities caps.Capabilities, opts ...Option) *Renderer {
	size := surf.Size()
	r := &Renderer{
		surf:        surf,
		caps:        capabilities,
		tier:        capabilities.Tier(),
		log:         logging.Discard(),
		metrics:     NewMetrics(),
		front:       buffer.New(size.Width, size.Height),
		back:        buffer.New(size.Width, size.Height),
		phase:       PhaseIdle,
		tickEvery:   33 * time.Millisecond,
		flushWarn:   50 * time.Millisecond,
		coalesceGap: -1,
		stop:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithComponent("render")
	if r.baseTheme == nil {
		r.baseTheme = style.Default()
	}
	r.theme = r.baseTheme.Adapt(r.tier)
	r.log.Info("renderer created size=%s tier=%s", size, r.tier)
	return r
}

// Tier returns the output tier in effect.
func (r *Renderer) Tier() caps.Tier {
	return r.tier
}

// Phase returns the current pipeline phase.
func (r *Renderer) Phase() Phase {
	return r.phase
}

// Metrics returns the renderer's metrics tracker.
func (r *Renderer) Metrics() *Metrics {
	return r.metrics
}

// Attach sets the root component and schedules a full frame.
func (r *Renderer) Attach(root component.Component) {
	r.root = root
	r.pending = component.InvalidateLayout
	r.forceFull = true
	if root != nil {
		r.log.Debug("attached root %s", root.DebugName())
	}
}

// Step dispatches one event and renders the resulting frame. It is the
// deterministic single-step form of the loop body; tests and headless
// callers drive the renderer with it.
func (r *Renderer) Step(ev event.Event) error {
	if r.root == nil {
		return ErrNoRoot
	}
	r.dispatch(ev)
	return r.RunOnce()
}

// RunOnce renders one frame if anything is invalid. It never blocks.
func (r *Renderer) RunOnce() error {
	if r.root == nil {
		return ErrNoRoot
	}
	return r.frame()
}

// Run pumps events from the source and renders until the source
// closes, Shutdown is called, a shutdown event arrives, or a flush
// fails. Components are deinitialized on the way out.
func (r *Renderer) Run(src event.Source) error {
	if r.root == nil {
		return ErrNoRoot
	}
	if r.running {
		return ErrAlreadyRunning
	}
	r.running = true
	defer func() {
		// Whatever ended the loop, release the pump goroutine blocked
		// in src.Next before handing control back.
		r.Shutdown()
		r.running = false
		r.deinit()
	}()

	// First frame before waiting for input.
	if err := r.frame(); err != nil {
		return err
	}

	events := make(chan event.Event)
	pumpDone := make(chan error, 1)
	go func() {
		for {
			ev, err := src.Next(r.stop)
			if err != nil {
				pumpDone <- err
				return
			}
			select {
			case events <- ev:
			case <-r.stop:
				return
			}
		}
	}()

	var ticker *time.Ticker
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		var tickC <-chan time.Time
		if component.WantsTicks(r.root) {
			if ticker == nil {
				ticker = time.NewTicker(r.tickEvery)
			}
			tickC = ticker.C
		} else if ticker != nil {
			ticker.Stop()
			ticker = nil
		}

		r.phase = PhaseIdle
		select {
		case <-r.stop:
			return nil

		case err := <-pumpDone:
			if errors.Is(err, event.ErrSourceClosed) {
				r.log.Info("event source closed")
				return nil
			}
			return fmt.Errorf("render: event source: %w", err)

		case now := <-tickC:
			if r.skipTicks > 0 {
				r.skipTicks--
				r.metrics.RecordSkippedFrame()
				continue
			}
			r.dispatch(event.TickEvent(now))

		case ev := <-events:
			if ev.Kind == event.KindShutdown {
				r.log.Info("shutdown requested")
				return nil
			}
			r.dispatch(ev)
		}

		if err := r.frame(); err != nil {
			return err
		}
	}
}

// Shutdown asks the loop to exit. Safe to call from any goroutine and
// more than once.
func (r *Renderer) Shutdown() {
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
}

func (r *Renderer) deinit() {
	if d, ok := r.root.(component.Deiniter); ok {
		d.Deinit()
	}
}

// dispatch routes one event and accumulates the invalidation it
// caused.
func (r *Renderer) dispatch(ev event.Event) {
	r.phase = PhaseEvent
	r.metrics.RecordEvent()

	if ev.Kind == event.KindResize {
		// The event's dimensions may already be stale; the layout
		// phase reads the authoritative size from the surface.
		r.metrics.RecordResize()
		r.pending = component.InvalidateLayout
		r.forceFull = true
	}

	r.pending = r.pending.Merge(r.root.HandleEvent(ev))
}

// frame runs the layout, paint, diff, and flush phases for the
// accumulated damage, then returns the renderer to idle.
func (r *Renderer) frame() error {
	if r.pending == component.InvalidateNone && !r.forceFull {
		r.phase = PhaseIdle
		return nil
	}

	start := time.Now()
	size := r.surf.Size()
	if size.IsEmpty() {
		// Nothing to paint; keep the damage for when the surface has
		// area again.
		r.phase = PhaseIdle
		return nil
	}

	r.phase = PhaseLayout
	if r.back.Resize(size.Width, size.Height) {
		r.front.Resize(size.Width, size.Height)
		r.forceFull = true
		r.log.Debug("buffers resized to %s", size)
	}
	if r.pending >= component.InvalidateLayout || r.forceFull {
		r.root.Measure(geom.Tight(size))
		r.root.Layout(geom.RectOf(size))
	}

	r.phase = PhasePaint
	r.back.Clear()
	ctx := draw.NewContext(r.back, r.theme, r.caps, r.log)
	r.root.Render(ctx)
	if ctx.Depth() != 0 {
		r.log.Warn("%s left %d clip region(s) unbalanced", r.root.DebugName(), ctx.Depth())
	}

	r.phase = PhaseDiff
	var spans []diff.Span
	if r.forceFull {
		spans = diff.FullDamage(size)
		r.forceFull = false
	} else {
		var err error
		spans, err = diff.Diff(r.front, r.back)
		if err != nil {
			// The surface changed size mid-frame; repaint everything.
			r.log.Warn("diff failed, repainting whole frame: %v", err)
			spans = diff.FullDamage(size)
		}
	}

	if len(spans) > 0 {
		r.phase = PhaseFlush
		if err := r.flush(spans); err != nil {
			return err
		}
	}

	r.front.CopyFrom(r.back)
	r.pending = component.InvalidateNone
	r.phase = PhaseIdle

	r.frameSeq++
	elapsed := time.Since(start)
	r.metrics.RecordFrame(elapsed)
	r.log.Debug("frame %d done spans=%d took=%s", r.frameSeq, len(spans), elapsed)
	return nil
}

// flush applies the damage to the surface and commits it. Continuation
// cells are skipped: their lead cell re-emits them.
func (r *Renderer) flush(spans []diff.Span) error {
	cells := 0
	regions := len(spans)

	if r.coalesceGap >= 0 {
		rects := diff.CoalesceRects(spans, r.coalesceGap)
		regions = len(rects)
		for _, rect := range rects {
			for y := rect.Y; y < rect.Bottom(); y++ {
				for x := rect.X; x < rect.Right(); x++ {
					cells += r.putCell(x, y)
				}
			}
		}
	} else {
		for _, s := range spans {
			for x := s.X0; x < s.X1; x++ {
				cells += r.putCell(x, s.Row)
			}
		}
	}

	flushStart := time.Now()
	if err := r.surf.Flush(); err != nil {
		// The surface state is unknown; release it so terminal modes
		// are restored before the error reaches the caller.
		r.surf.Close()
		return fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	latency := time.Since(flushStart)
	r.metrics.RecordFlush(latency, regions, cells)
	r.noteFlushLatency(latency)
	return nil
}

func (r *Renderer) putCell(x, y int) int {
	c := r.back.CellAt(x, y)
	if c.IsContinuation() {
		return 0
	}
	r.surf.PutCell(x, y, c)
	if c.Width > 1 {
		return c.Width
	}
	return 1
}

// noteFlushLatency grows the animation skip count geometrically while
// flushes run slow and resets it once they recover.
func (r *Renderer) noteFlushLatency(d time.Duration) {
	if d <= r.flushWarn {
		r.skipTicks = 0
		return
	}
	if r.skipTicks == 0 {
		r.skipTicks = 1
	} else {
		r.skipTicks *= 2
	}
	if r.skipTicks > maxTickSkip {
		r.skipTicks = maxTickSkip
	}
	r.log.Warn("slow flush %s, skipping next %d animation frame(s)", d, r.skipTicks)
}
