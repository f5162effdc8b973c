package render

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/termloom/termloom/internal/caps"
	"github.com/termloom/termloom/internal/cell"
	"github.com/termloom/termloom/internal/component"
	"github.com/termloom/termloom/internal/draw"
	"github.com/termloom/termloom/internal/event"
	"github.com/termloom/termloom/internal/geom"
	"github.com/termloom/termloom/internal/surface"
)

func testCaps() caps.Capabilities {
	return caps.Capabilities{
		TrueColor:    true,
		Colors256:    true,
		BasicColor:   true,
		UnicodeWidth: true,
	}
}

// counter repaints with an incremented value on every key event.
type counter struct {
	component.Base
	n        int
	deinited bool
}

func (c *counter) Render(ctx *draw.Context) {
	ctx.DrawText(0, 0, fmt.Sprintf("count %d", c.n), cell.Style{})
}

func (c *counter) HandleEvent(ev event.Event) component.Invalidate {
	if ev.Kind == event.KindKey {
		c.n++
		return component.InvalidatePaint
	}
	return component.InvalidateNone
}

func (c *counter) DebugName() string { return "counter" }
func (c *counter) Deinit()           { c.deinited = true }

func newTestRenderer(w, h int) (*Renderer, *surface.Memory) {
	mem := surface.NewMemory(w, h)
	r := New(mem, testCaps())
	return r, mem
}

func TestFirstFramePaints(t *testing.T) {
	r, mem := newTestRenderer(20, 3)
	r.Attach(component.Wrap("hello", func(ctx *draw.Context) {
		ctx.DrawText(0, 0, "hello", cell.Style{})
	}))

	if err := r.RunOnce(); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if mem.FlushCount() != 1 {
		t.Errorf("FlushCount = %d, want 1", mem.FlushCount())
	}
	if !strings.Contains(mem.Snapshot(), "hello") {
		t.Errorf("snapshot missing text:\n%s", mem.Snapshot())
	}
	if r.Phase() != PhaseIdle {
		t.Errorf("Phase = %v, want idle", r.Phase())
	}
}

func TestIdleFrameDoesNotFlush(t *testing.T) {
	r, mem := newTestRenderer(20, 3)
	r.Attach(&counter{})

	if err := r.RunOnce(); err != nil {
		t.Fatal(err)
	}
	if err := r.RunOnce(); err != nil {
		t.Fatal(err)
	}
	if mem.FlushCount() != 1 {
		t.Errorf("FlushCount = %d, want 1 (no damage, no flush)", mem.FlushCount())
	}
}

func TestKeyEventRepaints(t *testing.T) {
	r, mem := newTestRenderer(20, 3)
	r.Attach(&counter{})

	if err := r.RunOnce(); err != nil {
		t.Fatal(err)
	}
	if err := r.Step(event.KeyEvent(event.KeyRune, 'x', 0)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(mem.Snapshot(), "count 1") {
		t.Errorf("snapshot:\n%s", mem.Snapshot())
	}
	if mem.FlushCount() != 2 {
		t.Errorf("FlushCount = %d, want 2", mem.FlushCount())
	}
}

func TestUnhandledEventDoesNotFlush(t *testing.T) {
	r, mem := newTestRenderer(20, 3)
	r.Attach(&counter{})

	if err := r.RunOnce(); err != nil {
		t.Fatal(err)
	}
	if err := r.Step(event.Event{Kind: event.KindFocus}); err != nil {
		t.Fatal(err)
	}
	if mem.FlushCount() != 1 {
		t.Errorf("FlushCount = %d, want 1", mem.FlushCount())
	}
}

func TestIncrementalFlushTouchesOnlyDamage(t *testing.T) {
	r, _ := newTestRenderer(20, 3)
	c := &counter{}
	r.Attach(c)

	if err := r.RunOnce(); err != nil {
		t.Fatal(err)
	}
	before := r.Metrics().Snapshot().CellsFlushed

	if err := r.Step(event.KeyEvent(event.KeyRune, 'x', 0)); err != nil {
		t.Fatal(err)
	}
	delta := r.Metrics().Snapshot().CellsFlushed - before
	if delta == 0 || delta > 8 {
		t.Errorf("second flush wrote %d cells, want a small damage region", delta)
	}
}

func TestResizeReallocatesAndRepaints(t *testing.T) {
	r, mem := newTestRenderer(20, 3)
	r.Attach(&counter{})
	if err := r.RunOnce(); err != nil {
		t.Fatal(err)
	}

	mem.SetSize(12, 2)
	// The event carries dimensions that no longer match the surface;
	// the layout phase must trust the surface, not the event.
	if err := r.Step(event.ResizeEvent(500, 500)); err != nil {
		t.Fatal(err)
	}

	if !r.back.Size().Equals(geom.NewSize(12, 2)) {
		t.Errorf("back buffer = %v, want 12x2", r.back.Size())
	}
	if !r.front.Size().Equals(geom.NewSize(12, 2)) {
		t.Errorf("front buffer = %v, want 12x2", r.front.Size())
	}
	if !strings.Contains(mem.Snapshot(), "count 0") {
		t.Errorf("snapshot after resize:\n%s", mem.Snapshot())
	}
	if got := r.Metrics().Snapshot().Resizes; got != 1 {
		t.Errorf("Resizes = %d, want 1", got)
	}
}

func TestZeroSizeSurfaceKeepsDamage(t *testing.T) {
	mem := surface.NewMemory(0, 0)
	r := New(mem, testCaps())
	r.Attach(&counter{})

	if err := r.RunOnce(); err != nil {
		t.Fatal(err)
	}
	if mem.FlushCount() != 0 {
		t.Error("zero-size surface should not be flushed")
	}

	mem.SetSize(20, 2)
	if err := r.RunOnce(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(mem.Snapshot(), "count 0") {
		t.Errorf("damage should survive until the surface has area:\n%s", mem.Snapshot())
	}
}

func TestWriteFailureIsFatal(t *testing.T) {
	r, mem := newTestRenderer(20, 3)
	r.Attach(&counter{})

	boom := errors.New("boom")
	mem.FailNextFlush(boom)
	err := r.RunOnce()
	if !errors.Is(err, ErrWriteFailure) {
		t.Fatalf("err = %v, want ErrWriteFailure", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, should wrap the surface error", err)
	}
	if err := mem.Flush(); !errors.Is(err, surface.ErrClosed) {
		t.Errorf("surface should be released after a write failure, Flush = %v", err)
	}
}

func TestStepWithoutRoot(t *testing.T) {
	r, _ := newTestRenderer(10, 2)
	if err := r.Step(event.KeyEvent(event.KeyRune, 'x', 0)); !errors.Is(err, ErrNoRoot) {
		t.Errorf("err = %v, want ErrNoRoot", err)
	}
	if err := r.RunOnce(); !errors.Is(err, ErrNoRoot) {
		t.Errorf("err = %v, want ErrNoRoot", err)
	}
}

func TestTierOverrideClamped(t *testing.T) {
	mem := surface.NewMemory(10, 2)
	r := New(mem, testCaps(), WithTierOverride(caps.Tier4))
	// No graphics protocol: tier4 is out of reach.
	if r.Tier() != caps.Tier2 {
		t.Errorf("Tier = %v, want tier2", r.Tier())
	}

	r = New(mem, testCaps(), WithTierOverride(caps.Tier1))
	if r.Tier() != caps.Tier1 {
		t.Errorf("Tier = %v, want tier1", r.Tier())
	}
}

func TestRunShutdownEvent(t *testing.T) {
	r, mem := newTestRenderer(20, 3)
	c := &counter{}
	r.Attach(c)

	src := event.NewChanSource(8)
	if err := src.Post(event.KeyEvent(event.KeyRune, 'x', 0)); err != nil {
		t.Fatal(err)
	}
	if err := src.Post(event.ShutdownEvent()); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- r.Run(src) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after shutdown event")
	}

	if !c.deinited {
		t.Error("root should be deinitialized on shutdown")
	}
	if !strings.Contains(mem.Snapshot(), "count 1") {
		t.Errorf("event before shutdown should have rendered:\n%s", mem.Snapshot())
	}
	select {
	case <-r.stop:
	default:
		t.Error("stop should be closed when Run returns, releasing the event pump")
	}
}

func TestRunStopsOnShutdownCall(t *testing.T) {
	r, _ := newTestRenderer(20, 3)
	r.Attach(&counter{})

	src := event.NewChanSource(1)
	done := make(chan error, 1)
	go func() { done <- r.Run(src) }()

	r.Shutdown()
	r.Shutdown() // idempotent

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}

func TestFlushBackpressure(t *testing.T) {
	r, _ := newTestRenderer(10, 2)
	r.flushWarn = 10 * time.Millisecond

	r.noteFlushLatency(50 * time.Millisecond)
	if r.skipTicks != 1 {
		t.Errorf("skipTicks = %d, want 1", r.skipTicks)
	}
	r.noteFlushLatency(50 * time.Millisecond)
	if r.skipTicks != 2 {
		t.Errorf("skipTicks = %d, want 2", r.skipTicks)
	}
	for i := 0; i < 20; i++ {
		r.noteFlushLatency(50 * time.Millisecond)
	}
	if r.skipTicks != maxTickSkip {
		t.Errorf("skipTicks = %d, want capped at %d", r.skipTicks, maxTickSkip)
	}

	r.noteFlushLatency(time.Millisecond)
	if r.skipTicks != 0 {
		t.Errorf("skipTicks = %d, want reset after a fast flush", r.skipTicks)
	}
}

func TestCoalescedFlushCoversDamage(t *testing.T) {
	mem := surface.NewMemory(20, 3)
	r := New(mem, testCaps(), WithCoalesceGap(2))
	r.Attach(&counter{})

	if err := r.RunOnce(); err != nil {
		t.Fatal(err)
	}
	if err := r.Step(event.KeyEvent(event.KeyRune, 'x', 0)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(mem.Snapshot(), "count 1") {
		t.Errorf("snapshot:\n%s", mem.Snapshot())
	}
}

func TestPhaseString(t *testing.T) {
	names := map[Phase]string{
		PhaseIdle:   "idle",
		PhaseEvent:  "event",
		PhaseLayout: "layout",
		PhasePaint:  "paint",
		PhaseDiff:   "diff",
		PhaseFlush:  "flush",
	}
	for p, want := range names {
		if p.String() != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, p.String(), want)
		}
	}
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordFrame(10 * time.Millisecond)
	m.RecordFrame(20 * time.Millisecond)
	m.RecordFlush(5*time.Millisecond, 3, 40)
	m.RecordSkippedFrame()
	m.RecordEvent()

	s := m.Snapshot()
	if s.Frames != 2 || s.FramesSkipped != 1 || s.Events != 1 {
		t.Errorf("snapshot = %+v", s)
	}
	if s.AvgFrameNs != (15 * time.Millisecond).Nanoseconds() {
		t.Errorf("AvgFrameNs = %d", s.AvgFrameNs)
	}
	if s.MaxFrameNs != (20 * time.Millisecond).Nanoseconds() {
		t.Errorf("MaxFrameNs = %d", s.MaxFrameNs)
	}
	if s.SpansFlushed != 3 || s.CellsFlushed != 40 {
		t.Errorf("flush counters = %+v", s)
	}

	m.Reset()
	if m.Snapshot().Frames != 0 {
		t.Error("Reset should clear counters")
	}
}
