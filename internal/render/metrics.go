package render

import (
	"sync/atomic"
	"time"
)

// Metrics tracks frame loop performance. All counters are atomic so a
// monitoring goroutine can snapshot them while the loop runs.
type Metrics struct {
	frames        atomic.Uint64
	framesSkipped atomic.Uint64
	frameTotalNs  atomic.Int64
	frameMaxNs    atomic.Int64
	lastFrameNs   atomic.Int64

	events  atomic.Uint64
	resizes atomic.Uint64

	flushes      atomic.Uint64
	flushTotalNs atomic.Int64
	flushMaxNs   atomic.Int64
	lastFlushNs  atomic.Int64
	spansFlushed atomic.Uint64
	cellsFlushed atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordFrame records one completed frame.
func (m *Metrics) RecordFrame(d time.Duration) {
	ns := d.Nanoseconds()
	m.frames.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)
	storeMax(&m.frameMaxNs, ns)
}

// RecordSkippedFrame records an animation frame dropped under
// backpressure.
func (m *Metrics) RecordSkippedFrame() {
	m.framesSkipped.Add(1)
}

// RecordEvent records one dispatched event.
func (m *Metrics) RecordEvent() {
	m.events.Add(1)
}

// RecordResize records one surface resize.
func (m *Metrics) RecordResize() {
	m.resizes.Add(1)
}

// RecordFlush records one successful flush and the damage it carried.
func (m *Metrics) RecordFlush(d time.Duration, spans, cells int) {
	ns := d.Nanoseconds()
	m.flushes.Add(1)
	m.flushTotalNs.Add(ns)
	m.lastFlushNs.Store(ns)
	storeMax(&m.flushMaxNs, ns)
	m.spansFlushed.Add(uint64(spans))
	m.cellsFlushed.Add(uint64(cells))
}

func storeMax(v *atomic.Int64, ns int64) {
	for {
		old := v.Load()
		if ns <= old {
			return
		}
		if v.CompareAndSwap(old, ns) {
			return
		}
	}
}

// Snapshot returns a point-in-time view of the metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	frames := m.frames.Load()
	flushes := m.flushes.Load()

	var avgFrameNs, avgFlushNs int64
	if frames > 0 {
		avgFrameNs = m.frameTotalNs.Load() / int64(frames)
	}
	if flushes > 0 {
		avgFlushNs = m.flushTotalNs.Load() / int64(flushes)
	}

	return MetricsSnapshot{
		Uptime:        time.Since(m.startTime),
		Frames:        frames,
		FramesSkipped: m.framesSkipped.Load(),
		AvgFrameNs:    avgFrameNs,
		MaxFrameNs:    m.frameMaxNs.Load(),
		LastFrameNs:   m.lastFrameNs.Load(),
		Events:        m.events.Load(),
		Resizes:       m.resizes.Load(),
		Flushes:       flushes,
		AvgFlushNs:    avgFlushNs,
		MaxFlushNs:    m.flushMaxNs.Load(),
		LastFlushNs:   m.lastFlushNs.Load(),
		SpansFlushed:  m.spansFlushed.Load(),
		CellsFlushed:  m.cellsFlushed.Load(),
	}
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.frames.Store(0)
	m.framesSkipped.Store(0)
	m.frameTotalNs.Store(0)
	m.frameMaxNs.Store(0)
	m.lastFrameNs.Store(0)
	m.events.Store(0)
	m.resizes.Store(0)
	m.flushes.Store(0)
	m.flushTotalNs.Store(0)
	m.flushMaxNs.Store(0)
	m.lastFlushNs.Store(0)
	m.spansFlushed.Store(0)
	m.cellsFlushed.Store(0)
	m.startTime = time.Now()
}

// MetricsSnapshot is a point-in-time view of frame loop metrics.
type MetricsSnapshot struct {
	Uptime        time.Duration
	Frames        uint64
	FramesSkipped uint64
	AvgFrameNs    int64
	MaxFrameNs    int64
	LastFrameNs   int64
	Events        uint64
	Resizes       uint64
	Flushes       uint64
	AvgFlushNs    int64
	MaxFlushNs    int64
	LastFlushNs   int64
	SpansFlushed  uint64
	CellsFlushed  uint64
}
