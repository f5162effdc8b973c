package caps

import (
	"errors"
	"time"
)

// Sentinel errors for capability probing.
var (
	// ErrProbeTimeout means the terminal sent no response within the
	// bound. Recovered by falling back to environment evidence.
	ErrProbeTimeout = errors.New("capability probe timed out")

	// ErrNotTerminal means the process is not attached to a terminal
	// that can answer queries.
	ErrNotTerminal = errors.New("not attached to a terminal")
)

// ProbeResult holds the evidence gathered from a query round-trip.
type ProbeResult struct {
	// DeviceAttributes is the raw DA1 response, if any.
	DeviceAttributes string

	// Kitty means the terminal answered the kitty graphics query.
	Kitty bool

	// Sixel means DA1 advertised sixel support.
	Sixel bool

	// SynchronizedOutput means DECRQM reported mode 2026 available.
	SynchronizedOutput bool
}

// Prober performs the escape-sequence query round-trip against the
// controlling terminal. Implementations must honor the timeout: Probe
// never blocks indefinitely and never panics.
type Prober interface {
	Probe(timeout time.Duration) (ProbeResult, error)
}

// StaticProber returns a fixed result, for tests and forced
// configurations.
type StaticProber struct {
	Result ProbeResult
	Err    error
}

// Probe returns the configured result or error.
func (p StaticProber) Probe(time.Duration) (ProbeResult, error) {
	return p.Result, p.Err
}

// TimeoutProber simulates a terminal that never answers: it waits out
// the full bound, then reports ErrProbeTimeout. Used to test that
// detection falls back instead of hanging.
type TimeoutProber struct{}

// Probe sleeps for the timeout and fails.
func (TimeoutProber) Probe(timeout time.Duration) (ProbeResult, error) {
	time.Sleep(timeout)
	return ProbeResult{}, ErrProbeTimeout
}
