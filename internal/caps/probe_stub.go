//go:build !unix

package caps

import "time"

// TerminalProber is unavailable off Unix; Probe reports ErrNotTerminal
// so detection falls back to environment evidence.
type TerminalProber struct{}

// Probe always fails on this platform.
func (TerminalProber) Probe(time.Duration) (ProbeResult, error) {
	return ProbeResult{}, ErrNotTerminal
}
