// Package caps detects terminal capabilities and selects the output tier
// the renderer should target. Detection combines environment inspection
// with an optional bounded-timeout escape-sequence probe; the result is
// built once, immutable, and passed explicitly to consumers.
package caps

import "fmt"

// GraphicsProtocol identifies an inline-graphics protocol.
type GraphicsProtocol int

const (
	GraphicsNone GraphicsProtocol = iota
	GraphicsSixel
	GraphicsKitty
)

// String returns the protocol name.
func (g GraphicsProtocol) String() string {
	switch g {
	case GraphicsSixel:
		return "sixel"
	case GraphicsKitty:
		return "kitty"
	default:
		return "none"
	}
}

// Capabilities records what the terminal supports. Zero value means a
// bare text sink.
type Capabilities struct {
	// Color support.
	TrueColor bool
	Colors256 bool
	BasicColor bool // at least the 16 ANSI colors

	// UnicodeWidth means the terminal lays out wide and combining
	// characters per Unicode rather than one column per byte.
	UnicodeWidth bool

	// Graphics is the best inline-graphics protocol available.
	Graphics GraphicsProtocol

	// Interactivity.
	Mouse      bool
	Hyperlinks bool

	// SynchronizedOutput means the terminal supports atomic frame
	// updates (mode 2026).
	SynchronizedOutput bool

	// Probed is true when a query round-trip completed; false when the
	// probe was skipped or timed out and only environment evidence was
	// used.
	Probed bool
}

// Tier is a capability bucket driving progressive enhancement.
type Tier int

const (
	TierFallback Tier = iota // text only
	Tier1                    // 16-color, ASCII-safe
	Tier2                    // true color + Unicode, no graphics
	Tier3                    // legacy graphics + 256-color
	Tier4                    // graphics protocol + true color + full interactivity
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case Tier1:
		return "tier1"
	case Tier2:
		return "tier2"
	case Tier3:
		return "tier3"
	case Tier4:
		return "tier4"
	default:
		return "fallback"
	}
}

// ParseTier parses a tier name as it appears in configuration.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "fallback":
		return TierFallback, nil
	case "tier1":
		return Tier1, nil
	case "tier2":
		return Tier2, nil
	case "tier3":
		return Tier3, nil
	case "tier4":
		return Tier4, nil
	default:
		return TierFallback, fmt.Errorf("unknown tier %q", s)
	}
}

// Tier returns the highest tier whose every required feature is present.
// Selection is deterministic for a fixed Capabilities value.
func (c Capabilities) Tier() Tier {
	switch {
	case c.Graphics == GraphicsKitty && c.TrueColor && c.Mouse && c.UnicodeWidth:
		return Tier4
	case c.Graphics != GraphicsNone && c.Colors256:
		return Tier3
	case c.TrueColor && c.UnicodeWidth:
		return Tier2
	case c.BasicColor:
		return Tier1
	default:
		return TierFallback
	}
}

// Satisfies reports whether the capabilities meet the requirements of
// the given tier. Tier() always returns a satisfied tier.
func (c Capabilities) Satisfies(t Tier) bool {
	switch t {
	case TierFallback:
		return true
	case Tier1:
		return c.BasicColor
	case Tier2:
		return c.TrueColor && c.UnicodeWidth
	case Tier3:
		return c.Graphics != GraphicsNone && c.Colors256
	case Tier4:
		return c.Graphics == GraphicsKitty && c.TrueColor && c.Mouse && c.UnicodeWidth
	default:
		return false
	}
}

// Clamp returns the requested tier if the capabilities satisfy it,
// otherwise the highest satisfied tier below it.
func (c Capabilities) Clamp(t Tier) Tier {
	for ; t > TierFallback; t-- {
		if c.Satisfies(t) {
			return t
		}
	}
	return TierFallback
}
