// Package style provides named style tokens (themes) and degrades their
// colors to what the active capability tier can display. Components never
// hardcode colors; they resolve tokens through the render context.
package style

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/termloom/termloom/internal/caps"
	"github.com/termloom/termloom/internal/cell"
)

// Theme maps token names to styles. Themes are owned by the application
// and referenced, never copied, by render contexts.
type Theme struct {
	name   string
	tokens map[string]cell.Style
}

// Token names every theme is expected to carry.
const (
	TokenText      = "text"
	TokenTextDim   = "text.dim"
	TokenAccent    = "accent"
	TokenSuccess   = "success"
	TokenWarning   = "warning"
	TokenError     = "error"
	TokenBorder    = "border"
	TokenTrack     = "track"
	TokenTrackFill = "track.fill"
)

// New creates an empty theme.
func New(name string) *Theme {
	return &Theme{
		name:   name,
		tokens: make(map[string]cell.Style),
	}
}

// Default returns the built-in theme.
func Default() *Theme {
	t := New("default")
	t.Set(TokenText, cell.DefaultStyle())
	t.Set(TokenTextDim, cell.DefaultStyle().Dim())
	t.Set(TokenAccent, cell.NewStyle(cell.RGB(0x61, 0xAF, 0xEF)))
	t.Set(TokenSuccess, cell.NewStyle(cell.RGB(0x98, 0xC3, 0x79)))
	t.Set(TokenWarning, cell.NewStyle(cell.RGB(0xE5, 0xC0, 0x7B)))
	t.Set(TokenError, cell.NewStyle(cell.RGB(0xE0, 0x6C, 0x75)).Bold())
	t.Set(TokenBorder, cell.NewStyle(cell.RGB(0x5C, 0x63, 0x70)))
	t.Set(TokenTrack, cell.NewStyle(cell.RGB(0x3E, 0x44, 0x51)))
	t.Set(TokenTrackFill, cell.NewStyle(cell.RGB(0x98, 0xC3, 0x79)))
	return t
}

// Name returns the theme name.
func (t *Theme) Name() string { return t.name }

// Set assigns a token.
func (t *Theme) Set(token string, s cell.Style) {
	t.tokens[token] = s
}

// Resolve returns the style for a token. Unknown tokens resolve to the
// default style so a missing theme entry degrades visibly but safely.
func (t *Theme) Resolve(token string) cell.Style {
	if s, ok := t.tokens[token]; ok {
		return s
	}
	return cell.DefaultStyle()
}

// Has returns true if the theme defines the token.
func (t *Theme) Has(token string) bool {
	_, ok := t.tokens[token]
	return ok
}

// Adapt returns a copy of the theme with every color degraded to what
// the given tier can display. The original theme is not modified.
func (t *Theme) Adapt(tier caps.Tier) *Theme {
	adapted := New(t.name)
	for token, s := range t.tokens {
		adapted.tokens[token] = cell.Style{
			Foreground: DegradeColor(s.Foreground, tier),
			Background: DegradeColor(s.Background, tier),
			Attributes: s.Attributes,
		}
	}
	return adapted
}

// DegradeColor maps a color onto the palette the tier supports:
// truecolor passes through, 256-color and 16-color tiers snap to the
// perceptually nearest palette entry, and the fallback tier drops color
// entirely.
func DegradeColor(c cell.Color, tier caps.Tier) cell.Color {
	if c.IsDefault() || c.Indexed {
		if tier == caps.TierFallback {
			return cell.ColorDefault
		}
		return c
	}

	switch tier {
	case caps.Tier4, caps.Tier2:
		return c
	case caps.Tier3:
		return nearestIndexed(c, palette256)
	case caps.Tier1:
		return nearestIndexed(c, palette16)
	default:
		return cell.ColorDefault
	}
}

// Blend mixes two true colors in the perceptual Luv space. Amount 0
// returns a, 1 returns b. Indexed and default colors pass through
// untouched since they cannot be interpolated meaningfully.
func Blend(a, b cell.Color, amount float64) cell.Color {
	if a.IsDefault() || b.IsDefault() || a.Indexed || b.Indexed {
		if amount < 0.5 {
			return a
		}
		return b
	}
	if amount <= 0 {
		return a
	}
	if amount >= 1 {
		return b
	}
	ca := toColorful(a)
	cb := toColorful(b)
	mixed := ca.BlendLuv(cb, clamp01(amount)).Clamped()
	r, g, bl := mixed.RGB255()
	return cell.RGB(r, g, bl)
}

// nearestIndexed snaps a true color to the perceptually closest entry
// of the palette using CIE Lab distance.
func nearestIndexed(c cell.Color, palette []paletteEntry) cell.Color {
	target := toColorful(c)
	best := 0
	bestDist := -1.0
	for i, entry := range palette {
		d := target.DistanceLab(entry.color)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = i
		}
	}
	return cell.Indexed(palette[best].index)
}

func toColorful(c cell.Color) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

type paletteEntry struct {
	index uint8
	color colorful.Color
}

// palette16 holds the standard ANSI colors in their common VGA values.
var palette16 = buildPalette16()

// palette256 holds the xterm 256-color palette.
var palette256 = buildPalette256()

func buildPalette16() []paletteEntry {
	rgb := [][3]uint8{
		{0, 0, 0}, {170, 0, 0}, {0, 170, 0}, {170, 85, 0},
		{0, 0, 170}, {170, 0, 170}, {0, 170, 170}, {170, 170, 170},
		{85, 85, 85}, {255, 85, 85}, {85, 255, 85}, {255, 255, 85},
		{85, 85, 255}, {255, 85, 255}, {85, 255, 255}, {255, 255, 255},
	}
	entries := make([]paletteEntry, len(rgb))
	for i, v := range rgb {
		entries[i] = paletteEntry{
			index: uint8(i),
			color: toColorful(cell.RGB(v[0], v[1], v[2])),
		}
	}
	return entries
}

func buildPalette256() []paletteEntry {
	entries := make([]paletteEntry, 0, 256)
	entries = append(entries, buildPalette16()...)

	// 6x6x6 color cube, indices 16-231.
	levels := []uint8{0, 95, 135, 175, 215, 255}
	idx := uint8(16)
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				entries = append(entries, paletteEntry{
					index: idx,
					color: toColorful(cell.RGB(r, g, b)),
				})
				idx++
			}
		}
	}

	// Grayscale ramp, indices 232-255.
	for i := 0; i < 24; i++ {
		v := uint8(8 + i*10)
		entries = append(entries, paletteEntry{
			index: uint8(232 + i),
			color: toColorful(cell.RGB(v, v, v)),
		})
	}
	return entries
}
