package widget

import (
	"fmt"

	"github.com/termloom/termloom/internal/caps"
	"github.com/termloom/termloom/internal/cell"
	"github.com/termloom/termloom/internal/component"
	"github.com/termloom/termloom/internal/draw"
	"github.com/termloom/termloom/internal/geom"
	"github.com/termloom/termloom/internal/style"
)

// Eighth blocks from empty to full; index is the number of eighths.
var partialBlocks = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}

// Progress is a horizontal progress bar. How it paints depends on the
// output tier: sub-cell block glyphs with a color gradient where the
// terminal can show them, plain ASCII fill where it cannot, and a bare
// percentage on text-only terminals.
type Progress struct {
	component.Base
	value float64
}

// NewProgress creates a progress bar at zero.
func NewProgress() *Progress {
	return &Progress{}
}

// SetValue sets the completion fraction, clamped to [0,1]. The caller
// is responsible for scheduling a repaint.
func (p *Progress) SetValue(v float64) {
	switch {
	case v < 0:
		p.value = 0
	case v > 1:
		p.value = 1
	default:
		p.value = v
	}
}

// Value returns the completion fraction.
func (p *Progress) Value() float64 {
	return p.value
}

// Measure wants one row at any width the constraints allow.
func (p *Progress) Measure(c geom.Constraints) geom.Size {
	return c.Clamp(geom.NewSize(c.Max.Width, 1))
}

// Render paints the bar across the full width of the area.
func (p *Progress) Render(ctx *draw.Context) {
	width := ctx.Size().Width
	if width <= 0 {
		return
	}

	tier := ctx.Capabilities().Tier()
	switch {
	case tier >= caps.Tier2:
		p.renderBlocks(ctx, width)
	case tier >= caps.Tier1:
		p.renderASCII(ctx, width)
	default:
		p.renderText(ctx, width)
	}
}

// renderBlocks draws sub-cell eighth blocks with a fill gradient from
// the track-fill color to the accent color.
func (p *Progress) renderBlocks(ctx *draw.Context, width int) {
	track := ctx.Style(style.TokenTrack)
	from := ctx.Style(style.TokenTrackFill).Foreground
	to := ctx.Style(style.TokenAccent).Foreground

	filled := p.value * float64(width)
	full := int(filled)
	eighths := int((filled - float64(full)) * 8)

	for x := 0; x < width; x++ {
		var r rune
		switch {
		case x < full:
			r = partialBlocks[8]
		case x == full && eighths > 0:
			r = partialBlocks[eighths]
		default:
			ctx.SetCell(x, 0, cell.New(' ', track))
			continue
		}

		var t float64
		if width > 1 {
			t = float64(x) / float64(width-1)
		}
		st := track.WithForeground(style.Blend(from, to, t))
		ctx.SetCell(x, 0, cell.New(r, st))
	}
}

// renderASCII draws a '#' fill over a '-' track.
func (p *Progress) renderASCII(ctx *draw.Context, width int) {
	fill := ctx.Style(style.TokenTrackFill)
	track := ctx.Style(style.TokenTrack)
	full := int(p.value * float64(width))

	for x := 0; x < width; x++ {
		if x < full {
			ctx.SetCell(x, 0, cell.New('#', fill))
		} else {
			ctx.SetCell(x, 0, cell.New('-', track))
		}
	}
}

// renderText draws only the percentage, for terminals without color.
func (p *Progress) renderText(ctx *draw.Context, width int) {
	text := fmt.Sprintf("%3d%%", int(p.value*100))
	if len(text) > width {
		text = text[:width]
	}
	ctx.DrawText(0, 0, text, ctx.Style(style.TokenText))
}

// DebugName identifies the bar in logs.
func (p *Progress) DebugName() string {
	return "progress"
}
