package cell

import (
	"fmt"
	"strconv"
	"strings"
)

// Color represents a terminal color: the terminal default, a palette
// index, or a 24-bit RGB value.
type Color struct {
	R, G, B uint8
	// Indexed means R holds a palette index (0-255); G and B are ignored.
	Indexed bool
	// Default means the terminal's own default color.
	Default bool
}

// ColorDefault is the terminal's default color.
var ColorDefault = Color{Default: true}

// Basic palette colors.
var (
	ColorBlack   = RGB(0, 0, 0)
	ColorWhite   = RGB(255, 255, 255)
	ColorRed     = RGB(255, 0, 0)
	ColorGreen   = RGB(0, 255, 0)
	ColorBlue    = RGB(0, 0, 255)
	ColorYellow  = RGB(255, 255, 0)
	ColorCyan    = RGB(0, 255, 255)
	ColorMagenta = RGB(255, 0, 255)
	ColorGray    = RGB(128, 128, 128)
)

// RGB creates a true color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Indexed creates a palette color.
func Indexed(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ParseHex creates a color from a "#RGB" or "#RRGGBB" hex string.
func ParseHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(hex, "#")

	var parts [3]string
	switch len(hex) {
	case 3:
		for i := 0; i < 3; i++ {
			parts[i] = string(hex[i]) + string(hex[i])
		}
	case 6:
		for i := 0; i < 3; i++ {
			parts[i] = hex[i*2 : i*2+2]
		}
	default:
		return Color{}, fmt.Errorf("invalid hex color length: %q", hex)
	}

	var vals [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		vals[i] = uint8(v)
	}
	return RGB(vals[0], vals[1], vals[2]), nil
}

// IsDefault returns true if this is the terminal default color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Equals returns true if two colors are equal.
func (c Color) Equals(other Color) bool {
	if c.Default || other.Default {
		return c.Default == other.Default
	}
	if c.Indexed != other.Indexed {
		return false
	}
	if c.Indexed {
		return c.R == other.R
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// Hex returns the "#RRGGBB" form of a true color, or "" for default and
// indexed colors.
func (c Color) Hex() string {
	if c.Default || c.Indexed {
		return ""
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// String returns a diagnostic representation of the color.
func (c Color) String() string {
	switch {
	case c.Default:
		return "default"
	case c.Indexed:
		return fmt.Sprintf("idx(%d)", c.R)
	default:
		return c.Hex()
	}
}
