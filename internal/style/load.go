package style

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/termloom/termloom/internal/cell"
)

// ErrEmptyTheme is returned when a theme file defines no tokens.
var ErrEmptyTheme = errors.New("theme defines no tokens")

// themeFile is the on-disk TOML shape of a theme.
type themeFile struct {
	Name   string               `toml:"name"`
	Tokens map[string]tokenSpec `toml:"tokens"`
}

type tokenSpec struct {
	FG        string `toml:"fg"`
	BG        string `toml:"bg"`
	Bold      bool   `toml:"bold"`
	Dim       bool   `toml:"dim"`
	Italic    bool   `toml:"italic"`
	Underline bool   `toml:"underline"`
	Reverse   bool   `toml:"reverse"`
}

// Parse reads a theme from TOML. Token colors are hex strings; an empty
// or missing color means the terminal default.
func Parse(data []byte) (*Theme, error) {
	var file themeFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse theme: %w", err)
	}
	if len(file.Tokens) == 0 {
		return nil, ErrEmptyTheme
	}

	name := file.Name
	if name == "" {
		name = "unnamed"
	}
	t := New(name)
	for token, spec := range file.Tokens {
		s, err := spec.style()
		if err != nil {
			return nil, fmt.Errorf("theme token %q: %w", token, err)
		}
		t.Set(token, s)
	}
	return t, nil
}

// LoadFile reads a theme from a TOML file.
func LoadFile(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme file: %w", err)
	}
	return Parse(data)
}

func (spec tokenSpec) style() (cell.Style, error) {
	s := cell.DefaultStyle()

	if spec.FG != "" {
		fg, err := cell.ParseHex(spec.FG)
		if err != nil {
			return cell.Style{}, err
		}
		s.Foreground = fg
	}
	if spec.BG != "" {
		bg, err := cell.ParseHex(spec.BG)
		if err != nil {
			return cell.Style{}, err
		}
		s.Background = bg
	}

	if spec.Bold {
		s.Attributes = s.Attributes.With(cell.AttrBold)
	}
	if spec.Dim {
		s.Attributes = s.Attributes.With(cell.AttrDim)
	}
	if spec.Italic {
		s.Attributes = s.Attributes.With(cell.AttrItalic)
	}
	if spec.Underline {
		s.Attributes = s.Attributes.With(cell.AttrUnderline)
	}
	if spec.Reverse {
		s.Attributes = s.Attributes.With(cell.AttrReverse)
	}
	return s, nil
}
