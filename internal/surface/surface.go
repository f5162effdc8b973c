// Package surface abstracts the output target the renderer flushes
// frames to. The terminal surface drives a real terminal through
// tcell; the memory surface backs tests and headless rendering.
package surface

import (
	"errors"

	"github.com/termloom/termloom/internal/cell"
	"github.com/termloom/termloom/internal/geom"
)

// ErrClosed is returned by operations on a surface after Close.
var ErrClosed = errors.New("surface: closed")

// Surface is an output target for rendered frames. PutCell stages
// content; nothing is visible until Flush. A failed Flush leaves the
// surface in an unknown state and the renderer treats it as fatal.
type Surface interface {
	// Size returns the current surface dimensions.
	Size() geom.Size

	// PutCell stages one cell. Out-of-bounds writes are ignored.
	PutCell(x, y int, c cell.Cell)

	// Flush makes all staged cells visible.
	Flush() error

	// Close releases the surface. The terminal surface restores the
	// terminal state; further operations return ErrClosed.
	Close()
}
