package surface

import (
	"github.com/termloom/termloom/internal/buffer"
	"github.com/termloom/termloom/internal/cell"
	"github.com/termloom/termloom/internal/geom"
)

// Memory is an in-memory surface for tests and headless rendering.
// Staged writes become visible on Flush, mirroring the terminal
// surface's two-phase behavior, so tests can assert on exactly what a
// flush would have put on screen.
//
// Memory is not safe for concurrent use.
type Memory struct {
	staged  *buffer.Buffer
	shown   *buffer.Buffer
	flushes int
	failErr error
	closed  bool
}

// NewMemory creates a memory surface of the given dimensions.
func NewMemory(width, height int) *Memory {
	return &Memory{
		staged: buffer.New(width, height),
		shown:  buffer.New(width, height),
	}
}

// Size returns the surface dimensions.
func (m *Memory) Size() geom.Size {
	return m.staged.Size()
}

// PutCell stages one cell.
func (m *Memory) PutCell(x, y int, c cell.Cell) {
	if m.closed {
		return
	}
	m.staged.PutCell(x, y, c)
}

// Flush makes staged cells visible. When a failure has been injected
// with FailNextFlush, that error is returned instead and the visible
// content is left unchanged.
func (m *Memory) Flush() error {
	if m.closed {
		return ErrClosed
	}
	if m.failErr != nil {
		err := m.failErr
		m.failErr = nil
		return err
	}
	m.shown.CopyFrom(m.staged)
	m.flushes++
	return nil
}

// Close marks the surface closed. Further flushes return ErrClosed.
func (m *Memory) Close() {
	m.closed = true
}

// SetSize resizes the surface, discarding staged and visible content
// outside the new dimensions. Tests use it to simulate terminal
// resizes.
func (m *Memory) SetSize(width, height int) {
	m.staged.Resize(width, height)
	m.shown.Resize(width, height)
}

// ReadCell returns the visible cell at the given position.
func (m *Memory) ReadCell(x, y int) cell.Cell {
	return m.shown.CellAt(x, y)
}

// StagedCell returns the staged, not yet flushed cell at the given
// position.
func (m *Memory) StagedCell(x, y int) cell.Cell {
	return m.staged.CellAt(x, y)
}

// Snapshot returns the visible content as a newline-separated string.
func (m *Memory) Snapshot() string {
	return m.shown.Snapshot()
}

// FlushCount returns the number of successful flushes.
func (m *Memory) FlushCount() int {
	return m.flushes
}

// FailNextFlush makes the next Flush return err without committing.
func (m *Memory) FailNextFlush(err error) {
	m.failErr = err
}
