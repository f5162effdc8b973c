package render

import "errors"

// Sentinel errors for the render loop.
var (
	// ErrWriteFailure means a surface flush failed. The surface state
	// is unknown, so the loop stops; callers restore the terminal and
	// exit.
	ErrWriteFailure = errors.New("render: surface write failed")

	// ErrNoRoot is returned when a frame is requested before Attach.
	ErrNoRoot = errors.New("render: no root component attached")

	// ErrAlreadyRunning is returned by Run when the loop is active.
	ErrAlreadyRunning = errors.New("render: loop already running")
)
