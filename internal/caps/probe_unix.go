//go:build unix

package caps

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// TerminalProber queries the controlling terminal directly through
// /dev/tty. It issues the kitty graphics query, a DECRQM for
// synchronized output, and DA1 last: every terminal answers DA1, so its
// reply marks the end of the response stream.
type TerminalProber struct{}

// probe queries, in the order written. DA1 must stay last.
const probeQueries = "\x1b_Gi=31,s=1,v=1,a=q,t=d,f=24;AAAA\x1b\\" + // kitty graphics
	"\x1b[?2026$p" + // DECRQM synchronized output
	"\x1b[c" // DA1 terminator

// Probe performs the round-trip within the given bound.
func (TerminalProber) Probe(timeout time.Duration) (ProbeResult, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("%w: %v", ErrNotTerminal, err)
	}
	defer tty.Close()

	fd := int(tty.Fd())
	if !term.IsTerminal(fd) {
		return ProbeResult{}, ErrNotTerminal
	}

	saved, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("get termios: %w", err)
	}
	raw := *saved
	raw.Lflag &^= unix.ECHO | unix.ICANON
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &raw); err != nil {
		return ProbeResult{}, fmt.Errorf("set raw mode: %w", err)
	}
	defer unix.IoctlSetTermios(fd, ioctlSetTermios, saved)

	if _, err := tty.WriteString(probeQueries); err != nil {
		return ProbeResult{}, fmt.Errorf("write probe: %w", err)
	}

	response, err := readUntilDA1(fd, timeout)
	if err != nil {
		return ProbeResult{}, err
	}
	return parseProbeResponse(response), nil
}

// readUntilDA1 accumulates terminal output until the DA1 reply arrives
// or the deadline passes.
func readUntilDA1(fd int, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	var buf []byte
	chunk := make([]byte, 256)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return "", ErrProbeTimeout
		}

		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, int(remaining.Milliseconds())+1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("poll terminal: %w", err)
		}
		if n == 0 {
			return "", ErrProbeTimeout
		}

		read, err := unix.Read(fd, chunk)
		if err != nil && err != unix.EAGAIN {
			return "", fmt.Errorf("read terminal: %w", err)
		}
		if read > 0 {
			buf = append(buf, chunk[:read]...)
			if hasDA1Reply(string(buf)) {
				return string(buf), nil
			}
		}
	}
}

// da1Body returns the parameters of the DA1 response (CSI ? params c)
// if the buffer contains a complete one. DECRQM replies also start with
// CSI ? but terminate in $y, so bodies containing those bytes are
// skipped.
func da1Body(s string) (string, bool) {
	start := strings.Index(s, "\x1b[?")
	for start >= 0 {
		rest := s[start+3:]
		if end := strings.IndexByte(rest, 'c'); end >= 0 {
			body := rest[:end]
			if !strings.ContainsAny(body, "$y\x1b") {
				return body, true
			}
		}
		next := strings.Index(s[start+1:], "\x1b[?")
		if next < 0 {
			return "", false
		}
		start += 1 + next
	}
	return "", false
}

// hasDA1Reply reports whether the buffer contains a complete DA1
// response.
func hasDA1Reply(s string) bool {
	_, ok := da1Body(s)
	return ok
}

func parseProbeResponse(response string) ProbeResult {
	result := ProbeResult{}

	if body, ok := da1Body(response); ok {
		result.DeviceAttributes = body
	}

	// DA1 attribute 4 advertises sixel.
	for _, attr := range strings.Split(result.DeviceAttributes, ";") {
		if attr == "4" {
			result.Sixel = true
		}
	}

	// Kitty answers the graphics query with an APC G response.
	if strings.Contains(response, "\x1b_G") {
		result.Kitty = true
	}

	// DECRQM reply: CSI ? 2026 ; Ps $ y where Ps 1 or 2 means the mode
	// is recognized.
	if strings.Contains(response, "\x1b[?2026;1$y") ||
		strings.Contains(response, "\x1b[?2026;2$y") {
		result.SynchronizedOutput = true
	}

	return result
}
