package caps

import (
	"os"
	"strings"
	"time"

	"github.com/termloom/termloom/internal/logging"
)

// DefaultProbeTimeout bounds the query round-trip. Probes that get no
// response within this window resolve to environment evidence only.
const DefaultProbeTimeout = 150 * time.Millisecond

// Options configures detection. The zero value uses the process
// environment, no probe, and the default timeout.
type Options struct {
	// Env looks up an environment variable. Defaults to os.Getenv.
	Env func(string) string

	// Prober performs the escape-sequence round-trip. Nil skips probing.
	Prober Prober

	// ProbeTimeout bounds the round-trip. Zero means DefaultProbeTimeout.
	ProbeTimeout time.Duration

	// Logger receives probe diagnostics. Nil discards them.
	Logger *logging.Logger
}

// Detect builds the Capabilities record from environment inspection plus
// an optional probe. It never blocks past the probe timeout and never
// panics; a probe failure degrades to environment evidence.
func Detect(opts Options) Capabilities {
	env := opts.Env
	if env == nil {
		env = os.Getenv
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	c := detectEnv(env)

	if opts.Prober != nil {
		timeout := opts.ProbeTimeout
		if timeout <= 0 {
			timeout = DefaultProbeTimeout
		}
		result, err := opts.Prober.Probe(timeout)
		if err != nil {
			// Timeout or unreadable terminal: keep the conservative
			// environment-derived record.
			log.Debug("capability probe failed: %v", err)
		} else {
			c.Probed = true
			if result.Kitty {
				c.Graphics = GraphicsKitty
			} else if result.Sixel {
				c.Graphics = upgradeGraphics(c.Graphics, GraphicsSixel)
			}
			if result.SynchronizedOutput {
				c.SynchronizedOutput = true
			}
			log.Debug("capability probe completed: graphics=%s sync_output=%v",
				c.Graphics, c.SynchronizedOutput)
		}
	}

	log.Info("terminal capabilities: tier=%s truecolor=%v probed=%v",
		c.Tier(), c.TrueColor, c.Probed)
	return c
}

// detectEnv derives capabilities from environment variables alone.
func detectEnv(env func(string) string) Capabilities {
	var c Capabilities

	term := env("TERM")
	if term == "" || term == "dumb" {
		return c
	}
	c.BasicColor = true
	c.Mouse = true

	if strings.Contains(term, "256color") {
		c.Colors256 = true
	}

	colorterm := env("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" ||
		strings.Contains(term, "truecolor") ||
		strings.Contains(term, "24bit") ||
		strings.Contains(term, "direct") {
		c.TrueColor = true
		c.Colors256 = true
	}

	// Terminals that identify themselves are modern enough for
	// truecolor and OSC 8 hyperlinks even without COLORTERM.
	switch {
	case env("KITTY_WINDOW_ID") != "":
		c.TrueColor = true
		c.Colors256 = true
		c.Hyperlinks = true
		c.Graphics = GraphicsKitty
	case env("WEZTERM_PANE") != "":
		c.TrueColor = true
		c.Colors256 = true
		c.Hyperlinks = true
		c.Graphics = GraphicsSixel
	case env("ITERM_SESSION_ID") != "":
		c.TrueColor = true
		c.Colors256 = true
		c.Hyperlinks = true
	case env("KONSOLE_VERSION") != "",
		env("ALACRITTY_WINDOW_ID") != "",
		env("ALACRITTY_LOG") != "":
		c.TrueColor = true
		c.Colors256 = true
	}

	// NO_COLOR is an explicit user request for monochrome output.
	if env("NO_COLOR") != "" {
		c.BasicColor = false
		c.Colors256 = false
		c.TrueColor = false
	}

	c.UnicodeWidth = localeIsUTF8(env)

	return c
}

func localeIsUTF8(env func(string) string) bool {
	for _, name := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := env(name); v != "" {
			upper := strings.ToUpper(v)
			return strings.Contains(upper, "UTF-8") || strings.Contains(upper, "UTF8")
		}
	}
	return false
}

func upgradeGraphics(current, proposed GraphicsProtocol) GraphicsProtocol {
	if proposed > current {
		return proposed
	}
	return current
}
