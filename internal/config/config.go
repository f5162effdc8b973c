// Package config loads runtime settings from a TOML file with
// environment-variable overrides. Precedence, lowest to highest:
// built-in defaults, the config file, TERMLOOM_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/termloom/termloom/internal/caps"
)

// EnvPrefix is the prefix of every recognized environment variable.
const EnvPrefix = "TERMLOOM_"

// ParseError reports a malformed config file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing config %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Config holds every runtime setting. Durations are TOML strings in
// time.ParseDuration form; Validate parses them once into the typed
// fields the accessors return.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Render RenderConfig `toml:"render"`
	Probe  ProbeConfig  `toml:"probe"`
	Theme  ThemeConfig  `toml:"theme"`

	tickInterval time.Duration
	flushWarn    time.Duration
	probeTimeout time.Duration
	tierOverride caps.Tier
	hasTier      bool
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// File is the log destination path. Empty discards log output;
	// a TUI cannot share stdout with its frames.
	File string `toml:"file"`
}

// RenderConfig controls the frame loop.
type RenderConfig struct {
	// TickInterval is the animation tick period.
	TickInterval string `toml:"tick_interval"`

	// FlushWarn is the flush latency above which the renderer starts
	// skipping animation frames.
	FlushWarn string `toml:"flush_warn"`

	// CoalesceGap is the column distance within which damage spans on
	// neighboring rows merge into one rectangle. Negative disables
	// rect coalescing.
	CoalesceGap int `toml:"coalesce_gap"`
}

// ProbeConfig controls capability detection.
type ProbeConfig struct {
	// Enabled allows the escape-sequence probe. Environment detection
	// always runs.
	Enabled bool `toml:"enabled"`

	// Timeout bounds the probe round-trip.
	Timeout string `toml:"timeout"`

	// Tier forces the output tier, capped at what the terminal
	// actually supports. Empty selects automatically.
	Tier string `toml:"tier"`
}

// ThemeConfig selects the color theme.
type ThemeConfig struct {
	// Name identifies a built-in theme.
	Name string `toml:"name"`

	// Path loads a theme file instead; it wins over Name.
	Path string `toml:"path"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level: "info",
		},
		Render: RenderConfig{
			TickInterval: "33ms",
			FlushWarn:    "50ms",
			CoalesceGap:  2,
		},
		Probe: ProbeConfig{
			Enabled: true,
			Timeout: "150ms",
		},
		Theme: ThemeConfig{
			Name: "default",
		},
	}
}

// Load reads the config file at path, applies environment overrides,
// and validates. A missing file is not an error; an empty path skips
// the file entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, &ParseError{Path: path, Message: err.Error(), Err: err}
			}
		}
	}

	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse reads settings from TOML data over the defaults and validates.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &ParseError{Path: "<data>", Message: err.Error(), Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays recognized environment variables. Unset variables
// leave the current value; malformed booleans are ignored rather than
// fatal, matching how terminal conventions like NO_COLOR behave.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_FILE"); ok {
		c.Log.File = v
	}
	if v, ok := lookup(EnvPrefix + "TICK_INTERVAL"); ok {
		c.Render.TickInterval = v
	}
	if v, ok := lookup(EnvPrefix + "FLUSH_WARN"); ok {
		c.Render.FlushWarn = v
	}
	if v, ok := lookup(EnvPrefix + "THEME"); ok {
		c.Theme.Name = v
	}
	if v, ok := lookup(EnvPrefix + "THEME_PATH"); ok {
		c.Theme.Path = v
	}
	if v, ok := lookup(EnvPrefix + "TIER"); ok {
		c.Probe.Tier = v
	}
	if v, ok := lookup(EnvPrefix + "PROBE_TIMEOUT"); ok {
		c.Probe.Timeout = v
	}
	if v, ok := lookup(EnvPrefix + "NO_PROBE"); ok {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Probe.Enabled = false
		}
	}
}

// Validate checks every field and parses the duration strings. It must
// be called before the typed accessors.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}

	var err error
	if c.tickInterval, err = parsePositive("render.tick_interval", c.Render.TickInterval); err != nil {
		return err
	}
	if c.flushWarn, err = parsePositive("render.flush_warn", c.Render.FlushWarn); err != nil {
		return err
	}
	if c.probeTimeout, err = parsePositive("probe.timeout", c.Probe.Timeout); err != nil {
		return err
	}

	c.hasTier = c.Probe.Tier != ""
	if c.hasTier {
		if c.tierOverride, err = caps.ParseTier(c.Probe.Tier); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

func parsePositive(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %s", field, d)
	}
	return d, nil
}

// TickInterval returns the parsed animation tick period.
func (c Config) TickInterval() time.Duration { return c.tickInterval }

// FlushWarn returns the parsed flush latency threshold.
func (c Config) FlushWarn() time.Duration { return c.flushWarn }

// ProbeTimeout returns the parsed probe deadline.
func (c Config) ProbeTimeout() time.Duration { return c.probeTimeout }

// TierOverride returns the forced tier and whether one was set.
func (c Config) TierOverride() (caps.Tier, bool) {
	return c.tierOverride, c.hasTier
}
