// Package main runs a small dashboard that exercises the renderer:
// capability detection, tier-aware widgets, tick-driven animation, and
// clean terminal teardown.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/termloom/termloom/internal/caps"
	"github.com/termloom/termloom/internal/component"
	"github.com/termloom/termloom/internal/config"
	"github.com/termloom/termloom/internal/event"
	"github.com/termloom/termloom/internal/layout"
	"github.com/termloom/termloom/internal/logging"
	"github.com/termloom/termloom/internal/render"
	"github.com/termloom/termloom/internal/style"
	"github.com/termloom/termloom/internal/surface"
	"github.com/termloom/termloom/internal/widget"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		tierName    string
		logFile     string
		noProbe     bool
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&tierName, "tier", "", "Force output tier (fallback, tier1..tier4)")
	flag.StringVar(&logFile, "log-file", "", "Write diagnostics to this file")
	flag.BoolVar(&noProbe, "no-probe", false, "Skip the terminal capability probe")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("termloom-demo %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if tierName != "" {
		cfg.Probe.Tier = tierName
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if noProbe {
		cfg.Probe.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log, closeLog, err := openLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	var prober caps.Prober
	if cfg.Probe.Enabled {
		prober = caps.TerminalProber{}
	}
	capabilities := caps.Detect(caps.Options{
		Prober:       prober,
		ProbeTimeout: cfg.ProbeTimeout(),
		Logger:       log,
	})

	theme, err := loadTheme(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	term, err := surface.NewTerminal(capabilities, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open terminal: %v\n", err)
		return 1
	}
	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to acquire terminal: %v\n", err)
		return 1
	}
	defer term.Close()

	opts := []render.Option{
		render.WithLogger(log),
		render.WithTheme(theme),
		render.WithTickInterval(cfg.TickInterval()),
		render.WithFlushWarn(cfg.FlushWarn()),
		render.WithCoalesceGap(cfg.Render.CoalesceGap),
	}
	if tier, ok := cfg.TierOverride(); ok {
		opts = append(opts, render.WithTierOverride(tier))
	}
	r := render.New(term, capabilities, opts...)
	r.Attach(newDashboard(r.Tier(), r.Shutdown))

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		r.Shutdown()
	}()

	runErr := r.Run(term.Source())
	// Restore the terminal before writing anything to stderr.
	term.Close()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		if errors.Is(runErr, render.ErrWriteFailure) {
			log.Error("render loop aborted: %v", runErr)
		}
		return 1
	}
	return 0
}

func openLogger(cfg config.Config) (*logging.Logger, func(), error) {
	if cfg.Log.File == "" {
		return logging.Discard(), func() {}, nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Output: f,
	})
	return log, func() { _ = f.Close() }, nil
}

func loadTheme(cfg config.Config) (*style.Theme, error) {
	if cfg.Theme.Path != "" {
		return style.LoadFile(cfg.Theme.Path)
	}
	return style.Default(), nil
}

// dashboard is the demo scene: a header, an animating progress bar,
// and a spinner. 'q' or Ctrl-C quits.
type dashboard struct {
	*widget.Column
	progress *widget.Progress
	spinner  *widget.Spinner
	status   *widget.Label
	quit     func()
	steps    int
}

func newDashboard(tier caps.Tier, quit func()) *dashboard {
	d := &dashboard{
		progress: widget.NewProgress(),
		spinner:  widget.NewSpinner(),
		status:   widget.NewLabel("working"),
		quit:     quit,
	}
	d.spinner.Start()

	header := widget.NewLabel(fmt.Sprintf("termloom demo  [%s]", tier))
	header.SetToken(style.TokenAccent)
	footer := widget.NewLabel("press q to quit")
	footer.SetToken(style.TokenTextDim)

	statusRow := widget.NewRow().
		Add(d.spinner, layout.Fixed(2)).
		Add(d.status, layout.Flex(1))

	d.Column = widget.NewColumn().
		Add(header, layout.Fixed(1)).
		Add(widget.NewLabel(""), layout.Fixed(1)).
		Add(d.progress, layout.Fixed(1)).
		Add(statusRow, layout.Fixed(1)).
		Add(widget.NewLabel(""), layout.Flex(1)).
		Add(footer, layout.Fixed(1))
	return d
}

func (d *dashboard) HandleEvent(ev event.Event) component.Invalidate {
	if ev.Kind == event.KindKey {
		if ev.Rune == 'q' || ev.Key == event.KeyCtrlC || ev.Key == event.KeyEscape {
			d.quit()
			return component.InvalidateNone
		}
	}

	result := d.Column.HandleEvent(ev)

	if ev.Kind == event.KindTick {
		d.steps++
		d.progress.SetValue(float64(d.steps%120) / 120)
		if d.spinner.Spinning() && d.steps%120 == 0 {
			d.status.SetText("cycle complete")
		}
		result = result.Merge(component.InvalidatePaint)
	}
	return result
}

func (d *dashboard) DebugName() string {
	return "dashboard"
}

func (d *dashboard) WantsTicks() bool {
	return true
}
