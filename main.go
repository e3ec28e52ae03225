package main

import (
	"fmt"
	"os"

	"github.com/atomicstack/teacher-workspace/internal/app"
	"github.com/atomicstack/teacher-workspace/internal/config"
	"github.com/atomicstack/teacher-workspace/internal/logging"
	"github.com/atomicstack/teacher-workspace/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	cfg := config.MustLoad()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)

	terminal := probeTerminal(standardDescriptors())
	cfg.App = seedViewport(cfg.App, terminal)
	if logging.TraceEnabled() {
		events.App.Start(startupPayload(cfg, terminal))
	}

	if err := app.Run(cfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// seedViewport hands the measured terminal width to the app so the sidebar
// starts in the right layout. A pinned width wins; the seed is not pinned,
// so later resizes still apply.
func seedViewport(cfg app.Config, terminal terminalInfo) app.Config {
	if cfg.Width > 0 || terminal.Size == nil {
		return cfg
	}
	cfg.InitialWidth = terminal.Size.Width
	return cfg
}

// startupPayload bundles runtime context for the start trace.
func startupPayload(cfg config.Config, terminal terminalInfo) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":     cfg.Args,
		"flags":    flags,
		"config":   cfg,
		"terminal": terminal,
		"logPath":  logging.Path(),
	}
	if cfg.File != "" {
		payload["configFile"] = cfg.File
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	}
	return payload
}

type terminalInfo struct {
	Size        *terminalSize     `json:"size,omitempty"`
	Descriptors []descriptorProbe `json:"descriptors"`
}

type terminalSize struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type descriptorProbe struct {
	Name     string `json:"name"`
	Terminal bool   `json:"terminal"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Error    string `json:"error,omitempty"`
}

type descriptor struct {
	name string
	fd   int
}

func standardDescriptors() []descriptor {
	return []descriptor{
		{"stdout", int(os.Stdout.Fd())},
		{"stderr", int(os.Stderr.Fd())},
		{"stdin", int(os.Stdin.Fd())},
	}
}

// probeTerminal measures each descriptor. The first one that reports a size
// becomes the viewport; stdout is tried first since that is where we draw.
func probeTerminal(fds []descriptor) terminalInfo {
	info := terminalInfo{Descriptors: make([]descriptorProbe, 0, len(fds))}
	for _, d := range fds {
		probe := descriptorProbe{Name: d.name}
		if d.fd >= 0 && term.IsTerminal(d.fd) {
			probe.Terminal = true
			width, height, err := term.GetSize(d.fd)
			switch {
			case err != nil:
				probe.Error = err.Error()
			default:
				probe.Width, probe.Height = width, height
				if info.Size == nil && width > 0 {
					info.Size = &terminalSize{Source: d.name, Width: width, Height: height}
				}
			}
		}
		info.Descriptors = append(info.Descriptors, probe)
	}
	return info
}
