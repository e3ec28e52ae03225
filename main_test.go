package main

import (
	"testing"
	"time"

	"github.com/atomicstack/teacher-workspace/internal/app"
	"github.com/atomicstack/teacher-workspace/internal/config"
	"github.com/atomicstack/teacher-workspace/internal/logging"
	"github.com/atomicstack/teacher-workspace/internal/ui"
)

func TestProbeTerminalReportsEveryDescriptor(t *testing.T) {
	info := probeTerminal(standardDescriptors())
	if len(info.Descriptors) != 3 {
		t.Fatalf("expected 3 descriptor entries, got %d", len(info.Descriptors))
	}
	for i, name := range []string{"stdout", "stderr", "stdin"} {
		if info.Descriptors[i].Name != name {
			t.Fatalf("expected descriptor %d name %q, got %q", i, name, info.Descriptors[i].Name)
		}
	}
}

func TestProbeTerminalSkipsInvalidDescriptor(t *testing.T) {
	info := probeTerminal([]descriptor{{"bogus", -1}})
	if info.Size != nil {
		t.Fatalf("expected no size, got %#v", info.Size)
	}
	if info.Descriptors[0].Terminal {
		t.Fatalf("negative descriptor reported as a terminal")
	}
}

func TestSeedViewportUsesDetectedWidth(t *testing.T) {
	terminal := terminalInfo{Size: &terminalSize{Source: "stdout", Width: 50, Height: 20}}
	cfg := seedViewport(app.Config{}, terminal)
	if cfg.InitialWidth != 50 {
		t.Fatalf("expected initial width 50, got %d", cfg.InitialWidth)
	}
	if cfg.Width != 0 {
		t.Fatalf("detected width must not pin the layout, got %d", cfg.Width)
	}
}

func TestSeedViewportKeepsPinnedWidth(t *testing.T) {
	terminal := terminalInfo{Size: &terminalSize{Source: "stdout", Width: 50}}
	cfg := seedViewport(app.Config{Width: 120}, terminal)
	if cfg.InitialWidth != 0 || cfg.Width != 120 {
		t.Fatalf("expected pinned width to win, got %#v", cfg)
	}
	if cfg := seedViewport(app.Config{}, terminalInfo{}); cfg.InitialWidth != 0 {
		t.Fatalf("expected no seed without a terminal, got %d", cfg.InitialWidth)
	}
}

func TestNarrowTerminalStartsInMobileLayout(t *testing.T) {
	cfg := seedViewport(app.Config{}, terminalInfo{Size: &terminalSize{Source: "stdout", Width: 50}})
	m := ui.NewModel(ui.Options{InitialWidth: cfg.InitialWidth})
	defer m.Close()
	if !m.Nav().Mobile() {
		t.Fatalf("expected mobile layout at width 50")
	}
	if m.Nav().State().MobileOpen {
		t.Fatalf("mobile overlay should start closed")
	}
}

func TestStartupPayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			Width:       80,
			Height:      24,
			Route:       app.RouteSignIn,
			AuthURL:     "http://localhost:3000",
			AuthTimeout: 5 * time.Second,
			ShowFooter:  true,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		File: "workspace.yaml",
		Flags: map[string]string{
			"width":   "80",
			"route":   "signin",
			"authURL": "http://localhost:3000",
		},
		Args: []string{"--route", "signin"},
	}
	terminal := terminalInfo{Size: &terminalSize{Source: "stdout", Width: 80, Height: 24}}

	payload := startupPayload(cfg, terminal)

	flags, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flags["route"] != "signin" || flags["authURL"] != "http://localhost:3000" || flags["width"] != "80" {
		t.Fatalf("unexpected flags %#v", flags)
	}
	if flags["trace"] != true || flags["logFile"] != "trace.log" {
		t.Fatalf("expected logging flags, got %#v", flags)
	}
	if payload["logPath"] != logging.Path() {
		t.Fatalf("expected resolved log path, got %v", payload["logPath"])
	}
	if payload["configFile"] != "workspace.yaml" {
		t.Fatalf("expected config file, got %v", payload["configFile"])
	}
	got, ok := payload["terminal"].(terminalInfo)
	if !ok || got.Size == nil || got.Size.Width != 80 {
		t.Fatalf("expected terminal info in payload, got %#v", payload["terminal"])
	}
	if cfgValue, ok := payload["config"].(config.Config); !ok || cfgValue.App != cfg.App {
		t.Fatalf("expected app config %#v in payload", cfg.App)
	}
}
