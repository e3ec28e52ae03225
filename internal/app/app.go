package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/atomicstack/teacher-workspace/internal/auth"
	"github.com/atomicstack/teacher-workspace/internal/backend"
	"github.com/atomicstack/teacher-workspace/internal/logging/events"
	"github.com/atomicstack/teacher-workspace/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Route names the view the program opens on.
type Route = ui.Route

const (
	RouteHome     = ui.RouteHome
	RouteStudents = ui.RouteStudents
	RouteSignIn   = ui.RouteSignIn
)

// Config describes user-provided application options.
type Config struct {
	Width int
	// InitialWidth is the terminal width measured at startup. Unlike Width
	// it does not pin the layout.
	InitialWidth int
	Height       int
	Collapsed    bool
	Breakpoint   int
	Route        Route
	AuthURL      string
	AuthTimeout  time.Duration
	PollInterval time.Duration
	ShowFooter   bool
}

// NewAuthenticator returns the HTTP client for cfg.AuthURL, or the offline
// prototype when no URL is configured.
func NewAuthenticator(cfg Config) (auth.Authenticator, error) {
	if cfg.AuthURL == "" {
		return auth.Prototype{}, nil
	}
	client, err := auth.NewClient(cfg.AuthURL, cfg.AuthTimeout)
	if err != nil {
		return nil, fmt.Errorf("auth client: %w", err)
	}
	return client, nil
}

// NewWatcher polls the terminal width unless a width is pinned, and the auth
// backend when it can be pinged.
func NewWatcher(cfg Config, authn auth.Authenticator) *backend.Watcher {
	opts := backend.Options{Interval: cfg.PollInterval}
	if cfg.Width <= 0 {
		opts.Viewport = backend.TerminalWidth(os.Stdout)
	}
	if pinger, ok := authn.(auth.Pinger); ok {
		opts.Auth = backend.AuthReachable(pinger, cfg.AuthTimeout)
	}
	return backend.NewWatcher(opts)
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) (err error) {
	defer func() { events.App.Exit(err) }()

	authn, err := NewAuthenticator(cfg)
	if err != nil {
		return err
	}
	watcher := NewWatcher(cfg, authn)
	defer watcher.Stop()

	model := ui.NewModel(ui.Options{
		Width:         cfg.Width,
		InitialWidth:  cfg.InitialWidth,
		Height:        cfg.Height,
		Collapsed:     cfg.Collapsed,
		Breakpoint:    cfg.Breakpoint,
		Route:         cfg.Route,
		ShowFooter:    cfg.ShowFooter,
		Authenticator: authn,
		AuthTimeout:   cfg.AuthTimeout,
		Watcher:       watcher,
	})
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
