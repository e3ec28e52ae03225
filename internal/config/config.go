package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/teacher-workspace/internal/app"
	"github.com/atomicstack/teacher-workspace/internal/nav"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	File    string
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envConfigFile   = "TEACHER_WORKSPACE_CONFIG"
	envWidth        = "TEACHER_WORKSPACE_WIDTH"
	envHeight       = "TEACHER_WORKSPACE_HEIGHT"
	envCollapsed    = "TEACHER_WORKSPACE_COLLAPSED"
	envBreakpoint   = "TEACHER_WORKSPACE_BREAKPOINT"
	envRoute        = "TEACHER_WORKSPACE_ROUTE"
	envAuthURL      = "TEACHER_WORKSPACE_AUTH_URL"
	envAuthTimeout  = "TEACHER_WORKSPACE_AUTH_TIMEOUT"
	envPollInterval = "TEACHER_WORKSPACE_POLL_INTERVAL"
	envShowFooter   = "TEACHER_WORKSPACE_FOOTER"
	envTrace        = "TEACHER_WORKSPACE_TRACE"
	envLogFile      = "TEACHER_WORKSPACE_LOG_FILE"
)

// fileConfig mirrors the optional YAML file. Pointer fields distinguish
// "absent" from zero values.
type fileConfig struct {
	Width        *int          `yaml:"width"`
	Height       *int          `yaml:"height"`
	Collapsed    *bool         `yaml:"collapsed"`
	Breakpoint   *int          `yaml:"breakpoint"`
	Route        *string       `yaml:"route"`
	AuthURL      *string       `yaml:"auth_url"`
	AuthTimeout  *fileDuration `yaml:"auth_timeout"`
	PollInterval *fileDuration `yaml:"poll_interval"`
	Footer       *bool         `yaml:"footer"`
	Log          struct {
		File  *string `yaml:"file"`
		Trace *bool   `yaml:"trace"`
	} `yaml:"log"`
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Precedence is
// flags, then environment, then the YAML file, then built-in defaults.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	path := configPathFromArgs(args)
	if path == "" {
		path = env[envConfigFile]
	}
	defaults, err := loadFile(path)
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("teacher-workspace", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	_ = fs.String("config", path, "path to a YAML configuration file")
	width := fs.Int("width", envOrInt(env, envWidth, intOr(defaults.Width, 0)), "fixed viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, intOr(defaults.Height, 0)), "fixed viewport height in rows (0 uses terminal height)")
	collapsed := fs.Bool("collapsed", envOrBool(env, envCollapsed, boolOr(defaults.Collapsed, false)), "start with the desktop sidebar collapsed")
	breakpoint := fs.Int("breakpoint", envOrInt(env, envBreakpoint, intOr(defaults.Breakpoint, nav.DefaultBreakpoint)), "viewport width below which the sidebar becomes an overlay")
	route := fs.String("route", envOrDefault(env, envRoute, stringOr(defaults.Route, string(app.RouteHome))), "initial view: home, students or signin")
	authURL := fs.String("auth-url", envOrDefault(env, envAuthURL, stringOr(defaults.AuthURL, "")), "base URL of the workspace server (empty uses the offline prototype)")
	authTimeout := fs.Duration("auth-timeout", envOrDuration(env, envAuthTimeout, durationOr(defaults.AuthTimeout, 10*time.Second)), "timeout for each auth request")
	pollInterval := fs.Duration("poll-interval", envOrDuration(env, envPollInterval, durationOr(defaults.PollInterval, 2*time.Second)), "interval between terminal size and backend polls")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, boolOr(defaults.Footer, true)), "show the key hint footer")
	trace := fs.Bool("trace", envOrBool(env, envTrace, boolOr(defaults.Log.Trace, false)), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, stringOr(defaults.Log.File, "")), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	cfg := Config{
		App: app.Config{
			Width:        *width,
			Height:       *height,
			Collapsed:    *collapsed,
			Breakpoint:   *breakpoint,
			Route:        app.Route(strings.ToLower(strings.TrimSpace(*route))),
			AuthURL:      strings.TrimSpace(*authURL),
			AuthTimeout:  *authTimeout,
			PollInterval: *pollInterval,
			ShowFooter:   *footer,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		File: path,
		Flags: map[string]string{
			"width":        strconv.Itoa(*width),
			"height":       strconv.Itoa(*height),
			"collapsed":    strconv.FormatBool(*collapsed),
			"breakpoint":   strconv.Itoa(*breakpoint),
			"route":        *route,
			"authURL":      *authURL,
			"authTimeout":  authTimeout.String(),
			"pollInterval": pollInterval.String(),
			"footer":       strconv.FormatBool(*footer),
			"trace":        strconv.FormatBool(*trace),
			"logFile":      *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	if strings.TrimSpace(path) == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("decode config %q: %w", path, err)
	}
	return fc, nil
}

// configPathFromArgs finds --config before the full flag set exists, so the
// file can supply that flag set's defaults.
func configPathFromArgs(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return ""
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		values[key] = value
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func stringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func durationOr(v *fileDuration, fallback time.Duration) time.Duration {
	if v == nil {
		return fallback
	}
	return v.Duration
}

// fileDuration is a duration written as a Go duration string ("750ms",
// "10s"). Unlike the environment, a bad value in the file is an error.
type fileDuration struct {
	time.Duration
}

func (d *fileDuration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	if parsed < 0 {
		return fmt.Errorf("line %d: duration must be >= 0 (got %s)", value.Line, parsed)
	}
	d.Duration = parsed
	return nil
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects combinations the program cannot start with.
func Validate(cfg Config) error {
	var errs []error
	if !cfg.App.Route.Valid() {
		errs = append(errs, fmt.Errorf("unknown route %q", cfg.App.Route))
	}
	if cfg.App.Breakpoint <= 0 {
		errs = append(errs, fmt.Errorf("breakpoint must be > 0 (got %d)", cfg.App.Breakpoint))
	}
	if cfg.App.AuthURL != "" {
		u, err := url.Parse(cfg.App.AuthURL)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("auth url: %w", err))
		case u.Scheme != "http" && u.Scheme != "https":
			errs = append(errs, fmt.Errorf("auth url must be http or https (got %q)", cfg.App.AuthURL))
		case u.Host == "":
			errs = append(errs, fmt.Errorf("auth url has no host (got %q)", cfg.App.AuthURL))
		}
	}
	if cfg.App.AuthTimeout <= 0 {
		errs = append(errs, fmt.Errorf("auth timeout must be > 0 (got %s)", cfg.App.AuthTimeout))
	}
	if cfg.App.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll interval must be > 0 (got %s)", cfg.App.PollInterval))
	}
	return errors.Join(errs...)
}
