package ui

import (
	"reflect"
	"time"

	"github.com/atomicstack/teacher-workspace/internal/auth"
	"github.com/atomicstack/teacher-workspace/internal/backend"
	"github.com/atomicstack/teacher-workspace/internal/logging/events"
	"github.com/atomicstack/teacher-workspace/internal/nav"
	"github.com/atomicstack/teacher-workspace/internal/signin"
	"github.com/atomicstack/teacher-workspace/internal/theme"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

type authStatus int

const (
	authUnknown authStatus = iota
	authOnline
	authOffline
)

// Options configures a Model.
type Options struct {
	// Width and Height pin the layout size. Zero follows the terminal.
	Width  int
	Height int
	// InitialWidth seeds the viewport width without pinning it.
	InitialWidth int
	// Collapsed starts the desktop sidebar as a rail.
	Collapsed bool
	// Breakpoint is the width below which the mobile layout is used.
	Breakpoint int
	Route      Route
	ShowFooter bool

	Authenticator auth.Authenticator
	AuthTimeout   time.Duration
	Watcher       *backend.Watcher

	// Now replaces time.Now for the greeting.
	Now func() time.Time
	// SignInOptions are applied to every sign-in flow the model creates.
	SignInOptions []signin.Option
}

// Model implements the Bubble Tea model for the teacher workspace.
type Model struct {
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool

	route Route
	user  string

	nav        *nav.Controller
	feed       *nav.Feed
	releaseNav func()
	menu       *nav.Menu
	filtering  bool

	filterCursor      cursor.Model
	filterCursorDirty bool

	signIn       *signInView
	signInOpts   []signin.Option
	authn        auth.Authenticator
	authTimeout  time.Duration
	scheduleTick func(gen uint64) tea.Cmd

	backend        *backend.Watcher
	backendState   map[backend.Kind]error
	backendLastErr string
	authStatus     authStatus

	errMsg     string
	infoMsg    string
	infoExpire time.Time

	keys keyMap
	help help.Model
	now  func() time.Time

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the workspace model. The navigation controller observes
// the model's viewport feed until Close is called.
func NewModel(opts Options) *Model {
	m := &Model{
		showFooter:   opts.ShowFooter,
		route:        RouteHome,
		feed:         nav.NewFeed(),
		menu:         nav.NewMenu(nav.DefaultItems()),
		signInOpts:   opts.SignInOptions,
		authn:        opts.Authenticator,
		authTimeout:  opts.AuthTimeout,
		backend:      opts.Watcher,
		backendState: map[backend.Kind]error{},
		keys:         defaultKeyMap(),
		help:         help.New(),
		now:          opts.Now,
	}
	if m.authn == nil {
		m.authn = auth.Prototype{}
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.scheduleTick = tickAfterSecond
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	} else if opts.InitialWidth > 0 {
		m.width = opts.InitialWidth
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}

	navOpts := []nav.Option{nav.WithExpanded(!opts.Collapsed)}
	if opts.Breakpoint > 0 {
		navOpts = append(navOpts, nav.WithBreakpoint(opts.Breakpoint))
	}
	if m.width > 0 {
		navOpts = append(navOpts, nav.WithWidth(m.width))
	}
	m.nav = nav.New(navOpts...)
	m.releaseNav = m.nav.Observe(m.feed)
	m.nav.OnChange(func(st nav.State) {
		if !st.Open() && m.filtering {
			m.stopFilter()
		}
	})

	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	c.SetMode(cursor.CursorStatic)
	m.filterCursor = c

	if opts.Route.Valid() && opts.Route != RouteHome {
		m.navigate(opts.Route)
	}
	m.menu.Focus(navItemForRoute(m.route))
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

// Close releases the viewport subscription and tears down any mounted
// sign-in flow. It is safe to call more than once.
func (m *Model) Close() {
	if m.releaseNav != nil {
		m.releaseNav()
		m.releaseNav = nil
	}
	m.nav.Close()
	m.unmountSignIn()
}

// Route returns the active route.
func (m *Model) Route() Route { return m.route }

// Nav exposes the navigation controller.
func (m *Model) Nav() *nav.Controller { return m.nav }

// Feed exposes the viewport feed the navigation controller observes.
func (m *Model) Feed() *nav.Feed { return m.feed }

// User returns the signed-in email, if any.
func (m *Model) User() string { return m.user }

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(countdownTickMsg{}):  m.handleCountdownTickMsg,
		reflect.TypeOf(codeIssuedMsg{}):     m.handleCodeIssuedMsg,
		reflect.TypeOf(codeVerifiedMsg{}):   m.handleCodeVerifiedMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
	}
	if len(cmds) == 0 {
		return nil
	}
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.route == RouteSignIn && m.signIn != nil {
		return m.handleSignInKey(keyMsg)
	}
	return m.handleLayoutKey(keyMsg)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	if !m.fixedWidth {
		m.resizeWidth(resize.Width)
	}
	return nil
}

// resizeWidth records a new terminal width and publishes it to the
// navigation controller.
func (m *Model) resizeWidth(width int) {
	if width <= 0 {
		return
	}
	m.width = width
	wasMobile := m.nav.Mobile()
	m.feed.Publish(width)
	if m.nav.Mobile() != wasMobile {
		events.Nav.Viewport(width, m.nav.Mobile())
	}
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) clearInfo() {
	if m.infoMsg == "" {
		return
	}
	if !m.infoExpire.IsZero() && time.Now().Before(m.infoExpire) {
		return
	}
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

// forceClearInfo drops the info message before it expires. Messages belong
// to the view that raised them.
func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}
