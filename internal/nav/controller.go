// Package nav tracks whether the workspace sidebar is visible.
//
// Desktop layouts switch the sidebar between a wide panel and a narrow rail;
// narrow (mobile) layouts show it as an overlay above the main view. Which of
// the two flags is authoritative depends on the current viewport width, which
// arrives through a Source subscription.
package nav

import "sync"

// DefaultBreakpoint is the viewport width, in terminal cells, below which the
// layout is treated as mobile.
const DefaultBreakpoint = 80

// State is a read-only snapshot of the controller.
type State struct {
	Expanded   bool
	MobileOpen bool
	Mobile     bool
}

// Open reports whether the sidebar is visible for the current viewport.
func (s State) Open() bool {
	if s.Mobile {
		return s.MobileOpen
	}
	return s.Expanded
}

// Source supplies viewport width notifications. Subscribe returns a function
// that stops delivery; calling it more than once must be safe.
type Source interface {
	Subscribe(fn func(width int)) (release func())
}

// Controller owns the sidebar visibility state for one mounted layout.
type Controller struct {
	state      State
	breakpoint int
	width      int
	release    func()
	listeners  []func(State)
}

// Option configures a Controller.
type Option func(*Controller)

// WithExpanded sets the initial desktop state.
func WithExpanded(expanded bool) Option {
	return func(c *Controller) { c.state.Expanded = expanded }
}

// WithBreakpoint overrides DefaultBreakpoint. Non-positive values are ignored.
func WithBreakpoint(cells int) Option {
	return func(c *Controller) {
		if cells > 0 {
			c.breakpoint = cells
		}
	}
}

// WithWidth seeds the viewport width known at creation time.
func WithWidth(width int) Option {
	return func(c *Controller) { c.width = width }
}

// New returns a controller that starts expanded on desktop and closed on
// mobile.
func New(opts ...Option) *Controller {
	c := &Controller{
		state:      State{Expanded: true},
		breakpoint: DefaultBreakpoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.width > 0 {
		c.state.Mobile = c.width < c.breakpoint
	}
	return c
}

// Observe subscribes to src and keeps Mobile in sync with its widths. Any
// previous subscription is released first. The returned function releases
// this subscription; Close does the same.
func (c *Controller) Observe(src Source) (release func()) {
	c.releaseSubscription()
	if src == nil {
		return func() {}
	}
	var once sync.Once
	stop := src.Subscribe(c.SetWidth)
	rel := func() {
		once.Do(func() {
			if stop != nil {
				stop()
			}
		})
	}
	c.release = rel
	return rel
}

// Close releases the viewport subscription, if any.
func (c *Controller) Close() {
	c.releaseSubscription()
}

func (c *Controller) releaseSubscription() {
	if c.release == nil {
		return
	}
	rel := c.release
	c.release = nil
	rel()
}

// SetWidth records a viewport width. Widths of zero or below mean the
// viewport has not been measured yet and are ignored.
func (c *Controller) SetWidth(width int) {
	if width <= 0 {
		return
	}
	c.width = width
	mobile := width < c.breakpoint
	if mobile == c.state.Mobile {
		return
	}
	c.state.Mobile = mobile
	c.notify()
}

// Toggle flips whichever flag is authoritative for the current viewport.
func (c *Controller) Toggle() {
	if c.state.Mobile {
		c.state.MobileOpen = !c.state.MobileOpen
	} else {
		c.state.Expanded = !c.state.Expanded
	}
	c.notify()
}

// RequestClose hides the mobile overlay. It does nothing when the overlay is
// already closed.
func (c *Controller) RequestClose() {
	if !c.state.MobileOpen {
		return
	}
	c.state.MobileOpen = false
	c.notify()
}

// Open reports whether the sidebar is visible for the current viewport.
func (c *Controller) Open() bool { return c.state.Open() }

// Mobile reports whether the current viewport is below the breakpoint.
func (c *Controller) Mobile() bool { return c.state.Mobile }

// State returns a snapshot of the controller.
func (c *Controller) State() State { return c.state }

// Width returns the last observed viewport width.
func (c *Controller) Width() int { return c.width }

// Breakpoint returns the mobile threshold in cells.
func (c *Controller) Breakpoint() int { return c.breakpoint }

// OnChange registers fn to be called with the new snapshot after every
// state change.
func (c *Controller) OnChange(fn func(State)) {
	if fn == nil {
		return
	}
	c.listeners = append(c.listeners, fn)
}

func (c *Controller) notify() {
	for _, fn := range c.listeners {
		fn(c.state)
	}
}
