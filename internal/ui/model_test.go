package ui

import (
	"strings"
	"testing"

	"github.com/atomicstack/teacher-workspace/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

func TestNewModelDefaults(t *testing.T) {
	m := NewModel(Options{Width: 100, Height: 20})
	defer m.Close()
	if m.Route() != RouteHome {
		t.Fatalf("expected home route, got %q", m.Route())
	}
	st := m.Nav().State()
	if !st.Expanded || st.Mobile || st.MobileOpen {
		t.Fatalf("unexpected nav state %+v", st)
	}
	if item, ok := m.menu.Selected(); !ok || item.ID != "home" {
		t.Fatalf("expected cursor on home, got %+v", item)
	}
}

func TestNewModelCollapsedAndRoute(t *testing.T) {
	m := NewModel(Options{Width: 100, Collapsed: true, Route: RouteStudents})
	defer m.Close()
	if m.Nav().Open() {
		t.Fatalf("collapsed option should start with the rail")
	}
	if m.Route() != RouteStudents {
		t.Fatalf("expected students route, got %q", m.Route())
	}
	if item, _ := m.menu.Selected(); item.ID != "students" {
		t.Fatalf("expected cursor on students, got %q", item.ID)
	}
}

func TestInvalidRouteFallsBackToHome(t *testing.T) {
	m := NewModel(Options{Route: Route("settings")})
	defer m.Close()
	if m.Route() != RouteHome {
		t.Fatalf("expected home, got %q", m.Route())
	}
}

func TestToggleKeyFlipsDesktopSidebar(t *testing.T) {
	h := NewHarness(NewModel(Options{Width: 100, Height: 12}))
	defer h.Model().Close()
	if !strings.Contains(h.View(), "⌂ Home") {
		t.Fatalf("expanded sidebar should show labels:\n%s", h.View())
	}
	h.Press(tea.KeyCtrlB)
	if h.Model().Nav().State().Expanded {
		t.Fatalf("expected sidebar collapsed after toggle")
	}
	if strings.Contains(h.View(), "⌂ Home") {
		t.Fatalf("rail should not show labels:\n%s", h.View())
	}
	h.Type("[")
	if !h.Model().Nav().State().Expanded {
		t.Fatalf("expected sidebar expanded after second toggle")
	}
}

func TestResizeSwitchesViewportWithoutTouchingFlags(t *testing.T) {
	h := NewHarness(NewModel(Options{}))
	defer h.Model().Close()
	h.Send(tea.WindowSizeMsg{Width: 60, Height: 20})
	st := h.Model().Nav().State()
	if !st.Mobile || !st.Expanded || st.MobileOpen {
		t.Fatalf("unexpected state after narrow resize %+v", st)
	}
	if h.Model().Nav().Open() {
		t.Fatalf("mobile overlay should be closed")
	}
	h.Send(tea.WindowSizeMsg{Width: 120, Height: 20})
	st = h.Model().Nav().State()
	if st.Mobile || !st.Expanded {
		t.Fatalf("unexpected state after wide resize %+v", st)
	}
}

func TestFixedWidthIgnoresResize(t *testing.T) {
	h := NewHarness(NewModel(Options{Width: 120}))
	defer h.Model().Close()
	h.Send(tea.WindowSizeMsg{Width: 40, Height: 10})
	if h.Model().Nav().Mobile() {
		t.Fatalf("fixed width should not follow the terminal")
	}
}

func TestMobileOverlayOpensAndCloses(t *testing.T) {
	h := NewHarness(NewModel(Options{Width: 60, Height: 10}))
	defer h.Model().Close()
	if strings.Contains(h.View(), scrimFill) {
		t.Fatalf("scrim should be hidden while the overlay is closed")
	}
	h.Press(tea.KeyCtrlB)
	if !h.Model().Nav().State().MobileOpen {
		t.Fatalf("expected overlay open")
	}
	if !strings.Contains(h.View(), scrimFill) {
		t.Fatalf("expected scrim in view:\n%s", h.View())
	}
	h.Press(tea.KeyEsc)
	if h.Model().Nav().Open() {
		t.Fatalf("expected esc to close the overlay")
	}
	h.Press(tea.KeyEsc)
	if h.Model().Nav().Open() {
		t.Fatalf("closing twice should stay closed")
	}
}

func TestEscOnDesktopKeepsSidebar(t *testing.T) {
	h := NewHarness(NewModel(Options{Width: 100}))
	defer h.Model().Close()
	h.Press(tea.KeyEsc)
	if !h.Model().Nav().Open() {
		t.Fatalf("esc should not collapse the desktop sidebar")
	}
}

func TestScrimClickClosesOverlay(t *testing.T) {
	h := NewHarness(NewModel(Options{Width: 60, Height: 10}))
	defer h.Model().Close()
	h.Press(tea.KeyCtrlB)
	h.Send(tea.MouseMsg{X: 5, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !h.Model().Nav().Open() {
		t.Fatalf("click inside the overlay should not close it")
	}
	h.Send(tea.MouseMsg{X: 40, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if h.Model().Nav().Open() {
		t.Fatalf("click on the scrim should close the overlay")
	}
}

func TestScrimClickIgnoresHeaderAndFooter(t *testing.T) {
	h := NewHarness(NewModel(Options{Width: 60, Height: 10, ShowFooter: true}))
	defer h.Model().Close()
	h.Press(tea.KeyCtrlB)
	for _, y := range []int{0, 9} {
		h.Send(tea.MouseMsg{X: 40, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
		if !h.Model().Nav().Open() {
			t.Fatalf("click on row %d outside the scrim closed the overlay", y)
		}
	}
	h.Send(tea.MouseMsg{X: 40, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if h.Model().Nav().Open() {
		t.Fatalf("click on the first scrim row should close the overlay")
	}
}

func TestNarrowInitialWidthStartsMobileAndFollowsResize(t *testing.T) {
	h := NewHarness(NewModel(Options{InitialWidth: 50}))
	defer h.Model().Close()
	if !h.Model().Nav().Mobile() {
		t.Fatalf("expected mobile layout from the initial width")
	}
	h.Send(tea.WindowSizeMsg{Width: 120, Height: 20})
	if h.Model().Nav().Mobile() {
		t.Fatalf("initial width must not pin the layout")
	}
}

func TestSelectingLinkNavigates(t *testing.T) {
	h := NewHarness(NewModel(Options{Width: 100}))
	defer h.Model().Close()
	h.Press(tea.KeyDown)
	h.Press(tea.KeyEnter)
	if h.Model().Route() != RouteStudents {
		t.Fatalf("expected students route, got %q", h.Model().Route())
	}
	if !strings.Contains(h.View(), "Sign in to see your classes.") {
		t.Fatalf("expected students view:\n%s", h.View())
	}
}

func TestSelectingOnMobileClosesOverlay(t *testing.T) {
	h := NewHarness(NewModel(Options{Width: 60}))
	defer h.Model().Close()
	h.Press(tea.KeyCtrlB)
	h.Press(tea.KeyDown)
	h.Press(tea.KeyEnter)
	if h.Model().Route() != RouteStudents {
		t.Fatalf("expected students route, got %q", h.Model().Route())
	}
	if h.Model().Nav().Open() {
		t.Fatalf("overlay should close after a selection")
	}
}

func TestAnchorShowsInfo(t *testing.T) {
	h := NewHarness(NewModel(Options{Width: 100}))
	defer h.Model().Close()
	h.Model().menu.Focus("help")
	h.Press(tea.KeyEnter)
	if h.Model().Route() != RouteHome {
		t.Fatalf("anchor should not change route")
	}
	if !strings.Contains(h.Model().currentInfo(), "https://www.schools.gov.sg") {
		t.Fatalf("expected info about the external link, got %q", h.Model().currentInfo())
	}
}

func TestFilterSelectsBestMatch(t *testing.T) {
	h := NewHarness(NewModel(Options{Width: 100}))
	defer h.Model().Close()
	h.Type("/")
	if !h.Model().filtering {
		t.Fatalf("expected filter mode")
	}
	h.Type("stu")
	if got := h.Model().menu.Filter(); got != "stu" {
		t.Fatalf("expected filter %q, got %q", "stu", got)
	}
	if !strings.Contains(h.View(), "/stu") {
		t.Fatalf("expected filter prompt in view:\n%s", h.View())
	}
	h.Press(tea.KeyEnter)
	if h.Model().filtering {
		t.Fatalf("enter should leave filter mode")
	}
	if h.Model().Route() != RouteStudents {
		t.Fatalf("expected students route, got %q", h.Model().Route())
	}
}

func TestFilterEscRestoresItems(t *testing.T) {
	h := NewHarness(NewModel(Options{Width: 100}))
	defer h.Model().Close()
	h.Type("/zzz")
	if n := len(h.Model().menu.Items()); n != 0 {
		t.Fatalf("expected no matches, got %d", n)
	}
	h.Press(tea.KeyEsc)
	if h.Model().filtering || len(h.Model().menu.Items()) != 4 {
		t.Fatalf("esc should clear the filter")
	}
}

func TestFilterOpensCollapsedSidebar(t *testing.T) {
	h := NewHarness(NewModel(Options{Width: 60}))
	defer h.Model().Close()
	h.Type("/")
	if !h.Model().Nav().Open() {
		t.Fatalf("filtering should open the overlay")
	}
	h.Press(tea.KeyBackspace)
	if h.Model().filtering {
		t.Fatalf("backspace on an empty filter should leave filter mode")
	}
}

func TestQuitKey(t *testing.T) {
	h := NewHarness(NewModel(Options{Width: 100}))
	defer h.Model().Close()
	h.Type("q")
	if !h.Quit() {
		t.Fatalf("expected quit")
	}
}

func TestBackendViewportEventResizes(t *testing.T) {
	m := NewModel(Options{})
	defer m.Close()
	m.applyBackendEvent(backend.Event{Kind: backend.KindViewport, Data: 50})
	if !m.Nav().Mobile() {
		t.Fatalf("expected mobile after narrow viewport event")
	}
	m.applyBackendEvent(backend.Event{Kind: backend.KindViewport, Data: 0})
	if !m.Nav().Mobile() || m.width != 50 {
		t.Fatalf("unmeasured widths should be ignored")
	}
}

func TestBackendAuthStatusInFooter(t *testing.T) {
	m := NewModel(Options{Width: 100, ShowFooter: true})
	defer m.Close()
	m.applyBackendEvent(backend.Event{Kind: backend.KindAuth, Data: true})
	if !strings.Contains(m.View(), "auth online") {
		t.Fatalf("expected online status:\n%s", m.View())
	}
	m.applyBackendEvent(backend.Event{Kind: backend.KindAuth, Err: errTest("refused")})
	if !strings.Contains(m.View(), "auth offline") {
		t.Fatalf("expected offline status:\n%s", m.View())
	}
	if ok, msg := m.hasBackendIssue(); !ok || msg != "refused" {
		t.Fatalf("expected backend issue, got %v %q", ok, msg)
	}
}

func TestBackendDoneClearsWatcher(t *testing.T) {
	w := backend.NewWatcher(backend.Options{})
	m := NewModel(Options{Watcher: w})
	defer m.Close()
	w.Stop()
	h := NewHarness(m)
	h.processCmd(m.Init())
	if m.backend != nil {
		t.Fatalf("expected watcher to be dropped once its channel closes")
	}
}

func TestCloseReleasesViewportSubscription(t *testing.T) {
	m := NewModel(Options{})
	if n := m.Feed().Subscribers(); n != 1 {
		t.Fatalf("expected one subscriber, got %d", n)
	}
	m.Close()
	m.Close()
	if n := m.Feed().Subscribers(); n != 0 {
		t.Fatalf("expected subscription released, got %d", n)
	}
	m.Feed().Publish(40)
	if m.Nav().Mobile() {
		t.Fatalf("released controller should not observe widths")
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
