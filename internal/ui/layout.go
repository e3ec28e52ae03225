package ui

import (
	"unicode/utf8"

	"github.com/atomicstack/teacher-workspace/internal/logging/events"
	"github.com/atomicstack/teacher-workspace/internal/nav"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleLayoutKey(msg tea.KeyMsg) tea.Cmd {
	m.clearInfo()
	m.errMsg = ""
	if m.filtering {
		return m.handleFilterKey(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.toggleNav()
	case key.Matches(msg, m.keys.Close):
		m.closeNav()
	case key.Matches(msg, m.keys.Up):
		m.menu.Move(-1)
	case key.Matches(msg, m.keys.Down):
		m.menu.Move(1)
	case key.Matches(msg, m.keys.Select):
		if item, ok := m.menu.Selected(); ok {
			return m.activate(item)
		}
	case key.Matches(msg, m.keys.Filter):
		m.startFilter()
	case key.Matches(msg, m.keys.SignIn):
		return m.navigate(RouteSignIn)
	}
	return nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopFilter()
		return nil
	case tea.KeyEnter:
		item, ok := m.menu.Selected()
		m.stopFilter()
		if ok {
			return m.activate(item)
		}
		return nil
	case tea.KeyUp:
		m.menu.Move(-1)
		return nil
	case tea.KeyDown:
		m.menu.Move(1)
		return nil
	case tea.KeyBackspace, tea.KeyCtrlH:
		query := m.menu.Filter()
		if query == "" {
			m.stopFilter()
			return nil
		}
		_, size := utf8.DecodeLastRuneInString(query)
		m.setFilter(query[:len(query)-size])
		return nil
	case tea.KeyCtrlU:
		m.setFilter("")
		return nil
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeySpace:
		m.setFilter(m.menu.Filter() + " ")
		return nil
	case tea.KeyRunes:
		m.setFilter(m.menu.Filter() + string(msg.Runes))
		return nil
	}
	return nil
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok || m.route == RouteSignIn {
		return nil
	}
	if mouse.Action != tea.MouseActionPress || mouse.Button != tea.MouseButtonLeft {
		return nil
	}
	// Clicks on the scrim beside the mobile overlay dismiss it.
	if m.scrimHit(mouse.X, mouse.Y) {
		m.closeNav()
	}
	return nil
}

func (m *Model) toggleNav() {
	m.nav.Toggle()
	events.Nav.Toggle(m.nav.Mobile(), m.nav.Open())
}

func (m *Model) closeNav() {
	wasOpen := m.nav.State().MobileOpen
	m.nav.RequestClose()
	events.Nav.Close(wasOpen)
}

func (m *Model) startFilter() {
	if !m.nav.Open() {
		m.toggleNav()
	}
	m.filtering = true
	m.filterCursorDirty = true
}

func (m *Model) stopFilter() {
	m.filtering = false
	m.menu.SetFilter("")
	m.menu.Focus(navItemForRoute(m.route))
	m.filterCursorDirty = true
}

func (m *Model) setFilter(query string) {
	m.menu.SetFilter(query)
	m.filterCursorDirty = true
	events.Nav.Filter(query, len(m.menu.Items()))
}

// activate performs the action of a sidebar entry. The mobile overlay closes
// afterwards so the destination is visible.
func (m *Model) activate(item nav.Item) tea.Cmd {
	events.Nav.Select(item.ID, item.Label)
	var cmd tea.Cmd
	switch item.Kind {
	case nav.KindLink:
		route, ok := routeForPath(item.Target)
		if !ok {
			m.errMsg = "Unknown page " + item.Target
			return nil
		}
		cmd = m.navigate(route)
	case nav.KindButton:
		if item.Target == string(RouteSignIn) {
			cmd = m.navigate(RouteSignIn)
		}
	case nav.KindAnchor:
		m.setInfo("Open " + item.Target + " in your browser")
	}
	if m.nav.Mobile() {
		m.closeNav()
	}
	return cmd
}

// navigate switches routes. Leaving sign-in tears its flow down; entering it
// mounts a fresh one.
func (m *Model) navigate(route Route) tea.Cmd {
	if !route.Valid() || route == m.route {
		return nil
	}
	events.App.Route(string(m.route), string(route))
	if m.route == RouteSignIn {
		m.unmountSignIn()
	}
	m.route = route
	m.forceClearInfo()
	if m.filtering {
		m.stopFilter()
	}
	m.menu.Focus(navItemForRoute(route))
	if route == RouteSignIn {
		return m.mountSignIn()
	}
	return nil
}
