package ui

import (
	"github.com/atomicstack/teacher-workspace/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	cmd := m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		waitCmd := waitForBackendEvent(m.backend)
		if cmd != nil {
			return tea.Batch(cmd, waitCmd)
		}
		return waitCmd
	}
	return cmd
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

func (m *Model) applyBackendEvent(evt backend.Event) tea.Cmd {
	if m.backendState == nil {
		m.backendState = make(map[backend.Kind]error)
	}
	m.backendState[evt.Kind] = evt.Err
	if evt.Err != nil {
		m.backendLastErr = evt.Err.Error()
		if evt.Kind == backend.KindAuth {
			m.authStatus = authOffline
		}
		return nil
	}
	switch evt.Kind {
	case backend.KindViewport:
		if width, ok := evt.Data.(int); ok && !m.fixedWidth {
			m.resizeWidth(width)
		}
	case backend.KindAuth:
		if reachable, ok := evt.Data.(bool); ok && reachable {
			m.authStatus = authOnline
		} else {
			m.authStatus = authOffline
		}
	}
	return nil
}

// hasBackendIssue reports the most recent poller failure, if any poller is
// still failing.
func (m *Model) hasBackendIssue() (bool, string) {
	for _, err := range m.backendState {
		if err != nil {
			if m.backendLastErr != "" {
				return true, m.backendLastErr
			}
			return true, err.Error()
		}
	}
	return false, ""
}
