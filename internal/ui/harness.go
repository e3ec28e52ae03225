package ui

import tea "github.com/charmbracelet/bubbletea"

// Harness drives the UI model programmatically for integration tests.
// Countdown ticks are queued instead of slept on; Tick delivers them.
type Harness struct {
	model   *Model
	pending []uint64
	quit    bool
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	h := &Harness{model: model}
	if model != nil {
		model.scheduleTick = func(gen uint64) tea.Cmd {
			h.pending = append(h.pending, gen)
			return nil
		}
	}
	return h
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

// Type sends one key press per rune of text.
func (h *Harness) Type(text string) {
	for _, r := range text {
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Press sends a single non-rune key.
func (h *Harness) Press(k tea.KeyType) {
	h.Send(tea.KeyMsg{Type: k})
}

// Tick delivers every queued countdown tick once, as if a second passed.
func (h *Harness) Tick() {
	queued := h.pending
	h.pending = nil
	for _, gen := range queued {
		h.Send(countdownTickMsg{gen: gen})
	}
}

// Advance calls Tick n times.
func (h *Harness) Advance(n int) {
	for i := 0; i < n; i++ {
		h.Tick()
	}
}

// PendingTicks returns the generations of the ticks waiting to be delivered.
func (h *Harness) PendingTicks() []uint64 {
	out := make([]uint64, len(h.pending))
	copy(out, h.pending)
	return out
}

// Quit reports whether the model asked the program to exit.
func (h *Harness) Quit() bool {
	return h.quit
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			h.quit = true
		default:
			mdl, follow := h.model.Update(msg)
			if updated, ok := mdl.(*Model); ok {
				h.model = updated
			}
			queue = append(queue, follow)
		}
	}
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
