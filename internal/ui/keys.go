package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle  key.Binding
	Close   key.Binding
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Filter  key.Binding
	SignIn  key.Binding
	Quit    key.Binding
	Submit  key.Binding
	Resend  key.Binding
	Back    key.Binding
	ForceQ  key.Binding
	ClearIn key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:  key.NewBinding(key.WithKeys("ctrl+b", "["), key.WithHelp("ctrl+b", "sidebar")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		SignIn:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign in")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Resend:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "resend")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		ForceQ:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		ClearIn: key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "clear")),
	}
}

func (k keyMap) layoutHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Up, k.Down, k.Select, k.Filter, k.SignIn, k.Quit}
}

func (k keyMap) filterHelp() []key.Binding {
	return []key.Binding{k.Select, k.Up, k.Down, k.Close}
}

func (k keyMap) signInHelp(canResend bool) []key.Binding {
	resend := k.Resend
	resend.SetEnabled(canResend)
	return []key.Binding{k.Submit, resend, k.Back, k.ForceQ}
}
