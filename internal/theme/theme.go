package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Sidebar          *lipgloss.Style
	SidebarRail      *lipgloss.Style
	SidebarTitle     *lipgloss.Style
	NavItem          *lipgloss.Style
	NavItemActive    *lipgloss.Style
	NavItemCursor    *lipgloss.Style
	Scrim            *lipgloss.Style
	Header           *lipgloss.Style
	Footer           *lipgloss.Style
	Title            *lipgloss.Style
	Body             *lipgloss.Style
	Muted            *lipgloss.Style
	Strong           *lipgloss.Style
	Error            *lipgloss.Style
	Info             *lipgloss.Style
	Link             *lipgloss.Style
	LinkDisabled     *lipgloss.Style
	Card             *lipgloss.Style
	CardFeatured     *lipgloss.Style
	CardIcon         *lipgloss.Style
	Panel            *lipgloss.Style
	Filter           *lipgloss.Style
	FilterPrompt     *lipgloss.Style
	Cursor           *lipgloss.Style
	StatusOnline     *lipgloss.Style
	StatusOffline    *lipgloss.Style
	InputInvalid     *lipgloss.Style
	InputPlaceholder *lipgloss.Style
}

var defaultStyles = Styles{
	Sidebar: ptr(
		lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1),
	),
	SidebarRail: ptr(
		lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("238")).
			Align(lipgloss.Center),
	),
	SidebarTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	NavItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	NavItemActive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	NavItemCursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	),
	Scrim: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	),
	Title: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	Body: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	Muted: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	),
	Strong: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Link: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Underline(true),
	),
	LinkDisabled: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Card: ptr(
		lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
	),
	CardFeatured: ptr(
		lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("245")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
	),
	CardIcon: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	Panel: ptr(
		lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")),
	),
	StatusOnline: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	),
	StatusOffline: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("166")),
	),
	InputInvalid: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	),
	InputPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
