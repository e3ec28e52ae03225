package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/teacher-workspace/internal/nav"
	"github.com/atomicstack/teacher-workspace/internal/signin"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	sidebarWidth = 24 // expanded sidebar and mobile overlay, border included
	railWidth    = 6  // collapsed desktop rail, border included
	appTitle     = "Teacher Workspace"
	scrimFill    = "░"
)

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	width := m.renderWidth()
	footer := m.footerLines(width)
	bodyHeight := m.bodyHeight(len(footer))
	var body []string
	if m.route == RouteSignIn && m.signIn != nil {
		body = m.signInBody(width, bodyHeight)
	} else {
		body = m.layoutBody(width, bodyHeight)
	}
	out := append(body, renderLines(applyWidth(footer, width))...)
	return strings.Join(out, "\n")
}

// bodyHeight is the number of rows above the footer, or -1 while the
// terminal height is unknown.
func (m *Model) bodyHeight(footerRows int) int {
	if m.height <= 0 {
		return -1
	}
	if h := m.height - footerRows; h > 0 {
		return h
	}
	return 1
}

// scrimHit reports whether the cell at x, y is covered by the scrim of the
// open mobile overlay. Row 0 is the header; the footer sits below the body.
func (m *Model) scrimHit(x, y int) bool {
	if !m.nav.Mobile() || !m.nav.Open() || x < m.overlayWidth() || y < 1 {
		return false
	}
	body := m.bodyHeight(len(m.footerLines(m.renderWidth())))
	if body < 0 {
		return true
	}
	return y < body
}

// renderWidth is the width used for layout. Before the terminal has been
// measured the breakpoint is assumed.
func (m *Model) renderWidth() int {
	if m.width > 0 {
		return m.width
	}
	if bp := m.nav.Breakpoint(); bp > 0 {
		return bp
	}
	return nav.DefaultBreakpoint
}

// overlayWidth is the width of the mobile overlay, never wider than the
// terminal.
func (m *Model) overlayWidth() int {
	w := sidebarWidth
	if width := m.renderWidth(); width < w {
		w = width
	}
	return w
}

// sidebarColumnWidth is the width the sidebar takes from the main view. The
// mobile overlay floats above the main view and takes none.
func (m *Model) sidebarColumnWidth() int {
	st := m.nav.State()
	if st.Mobile {
		return 0
	}
	if st.Expanded {
		return sidebarWidth
	}
	return railWidth
}

func (m *Model) layoutBody(width, height int) []string {
	header := m.headerLine(width)
	rows := height
	if rows > 0 {
		rows--
	}
	mainWidth := width - m.sidebarColumnWidth()
	if mainWidth < 1 {
		mainWidth = 1
	}
	var content []styledLine
	switch m.route {
	case RouteStudents:
		content = m.studentsLines()
	default:
		content = m.homeLines(mainWidth - 2)
	}
	content = applyWidth(limitHeight(content, rows, mainWidth-2), mainWidth-2)
	mainLines := renderLines(content)
	for i := range mainLines {
		mainLines[i] = "  " + mainLines[i]
	}
	target := rows
	if target <= 0 {
		target = len(m.menu.Items()) + 1
	}
	for len(mainLines) < target {
		mainLines = append(mainLines, "")
	}

	st := m.nav.State()
	var composed []string
	switch {
	case st.Mobile && st.MobileOpen:
		composed = m.overlay(mainLines, width)
	case st.Mobile:
		composed = mainLines
	default:
		sideWidth := m.sidebarColumnWidth()
		side := m.sidebarLines(st.Expanded, sideWidth, len(mainLines))
		composed = make([]string, len(mainLines))
		for i, line := range mainLines {
			composed[i] = side[i] + fitCell(line, mainWidth)
		}
	}
	return append([]string{header}, composed...)
}

func (m *Model) headerLine(width int) string {
	trigger := "≡"
	if m.nav.Open() {
		trigger = "«"
	}
	left := fmt.Sprintf("%s %s › %s", trigger, appTitle, m.route.Title())
	if styles.Header != nil {
		left = styles.Header.Render(left)
	}
	user := m.user
	if user == "" {
		return fitCell(left, width)
	}
	if styles.Muted != nil {
		user = styles.Muted.Render(user)
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(user)
	if gap < 1 {
		return fitCell(left, width)
	}
	return left + strings.Repeat(" ", gap) + user
}

// overlay draws the sidebar over the left edge of the main view and covers
// the remainder with the scrim.
func (m *Model) overlay(mainLines []string, width int) []string {
	ow := m.overlayWidth()
	side := m.sidebarLines(true, ow, len(mainLines))
	scrimWidth := width - ow
	scrim := ""
	if scrimWidth > 0 {
		scrim = strings.Repeat(scrimFill, scrimWidth)
		if styles.Scrim != nil {
			scrim = styles.Scrim.Render(scrim)
		}
	}
	out := make([]string, len(mainLines))
	for i := range mainLines {
		out[i] = side[i] + scrim
	}
	return out
}

// sidebarLines renders the navigation column. Every returned line is exactly
// width cells wide and ends with the column border.
func (m *Model) sidebarLines(expanded bool, width, rows int) []string {
	inner := width - 1
	if inner < 1 {
		inner = 1
	}
	lines := make([]string, 0, rows)
	if expanded && m.filtering {
		lines = append(lines, m.filterLine(inner))
	}
	items := m.menu.Items()
	active := navItemForRoute(m.route)
	for i, item := range items {
		lines = append(lines, m.navItemLine(item, i == m.menu.Cursor(), item.ID == active, expanded, inner))
	}
	if len(items) == 0 && m.filtering {
		line := "no matches"
		if styles.Muted != nil {
			line = styles.Muted.Render(line)
		}
		lines = append(lines, fitCell(" "+line, inner))
	}
	if rows > 0 && len(lines) > rows {
		lines = lines[:rows]
	}
	for len(lines) < rows {
		lines = append(lines, strings.Repeat(" ", inner))
	}
	border := "│"
	if styles.Scrim != nil {
		border = styles.Scrim.Render(border)
	}
	for i := range lines {
		lines[i] = fitCell(lines[i], inner) + border
	}
	return lines
}

func (m *Model) navItemLine(item nav.Item, cursor, active, expanded bool, width int) string {
	marker := " "
	if cursor {
		marker = "›"
		if styles.NavItemCursor != nil {
			marker = styles.NavItemCursor.Render(marker)
		}
	}
	text := item.Icon
	if expanded {
		text = item.Icon + " " + item.Label
		if item.Kind == nav.KindAnchor {
			text += " ↗"
		}
	}
	style := styles.NavItem
	if active {
		style = styles.NavItemActive
	}
	if style != nil {
		text = style.Render(text)
	}
	if !expanded {
		return fitCell(" "+marker+text, width)
	}
	return fitCell(marker+" "+text, width)
}

func (m *Model) filterLine(width int) string {
	prompt := "/"
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	query := m.menu.Filter()
	if styles.Filter != nil {
		query = styles.Filter.Render(query)
	}
	return fitCell(prompt+query+m.filterCursor.View(), width)
}

func (m *Model) signInBody(width, height int) []string {
	v := m.signIn
	st := v.flow.State()
	header := "Sign in"
	if styles.Header != nil {
		header = styles.Header.Render(header)
	}
	closeHint := "esc ✕"
	if styles.Muted != nil {
		closeHint = styles.Muted.Render(closeHint)
	}
	top := header
	if gap := width - lipgloss.Width(header) - lipgloss.Width(closeHint); gap > 0 {
		top = header + strings.Repeat(" ", gap) + closeHint
	}

	inner := width - 6
	if inner > 64 {
		inner = 64
	}
	if inner < 10 {
		inner = 10
	}
	form := renderLines(applyWidth(m.signInFormLines(st), inner-4))
	block := strings.Join(form, "\n")
	if styles.Panel != nil {
		block = styles.Panel.Copy().Width(inner).Render(block)
	}
	lines := []styledLine{{text: top, raw: true}, {}}
	for _, row := range strings.Split(block, "\n") {
		lines = append(lines, styledLine{text: row, raw: true})
	}
	return renderLines(applyWidth(limitHeight(lines, height, width), width))
}

func (m *Model) signInFormLines(st signin.State) []styledLine {
	v := m.signIn
	var lines []styledLine
	if st.Step == signin.StepEmail {
		lines = append(lines,
			styledLine{text: "Sign in to " + appTitle, style: styles.Title},
			styledLine{text: "Enter your @schools.gov.sg email to receive a one-time password.", style: styles.Body},
			styledLine{},
			styledLine{text: "> " + v.email.View(), raw: true},
		)
		if st.Err != nil && st.Err.Field == signin.FieldEmail {
			lines = append(lines, styledLine{text: st.Err.Message, style: styles.InputInvalid})
		}
		return lines
	}

	lines = append(lines,
		styledLine{text: "Enter your one-time password (OTP)", style: styles.Title},
		styledLine{text: "We sent a one-time password to " + st.Email + ".", style: styles.Body},
		styledLine{text: "Enter the characters that follow the prefix shown.", style: styles.Body},
		styledLine{},
	)
	prefix := st.CodePrefix
	if styles.Muted != nil {
		prefix = styles.Muted.Render(prefix)
	}
	lines = append(lines, styledLine{text: prefix + " " + v.code.View(), raw: true})
	if st.Err != nil && st.Err.Field == signin.FieldCode {
		lines = append(lines, styledLine{text: st.Err.Message, style: styles.InputInvalid})
	}
	if st.Verifying {
		lines = append(lines, styledLine{text: "Verifying…", style: styles.Info})
	}
	lines = append(lines,
		styledLine{},
		styledLine{text: "It may take a moment to arrive.", style: styles.Muted},
	)
	if st.Remaining > 0 {
		lines = append(lines, styledLine{text: fmt.Sprintf("Didn't receive? Resend OTP (%d)", st.Remaining), style: styles.LinkDisabled})
	} else {
		lines = append(lines, styledLine{text: "Didn't receive? Resend OTP", style: styles.Link})
	}
	return lines
}

func (m *Model) footerLines(width int) []styledLine {
	var lines []styledLine
	if m.errMsg != "" {
		lines = append(lines, styledLine{text: m.errMsg, style: styles.Error})
	} else if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if !m.showFooter {
		return lines
	}
	if status := m.statusLine(); status != "" {
		lines = append(lines, styledLine{text: status, raw: true})
	}
	m.help.Width = width
	lines = append(lines, styledLine{text: m.help.ShortHelpView(m.helpBindings()), raw: true})
	return lines
}

func (m *Model) statusLine() string {
	var parts []string
	switch m.authStatus {
	case authOnline:
		s := "● auth online"
		if styles.StatusOnline != nil {
			s = styles.StatusOnline.Render(s)
		}
		parts = append(parts, s)
	case authOffline:
		s := "○ auth offline"
		if styles.StatusOffline != nil {
			s = styles.StatusOffline.Render(s)
		}
		parts = append(parts, s)
	}
	if issue, msg := m.hasBackendIssue(); issue && m.authStatus != authOffline {
		if styles.Muted != nil {
			msg = styles.Muted.Render(msg)
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, "  ")
}

func (m *Model) helpBindings() []key.Binding {
	switch {
	case m.route == RouteSignIn && m.signIn != nil:
		st := m.signIn.flow.State()
		return m.keys.signInHelp(st.CanResend())
	case m.filtering:
		return m.keys.filterHelp()
	default:
		return m.keys.layoutHelp()
	}
}

// fitCell truncates or pads s to exactly width cells.
func fitCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w > width {
		s = ansi.Truncate(s, width, "…")
		w = ansi.StringWidth(s)
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{text: text, style: line.style, raw: line.raw}
	}
	return result
}

func renderLines(lines []styledLine) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if !line.raw && line.style != nil && text != "" {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return out
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
