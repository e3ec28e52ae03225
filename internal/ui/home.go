package ui

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

const cardWidth = 30

// appCard is one tile on the home view.
type appCard struct {
	Icon        string
	Title       string
	Description string
	Featured    bool
}

var homeCards = []appCard{
	{Icon: "☺", Title: "Students", Description: "Class lists and student profiles", Featured: true},
	{Icon: "✎", Title: "Forms", Description: "Consent forms and announcements"},
	{Icon: "☰", Title: "Reports", Description: "Attendance and progress reports"},
}

// greeting returns the salutation for the hour of t: morning from 05:00,
// afternoon from 12:00, evening from 18:00 until 05:00.
func greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "Good morning"
	case h >= 12 && h < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

func (m *Model) greetingLine() string {
	text := greeting(m.now())
	if m.user != "" {
		text += ", " + displayName(m.user)
	}
	return text
}

// displayName turns "jane.tan@schools.gov.sg" into "Jane Tan".
func displayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, p := range parts {
		if p == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(p)
		parts[i] = string(unicode.ToUpper(r)) + p[size:]
	}
	if len(parts) == 0 {
		return email
	}
	return strings.Join(parts, " ")
}

func renderCard(card appCard, width int) string {
	style := styles.Card
	if card.Featured {
		style = styles.CardFeatured
	}
	icon := card.Icon
	if styles.CardIcon != nil {
		icon = styles.CardIcon.Render(icon)
	}
	title := card.Title
	if styles.Strong != nil {
		title = styles.Strong.Render(title)
	}
	desc := card.Description
	if styles.Muted != nil {
		desc = styles.Muted.Render(desc)
	}
	body := icon + " " + title + "\n" + desc
	if style == nil {
		return body
	}
	// Width excludes the border.
	inner := width - 2
	if inner < 1 {
		inner = 1
	}
	return style.Copy().Width(inner).Render(body)
}

// renderCards lays the cards out in as many columns as fit into width.
func renderCards(cards []appCard, width int) string {
	if len(cards) == 0 {
		return ""
	}
	w := cardWidth
	if width > 0 && width < w {
		w = width
	}
	perRow := 1
	if width > 0 {
		perRow = width / (w + 1)
		if perRow < 1 {
			perRow = 1
		}
	}
	rows := make([]string, 0, (len(cards)+perRow-1)/perRow)
	for start := 0; start < len(cards); start += perRow {
		end := start + perRow
		if end > len(cards) {
			end = len(cards)
		}
		cols := make([]string, 0, (end-start)*2)
		for i := start; i < end; i++ {
			if i > start {
				cols = append(cols, " ")
			}
			cols = append(cols, renderCard(cards[i], w))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) homeLines(width int) []styledLine {
	lines := []styledLine{
		{text: m.greetingLine(), style: styles.Title},
		{text: "Here is what is happening in your workspace.", style: styles.Muted},
		{},
	}
	for _, row := range strings.Split(renderCards(homeCards, width), "\n") {
		lines = append(lines, styledLine{text: row, raw: true})
	}
	return lines
}

func (m *Model) studentsLines() []styledLine {
	lines := []styledLine{
		{text: "Students", style: styles.Title},
		{},
	}
	if m.user == "" {
		lines = append(lines,
			styledLine{text: "Sign in to see your classes.", style: styles.Muted},
			styledLine{text: "Press s to sign in.", style: styles.Info},
		)
		return lines
	}
	return append(lines, styledLine{text: "No classes assigned to " + m.user + " yet.", style: styles.Muted})
}
