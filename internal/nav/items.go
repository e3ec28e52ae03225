package nav

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ItemKind selects how a sidebar entry behaves when chosen.
type ItemKind int

const (
	// KindLink switches the routed main view.
	KindLink ItemKind = iota
	// KindAnchor points outside the workspace; choosing it only reveals the
	// address.
	KindAnchor
	// KindButton runs a named action.
	KindButton
)

func (k ItemKind) String() string {
	switch k {
	case KindLink:
		return "link"
	case KindAnchor:
		return "anchor"
	case KindButton:
		return "button"
	default:
		return "unknown"
	}
}

// Item is one sidebar entry. Target is a route for links, an address for
// anchors and an action name for buttons.
type Item struct {
	ID     string
	Label  string
	Icon   string
	Kind   ItemKind
	Target string
}

// DefaultItems returns the workspace sidebar entries.
func DefaultItems() []Item {
	return []Item{
		{ID: "home", Label: "Home", Icon: "⌂", Kind: KindLink, Target: "/"},
		{ID: "students", Label: "Students", Icon: "☺", Kind: KindLink, Target: "/students"},
		{ID: "signin", Label: "Sign in", Icon: "→", Kind: KindButton, Target: "signin"},
		{ID: "help", Label: "Help centre", Icon: "?", Kind: KindAnchor, Target: "https://www.schools.gov.sg"},
	}
}

// Menu holds the sidebar entries with a cursor and an optional filter.
type Menu struct {
	full   []Item
	items  []Item
	cursor int
	filter string
}

// NewMenu returns a menu over items with the cursor on the first entry.
func NewMenu(items []Item) *Menu {
	m := &Menu{full: cloneItems(items)}
	m.items = cloneItems(m.full)
	return m
}

// Items returns the visible entries.
func (m *Menu) Items() []Item { return m.items }

// Cursor returns the index of the highlighted entry.
func (m *Menu) Cursor() int { return m.cursor }

// Filter returns the active filter query.
func (m *Menu) Filter() string { return m.filter }

// Selected returns the highlighted entry.
func (m *Menu) Selected() (Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return Item{}, false
	}
	return m.items[m.cursor], true
}

// Move shifts the cursor by delta, wrapping at both ends.
func (m *Menu) Move(delta int) {
	n := len(m.items)
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = ((m.cursor+delta)%n + n) % n
}

// Focus puts the cursor on the entry with id, if visible.
func (m *Menu) Focus(id string) bool {
	idx := IndexOf(m.items, id)
	if idx < 0 {
		return false
	}
	m.cursor = idx
	return true
}

// SetFilter narrows the visible entries to those matching query and keeps
// the cursor on the best match.
func (m *Menu) SetFilter(query string) {
	m.filter = query
	m.items = FilterItems(m.full, query)
	m.cursor = BestMatchIndex(m.items, query)
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// FilterItems returns the entries whose labels fuzzily match query, keeping
// their original order.
func FilterItems(items []Item, query string) []Item {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return cloneItems(items)
	}
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	matches := make(map[int]struct{}, len(ranks))
	for _, rank := range ranks {
		matches[rank.OriginalIndex] = struct{}{}
	}
	lower := strings.ToLower(trimmed)
	filtered := make([]Item, 0, len(items))
	for idx, item := range items {
		if _, ok := matches[idx]; ok || strings.Contains(strings.ToLower(item.ID), lower) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// BestMatchIndex prefers exact, then prefix, then closest fuzzy matches.
// It returns -1 when items is empty.
func BestMatchIndex(items []Item, query string) int {
	if len(items) == 0 {
		return -1
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	for i, item := range items {
		if strings.EqualFold(item.Label, trimmed) || strings.EqualFold(item.ID, trimmed) {
			return i
		}
	}
	for i, item := range items {
		if strings.HasPrefix(strings.ToLower(item.Label), lower) {
			return i
		}
	}
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance ||
			(rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex) {
			best = rank
		}
	}
	return best.OriginalIndex
}

// IndexOf returns the position of id in items, or -1.
func IndexOf(items []Item, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func cloneItems(items []Item) []Item {
	if len(items) == 0 {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
