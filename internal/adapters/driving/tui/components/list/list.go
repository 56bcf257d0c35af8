// Package list provides a scrolling, selectable row list for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/styles"
)

// Row is one line of the list.
type Row struct {
	// Label is the main text, truncated to the list width.
	Label string

	// Detail is shown muted after the label.
	Detail string
}

// List displays rows and tracks the selection.
// Only the rows that fit in the height are rendered.
type List struct {
	title    string
	rows     []Row
	selected int
	offset   int
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	width    int
	height   int
}

// New creates an empty list with a title.
func New(title string, s *styles.Styles, km *keymap.KeyMap) *List {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &List{
		title:  title,
		styles: s,
		keymap: km,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *List) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys.
func (l *List) Update(msg tea.Msg) (*List, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	k := keyMsg.String()
	switch {
	case keymap.Matches(k, l.keymap.Up):
		l.MoveUp()
	case keymap.Matches(k, l.keymap.Down):
		l.MoveDown()
	case keymap.Matches(k, l.keymap.PageUp):
		l.move(-l.visibleRows())
	case keymap.Matches(k, l.keymap.PageDown):
		l.move(l.visibleRows())
	}
	return l, nil
}

// View renders the title and the visible rows.
func (l *List) View() string {
	var b strings.Builder

	b.WriteString(l.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", l.title, len(l.rows))))
	b.WriteString("\n\n")

	if len(l.rows) == 0 {
		b.WriteString(l.styles.Muted.Render("  Nothing here yet"))
		return b.String()
	}

	end := min(l.offset+l.visibleRows(), len(l.rows))
	for i := l.offset; i < end; i++ {
		b.WriteString(l.renderRow(i))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if end < len(l.rows) {
		b.WriteString("\n")
		b.WriteString(l.styles.Muted.Render(fmt.Sprintf("  … %d more", len(l.rows)-end)))
	}

	return b.String()
}

func (l *List) renderRow(i int) string {
	row := l.rows[i]
	label := truncate(row.Label, max(l.width-len(row.Detail)-6, 10))

	if i == l.selected {
		text := "> " + label
		if row.Detail != "" {
			text += "  " + row.Detail
		}
		return l.styles.Selected.Render(text)
	}

	line := l.styles.Normal.Render("  " + label)
	if row.Detail != "" {
		line += "  " + l.styles.Muted.Render(row.Detail)
	}
	return line
}

// visibleRows is the number of rows that fit below the title.
func (l *List) visibleRows() int {
	return max(l.height-3, 1)
}

func (l *List) move(delta int) {
	if len(l.rows) == 0 {
		return
	}
	l.selected = min(max(l.selected+delta, 0), len(l.rows)-1)
	l.adjustScroll()
}

// adjustScroll keeps the selection inside the visible window.
func (l *List) adjustScroll() {
	visible := l.visibleRows()
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if l.selected >= l.offset+visible {
		l.offset = l.selected - visible + 1
	}
}

// SetRows replaces the rows, keeping the selection in range.
func (l *List) SetRows(rows []Row) {
	l.rows = rows
	switch {
	case len(rows) == 0:
		l.selected = 0
		l.offset = 0
	case l.selected >= len(rows):
		l.selected = len(rows) - 1
	}
	l.offset = min(l.offset, l.selected)
	l.adjustScroll()
}

// Rows returns the current rows.
func (l *List) Rows() []Row {
	return l.rows
}

// Selected returns the index of the selected row.
func (l *List) Selected() int {
	return l.selected
}

// SetSelected sets the selected index. Out of range indexes are ignored.
func (l *List) SetSelected(index int) {
	if index >= 0 && index < len(l.rows) {
		l.selected = index
		l.adjustScroll()
	}
}

// Offset returns the index of the first visible row.
func (l *List) Offset() int {
	return l.offset
}

// MoveUp moves the selection up.
func (l *List) MoveUp() {
	l.move(-1)
}

// MoveDown moves the selection down.
func (l *List) MoveDown() {
	l.move(1)
}

// SetDimensions sets the component dimensions.
func (l *List) SetDimensions(width, height int) {
	l.width = width
	l.height = height
	l.adjustScroll()
}

// Count returns the number of rows.
func (l *List) Count() int {
	return len(l.rows)
}

// IsEmpty returns whether the list has no rows.
func (l *List) IsEmpty() bool {
	return len(l.rows) == 0
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
