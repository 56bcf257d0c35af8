// Package sentence provides the scrollable token table of one sentence.
package sentence

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/conllu-cli/internal/core/domain"
	"github.com/custodia-labs/conllu-cli/internal/parsers/conllu"
)

// Column positions styled specially in the table.
const (
	colUPOS   = 3
	colDepRel = 7
)

// View shows a sentence's metadata and tokens.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	viewport viewport.Model
	sentence *domain.Sentence
}

// NewView creates a new sentence view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		keymap:   keymap.DefaultKeyMap(),
		viewport: viewport.New(80, 20),
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetSentence replaces the displayed sentence and scrolls to the top.
func (v *View) SetSentence(sent domain.Sentence) {
	v.sentence = &sent
	v.viewport.SetContent(v.render())
	v.viewport.GotoTop()
}

// Sentence returns the displayed sentence.
func (v *View) Sentence() *domain.Sentence {
	return v.sentence
}

// Update handles messages for the sentence view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keymap.Matches(keyMsg.String(), v.keymap.Back) {
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSentences} }
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the sentence view.
func (v *View) View() string {
	if v.sentence == nil {
		return v.styles.Muted.Render("No sentence selected")
	}

	footer := v.styles.Muted.Render(fmt.Sprintf("%3.f%%", v.viewport.ScrollPercent()*100))
	return v.viewport.View() + "\n" + footer
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.viewport.Width = width
	v.viewport.Height = max(height-1, 1)
	if v.sentence != nil {
		v.viewport.SetContent(v.render())
	}
}

// AtTop reports whether the viewport shows the first line.
func (v *View) AtTop() bool {
	return v.viewport.AtTop()
}

func (v *View) render() string {
	sent := v.sentence
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Sentence %d", sent.ID)))
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  doc %d", sent.DocID)))
	b.WriteString("\n")
	if sent.Text != "" {
		b.WriteString(v.styles.Normal.Render(sent.Text))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, attr := range sent.Metadata {
		line := "# " + attr.Key
		if !attr.Bare {
			line += " = " + attr.Value
		}
		b.WriteString(v.styles.Muted.Render(line))
		b.WriteString("\n")
	}
	if len(sent.Metadata) > 0 {
		b.WriteString("\n")
	}

	if len(sent.Tokens) == 0 {
		b.WriteString(v.styles.Muted.Render("No tokens"))
		return b.String()
	}

	b.WriteString(v.tokenTable(sent.Tokens))
	return b.String()
}

func (v *View) tokenTable(tokens []domain.Token) string {
	rows := make([][]string, len(tokens))
	for i := range tokens {
		cols := conllu.Columns(&tokens[i].Fields)
		rows[i] = cols[:]
	}

	return table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(conllu.ColumnNames[:]...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return v.cellStyle(tokens, row, col)
		}).
		String()
}

func (v *View) cellStyle(tokens []domain.Token, row, col int) lipgloss.Style {
	base := lipgloss.NewStyle().PaddingRight(1)
	if row == table.HeaderRow {
		return v.styles.Header.Inherit(base)
	}
	if row < 0 || row >= len(tokens) {
		return base
	}

	if tokens[row].Fields.IndexKind() != domain.IndexWord {
		return v.styles.Span.Inherit(base)
	}
	switch col {
	case colUPOS:
		return v.styles.Tag.Inherit(base)
	case colDepRel:
		return v.styles.Relation.Inherit(base)
	default:
		return v.styles.Normal.Inherit(base)
	}
}
