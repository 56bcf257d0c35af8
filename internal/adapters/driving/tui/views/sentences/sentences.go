// Package sentences provides the view listing the sentences of one document.
package sentences

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/conllu-cli/internal/core/domain"
	"github.com/custodia-labs/conllu-cli/internal/core/ports/driving"
)

// View lists the sentences of a document.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	documentService driving.DocumentService

	list     *list.List
	document *domain.Document
	loading  bool
	err      error
}

// NewView creates a new sentences view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	return &View{
		styles:          s,
		keymap:          km,
		documentService: documentService,
		list:            list.New("Sentences", s, km),
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Load returns a command that fetches the document with its sentences.
func (v *View) Load(docID int) tea.Cmd {
	v.loading = true
	v.err = nil
	svc := v.documentService
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentLoaded{Err: fmt.Errorf("document service not available")}
		}
		doc, err := svc.Get(context.Background(), docID)
		return messages.DocumentLoaded{Document: doc, Err: err}
	}
}

// Update handles messages for the sentences view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.SetDocument(msg.Document)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewDocuments} }
	case keymap.Matches(k, v.keymap.Select):
		if sent := v.SelectedSentence(); sent != nil {
			selected := *sent
			return v, func() tea.Msg { return messages.SentenceSelected{Sentence: selected} }
		}
	default:
		v.list, _ = v.list.Update(msg)
	}
	return v, nil
}

// SetDocument shows the sentences of doc.
func (v *View) SetDocument(doc *domain.Document) {
	v.document = doc
	v.err = nil
	if doc == nil {
		v.list.SetRows(nil)
		return
	}

	rows := make([]list.Row, len(doc.Sentences))
	for i := range doc.Sentences {
		sent := &doc.Sentences[i]
		text := sent.Text
		if text == "" {
			text = "(no text)"
		}
		rows[i] = list.Row{
			Label:  fmt.Sprintf("%4d  %s", sent.ID, text),
			Detail: fmt.Sprintf("%d tokens", len(sent.Tokens)),
		}
	}
	v.list.SetRows(rows)
	v.list.SetSelected(0)
}

// View renders the sentences view.
func (v *View) View() string {
	var b strings.Builder

	if v.document != nil {
		b.WriteString(v.styles.Title.Render(v.document.Filename))
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  doc %d · %s", v.document.ID, v.document.Source)))
		b.WriteString("\n\n")
	}

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading document..."))
	default:
		b.WriteString(v.list.View())
	}

	return b.String()
}

// Document returns the displayed document.
func (v *View) Document() *domain.Document {
	return v.document
}

// SelectedSentence returns the highlighted sentence, or nil if there is none.
func (v *View) SelectedSentence() *domain.Sentence {
	if v.document == nil {
		return nil
	}
	i := v.list.Selected()
	if i < 0 || i >= len(v.document.Sentences) {
		return nil
	}
	return &v.document.Sentences[i]
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.list.SetDimensions(width, max(height-2, 1))
}
