// Package documents provides the view listing stored documents.
package documents

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

// View lists documents and lets the user open or delete one.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	documentService driving.DocumentService

	list      *list.List
	documents []domain.Document
	loading   bool
	err       error

	// confirmDelete holds the document awaiting a "y" to be deleted.
	confirmDelete *domain.Document
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	return &View{
		styles:          s,
		keymap:          km,
		documentService: documentService,
		list:            list.New("Documents", s, km),
	}
}

// Init loads the document list.
func (v *View) Init() tea.Cmd {
	return v.Reload()
}

// Reload returns a command that fetches the document list.
func (v *View) Reload() tea.Cmd {
	v.loading = true
	svc := v.documentService
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentsLoaded{Err: fmt.Errorf("document service not available")}
		}
		docs, err := svc.List(context.Background())
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.setDocuments(msg.Documents)
		return v, nil

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.Reload()

	case messages.ErrorOccurred:
		v.err = msg.Err
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	if v.confirmDelete != nil {
		doc := v.confirmDelete
		v.confirmDelete = nil
		if k == "y" {
			return v, v.deleteDocument(doc.ID)
		}
		return v, nil
	}

	switch {
	case keymap.Matches(k, v.keymap.Select):
		if doc := v.SelectedDocument(); doc != nil {
			id := doc.ID
			return v, func() tea.Msg { return messages.DocumentSelected{DocID: id} }
		}
	case keymap.Matches(k, v.keymap.Reload):
		return v, v.Reload()
	case keymap.Matches(k, v.keymap.Delete):
		v.confirmDelete = v.SelectedDocument()
	default:
		v.list, _ = v.list.Update(msg)
	}

	return v, nil
}

func (v *View) deleteDocument(docID int) tea.Cmd {
	svc := v.documentService
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentDeleted{DocID: docID, Err: fmt.Errorf("document service not available")}
		}
		err := svc.Delete(context.Background(), docID)
		return messages.DocumentDeleted{DocID: docID, Err: err}
	}
}

func (v *View) setDocuments(docs []domain.Document) {
	v.documents = docs
	rows := make([]list.Row, len(docs))
	for i := range docs {
		rows[i] = list.Row{
			Label:  fmt.Sprintf("%4d  %s", docs[i].ID, docs[i].Filename),
			Detail: docs[i].Source,
		}
	}
	v.list.SetRows(rows)
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.list.View())
	b.WriteString("\n\n")

	switch {
	case v.confirmDelete != nil:
		b.WriteString(v.styles.Warning.Render(
			fmt.Sprintf("Delete document %d (%s)? y to confirm", v.confirmDelete.ID, v.confirmDelete.Filename)))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	}

	return b.String()
}

// SelectedDocument returns the highlighted document, or nil if the list is empty.
func (v *View) SelectedDocument() *domain.Document {
	i := v.list.Selected()
	if i < 0 || i >= len(v.documents) {
		return nil
	}
	return &v.documents[i]
}

// Documents returns the loaded documents.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Loading reports whether a reload is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.list.SetDimensions(width, max(height-2, 1))
}
