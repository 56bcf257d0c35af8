// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/conllu-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDocuments lists the loaded documents.
	ViewDocuments ViewType = iota
	// ViewSentences lists the sentences of one document.
	ViewSentences
	// ViewSentence shows the tokens of one sentence.
	ViewSentence
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDocuments:
		return "documents"
	case ViewSentences:
		return "sentences"
	case ViewSentence:
		return "sentence"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// DocumentsLoaded carries the document list back to the model.
type DocumentsLoaded struct {
	Documents []domain.Document
	Err       error
}

// DocumentSelected is sent when a document is chosen from the list.
type DocumentSelected struct {
	DocID int
}

// DocumentLoaded carries a full document back to the model.
type DocumentLoaded struct {
	Document *domain.Document
	Err      error
}

// DocumentDeleted is sent after a document has been removed.
type DocumentDeleted struct {
	DocID int
	Err   error
}

// SentenceSelected is sent when a sentence is chosen from a document.
type SentenceSelected struct {
	Sentence domain.Sentence
}

// ErrorOccurred is sent when an error needs to be displayed.
type ErrorOccurred struct {
	Err error
}

// Quit is sent to exit the application.
type Quit struct{}
