package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/views/sentence"
	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/views/sentences"
)

// App is the corpus browser following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	documentsView *documents.View
	sentencesView *sentences.View
	sentenceView  *sentence.View
	statusBar     *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when the help view is closed.
	previousView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		documentsView: documents.NewView(s, ports.Document),
		sentencesView: sentences.NewView(s, ports.Document),
		sentenceView:  sentence.NewView(s),
		statusBar:     status.NewBar(s, km),
		currentView:   messages.ViewDocuments,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.updateStatus()
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("conllu - Corpus Browser"),
		a.documentsView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	a.updateStatus()
	return a, cmd
}

//nolint:gocyclo // central message handler
func (a *App) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		a.err = nil
		return nil

	case messages.DocumentsLoaded, messages.DocumentDeleted:
		a.documentsView, cmd = a.documentsView.Update(msg)
		a.err = a.documentsView.Err()
		return cmd

	case messages.DocumentSelected:
		a.currentView = messages.ViewSentences
		return a.sentencesView.Load(msg.DocID)

	case messages.DocumentLoaded:
		a.sentencesView, cmd = a.sentencesView.Update(msg)
		a.err = a.sentencesView.Err()
		return cmd

	case messages.SentenceSelected:
		a.sentenceView.SetSentence(msg.Sentence)
		a.currentView = messages.ViewSentence
		return nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return nil

	case messages.Quit:
		return tea.Quit
	}

	// Forward other messages to the active view
	switch a.currentView {
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewSentences:
		a.sentencesView, cmd = a.sentencesView.Update(msg)
	case messages.ViewSentence:
		a.sentenceView, cmd = a.sentenceView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	k := msg.String()

	if keymap.Matches(k, a.keymap.Quit) {
		return tea.Quit
	}

	if a.currentView == messages.ViewHelp {
		if keymap.Matches(k, a.keymap.Help) || keymap.Matches(k, a.keymap.Back) {
			a.currentView = a.previousView
		}
		return nil
	}
	if keymap.Matches(k, a.keymap.Help) {
		a.previousView = a.currentView
		a.currentView = messages.ViewHelp
		return nil
	}

	switch a.currentView {
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewSentences:
		a.sentencesView, cmd = a.sentencesView.Update(msg)
	case messages.ViewSentence:
		a.sentenceView, cmd = a.sentenceView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// updateStatus refreshes the status bar from the active view.
func (a *App) updateStatus() {
	bar := a.statusBar
	bar.Clear()
	bar.SetHints(nil)

	switch a.currentView {
	case messages.ViewDocuments:
		bar.SetCount(len(a.documentsView.Documents()), "documents")
		bar.SetHints(a.keymap.DocumentsHelp())
		if a.documentsView.Loading() {
			bar.SetState(status.StateLoading)
		}
	case messages.ViewSentences:
		if doc := a.sentencesView.Document(); doc != nil {
			bar.SetCount(len(doc.Sentences), "sentences")
		}
	case messages.ViewSentence:
		if sent := a.sentenceView.Sentence(); sent != nil {
			bar.SetCount(len(sent.Tokens), "tokens")
		}
		bar.SetHints(a.keymap.SentenceHelp())
	case messages.ViewHelp:
		bar.SetState(status.StateHelp)
	}

	if a.err != nil {
		bar.SetState(status.StateError)
		bar.SetMessage(a.err.Error())
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewDocuments:
		body = a.documentsView.View()
	case messages.ViewSentences:
		body = a.sentencesView.View()
	case messages.ViewSentence:
		body = a.sentenceView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	}

	return body + "\n" + a.statusBar.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Muted.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions and resizes every view.
// One line is kept for the status bar.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	body := max(height-1, 1)
	a.documentsView.SetDimensions(width, body)
	a.sentencesView.SetDimensions(width, body)
	a.sentenceView.SetDimensions(width, body)
	a.statusBar.SetWidth(width)
}
