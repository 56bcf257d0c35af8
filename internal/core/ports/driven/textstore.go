package driven

import "context"

// FileEnumerator discovers the files of a corpus.
type FileEnumerator interface {
	// Enumerate returns the locators of all files under root, sorted.
	// A stable order keeps document ids reproducible across runs.
	Enumerate(ctx context.Context, root string) ([]string, error)
}

// TextStore reads and writes whole-file text.
// Errors wrap domain.ErrFileAccess; undecodable content wraps domain.ErrUndecodable.
// Error messages leave out the locator, which callers report themselves.
type TextStore interface {
	// ReadText returns the full text at locator.
	ReadText(ctx context.Context, locator string) (string, error)

	// WriteText replaces the full text at locator.
	WriteText(ctx context.Context, locator, text string) error

	// DisplayName returns the name shown for a locator (usually its base name).
	DisplayName(locator string) string
}

// Watcher reports files that changed under a corpus root.
type Watcher interface {
	// Watch emits the locator of each created or modified file until ctx is cancelled.
	// Both channels are closed when watching stops.
	Watch(ctx context.Context, root string) (<-chan string, <-chan error)
}
