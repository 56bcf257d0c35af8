// Package filesystem provides access to CoNLL-U corpora stored on local disk.
// It discovers files, reads and rewrites their text, and watches a corpus
// root for changes using fsnotify.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
	"github.com/custodia-labs/conllu-cli/internal/core/ports/driven"
	"github.com/custodia-labs/conllu-cli/internal/logger"
)

// Verify interface compliance.
var (
	_ driven.FileEnumerator = (*Connector)(nil)
	_ driven.TextStore      = (*Connector)(nil)
	_ driven.Watcher        = (*Connector)(nil)
)

// Connector reads and writes corpus files under a local directory tree.
type Connector struct {
	extensions []string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// New creates a filesystem connector matching the given extensions.
// With no extensions, domain.DefaultExtensions are used. Extensions are matched
// case-insensitively and may be given with or without the leading dot.
func New(extensions ...string) *Connector {
	if len(extensions) == 0 {
		extensions = domain.DefaultExtensions
	}
	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return &Connector{extensions: exts}
}

// Extensions returns the extensions this connector matches.
func (c *Connector) Extensions() []string {
	return slices.Clone(c.extensions)
}

// Enumerate returns the paths of all matching files under root in lexical
// order. Hidden files and directories are skipped. A root that is itself a
// file is returned as the only locator.
func (c *Connector) Enumerate(ctx context.Context, root string) ([]string, error) {
	root = ResolvePath(root)

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFileAccess, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			logger.Warn("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path != root && isHidden(path) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !c.matches(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(paths)
	logger.Debug("enumerated %d files under %s", len(paths), root)
	return paths, nil
}

// ReadText returns the content of the file at locator.
func (c *Connector) ReadText(ctx context.Context, locator string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(ResolvePath(locator))
	if err != nil {
		return "", fileAccess(err)
	}
	if !utf8.Valid(data) {
		return "", domain.ErrUndecodable
	}
	return string(data), nil
}

// fileAccess wraps err as a file access failure, dropping the path that
// callers already report alongside it.
func fileAccess(err error) error {
	var pathErr *fs.PathError
	var linkErr *os.LinkError
	switch {
	case errors.As(err, &pathErr):
		err = fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	case errors.As(err, &linkErr):
		err = fmt.Errorf("%s: %w", linkErr.Op, linkErr.Err)
	}
	return fmt.Errorf("%w: %w", domain.ErrFileAccess, err)
}

// WriteText replaces the content of the file at locator, keeping its mode.
// The text is written to a sibling temp file and renamed into place.
func (c *Connector) WriteText(ctx context.Context, locator, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := ResolvePath(locator)

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fileAccess(err)
	}
	tmpName := tmp.Name()

	_, werr := tmp.WriteString(text)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmpName)
		return fileAccess(err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		_ = os.Remove(tmpName)
		return fileAccess(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fileAccess(err)
	}
	return nil
}

// DisplayName returns the base name of locator.
func (c *Connector) DisplayName(locator string) string {
	return filepath.Base(ResolvePath(locator))
}

// Watch emits the path of each matching file created or written under root
// until ctx is cancelled or the connector is closed. Directories created
// while watching are added to the watch set.
func (c *Connector) Watch(ctx context.Context, root string) (<-chan string, <-chan error) {
	changes := make(chan string)
	errs := make(chan error, 1)

	watcher, err := c.startWatcher(ResolvePath(root))
	if err != nil {
		errs <- err
		close(changes)
		close(errs)
		return changes, errs
	}

	go func() {
		defer close(changes)
		defer close(errs)
		defer c.stopWatcher(watcher)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				path, ok := c.handleFsEvent(watcher, event)
				if !ok {
					continue
				}
				select {
				case changes <- path:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				select {
				case errs <- err:
				default:
					logger.Warn("watch error: %v", err)
				}
			}
		}
	}()

	return changes, errs
}

// Close stops any active watch. It is safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.watcher == nil {
		return nil
	}
	err := c.watcher.Close()
	c.watcher = nil
	return err
}

func (c *Connector) startWatcher(root string) (*fsnotify.Watcher, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errors.New("connector is closed")
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFileAccess, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := addRecursive(watcher, root); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	c.watcher = watcher
	return watcher, nil
}

func (c *Connector) stopWatcher(w *fsnotify.Watcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watcher == w {
		_ = w.Close()
		c.watcher = nil
	}
}

// handleFsEvent maps a filesystem event to the path of a changed file.
// Removals, renames and attribute changes are ignored.
func (c *Connector) handleFsEvent(w *fsnotify.Watcher, event fsnotify.Event) (string, bool) {
	if isHidden(event.Name) {
		return "", false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) && w != nil {
			if err := addRecursive(w, event.Name); err != nil {
				logger.Warn("watching %s: %v", event.Name, err)
			}
		}
		return "", false
	}
	if !c.matches(event.Name) {
		return "", false
	}
	return event.Name, true
}

func (c *Connector) matches(path string) bool {
	return slices.Contains(c.extensions, strings.ToLower(filepath.Ext(path)))
}

func addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(path) {
			return fs.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// isHidden reports whether the last element of path starts with a dot.
func isHidden(path string) bool {
	base := filepath.Base(path)
	return len(base) > 1 && strings.HasPrefix(base, ".") && base != ".."
}
