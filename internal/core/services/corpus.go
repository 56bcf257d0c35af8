package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
	"github.com/custodia-labs/conllu-cli/internal/core/ports/driven"
	"github.com/custodia-labs/conllu-cli/internal/core/ports/driving"
	"github.com/custodia-labs/conllu-cli/internal/logger"
)

// Ensure CorpusService implements the interface.
var _ driving.CorpusService = (*CorpusService)(nil)

// DefaultWatchInterval is the minimum spacing between reloads while watching.
const DefaultWatchInterval = 200 * time.Millisecond

// CorpusConfig holds the settings the corpus service runs with.
type CorpusConfig struct {
	// Source is the provenance tag assigned to parsed documents.
	Source string

	// NormaliseOnLoad repairs text in memory before it is parsed.
	NormaliseOnLoad bool

	// Workers is used when LoadOptions.Workers is not set.
	Workers int

	// WatchInterval limits how often changed files are reloaded.
	WatchInterval time.Duration
}

// CorpusService repairs and loads CoNLL-U corpora.
type CorpusService struct {
	normaliser driven.Normaliser
	parser     driven.Parser
	files      driven.FileEnumerator
	texts      driven.TextStore
	watcher    driven.Watcher
	store      driven.CorpusStore
	cfg        CorpusConfig

	newRunID func() string
	now      func() time.Time
}

// NewCorpusService creates a new corpus service.
// The watcher and store are optional: without a watcher Watch is
// unavailable, and without a store loaded documents are not persisted.
func NewCorpusService(
	normaliser driven.Normaliser,
	parser driven.Parser,
	files driven.FileEnumerator,
	texts driven.TextStore,
	watcher driven.Watcher,
	store driven.CorpusStore,
	cfg CorpusConfig,
) *CorpusService {
	if cfg.Source == "" {
		cfg.Source = domain.DefaultSource
	}
	if cfg.WatchInterval <= 0 {
		cfg.WatchInterval = DefaultWatchInterval
	}
	return &CorpusService{
		normaliser: normaliser,
		parser:     parser,
		files:      files,
		texts:      texts,
		watcher:    watcher,
		store:      store,
		cfg:        cfg,
		newRunID:   uuid.NewString,
		now:        time.Now,
	}
}

// Normalise repairs raw text without touching any file.
func (s *CorpusService) Normalise(text string) string {
	if s.normaliser == nil {
		return text
	}
	return s.normaliser.Normalise(text)
}

// Parse decodes text into a document tagged with the configured source.
func (s *CorpusService) Parse(docID int, filename, text string) (*domain.ParseResult, error) {
	if s.parser == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.parser.Parse(docID, filename, s.cfg.Source, text)
}

// FixFile repairs one file in place and reports whether it changed.
func (s *CorpusService) FixFile(ctx context.Context, locator string) (bool, error) {
	return s.fixFile(ctx, locator, false)
}

func (s *CorpusService) fixFile(ctx context.Context, locator string, dryRun bool) (bool, error) {
	if s.texts == nil {
		return false, domain.ErrNotImplemented
	}

	text, err := s.texts.ReadText(ctx, locator)
	if err != nil {
		return false, err
	}
	repaired := s.Normalise(text)
	if repaired == text {
		return false, nil
	}
	if dryRun {
		return true, nil
	}
	if err := s.texts.WriteText(ctx, locator, repaired); err != nil {
		return false, err
	}
	return true, nil
}

// Fix repairs every file under root. A file that cannot be read or written
// is recorded as a failure and the batch continues.
func (s *CorpusService) Fix(ctx context.Context, root string, opts domain.FixOptions) (*domain.FixReport, error) {
	if s.files == nil || s.texts == nil {
		return nil, domain.ErrNotImplemented
	}

	logger.Section("Fix")
	locators, err := s.files.Enumerate(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", root, err)
	}
	logger.Info("Fixing %d files under %s with %s", len(locators), root, s.normaliserName())

	report := &domain.FixReport{Files: len(locators)}
	for i, locator := range locators {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		changed, err := s.fixFile(ctx, locator, opts.DryRun)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case err != nil:
			d := fileFailure(locator, 0, err)
			logger.Diagnostic(d)
			report.Failures = append(report.Failures, d)
		case changed:
			logger.Debug("repaired %s", locator)
			report.Changed = append(report.Changed, locator)
		}

		if opts.OnProgress != nil {
			opts.OnProgress(i+1, len(locators), s.displayName(locator))
		}
	}

	logger.Info("Fix complete: %d changed, %d failed", len(report.Changed), len(report.Failures))
	return report, nil
}

// LoadFile reads, repairs and parses one file as the document docID.
func (s *CorpusService) LoadFile(ctx context.Context, locator string, docID int) (*domain.ParseResult, error) {
	if s.texts == nil || s.parser == nil {
		return nil, domain.ErrNotImplemented
	}

	text, err := s.texts.ReadText(ctx, locator)
	if err != nil {
		return nil, err
	}
	if s.cfg.NormaliseOnLoad {
		text = s.Normalise(text)
	}
	return s.parser.Parse(docID, s.displayName(locator), s.cfg.Source, text)
}

// loadJob is one file of a batch with its pre-assigned document id.
type loadJob struct {
	locator string
	docID   int
}

// loadOutcome is the result of one loadJob.
type loadOutcome struct {
	result *domain.ParseResult
	err    error
}

// Load parses every file under root. Document ids are assigned from
// nextDocID in sorted locator order before any worker starts, so the same
// tree yields the same ids for any number of workers. A file that fails
// keeps its id unused. The returned int is the next unassigned id.
func (s *CorpusService) Load(
	ctx context.Context,
	root string,
	nextDocID int,
	opts domain.LoadOptions,
) (*domain.LoadReport, int, error) {
	if s.files == nil || s.texts == nil || s.parser == nil {
		return nil, nextDocID, domain.ErrNotImplemented
	}

	logger.Section("Load")
	started := s.now()

	locators, err := s.files.Enumerate(ctx, root)
	if err != nil {
		return nil, nextDocID, fmt.Errorf("enumerate %s: %w", root, err)
	}

	jobs := make([]loadJob, len(locators))
	for i, locator := range locators {
		jobs[i] = loadJob{locator: locator, docID: nextDocID + i}
	}

	workers := s.workerCount(opts.Workers, len(jobs))
	logger.Info("Loading %d files under %s with %d workers", len(jobs), root, workers)

	outcomes := s.runJobs(ctx, jobs, workers, opts.OnProgress)
	if err := ctx.Err(); err != nil {
		return nil, nextDocID, err
	}

	report := &domain.LoadReport{}
	for i, out := range outcomes {
		job := jobs[i]
		if out.err != nil {
			d := fileFailure(job.locator, job.docID, out.err)
			logger.Diagnostic(d)
			report.Failures = append(report.Failures, d)
			continue
		}
		logger.Diagnostics(out.result.Diagnostics)
		report.Documents = append(report.Documents, out.result.Document)
		report.Diagnostics = append(report.Diagnostics, out.result.Diagnostics...)
	}

	next := nextDocID + len(jobs)
	report.Run = s.summarise(root, nextDocID, next, started, report)

	if err := s.persist(ctx, report); err != nil {
		return nil, nextDocID, err
	}

	logger.Info("Load complete: %d documents, %d sentences, %d tokens, %d diagnostics, %d failures",
		report.Run.Documents, report.Run.Sentences, report.Run.Tokens,
		report.Run.Diagnostics, report.Run.Failures)
	return report, next, nil
}

// runJobs loads jobs on a bounded pool of workers. Outcomes are returned in
// job order; workers never share an entity.
func (s *CorpusService) runJobs(
	ctx context.Context,
	jobs []loadJob,
	workers int,
	onProgress domain.ProgressFunc,
) []loadOutcome {
	outcomes := make([]loadOutcome, len(jobs))
	indexes := make(chan int)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				job := jobs[i]
				result, err := s.LoadFile(ctx, job.locator, job.docID)
				outcomes[i] = loadOutcome{result: result, err: err}

				if onProgress != nil {
					mu.Lock()
					done++
					onProgress(done, len(jobs), s.displayName(job.locator))
					mu.Unlock()
				}
			}
		}()
	}

feed:
	for i := range jobs {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	return outcomes
}

func (s *CorpusService) summarise(
	root string,
	first, next int,
	started time.Time,
	report *domain.LoadReport,
) domain.LoadRun {
	run := domain.LoadRun{
		ID:          s.newRunID(),
		Root:        root,
		Source:      s.cfg.Source,
		FirstDocID:  first,
		NextDocID:   next,
		Documents:   len(report.Documents),
		Diagnostics: len(report.Diagnostics),
		Failures:    len(report.Failures),
		StartedAt:   started,
		FinishedAt:  s.now(),
	}
	for _, doc := range report.Documents {
		run.Sentences += len(doc.Sentences)
		run.Tokens += doc.TokenCount()
	}
	return run
}

// persist saves the documents and the run record when a store is configured.
func (s *CorpusService) persist(ctx context.Context, report *domain.LoadReport) error {
	if s.store == nil {
		return nil
	}
	for _, doc := range report.Documents {
		if err := s.store.SaveDocument(ctx, doc); err != nil {
			return fmt.Errorf("save document %d: %w", doc.ID, err)
		}
	}

	diags := make([]domain.Diagnostic, 0, len(report.Failures)+len(report.Diagnostics))
	diags = append(diags, report.Failures...)
	diags = append(diags, report.Diagnostics...)
	if err := s.store.SaveRun(ctx, report.Run, diags); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// Watch reloads files under root as they change, until ctx is cancelled.
// Files present when watching starts keep the ids Load(root, nextDocID)
// would give them; new files are numbered after those. onLoad receives
// each reload, or the error that prevented it.
func (s *CorpusService) Watch(
	ctx context.Context,
	root string,
	nextDocID int,
	onLoad func(*domain.ParseResult, error),
) error {
	if s.watcher == nil || s.files == nil || s.texts == nil || s.parser == nil {
		return domain.ErrNotImplemented
	}
	if onLoad == nil {
		onLoad = func(*domain.ParseResult, error) {}
	}

	locators, err := s.files.Enumerate(ctx, root)
	if err != nil {
		return fmt.Errorf("enumerate %s: %w", root, err)
	}
	ids := make(map[string]int, len(locators))
	for i, locator := range locators {
		ids[locator] = nextDocID + i
	}
	next := nextDocID + len(locators)

	// Unchanged content (a create followed by a write, or a touch) is skipped.
	seen := make(map[string]uint64)
	limiter := rate.NewLimiter(rate.Every(s.cfg.WatchInterval), 1)

	logger.Section("Watch")
	logger.Info("Watching %s (%d files, next id %d)", root, len(locators), next)

	var lastErr error
	changes, errs := s.watcher.Watch(ctx, root)
	for {
		select {
		case <-ctx.Done():
			return nil
		case locator, ok := <-changes:
			if !ok {
				return watchStopped(ctx, errs, lastErr)
			}
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}

			id, known := ids[locator]
			if !known {
				id = next
				ids[locator] = id
				next++
			}

			result, err := s.reload(ctx, locator, id, seen)
			if err != nil {
				d := fileFailure(locator, id, err)
				logger.Diagnostic(d)
				onLoad(nil, d)
				continue
			}
			if result != nil {
				onLoad(result, nil)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watch error: %v", err)
			lastErr = err
			onLoad(nil, err)
		}
	}
}

// watchStopped returns the error that ended watching, if it ended before ctx.
func watchStopped(ctx context.Context, errs <-chan error, lastErr error) error {
	if ctx.Err() != nil {
		return nil
	}
	if errs != nil {
		for err := range errs {
			if err != nil {
				lastErr = err
			}
		}
	}
	return lastErr
}

// reload parses and stores one changed file. It returns nil, nil when the
// content is the same as the last successful reload.
func (s *CorpusService) reload(
	ctx context.Context,
	locator string,
	docID int,
	seen map[string]uint64,
) (*domain.ParseResult, error) {
	text, err := s.texts.ReadText(ctx, locator)
	if err != nil {
		return nil, err
	}
	sum := checksum(text)
	if prev, ok := seen[locator]; ok && prev == sum {
		logger.Debug("unchanged %s", locator)
		return nil, nil
	}

	if s.cfg.NormaliseOnLoad {
		text = s.Normalise(text)
	}
	result, err := s.parser.Parse(docID, s.displayName(locator), s.cfg.Source, text)
	if err != nil {
		return nil, err
	}
	logger.Diagnostics(result.Diagnostics)

	if s.store != nil {
		if err := s.store.SaveDocument(ctx, result.Document); err != nil {
			return nil, fmt.Errorf("save document %d: %w", docID, err)
		}
	}
	seen[locator] = sum
	logger.Info("Reloaded %s as document %d", locator, docID)
	return result, nil
}

func (s *CorpusService) workerCount(requested, jobs int) int {
	n := requested
	if n < 1 {
		n = s.cfg.Workers
	}
	if n < 1 {
		n = 1
	}
	if jobs > 0 && n > jobs {
		n = jobs
	}
	return n
}

func (s *CorpusService) displayName(locator string) string {
	if s.texts == nil {
		return locator
	}
	return s.texts.DisplayName(locator)
}

func (s *CorpusService) normaliserName() string {
	if s.normaliser == nil {
		return "no normaliser"
	}
	return s.normaliser.Name()
}

// fileFailure records a file that was skipped as a whole.
func fileFailure(locator string, docID int, err error) domain.Diagnostic {
	return domain.Diagnostic{
		Kind:     domain.KindFileAccess,
		Filename: locator,
		DocID:    docID,
		Message:  err.Error(),
	}
}

func checksum(text string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	return h.Sum64()
}
