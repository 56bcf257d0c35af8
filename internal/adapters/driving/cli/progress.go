package cli

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gosuri/uiprogress"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
	"github.com/custodia-labs/conllu-cli/internal/logger"
)

// progressLogInterval throttles progress lines when output is not a terminal.
const progressLogInterval = 2 * time.Second

// progressReporter shows batch progress as a bar on a terminal, or as
// occasional log lines otherwise.
type progressReporter struct {
	out         io.Writer
	label       string
	interactive bool

	mu       sync.Mutex
	progress *uiprogress.Progress
	bar      *uiprogress.Bar

	// current is read by the render goroutine.
	current atomic.Value

	sometimes rate.Sometimes
}

func newProgressReporter(out io.Writer, label string) *progressReporter {
	return &progressReporter{
		out:         out,
		label:       label,
		interactive: isTerminal(out),
		sometimes:   rate.Sometimes{First: 1, Interval: progressLogInterval},
	}
}

// Update implements domain.ProgressFunc.
func (p *progressReporter) Update(done, total int, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.interactive {
		p.sometimes.Do(func() {
			logger.Info("%s %d/%d: %s", p.label, done, total, name)
		})
		if done == total {
			logger.Info("%s %d/%d done", p.label, done, total)
		}
		return
	}

	if p.bar == nil {
		p.progress = uiprogress.New()
		p.progress.SetOut(p.out)
		p.bar = p.progress.AddBar(total)
		p.bar.AppendCompleted()
		p.bar.PrependElapsed()
		p.bar.PrependFunc(func(_ *uiprogress.Bar) string { return p.label })
		p.bar.AppendFunc(func(_ *uiprogress.Bar) string {
			name, _ := p.current.Load().(string)
			return name
		})
		p.progress.Start()
	}
	p.current.Store(name)
	_ = p.bar.Set(done)
}

// Func returns the reporter as a domain.ProgressFunc.
func (p *progressReporter) Func() domain.ProgressFunc {
	return p.Update
}

// Stop stops rendering the bar.
func (p *progressReporter) Stop() {
	p.mu.Lock()
	progress := p.progress
	p.mu.Unlock()
	if progress != nil {
		progress.Stop()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
