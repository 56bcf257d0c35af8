package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
)

var loadStartID int

var loadCmd = &cobra.Command{
	Use:   "load <dir>",
	Short: "Parse every CoNLL-U file under a directory into the store",
	Long: `Parses every CoNLL-U file under a directory and stores the documents.

Files are numbered in sorted path order, continuing after the highest
document id already stored, so repeated loads never reuse an id. The
numbering is the same whatever --workers is set to.

Unreadable files are reported and skipped; their id is left unused.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().IntVar(&loadStartID, "start-id", 0, "first document id (default: after the highest stored id)")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}

	nextDocID, err := startID(cmd, loadStartID)
	if err != nil {
		return err
	}

	progress := newProgressReporter(cmd.OutOrStdout(), "Loading")
	report, next, err := corpusService.Load(cmd.Context(), args[0], nextDocID, domain.LoadOptions{
		Workers:    globalOpts.Workers,
		OnProgress: progress.Func(),
	})
	progress.Stop()
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	run := report.Run
	ids := "none"
	if run.Documents > 0 {
		ids = fmt.Sprintf("%d-%d", run.FirstDocID, next-1)
	}
	cmd.Println(summaryBox("Load", [][2]string{
		{"Run", run.ID},
		{"Directory", args[0]},
		{"Source", run.Source},
		{"Documents", strconv.Itoa(run.Documents)},
		{"Ids", ids},
		{"Sentences", strconv.Itoa(run.Sentences)},
		{"Tokens", strconv.Itoa(run.Tokens)},
		{"Diagnostics", strconv.Itoa(run.Diagnostics)},
		{"Skipped", strconv.Itoa(run.Failures)},
		{"Took", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()},
	}))

	listDiagnostics(cmd.OutOrStdout(), "Skipped files", report.Failures)
	listDiagnostics(cmd.OutOrStdout(), "Diagnostics", report.Diagnostics)
	return nil
}

// startID returns the explicit id, or the one after the highest stored id.
func startID(cmd *cobra.Command, explicit int) (int, error) {
	if explicit > 0 {
		return explicit, nil
	}
	if explicit < 0 {
		return 0, fmt.Errorf("%w: --start-id must be positive", domain.ErrInvalidInput)
	}
	if documentService == nil {
		return 1, nil
	}
	next, err := documentService.NextDocID(cmd.Context())
	if err != nil {
		return 0, fmt.Errorf("failed to read next document id: %w", err)
	}
	return next, nil
}
