package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
)

var fixDryRun bool

var fixCmd = &cobra.Command{
	Use:   "fix <dir>",
	Short: "Repair CoNLL-U files in place",
	Long: `Repairs every CoNLL-U file under a directory:

  - "# text" comments wrapped across lines are joined back into one line
  - non-breaking spaces become plain spaces
  - runs of spaces collapse to one

Files that cannot be read or written are reported and skipped.
Use --dry-run to list the files that would change without writing them.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().BoolVarP(&fixDryRun, "dry-run", "n", false, "report changes without writing files")
	rootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}

	progress := newProgressReporter(cmd.OutOrStdout(), "Fixing")
	report, err := corpusService.Fix(cmd.Context(), args[0], domain.FixOptions{
		DryRun:     fixDryRun,
		OnProgress: progress.Func(),
	})
	progress.Stop()
	if err != nil {
		return fmt.Errorf("fix failed: %w", err)
	}

	changedLabel := "Changed"
	if fixDryRun {
		changedLabel = "Would change"
	}
	cmd.Println(summaryBox("Fix", [][2]string{
		{"Directory", args[0]},
		{"Files", strconv.Itoa(report.Files)},
		{changedLabel, strconv.Itoa(len(report.Changed))},
		{"Skipped", strconv.Itoa(len(report.Failures))},
	}))

	if len(report.Changed) > 0 {
		cmd.Println()
		for _, locator := range report.Changed {
			cmd.Printf("  %s\n", locator)
		}
	}
	listDiagnostics(cmd.OutOrStdout(), "Skipped files", report.Failures)
	return nil
}
