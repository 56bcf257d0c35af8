package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List load runs, or the diagnostics of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if len(args) == 1 {
		diags, err := documentService.RunDiagnostics(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get diagnostics: %w", err)
		}
		if len(diags) == 0 {
			cmd.Printf("Run %s recorded no diagnostics.\n", args[0])
			return nil
		}
		for _, d := range diags {
			cmd.Printf("[%s] %s\n", d.Kind, d.Error())
		}
		return nil
	}

	runs, err := documentService.Runs(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No load runs recorded.")
		return nil
	}

	rows := make([][]string, len(runs))
	for i, run := range runs {
		rows[i] = []string{
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Root,
			strconv.Itoa(run.Documents),
			fmt.Sprintf("%d-%d", run.FirstDocID, max(run.NextDocID-1, run.FirstDocID)),
			strconv.Itoa(run.Diagnostics),
			strconv.Itoa(run.Failures),
		}
	}
	cmd.Println(renderTable([]string{"RUN", "STARTED", "DIRECTORY", "DOCS", "IDS", "DIAGS", "SKIPPED"}, rows))
	return nil
}
