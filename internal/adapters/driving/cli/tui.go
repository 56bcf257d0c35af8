package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui"
)

// browseCmd launches the terminal corpus browser.
var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"tui"},
	Short:   "Browse stored documents in the terminal UI",
	Long: `Launch the interactive terminal browser for stored documents.

Controls:
  ↑/k, ↓/j   - Navigate
  Enter      - Open document / sentence
  Esc        - Back
  r          - Reload documents
  x          - Delete document
  ?          - Toggle help
  q          - Quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if documentService == nil {
		return errors.New("document service not configured")
	}

	app, err := tui.NewApp(tui.NewPorts(documentService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
