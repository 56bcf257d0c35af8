package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/conllu-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/conllu-cli/internal/core/domain"
)

// maxListedDiagnostics caps the diagnostics printed after a batch.
const maxListedDiagnostics = 20

var outStyles = styles.DefaultStyles()

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// summaryBox renders label/value pairs in a bordered box.
func summaryBox(title string, rows [][2]string) string {
	width := 0
	for _, row := range rows {
		width = max(width, len(row[0]))
	}

	body := outStyles.Title.Render(title) + "\n"
	for _, row := range rows {
		body += "\n" + outStyles.Muted.Render(fmt.Sprintf("%-*s", width, row[0])) + "  " + row[1]
	}
	return outStyles.Border.Render(body)
}

// listDiagnostics prints up to maxListedDiagnostics entries.
func listDiagnostics(w io.Writer, heading string, diags []domain.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s (%d):\n", heading, len(diags))
	for i, d := range diags {
		if i == maxListedDiagnostics {
			fmt.Fprintf(w, "  ... %d more (use --verbose to see all)\n", len(diags)-i)
			return
		}
		fmt.Fprintf(w, "  %s\n", outStyles.Warning.Render(d.Error()))
	}
}

// renderTable draws rows under headers with a plain border.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(outStyles.Muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return outStyles.Header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}

func parseID(arg, what string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", domain.ErrInvalidInput, what, arg)
	}
	return id, nil
}
