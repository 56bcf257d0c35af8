package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
	"github.com/custodia-labs/conllu-cli/internal/parsers/conllu"
)

var (
	parseDocID  int
	parseJSON   bool
	parseCoNLLU bool
	parseRaw    bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file|->",
	Short: "Parse one CoNLL-U file and print a summary",
	Long: `Parses one file into a document without storing it.

By default a summary and the diagnostics are printed. Use --json for the
full document tree or --conllu to print it back out as CoNLL-U.
Use "-" to read from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().IntVar(&parseDocID, "doc-id", 1, "document id to assign")
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "print the document as JSON")
	parseCmd.Flags().BoolVar(&parseCoNLLU, "conllu", false, "print the document as CoNLL-U")
	parseCmd.Flags().BoolVar(&parseRaw, "raw", false, "do not repair standard input before parsing")
	parseCmd.MarkFlagsMutuallyExclusive("json", "conllu")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}
	if parseDocID < 1 {
		return fmt.Errorf("%w: --doc-id must be positive", domain.ErrInvalidInput)
	}

	result, err := parseInput(cmd, args[0])
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	doc := result.Document

	switch {
	case parseJSON:
		return writeJSON(cmd, doc)
	case parseCoNLLU:
		return conllu.Format(cmd.OutOrStdout(), doc)
	}

	cmd.Println(summaryBox(doc.Filename, [][2]string{
		{"Document", strconv.Itoa(doc.ID)},
		{"Source", doc.Source},
		{"Sentences", strconv.Itoa(len(doc.Sentences))},
		{"Tokens", strconv.Itoa(doc.TokenCount())},
		{"Diagnostics", strconv.Itoa(len(result.Diagnostics))},
	}))
	listDiagnostics(cmd.OutOrStdout(), "Diagnostics", result.Diagnostics)
	return nil
}

func parseInput(cmd *cobra.Command, path string) (*domain.ParseResult, error) {
	if path != "-" {
		result, err := corpusService.LoadFile(cmd.Context(), path, parseDocID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return result, nil
	}

	text, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	if !parseRaw {
		text = corpusService.Normalise(text)
	}
	return corpusService.Parse(parseDocID, "stdin", text)
}
