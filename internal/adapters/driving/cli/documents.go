package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/conllu-cli/internal/parsers/conllu"
)

var (
	listJSON bool
	showJSON bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <doc-id> [sent-id]",
	Short: "Print a stored document or sentence",
	Long: `Prints a stored document, or one of its sentences, as CoNLL-U.
Use --json for the parsed tree instead.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <doc-id>",
	Short: "Remove a stored document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	if listJSON {
		return writeJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents stored. Run 'conllu load <dir>' first.")
		return nil
	}

	rows := make([][]string, len(docs))
	for i := range docs {
		rows[i] = []string{strconv.Itoa(docs[i].ID), docs[i].Filename, docs[i].Source}
	}
	cmd.Println(renderTable([]string{"ID", "FILE", "SOURCE"}, rows))
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID, err := parseID(args[0], "document id")
	if err != nil {
		return err
	}

	if len(args) == 2 {
		sentID, err := parseID(args[1], "sentence id")
		if err != nil {
			return err
		}
		sent, err := documentService.Sentence(cmd.Context(), docID, sentID)
		if err != nil {
			return fmt.Errorf("failed to get sentence %d of document %d: %w", sentID, docID, err)
		}
		if showJSON {
			return writeJSON(cmd, sent)
		}
		cmd.Print(conllu.FormatSentence(sent))
		return nil
	}

	doc, err := documentService.Get(cmd.Context(), docID)
	if err != nil {
		return fmt.Errorf("failed to get document %d: %w", docID, err)
	}
	if showJSON {
		return writeJSON(cmd, doc)
	}
	return conllu.Format(cmd.OutOrStdout(), doc)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID, err := parseID(args[0], "document id")
	if err != nil {
		return err
	}
	if err := documentService.Delete(cmd.Context(), docID); err != nil {
		return fmt.Errorf("failed to delete document %d: %w", docID, err)
	}
	cmd.Printf("Document %d deleted.\n", docID)
	return nil
}
