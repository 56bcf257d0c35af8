package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
)

var watchInitial bool

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Reload CoNLL-U files into the store as they change",
	Long: `Watches a directory and re-parses files as they are written.

Existing files are loaded first (disable with --initial=false). A changed
file keeps its document id; a new file gets the next free id. Files are
repaired in memory when normalise.on_load is set and never rewritten.

Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchInitial, "initial", true, "load existing files before watching")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	nextDocID, err := startID(cmd, 0)
	if err != nil {
		return err
	}

	if watchInitial {
		report, _, err := corpusService.Load(ctx, args[0], nextDocID, domain.LoadOptions{Workers: globalOpts.Workers})
		if err != nil {
			return fmt.Errorf("initial load failed: %w", err)
		}
		cmd.Printf("Loaded %d documents from %s\n", report.Run.Documents, args[0])
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[0])
	err = corpusService.Watch(ctx, args[0], nextDocID, func(result *domain.ParseResult, err error) {
		if err != nil {
			cmd.PrintErrf("error: %v\n", err)
			return
		}
		doc := result.Document
		cmd.Printf("Reloaded %s as document %d: %d sentences, %d tokens, %d diagnostics\n",
			doc.Filename, doc.ID, len(doc.Sentences), doc.TokenCount(), len(result.Diagnostics))
	})
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
