package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var normaliseCmd = &cobra.Command{
	Use:     "normalise <file|->",
	Aliases: []string{"normalize"},
	Short:   "Print a repaired copy of a CoNLL-U file",
	Long: `Prints the repaired text of one file to standard output without
modifying it. Use "-" to read from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalise,
}

func init() {
	rootCmd.AddCommand(normaliseCmd)
}

func runNormalise(cmd *cobra.Command, args []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}

	text, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	cmd.Print(corpusService.Normalise(text))
	return nil
}

// readInput reads a file, or standard input for "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
