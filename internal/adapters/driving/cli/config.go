package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/conllu-cli/internal/core/domain"
)

var settingsOnly = map[string]string{annotationSettingsOnly: "true"}

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Manage application settings",
	Long:        `View and change how files are discovered, repaired and stored.`,
	Annotations: settingsOnly,
	RunE:        runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current settings",
	Args:        cobra.NoArgs,
	Annotations: settingsOnly,
	RunE:        runConfigShow,
}

var configListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List every setting key with its effective value",
	Args:        cobra.NoArgs,
	Annotations: settingsOnly,
	RunE:        runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:         "get <key>",
	Short:       "Print the effective value of one setting",
	Args:        cobra.ExactArgs(1),
	Annotations: settingsOnly,
	RunE:        runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting. Values are validated before they are saved.

Keys:
  corpus.source        provenance tag for loaded documents
  corpus.extensions    comma-separated list, e.g. .conllu,.conll
  corpus.workers       files parsed in parallel (>= 1)
  normalise.boundary   strict | legacy
  normalise.on_load    true | false
  storage.backend      sqlite | memory
  storage.dir          sqlite data directory`,
	Args:        cobra.ExactArgs(2),
	Annotations: settingsOnly,
	RunE:        runConfigSet,
}

var configWizardCmd = &cobra.Command{
	Use:         "wizard",
	Short:       "Interactive setup wizard",
	Long:        `Run an interactive wizard to configure all settings step by step.`,
	Args:        cobra.NoArgs,
	Annotations: settingsOnly,
	RunE:        runConfigWizard,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configWizardCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	exts := settings.Corpus.Extensions
	if len(exts) == 0 {
		exts = domain.DefaultExtensions
	}
	dir := settings.Storage.Dir
	if dir == "" {
		dir = "(default)"
	}

	cmd.Println(summaryBox("Settings", [][2]string{
		{"Source", settings.Corpus.Source},
		{"Extensions", strings.Join(exts, ", ")},
		{"Workers", strconv.Itoa(settings.Corpus.Workers)},
		{"Boundary", settings.Normalise.Boundary.Description()},
		{"Normalise on load", yesNo(settings.Normalise.OnLoad)},
		{"Storage", string(settings.Storage.Backend)},
		{"Data dir", dir},
	}))
	if path := settingsService.Path(); path != "" {
		cmd.Printf("Config file: %s\n", path)
	}
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	values, err := settingsService.Values()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	rows := make([][]string, 0, len(values))
	for _, v := range values {
		origin := ""
		if v.IsDefault {
			origin = "(default)"
		}
		rows = append(rows, []string{v.Key, v.Value, origin})
	}
	cmd.Println(renderTable([]string{"KEY", "VALUE", ""}, rows))
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	values, err := settingsService.Values()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	for _, v := range values {
		if v.Key == args[0] {
			cmd.Println(v.Value)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, args[0])
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetValue(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func runConfigWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("CoNLL-U Settings Wizard")
	cmd.Println("=======================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Document source")
	cmd.Println("-----------------------")
	cmd.Printf("Source tag [%s]: ", settings.Corpus.Source)
	if input := readLine(reader); input != "" {
		settings.Corpus.Source = input
	}
	cmd.Println()

	cmd.Println("Step 2: Parallel workers")
	cmd.Println("------------------------")
	cmd.Printf("Files parsed at once [%d]: ", settings.Corpus.Workers)
	if input := readLine(reader); input != "" {
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 {
			cmd.Printf("Ignoring %q, keeping %d\n", input, settings.Corpus.Workers)
		} else {
			settings.Corpus.Workers = n
		}
	}
	cmd.Println()

	cmd.Println("Step 3: Wrapped text boundary")
	cmd.Println("-----------------------------")
	boundaries := []domain.Boundary{domain.BoundaryStrict, domain.BoundaryLegacy}
	current := 1
	for i, b := range boundaries {
		cmd.Printf("  %d. %s\n", i+1, b.Description())
		if b == settings.Normalise.Boundary {
			current = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", current)
	settings.Normalise.Boundary = boundaries[parseChoice(readLine(reader), len(boundaries), current)-1]
	cmd.Println()

	cmd.Println("Step 4: Repair on load")
	cmd.Println("----------------------")
	cmd.Println("  1. Yes, normalise text in memory before parsing")
	cmd.Println("  2. No, parse files as they are")
	current = 2
	if settings.Normalise.OnLoad {
		current = 1
	}
	cmd.Printf("\nEnter choice [%d]: ", current)
	settings.Normalise.OnLoad = parseChoice(readLine(reader), 2, current) == 1
	cmd.Println()

	cmd.Println("Step 5: Storage")
	cmd.Println("---------------")
	backends := []domain.StorageBackend{domain.StorageSQLite, domain.StorageMemory}
	current = 1
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b)
		if b == settings.Storage.Backend {
			current = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", current)
	settings.Storage.Backend = backends[parseChoice(readLine(reader), len(backends), current)-1]
	cmd.Println()

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Settings saved.")
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
