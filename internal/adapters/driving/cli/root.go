// Package cli provides the conllu command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/conllu-cli/internal/core/ports/driving"
	"github.com/custodia-labs/conllu-cli/internal/logger"
)

// annotationSettingsOnly marks commands that only need the settings service,
// so a broken corpus store never blocks fixing the configuration.
const annotationSettingsOnly = "conllu/settings-only"

// annotationNoServices marks commands that need no services at all.
const annotationNoServices = "conllu/no-services"

// Options are the global flags, passed to the ServiceFactory.
type Options struct {
	// ConfigDir overrides ~/.conllu.
	ConfigDir string

	// DataDir overrides the sqlite data directory.
	DataDir string

	// NoConfig ignores the config file and uses defaults.
	NoConfig bool

	// Memory keeps loaded documents in memory instead of sqlite.
	Memory bool

	// Source overrides the provenance tag.
	Source string

	// Workers overrides the number of parallel parse workers.
	Workers int

	// LegacyReflow selects the legacy wrapped-comment boundary.
	LegacyReflow bool

	// SettingsOnly is set for commands that only read or write settings.
	SettingsOnly bool
}

// Services are the driving ports used by the commands.
type Services struct {
	Corpus   driving.CorpusService
	Document driving.DocumentService
	Settings driving.SettingsService

	// Close releases the stores opened for the services. May be nil.
	Close func() error
}

// ServiceFactory builds the services for one invocation.
type ServiceFactory func(opts Options) (*Services, error)

var (
	version = "dev"

	factory       ServiceFactory
	closeServices func() error

	corpusService   driving.CorpusService
	documentService driving.DocumentService
	settingsService driving.SettingsService

	globalOpts Options
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "conllu",
	Short: "Repair, parse and browse CoNLL-U corpora",
	Long: `conllu repairs CoNLL-U treebank files whose "# text" comments were
wrapped across lines or contain stray spaces, and parses them into
documents, sentences and tokens.

Parsed corpora are stored in a local database and can be listed, shown,
browsed in a terminal UI or served to AI assistants over MCP.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "print progress and diagnostics")
	flags.StringVar(&globalOpts.ConfigDir, "config-dir", "", "configuration directory (default ~/.conllu)")
	flags.StringVar(&globalOpts.DataDir, "data-dir", "", "database directory (default ~/.conllu/data)")
	flags.BoolVar(&globalOpts.NoConfig, "no-config", false, "ignore the configuration file")
	flags.BoolVar(&globalOpts.Memory, "memory", false, "keep loaded documents in memory only")
	flags.StringVar(&globalOpts.Source, "source", "", "provenance tag for loaded documents")
	flags.IntVar(&globalOpts.Workers, "workers", 0, "files parsed in parallel")
	flags.BoolVar(&globalOpts.LegacyReflow, "legacy-reflow", false,
		`end wrapped "# text" comments only at a "1<TAB>" line`)
}

// SetServiceFactory sets how services are built before each command.
func SetServiceFactory(f ServiceFactory) {
	factory = f
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command and releases any opened stores.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext is Execute with a context that commands observe for
// cancellation.
func ExecuteContext(ctx context.Context) error {
	defer closeAll()
	return rootCmd.ExecuteContext(ctx)
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[annotationNoServices] == "true" {
		return nil
	}
	// Services injected directly are kept.
	if factory == nil || corpusService != nil || settingsService != nil {
		return nil
	}

	opts := globalOpts
	opts.SettingsOnly = cmd.Annotations[annotationSettingsOnly] == "true"

	svc, err := factory(opts)
	if err != nil {
		return err
	}
	corpusService = svc.Corpus
	documentService = svc.Document
	settingsService = svc.Settings
	closeServices = svc.Close
	return nil
}

func closeAll() {
	if closeServices != nil {
		if err := closeServices(); err != nil {
			logger.Warn("closing stores: %v", err)
		}
	}
	closeServices = nil
	corpusService = nil
	documentService = nil
	settingsService = nil
}
