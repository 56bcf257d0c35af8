package domain

const unknownDescription = "Unknown"

// Boundary selects how the end of a wrapped "# text" comment is detected.
type Boundary string

// Available boundary modes.
const (
	// BoundaryStrict ends a wrapped comment at a blank line, any token
	// line (including multiword spans and empty nodes) or another comment.
	BoundaryStrict Boundary = "strict"

	// BoundaryLegacy ends a wrapped comment only at a line starting with
	// "1" and a tab, or at end of input.
	BoundaryLegacy Boundary = "legacy"
)

// IsValid returns true if the boundary mode is recognised.
func (b Boundary) IsValid() bool {
	switch b {
	case BoundaryStrict, BoundaryLegacy:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b Boundary) String() string {
	return string(b)
}

// Description returns a human-readable description of the mode.
func (b Boundary) Description() string {
	switch b {
	case BoundaryStrict:
		return "Strict (blank line, token line or comment ends a wrapped text)"
	case BoundaryLegacy:
		return "Legacy (only a \"1<TAB>\" line ends a wrapped text)"
	default:
		return unknownDescription
	}
}

// DefaultExtensions are the file extensions treated as CoNLL-U.
var DefaultExtensions = []string{".conllu", ".conll"}

// StorageBackend selects where loaded documents are persisted.
type StorageBackend string

// Available storage backends.
const (
	StorageSQLite StorageBackend = "sqlite"
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (s StorageBackend) IsValid() bool {
	return s == StorageSQLite || s == StorageMemory
}

// Settings is the application configuration.
type Settings struct {
	Corpus    CorpusSettings
	Normalise NormaliseSettings
	Storage   StorageSettings
}

// CorpusSettings controls discovery and document provenance.
type CorpusSettings struct {
	// Source is the provenance tag assigned to loaded documents.
	Source string

	// Extensions restricts discovery to these extensions.
	// Empty means ".conllu" and ".conll".
	Extensions []string

	// Workers is the number of files parsed in parallel.
	Workers int
}

// NormaliseSettings controls text repair.
type NormaliseSettings struct {
	Boundary Boundary

	// OnLoad repairs text in memory before parsing it.
	OnLoad bool
}

// StorageSettings controls persistence of loaded documents.
type StorageSettings struct {
	Backend StorageBackend

	// Dir is the sqlite data directory. Empty means ~/.conllu/data.
	Dir string
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() *Settings {
	return &Settings{
		Corpus: CorpusSettings{
			Source:  DefaultSource,
			Workers: 1,
		},
		Normalise: NormaliseSettings{
			Boundary: BoundaryStrict,
			OnLoad:   true,
		},
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
	}
}

// Setting is one configuration key with its effective value.
type Setting struct {
	Key   string
	Value string

	// IsDefault is set when the key is absent from the configuration.
	IsDefault bool
}
