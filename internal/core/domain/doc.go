// Package domain defines the core entities of the corpus loader.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: One parsed CoNLL-U file
//   - Sentence: A blank-line-delimited block of a document
//   - Token: One token line of a sentence
//   - FieldSet: The decoded annotation columns of a token
//   - Diagnostic: A recovered parse or access condition
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
